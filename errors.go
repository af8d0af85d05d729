package gateway

import "errors"

var (
	// Wiring errors.
	ErrNoStore = errors.New("gateway: no store configured")

	// Lifecycle errors.
	ErrAlreadyRunning = errors.New("gateway: coordinator already running")
)
