package cluster

import "errors"

// ErrInvalidTopology marks a fleet configuration that can never be valid.
// Callers treat it as fatal at startup.
var ErrInvalidTopology = errors.New("cluster: invalid topology")
