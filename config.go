package gateway

import "time"

// Config holds configuration for the Coordinator.
type Config struct {
	// NodeID is this process's zero-based index in the fleet.
	NodeID int

	// TotalNodes is the fleet size.
	TotalNodes int

	// TotalShards is the platform-assigned shard count for the bot.
	TotalShards int

	// MaxConcurrency is the platform's identify concurrency limit,
	// shared fleet-wide.
	MaxConcurrency int

	// Token is the bot token used for REST fallback lookups.
	Token string

	// ListenAddr is the coordination API listen address.
	ListenAddr string

	// EventTarget is the initial dispatch-event forwarding base URL.
	// Empty means events are dropped until a target is configured at
	// runtime.
	EventTarget string

	// GraceDelay is how long shutdown waits after broadcasting the
	// going-away presence before aborting shard tasks.
	GraceDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults for a single-node
// deployment.
func DefaultConfig() Config {
	return Config{
		NodeID:         0,
		TotalNodes:     1,
		TotalShards:    1,
		MaxConcurrency: 1,
		ListenAddr:     ":5000",
		GraceDelay:     2 * time.Second,
	}
}
