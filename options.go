package gateway

import (
	"log/slog"

	"github.com/xraph/forge"

	"github.com/PluralKit/PluralKit-sub000/rest"
	"github.com/PluralKit/PluralKit-sub000/shard"
	"github.com/PluralKit/PluralKit-sub000/store"
)

// Option configures a Coordinator.
type Option func(*Coordinator) error

// WithConfig sets the coordinator configuration.
func WithConfig(cfg Config) Option {
	return func(c *Coordinator) error {
		c.config = cfg
		return nil
	}
}

// WithLogger sets the structured logger for the coordinator and every
// subsystem it wires.
func WithLogger(l *slog.Logger) Option {
	return func(c *Coordinator) error {
		c.logger = l
		return nil
	}
}

// WithStore sets the shared fleet store. Required.
func WithStore(s store.Store) Option {
	return func(c *Coordinator) error {
		c.store = s
		return nil
	}
}

// WithDialer sets the gateway connection dialer. Without one the
// coordinator runs no shard tasks and serves the coordination surface only.
func WithDialer(d shard.Dialer) Option {
	return func(c *Coordinator) error {
		c.dialer = d
		return nil
	}
}

// WithRESTClient sets the REST client used for member fallback lookups.
// When unset, one is built from Config.Token; with neither, permission
// queries for uncached members fail.
func WithRESTClient(rc *rest.Client) Option {
	return func(c *Coordinator) error {
		c.rest = rc
		return nil
	}
}

// WithRouter sets a pre-built Forge router for the coordination API, for
// embedding into a larger application.
func WithRouter(r forge.Router) Option {
	return func(c *Coordinator) error {
		c.router = r
		return nil
	}
}
