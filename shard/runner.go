package shard

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/PluralKit/PluralKit-sub000/awaiter"
	"github.com/PluralKit/PluralKit-sub000/backoff"
	"github.com/PluralKit/PluralKit-sub000/cache"
	"github.com/PluralKit/PluralKit-sub000/forward"
	"github.com/PluralKit/PluralKit-sub000/health"
	"github.com/PluralKit/PluralKit-sub000/identify"
)

// Deps are the collaborators a Runner updates per event.
type Deps struct {
	Dialer    Dialer
	Limiter   *identify.Limiter
	Health    *health.Tracker
	Cache     *cache.Store
	Awaits    *awaiter.Registry
	Deliverer *awaiter.Deliverer
	Forwarder *forward.Forwarder
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithRunnerLogger sets a custom logger.
func WithRunnerLogger(l *slog.Logger) RunnerOption {
	return func(r *Runner) { r.logger = l }
}

// WithReconnectBackoff sets the delay strategy between reconnect attempts.
func WithReconnectBackoff(s backoff.Strategy) RunnerOption {
	return func(r *Runner) { r.delay = s }
}

// Runner drives one shard for the process lifetime: admission, stream
// consumption, state updates, forwarding, reconnection.
type Runner struct {
	shardID     int
	totalShards int
	deps        Deps
	delay       backoff.Strategy
	logger      *slog.Logger

	mu   sync.Mutex
	conn Conn
}

// NewRunner creates a Runner for one shard id.
func NewRunner(shardID, totalShards int, deps Deps, opts ...RunnerOption) *Runner {
	r := &Runner{
		shardID:     shardID,
		totalShards: totalShards,
		deps:        deps,
		delay:       backoff.NewExponential(time.Second, 30*time.Second),
		logger:      slog.Default(),
	}
	for _, o := range opts {
		o(r)
	}
	r.logger = r.logger.With(slog.Int("shard_id", shardID))
	return r
}

// ShardID returns the shard this runner owns.
func (r *Runner) ShardID() int { return r.shardID }

// Run drives the shard until ctx is cancelled or the stream fails
// unrecoverably. On unrecoverable failure the shard stays offline until
// process restart — there is no task-level respawn.
func (r *Runner) Run(ctx context.Context) error {
	attempt := 0
	for {
		if err := r.deps.Limiter.Acquire(ctx, r.shardID); err != nil {
			return err
		}

		conn := r.deps.Dialer.Dial(r.shardID, r.totalShards)
		if err := conn.Open(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			r.logger.Error("shard stream failed unrecoverably; offline until restart",
				slog.String("error", err.Error()),
			)
			return fmt.Errorf("shard %d: open stream: %w", r.shardID, err)
		}
		r.setConn(conn)

		r.consume(ctx, conn)

		r.setConn(nil)
		closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		_ = conn.Close(closeCtx)
		cancel()

		if ctx.Err() != nil {
			return ctx.Err()
		}

		attempt++
		delay := r.delay.Delay(attempt)
		r.logger.Info("shard stream ended, reconnecting",
			slog.Duration("delay", delay),
			slog.Int("attempt", attempt),
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}

// Broadcast sends a command on the current connection, if one is up.
func (r *Runner) Broadcast(ctx context.Context, cmd Command) error {
	r.mu.Lock()
	conn := r.conn
	r.mu.Unlock()
	if conn == nil {
		return nil
	}
	return conn.Send(ctx, cmd)
}

func (r *Runner) setConn(c Conn) {
	r.mu.Lock()
	r.conn = c
	r.mu.Unlock()
}

// consume drains envelopes in receipt order until the stream ends or ctx
// is cancelled. A single envelope's processing error never ends the loop.
func (r *Runner) consume(ctx context.Context, conn Conn) {
	for {
		select {
		case <-ctx.Done():
			return
		case env, ok := <-conn.Events():
			if !ok {
				return
			}
			r.handle(ctx, env)
		}
	}
}

func (r *Runner) handle(ctx context.Context, env Envelope) {
	switch env.Kind {
	case EnvelopeConnected:
		r.deps.Health.RecordConnected(ctx, r.shardID, env.Resumed)

	case EnvelopeClosed:
		r.deps.Health.RecordClosed(ctx, r.shardID)
		r.logger.Info("shard stream closed", slog.Int("code", env.CloseCode))

	case EnvelopeHeartbeatAck:
		r.deps.Health.RecordHeartbeatAck(ctx, r.shardID, env.Latency)

	case EnvelopeDispatch:
		ev := env.Event
		r.deps.Cache.Apply(ev)

		if reg, ok := r.deps.Awaits.Match(ev); ok {
			// Delivery is network I/O; keep it off the read loop.
			go r.deps.Deliverer.Deliver(ctx, reg, ev)
		}

		if ev.Kind.Forwardable() {
			if err := r.deps.Forwarder.Enqueue(ctx, forward.Envelope{
				Shard: r.shardID,
				Kind:  ev.Kind,
				Event: ev.Raw,
			}); err != nil && ctx.Err() == nil {
				r.logger.Warn("event forward enqueue failed",
					slog.String("kind", string(ev.Kind)),
					slog.String("error", err.Error()),
				)
			}
		}
	}
}
