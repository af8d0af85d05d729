package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/xraph/forge"

	"github.com/PluralKit/PluralKit-sub000/api"
	"github.com/PluralKit/PluralKit-sub000/awaiter"
	"github.com/PluralKit/PluralKit-sub000/cache"
	"github.com/PluralKit/PluralKit-sub000/cluster"
	"github.com/PluralKit/PluralKit-sub000/forward"
	"github.com/PluralKit/PluralKit-sub000/health"
	"github.com/PluralKit/PluralKit-sub000/id"
	"github.com/PluralKit/PluralKit-sub000/identify"
	"github.com/PluralKit/PluralKit-sub000/rest"
	"github.com/PluralKit/PluralKit-sub000/shard"
	"github.com/PluralKit/PluralKit-sub000/store"
)

// Coordinator owns one process's slice of the shard fleet and everything
// that hangs off it. Create one with New() and functional options, then
// call Run for the process lifetime.
type Coordinator struct {
	config Config
	logger *slog.Logger

	store  store.Store
	dialer shard.Dialer
	rest   *rest.Client
	router forge.Router

	owned   cluster.ShardRange
	cache   *cache.Store
	health  *health.Tracker
	limiter *identify.Limiter
	awaits  *awaiter.Registry
	deliver *awaiter.Deliverer
	fwd     *forward.Forwarder
	runners []*shard.Runner
	api     *api.API

	running atomic.Bool
}

// New creates a Coordinator with the given options and wires every
// subsystem. An invalid fleet topology is a construction error: a process
// that cannot know its shard slice must not come up at all.
func New(opts ...Option) (*Coordinator, error) {
	c := &Coordinator{
		config: DefaultConfig(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.store == nil {
		return nil, ErrNoStore
	}

	topo := cluster.Topology{
		NodeID:      c.config.NodeID,
		TotalNodes:  c.config.TotalNodes,
		TotalShards: c.config.TotalShards,
	}
	owned, err := topo.OwnedShards()
	if err != nil {
		return nil, err
	}
	c.owned = owned

	if c.rest == nil && c.config.Token != "" {
		c.rest = rest.New(c.config.Token, rest.WithLogger(c.logger))
	}

	cacheOpts := []cache.Option{cache.WithLogger(c.logger)}
	if c.rest != nil {
		cacheOpts = append(cacheOpts, cache.WithMemberSource(c.rest))
	}
	c.cache = cache.New(cacheOpts...)

	c.health = health.NewTracker(c.store, health.WithLogger(c.logger))
	c.limiter = identify.New(c.store, c.config.MaxConcurrency, id.NewNodeID().String(),
		identify.WithLogger(c.logger))
	c.awaits = awaiter.NewRegistry(awaiter.WithLogger(c.logger))
	c.deliver = awaiter.NewDeliverer(awaiter.WithDeliverLogger(c.logger))
	c.fwd = forward.New(c.config.EventTarget, forward.WithLogger(c.logger))

	if c.dialer != nil {
		deps := shard.Deps{
			Dialer:    c.dialer,
			Limiter:   c.limiter,
			Health:    c.health,
			Cache:     c.cache,
			Awaits:    c.awaits,
			Deliverer: c.deliver,
			Forwarder: c.fwd,
		}
		c.runners = make([]*shard.Runner, 0, owned.Count())
		for sid := owned.First; sid < owned.Last; sid++ {
			c.runners = append(c.runners, shard.NewRunner(sid, c.config.TotalShards, deps,
				shard.WithRunnerLogger(c.logger)))
		}
	}

	c.api = api.New(api.Deps{
		Cache:     c.cache,
		Awaits:    c.awaits,
		Health:    c.health,
		Config:    c.store,
		Forwarder: c.fwd,
	}, c.router)

	return c, nil
}

// Logger returns the coordinator's logger.
func (c *Coordinator) Logger() *slog.Logger { return c.logger }

// Config returns a copy of the coordinator's configuration.
func (c *Coordinator) Config() Config { return c.config }

// Cache returns the live object cache.
func (c *Coordinator) Cache() *cache.Store { return c.cache }

// OwnedShards returns the shard range this process drives.
func (c *Coordinator) OwnedShards() cluster.ShardRange { return c.owned }

// Handler returns the coordination API handler, for callers that serve it
// themselves instead of through Run.
func (c *Coordinator) Handler() http.Handler { return c.api.Handler() }

// Run drives the whole process: shard runners, the awaiter sweep, the
// forwarding consumer, and the coordination API server. It blocks until ctx
// is cancelled or the API server fails. Cancellation broadcasts a
// going-away presence to every shard, waits the configured grace delay,
// then aborts all tasks.
func (c *Coordinator) Run(ctx context.Context) error {
	if !c.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer c.running.Store(false)

	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("gateway: store unreachable: %w", err)
	}

	// Subsystem tasks outlive ctx by the grace delay, so they hang off a
	// separately cancelled context.
	runCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		c.awaits.Run(runCtx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		c.fwd.Run(runCtx)
	}()

	if len(c.runners) == 0 {
		c.logger.Warn("no dialer configured, shard tasks disabled")
	}
	for _, r := range c.runners {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := r.Run(runCtx); err != nil {
				c.logger.Error("shard runner exited", "shard_id", r.ShardID(), "error", err)
			}
		}()
	}

	srv := &http.Server{Addr: c.config.ListenAddr, Handler: c.api.Handler()}
	serveErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	c.logger.Info("gateway up",
		"node_id", c.config.NodeID,
		"shards_first", c.owned.First,
		"shards_last", c.owned.Last,
		"listen_addr", c.config.ListenAddr)

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-serveErr:
		c.logger.Error("api server failed", "error", runErr)
	}

	c.goAway()
	cancel()

	shutCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
	defer done()
	if err := srv.Shutdown(shutCtx); err != nil {
		c.logger.Warn("api server shutdown", "error", err)
	}

	wg.Wait()
	return runErr
}

// goAway broadcasts the going-away presence to every connected shard, then
// waits the grace delay so the writes can flush before tasks are aborted.
func (c *Coordinator) goAway() {
	bctx, done := context.WithTimeout(context.Background(), c.config.GraceDelay)
	defer done()

	for _, r := range c.runners {
		if err := r.Broadcast(bctx, shard.GoingAway()); err != nil {
			c.logger.Debug("going-away broadcast failed", "shard_id", r.ShardID(), "error", err)
		}
	}

	c.logger.Info("going away", "grace_delay", c.config.GraceDelay)
	time.Sleep(c.config.GraceDelay)
}
