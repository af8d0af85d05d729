// Package gateway coordinates a fleet of Discord gateway processes: shard
// partitioning, fleet-wide identify admission, shard health tracking, a live
// object cache with permission resolution, cross-process event awaiting, and
// dispatch-event forwarding, all exposed over an HTTP coordination API.
//
// Gateway is designed as a library, not a framework. Construct a Coordinator
// with a shared store and a gateway dialer, then run it for the process
// lifetime:
//
//	c, err := gateway.New(
//	    gateway.WithStore(redisStore),
//	    gateway.WithDialer(dialer),
//	    gateway.WithConfig(cfg),
//	)
//	if err != nil { ... }
//	err = c.Run(ctx)
//
// # Architecture
//
// Each subsystem lives in its own package (cluster, identify, health, cache,
// awaiter, forward, shard, api) and is wired together here. The shared store
// is accessed concurrently by every process in the fleet; correctness
// depends only on the atomicity of its individual primitives, never on
// multi-key transactions.
package gateway
