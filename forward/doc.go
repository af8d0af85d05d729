// Package forward ships allow-listed gateway events to a downstream
// consumer over HTTP.
//
// Producers enqueue onto one bounded channel shared by every shard; a
// single consumer drains it in order. A full channel blocks the producing
// shard's read loop — deliberate backpressure, with the documented risk of
// heartbeat starvation under sustained downstream slowness. When no target
// is configured events are dropped before enqueueing. Delivery failures
// are logged and never retried.
package forward
