// Package identify rate-limits shard connection attempts across the whole
// fleet.
//
// Discord requires at least five seconds between identify calls within a
// max-concurrency bucket. Every process, before connecting a shard, must
// win a six-second lease on the bucket's key in the shared store; the lease
// is never released and no heartbeat exists — expiry alone spaces the
// identifies. Losing the race just means polling again half a second later.
package identify
