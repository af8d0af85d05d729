// Package health persists per-shard liveness and latency records in the
// shared store's "shardstatus" hash, one JSON-encoded field per shard.
//
// Records are read-modify-written without cross-call atomicity; that is
// sound because each shard id has exactly one writer, its own runner.
// Store failures are logged and swallowed — health reporting must never
// take a shard down.
package health
