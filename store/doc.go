// Package store defines the shared coordination store contract.
//
// The store is the only state shared across the gateway fleet. Correctness
// everywhere relies solely on the atomicity of the individual primitives —
// set-if-absent with TTL for identify leases, and hash field get/set for
// shard status and runtime config. No multi-key transactions exist anywhere
// in the design.
//
// Two implementations ship: store/redis for production and store/memory for
// tests and development.
package store
