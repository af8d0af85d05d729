// Package cluster computes which gateway shards a node owns.
//
// Discord grants identify concurrency in buckets of 16 shards, so nodes own
// contiguous 16-shard blocks: node n owns [n*16, n*16+16). Deployments with
// fewer than 16 total shards run a single node that owns everything.
package cluster
