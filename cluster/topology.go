package cluster

import "fmt"

// BlockSize is the number of shards per node, matching Discord's
// max-concurrency bucketing.
const BlockSize = 16

// Topology describes the static shape of the gateway fleet. It never
// changes for the lifetime of a process.
type Topology struct {
	// NodeID is this process's zero-based index in the fleet.
	NodeID int
	// TotalNodes is the fleet size.
	TotalNodes int
	// TotalShards is the platform-assigned shard count.
	TotalShards int
}

// ShardRange is a half-open range [First, Last) of shard ids.
type ShardRange struct {
	First int
	Last  int
}

// Contains reports whether the shard id falls inside the range.
func (r ShardRange) Contains(shardID int) bool {
	return shardID >= r.First && shardID < r.Last
}

// Count returns the number of shards in the range.
func (r ShardRange) Count() int { return r.Last - r.First }

// IDs returns the shard ids in the range, in order.
func (r ShardRange) IDs() []int {
	ids := make([]int, 0, r.Count())
	for i := r.First; i < r.Last; i++ {
		ids = append(ids, i)
	}
	return ids
}

// OwnedShards computes the shard range this node owns.
//
// Fewer than BlockSize total shards means single-process mode: only node 0
// is valid and it owns every shard. Otherwise the node owns its contiguous
// BlockSize block, which must fit inside TotalShards. Invalid topologies
// are a startup-fatal configuration error.
func (t Topology) OwnedShards() (ShardRange, error) {
	if t.TotalShards <= 0 {
		return ShardRange{}, fmt.Errorf("%w: total_shards=%d", ErrInvalidTopology, t.TotalShards)
	}
	if t.NodeID < 0 {
		return ShardRange{}, fmt.Errorf("%w: node_id=%d", ErrInvalidTopology, t.NodeID)
	}

	if t.TotalShards < BlockSize {
		if t.NodeID != 0 {
			return ShardRange{}, fmt.Errorf(
				"%w: %d total shards requires a single node but node_id=%d",
				ErrInvalidTopology, t.TotalShards, t.NodeID)
		}
		return ShardRange{First: 0, Last: t.TotalShards}, nil
	}

	first := t.NodeID * BlockSize
	last := first + BlockSize
	if last > t.TotalShards {
		return ShardRange{}, fmt.Errorf(
			"%w: node %d would own [%d,%d) but total_shards=%d",
			ErrInvalidTopology, t.NodeID, first, last, t.TotalShards)
	}
	return ShardRange{First: first, Last: last}, nil
}
