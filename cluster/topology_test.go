package cluster_test

import (
	"errors"
	"testing"

	"github.com/PluralKit/PluralKit-sub000/cluster"
)

func TestTopology_OwnedShards(t *testing.T) {
	tests := []struct {
		name string
		topo cluster.Topology
		want cluster.ShardRange
	}{
		{
			name: "single shard single node",
			topo: cluster.Topology{NodeID: 0, TotalNodes: 1, TotalShards: 1},
			want: cluster.ShardRange{First: 0, Last: 1},
		},
		{
			name: "small bot owns everything",
			topo: cluster.Topology{NodeID: 0, TotalNodes: 1, TotalShards: 15},
			want: cluster.ShardRange{First: 0, Last: 15},
		},
		{
			name: "first block",
			topo: cluster.Topology{NodeID: 0, TotalNodes: 4, TotalShards: 64},
			want: cluster.ShardRange{First: 0, Last: 16},
		},
		{
			name: "middle block",
			topo: cluster.Topology{NodeID: 2, TotalNodes: 4, TotalShards: 64},
			want: cluster.ShardRange{First: 32, Last: 48},
		},
		{
			name: "last block",
			topo: cluster.Topology{NodeID: 3, TotalNodes: 4, TotalShards: 64},
			want: cluster.ShardRange{First: 48, Last: 64},
		},
		{
			name: "exactly one block",
			topo: cluster.Topology{NodeID: 0, TotalNodes: 1, TotalShards: 16},
			want: cluster.ShardRange{First: 0, Last: 16},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.topo.OwnedShards()
			if err != nil {
				t.Fatalf("OwnedShards: %v", err)
			}
			if got != tt.want {
				t.Errorf("OwnedShards() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestTopology_OwnedShards_Invalid(t *testing.T) {
	tests := []struct {
		name string
		topo cluster.Topology
	}{
		{"zero shards", cluster.Topology{NodeID: 0, TotalNodes: 1, TotalShards: 0}},
		{"negative shards", cluster.Topology{NodeID: 0, TotalNodes: 1, TotalShards: -1}},
		{"negative node", cluster.Topology{NodeID: -1, TotalNodes: 1, TotalShards: 32}},
		{"nonzero node with small bot", cluster.Topology{NodeID: 1, TotalNodes: 2, TotalShards: 8}},
		{"block past total shards", cluster.Topology{NodeID: 4, TotalNodes: 4, TotalShards: 64}},
		{"partial trailing block", cluster.Topology{NodeID: 1, TotalNodes: 2, TotalShards: 24}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.topo.OwnedShards()
			if !errors.Is(err, cluster.ErrInvalidTopology) {
				t.Errorf("OwnedShards() error = %v, want ErrInvalidTopology", err)
			}
		})
	}
}

func TestShardRange_Contains(t *testing.T) {
	r := cluster.ShardRange{First: 16, Last: 32}

	if !r.Contains(16) {
		t.Error("Contains(16) = false, want true")
	}
	if !r.Contains(31) {
		t.Error("Contains(31) = false, want true")
	}
	if r.Contains(32) {
		t.Error("Contains(32) = true, want false (half-open)")
	}
	if r.Contains(15) {
		t.Error("Contains(15) = true, want false")
	}
}

func TestShardRange_IDs(t *testing.T) {
	r := cluster.ShardRange{First: 4, Last: 7}

	ids := r.IDs()
	want := []int{4, 5, 6}
	if len(ids) != len(want) {
		t.Fatalf("IDs() = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("IDs()[%d] = %d, want %d", i, ids[i], want[i])
		}
	}
}
