package health_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/PluralKit/PluralKit-sub000/health"
	"github.com/PluralKit/PluralKit-sub000/store/memory"
)

func TestTracker_RecordConnected(t *testing.T) {
	st := memory.New()
	tr := health.NewTracker(st)
	ctx := context.Background()

	tr.RecordConnected(ctx, 3, false)

	h, err := tr.Shard(ctx, 3)
	if err != nil {
		t.Fatalf("Shard: %v", err)
	}
	if h == nil {
		t.Fatal("Shard = nil, want record")
	}
	if !h.Up {
		t.Error("Up = false, want true")
	}
	if h.ShardID != 3 {
		t.Errorf("ShardID = %d, want 3", h.ShardID)
	}
	if h.LastConnection == nil {
		t.Error("LastConnection = nil, want timestamp")
	}
}

func TestTracker_RecordClosed_CountsDisconnections(t *testing.T) {
	st := memory.New()
	tr := health.NewTracker(st)
	ctx := context.Background()

	tr.RecordConnected(ctx, 0, false)
	tr.RecordClosed(ctx, 0)
	tr.RecordConnected(ctx, 0, true)
	tr.RecordClosed(ctx, 0)

	h, err := tr.Shard(ctx, 0)
	if err != nil {
		t.Fatalf("Shard: %v", err)
	}
	if h.Up {
		t.Error("Up = true, want false")
	}
	if h.DisconnectionCount != 2 {
		t.Errorf("DisconnectionCount = %d, want 2", h.DisconnectionCount)
	}
}

func TestTracker_RecordHeartbeatAck(t *testing.T) {
	st := memory.New()
	tr := health.NewTracker(st)
	ctx := context.Background()

	tr.RecordHeartbeatAck(ctx, 1, 42*time.Millisecond)

	h, err := tr.Shard(ctx, 1)
	if err != nil {
		t.Fatalf("Shard: %v", err)
	}
	if h.LatencyMs != 42 {
		t.Errorf("LatencyMs = %d, want 42", h.LatencyMs)
	}
	if h.LastHeartbeat == nil {
		t.Error("LastHeartbeat = nil, want timestamp")
	}
}

func TestTracker_Shard_NeverWritten(t *testing.T) {
	tr := health.NewTracker(memory.New())

	h, err := tr.Shard(context.Background(), 9)
	if err != nil {
		t.Fatalf("Shard: %v", err)
	}
	if h != nil {
		t.Errorf("Shard = %+v, want nil", h)
	}
}

func TestTracker_All_SortedByShardID(t *testing.T) {
	st := memory.New()
	tr := health.NewTracker(st)
	ctx := context.Background()

	for _, id := range []int{5, 1, 3} {
		tr.RecordConnected(ctx, id, false)
	}

	all, err := tr.All(ctx)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len(All) = %d, want 3", len(all))
	}
	for i, want := range []int{1, 3, 5} {
		if all[i].ShardID != want {
			t.Errorf("All[%d].ShardID = %d, want %d", i, all[i].ShardID, want)
		}
	}
}

func TestTracker_WritesBestEffort(t *testing.T) {
	st := memory.New()
	tr := health.NewTracker(st)
	ctx := context.Background()

	// A down store must not panic or surface errors from record calls.
	st.SetFail(errors.New("store down"))
	tr.RecordConnected(ctx, 0, false)
	tr.RecordClosed(ctx, 0)
	tr.RecordHeartbeatAck(ctx, 0, time.Millisecond)

	st.SetFail(nil)
	h, err := tr.Shard(ctx, 0)
	if err != nil {
		t.Fatalf("Shard: %v", err)
	}
	if h != nil {
		t.Errorf("Shard = %+v, want nil after dropped writes", h)
	}
}
