package identify_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/PluralKit/PluralKit-sub000/identify"
	"github.com/PluralKit/PluralKit-sub000/store/memory"
)

func TestLimiter_Bucket(t *testing.T) {
	lim := identify.New(memory.New(), 16, "node-a")

	tests := []struct {
		shardID int
		want    int
	}{
		{0, 0},
		{15, 15},
		{16, 0},
		{17, 1},
		{47, 15},
	}
	for _, tt := range tests {
		if got := lim.Bucket(tt.shardID); got != tt.want {
			t.Errorf("Bucket(%d) = %d, want %d", tt.shardID, got, tt.want)
		}
	}
}

func TestLimiter_Acquire_FirstCallerImmediate(t *testing.T) {
	st := memory.New()
	lim := identify.New(st, 1, "node-a")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := lim.Acquire(ctx, 0); err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	got, ok := st.LeaseValue("identify:0")
	if !ok {
		t.Fatal("no live lease for identify:0")
	}
	if got != "node-a" {
		t.Errorf("lease value = %q, want %q", got, "node-a")
	}
}

func TestLimiter_Acquire_OneWinnerPerWindow(t *testing.T) {
	st := memory.New()
	lim := identify.New(st, 1, "node-a",
		identify.WithPollInterval(5*time.Millisecond),
		identify.WithLeaseTTL(50*time.Millisecond),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	const callers = 4
	var (
		wg        sync.WaitGroup
		immediate atomic.Int32
		total     atomic.Int32
	)
	start := time.Now()
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(shardID int) {
			defer wg.Done()
			if err := lim.Acquire(ctx, shardID); err != nil {
				t.Errorf("Acquire(%d): %v", shardID, err)
				return
			}
			total.Add(1)
			if time.Since(start) < 50*time.Millisecond {
				immediate.Add(1)
			}
		}(i)
	}
	wg.Wait()

	if got := total.Load(); got != callers {
		t.Fatalf("acquired = %d, want %d", got, callers)
	}
	// Same bucket: at most one caller can win before the first lease
	// expires.
	if got := immediate.Load(); got != 1 {
		t.Errorf("immediate acquisitions = %d, want 1", got)
	}
}

func TestLimiter_Acquire_DistinctBucketsIndependent(t *testing.T) {
	st := memory.New()
	lim := identify.New(st, 16, "node-a")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	// Different buckets never contend, so both succeed without waiting
	// out a TTL.
	for _, shardID := range []int{0, 1} {
		if err := lim.Acquire(ctx, shardID); err != nil {
			t.Fatalf("Acquire(%d): %v", shardID, err)
		}
	}
}

func TestLimiter_Acquire_StoreErrorsRetried(t *testing.T) {
	st := memory.New()
	st.SetFail(errors.New("store down"))
	lim := identify.New(st, 1, "node-a",
		identify.WithPollInterval(5*time.Millisecond))

	// Heal the store shortly after the first failed attempts.
	go func() {
		time.Sleep(25 * time.Millisecond)
		st.SetFail(nil)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := lim.Acquire(ctx, 0); err != nil {
		t.Fatalf("Acquire after store recovery: %v", err)
	}
}

func TestLimiter_Acquire_CancelledContext(t *testing.T) {
	st := memory.New()
	lim := identify.New(st, 1, "node-a",
		identify.WithPollInterval(5*time.Millisecond))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	// Occupy the only bucket, then cancel the second caller.
	if err := lim.Acquire(ctx, 0); err != nil {
		t.Fatalf("Acquire: %v", err)
	}

	blocked, blockedCancel := context.WithTimeout(ctx, 30*time.Millisecond)
	defer blockedCancel()
	if err := lim.Acquire(blocked, 1); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Acquire = %v, want context.DeadlineExceeded", err)
	}
}
