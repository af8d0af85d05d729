package health

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"github.com/PluralKit/PluralKit-sub000/store"
)

// HashKey is the shared-store hash holding all shard status records.
const HashKey = "shardstatus"

// ShardHealth is one shard's liveness record. Created lazily on first
// write, never deleted.
type ShardHealth struct {
	ShardID            int        `json:"shard_id"`
	Up                 bool       `json:"up"`
	DisconnectionCount int        `json:"disconnection_count"`
	LatencyMs          int64      `json:"latency_ms"`
	LastHeartbeat      *time.Time `json:"last_heartbeat,omitempty"`
	LastConnection     *time.Time `json:"last_connection,omitempty"`
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(t *Tracker) { t.logger = l }
}

// Tracker reads and writes shard health records. One instance serves every
// shard runner in the process; per-shard writes never race because a shard
// has a single writer.
type Tracker struct {
	store  store.Store
	logger *slog.Logger
	now    func() time.Time
}

// NewTracker creates a Tracker over the given store.
func NewTracker(s store.Store, opts ...Option) *Tracker {
	t := &Tracker{store: s, logger: slog.Default(), now: time.Now}
	for _, o := range opts {
		o(t)
	}
	return t
}

// RecordConnected marks the shard up and stamps the connection time.
func (t *Tracker) RecordConnected(ctx context.Context, shardID int, resumed bool) {
	t.mutate(ctx, shardID, func(h *ShardHealth) {
		now := t.now().UTC()
		h.Up = true
		h.LastConnection = &now
	})
	t.logger.Info("shard connected",
		slog.Int("shard_id", shardID),
		slog.Bool("resumed", resumed),
	)
}

// RecordClosed marks the shard down and counts the disconnection.
func (t *Tracker) RecordClosed(ctx context.Context, shardID int) {
	t.mutate(ctx, shardID, func(h *ShardHealth) {
		h.Up = false
		h.DisconnectionCount++
	})
}

// RecordHeartbeatAck stamps the latest gateway latency sample.
func (t *Tracker) RecordHeartbeatAck(ctx context.Context, shardID int, latency time.Duration) {
	t.mutate(ctx, shardID, func(h *ShardHealth) {
		now := t.now().UTC()
		h.LatencyMs = latency.Milliseconds()
		h.LastHeartbeat = &now
	})
}

// Shard returns one shard's record, or nil if it was never written.
func (t *Tracker) Shard(ctx context.Context, shardID int) (*ShardHealth, error) {
	raw, err := t.store.HashGet(ctx, HashKey, field(shardID))
	if err != nil {
		if errors.Is(err, store.ErrFieldMissing) {
			return nil, nil
		}
		return nil, fmt.Errorf("health: read shard %d: %w", shardID, err)
	}
	var h ShardHealth
	if err := json.Unmarshal([]byte(raw), &h); err != nil {
		return nil, fmt.Errorf("health: decode shard %d: %w", shardID, err)
	}
	return &h, nil
}

// All returns every known shard record, ordered by shard id.
func (t *Tracker) All(ctx context.Context) ([]ShardHealth, error) {
	vals, err := t.store.HashGetAll(ctx, HashKey)
	if err != nil {
		return nil, fmt.Errorf("health: read all shards: %w", err)
	}

	out := make([]ShardHealth, 0, len(vals))
	for f, raw := range vals {
		var h ShardHealth
		if err := json.Unmarshal([]byte(raw), &h); err != nil {
			t.logger.Warn("skipping undecodable shard record",
				slog.String("field", f),
				slog.String("error", err.Error()),
			)
			continue
		}
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ShardID < out[j].ShardID })
	return out, nil
}

// mutate runs a read-modify-write of one shard's record. Errors are logged
// and dropped; health updates are best-effort.
func (t *Tracker) mutate(ctx context.Context, shardID int, fn func(*ShardHealth)) {
	h, err := t.Shard(ctx, shardID)
	if err != nil {
		t.logger.Warn("shard health read failed",
			slog.Int("shard_id", shardID),
			slog.String("error", err.Error()),
		)
		h = nil
	}
	if h == nil {
		h = &ShardHealth{ShardID: shardID}
	}

	fn(h)

	raw, err := json.Marshal(h)
	if err != nil {
		t.logger.Error("shard health encode failed",
			slog.Int("shard_id", shardID),
			slog.String("error", err.Error()),
		)
		return
	}
	if err := t.store.HashSet(ctx, HashKey, field(shardID), string(raw)); err != nil {
		t.logger.Warn("shard health write failed",
			slog.Int("shard_id", shardID),
			slog.String("error", err.Error()),
		)
	}
}

func field(shardID int) string { return strconv.Itoa(shardID) }
