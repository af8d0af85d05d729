package forward

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/PluralKit/PluralKit-sub000/event"
)

// DefaultBuffer is the default forwarding channel capacity.
const DefaultBuffer = 1000

// Envelope is one forwarded event: the originating shard, the kind tag,
// and the raw dispatch payload exactly as received.
type Envelope struct {
	Shard int             `json:"shard"`
	Kind  event.Kind      `json:"type"`
	Event json.RawMessage `json:"event"`
}

// Option configures a Forwarder.
type Option func(*Forwarder)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(f *Forwarder) { f.logger = l }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(f *Forwarder) { f.http = hc }
}

// WithBuffer overrides the channel capacity.
func WithBuffer(n int) Option {
	return func(f *Forwarder) { f.ch = make(chan Envelope, n) }
}

// Forwarder owns the bounded forwarding channel and its single consumer.
// The target is runtime-settable; an empty target disables forwarding.
type Forwarder struct {
	target atomic.Value // string
	ch     chan Envelope
	http   *http.Client
	logger *slog.Logger

	// Metrics.
	forwarded atomic.Int64
	failed    atomic.Int64
}

// New creates a Forwarder. target may be empty.
func New(target string, opts ...Option) *Forwarder {
	f := &Forwarder{
		ch:     make(chan Envelope, DefaultBuffer),
		http:   &http.Client{Timeout: 10 * time.Second},
		logger: slog.Default(),
	}
	f.target.Store(target)
	for _, o := range opts {
		o(f)
	}
	return f
}

// SetTarget replaces the downstream target at runtime. Empty disables
// forwarding.
func (f *Forwarder) SetTarget(target string) {
	f.target.Store(target)
	f.logger.Info("event forward target changed", slog.String("target", target))
}

// Target returns the current downstream target.
func (f *Forwarder) Target() string {
	t, _ := f.target.Load().(string)
	return t
}

// Enqueue submits an envelope for delivery. With no target configured the
// envelope is dropped. A full channel blocks until space frees or ctx is
// cancelled; the backpressure is intentional.
func (f *Forwarder) Enqueue(ctx context.Context, env Envelope) error {
	if f.Target() == "" {
		return nil
	}
	select {
	case f.ch <- env:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run drains the channel until ctx is cancelled.
func (f *Forwarder) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case env := <-f.ch:
			f.post(ctx, env)
		}
	}
}

// Stats reports delivery counters.
func (f *Forwarder) Stats() (forwarded, failed int64) {
	return f.forwarded.Load(), f.failed.Load()
}

// post delivers one envelope: POST to the target with the shard number as
// the path suffix.
func (f *Forwarder) post(ctx context.Context, env Envelope) {
	target := f.Target()
	if target == "" {
		return
	}
	url := strings.TrimRight(target, "/") + "/" + strconv.Itoa(env.Shard)

	body, err := json.Marshal(env)
	if err != nil {
		f.logger.Error("event forward encode failed", slog.String("error", err.Error()))
		f.failed.Add(1)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		f.logger.Error("event forward request failed", slog.String("error", err.Error()))
		f.failed.Add(1)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.http.Do(req)
	if err != nil {
		f.logger.Warn("event forward failed",
			slog.Int("shard_id", env.Shard),
			slog.String("error", err.Error()),
		)
		f.failed.Add(1)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		f.logger.Warn("event forward rejected",
			slog.Int("shard_id", env.Shard),
			slog.Int("status", resp.StatusCode),
		)
		f.failed.Add(1)
		return
	}
	f.forwarded.Add(1)
}
