package awaiter

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/PluralKit/PluralKit-sub000/event"
)

// DelivererOption configures a Deliverer.
type DelivererOption func(*Deliverer)

// WithDeliverHTTPClient sets a custom HTTP client.
func WithDeliverHTTPClient(hc *http.Client) DelivererOption {
	return func(d *Deliverer) { d.http = hc }
}

// WithDeliverLogger sets a custom logger.
func WithDeliverLogger(l *slog.Logger) DelivererOption {
	return func(d *Deliverer) { d.logger = l }
}

// Deliverer POSTs matched events to registration callbacks. Failures are
// logged and never retried; the registration is already consumed.
type Deliverer struct {
	http   *http.Client
	logger *slog.Logger
}

// NewDeliverer creates a Deliverer.
func NewDeliverer(opts ...DelivererOption) *Deliverer {
	d := &Deliverer{
		http:   &http.Client{Timeout: 5 * time.Second},
		logger: slog.Default(),
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// payload is the callback body: the event kind plus its raw dispatch
// payload, untransformed.
type payload struct {
	Kind  event.Kind      `json:"type"`
	Event json.RawMessage `json:"event"`
}

// Deliver sends the matched event to the registration's callback.
func (d *Deliverer) Deliver(ctx context.Context, reg *Registration, ev *event.Event) {
	body, err := json.Marshal(payload{Kind: ev.Kind, Event: ev.Raw})
	if err != nil {
		d.logger.Error("await delivery encode failed",
			slog.String("registration_id", reg.ID.String()),
			slog.String("error", err.Error()),
		)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reg.Callback, bytes.NewReader(body))
	if err != nil {
		d.logger.Error("await delivery request failed",
			slog.String("registration_id", reg.ID.String()),
			slog.String("error", err.Error()),
		)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.http.Do(req)
	if err != nil {
		d.logger.Warn("await delivery failed",
			slog.String("registration_id", reg.ID.String()),
			slog.String("callback", reg.Callback),
			slog.String("error", err.Error()),
		)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		d.logger.Warn("await delivery rejected",
			slog.String("registration_id", reg.ID.String()),
			slog.String("callback", reg.Callback),
			slog.Int("status", resp.StatusCode),
		)
	}
}
