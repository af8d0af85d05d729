package shard

import (
	"context"
	"time"

	"github.com/PluralKit/PluralKit-sub000/event"
)

// EnvelopeKind discriminates what a stream envelope carries.
type EnvelopeKind int

const (
	// EnvelopeConnected signals the stream identified or resumed.
	EnvelopeConnected EnvelopeKind = iota
	// EnvelopeClosed signals the stream ended with a close code. The
	// Events channel closes shortly after.
	EnvelopeClosed
	// EnvelopeHeartbeatAck carries a round-trip latency sample.
	EnvelopeHeartbeatAck
	// EnvelopeDispatch carries one decoded dispatch event.
	EnvelopeDispatch
)

// Envelope is one item from the stream client: either a lifecycle
// notification or a decoded dispatch event.
type Envelope struct {
	Kind EnvelopeKind

	Resumed   bool          // EnvelopeConnected
	CloseCode int           // EnvelopeClosed
	Latency   time.Duration // EnvelopeHeartbeatAck
	Event     *event.Event  // EnvelopeDispatch
}

// PresenceUpdate is the outbound presence command payload.
type PresenceUpdate struct {
	Status string `json:"status"`
	Since  int64  `json:"since,omitempty"`
	AFK    bool   `json:"afk,omitempty"`
}

// Command is an outbound gateway command.
type Command struct {
	Presence *PresenceUpdate `json:"presence,omitempty"`
}

// GoingAway is the presence broadcast sent to every shard during process
// shutdown.
func GoingAway() Command {
	return Command{Presence: &PresenceUpdate{Status: "invisible"}}
}

// Conn is one shard's connection to the external stream client.
//
// After a successful Open, Events yields envelopes until the stream ends:
// the client emits EnvelopeClosed, then closes the channel. The runner
// decides whether to reconnect. Open returning an error is unrecoverable
// for this shard.
type Conn interface {
	// Open establishes the stream. The identify lease must already be
	// held.
	Open(ctx context.Context) error

	// Events returns the inbound envelope sequence. Per-shard order is
	// the platform's delivery order.
	Events() <-chan Envelope

	// Send issues an outbound command (e.g. a presence update).
	Send(ctx context.Context, cmd Command) error

	// Close tears the stream down.
	Close(ctx context.Context) error
}

// Dialer produces a Conn per shard.
type Dialer interface {
	Dial(shardID, totalShards int) Conn
}
