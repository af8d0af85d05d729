package awaiter

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/PluralKit/PluralKit-sub000/discord"
	"github.com/PluralKit/PluralKit-sub000/event"
	"github.com/PluralKit/PluralKit-sub000/id"
)

const (
	// DefaultExpiry bounds how long an unmatched registration lives.
	DefaultExpiry = 15 * time.Minute
	// SweepInterval is how often expired registrations are evicted. The
	// sweep is the only bound on unmatched-registration memory growth.
	SweepInterval = 30 * time.Second
)

// ReactionKey identifies a reaction wait.
type ReactionKey struct {
	MessageID discord.Snowflake
	UserID    discord.Snowflake
}

// MessageKey identifies a message wait.
type MessageKey struct {
	ChannelID discord.Snowflake
	AuthorID  discord.Snowflake
}

// Registration is one pending wait. Callback is already resolved; Options,
// when non-nil, restricts message matches to a case-folded allow-list.
type Registration struct {
	ID        id.ID
	Callback  string
	ExpiresAt time.Time
	Options   []string
}

func (r *Registration) allows(content string) bool {
	if r.Options == nil {
		return true
	}
	folded := strings.ToLower(strings.TrimSpace(content))
	for _, opt := range r.Options {
		if folded == opt {
			return true
		}
	}
	return false
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) { r.logger = l }
}

// WithDefaultExpiry overrides the default registration lifetime.
func WithDefaultExpiry(d time.Duration) Option {
	return func(r *Registry) { r.expiry = d }
}

// WithSweepInterval overrides the sweep period. Tests only.
func WithSweepInterval(d time.Duration) Option {
	return func(r *Registry) { r.sweepEvery = d }
}

// Registry holds pending registrations in three independent maps, one per
// wait kind. Safe for concurrent use.
type Registry struct {
	mu           sync.Mutex
	reactions    map[ReactionKey]*Registration
	messages     map[MessageKey]*Registration
	interactions map[string]*Registration

	expiry     time.Duration
	sweepEvery time.Duration
	logger     *slog.Logger
	now        func() time.Time
}

// NewRegistry creates an empty Registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		reactions:    make(map[ReactionKey]*Registration),
		messages:     make(map[MessageKey]*Registration),
		interactions: make(map[string]*Registration),
		expiry:       DefaultExpiry,
		sweepEvery:   SweepInterval,
		logger:       slog.Default(),
		now:          time.Now,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// RegisterReaction waits for a reaction by userID on messageID.
func (r *Registry) RegisterReaction(key ReactionKey, callback string, expiry time.Duration) *Registration {
	reg := r.newRegistration(callback, expiry, nil)
	r.mu.Lock()
	r.reactions[key] = reg
	r.mu.Unlock()
	return reg
}

// RegisterMessage waits for a message by authorID in channelID. options,
// when non-empty, restricts matches to those contents (case-insensitive).
func (r *Registry) RegisterMessage(key MessageKey, callback string, expiry time.Duration, options []string) *Registration {
	var folded []string
	if options != nil {
		folded = make([]string, len(options))
		for i, opt := range options {
			folded[i] = strings.ToLower(strings.TrimSpace(opt))
		}
	}
	reg := r.newRegistration(callback, expiry, folded)
	r.mu.Lock()
	r.messages[key] = reg
	r.mu.Unlock()
	return reg
}

// RegisterInteraction waits for a component interaction with customID.
func (r *Registry) RegisterInteraction(customID, callback string, expiry time.Duration) *Registration {
	reg := r.newRegistration(callback, expiry, nil)
	r.mu.Lock()
	r.interactions[customID] = reg
	r.mu.Unlock()
	return reg
}

func (r *Registry) newRegistration(callback string, expiry time.Duration, options []string) *Registration {
	if expiry <= 0 {
		expiry = r.expiry
	}
	return &Registration{
		ID:        id.NewAwaitID(),
		Callback:  callback,
		ExpiresAt: r.now().Add(expiry),
		Options:   options,
	}
}

// Match consumes and returns the registration matching the event, if any.
// A message registration whose allow-list rejects the content is left in
// place and no match fires. Expired registrations never match.
func (r *Registry) Match(ev *event.Event) (*Registration, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()

	switch ev.Kind {
	case event.KindReactionAdd:
		key := ReactionKey{MessageID: ev.ReactionAdd.MessageID, UserID: ev.ReactionAdd.UserID}
		if reg, ok := r.reactions[key]; ok && reg.ExpiresAt.After(now) {
			delete(r.reactions, key)
			return reg, true
		}

	case event.KindMessageCreate:
		if ev.Message.Author == nil {
			return nil, false
		}
		key := MessageKey{ChannelID: ev.Message.ChannelID, AuthorID: ev.Message.Author.ID}
		reg, ok := r.messages[key]
		if !ok || !reg.ExpiresAt.After(now) {
			return nil, false
		}
		if !reg.allows(ev.Message.Content) {
			return nil, false
		}
		delete(r.messages, key)
		return reg, true

	case event.KindInteractionCreate:
		if ev.Interaction.Data == nil || ev.Interaction.Data.CustomID == "" {
			return nil, false
		}
		key := ev.Interaction.Data.CustomID
		if reg, ok := r.interactions[key]; ok && reg.ExpiresAt.After(now) {
			delete(r.interactions, key)
			return reg, true
		}
	}
	return nil, false
}

// Clear drops every pending registration.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.reactions)
	clear(r.messages)
	clear(r.interactions)
}

// Counts reports pending registrations per kind, for the stats endpoint.
func (r *Registry) Counts() (reactions, messages, interactions int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.reactions), len(r.messages), len(r.interactions)
}

// Sweep evicts expired registrations and returns how many were dropped.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()

	dropped := 0
	for key, reg := range r.reactions {
		if !reg.ExpiresAt.After(now) {
			delete(r.reactions, key)
			dropped++
		}
	}
	for key, reg := range r.messages {
		if !reg.ExpiresAt.After(now) {
			delete(r.messages, key)
			dropped++
		}
	}
	for key, reg := range r.interactions {
		if !reg.ExpiresAt.After(now) {
			delete(r.interactions, key)
			dropped++
		}
	}
	return dropped
}

// Run sweeps expired registrations until ctx is cancelled.
func (r *Registry) Run(ctx context.Context) {
	ticker := time.NewTicker(r.sweepEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if dropped := r.Sweep(); dropped > 0 {
				r.logger.Debug("swept expired await registrations",
					slog.Int("dropped", dropped),
				)
			}
		}
	}
}
