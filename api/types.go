package api

import (
	"github.com/PluralKit/PluralKit-sub000/discord"
	"github.com/PluralKit/PluralKit-sub000/health"
)

// PermissionsResponse carries a resolved permission set.
type PermissionsResponse struct {
	Permissions discord.PermissionSet `json:"permissions"`
}

// AwaitEventRequest registers a one-shot event wait. Kind selects which of
// the three shapes the remaining fields are read as.
type AwaitEventRequest struct {
	Kind string `json:"kind"`

	// Reaction shape.
	MessageID discord.Snowflake `json:"message_id,omitempty"`
	UserID    discord.Snowflake `json:"user_id,omitempty"`

	// Message shape.
	ChannelID discord.Snowflake `json:"channel_id,omitempty"`
	AuthorID  discord.Snowflake `json:"author_id,omitempty"`
	Options   []string          `json:"options,omitempty"`

	// Interaction shape.
	CustomID string `json:"custom_id,omitempty"`

	// Target is a callback URL, or the literal "source-addr" to deliver
	// back to the registering caller's own address.
	Target string `json:"target"`

	// TimeoutSeconds bounds how long the wait stays registered. Zero means
	// the default.
	TimeoutSeconds int `json:"timeout_seconds,omitempty"`
}

// SetRuntimeConfigRequest writes one runtime config entry.
type SetRuntimeConfigRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// RuntimeConfigEntry is one key/value pair from the shared config hash.
type RuntimeConfigEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// CacheCounts reports live cache sizes.
type CacheCounts struct {
	Guilds   int `json:"guilds"`
	Channels int `json:"channels"`
	Roles    int `json:"roles"`
}

// AwaiterCounts reports pending wait registrations per kind.
type AwaiterCounts struct {
	Reactions    int `json:"reactions"`
	Messages     int `json:"messages"`
	Interactions int `json:"interactions"`
}

// ForwardStats reports event-forwarding counters.
type ForwardStats struct {
	Target    string `json:"target"`
	Forwarded int64  `json:"forwarded"`
	Failed    int64  `json:"failed"`
}

// StatsResponse is the full /stats payload.
type StatsResponse struct {
	Shards     []health.ShardHealth `json:"shards"`
	Cache      CacheCounts          `json:"cache"`
	Awaiters   AwaiterCounts        `json:"awaiters"`
	Forwarding ForwardStats         `json:"forwarding"`
}
