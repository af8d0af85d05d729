package event

import (
	"encoding/json"
	"fmt"

	"github.com/PluralKit/PluralKit-sub000/discord"
)

// Kind tags a decoded dispatch event.
type Kind string

// Dispatch kinds the coordinator reacts to. Everything else is KindIgnored.
const (
	KindReady             Kind = "READY"
	KindResumed           Kind = "RESUMED"
	KindGuildCreate       Kind = "GUILD_CREATE"
	KindGuildUpdate       Kind = "GUILD_UPDATE"
	KindGuildDelete       Kind = "GUILD_DELETE"
	KindChannelCreate     Kind = "CHANNEL_CREATE"
	KindChannelUpdate     Kind = "CHANNEL_UPDATE"
	KindChannelDelete     Kind = "CHANNEL_DELETE"
	KindThreadCreate      Kind = "THREAD_CREATE"
	KindThreadUpdate      Kind = "THREAD_UPDATE"
	KindThreadDelete      Kind = "THREAD_DELETE"
	KindRoleCreate        Kind = "GUILD_ROLE_CREATE"
	KindRoleUpdate        Kind = "GUILD_ROLE_UPDATE"
	KindRoleDelete        Kind = "GUILD_ROLE_DELETE"
	KindMemberUpdate      Kind = "GUILD_MEMBER_UPDATE"
	KindMessageCreate     Kind = "MESSAGE_CREATE"
	KindMessageUpdate     Kind = "MESSAGE_UPDATE"
	KindMessageDelete     Kind = "MESSAGE_DELETE"
	KindMessageDeleteBulk Kind = "MESSAGE_DELETE_BULK"
	KindReactionAdd       Kind = "MESSAGE_REACTION_ADD"
	KindInteractionCreate Kind = "INTERACTION_CREATE"
	KindIgnored           Kind = ""
)

// Forwardable reports whether events of this kind are eligible for
// downstream forwarding. The allow-list is fixed: interactions, message
// create/update/delete/bulk-delete, and reaction adds.
func (k Kind) Forwardable() bool {
	switch k {
	case KindInteractionCreate, KindMessageCreate, KindMessageUpdate,
		KindMessageDelete, KindMessageDeleteBulk, KindReactionAdd:
		return true
	}
	return false
}

// Event is one decoded dispatch event. Exactly one payload field is non-nil
// for non-ignored kinds; Raw preserves the original payload bytes for
// forwarding.
type Event struct {
	Kind Kind
	Raw  json.RawMessage

	Ready             *Ready
	GuildCreate       *GuildCreate
	GuildUpdate       *discord.Guild
	GuildDelete       *GuildDelete
	Channel           *discord.Channel // channel and thread create/update/delete
	ThreadDelete      *ThreadDelete
	Role              *RoleEvent // role create/update
	RoleDelete        *RoleDelete
	MemberUpdate      *MemberUpdate
	Message           *discord.Message // message create/update
	MessageDelete     *MessageDelete
	MessageDeleteBulk *MessageDeleteBulk
	ReactionAdd       *ReactionAdd
	Interaction       *Interaction
}

// Ready is the session-established payload.
type Ready struct {
	User      discord.User `json:"user"`
	SessionID string       `json:"session_id"`
}

// GuildCreate is the full nested guild snapshot delivered when a shard
// gains visibility of a guild.
type GuildCreate struct {
	discord.Guild
	Roles    []discord.Role    `json:"roles"`
	Channels []discord.Channel `json:"channels"`
	Threads  []discord.Channel `json:"threads"`
	Members  []discord.Member  `json:"members"`
}

// GuildDelete signals an outage or removal from a guild.
type GuildDelete struct {
	ID          discord.Snowflake `json:"id"`
	Unavailable bool              `json:"unavailable"`
}

// ThreadDelete carries only ids; the full channel object is gone.
type ThreadDelete struct {
	ID       discord.Snowflake `json:"id"`
	GuildID  discord.Snowflake `json:"guild_id"`
	ParentID discord.Snowflake `json:"parent_id"`
}

// RoleEvent wraps role create/update payloads.
type RoleEvent struct {
	GuildID discord.Snowflake `json:"guild_id"`
	Role    discord.Role      `json:"role"`
}

// RoleDelete removes a role by id.
type RoleDelete struct {
	GuildID discord.Snowflake `json:"guild_id"`
	RoleID  discord.Snowflake `json:"role_id"`
}

// MemberUpdate carries a membership change; the cache only applies it when
// it concerns the bot's own user.
type MemberUpdate struct {
	GuildID discord.Snowflake `json:"guild_id"`
	discord.Member
}

// MessageDelete removes one message.
type MessageDelete struct {
	ID        discord.Snowflake `json:"id"`
	ChannelID discord.Snowflake `json:"channel_id"`
	GuildID   discord.Snowflake `json:"guild_id,omitempty"`
}

// MessageDeleteBulk removes a batch of messages from one channel.
type MessageDeleteBulk struct {
	IDs       []discord.Snowflake `json:"ids"`
	ChannelID discord.Snowflake   `json:"channel_id"`
	GuildID   discord.Snowflake   `json:"guild_id,omitempty"`
}

// ReactionAdd is a reaction on a message.
type ReactionAdd struct {
	UserID    discord.Snowflake `json:"user_id"`
	ChannelID discord.Snowflake `json:"channel_id"`
	MessageID discord.Snowflake `json:"message_id"`
	GuildID   discord.Snowflake `json:"guild_id,omitempty"`
	Emoji     struct {
		Name string `json:"name"`
	} `json:"emoji"`
}

// Interaction is a component or command interaction. CustomID is only set
// for component interactions.
type Interaction struct {
	ID   discord.Snowflake `json:"id"`
	Type int               `json:"type"`
	Data *InteractionData  `json:"data,omitempty"`
}

// InteractionData is the interaction payload body.
type InteractionData struct {
	CustomID string `json:"custom_id,omitempty"`
	Name     string `json:"name,omitempty"`
}

// Decode turns a raw dispatch (type name plus payload bytes) into an Event.
// Unknown types yield KindIgnored with a nil error; malformed payloads of
// known types are an error.
func Decode(dispatchType string, raw json.RawMessage) (*Event, error) {
	ev := &Event{Kind: Kind(dispatchType), Raw: raw}

	var err error
	switch ev.Kind {
	case KindReady:
		err = unmarshal(raw, &ev.Ready)
	case KindResumed:
		// No payload of interest.
	case KindGuildCreate:
		err = unmarshal(raw, &ev.GuildCreate)
	case KindGuildUpdate:
		err = unmarshal(raw, &ev.GuildUpdate)
	case KindGuildDelete:
		err = unmarshal(raw, &ev.GuildDelete)
	case KindChannelCreate, KindChannelUpdate, KindChannelDelete,
		KindThreadCreate, KindThreadUpdate:
		err = unmarshal(raw, &ev.Channel)
	case KindThreadDelete:
		err = unmarshal(raw, &ev.ThreadDelete)
	case KindRoleCreate, KindRoleUpdate:
		err = unmarshal(raw, &ev.Role)
	case KindRoleDelete:
		err = unmarshal(raw, &ev.RoleDelete)
	case KindMemberUpdate:
		err = unmarshal(raw, &ev.MemberUpdate)
	case KindMessageCreate, KindMessageUpdate:
		err = unmarshal(raw, &ev.Message)
	case KindMessageDelete:
		err = unmarshal(raw, &ev.MessageDelete)
	case KindMessageDeleteBulk:
		err = unmarshal(raw, &ev.MessageDeleteBulk)
	case KindReactionAdd:
		err = unmarshal(raw, &ev.ReactionAdd)
	case KindInteractionCreate:
		err = unmarshal(raw, &ev.Interaction)
	default:
		ev.Kind = KindIgnored
	}
	if err != nil {
		return nil, fmt.Errorf("event: decode %s: %w", dispatchType, err)
	}
	return ev, nil
}

func unmarshal(raw json.RawMessage, v any) error {
	return json.Unmarshal(raw, v)
}
