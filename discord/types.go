package discord

import (
	"fmt"
	"strconv"
	"time"
)

// Snowflake is a Discord object id. Discord serializes snowflakes as JSON
// strings to avoid 53-bit float truncation; we do the same.
type Snowflake uint64

// ParseSnowflake parses the canonical decimal string form.
func ParseSnowflake(s string) (Snowflake, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("discord: parse snowflake %q: %w", s, err)
	}
	return Snowflake(n), nil
}

// String returns the decimal string form.
func (s Snowflake) String() string { return strconv.FormatUint(uint64(s), 10) }

// IsZero reports whether the snowflake is unset.
func (s Snowflake) IsZero() bool { return s == 0 }

// MarshalJSON encodes the snowflake as a quoted decimal string.
func (s Snowflake) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON accepts both quoted and bare decimal forms.
func (s *Snowflake) UnmarshalJSON(data []byte) error {
	str := string(data)
	if len(str) >= 2 && str[0] == '"' {
		str = str[1 : len(str)-1]
	}
	if str == "" || str == "null" {
		*s = 0
		return nil
	}
	n, err := strconv.ParseUint(str, 10, 64)
	if err != nil {
		return fmt.Errorf("discord: unmarshal snowflake %q: %w", str, err)
	}
	*s = Snowflake(n)
	return nil
}

// ChannelType is the Discord channel type discriminator.
type ChannelType int

// Channel types the coordinator distinguishes.
const (
	ChannelTypeGuildText          ChannelType = 0
	ChannelTypeDM                 ChannelType = 1
	ChannelTypeGuildVoice         ChannelType = 2
	ChannelTypeGroupDM            ChannelType = 3
	ChannelTypeGuildCategory      ChannelType = 4
	ChannelTypeGuildAnnouncement  ChannelType = 5
	ChannelTypeAnnouncementThread ChannelType = 10
	ChannelTypePublicThread       ChannelType = 11
	ChannelTypePrivateThread      ChannelType = 12
	ChannelTypeGuildStageVoice    ChannelType = 13
	ChannelTypeGuildForum         ChannelType = 15
)

// IsThread reports whether the type is one of the thread channel types.
// Threads carry no overwrites of their own; permission resolution uses the
// parent channel's.
func (t ChannelType) IsThread() bool {
	return t == ChannelTypeAnnouncementThread ||
		t == ChannelTypePublicThread ||
		t == ChannelTypePrivateThread
}

// OverwriteType discriminates role overwrites from member overwrites.
type OverwriteType int

const (
	OverwriteRole   OverwriteType = 0
	OverwriteMember OverwriteType = 1
)

// Overwrite is a per-channel permission delta for one role or one member.
type Overwrite struct {
	ID    Snowflake     `json:"id"`
	Type  OverwriteType `json:"type"`
	Allow PermissionSet `json:"allow"`
	Deny  PermissionSet `json:"deny"`
}

// Guild is the cached guild record. Roles and channels arrive nested in the
// GUILD_CREATE payload but are cached independently by id.
type Guild struct {
	ID      Snowflake `json:"id"`
	Name    string    `json:"name"`
	OwnerID Snowflake `json:"owner_id"`
}

// Channel is a guild channel or thread.
type Channel struct {
	ID                   Snowflake   `json:"id"`
	GuildID              Snowflake   `json:"guild_id,omitempty"`
	Type                 ChannelType `json:"type"`
	Name                 string      `json:"name,omitempty"`
	Position             int         `json:"position,omitempty"`
	ParentID             Snowflake   `json:"parent_id,omitempty"`
	PermissionOverwrites []Overwrite `json:"permission_overwrites,omitempty"`
}

// Role is a guild role with its additive permission grant.
type Role struct {
	ID          Snowflake     `json:"id"`
	GuildID     Snowflake     `json:"guild_id,omitempty"`
	Name        string        `json:"name"`
	Position    int           `json:"position"`
	Permissions PermissionSet `json:"permissions"`
}

// User is the minimal user shape carried on messages and READY.
type User struct {
	ID       Snowflake `json:"id"`
	Username string    `json:"username"`
	Bot      bool      `json:"bot,omitempty"`
}

// Member is a per-guild membership record. The coordinator only caches the
// bot's own membership; other members are fetched over REST on demand.
type Member struct {
	User                       *User       `json:"user,omitempty"`
	Roles                      []Snowflake `json:"roles"`
	CommunicationDisabledUntil *time.Time  `json:"communication_disabled_until,omitempty"`
}

// IsTimedOut reports whether the member has an active communication timeout.
func (m *Member) IsTimedOut(now time.Time) bool {
	return m.CommunicationDisabledUntil != nil && m.CommunicationDisabledUntil.After(now)
}

// MessageReference points at the message a reply targets.
type MessageReference struct {
	MessageID Snowflake `json:"message_id,omitempty"`
	ChannelID Snowflake `json:"channel_id,omitempty"`
	GuildID   Snowflake `json:"guild_id,omitempty"`
}

// Message is the subset of a message the last-message cache and the awaiter
// need.
type Message struct {
	ID               Snowflake         `json:"id"`
	ChannelID        Snowflake         `json:"channel_id"`
	GuildID          Snowflake         `json:"guild_id,omitempty"`
	Author           *User             `json:"author,omitempty"`
	Content          string            `json:"content,omitempty"`
	MessageReference *MessageReference `json:"message_reference,omitempty"`
}
