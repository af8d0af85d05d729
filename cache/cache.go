package cache

import (
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/PluralKit/PluralKit-sub000/discord"
	"github.com/PluralKit/PluralKit-sub000/event"
)

// Option configures a Store.
type Option func(*Store)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithMemberSource sets the REST fallback used to resolve role lists of
// users other than the bot itself.
func WithMemberSource(ms MemberSource) Option {
	return func(s *Store) { s.members = ms }
}

// Store is the live object mirror. Construct one per process (or per test
// case) with New; there is no package-level instance.
type Store struct {
	self atomic.Uint64 // bot user id, set on READY

	guilds       *shardedMap[*discord.Guild]
	channels     *shardedMap[*discord.Channel]
	roles        *shardedMap[*discord.Role]
	selfMembers  *shardedMap[*discord.Member] // keyed by guild id
	lastMessages *shardedMap[*LastMessage]    // keyed by channel id
	perGuild     *shardedMap[*guildIndex]

	members MemberSource
	logger  *slog.Logger
	now     func() time.Time
}

// guildIndex tracks which channel and role ids belong to a guild, so list
// queries and cascade deletes don't scan the whole mirror.
type guildIndex struct {
	mu       sync.RWMutex
	channels map[discord.Snowflake]struct{}
	roles    map[discord.Snowflake]struct{}
}

// New creates an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		guilds:       newShardedMap[*discord.Guild](),
		channels:     newShardedMap[*discord.Channel](),
		roles:        newShardedMap[*discord.Role](),
		selfMembers:  newShardedMap[*discord.Member](),
		lastMessages: newShardedMap[*LastMessage](),
		perGuild:     newShardedMap[*guildIndex](),
		logger:       slog.Default(),
		now:          time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Self returns the bot's own user id, or zero before READY.
func (s *Store) Self() discord.Snowflake {
	return discord.Snowflake(s.self.Load())
}

// Apply folds one decoded dispatch event into the mirror. Unknown and
// irrelevant kinds are no-ops. Apply never fails; undecodable situations
// were already rejected at the stream boundary.
func (s *Store) Apply(ev *event.Event) {
	switch ev.Kind {
	case event.KindReady:
		s.self.Store(uint64(ev.Ready.User.ID))

	case event.KindGuildCreate:
		s.seedGuild(ev.GuildCreate)

	case event.KindGuildUpdate:
		g := *ev.GuildUpdate
		s.guilds.Set(g.ID, &g)

	case event.KindGuildDelete:
		s.dropGuild(ev.GuildDelete.ID)

	case event.KindChannelCreate, event.KindChannelUpdate,
		event.KindThreadCreate, event.KindThreadUpdate:
		s.putChannel(*ev.Channel)

	case event.KindChannelDelete:
		s.dropChannel(ev.Channel.ID, ev.Channel.GuildID)

	case event.KindThreadDelete:
		s.dropChannel(ev.ThreadDelete.ID, ev.ThreadDelete.GuildID)

	case event.KindRoleCreate, event.KindRoleUpdate:
		r := ev.Role.Role
		r.GuildID = ev.Role.GuildID
		s.putRole(r)

	case event.KindRoleDelete:
		s.dropRole(ev.RoleDelete.RoleID, ev.RoleDelete.GuildID)

	case event.KindMemberUpdate:
		if ev.MemberUpdate.User != nil && ev.MemberUpdate.User.ID == s.Self() {
			m := ev.MemberUpdate.Member
			s.selfMembers.Set(ev.MemberUpdate.GuildID, &m)
		}

	case event.KindMessageCreate:
		s.pushMessage(ev.Message)

	case event.KindMessageDelete:
		s.deleteMessages(ev.MessageDelete.ChannelID,
			[]discord.Snowflake{ev.MessageDelete.ID})

	case event.KindMessageDeleteBulk:
		s.deleteMessages(ev.MessageDeleteBulk.ChannelID, ev.MessageDeleteBulk.IDs)
	}
}

// seedGuild applies a guild-create snapshot. The writes are independent,
// not one atomic unit: a concurrent reader can observe a channel before its
// guild. That window is accepted (it mirrors the stream's own eventual
// consistency) rather than hidden behind a global lock.
func (s *Store) seedGuild(gc *event.GuildCreate) {
	g := gc.Guild
	s.guilds.Set(g.ID, &g)

	for _, r := range gc.Roles {
		r.GuildID = g.ID
		s.putRole(r)
	}
	for _, ch := range gc.Channels {
		ch.GuildID = g.ID
		s.putChannel(ch)
	}
	for _, th := range gc.Threads {
		th.GuildID = g.ID
		s.putChannel(th)
	}

	self := s.Self()
	for _, m := range gc.Members {
		if m.User != nil && m.User.ID == self {
			s.selfMembers.Set(g.ID, &m)
			break
		}
	}
}

// dropGuild removes the guild and cascade-deletes everything it owned.
func (s *Store) dropGuild(guildID discord.Snowflake) {
	if idx, ok := s.perGuild.Get(guildID); ok {
		idx.mu.RLock()
		channels := make([]discord.Snowflake, 0, len(idx.channels))
		for id := range idx.channels {
			channels = append(channels, id)
		}
		roles := make([]discord.Snowflake, 0, len(idx.roles))
		for id := range idx.roles {
			roles = append(roles, id)
		}
		idx.mu.RUnlock()

		for _, id := range channels {
			s.channels.Delete(id)
			s.lastMessages.Delete(id)
		}
		for _, id := range roles {
			s.roles.Delete(id)
		}
	}

	s.perGuild.Delete(guildID)
	s.selfMembers.Delete(guildID)
	s.guilds.Delete(guildID)
}

func (s *Store) putChannel(ch discord.Channel) {
	s.channels.Set(ch.ID, &ch)
	if !ch.GuildID.IsZero() {
		idx := s.index(ch.GuildID)
		idx.mu.Lock()
		idx.channels[ch.ID] = struct{}{}
		idx.mu.Unlock()
	}
}

func (s *Store) dropChannel(id, guildID discord.Snowflake) {
	s.channels.Delete(id)
	s.lastMessages.Delete(id)
	if !guildID.IsZero() {
		if idx, ok := s.perGuild.Get(guildID); ok {
			idx.mu.Lock()
			delete(idx.channels, id)
			idx.mu.Unlock()
		}
	}
}

func (s *Store) putRole(r discord.Role) {
	s.roles.Set(r.ID, &r)
	if !r.GuildID.IsZero() {
		idx := s.index(r.GuildID)
		idx.mu.Lock()
		idx.roles[r.ID] = struct{}{}
		idx.mu.Unlock()
	}
}

func (s *Store) dropRole(id, guildID discord.Snowflake) {
	s.roles.Delete(id)
	if !guildID.IsZero() {
		if idx, ok := s.perGuild.Get(guildID); ok {
			idx.mu.Lock()
			delete(idx.roles, id)
			idx.mu.Unlock()
		}
	}
}

func (s *Store) index(guildID discord.Snowflake) *guildIndex {
	if idx, ok := s.perGuild.Get(guildID); ok {
		return idx
	}
	idx := &guildIndex{
		channels: make(map[discord.Snowflake]struct{}),
		roles:    make(map[discord.Snowflake]struct{}),
	}
	// Single writer per guild, so no lost-update race on this insert.
	s.perGuild.Set(guildID, idx)
	return idx
}

// ──────────────────────────────────────────────────
// Read accessors
// ──────────────────────────────────────────────────

// Guild returns a guild by id.
func (s *Store) Guild(id discord.Snowflake) (*discord.Guild, bool) {
	return s.guilds.Get(id)
}

// Channel returns a channel or thread by id.
func (s *Store) Channel(id discord.Snowflake) (*discord.Channel, bool) {
	return s.channels.Get(id)
}

// Role returns a role by id.
func (s *Store) Role(id discord.Snowflake) (*discord.Role, bool) {
	return s.roles.Get(id)
}

// SelfMember returns the bot's own membership in a guild.
func (s *Store) SelfMember(guildID discord.Snowflake) (*discord.Member, bool) {
	return s.selfMembers.Get(guildID)
}

// LastMessage returns the last-message entry for a channel.
func (s *Store) LastMessage(channelID discord.Snowflake) (*LastMessage, bool) {
	return s.lastMessages.Get(channelID)
}

// GuildChannels lists a guild's cached channels ordered by position then id.
func (s *Store) GuildChannels(guildID discord.Snowflake) []*discord.Channel {
	idx, ok := s.perGuild.Get(guildID)
	if !ok {
		return nil
	}
	idx.mu.RLock()
	ids := make([]discord.Snowflake, 0, len(idx.channels))
	for id := range idx.channels {
		ids = append(ids, id)
	}
	idx.mu.RUnlock()

	out := make([]*discord.Channel, 0, len(ids))
	for _, id := range ids {
		if ch, ok := s.channels.Get(id); ok {
			out = append(out, ch)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// GuildRoles lists a guild's cached roles ordered by position then id.
func (s *Store) GuildRoles(guildID discord.Snowflake) []*discord.Role {
	idx, ok := s.perGuild.Get(guildID)
	if !ok {
		return nil
	}
	idx.mu.RLock()
	ids := make([]discord.Snowflake, 0, len(idx.roles))
	for id := range idx.roles {
		ids = append(ids, id)
	}
	idx.mu.RUnlock()

	out := make([]*discord.Role, 0, len(ids))
	for _, id := range ids {
		if r, ok := s.roles.Get(id); ok {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Counts reports mirror sizes for the stats endpoint.
func (s *Store) Counts() (guilds, channels, roles int) {
	return s.guilds.Len(), s.channels.Len(), s.roles.Len()
}
