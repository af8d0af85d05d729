package cache_test

import (
	"testing"

	"github.com/PluralKit/PluralKit-sub000/cache"
	"github.com/PluralKit/PluralKit-sub000/discord"
	"github.com/PluralKit/PluralKit-sub000/event"
)

// ── Test fixtures ────────────────────────────────────

const (
	selfID    discord.Snowflake = 999
	ownerID   discord.Snowflake = 7
	guildID   discord.Snowflake = 100 // also the @everyone role id
	channelID discord.Snowflake = 200
	threadID  discord.Snowflake = 300
	roleID    discord.Snowflake = 400
	userID    discord.Snowflake = 500
)

// seeded returns a store with READY applied and one fully populated guild:
// an @everyone role, one extra role, one text channel, and one thread under
// it. The bot's own membership carries the extra role.
func seeded(t *testing.T, opts ...cache.Option) *cache.Store {
	t.Helper()
	st := cache.New(opts...)

	st.Apply(&event.Event{Kind: event.KindReady, Ready: &event.Ready{
		User: discord.User{ID: selfID, Username: "bot"},
	}})

	st.Apply(&event.Event{Kind: event.KindGuildCreate, GuildCreate: &event.GuildCreate{
		Guild: discord.Guild{ID: guildID, Name: "test", OwnerID: ownerID},
		Roles: []discord.Role{
			{ID: guildID, Name: "@everyone", Permissions: discord.PermissionViewChannel | discord.PermissionReadMessageHistory},
			{ID: roleID, Name: "writer", Position: 1, Permissions: discord.PermissionSendMessages},
		},
		Channels: []discord.Channel{
			{ID: channelID, Type: discord.ChannelTypeGuildText},
		},
		Threads: []discord.Channel{
			{ID: threadID, Type: discord.ChannelTypePublicThread, ParentID: channelID},
		},
		Members: []discord.Member{
			{User: &discord.User{ID: selfID}, Roles: []discord.Snowflake{roleID}},
		},
	}})

	return st
}

// ── Tests ────────────────────────────────────────────

func TestStore_Ready_SetsSelf(t *testing.T) {
	st := cache.New()
	if !st.Self().IsZero() {
		t.Fatal("Self() set before READY")
	}

	st.Apply(&event.Event{Kind: event.KindReady, Ready: &event.Ready{
		User: discord.User{ID: selfID},
	}})
	if st.Self() != selfID {
		t.Errorf("Self() = %v, want %v", st.Self(), selfID)
	}
}

func TestStore_GuildCreate_SeedsEverything(t *testing.T) {
	st := seeded(t)

	if _, ok := st.Guild(guildID); !ok {
		t.Error("guild not cached")
	}
	if _, ok := st.Role(guildID); !ok {
		t.Error("@everyone role not cached")
	}
	if _, ok := st.Role(roleID); !ok {
		t.Error("role not cached")
	}
	if _, ok := st.Channel(channelID); !ok {
		t.Error("channel not cached")
	}
	if ch, ok := st.Channel(threadID); !ok || !ch.Type.IsThread() {
		t.Error("thread not cached as thread")
	}
	if _, ok := st.SelfMember(guildID); !ok {
		t.Error("self membership not cached")
	}

	guilds, channels, roles := st.Counts()
	if guilds != 1 || channels != 2 || roles != 2 {
		t.Errorf("Counts() = (%d, %d, %d), want (1, 2, 2)", guilds, channels, roles)
	}
}

func TestStore_GuildCreate_ThreadInheritsGuildID(t *testing.T) {
	st := seeded(t)

	ch, ok := st.Channel(threadID)
	if !ok {
		t.Fatal("thread not cached")
	}
	if ch.GuildID != guildID {
		t.Errorf("thread GuildID = %v, want %v", ch.GuildID, guildID)
	}
}

func TestStore_GuildDelete_Cascades(t *testing.T) {
	st := seeded(t)

	st.Apply(&event.Event{Kind: event.KindMessageCreate, Message: &discord.Message{
		ID: 1, ChannelID: channelID,
	}})

	st.Apply(&event.Event{Kind: event.KindGuildDelete, GuildDelete: &event.GuildDelete{
		ID: guildID,
	}})

	if _, ok := st.Guild(guildID); ok {
		t.Error("guild survived delete")
	}
	if _, ok := st.Channel(channelID); ok {
		t.Error("channel survived guild delete")
	}
	if _, ok := st.Channel(threadID); ok {
		t.Error("thread survived guild delete")
	}
	if _, ok := st.Role(roleID); ok {
		t.Error("role survived guild delete")
	}
	if _, ok := st.SelfMember(guildID); ok {
		t.Error("self membership survived guild delete")
	}
	if _, ok := st.LastMessage(channelID); ok {
		t.Error("last-message entry survived guild delete")
	}

	guilds, channels, roles := st.Counts()
	if guilds != 0 || channels != 0 || roles != 0 {
		t.Errorf("Counts() = (%d, %d, %d), want zeros", guilds, channels, roles)
	}
}

func TestStore_ChannelLifecycle(t *testing.T) {
	st := seeded(t)

	newCh := discord.Channel{ID: 201, GuildID: guildID, Type: discord.ChannelTypeGuildText, Name: "general"}
	st.Apply(&event.Event{Kind: event.KindChannelCreate, Channel: &newCh})
	if ch, ok := st.Channel(201); !ok || ch.Name != "general" {
		t.Fatal("created channel not cached")
	}

	newCh.Name = "renamed"
	st.Apply(&event.Event{Kind: event.KindChannelUpdate, Channel: &newCh})
	if ch, _ := st.Channel(201); ch.Name != "renamed" {
		t.Errorf("channel Name = %q, want renamed", ch.Name)
	}

	st.Apply(&event.Event{Kind: event.KindChannelDelete, Channel: &newCh})
	if _, ok := st.Channel(201); ok {
		t.Error("deleted channel still cached")
	}
}

func TestStore_ThreadDelete(t *testing.T) {
	st := seeded(t)

	st.Apply(&event.Event{Kind: event.KindThreadDelete, ThreadDelete: &event.ThreadDelete{
		ID: threadID, GuildID: guildID, ParentID: channelID,
	}})
	if _, ok := st.Channel(threadID); ok {
		t.Error("deleted thread still cached")
	}
	if _, ok := st.Channel(channelID); !ok {
		t.Error("parent channel dropped with thread")
	}
}

func TestStore_RoleLifecycle(t *testing.T) {
	st := seeded(t)

	st.Apply(&event.Event{Kind: event.KindRoleCreate, Role: &event.RoleEvent{
		GuildID: guildID,
		Role:    discord.Role{ID: 401, Name: "mod", Permissions: discord.PermissionManageMessages},
	}})
	r, ok := st.Role(401)
	if !ok {
		t.Fatal("created role not cached")
	}
	if r.GuildID != guildID {
		t.Errorf("role GuildID = %v, want %v", r.GuildID, guildID)
	}

	st.Apply(&event.Event{Kind: event.KindRoleDelete, RoleDelete: &event.RoleDelete{
		GuildID: guildID, RoleID: 401,
	}})
	if _, ok := st.Role(401); ok {
		t.Error("deleted role still cached")
	}
}

func TestStore_MemberUpdate_SelfOnly(t *testing.T) {
	st := seeded(t)

	st.Apply(&event.Event{Kind: event.KindMemberUpdate, MemberUpdate: &event.MemberUpdate{
		GuildID: guildID,
		Member:  discord.Member{User: &discord.User{ID: selfID}, Roles: nil},
	}})
	m, ok := st.SelfMember(guildID)
	if !ok {
		t.Fatal("self membership gone after update")
	}
	if len(m.Roles) != 0 {
		t.Errorf("Roles = %v, want stripped", m.Roles)
	}

	// Updates about other users must not touch the self slot.
	st.Apply(&event.Event{Kind: event.KindMemberUpdate, MemberUpdate: &event.MemberUpdate{
		GuildID: guildID,
		Member:  discord.Member{User: &discord.User{ID: userID}, Roles: []discord.Snowflake{roleID}},
	}})
	m, _ = st.SelfMember(guildID)
	if len(m.Roles) != 0 {
		t.Error("self membership overwritten by another user's update")
	}
}

func TestStore_GuildChannels_Sorted(t *testing.T) {
	st := seeded(t)

	st.Apply(&event.Event{Kind: event.KindChannelCreate, Channel: &discord.Channel{
		ID: 210, GuildID: guildID, Type: discord.ChannelTypeGuildText, Position: 2,
	}})
	st.Apply(&event.Event{Kind: event.KindChannelCreate, Channel: &discord.Channel{
		ID: 205, GuildID: guildID, Type: discord.ChannelTypeGuildText, Position: 1,
	}})

	chs := st.GuildChannels(guildID)
	if len(chs) != 4 {
		t.Fatalf("len(GuildChannels) = %d, want 4", len(chs))
	}
	for i := 1; i < len(chs); i++ {
		prev, cur := chs[i-1], chs[i]
		if prev.Position > cur.Position ||
			(prev.Position == cur.Position && prev.ID > cur.ID) {
			t.Errorf("channels out of order at %d: %+v before %+v", i, prev, cur)
		}
	}
}

func TestStore_GuildRoles_Sorted(t *testing.T) {
	st := seeded(t)

	roles := st.GuildRoles(guildID)
	if len(roles) != 2 {
		t.Fatalf("len(GuildRoles) = %d, want 2", len(roles))
	}
	if roles[0].ID != guildID || roles[1].ID != roleID {
		t.Errorf("roles = [%v, %v], want [@everyone, writer]", roles[0].ID, roles[1].ID)
	}
}

func TestStore_IgnoredKindIsNoOp(t *testing.T) {
	st := seeded(t)

	st.Apply(&event.Event{Kind: event.KindIgnored})

	guilds, channels, roles := st.Counts()
	if guilds != 1 || channels != 2 || roles != 2 {
		t.Errorf("Counts() changed by ignored event: (%d, %d, %d)", guilds, channels, roles)
	}
}
