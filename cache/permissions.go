package cache

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/PluralKit/PluralKit-sub000/discord"
)

// MemberSource resolves a guild member over the network. It is the only
// network-dependent path in permission resolution, used for every actor
// other than the bot itself. A failed lookup fails the query; it is never
// approximated.
type MemberSource interface {
	Member(ctx context.Context, guildID, userID discord.Snowflake) (*discord.Member, error)
}

// Permissions resolves the effective permission set for an actor.
//
// A zero guildID means a DM context and yields the fixed DM set. Otherwise
// the guild owner bypasses everything; everyone else gets the additive
// union of their role grants, refined by the channel's overwrites when
// channelID is non-zero (threads borrow their parent's overwrites), and
// finally stripped of communication bits under an active timeout.
func (s *Store) Permissions(ctx context.Context, actor, guildID, channelID discord.Snowflake) (discord.PermissionSet, error) {
	if guildID.IsZero() {
		return discord.PermissionsDM, nil
	}

	guild, ok := s.guilds.Get(guildID)
	if !ok {
		return 0, fmt.Errorf("%w: guild %s", ErrNotFound, guildID)
	}

	if actor == guild.OwnerID {
		return discord.PermissionsAll, nil
	}

	member, err := s.resolveMember(ctx, guildID, actor)
	if err != nil {
		return 0, err
	}

	perms, err := s.basePermissions(guildID, member.Roles)
	if err != nil {
		return 0, err
	}

	if !channelID.IsZero() {
		perms, err = s.applyOverwrites(perms, guildID, channelID, actor, member.Roles)
		if err != nil {
			return 0, err
		}
	}

	// Timeouts are only tracked for the bot's own membership; other
	// members' REST payloads still carry the field and are honored.
	if member.IsTimedOut(s.now()) {
		perms = perms.ApplyTimeout()
	}

	return perms, nil
}

// resolveMember picks the cached self-membership for the bot, or the REST
// fallback for anyone else.
func (s *Store) resolveMember(ctx context.Context, guildID, actor discord.Snowflake) (*discord.Member, error) {
	if actor == s.Self() {
		member, ok := s.selfMembers.Get(guildID)
		if !ok {
			s.logger.Error("own membership missing from mirror",
				slog.String("guild_id", guildID.String()),
			)
			return nil, fmt.Errorf("%w: self membership in guild %s", ErrInconsistent, guildID)
		}
		return member, nil
	}

	if s.members == nil {
		return nil, fmt.Errorf("cache: no member source configured for user %s", actor)
	}
	member, err := s.members.Member(ctx, guildID, actor)
	if err != nil {
		return nil, fmt.Errorf("cache: member lookup %s in %s: %w", actor, guildID, err)
	}
	return member, nil
}

// basePermissions ORs the @everyone role with every assigned role. Role
// grants are additive; there is no role-level deny.
func (s *Store) basePermissions(guildID discord.Snowflake, roleIDs []discord.Snowflake) (discord.PermissionSet, error) {
	// The @everyone role shares the guild's id.
	everyone, ok := s.roles.Get(guildID)
	if !ok {
		s.logger.Error("everyone role missing from mirror",
			slog.String("guild_id", guildID.String()),
		)
		return 0, fmt.Errorf("%w: everyone role of guild %s", ErrInconsistent, guildID)
	}

	perms := everyone.Permissions
	for _, id := range roleIDs {
		role, ok := s.roles.Get(id)
		if !ok {
			s.logger.Error("assigned role missing from mirror",
				slog.String("guild_id", guildID.String()),
				slog.String("role_id", id.String()),
			)
			return 0, fmt.Errorf("%w: role %s of guild %s", ErrInconsistent, id, guildID)
		}
		perms |= role.Permissions
	}
	return perms, nil
}

// applyOverwrites layers a channel's overwrites over the base set, in the
// platform's order: @everyone, then the union of matching role overwrites,
// then the member-specific overwrite — deny before allow at each layer.
// Administrator is deliberately not short-circuited here; only the owner
// bypass skips overwrite math.
func (s *Store) applyOverwrites(base discord.PermissionSet, guildID, channelID, actor discord.Snowflake, roleIDs []discord.Snowflake) (discord.PermissionSet, error) {
	channel, ok := s.channels.Get(channelID)
	if !ok {
		return 0, fmt.Errorf("%w: channel %s", ErrNotFound, channelID)
	}

	overwrites := channel.PermissionOverwrites
	if channel.Type.IsThread() {
		parent, ok := s.channels.Get(channel.ParentID)
		if !ok {
			s.logger.Error("thread parent missing from mirror",
				slog.String("thread_id", channelID.String()),
				slog.String("parent_id", channel.ParentID.String()),
			)
			return 0, fmt.Errorf("%w: parent %s of thread %s", ErrInconsistent, channel.ParentID, channelID)
		}
		overwrites = parent.PermissionOverwrites
	}

	memberRoles := make(map[discord.Snowflake]struct{}, len(roleIDs))
	for _, id := range roleIDs {
		memberRoles[id] = struct{}{}
	}

	perms := base
	var roleAllow, roleDeny discord.PermissionSet
	var memberOverwrite *discord.Overwrite

	for i := range overwrites {
		ow := &overwrites[i]
		switch {
		case ow.Type == discord.OverwriteRole && ow.ID == guildID:
			perms = perms&^ow.Deny | ow.Allow
		case ow.Type == discord.OverwriteRole:
			if _, ok := memberRoles[ow.ID]; ok {
				roleDeny |= ow.Deny
				roleAllow |= ow.Allow
			}
		case ow.Type == discord.OverwriteMember && ow.ID == actor:
			memberOverwrite = ow
		}
	}

	perms = perms&^roleDeny | roleAllow
	if memberOverwrite != nil {
		perms = perms&^memberOverwrite.Deny | memberOverwrite.Allow
	}
	return perms, nil
}
