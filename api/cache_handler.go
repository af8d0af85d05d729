// Package api provides HTTP handlers for the gateway coordination API.
package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/xraph/forge"

	"github.com/PluralKit/PluralKit-sub000/cache"
	"github.com/PluralKit/PluralKit-sub000/discord"
)

func (a *API) getGuild(ctx forge.Context) error {
	guildID, err := snowflakeParam(ctx, "guildID")
	if err != nil {
		return err
	}

	g, ok := a.deps.Cache.Guild(guildID)
	if !ok {
		return forge.NotFound(fmt.Sprintf("guild %s not cached", guildID))
	}

	return ctx.JSON(http.StatusOK, g)
}

func (a *API) getSelfMember(ctx forge.Context) error {
	guildID, err := snowflakeParam(ctx, "guildID")
	if err != nil {
		return err
	}

	m, ok := a.deps.Cache.SelfMember(guildID)
	if !ok {
		return forge.NotFound(fmt.Sprintf("own member in guild %s not cached", guildID))
	}

	return ctx.JSON(http.StatusOK, m)
}

func (a *API) getSelfGuildPermissions(ctx forge.Context) error {
	guildID, err := snowflakeParam(ctx, "guildID")
	if err != nil {
		return err
	}
	return a.resolvePermissions(ctx, a.deps.Cache.Self(), guildID, 0)
}

func (a *API) getUserGuildPermissions(ctx forge.Context) error {
	guildID, err := snowflakeParam(ctx, "guildID")
	if err != nil {
		return err
	}
	userID, err := snowflakeParam(ctx, "userID")
	if err != nil {
		return err
	}
	return a.resolvePermissions(ctx, userID, guildID, 0)
}

func (a *API) getSelfChannelPermissions(ctx forge.Context) error {
	guildID, err := snowflakeParam(ctx, "guildID")
	if err != nil {
		return err
	}
	channelID, err := snowflakeParam(ctx, "channelID")
	if err != nil {
		return err
	}
	return a.resolvePermissions(ctx, a.deps.Cache.Self(), guildID, channelID)
}

// resolvePermissions runs the permission algorithm for actor and writes the
// result. An unknown self user means no READY has arrived yet.
func (a *API) resolvePermissions(ctx forge.Context, actor, guildID, channelID discord.Snowflake) error {
	if actor.IsZero() {
		return forge.InternalError(errors.New("own user not known yet"))
	}

	perms, err := a.deps.Cache.Permissions(ctx.Context(), actor, guildID, channelID)
	if err != nil {
		return mapCacheError(err)
	}

	return ctx.JSON(http.StatusOK, PermissionsResponse{Permissions: perms})
}

func (a *API) listGuildChannels(ctx forge.Context) error {
	guildID, err := snowflakeParam(ctx, "guildID")
	if err != nil {
		return err
	}

	if _, ok := a.deps.Cache.Guild(guildID); !ok {
		return forge.NotFound(fmt.Sprintf("guild %s not cached", guildID))
	}

	return ctx.JSON(http.StatusOK, a.deps.Cache.GuildChannels(guildID))
}

func (a *API) getChannel(ctx forge.Context) error {
	guildID, err := snowflakeParam(ctx, "guildID")
	if err != nil {
		return err
	}
	channelID, err := snowflakeParam(ctx, "channelID")
	if err != nil {
		return err
	}

	ch, ok := a.deps.Cache.Channel(channelID)
	if !ok || ch.GuildID != guildID {
		return forge.NotFound(fmt.Sprintf("channel %s not cached in guild %s", channelID, guildID))
	}

	return ctx.JSON(http.StatusOK, ch)
}

func (a *API) getLastMessage(ctx forge.Context) error {
	channelID, err := snowflakeParam(ctx, "channelID")
	if err != nil {
		return err
	}

	lm, ok := a.deps.Cache.LastMessage(channelID)
	if !ok {
		return forge.NotFound(fmt.Sprintf("no last message for channel %s", channelID))
	}

	return ctx.JSON(http.StatusOK, lm)
}

func (a *API) listGuildRoles(ctx forge.Context) error {
	guildID, err := snowflakeParam(ctx, "guildID")
	if err != nil {
		return err
	}

	if _, ok := a.deps.Cache.Guild(guildID); !ok {
		return forge.NotFound(fmt.Sprintf("guild %s not cached", guildID))
	}

	return ctx.JSON(http.StatusOK, a.deps.Cache.GuildRoles(guildID))
}

// snowflakeParam parses a path parameter as a snowflake ID.
func snowflakeParam(ctx forge.Context, name string) (discord.Snowflake, error) {
	id, err := discord.ParseSnowflake(ctx.Param(name))
	if err != nil {
		return 0, forge.BadRequest(fmt.Sprintf("invalid %s: %v", name, err))
	}
	return id, nil
}

// mapCacheError converts cache sentinel errors to forge HTTP errors. A
// consistency failure is a server fault, never a 4xx.
func mapCacheError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, cache.ErrNotFound) {
		return forge.NotFound(err.Error())
	}
	if errors.Is(err, cache.ErrInconsistent) {
		return forge.InternalError(err)
	}
	return err
}
