package api

import (
	"fmt"
	"net/http"

	"github.com/xraph/forge"
)

func (a *API) stats(ctx forge.Context) error {
	shards, err := a.deps.Health.All(ctx.Context())
	if err != nil {
		return fmt.Errorf("load shard health: %w", err)
	}

	guilds, channels, roles := a.deps.Cache.Counts()
	reactions, messages, interactions := a.deps.Awaits.Counts()
	forwarded, failed := a.deps.Forwarder.Stats()

	return ctx.JSON(http.StatusOK, StatsResponse{
		Shards: shards,
		Cache: CacheCounts{
			Guilds:   guilds,
			Channels: channels,
			Roles:    roles,
		},
		Awaiters: AwaiterCounts{
			Reactions:    reactions,
			Messages:     messages,
			Interactions: interactions,
		},
		Forwarding: ForwardStats{
			Target:    a.deps.Forwarder.Target(),
			Forwarded: forwarded,
			Failed:    failed,
		},
	})
}
