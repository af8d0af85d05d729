package api

import (
	"net/http"

	"github.com/xraph/forge"

	"github.com/PluralKit/PluralKit-sub000/awaiter"
	"github.com/PluralKit/PluralKit-sub000/cache"
	"github.com/PluralKit/PluralKit-sub000/discord"
	"github.com/PluralKit/PluralKit-sub000/forward"
	"github.com/PluralKit/PluralKit-sub000/health"
	"github.com/PluralKit/PluralKit-sub000/store"
)

// Deps are the components the coordination API reads from and writes to.
type Deps struct {
	Cache     *cache.Store
	Awaits    *awaiter.Registry
	Health    *health.Tracker
	Config    store.Store
	Forwarder *forward.Forwarder
}

// API wires all Forge-style HTTP handlers for the gateway coordination
// surface together.
type API struct {
	deps   Deps
	router forge.Router
}

// New creates an API over the given components.
func New(deps Deps, router forge.Router) *API {
	return &API{deps: deps, router: router}
}

// Handler returns the fully assembled http.Handler with all routes.
func (a *API) Handler() http.Handler {
	if a.router == nil {
		a.router = forge.NewRouter()
	}
	a.RegisterRoutes(a.router)
	return a.router.Handler()
}

// RegisterRoutes registers all coordination API routes into the given Forge
// router with full OpenAPI metadata.
func (a *API) RegisterRoutes(router forge.Router) {
	a.registerGuildRoutes(router)
	a.registerAwaitRoutes(router)
	a.registerConfigRoutes(router)
	a.registerStatsRoutes(router)
}

// registerGuildRoutes registers cache and permission read routes.
func (a *API) registerGuildRoutes(router forge.Router) {
	g := router.Group("/guilds", forge.WithGroupTags("guilds"))

	_ = g.GET("/:guildID", a.getGuild,
		forge.WithSummary("Get guild"),
		forge.WithDescription("Returns a cached guild by ID."),
		forge.WithOperationID("getGuild"),
		forge.WithResponseSchema(http.StatusOK, "Guild", &discord.Guild{}),
		forge.WithErrorResponses(),
	)

	_ = g.GET("/:guildID/members/@me", a.getSelfMember,
		forge.WithSummary("Get own member"),
		forge.WithDescription("Returns the bot's cached member in a guild."),
		forge.WithOperationID("getSelfMember"),
		forge.WithResponseSchema(http.StatusOK, "Member", &discord.Member{}),
		forge.WithErrorResponses(),
	)

	// Static segment before the :userID variant so @me never hits the
	// parameterized route.
	_ = g.GET("/:guildID/permissions/@me", a.getSelfGuildPermissions,
		forge.WithSummary("Own guild permissions"),
		forge.WithDescription("Resolves the bot's guild-level permission set."),
		forge.WithOperationID("getSelfGuildPermissions"),
		forge.WithResponseSchema(http.StatusOK, "Permission set", PermissionsResponse{}),
		forge.WithErrorResponses(),
	)

	_ = g.GET("/:guildID/permissions/:userID", a.getUserGuildPermissions,
		forge.WithSummary("User guild permissions"),
		forge.WithDescription("Resolves a user's guild-level permission set, fetching the member over REST when it is not cached."),
		forge.WithOperationID("getUserGuildPermissions"),
		forge.WithResponseSchema(http.StatusOK, "Permission set", PermissionsResponse{}),
		forge.WithErrorResponses(),
	)

	_ = g.GET("/:guildID/channels", a.listGuildChannels,
		forge.WithSummary("List guild channels"),
		forge.WithDescription("Returns all cached channels and threads of a guild."),
		forge.WithOperationID("listGuildChannels"),
		forge.WithResponseSchema(http.StatusOK, "Channel list", []*discord.Channel{}),
		forge.WithErrorResponses(),
	)

	_ = g.GET("/:guildID/channels/:channelID", a.getChannel,
		forge.WithSummary("Get channel"),
		forge.WithDescription("Returns a cached channel by ID."),
		forge.WithOperationID("getChannel"),
		forge.WithResponseSchema(http.StatusOK, "Channel", &discord.Channel{}),
		forge.WithErrorResponses(),
	)

	_ = g.GET("/:guildID/channels/:channelID/permissions/@me", a.getSelfChannelPermissions,
		forge.WithSummary("Own channel permissions"),
		forge.WithDescription("Resolves the bot's permission set in a channel, overwrites applied."),
		forge.WithOperationID("getSelfChannelPermissions"),
		forge.WithResponseSchema(http.StatusOK, "Permission set", PermissionsResponse{}),
		forge.WithErrorResponses(),
	)

	_ = g.GET("/:guildID/channels/:channelID/last_message", a.getLastMessage,
		forge.WithSummary("Get last message"),
		forge.WithDescription("Returns the two most recent message stubs of a channel."),
		forge.WithOperationID("getLastMessage"),
		forge.WithResponseSchema(http.StatusOK, "Last message entry", &cache.LastMessage{}),
		forge.WithErrorResponses(),
	)

	_ = g.GET("/:guildID/roles", a.listGuildRoles,
		forge.WithSummary("List guild roles"),
		forge.WithDescription("Returns all cached roles of a guild, ordered by position."),
		forge.WithOperationID("listGuildRoles"),
		forge.WithResponseSchema(http.StatusOK, "Role list", []*discord.Role{}),
		forge.WithErrorResponses(),
	)
}

// registerAwaitRoutes registers event-awaiter routes.
func (a *API) registerAwaitRoutes(router forge.Router) {
	g := router.Group("", forge.WithGroupTags("awaiter"))

	_ = g.POST("/await_event", a.awaitEvent,
		forge.WithSummary("Register event wait"),
		forge.WithDescription("Registers a one-shot wait for the next matching reaction, message, or interaction."),
		forge.WithOperationID("awaitEvent"),
		forge.WithRequestSchema(AwaitEventRequest{}),
		forge.WithNoContentResponse(),
		forge.WithErrorResponses(),
	)

	_ = g.POST("/clear_awaiter", a.clearAwaiter,
		forge.WithSummary("Clear event waits"),
		forge.WithDescription("Drops every pending wait registration."),
		forge.WithOperationID("clearAwaiter"),
		forge.WithNoContentResponse(),
		forge.WithErrorResponses(),
	)
}

// registerConfigRoutes registers runtime-config pass-through routes.
func (a *API) registerConfigRoutes(router forge.Router) {
	g := router.Group("/runtime_config", forge.WithGroupTags("config"))

	_ = g.GET("", a.listRuntimeConfig,
		forge.WithSummary("List runtime config"),
		forge.WithDescription("Returns every runtime config entry from the shared store."),
		forge.WithOperationID("listRuntimeConfig"),
		forge.WithResponseSchema(http.StatusOK, "Config entries", map[string]string{}),
		forge.WithErrorResponses(),
	)

	_ = g.GET("/:key", a.getRuntimeConfig,
		forge.WithSummary("Get runtime config entry"),
		forge.WithOperationID("getRuntimeConfig"),
		forge.WithResponseSchema(http.StatusOK, "Config entry", RuntimeConfigEntry{}),
		forge.WithErrorResponses(),
	)

	_ = g.POST("", a.setRuntimeConfig,
		forge.WithSummary("Set runtime config entry"),
		forge.WithOperationID("setRuntimeConfig"),
		forge.WithRequestSchema(SetRuntimeConfigRequest{}),
		forge.WithNoContentResponse(),
		forge.WithErrorResponses(),
	)

	_ = g.DELETE("/:key", a.deleteRuntimeConfig,
		forge.WithSummary("Delete runtime config entry"),
		forge.WithOperationID("deleteRuntimeConfig"),
		forge.WithNoContentResponse(),
		forge.WithErrorResponses(),
	)
}

// registerStatsRoutes registers the stats route.
func (a *API) registerStatsRoutes(router forge.Router) {
	g := router.Group("", forge.WithGroupTags("stats"))

	_ = g.GET("/stats", a.stats,
		forge.WithSummary("Gateway stats"),
		forge.WithDescription("Returns per-shard health plus cache, awaiter, and forwarding counters."),
		forge.WithOperationID("stats"),
		forge.WithResponseSchema(http.StatusOK, "Gateway stats", StatsResponse{}),
		forge.WithErrorResponses(),
	)
}
