package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/xraph/forge"

	"github.com/PluralKit/PluralKit-sub000/store"
)

// ConfigHashKey is the shared-store hash the runtime config lives in. Every
// process in the fleet reads and writes the same hash.
const ConfigHashKey = "remote_config:gateway"

// eventTargetKey is the one runtime config entry this process also acts on:
// writing it repoints the event forwarder without a restart.
const eventTargetKey = "event_target"

func (a *API) listRuntimeConfig(ctx forge.Context) error {
	values, err := a.deps.Config.HashGetAll(ctx.Context(), ConfigHashKey)
	if err != nil {
		return fmt.Errorf("list runtime config: %w", err)
	}
	return ctx.JSON(http.StatusOK, values)
}

func (a *API) getRuntimeConfig(ctx forge.Context) error {
	key := ctx.Param("key")

	value, err := a.deps.Config.HashGet(ctx.Context(), ConfigHashKey, key)
	if errors.Is(err, store.ErrFieldMissing) {
		return forge.NotFound(fmt.Sprintf("no runtime config entry %q", key))
	}
	if err != nil {
		return fmt.Errorf("get runtime config: %w", err)
	}

	return ctx.JSON(http.StatusOK, RuntimeConfigEntry{Key: key, Value: value})
}

func (a *API) setRuntimeConfig(ctx forge.Context, req *SetRuntimeConfigRequest) (*struct{}, error) {
	if req.Key == "" {
		return nil, forge.BadRequest("key is required")
	}

	if err := a.deps.Config.HashSet(ctx.Context(), ConfigHashKey, req.Key, req.Value); err != nil {
		return nil, fmt.Errorf("set runtime config: %w", err)
	}

	if req.Key == eventTargetKey {
		a.deps.Forwarder.SetTarget(req.Value)
	}

	return nil, ctx.NoContent(http.StatusNoContent)
}

func (a *API) deleteRuntimeConfig(ctx forge.Context) error {
	key := ctx.Param("key")

	if err := a.deps.Config.HashDelete(ctx.Context(), ConfigHashKey, key); err != nil {
		return fmt.Errorf("delete runtime config: %w", err)
	}

	if key == eventTargetKey {
		a.deps.Forwarder.SetTarget("")
	}

	return ctx.NoContent(http.StatusNoContent)
}
