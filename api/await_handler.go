package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/xraph/forge"

	"github.com/PluralKit/PluralKit-sub000/awaiter"
)

const (
	waitKindReaction    = "reaction"
	waitKindMessage     = "message"
	waitKindInteraction = "interaction"
)

func (a *API) awaitEvent(ctx forge.Context, req *AwaitEventRequest) (*struct{}, error) {
	target, err := awaiter.ParseTarget(req.Target)
	if err != nil {
		return nil, forge.BadRequest(err.Error())
	}

	// source-addr targets resolve against the registering connection's
	// remote address, so resolution has to happen here and not at match
	// time.
	callback, err := target.Resolve(ctx.Request().RemoteAddr)
	if err != nil {
		return nil, forge.BadRequest(err.Error())
	}

	expiry := awaiter.DefaultExpiry
	if req.TimeoutSeconds > 0 {
		expiry = time.Duration(req.TimeoutSeconds) * time.Second
	}

	switch req.Kind {
	case waitKindReaction:
		if req.MessageID.IsZero() || req.UserID.IsZero() {
			return nil, forge.BadRequest("reaction wait requires message_id and user_id")
		}
		a.deps.Awaits.RegisterReaction(awaiter.ReactionKey{
			MessageID: req.MessageID,
			UserID:    req.UserID,
		}, callback, expiry)

	case waitKindMessage:
		if req.ChannelID.IsZero() || req.AuthorID.IsZero() {
			return nil, forge.BadRequest("message wait requires channel_id and author_id")
		}
		a.deps.Awaits.RegisterMessage(awaiter.MessageKey{
			ChannelID: req.ChannelID,
			AuthorID:  req.AuthorID,
		}, callback, expiry, req.Options)

	case waitKindInteraction:
		if req.CustomID == "" {
			return nil, forge.BadRequest("interaction wait requires custom_id")
		}
		a.deps.Awaits.RegisterInteraction(req.CustomID, callback, expiry)

	default:
		return nil, forge.BadRequest(fmt.Sprintf("unknown wait kind %q", req.Kind))
	}

	return nil, ctx.NoContent(http.StatusNoContent)
}

func (a *API) clearAwaiter(ctx forge.Context) error {
	a.deps.Awaits.Clear()
	return ctx.NoContent(http.StatusNoContent)
}
