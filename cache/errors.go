package cache

import "errors"

var (
	// ErrNotFound means the queried entity is simply not in the mirror —
	// the normal absent case, surfaced as 404 at the API boundary.
	ErrNotFound = errors.New("cache: not found")

	// ErrInconsistent means an id the mirror is supposed to hold (a guild's
	// @everyone role, a thread's parent, the bot's own membership) is
	// missing. This is an internal consistency failure: it is logged, the
	// request fails, and no repair is attempted. It is never treated as
	// "no permission".
	ErrInconsistent = errors.New("cache: internal consistency violation")
)
