// Package cache keeps the live in-memory mirror of guilds, channels, roles,
// the bot's own memberships, and per-channel last-message tombstones, fed by
// the gateway event stream. It also hosts the permission-resolution
// algorithm, which answers authorization queries from the mirror alone
// except for one REST fallback (other users' role lists).
//
// Entries are never mutated in place: writers always store freshly decoded
// objects, so concurrent readers see either the old or the new value.
// Writes to unrelated ids never contend. A reader may briefly observe a
// partially applied multi-entity update (notably guild-create seeding);
// the mirror is eventually consistent, not linearizable.
package cache
