// Package awaiter correlates "wait for the next matching event" requests
// with the push-only gateway stream, across process boundaries.
//
// Callers register what they are waiting for — a reaction on a message, a
// message in a channel from an author, or a component interaction by custom
// id — together with a callback target. The first matching event consumes
// the registration exactly once and is POSTed to the target. Registrations
// that never match are evicted by a periodic sweep after their expiry;
// nothing is persisted, so a restart drops all pending waits.
package awaiter
