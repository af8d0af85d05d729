// Package event defines the closed set of gateway dispatch events the
// coordinator consumes, decoded exactly once at the stream boundary.
//
// Each decoded Event carries a Kind tag, the raw payload for downstream
// forwarding, and one typed payload. Dispatch types outside the set decode
// to KindIgnored and flow through cache and health updates without ever
// being forwarded.
package event
