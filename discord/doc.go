// Package discord defines the subset of Discord wire objects the gateway
// coordinator mirrors: guilds, channels, roles, members, messages, and the
// permission bitset with its resolution constants.
//
// Only the fields the coordinator reads are modeled. Everything decodes
// straight from gateway dispatch payloads and re-encodes for the
// coordination API without transformation.
package discord
