// Package rest is a deliberately small Discord REST client covering the one
// call permission resolution cannot answer from the mirror: fetching
// another user's guild member record. Calls are token-bucket limited well
// under Discord's global ceiling.
package rest
