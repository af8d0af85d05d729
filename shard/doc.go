// Package shard runs one long-lived task per owned shard, bridging the
// external gateway stream client to the coordinator's state: health records,
// the live object mirror, awaiter matching, and downstream forwarding.
//
// The wire protocol itself — handshake, heartbeats, compression — lives in
// the stream client behind the Conn interface; this package consumes an
// already-decoded sequence of dispatch events and lifecycle notifications.
package shard
