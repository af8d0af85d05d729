package cache

import "github.com/PluralKit/PluralKit-sub000/discord"

// MessageStub is the tombstone kept per message: enough to re-render a
// proxied reply after the original is gone.
type MessageStub struct {
	ID           discord.Snowflake `json:"id"`
	ReferencedID discord.Snowflake `json:"referenced_message_id,omitempty"`
	AuthorName   string            `json:"author_name,omitempty"`
}

// LastMessage is a channel's two-deep last-message record. Current is
// always the most recent known non-deleted message; if no message
// survives, the whole entry is absent from the mirror.
type LastMessage struct {
	ChannelID discord.Snowflake `json:"channel_id"`
	Current   MessageStub       `json:"current"`
	Previous  *MessageStub      `json:"previous,omitempty"`
}

// pushMessage records a newly created message, demoting the old current to
// previous. Entries are replaced wholesale, never mutated, so concurrent
// readers stay safe.
func (s *Store) pushMessage(m *discord.Message) {
	stub := MessageStub{ID: m.ID}
	if m.Author != nil {
		stub.AuthorName = m.Author.Username
	}
	if m.MessageReference != nil {
		stub.ReferencedID = m.MessageReference.MessageID
	}

	next := &LastMessage{ChannelID: m.ChannelID, Current: stub}
	if prev, ok := s.lastMessages.Get(m.ChannelID); ok {
		cur := prev.Current
		next.Previous = &cur
	}
	s.lastMessages.Set(m.ChannelID, next)
}

// deleteMessages applies a deletion set to a channel's entry:
//
//  1. neither current nor previous deleted — no-op
//  2. previous deleted (current survives) — drop previous
//  3. current deleted, previous survives — promote previous
//  4. current deleted, nothing survives — remove the entry
func (s *Store) deleteMessages(channelID discord.Snowflake, ids []discord.Snowflake) {
	entry, ok := s.lastMessages.Get(channelID)
	if !ok {
		return
	}

	deleted := make(map[discord.Snowflake]struct{}, len(ids))
	for _, id := range ids {
		deleted[id] = struct{}{}
	}

	_, currentGone := deleted[entry.Current.ID]
	previousGone := false
	if entry.Previous != nil {
		_, previousGone = deleted[entry.Previous.ID]
	}

	switch {
	case !currentGone && !previousGone:
		return
	case !currentGone && previousGone:
		s.lastMessages.Set(channelID, &LastMessage{
			ChannelID: channelID,
			Current:   entry.Current,
		})
	case currentGone && entry.Previous != nil && !previousGone:
		s.lastMessages.Set(channelID, &LastMessage{
			ChannelID: channelID,
			Current:   *entry.Previous,
		})
	default:
		s.lastMessages.Delete(channelID)
	}
}
