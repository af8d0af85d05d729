package event_test

import (
	"encoding/json"
	"testing"

	"github.com/PluralKit/PluralKit-sub000/event"
)

func TestDecode_Ready(t *testing.T) {
	raw := json.RawMessage(`{"user":{"id":"123","username":"bot"},"session_id":"abc"}`)

	ev, err := event.Decode("READY", raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if ev.Kind != event.KindReady {
		t.Errorf("Kind = %q, want READY", ev.Kind)
	}
	if ev.Ready == nil {
		t.Fatal("Ready payload = nil")
	}
	if ev.Ready.User.ID != 123 {
		t.Errorf("User.ID = %d, want 123", ev.Ready.User.ID)
	}
	if ev.Ready.SessionID != "abc" {
		t.Errorf("SessionID = %q, want abc", ev.Ready.SessionID)
	}
}

func TestDecode_GuildCreate(t *testing.T) {
	raw := json.RawMessage(`{
		"id": "100",
		"name": "test guild",
		"owner_id": "7",
		"roles": [{"id":"100","name":"@everyone","permissions":"1024","position":0}],
		"channels": [{"id":"200","type":0}],
		"threads": [{"id":"300","type":11,"parent_id":"200"}],
		"members": [{"user":{"id":"123"},"roles":[]}]
	}`)

	ev, err := event.Decode("GUILD_CREATE", raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	gc := ev.GuildCreate
	if gc == nil {
		t.Fatal("GuildCreate payload = nil")
	}
	if gc.ID != 100 || gc.Name != "test guild" || gc.OwnerID != 7 {
		t.Errorf("guild = %+v", gc.Guild)
	}
	if len(gc.Roles) != 1 || gc.Roles[0].Permissions != 1024 {
		t.Errorf("roles = %+v", gc.Roles)
	}
	if len(gc.Channels) != 1 || len(gc.Threads) != 1 || len(gc.Members) != 1 {
		t.Errorf("counts = %d channels, %d threads, %d members",
			len(gc.Channels), len(gc.Threads), len(gc.Members))
	}
}

func TestDecode_PayloadRouting(t *testing.T) {
	tests := []struct {
		dispatchType string
		raw          string
		check        func(*event.Event) bool
	}{
		{"GUILD_DELETE", `{"id":"1","unavailable":true}`,
			func(ev *event.Event) bool { return ev.GuildDelete != nil && ev.GuildDelete.Unavailable }},
		{"CHANNEL_CREATE", `{"id":"2","type":0,"guild_id":"1"}`,
			func(ev *event.Event) bool { return ev.Channel != nil && ev.Channel.ID == 2 }},
		{"THREAD_CREATE", `{"id":"3","type":11,"parent_id":"2"}`,
			func(ev *event.Event) bool { return ev.Channel != nil && ev.Channel.Type.IsThread() }},
		{"THREAD_DELETE", `{"id":"3","guild_id":"1","parent_id":"2"}`,
			func(ev *event.Event) bool { return ev.ThreadDelete != nil && ev.ThreadDelete.ParentID == 2 }},
		{"GUILD_ROLE_CREATE", `{"guild_id":"1","role":{"id":"4","permissions":"8"}}`,
			func(ev *event.Event) bool { return ev.Role != nil && ev.Role.Role.ID == 4 }},
		{"GUILD_ROLE_DELETE", `{"guild_id":"1","role_id":"4"}`,
			func(ev *event.Event) bool { return ev.RoleDelete != nil && ev.RoleDelete.RoleID == 4 }},
		{"GUILD_MEMBER_UPDATE", `{"guild_id":"1","user":{"id":"5"},"roles":["4"]}`,
			func(ev *event.Event) bool { return ev.MemberUpdate != nil && ev.MemberUpdate.User.ID == 5 }},
		{"MESSAGE_CREATE", `{"id":"6","channel_id":"2","author":{"id":"5"},"content":"hi"}`,
			func(ev *event.Event) bool { return ev.Message != nil && ev.Message.Content == "hi" }},
		{"MESSAGE_DELETE", `{"id":"6","channel_id":"2"}`,
			func(ev *event.Event) bool { return ev.MessageDelete != nil && ev.MessageDelete.ID == 6 }},
		{"MESSAGE_DELETE_BULK", `{"ids":["6","7"],"channel_id":"2"}`,
			func(ev *event.Event) bool { return ev.MessageDeleteBulk != nil && len(ev.MessageDeleteBulk.IDs) == 2 }},
		{"MESSAGE_REACTION_ADD", `{"user_id":"5","channel_id":"2","message_id":"6","emoji":{"name":"x"}}`,
			func(ev *event.Event) bool { return ev.ReactionAdd != nil && ev.ReactionAdd.Emoji.Name == "x" }},
		{"INTERACTION_CREATE", `{"id":"8","type":3,"data":{"custom_id":"btn"}}`,
			func(ev *event.Event) bool { return ev.Interaction != nil && ev.Interaction.Data.CustomID == "btn" }},
	}
	for _, tt := range tests {
		t.Run(tt.dispatchType, func(t *testing.T) {
			ev, err := event.Decode(tt.dispatchType, json.RawMessage(tt.raw))
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if ev.Kind != event.Kind(tt.dispatchType) {
				t.Errorf("Kind = %q, want %q", ev.Kind, tt.dispatchType)
			}
			if !tt.check(ev) {
				t.Errorf("payload not routed: %+v", ev)
			}
		})
	}
}

func TestDecode_UnknownTypeIgnored(t *testing.T) {
	ev, err := event.Decode("TYPING_START", json.RawMessage(`{"whatever":1}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if ev.Kind != event.KindIgnored {
		t.Errorf("Kind = %q, want ignored", ev.Kind)
	}
}

func TestDecode_MalformedKnownType(t *testing.T) {
	if _, err := event.Decode("READY", json.RawMessage(`{not json`)); err == nil {
		t.Error("Decode = nil error, want decode failure")
	}
}

func TestKind_Forwardable(t *testing.T) {
	forwardable := []event.Kind{
		event.KindInteractionCreate,
		event.KindMessageCreate,
		event.KindMessageUpdate,
		event.KindMessageDelete,
		event.KindMessageDeleteBulk,
		event.KindReactionAdd,
	}
	for _, k := range forwardable {
		if !k.Forwardable() {
			t.Errorf("%s.Forwardable() = false, want true", k)
		}
	}

	notForwardable := []event.Kind{
		event.KindReady,
		event.KindGuildCreate,
		event.KindGuildDelete,
		event.KindMemberUpdate,
		event.KindIgnored,
	}
	for _, k := range notForwardable {
		if k.Forwardable() {
			t.Errorf("%q.Forwardable() = true, want false", k)
		}
	}
}
