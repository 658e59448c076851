package app

import (
	"testing"

	"github.com/asafzaf/smartchat/internal/session"
	"github.com/asafzaf/smartchat/internal/socket"
	"github.com/asafzaf/smartchat/internal/types"
)

func TestConsumeTickAppliesPendingEvents(t *testing.T) {
	ch := make(chan socket.Event, 4)
	ch <- socket.Event{Kind: socket.KindChatList, Chats: []types.Chat{{ID: "c1"}}}
	ch <- socket.Event{Kind: socket.KindBotResponse, Bot: &types.BotResponse{
		ChatID:  "c1",
		Message: types.Message{ID: "m1", Sender: types.BotSender, IsBot: true, Text: "hi"},
	}}

	ctrl := NewEventStreamController(maxEventsPerTick)
	ctrl.SetStream(ch)
	state := session.NewState()
	state.ActiveChatID = "c1"
	state.NewChat = false

	changed, closed := ctrl.ConsumeTick(state, "u1")

	if !changed || closed {
		t.Fatalf("changed=%v closed=%v", changed, closed)
	}
	if len(state.Chats) != 1 || state.LoadingChats {
		t.Fatalf("chat list not applied: %+v", state)
	}
	if len(state.Messages) != 1 || state.Messages[0].ID != "m1" {
		t.Fatalf("bot response not applied: %+v", state.Messages)
	}
}

func TestConsumeTickCapsEventsPerTick(t *testing.T) {
	ch := make(chan socket.Event, 8)
	for i := 0; i < 5; i++ {
		ch <- socket.Event{Kind: socket.KindChatList, Chats: []types.Chat{{ID: "c1"}}}
	}

	ctrl := NewEventStreamController(3)
	ctrl.SetStream(ch)
	state := session.NewState()

	ctrl.ConsumeTick(state, "u1")

	if remaining := len(ch); remaining != 2 {
		t.Fatalf("expected 2 events left for the next tick, got %d", remaining)
	}
}

func TestConsumeTickDetectsClosedChannel(t *testing.T) {
	ch := make(chan socket.Event)
	close(ch)

	ctrl := NewEventStreamController(maxEventsPerTick)
	ctrl.SetStream(ch)

	_, closed := ctrl.ConsumeTick(session.NewState(), "u1")
	if !closed {
		t.Fatalf("expected closed channel to be reported")
	}
	if ctrl.HasStream() {
		t.Fatalf("expected stream dropped after close")
	}

	// A later tick without a stream is a quiet no-op.
	changed, closed := ctrl.ConsumeTick(session.NewState(), "u1")
	if changed || closed {
		t.Fatalf("expected no-op without a stream")
	}
}

func TestConsumeTickIgnoresMessageSaved(t *testing.T) {
	ch := make(chan socket.Event, 1)
	ch <- socket.Event{Kind: socket.KindMessageSaved}

	ctrl := NewEventStreamController(maxEventsPerTick)
	ctrl.SetStream(ch)

	changed, _ := ctrl.ConsumeTick(session.NewState(), "u1")
	if changed {
		t.Fatalf("message_saved must not dirty the view")
	}
}
