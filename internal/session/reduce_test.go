package session

import (
	"testing"

	"github.com/asafzaf/smartchat/internal/types"
)

func stateWithActiveChat(chatID string, messages ...types.Message) *State {
	s := NewState()
	s.ActiveChatID = chatID
	s.NewChat = false
	s.Messages = messages
	return s
}

func TestApplyBotResponseAppendsForActiveChat(t *testing.T) {
	s := stateWithActiveChat("A",
		types.Message{ChatID: "A", Sender: "u1", Text: "hi"},
		thinkingPlaceholder("A"),
	)
	s.Waiting = true

	s.ApplyBotResponse(&types.BotResponse{
		ChatID:  "A",
		Message: types.Message{ID: "m1", ChatID: "A", Sender: types.BotSender, Text: "hello", IsBot: true},
	})

	if len(s.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d: %+v", len(s.Messages), s.Messages)
	}
	if s.Messages[1].ID != "m1" {
		t.Fatalf("expected bot message appended, got %+v", s.Messages[1])
	}
	if s.Waiting {
		t.Fatalf("expected waiting flag cleared")
	}
}

func TestApplyBotResponseSuppressesDuplicates(t *testing.T) {
	s := stateWithActiveChat("A")
	ev := &types.BotResponse{
		ChatID:  "A",
		Message: types.Message{ID: "m1", ChatID: "A", Sender: types.BotSender, Text: "hello", IsBot: true},
	}

	s.ApplyBotResponse(ev)
	first := len(s.Messages)
	s.ApplyBotResponse(ev)

	if len(s.Messages) != first {
		t.Fatalf("duplicate delivery changed transcript length: %d -> %d", first, len(s.Messages))
	}
}

func TestApplyBotResponseRemovesEveryPlaceholder(t *testing.T) {
	s := stateWithActiveChat("A",
		thinkingPlaceholder("A"),
		types.Message{ChatID: "A", Sender: "u1", Text: "hi"},
		thinkingPlaceholder("A"),
	)

	// Response for an unrelated chat: placeholders still go.
	s.ApplyBotResponse(&types.BotResponse{
		ChatID:  "B",
		Message: types.Message{ID: "m9", Sender: types.BotSender, IsBot: true},
	})

	for _, m := range s.Messages {
		if m.IsTyping {
			t.Fatalf("placeholder survived reconciliation: %+v", m)
		}
	}
	if len(s.Messages) != 1 {
		t.Fatalf("expected only the user message to remain, got %+v", s.Messages)
	}
}

func TestApplyBotResponseMarksInactiveChatUnread(t *testing.T) {
	s := stateWithActiveChat("B", types.Message{ChatID: "B", Sender: "u1", Text: "other"})
	s.Chats = []types.Chat{{ID: "A", HasNewMessages: false}}

	s.ApplyBotResponse(&types.BotResponse{
		ChatID:  "A",
		Message: types.Message{ID: "m1", Text: "hi", Sender: types.BotSender, IsBot: true},
	})

	if !s.Chats[0].HasNewMessages {
		t.Fatalf("expected chat A marked unread")
	}
	if len(s.Messages) != 1 || s.Messages[0].ChatID != "B" {
		t.Fatalf("transcript for chat B should be untouched, got %+v", s.Messages)
	}
}

func TestApplyBotResponseEmptyTranscriptStillMatchesActiveChat(t *testing.T) {
	// Chat switched, history not yet loaded: the explicit active id keeps
	// the response on screen instead of flagging the open chat unread.
	s := stateWithActiveChat("A")
	s.Chats = []types.Chat{{ID: "A"}}

	s.ApplyBotResponse(&types.BotResponse{
		ChatID:  "A",
		Message: types.Message{ID: "m1", Sender: types.BotSender, Text: "hello", IsBot: true},
	})

	if len(s.Messages) != 1 || s.Messages[0].ID != "m1" {
		t.Fatalf("expected message appended to empty active transcript, got %+v", s.Messages)
	}
	if s.Chats[0].HasNewMessages {
		t.Fatalf("active chat must not be marked unread")
	}
}

func TestApplyBotResponseTitleUpdatesEvenWhenActive(t *testing.T) {
	s := stateWithActiveChat("A", types.Message{ChatID: "A", Sender: "u1", Text: "hi"})
	s.Chats = []types.Chat{{ID: "A", Title: "Untitled"}}

	s.ApplyBotResponse(&types.BotResponse{
		ChatID:  "A",
		Message: types.Message{ID: "m2", Sender: types.BotSender, IsBot: true},
		Title:   "New Topic",
	})

	if s.Chats[0].Title != "New Topic" {
		t.Fatalf("expected title update on active chat, got %q", s.Chats[0].Title)
	}
	if s.Chats[0].HasNewMessages {
		t.Fatalf("title update must not mark the active chat unread")
	}
	if len(s.Messages) != 2 || s.Messages[1].ID != "m2" {
		t.Fatalf("expected message appended alongside title update, got %+v", s.Messages)
	}
}

func TestApplyBotResponseUnreadAndTitleForInactiveChat(t *testing.T) {
	s := stateWithActiveChat("B")
	s.Chats = []types.Chat{{ID: "A", Title: "Old"}, {ID: "B"}}

	s.ApplyBotResponse(&types.BotResponse{
		ChatID:  "A",
		Message: types.Message{ID: "m1", Sender: types.BotSender, IsBot: true},
		Title:   "Renamed",
	})

	if !s.Chats[0].HasNewMessages || s.Chats[0].Title != "Renamed" {
		t.Fatalf("expected unread + renamed chat A, got %+v", s.Chats[0])
	}
	if s.Chats[1].HasNewMessages {
		t.Fatalf("chat B should be untouched")
	}
}

func TestApplyChatListReplacesAndClearsLoading(t *testing.T) {
	s := NewState()
	if !s.LoadingChats {
		t.Fatalf("fresh state should be loading the chat list")
	}
	s.ApplyChatList([]types.Chat{{ID: "c1"}, {ID: "c2"}})
	if len(s.Chats) != 2 || s.LoadingChats {
		t.Fatalf("unexpected state after snapshot: chats=%d loading=%v", len(s.Chats), s.LoadingChats)
	}
}

func TestApplyChatHistoryPatchesLoneEntry(t *testing.T) {
	s := stateWithActiveChat("A")
	s.LoadingMessages = true

	s.ApplyChatHistory([]types.Message{{ChatID: "A", Sender: "u1", Text: "hi"}})

	if len(s.Messages) != 2 {
		t.Fatalf("expected synthetic placeholder appended, got %+v", s.Messages)
	}
	if !s.Messages[1].IsTyping || s.Messages[1].Sender != types.BotSender {
		t.Fatalf("expected a thinking placeholder, got %+v", s.Messages[1])
	}
	if s.LoadingMessages {
		t.Fatalf("expected loading cleared")
	}
	if !s.Waiting {
		t.Fatalf("a pending bot reply should set waiting")
	}
}

func TestApplyChatHistoryNormalSnapshotIsUntouched(t *testing.T) {
	s := stateWithActiveChat("A")
	history := []types.Message{
		{ID: "m1", ChatID: "A", Sender: "u1", Text: "hi"},
		{ID: "m2", ChatID: "A", Sender: types.BotSender, Text: "hello", IsBot: true},
	}
	s.ApplyChatHistory(history)
	if len(s.Messages) != 2 {
		t.Fatalf("expected snapshot kept as-is, got %+v", s.Messages)
	}
}

func TestApplyChatCreatedSwitchesAndSeeds(t *testing.T) {
	s := NewState()
	s.ApplyChatList(nil)

	s.ApplyChatCreated(&types.ChatCreated{Chat: types.Chat{ID: "c1", UserPrompt: "Hello"}}, "u1")

	if s.ActiveChatID != "c1" || s.NewChat {
		t.Fatalf("expected active chat c1 and new-chat mode cleared, got %q new=%v", s.ActiveChatID, s.NewChat)
	}
	if len(s.Chats) != 1 || s.Chats[0].ID != "c1" {
		t.Fatalf("expected chat appended to list, got %+v", s.Chats)
	}
	if len(s.Messages) != 2 {
		t.Fatalf("expected seeded transcript, got %+v", s.Messages)
	}
	if s.Messages[0].Sender != "u1" || s.Messages[0].Text != "Hello" || s.Messages[0].ChatID != "c1" {
		t.Fatalf("unexpected prompt echo: %+v", s.Messages[0])
	}
	if !s.Messages[1].IsTyping || s.Messages[1].ChatID != "c1" {
		t.Fatalf("unexpected placeholder: %+v", s.Messages[1])
	}
}

func TestSelectChatResetsTranscript(t *testing.T) {
	s := stateWithActiveChat("A", types.Message{ChatID: "A", Sender: "u1"})
	s.SelectChat("B")
	if s.ActiveChatID != "B" || len(s.Messages) != 0 || !s.LoadingMessages {
		t.Fatalf("unexpected state after select: %+v", s)
	}

	// Re-selecting the same chat is a no-op.
	s.Messages = []types.Message{{ChatID: "B", Sender: "u1"}}
	s.LoadingMessages = false
	s.SelectChat("B")
	if len(s.Messages) != 1 || s.LoadingMessages {
		t.Fatalf("re-select should not reset, got %+v", s)
	}
}

func TestRemoveChatFallsBackToNewChatMode(t *testing.T) {
	s := stateWithActiveChat("A", types.Message{ChatID: "A", Sender: "u1"})
	s.Chats = []types.Chat{{ID: "A"}, {ID: "B"}}

	s.RemoveChat("A")

	if len(s.Chats) != 1 || s.Chats[0].ID != "B" {
		t.Fatalf("unexpected chat list: %+v", s.Chats)
	}
	if !s.NewChat || s.ActiveChatID != "" || len(s.Messages) != 0 {
		t.Fatalf("expected new-chat fallback, got %+v", s)
	}

	s.RemoveChat("missing")
	if len(s.Chats) != 1 {
		t.Fatalf("removing an unknown chat must not change the list")
	}
}

func TestMarkFeedback(t *testing.T) {
	s := stateWithActiveChat("A",
		types.Message{ID: "m1", ChatID: "A", Sender: types.BotSender, IsBot: true},
	)
	s.MarkFeedback("m1")
	if !s.Messages[0].GotFeedback {
		t.Fatalf("expected feedback marked")
	}
	s.MarkFeedback("")
	s.MarkFeedback("missing")
}

func TestLastBotMessageSkipsPlaceholdersAndEchoes(t *testing.T) {
	s := stateWithActiveChat("A",
		types.Message{ID: "m1", ChatID: "A", Sender: types.BotSender, IsBot: true, Text: "first"},
		types.Message{ChatID: "A", Sender: "u1", Text: "prompt"},
		thinkingPlaceholder("A"),
	)
	got := s.LastBotMessage()
	if got == nil || got.ID != "m1" {
		t.Fatalf("unexpected last bot message: %+v", got)
	}

	var nilState *State
	if nilState.LastBotMessage() != nil {
		t.Fatalf("nil state should have no messages")
	}
}
