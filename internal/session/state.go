// Package session holds the client-side source of truth for one signed-in
// user: the chat list, the transcript of the active chat, and the flags the
// UI renders from. It is the single writer for that state; all mutation goes
// through the reducers in this package, called from one goroutine (the UI
// loop). Optimistic entries inserted by the dispatcher are reconciled
// against authoritative server events by the Apply* reducers.
package session

import (
	"time"

	"github.com/asafzaf/smartchat/internal/types"
)

const thinkingText = "I'm thinking..."

type State struct {
	Chats    []types.Chat
	Messages []types.Message

	// ActiveChatID is the chat currently on screen; empty in new-chat mode.
	// Reducers compare arriving events against it instead of inferring the
	// active chat from transcript contents, so an empty transcript cannot be
	// mistaken for "some other chat".
	ActiveChatID string
	NewChat      bool

	LoadingChats    bool
	LoadingMessages bool
	Waiting         bool
}

func NewState() *State {
	return &State{
		NewChat:      true,
		LoadingChats: true,
	}
}

// ActiveChat returns the chat entry for the active id, or nil.
func (s *State) ActiveChat() *types.Chat {
	if s == nil || s.ActiveChatID == "" {
		return nil
	}
	if i := types.FindChat(s.Chats, s.ActiveChatID); i >= 0 {
		return &s.Chats[i]
	}
	return nil
}

// LastBotMessage returns the newest confirmed bot message in the transcript,
// or nil.
func (s *State) LastBotMessage() *types.Message {
	if s == nil {
		return nil
	}
	for i := len(s.Messages) - 1; i >= 0; i-- {
		m := &s.Messages[i]
		if m.IsBot && !m.IsTyping && m.ID != "" {
			return m
		}
	}
	return nil
}

// SelectChat switches the active thread. The transcript clears until the
// history snapshot arrives; any in-flight request for the previous chat is
// left alone and reconciled on arrival.
func (s *State) SelectChat(chatID string) {
	if s == nil || chatID == "" || chatID == s.ActiveChatID {
		return
	}
	s.ActiveChatID = chatID
	s.NewChat = false
	s.Messages = nil
	s.LoadingMessages = true
}

// StartNewChat enters new-chat mode: no active thread, empty transcript.
func (s *State) StartNewChat() {
	if s == nil {
		return
	}
	s.ActiveChatID = ""
	s.NewChat = true
	s.Messages = nil
	s.LoadingMessages = false
	s.Waiting = false
}

// MarkChatRead clears the unread marker, typically on join.
func (s *State) MarkChatRead(chatID string) {
	if s == nil {
		return
	}
	if i := types.FindChat(s.Chats, chatID); i >= 0 {
		s.Chats[i].HasNewMessages = false
	}
}

// RemoveChat drops a chat after an explicit user-initiated deletion. If the
// deleted chat was on screen the state falls back to new-chat mode.
func (s *State) RemoveChat(chatID string) {
	if s == nil || chatID == "" {
		return
	}
	i := types.FindChat(s.Chats, chatID)
	if i < 0 {
		return
	}
	s.Chats = append(s.Chats[:i], s.Chats[i+1:]...)
	if s.ActiveChatID == chatID {
		s.StartNewChat()
	}
}

// MarkFeedback records that feedback was captured for a message.
func (s *State) MarkFeedback(messageID string) {
	if s == nil || messageID == "" {
		return
	}
	for i := range s.Messages {
		if s.Messages[i].ID == messageID {
			s.Messages[i].GotFeedback = true
			return
		}
	}
}

// userEcho is the optimistic rendering of the user's own prompt.
func userEcho(chatID, userID, prompt string) types.Message {
	return types.Message{
		ChatID:    chatID,
		Sender:    userID,
		Text:      prompt,
		Timestamp: time.Now(),
	}
}

// thinkingPlaceholder is the transient stand-in for the bot reply still in
// flight. It never survives a reconciliation step.
func thinkingPlaceholder(chatID string) types.Message {
	return types.Message{
		ChatID:    chatID,
		Sender:    types.BotSender,
		Text:      thinkingText,
		Timestamp: time.Now(),
		IsBot:     true,
		IsTyping:  true,
	}
}
