package session

import "github.com/asafzaf/smartchat/internal/types"

// ApplyChatList replaces the chat list with the server snapshot.
func (s *State) ApplyChatList(chats []types.Chat) {
	if s == nil {
		return
	}
	s.Chats = chats
	s.LoadingChats = false
}

// ApplyChatHistory replaces the transcript with the snapshot for the chat
// just joined. A snapshot of exactly one entry means the backend stored the
// user's prompt but the bot reply is still pending, so a thinking
// placeholder is appended in its place.
func (s *State) ApplyChatHistory(messages []types.Message) {
	if s == nil {
		return
	}
	if len(messages) == 1 {
		messages = append(messages, thinkingPlaceholder(messages[0].ChatID))
		s.Waiting = true
	}
	s.Messages = messages
	s.LoadingMessages = false
}

// ApplyChatCreated finalizes an optimistic chat creation: the server-assigned
// chat joins the list and becomes active, and the transcript is reseeded from
// the prompt echoed back on the chat plus a fresh placeholder.
func (s *State) ApplyChatCreated(created *types.ChatCreated, userID string) {
	if s == nil || created == nil || created.Chat.ID == "" {
		return
	}
	chat := created.Chat
	if types.FindChat(s.Chats, chat.ID) < 0 {
		s.Chats = append(s.Chats, chat)
	}
	s.ActiveChatID = chat.ID
	s.NewChat = false
	s.Messages = []types.Message{
		userEcho(chat.ID, userID, chat.UserPrompt),
		thinkingPlaceholder(chat.ID),
	}
	s.LoadingMessages = false
}

// ApplyBotResponse reconciles an authoritative bot message against the held
// state. The response may belong to a chat the user has navigated away from;
// in that case the transcript is untouched and the chat is marked unread
// instead. Order matters: placeholders go first, unread marking must not
// depend on whether a title arrived, and a title update applies even when
// the chat is on screen.
func (s *State) ApplyBotResponse(ev *types.BotResponse) {
	if s == nil || ev == nil {
		return
	}

	// Placeholders never persist across a reconciliation step, wherever the
	// response belongs.
	s.Messages = withoutPlaceholders(s.Messages)

	sameChat := s.ActiveChatID != "" && s.ActiveChatID == ev.ChatID

	if sameChat && !containsMessageID(s.Messages, ev.Message.ID) {
		msg := ev.Message
		if msg.ChatID == "" {
			msg.ChatID = ev.ChatID
		}
		s.Messages = append(s.Messages, msg)
	}

	if !sameChat || ev.Title != "" {
		if i := types.FindChat(s.Chats, ev.ChatID); i >= 0 {
			if !sameChat {
				s.Chats[i].HasNewMessages = true
			}
			if ev.Title != "" {
				s.Chats[i].Title = ev.Title
			}
		}
	}

	s.Waiting = false
}

func withoutPlaceholders(messages []types.Message) []types.Message {
	kept := messages[:0]
	for _, m := range messages {
		if m.IsTyping {
			continue
		}
		kept = append(kept, m)
	}
	return kept
}

// containsMessageID reports whether a confirmed message with the given
// server id is already held. Blank ids never match; local echoes have no id.
func containsMessageID(messages []types.Message, id string) bool {
	if id == "" {
		return false
	}
	for _, m := range messages {
		if m.ID == id {
			return true
		}
	}
	return false
}
