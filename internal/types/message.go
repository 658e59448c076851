package types

import (
	"encoding/json"
	"time"
)

// BotSender is the sentinel sender id the server uses for bot replies.
const BotSender = "bot"

// Message is one entry in a chat transcript. Messages without a server id
// are local: either the user's optimistic echo or a transient placeholder
// (IsTyping) standing in for a reply not yet received.
type Message struct {
	ID          string    `json:"_id,omitempty"`
	ChatID      string    `json:"chatId,omitempty"`
	Sender      string    `json:"sender"`
	Text        string    `json:"text,omitempty"`
	Timestamp   time.Time `json:"timestamp,omitempty"`
	IsBot       bool      `json:"isBot,omitempty"`
	IsTyping    bool      `json:"isTyping,omitempty"`
	GotFeedback bool      `json:"gotFeedback,omitempty"`
}

// messageWire tolerates the backend's two names for the content field:
// history snapshots carry "text", create acknowledgements carry "message".
type messageWire struct {
	ID          string    `json:"_id"`
	ChatID      string    `json:"chatId"`
	Sender      string    `json:"sender"`
	Text        string    `json:"text"`
	AltText     string    `json:"message"`
	Timestamp   time.Time `json:"timestamp"`
	IsBot       bool      `json:"isBot"`
	IsTyping    bool      `json:"isTyping"`
	GotFeedback bool      `json:"gotFeedback"`
}

func (m *Message) UnmarshalJSON(data []byte) error {
	var w messageWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	text := w.Text
	if text == "" {
		text = w.AltText
	}
	*m = Message{
		ID:          w.ID,
		ChatID:      w.ChatID,
		Sender:      w.Sender,
		Text:        text,
		Timestamp:   w.Timestamp,
		IsBot:       w.IsBot,
		IsTyping:    w.IsTyping,
		GotFeedback: w.GotFeedback,
	}
	return nil
}
