package socket

import (
	"encoding/json"
	"fmt"

	"github.com/asafzaf/smartchat/internal/types"
)

// Envelope is the wire frame for both directions: an event name plus a
// JSON payload.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

func NewEnvelope(event string, payload any) (Envelope, error) {
	if payload == nil {
		return Envelope{Event: event}, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Event: event, Data: data}, nil
}

type EventKind int

const (
	KindUnknown EventKind = iota
	KindChatList
	KindChatHistory
	KindChatCreated
	KindBotResponse
	KindMessageSaved
)

func (k EventKind) String() string {
	switch k {
	case KindChatList:
		return types.EventChatList
	case KindChatHistory:
		return types.EventChatHistory
	case KindChatCreated:
		return types.EventChatCreated
	case KindBotResponse:
		return types.EventBotResponse
	case KindMessageSaved:
		return types.EventMessageSaved
	default:
		return "unknown"
	}
}

// Event is one decoded server push. Exactly one payload field is set,
// selected by Kind; Raw keeps the undecoded payload for advisory events.
type Event struct {
	Kind     EventKind
	Chats    []types.Chat
	Messages []types.Message
	Created  *types.ChatCreated
	Bot      *types.BotResponse
	Raw      json.RawMessage
}

// decodeEvent classifies a server frame without interpreting it. Unknown
// event names are an error so the read loop can log and drop them.
func decodeEvent(env Envelope) (Event, error) {
	switch env.Event {
	case types.EventChatList:
		var chats []types.Chat
		if err := json.Unmarshal(env.Data, &chats); err != nil {
			return Event{}, fmt.Errorf("decode %s: %w", env.Event, err)
		}
		return Event{Kind: KindChatList, Chats: chats}, nil
	case types.EventChatHistory:
		var messages []types.Message
		if err := json.Unmarshal(env.Data, &messages); err != nil {
			return Event{}, fmt.Errorf("decode %s: %w", env.Event, err)
		}
		return Event{Kind: KindChatHistory, Messages: messages}, nil
	case types.EventChatCreated:
		var created types.ChatCreated
		if err := json.Unmarshal(env.Data, &created); err != nil {
			return Event{}, fmt.Errorf("decode %s: %w", env.Event, err)
		}
		return Event{Kind: KindChatCreated, Created: &created}, nil
	case types.EventBotResponse:
		var bot types.BotResponse
		if err := json.Unmarshal(env.Data, &bot); err != nil {
			return Event{}, fmt.Errorf("decode %s: %w", env.Event, err)
		}
		return Event{Kind: KindBotResponse, Bot: &bot}, nil
	case types.EventMessageSaved:
		return Event{Kind: KindMessageSaved, Raw: env.Data}, nil
	default:
		return Event{}, fmt.Errorf("unknown event %q", env.Event)
	}
}
