package app

import (
	"github.com/asafzaf/smartchat/internal/session"
	"github.com/asafzaf/smartchat/internal/socket"
)

// EventStreamController drains the socket's event channel on the UI tick and
// folds each event into the session state. Draining is capped per tick so a
// burst of server events cannot starve input handling.
type EventStreamController struct {
	events           <-chan socket.Event
	maxEventsPerTick int
}

func NewEventStreamController(maxEventsPerTick int) *EventStreamController {
	return &EventStreamController{maxEventsPerTick: maxEventsPerTick}
}

func (c *EventStreamController) HasStream() bool {
	if c == nil {
		return false
	}
	return c.events != nil
}

func (c *EventStreamController) SetStream(ch <-chan socket.Event) {
	if c == nil {
		return
	}
	c.events = ch
}

func (c *EventStreamController) Reset() {
	if c == nil {
		return
	}
	c.events = nil
}

// ConsumeTick applies up to maxEventsPerTick pending events to state. closed
// reports that the connection gave up and the channel is gone.
func (c *EventStreamController) ConsumeTick(state *session.State, userID string) (changed, closed bool) {
	if c == nil || c.events == nil || state == nil {
		return false, false
	}
	for i := 0; i < c.maxEventsPerTick; i++ {
		select {
		case ev, ok := <-c.events:
			if !ok {
				c.events = nil
				return changed, true
			}
			if applyEvent(state, ev, userID) {
				changed = true
			}
		default:
			return changed, false
		}
	}
	return changed, false
}

func applyEvent(state *session.State, ev socket.Event, userID string) bool {
	switch ev.Kind {
	case socket.KindChatList:
		state.ApplyChatList(ev.Chats)
	case socket.KindChatHistory:
		state.ApplyChatHistory(ev.Messages)
	case socket.KindChatCreated:
		state.ApplyChatCreated(ev.Created, userID)
	case socket.KindBotResponse:
		state.ApplyBotResponse(ev.Bot)
	case socket.KindMessageSaved:
		// Persistence acknowledgement only; the local echo already stands.
		return false
	default:
		return false
	}
	return true
}
