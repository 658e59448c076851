package session

import (
	"strings"

	"github.com/charmbracelet/log"

	"github.com/asafzaf/smartchat/internal/types"
)

// Emitter is the slice of the socket connection the dispatcher needs.
type Emitter interface {
	ID() string
	JoinRoom(chatID string) error
	CreateChat(userID, prompt string) error
	SendMessage(chatID, message string) error
}

// Dispatcher turns user intents into outbound protocol events and the
// optimistic local state that precedes the server's response. Intents with a
// missing user id or connection are silent no-ops: during initial load races
// the intent simply isn't valid yet.
type Dispatcher struct {
	conn   Emitter
	state  *State
	userID string
	log    *log.Logger
}

func NewDispatcher(conn Emitter, state *State, userID string, logger *log.Logger) *Dispatcher {
	if logger == nil {
		logger = log.Default()
	}
	return &Dispatcher{
		conn:   conn,
		state:  state,
		userID: strings.TrimSpace(userID),
		log:    logger.WithPrefix("dispatch"),
	}
}

func (d *Dispatcher) ready() bool {
	return d != nil && d.conn != nil && d.state != nil && d.userID != ""
}

// Join subscribes to a chat thread: it emits the join request, clears the
// thread's unread marker, and leaves the transcript loading until the
// history snapshot arrives. The previous room is never explicitly left; the
// reducers check chat identity on every arriving event instead.
func (d *Dispatcher) Join(chatID string) {
	if !d.ready() || strings.TrimSpace(chatID) == "" {
		return
	}
	if err := d.conn.JoinRoom(chatID); err != nil {
		d.log.Error("join failed", "chat", chatID, "err", err)
		d.state.LoadingMessages = false
		return
	}
	d.state.MarkChatRead(chatID)
	d.state.LoadingMessages = true
}

// Send routes a prompt by the caller-owned new-chat flag.
func (d *Dispatcher) Send(prompt string) {
	if d == nil || d.state == nil {
		return
	}
	if d.state.NewChat {
		d.CreateChat(prompt)
		return
	}
	d.SendToExisting(d.state.ActiveChatID, prompt)
}

// CreateChat emits a create request tagged with the connection id, so the
// server can route the asynchronous chat_created acknowledgement back, and
// seeds the optimistic prompt echo plus thinking placeholder.
func (d *Dispatcher) CreateChat(prompt string) {
	if !d.ready() {
		return
	}
	if err := d.conn.CreateChat(d.userID, prompt); err != nil {
		d.log.Error("create chat failed", "err", err)
		return
	}
	d.state.Messages = []types.Message{
		userEcho("", d.userID, prompt),
		thinkingPlaceholder(""),
	}
	d.state.LoadingMessages = false
	d.state.Waiting = true
}

// SendToExisting emits a message scoped to chatID and appends the same
// optimistic pair to the held transcript.
func (d *Dispatcher) SendToExisting(chatID, prompt string) {
	if !d.ready() || strings.TrimSpace(chatID) == "" {
		return
	}
	if err := d.conn.SendMessage(chatID, prompt); err != nil {
		d.log.Error("send failed", "chat", chatID, "err", err)
		return
	}
	d.state.Messages = append(d.state.Messages,
		userEcho(chatID, d.userID, prompt),
		thinkingPlaceholder(chatID),
	)
	d.state.Waiting = true
}
