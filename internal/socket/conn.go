package socket

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/asafzaf/smartchat/internal/types"
)

// Path the server upgrades on; shares the REST base URL.
const endpointPath = "/socket"

const eventBufferSize = 256

var ErrClosed = errors.New("socket: connection closed")

type Options struct {
	// BaseURL is the http(s) server address; it is rewritten to ws(s).
	BaseURL string
	// UserID is announced to the server once the channel is ready.
	UserID string
	// ReconnectAttempts bounds automatic redials after a read failure and
	// retries of the initial dial. Zero disables retrying.
	ReconnectAttempts int
	// ReconnectDelay is the fixed pause between attempts.
	ReconnectDelay time.Duration
	Logger         *log.Logger
}

// Conn is the single long-lived bidirectional channel for one signed-in
// user. Each Conn owns its id, its read loop, and its event channel, so a
// re-opened connection can never fire handlers belonging to a previous
// instance. Writes are serialized internally; events are consumed from
// Events by a single reader.
type Conn struct {
	id   string
	opts Options
	log  *log.Logger

	events chan Event
	cancel context.CancelFunc

	mu     sync.Mutex
	ws     *websocket.Conn
	closed bool
}

// Open establishes the channel, announces the user's identity, and requests
// the initial chat-list snapshot. The returned Conn is live: its read loop
// delivers decoded server events on Events until Close or until the
// reconnection bound is exhausted, after which Events is closed.
func Open(ctx context.Context, opts Options) (*Conn, error) {
	if strings.TrimSpace(opts.UserID) == "" {
		return nil, errors.New("socket: user id is required")
	}
	endpoint, err := wsEndpoint(opts.BaseURL)
	if err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	c := &Conn{
		id:     uuid.NewString(),
		opts:   opts,
		log:    logger.WithPrefix("socket"),
		events: make(chan Event, eventBufferSize),
	}

	ws, err := c.dialWithRetry(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	c.ws = ws
	if err := c.handshake(); err != nil {
		ws.Close()
		return nil, err
	}

	loopCtx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	go c.readLoop(loopCtx, endpoint)
	return c, nil
}

// ID is the connection identifier sent with create_chat requests so the
// server can correlate the async acknowledgement.
func (c *Conn) ID() string {
	if c == nil {
		return ""
	}
	return c.id
}

// Events delivers decoded server pushes in transport order. The channel is
// closed when the connection is closed or permanently failed.
func (c *Conn) Events() <-chan Event {
	if c == nil {
		return nil
	}
	return c.events
}

// Emit sends one client event. It fails once the connection is closed; a
// send racing a reconnection fails like any other request-level error and
// is not retried.
func (c *Conn) Emit(event string, payload any) error {
	if c == nil {
		return ErrClosed
	}
	env, err := NewEnvelope(event, payload)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.ws == nil {
		return ErrClosed
	}
	return c.ws.WriteJSON(env)
}

func (c *Conn) JoinRoom(chatID string) error {
	return c.Emit(types.EventJoinRoom, types.JoinRoomPayload{ChatID: chatID})
}

func (c *Conn) CreateChat(userID, prompt string) error {
	return c.Emit(types.EventCreateChat, types.CreateChatPayload{
		UserID:   userID,
		SocketID: c.ID(),
		Prompt:   prompt,
	})
}

func (c *Conn) SendMessage(chatID, message string) error {
	return c.Emit(types.EventSendMessage, types.SendMessagePayload{
		ChatID:  chatID,
		Message: message,
	})
}

// Close releases the channel. It is idempotent and safe on a nil Conn.
func (c *Conn) Close() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	ws := c.ws
	c.ws = nil
	c.mu.Unlock()

	if c.cancel != nil {
		c.cancel()
	}
	if ws != nil {
		return ws.Close()
	}
	return nil
}

func (c *Conn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// handshake announces identity and asks for the chat-list snapshot; it runs
// after every successful dial, including redials.
func (c *Conn) handshake() error {
	if err := c.Emit(types.EventIdentifyUser, types.IdentifyUserPayload{UserID: c.opts.UserID}); err != nil {
		return err
	}
	return c.Emit(types.EventRequestChatList, types.RequestChatListPayload{UserID: c.opts.UserID})
}

func (c *Conn) dialWithRetry(ctx context.Context, endpoint string) (*websocket.Conn, error) {
	attempts := c.opts.ReconnectAttempts + 1
	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.opts.ReconnectDelay):
			}
		}
		ws, _, err := websocket.DefaultDialer.DialContext(ctx, endpoint, nil)
		if err == nil {
			return ws, nil
		}
		lastErr = err
		c.log.Error("dial failed", "endpoint", endpoint, "attempt", attempt+1, "err", err)
	}
	return nil, lastErr
}

// readLoop decodes inbound frames and routes them onto the event channel.
// A read failure triggers bounded in-place reconnection; past the bound the
// channel stays failed until the consumer opens a new connection.
func (c *Conn) readLoop(ctx context.Context, endpoint string) {
	defer close(c.events)
	for {
		c.mu.Lock()
		ws := c.ws
		c.mu.Unlock()
		if ws == nil {
			return
		}

		var env Envelope
		if err := ws.ReadJSON(&env); err != nil {
			if c.isClosed() || ctx.Err() != nil {
				return
			}
			c.log.Error("read failed", "err", err)
			if !c.reconnect(ctx, endpoint) {
				return
			}
			continue
		}

		ev, err := decodeEvent(env)
		if err != nil {
			c.log.Warn("dropping event", "err", err)
			continue
		}
		if ev.Kind == KindMessageSaved {
			c.log.Debug("message saved", "payload", string(ev.Raw))
		}
		select {
		case c.events <- ev:
		case <-ctx.Done():
			return
		}
	}
}

func (c *Conn) reconnect(ctx context.Context, endpoint string) bool {
	if c.opts.ReconnectAttempts <= 0 {
		return false
	}
	for attempt := 1; attempt <= c.opts.ReconnectAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return false
		case <-time.After(c.opts.ReconnectDelay):
		}
		if c.isClosed() {
			return false
		}
		ws, _, err := websocket.DefaultDialer.DialContext(ctx, endpoint, nil)
		if err != nil {
			c.log.Error("reconnect failed", "attempt", attempt, "err", err)
			continue
		}
		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			ws.Close()
			return false
		}
		old := c.ws
		c.ws = ws
		c.mu.Unlock()
		if old != nil {
			old.Close()
		}
		if err := c.handshake(); err != nil {
			c.log.Error("handshake after reconnect failed", "err", err)
			continue
		}
		c.log.Info("reconnected", "attempt", attempt)
		return true
	}
	return false
}

func wsEndpoint(baseURL string) (string, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return "", errors.New("socket: base url is required")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", errors.New("socket: unsupported scheme " + u.Scheme)
	}
	u.Path = strings.TrimRight(u.Path, "/") + endpointPath
	return u.String(), nil
}
