package types

// Wire event names, client to server.
const (
	EventIdentifyUser    = "identify_user"
	EventRequestChatList = "request_chat_list"
	EventJoinRoom        = "join_room"
	EventCreateChat      = "create_chat"
	EventSendMessage     = "send_message"
)

// Wire event names, server to client.
const (
	EventChatList     = "chat_list"
	EventChatHistory  = "chat_history"
	EventChatCreated  = "chat_created"
	EventBotResponse  = "bot_response"
	EventMessageSaved = "message_saved"
)

type IdentifyUserPayload struct {
	UserID string `json:"userId"`
}

type RequestChatListPayload struct {
	UserID string `json:"userId"`
}

type JoinRoomPayload struct {
	ChatID string `json:"chatId"`
}

type CreateChatPayload struct {
	UserID   string `json:"userId"`
	SocketID string `json:"socketId"`
	Prompt   string `json:"prompt"`
	Subject  string `json:"subject,omitempty"`
}

type SendMessagePayload struct {
	ChatID  string `json:"chatId"`
	Message string `json:"message"`
}

// ChatCreated acknowledges an async create_chat request. The prompt the user
// typed comes back on the chat so the client can seed the transcript.
type ChatCreated struct {
	Chat Chat `json:"chat"`
}

// BotResponse carries an authoritative bot message for a chat, plus an
// optional server-derived title for it.
type BotResponse struct {
	ChatID  string  `json:"chatId"`
	Message Message `json:"botMessage"`
	Title   string  `json:"title,omitempty"`
}
