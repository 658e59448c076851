package api

import (
	"encoding/json"

	"github.com/asafzaf/smartchat/internal/types"
)

type SignUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse mirrors the backend's {data: {user, token}} envelope.
type AuthResponse struct {
	Data AuthData `json:"data"`
}

type AuthData struct {
	User  types.User `json:"user"`
	Token string     `json:"token"`
}

type ChatListResponse struct {
	Data []types.Chat `json:"data"`
}

type FeedbackRequest struct {
	UserID   string `json:"userId"`
	ChatID   string `json:"chatId"`
	Feedback string `json:"feedback"`
}

type DeleteChatResponse struct {
	Data json.RawMessage `json:"data"`
}
