package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/asafzaf/smartchat/internal/types"
)

func (c *Client) ChatList(ctx context.Context, userID string) ([]types.Chat, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, errors.New("user id is required")
	}
	var resp ChatListResponse
	path := fmt.Sprintf("/api/chat/%s/list", userID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, true, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (c *Client) DeleteChat(ctx context.Context, chatID string) error {
	chatID = strings.TrimSpace(chatID)
	if chatID == "" {
		return errors.New("chat id is required")
	}
	return c.doJSON(ctx, http.MethodDelete, "/api/chat/"+chatID, nil, true, nil)
}

func (c *Client) SendFeedback(ctx context.Context, userID, chatID, feedback string) error {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(chatID) == "" {
		return errors.New("user id and chat id are required")
	}
	req := FeedbackRequest{UserID: userID, ChatID: chatID, Feedback: feedback}
	return c.doJSON(ctx, http.MethodPost, "/api/feedback", req, true, nil)
}
