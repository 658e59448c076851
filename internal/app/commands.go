package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/asafzaf/smartchat/internal/api"
	"github.com/asafzaf/smartchat/internal/config"
	"github.com/asafzaf/smartchat/internal/socket"
)

func connectCmd(settings config.Settings, userID string, logger *log.Logger) tea.Cmd {
	return func() tea.Msg {
		conn, err := socket.Open(context.Background(), socket.Options{
			BaseURL:           settings.ServerURL(),
			UserID:            userID,
			ReconnectAttempts: settings.ReconnectAttempts(),
			ReconnectDelay:    settings.ReconnectDelay(),
			Logger:            logger,
		})
		return connectedMsg{conn: conn, err: err}
	}
}

func deleteChatCmd(client *api.Client, chatID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 4*time.Second)
		defer cancel()
		err := client.DeleteChat(ctx, chatID)
		return chatDeletedMsg{id: chatID, err: err}
	}
}

func sendFeedbackCmd(client *api.Client, userID, chatID, messageID, text string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 4*time.Second)
		defer cancel()
		err := client.SendFeedback(ctx, userID, chatID, text)
		return feedbackSentMsg{messageID: messageID, err: err}
	}
}

func copyCmd(text, success string) tea.Cmd {
	return func() tea.Msg {
		_, err := copyTextToClipboard(text)
		return clipboardResultMsg{success: success, err: err}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
