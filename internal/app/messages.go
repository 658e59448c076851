package app

import (
	"time"

	"github.com/asafzaf/smartchat/internal/socket"
)

type connectedMsg struct {
	conn *socket.Conn
	err  error
}

type chatDeletedMsg struct {
	id  string
	err error
}

type feedbackSentMsg struct {
	messageID string
	err       error
}

type clipboardResultMsg struct {
	success string
	err     error
}

type tickMsg time.Time
