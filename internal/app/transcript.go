package app

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/asafzaf/smartchat/internal/types"
)

type transcriptOptions struct {
	width        int
	markdown     bool
	spinnerFrame string
}

// renderTranscript lays out a chat's messages: user text right-aligned in a
// filled bubble, bot replies left-aligned, thinking placeholders as a plain
// italic line with the spinner frame.
func renderTranscript(messages []types.Message, opts transcriptOptions) string {
	width := opts.width
	if width <= 0 {
		width = 80
	}
	if len(messages) == 0 {
		return statusStyle.Render("Type a prompt to start the conversation.")
	}
	blocks := make([]string, 0, len(messages))
	for _, msg := range messages {
		block := renderMessage(msg, width, opts.markdown, opts.spinnerFrame)
		if block == "" {
			continue
		}
		blocks = append(blocks, block)
	}
	return strings.Join(blocks, "\n\n")
}

func renderMessage(msg types.Message, width int, markdown bool, spinnerFrame string) string {
	if msg.IsTyping {
		line := strings.TrimSpace(spinnerFrame + " " + msg.Text)
		return thinkingStyle.Render(truncateLine(line, width))
	}
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return ""
	}
	innerWidth := bubbleInnerWidth(width)
	if msg.IsBot || msg.Sender == types.BotSender {
		body := text
		if markdown {
			body = renderMarkdown(text, innerWidth)
		}
		bubble := botBubbleStyle.Render(body)
		if msg.GotFeedback {
			mark := feedbackMarkStyle.Render("✓ feedback sent")
			bubble = lipgloss.JoinVertical(lipgloss.Left, bubble, mark)
		}
		return lipgloss.PlaceHorizontal(width, lipgloss.Left, bubble)
	}
	body := text
	if markdown {
		body = renderMarkdown(escapeMarkdown(text), innerWidth)
	}
	bubble := userBubbleStyle.Render(body)
	return lipgloss.PlaceHorizontal(width, lipgloss.Right, bubble)
}

func bubbleInnerWidth(width int) int {
	maxBubbleWidth := width - 4
	if maxBubbleWidth < 10 {
		maxBubbleWidth = width
	}
	inner := maxBubbleWidth - 2 - 2*bubblePaddingHorizontal
	if inner < 1 {
		inner = 1
	}
	return inner
}
