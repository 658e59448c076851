package app

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	runewidth "github.com/mattn/go-runewidth"
	"github.com/sahilm/fuzzy"

	"github.com/asafzaf/smartchat/internal/types"
)

const unreadDot = "● "

// SidebarController owns the chat list pane: cursor movement, the fuzzy
// filter, and rendering. The chat slice itself belongs to the session state;
// the controller only holds view concerns.
type SidebarController struct {
	chats    []types.Chat
	activeID string
	cursor   int
	filter   string
	width    int
	height   int
	loading  bool
}

func NewSidebarController() *SidebarController {
	return &SidebarController{}
}

func (s *SidebarController) SetSize(width, height int) {
	if s == nil {
		return
	}
	s.width = width
	s.height = height
}

func (s *SidebarController) SetChats(chats []types.Chat, activeID string, loading bool) {
	if s == nil {
		return
	}
	s.chats = chats
	s.activeID = activeID
	s.loading = loading
	s.clampCursor()
}

func (s *SidebarController) MoveCursor(delta int) {
	if s == nil {
		return
	}
	s.cursor += delta
	s.clampCursor()
}

func (s *SidebarController) clampCursor() {
	n := len(s.visibleIndices())
	if s.cursor >= n {
		s.cursor = n - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
}

// SelectedID returns the chat id under the cursor, or "" when the filtered
// list is empty.
func (s *SidebarController) SelectedID() string {
	if s == nil {
		return ""
	}
	visible := s.visibleIndices()
	if s.cursor < 0 || s.cursor >= len(visible) {
		return ""
	}
	return s.chats[visible[s.cursor]].ID
}

func (s *SidebarController) Filter() string {
	if s == nil {
		return ""
	}
	return s.filter
}

func (s *SidebarController) SetFilter(query string) {
	if s == nil {
		return
	}
	s.filter = query
	s.clampCursor()
}

func (s *SidebarController) ClearFilter() {
	s.SetFilter("")
}

type chatTitles []types.Chat

func (c chatTitles) String(i int) string { return chatLabel(c[i]) }
func (c chatTitles) Len() int            { return len(c) }

// visibleIndices maps filtered row positions back to s.chats indices.
func (s *SidebarController) visibleIndices() []int {
	if s == nil || len(s.chats) == 0 {
		return nil
	}
	query := strings.TrimSpace(s.filter)
	if query == "" {
		out := make([]int, len(s.chats))
		for i := range s.chats {
			out[i] = i
		}
		return out
	}
	matches := fuzzy.FindFrom(query, chatTitles(s.chats))
	out := make([]int, 0, len(matches))
	for _, match := range matches {
		out = append(out, match.Index)
	}
	return out
}

func chatLabel(chat types.Chat) string {
	title := strings.TrimSpace(chat.Title)
	if title == "" {
		title = strings.TrimSpace(chat.UserPrompt)
	}
	if title == "" {
		title = chat.ID
	}
	return title
}

func (s *SidebarController) View() string {
	if s == nil || s.width <= 0 {
		return ""
	}
	lines := []string{headerStyle.Render(truncateLine("Chats", s.width))}
	if s.filter != "" {
		lines = append(lines, filterStyle.Render(truncateLine("/"+s.filter, s.width)))
	}
	switch {
	case s.loading:
		lines = append(lines, statusStyle.Render("loading…"))
	case len(s.chats) == 0:
		lines = append(lines, statusStyle.Render("No chats yet."))
	default:
		visible := s.visibleIndices()
		if len(visible) == 0 {
			lines = append(lines, statusStyle.Render("No matches."))
		}
		for row, idx := range visible {
			chat := s.chats[idx]
			prefix := "  "
			style := chatStyle
			if chat.HasNewMessages {
				prefix = unreadDot
				style = chatUnreadStyle
			}
			if chat.ID == s.activeID {
				style = chatActiveStyle
			}
			line := truncateLine(prefix+chatLabel(chat), s.width)
			if row == s.cursor {
				line = selectedStyle.Render(padLine(line, s.width))
			} else {
				line = style.Render(line)
			}
			lines = append(lines, line)
		}
	}
	if s.height > 0 && len(lines) > s.height {
		lines = lines[:s.height]
	}
	view := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return lipgloss.NewStyle().Width(s.width).Render(view)
}

func truncateLine(text string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(text, width, "…")
}

func padLine(text string, width int) string {
	pad := width - runewidth.StringWidth(text)
	if pad <= 0 {
		return text
	}
	return text + strings.Repeat(" ", pad)
}
