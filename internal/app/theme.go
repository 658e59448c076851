package app

import "github.com/charmbracelet/lipgloss"

const (
	bubblePaddingVertical   = 0
	bubblePaddingHorizontal = 1
)

var (
	headerStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	helpStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	statusStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	dividerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	chatStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	chatUnreadStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("120"))
	chatActiveStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("75")).Bold(true)
	selectedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("236"))
	filterStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("117"))
	userBubbleStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Background(lipgloss.Color("236")).Padding(bubblePaddingVertical, bubblePaddingHorizontal)
	botBubbleStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("238")).Padding(bubblePaddingVertical, bubblePaddingHorizontal)
	thinkingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true)
	feedbackMarkStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("114"))
	errorStatusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)
