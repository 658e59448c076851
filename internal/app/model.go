package app

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/asafzaf/smartchat/internal/api"
	"github.com/asafzaf/smartchat/internal/config"
	"github.com/asafzaf/smartchat/internal/session"
	"github.com/asafzaf/smartchat/internal/socket"
	"github.com/asafzaf/smartchat/internal/types"
)

const (
	maxEventsPerTick = 64
	tickInterval     = 100 * time.Millisecond
	minSidebarWidth  = 16
	maxSidebarWidth  = 48
	minViewportWidth = 20
	minContentHeight = 6
)

type uiMode int

const (
	uiModeChats uiMode = iota
	uiModeCompose
	uiModeFilter
	uiModeConfirmDelete
)

type Model struct {
	client   *api.Client
	settings config.Settings
	user     types.User
	log      *log.Logger

	state    *session.State
	dispatch *session.Dispatcher
	conn     *socket.Conn
	stream   *EventStreamController

	sidebar  *SidebarController
	viewport viewport.Model
	input    textinput.Model
	loader   spinner.Model

	mode      uiMode
	status    string
	statusErr bool
	width     int
	height    int
	connected bool
}

func NewModel(client *api.Client, settings config.Settings, user types.User, logger *log.Logger) Model {
	if logger == nil {
		logger = log.Default()
	}
	vp := viewport.New(minViewportWidth, minContentHeight)

	input := textinput.New()
	input.Placeholder = "Send a message…"
	input.CharLimit = 0
	input.Focus()

	loader := spinner.New()
	loader.Spinner = spinner.Dot
	loader.Style = statusStyle

	return Model{
		client:   client,
		settings: settings,
		user:     user,
		log:      logger.WithPrefix("ui"),
		state:    session.NewState(),
		stream:   NewEventStreamController(maxEventsPerTick),
		sidebar:  NewSidebarController(),
		viewport: vp,
		input:    input,
		loader:   loader,
		mode:     uiModeCompose,
		status:   "connecting…",
	}
}

func Run(client *api.Client, settings config.Settings, user types.User, logger *log.Logger) error {
	model := NewModel(client, settings, user, logger)
	p := tea.NewProgram(&model, tea.WithAltScreen())
	_, err := p.Run()
	if model.conn != nil {
		model.conn.Close()
	}
	return err
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(connectCmd(m.settings, m.user.ID, m.log), m.loader.Tick, tickCmd())
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tickMsg:
		m.consumeEventTick()
		return m, tickCmd()
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.loader, cmd = m.loader.Update(msg)
		if m.state.Waiting {
			m.refreshViewport()
		}
		return m, cmd
	case connectedMsg:
		if msg.err != nil {
			m.setErrorStatus("connect failed: " + msg.err.Error())
			return m, nil
		}
		m.conn = msg.conn
		m.connected = true
		m.dispatch = session.NewDispatcher(m.conn, m.state, m.user.ID, m.log)
		m.stream.SetStream(m.conn.Events())
		m.setInfoStatus("connected")
		return m, nil
	case chatDeletedMsg:
		if msg.err != nil {
			m.setErrorStatus("delete failed: " + msg.err.Error())
			return m, nil
		}
		m.state.RemoveChat(msg.id)
		m.refresh()
		m.setInfoStatus("chat deleted")
		return m, nil
	case feedbackSentMsg:
		if msg.err != nil {
			m.setErrorStatus("feedback failed: " + msg.err.Error())
			return m, nil
		}
		m.state.MarkFeedback(msg.messageID)
		m.refreshViewport()
		m.setInfoStatus("feedback sent")
		return m, nil
	case clipboardResultMsg:
		if msg.err != nil {
			m.setErrorStatus("copy failed: " + msg.err.Error())
			return m, nil
		}
		m.setInfoStatus(msg.success)
		return m, nil
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key := msg.String(); key == "ctrl+c" {
		return m, tea.Quit
	}
	switch m.mode {
	case uiModeFilter:
		return m.handleFilterKey(msg)
	case uiModeConfirmDelete:
		return m.handleConfirmDeleteKey(msg)
	case uiModeCompose:
		return m.handleComposeKey(msg)
	default:
		return m.handleChatsKey(msg)
	}
}

func (m *Model) handleChatsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		m.sidebar.MoveCursor(-1)
		return m, nil
	case "down", "j":
		m.sidebar.MoveCursor(1)
		return m, nil
	case "enter":
		m.openSelectedChat()
		return m, nil
	case "n":
		m.state.StartNewChat()
		m.sidebar.ClearFilter()
		m.mode = uiModeCompose
		m.input.Focus()
		m.refresh()
		m.setInfoStatus("new chat")
		return m, nil
	case "d":
		if m.sidebar.SelectedID() == "" {
			return m, nil
		}
		m.mode = uiModeConfirmDelete
		m.setInfoStatus("delete chat? (y/n)")
		return m, nil
	case "/":
		m.mode = uiModeFilter
		return m, nil
	case "y":
		return m, m.copyLastBotMessage()
	case "tab":
		m.mode = uiModeCompose
		m.input.Focus()
		return m, nil
	case "pgup", "pgdown", "ctrl+u", "ctrl+d":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.sidebar.ClearFilter()
		m.mode = uiModeChats
		return m, nil
	case "enter":
		m.mode = uiModeChats
		return m, nil
	case "backspace":
		filter := m.sidebar.Filter()
		if filter != "" {
			m.sidebar.SetFilter(filter[:len(filter)-1])
		}
		return m, nil
	}
	if msg.Type == tea.KeyRunes {
		m.sidebar.SetFilter(m.sidebar.Filter() + string(msg.Runes))
	}
	return m, nil
}

func (m *Model) handleConfirmDeleteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y":
		id := m.sidebar.SelectedID()
		m.mode = uiModeChats
		if id == "" {
			return m, nil
		}
		m.setInfoStatus("deleting…")
		return m, deleteChatCmd(m.client, id)
	case "n", "esc":
		m.mode = uiModeChats
		m.setInfoStatus("")
		return m, nil
	}
	return m, nil
}

func (m *Model) handleComposeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "tab":
		m.mode = uiModeChats
		m.input.Blur()
		return m, nil
	case "enter":
		m.submitPrompt()
		return m, nil
	case "ctrl+f":
		return m, m.submitFeedback()
	case "ctrl+y":
		return m, m.copyLastBotMessage()
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) openSelectedChat() {
	id := m.sidebar.SelectedID()
	if id == "" {
		return
	}
	m.state.SelectChat(id)
	m.dispatch.Join(id)
	m.mode = uiModeCompose
	m.input.Focus()
	m.refresh()
}

func (m *Model) submitPrompt() {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return
	}
	if m.dispatch == nil {
		m.setErrorStatus("not connected")
		return
	}
	m.dispatch.Send(text)
	m.input.SetValue("")
	m.refresh()
}

// submitFeedback sends the composed text as feedback on the latest bot reply
// instead of as a chat message.
func (m *Model) submitFeedback() tea.Cmd {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		m.setErrorStatus("type the feedback first")
		return nil
	}
	last := m.state.LastBotMessage()
	if last == nil {
		m.setErrorStatus("no bot reply to give feedback on")
		return nil
	}
	if last.GotFeedback {
		m.setInfoStatus("feedback already sent")
		return nil
	}
	m.input.SetValue("")
	m.setInfoStatus("sending feedback…")
	return sendFeedbackCmd(m.client, m.user.ID, m.state.ActiveChatID, last.ID, text)
}

func (m *Model) copyLastBotMessage() tea.Cmd {
	last := m.state.LastBotMessage()
	if last == nil {
		m.setErrorStatus("nothing to copy")
		return nil
	}
	return copyCmd(last.Text, "reply copied")
}

func (m *Model) consumeEventTick() {
	changed, closed := m.stream.ConsumeTick(m.state, m.user.ID)
	if closed {
		m.connected = false
		m.setErrorStatus("connection lost")
	}
	if changed {
		m.refresh()
	}
}

func (m *Model) refresh() {
	m.sidebar.SetChats(m.state.Chats, m.state.ActiveChatID, m.state.LoadingChats)
	m.refreshViewport()
}

func (m *Model) refreshViewport() {
	if m.state.LoadingMessages {
		m.viewport.SetContent(statusStyle.Render("loading messages…"))
		return
	}
	content := renderTranscript(m.state.Messages, transcriptOptions{
		width:        m.viewport.Width,
		markdown:     m.settings.UI.Markdown,
		spinnerFrame: m.loader.View(),
	})
	m.viewport.SetContent(content)
	m.viewport.GotoBottom()
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	contentHeight := max(minContentHeight, height-3)
	sidebarWidth := clamp(m.settings.SidebarWidth(), minSidebarWidth, maxSidebarWidth)
	if width-sidebarWidth-1 < minViewportWidth {
		sidebarWidth = max(minSidebarWidth, width/3)
	}
	viewportWidth := max(minViewportWidth, width-sidebarWidth-1)

	m.sidebar.SetSize(sidebarWidth, contentHeight)
	m.viewport.Width = viewportWidth
	m.viewport.Height = contentHeight
	m.input.Width = max(10, viewportWidth-4)
	m.refreshViewport()
}

func (m *Model) View() string {
	headerText := "New chat"
	if chat := m.state.ActiveChat(); chat != nil {
		headerText = chatLabel(*chat)
	}
	header := headerStyle.Render(truncateLine(headerText, m.viewport.Width))

	body := m.viewport.View()
	inputLine := m.input.View()
	right := lipgloss.JoinVertical(lipgloss.Left, header, body, inputLine)

	listView := m.sidebar.View()
	height := max(lipgloss.Height(listView), lipgloss.Height(right))
	if height < 1 {
		height = 1
	}
	divider := strings.Repeat("│\n", height-1) + "│"
	main := lipgloss.JoinHorizontal(lipgloss.Top, listView, dividerStyle.Render(divider), right)

	return lipgloss.JoinVertical(lipgloss.Left, main, m.statusLine())
}

func (m *Model) statusLine() string {
	help := helpStyle.Render(m.helpText())
	status := m.status
	if m.statusErr {
		status = errorStatusStyle.Render(status)
	} else if m.state.Waiting {
		status = statusStyle.Render(m.loader.View() + " waiting for reply")
	} else {
		status = statusStyle.Render(status)
	}
	gap := m.width - lipgloss.Width(help) - lipgloss.Width(status)
	if gap < 1 {
		return help
	}
	return help + strings.Repeat(" ", gap) + status
}

func (m *Model) helpText() string {
	switch m.mode {
	case uiModeFilter:
		return "type to filter · enter keep · esc clear"
	case uiModeConfirmDelete:
		return "y delete · n cancel"
	case uiModeCompose:
		return "enter send · ctrl+f feedback · ctrl+y copy · esc chats"
	default:
		return "enter open · n new · d delete · / filter · y copy · tab compose · q quit"
	}
}

func (m *Model) setInfoStatus(text string) {
	m.status = text
	m.statusErr = false
}

func (m *Model) setErrorStatus(text string) {
	m.status = text
	m.statusErr = true
	m.log.Warn(text)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
