package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/zeroclaw/zeroclaw-ui/internal/bounded"
	"github.com/zeroclaw/zeroclaw-ui/internal/protocol"
	"github.com/zeroclaw/zeroclaw-ui/internal/runtime"
	"github.com/zeroclaw/zeroclaw-ui/internal/touch"
	"github.com/zeroclaw/zeroclaw-ui/internal/ui"
	"github.com/zeroclaw/zeroclaw-ui/internal/wifi"
)

// Screen represents the current active screen in the application
type Screen string

const (
	ScreenChat Screen = "chat"
	ScreenWifi Screen = "wifi"
)

// Backend is the part of runtime.Runtime the console drives.
type Backend interface {
	Submit(ctx context.Context, cmd protocol.UiCommand) (protocol.UiResponse, error)
	Events() <-chan runtime.Event
	Touches() <-chan touch.TouchPoint
	History() []protocol.ChatMessage
}

// Messages for async operations
type responseMsg struct {
	kind protocol.CommandKind
	resp protocol.UiResponse
	err  error
}

type eventMsg struct {
	event runtime.Event
	ok    bool
}

type touchMsg struct {
	point touch.TouchPoint
	ok    bool
}

// Layout rows outside the viewport: title, status, notice, input, help.
const chromeHeight = 7

// Model is the chat console
type Model struct {
	ctx     context.Context
	backend Backend
	server  string

	Screen Screen
	Width  int
	Height int

	input     textinput.Model
	ssidInput textinput.Model
	passInput textinput.Model
	viewport  viewport.Model
	spinner   spinner.Model
	help      help.Model
	chatKeys  chatKeyMap
	wifiKeys  wifiKeyMap

	messages  []protocol.ChatMessage
	status    protocol.UiStatus
	wifiState wifi.State
	lastTouch *touch.TouchPoint

	busy     string // label of the in-flight command, "" when idle
	notice   string
	noticeOK bool
	ready    bool
}

// New creates the console. server is shown in the title bar.
func New(ctx context.Context, backend Backend, server string) Model {
	input := textinput.New()
	input.Placeholder = "Message ZeroClaw, or /help"
	input.CharLimit = bounded.MessageCapacity
	input.Prompt = "› "
	input.Focus()

	ssid := textinput.New()
	ssid.Placeholder = "network name"
	ssid.CharLimit = bounded.SSIDCapacity
	ssid.Prompt = "SSID:     "

	pass := textinput.New()
	pass.Placeholder = "password"
	pass.CharLimit = bounded.PasswordCapacity
	pass.Prompt = "Password: "
	pass.EchoMode = textinput.EchoPassword
	pass.EchoCharacter = '•'

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(ui.PrimaryColor)

	width, height := ui.GetTerminalSize()

	m := Model{
		ctx:       ctx,
		backend:   backend,
		server:    server,
		Screen:    ScreenChat,
		Width:     width,
		Height:    height,
		input:     input,
		ssidInput: ssid,
		passInput: pass,
		spinner:   s,
		help:      help.New(),
		chatKeys:  newChatKeyMap(),
		wifiKeys:  newWifiKeyMap(),
		messages:  backend.History(),
	}
	m.viewport = viewport.New(width, m.viewportHeight())
	m.refreshTranscript()
	return m
}

// Run starts the console and blocks until the user quits or ctx ends.
func Run(ctx context.Context, backend Backend, server string) error {
	p := tea.NewProgram(New(ctx, backend, server), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}

// Init starts the event listeners and requests an initial status.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		textinput.Blink,
		waitForEvent(m.backend.Events()),
		m.submit(protocol.GetStatus()),
	}
	if touches := m.backend.Touches(); touches != nil {
		cmds = append(cmds, waitForTouch(touches))
	}
	return tea.Batch(cmds...)
}

func (m Model) submit(cmd protocol.UiCommand) tea.Cmd {
	ctx, backend := m.ctx, m.backend
	return func() tea.Msg {
		resp, err := backend.Submit(ctx, cmd)
		return responseMsg{kind: cmd.Kind, resp: resp, err: err}
	}
}

func waitForEvent(events <-chan runtime.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		return eventMsg{event: ev, ok: ok}
	}
}

func waitForTouch(touches <-chan touch.TouchPoint) tea.Cmd {
	return func() tea.Msg {
		p, ok := <-touches
		return touchMsg{point: p, ok: ok}
	}
}

// Update handles all messages and routes them to the active screen
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.help.Width = msg.Width
		m.viewport.Width = msg.Width
		m.viewport.Height = m.viewportHeight()
		m.ready = true
		m.refreshTranscript()
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.Screen == ScreenWifi {
			return m.updateWifi(msg)
		}
		return m.updateChat(msg)

	case responseMsg:
		return m.handleResponse(msg), nil

	case eventMsg:
		if !msg.ok {
			return m, nil
		}
		m = m.handleEvent(msg.event)
		return m, waitForEvent(m.backend.Events())

	case touchMsg:
		if !msg.ok {
			return m, nil
		}
		p := msg.point
		m.lastTouch = &p
		return m, waitForTouch(m.backend.Touches())

	case spinner.TickMsg:
		if m.busy == "" {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) updateChat(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.chatKeys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.chatKeys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.viewport.Height = m.viewportHeight()
		return m, nil

	case key.Matches(msg, m.chatKeys.Wifi):
		return m.openWifiForm()

	case key.Matches(msg, m.chatKeys.Status):
		return m.start(protocol.GetStatus())

	case key.Matches(msg, m.chatKeys.Clear):
		return m.start(protocol.ClearMessages())

	case key.Matches(msg, m.chatKeys.PageUp), key.Matches(msg, m.chatKeys.PageDown):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case key.Matches(msg, m.chatKeys.Send):
		line := m.input.Value()
		act, cmd, err := parseInput(line)
		if err != nil {
			m.setNotice(err.Error(), false)
			return m, nil
		}
		switch act {
		case actionSubmit:
			m.input.Reset()
			return m.start(cmd)
		case actionWifiForm:
			m.input.Reset()
			return m.openWifiForm()
		case actionHelp:
			m.input.Reset()
			m.help.ShowAll = !m.help.ShowAll
			m.viewport.Height = m.viewportHeight()
			return m, nil
		case actionQuit:
			return m, tea.Quit
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateWifi(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.wifiKeys.Cancel):
		m.Screen = ScreenChat
		m.ssidInput.Blur()
		m.passInput.Blur()
		return m, m.input.Focus()

	case key.Matches(msg, m.wifiKeys.Next):
		if m.ssidInput.Focused() {
			m.ssidInput.Blur()
			return m, m.passInput.Focus()
		}
		m.passInput.Blur()
		return m, m.ssidInput.Focus()

	case key.Matches(msg, m.wifiKeys.Connect):
		ssid := strings.TrimSpace(m.ssidInput.Value())
		if ssid == "" {
			m.setNotice("SSID is required", false)
			return m, nil
		}
		cmd := protocol.ConnectWifi(ssid, m.passInput.Value())
		m.passInput.Reset()
		m.Screen = ScreenChat
		m.ssidInput.Blur()
		m.passInput.Blur()
		m.input.Focus()
		return m.start(cmd)
	}

	var cmd tea.Cmd
	if m.ssidInput.Focused() {
		m.ssidInput, cmd = m.ssidInput.Update(msg)
	} else {
		m.passInput, cmd = m.passInput.Update(msg)
	}
	return m, cmd
}

func (m Model) openWifiForm() (tea.Model, tea.Cmd) {
	m.Screen = ScreenWifi
	m.input.Blur()
	if ssid := m.status.SSID(); ssid != "" && m.ssidInput.Value() == "" {
		m.ssidInput.SetValue(ssid)
	}
	m.passInput.Blur()
	return m, m.ssidInput.Focus()
}

// start submits cmd unless another command is in flight.
func (m Model) start(cmd protocol.UiCommand) (tea.Model, tea.Cmd) {
	if m.busy != "" {
		m.setNotice("Still busy: "+m.busy, false)
		return m, nil
	}
	m.busy = busyLabel(cmd)
	m.notice = ""
	return m, tea.Batch(m.submit(cmd), m.spinner.Tick)
}

func (m Model) handleResponse(msg responseMsg) Model {
	m.busy = ""

	if msg.err != nil {
		m.setNotice(msg.err.Error(), false)
		return m
	}

	resp := msg.resp
	if resp.Status != nil {
		m.status = *resp.Status
	}
	if !resp.Success {
		m.setNotice(resp.ErrorText(), false)
		return m
	}

	switch msg.kind {
	case protocol.CommandClearMessages:
		m.messages = nil
		m.refreshTranscript()
		m.setNotice("Transcript cleared", true)
	case protocol.CommandConnectWifi:
		m.setNotice("Connected to "+m.status.SSID(), true)
	case protocol.CommandDisconnect:
		m.setNotice("WiFi disconnected", true)
	}
	return m
}

func (m Model) handleEvent(ev runtime.Event) Model {
	switch ev.Kind {
	case runtime.EventMessageAdded:
		if ev.Message != nil {
			m.messages = append(m.messages, *ev.Message)
			m.refreshTranscript()
		}
	case runtime.EventStatusChanged:
		if ev.Status != nil {
			m.status = *ev.Status
		}
	case runtime.EventWifiStateChanged:
		m.wifiState = ev.To
		if ev.To == wifi.StateFailed {
			m.setNotice("WiFi connection failed", false)
		}
	}
	return m
}

func (m *Model) setNotice(text string, ok bool) {
	m.notice = text
	m.noticeOK = ok
}

func (m *Model) refreshTranscript() {
	content := ui.RenderTranscript(m.messages, m.Width)
	if len(m.messages) == 0 {
		content = ui.TimestampStyle.Render("  No messages yet. Say hello!")
	}
	m.viewport.SetContent(content)
	m.viewport.GotoBottom()
}

func (m Model) viewportHeight() int {
	h := m.Height - chromeHeight
	if m.help.ShowAll {
		h -= 2
	}
	if h < 3 {
		h = 3
	}
	return h
}

// View renders the active screen
func (m Model) View() string {
	if m.Screen == ScreenWifi {
		return m.viewWifi()
	}
	return m.viewChat()
}

func (m Model) viewChat() string {
	var b strings.Builder

	b.WriteString(m.titleBar())
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.noticeLine())
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.chatKeys))
	return b.String()
}

func (m Model) viewWifi() string {
	var b strings.Builder

	b.WriteString(m.titleBar())
	b.WriteString("\n\n")
	b.WriteString(ui.HeaderTitleStyle.Render("CONNECT TO WIFI"))
	b.WriteString("\n\n  ")
	b.WriteString(m.ssidInput.View())
	b.WriteString("\n  ")
	b.WriteString(m.passInput.View())
	b.WriteString("\n\n")
	b.WriteString(m.noticeLine())
	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.wifiKeys))
	return b.String()
}

func (m Model) titleBar() string {
	title := ui.UserLabelStyle.Render("ZeroClaw")
	server := ui.TimestampStyle.Render(m.server)
	line := title + " " + server + "   " + ui.StatusBar(m.status)
	if m.wifiState == wifi.StateConnecting {
		line += "  " + ui.TimestampStyle.Render("wifi: "+m.wifiState.String())
	}
	if m.lastTouch != nil {
		line += "  " + ui.TimestampStyle.Render(touchLabel(*m.lastTouch))
	}
	return line
}

func (m Model) noticeLine() string {
	if m.busy != "" {
		return m.spinner.View() + " " + ui.TimestampStyle.Render(m.busy)
	}
	if m.notice == "" {
		return ""
	}
	if m.noticeOK {
		return lipgloss.NewStyle().Foreground(ui.SuccessColor).Render(ui.SuccessMarker + " " + m.notice)
	}
	return ui.ErrorMessageStyle.Render(ui.FailureMarker + " " + m.notice)
}

func touchLabel(p touch.TouchPoint) string {
	if !p.Pressed {
		return "touch: released"
	}
	return fmt.Sprintf("touch: %d,%d", p.X, p.Y)
}
