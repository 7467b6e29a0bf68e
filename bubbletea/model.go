package bubbletea

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"parley"
	parleyjson "parley/json"
)

var _ tea.Model = Model{}

const sidebarWidth = 26

// Model is the Bubble Tea model for the parley TUI.
type Model struct {
	// Input is the text input component. Exported for test access.
	Input textinput.Model
	// Viewport is the scrollable thread area. Exported for test access.
	Viewport viewport.Model

	manager *parley.Manager
	changes <-chan struct{}
	styles  Styles

	renderer *glamour.TermRenderer

	width    int
	height   int
	renaming bool
	sending  bool
	notice   string
	ready    bool
}

// New creates a new TUI Model over the given manager. changes carries
// the manager's change notifications; it may be nil in tests.
func New(manager *parley.Manager, changes <-chan struct{}, theme parley.Theme) Model {
	ti := textinput.New()
	ti.Placeholder = "Type your message..."
	ti.Prompt = "> "
	ti.Focus()
	ti.CharLimit = 0

	return Model{
		Input:   ti,
		manager: manager,
		changes: changes,
		styles:  NewStyles(theme),
	}
}

// Sending reports whether a send is in flight.
func (m Model) Sending() bool { return m.sending }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, listenForChange(m.changes))
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m = m.handleWindowSize(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case StateChangedMsg:
		m = m.refresh()
		return m, listenForChange(m.changes)

	case SendDoneMsg:
		m.sending = false
		m = m.refresh()
		cmd := m.Input.Focus()
		return m, cmd

	case ExportDoneMsg:
		switch {
		case msg.Err != nil:
			m.notice = fmt.Sprintf("Export failed: %v", msg.Err)
		case msg.Path != "":
			m.notice = "Saved " + msg.Path
		}
		return m, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	cmds = append(cmds, cmd)
	if !m.sending {
		m.Input, cmd = m.Input.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	main := strings.Join([]string{
		m.Viewport.View(),
		m.statusLine(),
		m.Input.View(),
	}, "\n")

	return lipgloss.JoinHorizontal(lipgloss.Top, m.sidebarView(), main)
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) Model {
	m.width = msg.Width
	m.height = msg.Height

	mainWidth := msg.Width - sidebarWidth
	if mainWidth < 20 {
		mainWidth = 20
	}
	vpHeight := msg.Height - 2 // status line + input line
	if vpHeight < 1 {
		vpHeight = 1
	}

	if !m.ready {
		m.Viewport = viewport.New(mainWidth, vpHeight)
		m.ready = true
	} else {
		m.Viewport.Width = mainWidth
		m.Viewport.Height = vpHeight
	}
	m.Input.Width = mainWidth - 4

	// Word wrap tracks the thread width; rebuild the renderer on resize.
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(mainWidth-2),
	)
	if err == nil {
		m.renderer = renderer
	}

	m = m.refresh()
	m.Viewport.GotoBottom()
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit

	case tea.KeyEnter:
		if m.renaming {
			return m.commitRename()
		}
		if m.sending {
			return m, nil
		}
		text := strings.TrimSpace(m.Input.Value())
		if text == "" {
			return m, nil
		}
		return m.submitInput(text)

	case tea.KeyEsc:
		if m.renaming {
			m.renaming = false
			m.Input.SetValue("")
			m.Input.Placeholder = "Type your message..."
		}
		return m, nil

	case tea.KeyCtrlN:
		m.manager.CreateSession()
		m = m.refresh()
		return m, nil

	case tea.KeyCtrlD:
		if id, ok := m.manager.ActiveID(); ok {
			m.manager.DeleteSession(id)
			m = m.refresh()
		}
		return m, nil

	case tea.KeyCtrlR:
		if active, ok := m.manager.ActiveSession(); ok && !m.renaming {
			m.renaming = true
			m.Input.SetValue(active.Title)
			m.Input.Placeholder = "New title..."
			m.Input.CursorEnd()
		}
		return m, nil

	case tea.KeyCtrlS:
		if id, ok := m.manager.ActiveID(); ok {
			return m, exportSession(m.manager, id)
		}
		return m, nil

	case tea.KeyTab, tea.KeyShiftTab:
		m = m.cycleSession(msg.Type == tea.KeyShiftTab)
		return m, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	if msg.Type != tea.KeyRunes {
		m.Viewport, cmd = m.Viewport.Update(msg)
		cmds = append(cmds, cmd)
	}
	if !m.sending {
		m.Input, cmd = m.Input.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) submitInput(text string) (tea.Model, tea.Cmd) {
	m.Input.SetValue("")
	m.Input.Blur()
	m.notice = ""
	m.sending = true
	return m, sendMessage(m.manager, text)
}

func (m Model) commitRename() (tea.Model, tea.Cmd) {
	// Empty titles are rejected here, not by the manager.
	title := strings.TrimSpace(m.Input.Value())
	if id, ok := m.manager.ActiveID(); ok && title != "" {
		m.manager.RenameSession(id, title)
	}
	m.renaming = false
	m.Input.SetValue("")
	m.Input.Placeholder = "Type your message..."
	m = m.refresh()
	return m, nil
}

func (m Model) cycleSession(backwards bool) Model {
	sessions := m.manager.SessionsByRecency()
	if len(sessions) == 0 {
		return m
	}
	activeID, _ := m.manager.ActiveID()
	idx := 0
	for i, s := range sessions {
		if s.ID == activeID {
			idx = i
			break
		}
	}
	if backwards {
		idx = (idx - 1 + len(sessions)) % len(sessions)
	} else {
		idx = (idx + 1) % len(sessions)
	}
	m.manager.SwitchSession(sessions[idx].ID)
	return m.refresh()
}

// refresh re-reads manager state into the viewport.
func (m Model) refresh() Model {
	if !m.ready {
		return m
	}
	atBottom := m.Viewport.AtBottom()
	m.Viewport.SetContent(m.threadView())
	if atBottom {
		m.Viewport.GotoBottom()
	}
	return m
}

func (m Model) threadView() string {
	active, ok := m.manager.ActiveSession()
	if !ok {
		return m.styles.Muted.Render("No chats yet. Create one to get started!")
	}
	if len(active.Messages) == 0 {
		return m.styles.Muted.Render("Start a new conversation")
	}

	var b strings.Builder
	for i, msg := range active.Messages {
		if i > 0 {
			b.WriteString("\n")
		}
		switch msg.Role {
		case parley.RoleUser:
			b.WriteString(m.styles.UserMsg.Render("You"))
			b.WriteString(m.styles.Muted.Render("  " + msg.Timestamp.Format("15:04:05")))
			b.WriteString("\n")
			b.WriteString(msg.Content)
			b.WriteString("\n")
		case parley.RoleAssistant:
			b.WriteString(m.styles.Accent.Render("Assistant"))
			b.WriteString(m.styles.Muted.Render("  " + msg.Timestamp.Format("15:04:05")))
			b.WriteString("\n")
			b.WriteString(m.renderMarkdown(msg.Content))
		}
	}
	return b.String()
}

func (m Model) renderMarkdown(content string) string {
	if m.renderer == nil {
		return content + "\n"
	}
	out, err := m.renderer.Render(content)
	if err != nil {
		return content + "\n"
	}
	return strings.TrimLeft(out, "\n")
}

func (m Model) sidebarView() string {
	var b strings.Builder
	b.WriteString(m.styles.Accent.Render("parley"))
	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render("ctrl+n new chat"))
	b.WriteString("\n\n")

	activeID, _ := m.manager.ActiveID()
	for _, s := range m.manager.SessionsByRecency() {
		title := runewidth.Truncate(s.Title, sidebarWidth-4, "…")
		if s.ID == activeID {
			b.WriteString(m.styles.SidebarActive.Render("▌ " + title))
		} else {
			b.WriteString(m.styles.SidebarItem.Render("  " + title))
		}
		b.WriteString("\n")
	}

	return lipgloss.NewStyle().
		Width(sidebarWidth).
		Height(m.height).
		BorderStyle(lipgloss.NormalBorder()).
		BorderRight(true).
		BorderForeground(m.styles.SidebarBorder.GetForeground()).
		Render(b.String())
}

func (m Model) statusLine() string {
	if lastErr := m.manager.LastError(); lastErr != "" && !m.sending {
		return m.styles.Error.Render("Error: " + lastErr)
	}
	if m.sending || m.manager.Pending() {
		return m.styles.Muted.Render("Thinking...")
	}
	if m.renaming {
		return m.styles.Muted.Render("Renaming: Enter to save, Esc to cancel")
	}
	if m.notice != "" {
		return m.styles.Muted.Render(m.notice)
	}
	return m.styles.Muted.Render("Enter send · ctrl+n new · ctrl+r rename · ctrl+d delete · ctrl+s export · tab switch · ctrl+c quit")
}

// sendMessage relays the input to the manager in a background command.
// The manager owns the request deadline; there is no user cancel.
func sendMessage(manager *parley.Manager, content string) tea.Cmd {
	return func() tea.Msg {
		manager.SendMessage(context.Background(), content)
		return SendDoneMsg{}
	}
}

// exportSession writes the session's download file to the working
// directory.
func exportSession(manager *parley.Manager, id string) tea.Cmd {
	return func() tea.Msg {
		e, ok := manager.ExportSession(id)
		if !ok {
			return ExportDoneMsg{}
		}
		data, err := parleyjson.MarshalExport(e)
		if err != nil {
			return ExportDoneMsg{Err: err}
		}
		name := parleyjson.ExportFilename(e.Title, time.Now())
		if err := os.WriteFile(name, data, 0o600); err != nil {
			return ExportDoneMsg{Err: err}
		}
		return ExportDoneMsg{Path: name}
	}
}
