// Package bubbletea provides a Bubble Tea TUI for the parley chat
// client: a session sidebar, the active message thread, and an input
// line. All state lives in the [parley.Manager]; the model re-reads it
// on every change notification.
package bubbletea

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// Run creates and runs the Bubble Tea TUI program. It blocks until the
// program exits. The context is used for graceful shutdown — when
// cancelled, the program quits.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	go func() {
		<-ctx.Done()
		p.Quit()
	}()
	_, err := p.Run()
	return err
}

// StateChangedMsg signals that the manager's state changed and the view
// must re-render.
type StateChangedMsg struct{}

// SendDoneMsg signals that a SendMessage call has resolved, success or
// failure; the outcome is read back from the manager.
type SendDoneMsg struct{}

// ExportDoneMsg reports the outcome of a session export.
type ExportDoneMsg struct {
	Path string
	Err  error
}

// listenForChange waits for the next change notification.
func listenForChange(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		<-ch
		return StateChangedMsg{}
	}
}
