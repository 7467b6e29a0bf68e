package bubbletea

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"parley"
)

// Styles maps a Theme to lipgloss styles for TUI rendering.
type Styles struct {
	UserMsg       lipgloss.Style
	Error         lipgloss.Style
	Muted         lipgloss.Style
	Accent        lipgloss.Style
	SidebarBorder lipgloss.Style
	SidebarItem   lipgloss.Style
	SidebarActive lipgloss.Style
}

// NewStyles creates Styles from a Theme.
func NewStyles(t parley.Theme) Styles {
	return Styles{
		UserMsg:       lipgloss.NewStyle().Foreground(ansiColor(t.UserMsg)).Bold(true),
		Error:         lipgloss.NewStyle().Foreground(ansiColor(t.Error)),
		Muted:         lipgloss.NewStyle().Foreground(ansiColor(t.Muted)).Faint(true),
		Accent:        lipgloss.NewStyle().Foreground(ansiColor(t.Accent)).Bold(true),
		SidebarBorder: lipgloss.NewStyle().Foreground(ansiColor(t.Sidebar)),
		SidebarItem:   lipgloss.NewStyle().Foreground(ansiColor(t.Sidebar)),
		SidebarActive: lipgloss.NewStyle().Foreground(ansiColor(t.Accent)).Bold(true),
	}
}

func ansiColor(index int) lipgloss.TerminalColor {
	if index < 0 {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(strconv.Itoa(index))
}
