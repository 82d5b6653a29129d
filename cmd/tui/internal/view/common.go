package view

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Screen is a view reachable from the main menu.
type Screen interface {
	tea.Model
	Title() string
	ShortHelp() string
}

var titleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("229")).
	Background(lipgloss.Color("57")).
	Padding(0, 1)

var helpStyle = lipgloss.NewStyle().Faint(true).PaddingLeft(1)

// Frame renders s under its title with its key help below.
func Frame(s Screen) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(s.Title()),
		s.View(),
		helpStyle.Render(s.ShortHelp()),
	)
}

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}
