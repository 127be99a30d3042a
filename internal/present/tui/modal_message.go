package tui

import (
	"github.com/charmbracelet/lipgloss"
	lipglossv2 "github.com/charmbracelet/lipgloss/v2"
)

// messageModal blocks input until dismissed.
type messageModal struct {
	text string
	box  lipglossv2.Style
}

func newMessageModal(text string) *messageModal {
	return &messageModal{
		text: text,
		box: lipglossv2.NewStyle().
			Padding(1, 4).
			Border(lipglossv2.RoundedBorder()).
			BorderForeground(lipglossv2.Color("42")),
	}
}

func (m *messageModal) View() string {
	help := lipgloss.NewStyle().Faint(true).Render("enter=ok")
	return m.box.Render(lipgloss.NewStyle().Bold(true).Render(m.text) + "\n\n" + help)
}
