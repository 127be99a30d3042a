package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	lipglossv2 "github.com/charmbracelet/lipgloss/v2"
)

type promptKind int

const (
	promptLink promptKind = iota
	promptImage
)

type promptOutcome int

const (
	promptOpen promptOutcome = iota
	promptSubmitted
	promptCancelled
)

// promptModal collects the values for an inline link or image.
type promptModal struct {
	kind   promptKind
	inputs []textinput.Model
	focus  int
	padX   int
	padY   int
	box    lipglossv2.Style
}

func newPromptModal(kind promptKind, termW, termH int) *promptModal {
	m := &promptModal{kind: kind, padX: 2, padY: 1}
	switch kind {
	case promptLink:
		m.inputs = []textinput.Model{
			newPromptInput("text: ", "link text"),
			newPromptInput("url:  ", "https://"),
		}
	default:
		m.inputs = []textinput.Model{newPromptInput("url: ", "https://example.org/figure.png")}
	}
	m.setFocus(0)
	m.resizeForTerm(termW, termH)
	return m
}

func newPromptInput(prompt, placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Prompt = prompt
	ti.Placeholder = placeholder
	return ti
}

func (m *promptModal) resizeForTerm(termW, termH int) {
	if termW <= 0 || termH <= 0 {
		termW, termH = 80, 24
	}
	w := int(float64(termW) * 0.6)
	if termW < 80 {
		w = termW - 4
	}
	w = min(max(w, 36), 80)
	m.box = lipglossv2.NewStyle().
		Width(w).
		Padding(m.padY, m.padX).
		Border(lipglossv2.RoundedBorder()).
		BorderForeground(lipglossv2.Color("63"))

	innerW := max(12, w-2-m.padX*2)
	for i := range m.inputs {
		m.inputs[i].Width = max(12, innerW-lipgloss.Width(m.inputs[i].Prompt)-1)
	}
}

func (m *promptModal) setFocus(idx int) {
	m.focus = idx
	for i := range m.inputs {
		if i == idx {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
}

func (m *promptModal) values() []string {
	out := make([]string, len(m.inputs))
	for i, in := range m.inputs {
		out[i] = strings.TrimSpace(in.Value())
	}
	return out
}

func (m *promptModal) update(msg tea.Msg) (promptOutcome, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "esc", "ctrl+q":
			return promptCancelled, nil
		case "enter":
			if m.focus < len(m.inputs)-1 {
				m.setFocus(m.focus + 1)
				return promptOpen, nil
			}
			return promptSubmitted, nil
		case "tab", "down":
			m.setFocus((m.focus + 1) % len(m.inputs))
			return promptOpen, nil
		case "shift+tab", "up":
			m.setFocus((m.focus + len(m.inputs) - 1) % len(m.inputs))
			return promptOpen, nil
		}
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return promptOpen, cmd
}

func (m *promptModal) View() string {
	title := "Insert image"
	if m.kind == promptLink {
		title = "Insert link"
	}
	lines := []string{lipgloss.NewStyle().Bold(true).Render(title), ""}
	for _, in := range m.inputs {
		lines = append(lines, in.View())
	}
	lines = append(lines, "", lipgloss.NewStyle().Faint(true).Render("enter=insert • esc=cancel • tab=next"))
	return m.box.Render(strings.Join(lines, "\n"))
}
