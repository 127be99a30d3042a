package tui

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	lipglossv2 "github.com/charmbracelet/lipgloss/v2"

	"github.com/mithrel/scholia/internal/present/format"
	"github.com/mithrel/scholia/pkg/api"
)

// previewModal shows the draft rendered through glamour
// inside a scrollable viewport.
type previewModal struct {
	draft   api.Draft
	opts    format.RenderOptions
	vp      viewport.Model
	padX    int
	padY    int
	box     lipglossv2.Style
	content string
}

func newPreviewModal(d api.Draft, opts format.RenderOptions, termW, termH int) *previewModal {
	m := &previewModal{draft: d, opts: opts, padX: 2, padY: 1}
	m.resizeForTerm(termW, termH)
	return m
}

func (m *previewModal) resizeForTerm(termW, termH int) {
	if termW <= 0 || termH <= 0 {
		termW, termH = 80, 24
	}
	// 70% width, or nearly full width if terminal is small (<80 cols)
	w := int(float64(termW) * 0.7)
	if termW < 80 {
		w = termW - 4
	}
	if w < 40 {
		w = max(32, termW-2)
	}
	h := int(float64(termH) * 0.8)
	if termH < 20 {
		h = termH - 2
	}
	if h < 10 {
		h = max(8, termH-1)
	}
	m.box = lipglossv2.NewStyle().
		Width(w).
		Height(h).
		Padding(m.padY, m.padX).
		Border(lipglossv2.RoundedBorder()).
		BorderForeground(lipglossv2.Color("63"))

	innerW := max(10, w-2-m.padX*2) // borders + padding
	innerH := max(5, h-2-m.padY*2)
	if m.vp.Width == 0 {
		m.vp = viewport.New(innerW, innerH)
	} else {
		m.vp.Width = innerW
		m.vp.Height = innerH
	}
	opts := m.opts
	opts.WordWrap = innerW
	out, err := format.DraftPreview(m.draft, opts)
	if err != nil {
		out = err.Error()
	}
	m.content = out
	m.vp.SetContent(m.content)
}

func (m *previewModal) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return cmd
}

func (m *previewModal) View() string { return m.box.Render(m.vp.View()) }
