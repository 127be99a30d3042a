package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mithrel/scholia/internal/editor"
)

// bodyAction is a request from the body field its owner must fulfil.
type bodyAction int

const (
	bodyNone bodyAction = iota
	bodyPromptLink
	bodyPromptImage
)

var styleKeys = map[string]editor.Style{
	"alt+b": editor.Bold,
	"alt+i": editor.Italic,
	"alt+u": editor.Underline,
	"alt+s": editor.Strikethrough,
	"alt+c": editor.Code,
	"alt+1": editor.Heading1,
	"alt+2": editor.Heading2,
}

var (
	selectionStyle   = lipgloss.NewStyle().Background(lipgloss.Color("57")).Foreground(lipgloss.Color("229"))
	caretStyle       = lipgloss.NewStyle().Reverse(true)
	placeholderStyle = lipgloss.NewStyle().Faint(true)
)

// bodyField is a multi-line text field with a real selection, so styling
// can wrap exactly the selected text.
type bodyField struct {
	buf     *editor.Buffer
	width   int
	height  int
	top     int
	focused bool
}

func newBodyField() *bodyField {
	return &bodyField{buf: editor.NewBuffer(""), width: 60, height: 10}
}

func (b *bodyField) Value() string { return b.buf.String() }

func (b *bodyField) Update(msg tea.KeyMsg) bodyAction {
	key := msg.String()
	if s, ok := styleKeys[key]; ok {
		b.buf.ApplyStyle(s)
		return bodyNone
	}
	switch key {
	case "alt+l":
		return bodyPromptLink
	case "alt+g":
		return bodyPromptImage
	case "enter":
		b.buf.Insert("\n")
	case "backspace", "ctrl+h":
		b.buf.DeleteBackward()
	case "delete", "ctrl+d":
		b.buf.DeleteForward()
	case "left":
		b.buf.Left(false)
	case "right":
		b.buf.Right(false)
	case "up":
		b.buf.Up(false)
	case "down":
		b.buf.Down(false)
	case "shift+left":
		b.buf.Left(true)
	case "shift+right":
		b.buf.Right(true)
	case "shift+up":
		b.buf.Up(true)
	case "shift+down":
		b.buf.Down(true)
	case "home", "ctrl+a":
		b.buf.Home(false)
	case "end", "ctrl+e":
		b.buf.End(false)
	case "shift+home":
		b.buf.Home(true)
	case "shift+end":
		b.buf.End(true)
	case "ctrl+l":
		b.buf.Select(0, b.buf.Len())
	default:
		if (msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace) && !msg.Alt {
			b.buf.Insert(string(msg.Runes))
		}
	}
	b.scrollToCaret()
	return bodyNone
}

func (b *bodyField) scrollToCaret() {
	line, _ := b.buf.LineCol(b.buf.Caret())
	if line < b.top {
		b.top = line
	}
	if line >= b.top+b.height {
		b.top = line - b.height + 1
	}
}

func (b *bodyField) setSize(w, h int) {
	b.width, b.height = max(10, w), max(3, h)
	b.scrollToCaret()
}

// View renders the visible lines with the selection highlighted and the caret shown.
func (b *bodyField) View() string {
	if b.buf.Len() == 0 && !b.focused {
		return placeholderStyle.Render("Write your article here...")
	}
	sel := b.buf.Selection()
	caret := b.buf.Caret()
	lines := b.buf.Lines()

	out := make([]string, 0, b.height)
	off := 0
	for i, line := range lines {
		runes := []rune(line)
		if i >= b.top && i < b.top+b.height {
			out = append(out, b.renderLine(runes, off, sel, caret))
		}
		off += len(runes) + 1
	}
	for len(out) < b.height {
		out = append(out, "")
	}
	return strings.Join(out, "\n")
}

// renderLine groups runs of runes sharing a highlight state to keep
// the number of style renders small.
func (b *bodyField) renderLine(runes []rune, off int, sel editor.Selection, caret int) string {
	const (
		plain = iota
		selected
		atCaret
	)
	state := func(pos int) int {
		switch {
		case b.focused && pos == caret && sel.Empty():
			return atCaret
		case pos >= sel.Start && pos < sel.End:
			return selected
		default:
			return plain
		}
	}
	var sb strings.Builder
	flush := func(run []rune, st int) {
		if len(run) == 0 {
			return
		}
		switch st {
		case selected:
			sb.WriteString(selectionStyle.Render(string(run)))
		case atCaret:
			sb.WriteString(caretStyle.Render(string(run)))
		default:
			sb.WriteString(string(run))
		}
	}
	start, cur := 0, -1
	for i := range runes {
		st := state(off + i)
		if i == 0 {
			cur = st
			continue
		}
		if st != cur {
			flush(runes[start:i], cur)
			start, cur = i, st
		}
	}
	if len(runes) > 0 {
		flush(runes[start:], cur)
	}
	if b.focused && caret == off+len(runes) && sel.Empty() {
		sb.WriteString(caretStyle.Render(" "))
	}
	return sb.String()
}
