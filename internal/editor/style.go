package editor

import "strings"

// Style is an inline markdown style applied to a selection.
type Style int

const (
	Bold Style = iota + 1
	Italic
	Underline
	Strikethrough
	Code
	Heading1
	Heading2
)

var styleNames = map[Style]string{
	Bold:          "bold",
	Italic:        "italic",
	Underline:     "underline",
	Strikethrough: "strikethrough",
	Code:          "code",
	Heading1:      "h1",
	Heading2:      "h2",
}

func (s Style) String() string {
	if n, ok := styleNames[s]; ok {
		return n
	}
	return "unknown"
}

// ParseStyle maps a style name ("bold", "h1", ...) to a Style.
func ParseStyle(name string) (Style, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for s, n := range styleNames {
		if n == name {
			return s, true
		}
	}
	switch name {
	case "heading-1", "heading1":
		return Heading1, true
	case "heading-2", "heading2":
		return Heading2, true
	case "strike":
		return Strikethrough, true
	}
	return 0, false
}

// Fragment wraps or prefixes selected with the markup for s.
func (s Style) Fragment(selected string) (string, bool) {
	switch s {
	case Bold:
		return "**" + selected + "**", true
	case Italic:
		return "*" + selected + "*", true
	case Underline:
		return "<u>" + selected + "</u>", true
	case Strikethrough:
		return "~~" + selected + "~~", true
	case Code:
		return "`" + selected + "`", true
	case Heading1:
		return "# " + selected, true
	case Heading2:
		return "## " + selected, true
	default:
		return "", false
	}
}

// Apply splices the styled selection back into text. The returned selection
// covers exactly the inserted fragment. Unknown styles return the input unchanged.
func Apply(text string, sel Selection, s Style) (string, Selection, bool) {
	rs := []rune(text)
	sel = sel.clamp(len(rs))
	frag, ok := s.Fragment(string(rs[sel.Start:sel.End]))
	if !ok {
		return text, sel, false
	}
	fr := []rune(frag)
	out := make([]rune, 0, len(rs)-sel.Len()+len(fr))
	out = append(out, rs[:sel.Start]...)
	out = append(out, fr...)
	out = append(out, rs[sel.End:]...)
	return string(out), Selection{Start: sel.Start, End: sel.Start + len(fr)}, true
}

// ImageMarkdown is the fragment inserted for an image URL.
func ImageMarkdown(url string) string {
	return "\n![Image Description](" + url + ")\n"
}

// LinkMarkdown is the fragment inserted for a link.
func LinkMarkdown(text, url string) string {
	return "[" + text + "](" + url + ")"
}

// ApplyStyle styles the current selection. A nil buffer is a no-op.
func (b *Buffer) ApplyStyle(s Style) bool {
	if b == nil {
		return false
	}
	text, sel, ok := Apply(string(b.text), b.Selection(), s)
	if !ok {
		return false
	}
	b.text = []rune(text)
	b.anchor, b.caret = sel.Start, sel.End
	return true
}

// InsertImage splices an image fragment at the start of the selection.
// An empty url (cancelled prompt) or nil buffer is a no-op.
func (b *Buffer) InsertImage(url string) bool {
	if b == nil || url == "" {
		return false
	}
	b.insertAtCaret(ImageMarkdown(url))
	return true
}

// InsertLink splices a link fragment at the start of the selection.
// Both text and url are required.
func (b *Buffer) InsertLink(text, url string) bool {
	if b == nil || text == "" || url == "" {
		return false
	}
	b.insertAtCaret(LinkMarkdown(text, url))
	return true
}

// insertAtCaret inserts s at the selection start and leaves the selection
// end unused; the caret lands after the inserted text.
func (b *Buffer) insertAtCaret(s string) {
	at := b.Selection().Start
	ins := []rune(s)
	out := make([]rune, 0, len(b.text)+len(ins))
	out = append(out, b.text[:at]...)
	out = append(out, ins...)
	out = append(out, b.text[at:]...)
	b.text = out
	b.anchor = at + len(ins)
	b.caret = b.anchor
}
