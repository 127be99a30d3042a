package editor

import "strings"

// Selection is a span of rune offsets with Start <= End.
type Selection struct {
	Start int
	End   int
}

// Len returns the number of selected runes.
func (s Selection) Len() int { return s.End - s.Start }

// Empty reports whether the selection is a bare caret.
func (s Selection) Empty() bool { return s.Start == s.End }

func (s Selection) clamp(n int) Selection {
	if s.Start > s.End {
		s.Start, s.End = s.End, s.Start
	}
	s.Start = clampInt(s.Start, 0, n)
	s.End = clampInt(s.End, 0, n)
	return s
}

// Buffer is an editable body text with an anchor/caret selection.
// Offsets count runes.
type Buffer struct {
	text   []rune
	anchor int
	caret  int
}

// NewBuffer returns a buffer holding s with the caret at the end.
func NewBuffer(s string) *Buffer {
	b := &Buffer{text: []rune(s)}
	b.anchor = len(b.text)
	b.caret = b.anchor
	return b
}

func (b *Buffer) String() string { return string(b.text) }

// Len returns the buffer length in runes.
func (b *Buffer) Len() int { return len(b.text) }

// Caret returns the moving end of the selection.
func (b *Buffer) Caret() int { return b.caret }

// Selection returns the normalised selection.
func (b *Buffer) Selection() Selection {
	return Selection{Start: b.anchor, End: b.caret}.clamp(len(b.text))
}

// Selected returns the selected text.
func (b *Buffer) Selected() string {
	s := b.Selection()
	return string(b.text[s.Start:s.End])
}

// Select sets the selection, clamping to the buffer.
func (b *Buffer) Select(start, end int) {
	s := Selection{Start: start, End: end}.clamp(len(b.text))
	b.anchor, b.caret = s.Start, s.End
}

// SetText replaces the whole buffer and puts the caret at the end.
func (b *Buffer) SetText(s string) {
	b.text = []rune(s)
	b.anchor = len(b.text)
	b.caret = b.anchor
}

// MoveTo places the caret at pos. With extend the anchor stays put.
func (b *Buffer) MoveTo(pos int, extend bool) {
	b.caret = clampInt(pos, 0, len(b.text))
	if !extend {
		b.anchor = b.caret
	}
}

// Insert replaces the selection with s.
func (b *Buffer) Insert(s string) {
	sel := b.Selection()
	ins := []rune(s)
	out := make([]rune, 0, len(b.text)-sel.Len()+len(ins))
	out = append(out, b.text[:sel.Start]...)
	out = append(out, ins...)
	out = append(out, b.text[sel.End:]...)
	b.text = out
	b.caret = sel.Start + len(ins)
	b.anchor = b.caret
}

// DeleteBackward removes the selection, or the rune before the caret.
func (b *Buffer) DeleteBackward() {
	if sel := b.Selection(); !sel.Empty() {
		b.Insert("")
		return
	}
	if b.caret == 0 {
		return
	}
	b.Select(b.caret-1, b.caret)
	b.Insert("")
}

// DeleteForward removes the selection, or the rune after the caret.
func (b *Buffer) DeleteForward() {
	if sel := b.Selection(); !sel.Empty() {
		b.Insert("")
		return
	}
	if b.caret >= len(b.text) {
		return
	}
	b.Select(b.caret, b.caret+1)
	b.Insert("")
}

// Left moves the caret one rune back.
func (b *Buffer) Left(extend bool) {
	if !extend {
		if sel := b.Selection(); !sel.Empty() {
			b.MoveTo(sel.Start, false)
			return
		}
	}
	b.MoveTo(b.caret-1, extend)
}

// Right moves the caret one rune forward.
func (b *Buffer) Right(extend bool) {
	if !extend {
		if sel := b.Selection(); !sel.Empty() {
			b.MoveTo(sel.End, false)
			return
		}
	}
	b.MoveTo(b.caret+1, extend)
}

// Up moves the caret to the same column on the previous line.
func (b *Buffer) Up(extend bool) {
	line, col := b.LineCol(b.caret)
	if line == 0 {
		b.MoveTo(0, extend)
		return
	}
	b.MoveTo(b.Offset(line-1, col), extend)
}

// Down moves the caret to the same column on the next line.
func (b *Buffer) Down(extend bool) {
	line, col := b.LineCol(b.caret)
	if line >= len(b.Lines())-1 {
		b.MoveTo(len(b.text), extend)
		return
	}
	b.MoveTo(b.Offset(line+1, col), extend)
}

// Home moves the caret to the start of its line.
func (b *Buffer) Home(extend bool) {
	line, _ := b.LineCol(b.caret)
	b.MoveTo(b.Offset(line, 0), extend)
}

// End moves the caret to the end of its line.
func (b *Buffer) End(extend bool) {
	line, _ := b.LineCol(b.caret)
	b.MoveTo(b.Offset(line, len(b.text)), extend)
}

// Lines splits the buffer on newlines.
func (b *Buffer) Lines() []string {
	return strings.Split(string(b.text), "\n")
}

// LineCol converts a rune offset into a zero-based line and column.
func (b *Buffer) LineCol(pos int) (int, int) {
	pos = clampInt(pos, 0, len(b.text))
	line, col := 0, 0
	for _, r := range b.text[:pos] {
		if r == '\n' {
			line++
			col = 0
			continue
		}
		col++
	}
	return line, col
}

// Offset converts a line and column into a rune offset, clamping the column
// to the line length.
func (b *Buffer) Offset(line, col int) int {
	off := 0
	cur := 0
	for i, r := range b.text {
		if cur == line {
			off = i
			break
		}
		if r == '\n' {
			cur++
			off = i + 1
		}
	}
	if cur < line {
		return len(b.text)
	}
	end := off
	for end < len(b.text) && b.text[end] != '\n' {
		end++
	}
	return clampInt(off+col, off, end)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
