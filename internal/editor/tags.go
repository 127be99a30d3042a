package editor

import "strings"

// TagList is the ordered tag list of a draft. Duplicates are allowed.
type TagList struct {
	items []string
}

// NewTagList seeds a list, committing each value with the usual trimming.
func NewTagList(tags ...string) *TagList {
	l := &TagList{}
	for _, t := range tags {
		l.Commit(t)
	}
	return l
}

// Commit appends the trimmed input when it is non-empty and reports whether
// a tag was added. Callers clear their input field afterwards.
func (l *TagList) Commit(input string) bool {
	t := strings.TrimSpace(input)
	if t == "" {
		return false
	}
	l.items = append(l.items, t)
	return true
}

// Remove deletes the tag at position i. Out-of-range positions are ignored.
func (l *TagList) Remove(i int) bool {
	if i < 0 || i >= len(l.items) {
		return false
	}
	l.items = append(l.items[:i:i], l.items[i+1:]...)
	return true
}

// Items returns a copy of the tags in order.
func (l *TagList) Items() []string {
	return append([]string(nil), l.items...)
}

// Len returns the number of tags.
func (l *TagList) Len() int { return len(l.items) }
