package tui

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mithrel/scholia/internal/editor"
	"github.com/mithrel/scholia/internal/util"
	"github.com/mithrel/scholia/pkg/api"
)

// Field order follows the form top to bottom.
const (
	fieldAuthor = iota
	fieldTitle
	fieldInstitution
	fieldAbstract
	fieldTags
	fieldImage
	fieldBody
	fieldCount
)

const maxTagSuggestions = 5

var (
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	focusedLabel  = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true)
	tagStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("25")).Background(lipgloss.Color("153")).Padding(0, 1)
	tagCursorMark = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("160")).Padding(0, 1)
	toolbarStyle  = lipgloss.NewStyle().Faint(true)
)

// uploadScreen composes a draft and publishes it.
type uploadScreen struct {
	env     *env
	req     inflight
	inputs  [fieldBody]textinput.Model
	tags    *editor.TagList
	// tagCursor selects a committed tag for removal; -1 when none.
	tagCursor int
	body      *bodyField
	focus     int
	spin      spinner.Model
	prompt    *promptModal
	preview   *previewModal
	message   *messageModal
	status    string
}

func newUploadScreen(e *env) *uploadScreen {
	s := &uploadScreen{env: e, tags: editor.NewTagList(), tagCursor: -1, body: newBodyField()}
	labels := [fieldBody][2]string{
		fieldAuthor:      {"Author", "Enter author name"},
		fieldTitle:       {"Title", "Enter article title"},
		fieldInstitution: {"Institution", "Enter institution name"},
		fieldAbstract:    {"Abstract", "Enter article abstract"},
		fieldTags:        {"Tags", "Add tags (press Enter)"},
		fieldImage:       {"Image", "path/to/image.png (optional)"},
	}
	for i, l := range labels {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = l[1]
		s.inputs[i] = ti
	}
	s.spin = spinner.New(spinner.WithSpinner(spinner.Dot))
	s.setFocus(fieldAuthor)
	s.resize()
	return s
}

func (s *uploadScreen) Init() tea.Cmd { return textinput.Blink }

func (s *uploadScreen) setFocus(idx int) tea.Cmd {
	s.focus = idx
	s.tagCursor = -1
	s.body.focused = idx == fieldBody
	var cmd tea.Cmd
	for i := range s.inputs {
		if i == idx {
			cmd = s.inputs[i].Focus()
		} else {
			s.inputs[i].Blur()
		}
	}
	return cmd
}

// draft collects the form. The image is read from disk at publish time.
func (s *uploadScreen) draft() api.Draft {
	return api.Draft{
		Title:       s.inputs[fieldTitle].Value(),
		Author:      s.inputs[fieldAuthor].Value(),
		Institution: s.inputs[fieldInstitution].Value(),
		Abstract:    s.inputs[fieldAbstract].Value(),
		Tags:        s.tags.Items(),
		Content:     s.body.Value(),
	}
}

func (s *uploadScreen) publish() tea.Cmd {
	if s.req.pending() {
		return nil
	}
	d := s.draft()
	if path := strings.TrimSpace(s.inputs[fieldImage].Value()); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			s.env.log.Printf("tui: reading image %s: %v", path, err)
			s.status = "Cannot read image file"
			return nil
		}
		d.Image = &api.Attachment{Name: filepath.Base(path), Data: data}
	}
	ctx, seq := s.req.begin(s.env.ctx)
	s.status = ""
	return tea.Batch(publishCmd(ctx, s.env.api, d, seq), s.spin.Tick)
}

// suggestions ranks known tags against the tag input.
func (s *uploadScreen) suggestions() []string {
	in := strings.TrimSpace(s.inputs[fieldTags].Value())
	if in == "" || len(s.env.tags) == 0 {
		return nil
	}
	return util.ScoreCompletions(in, s.env.tags, maxTagSuggestions)
}

func (s *uploadScreen) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case publishResultMsg:
		if !s.req.done(msg.seq) {
			return nil
		}
		if msg.err != nil {
			s.env.log.Printf("tui: publishing article failed: %v", msg.err)
			return nil
		}
		s.env.log.Printf("tui: article published in %s: %s", msg.dur, string(msg.resp))
		s.message = newMessageModal("Post published!")
		return nil
	case spinner.TickMsg:
		if !s.req.pending() {
			return nil
		}
		var cmd tea.Cmd
		s.spin, cmd = s.spin.Update(msg)
		return cmd
	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	if s.prompt != nil {
		_, cmd := s.prompt.update(msg)
		return cmd
	}
	if s.focus < fieldBody {
		var cmd tea.Cmd
		s.inputs[s.focus], cmd = s.inputs[s.focus].Update(msg)
		return cmd
	}
	return nil
}

func (s *uploadScreen) handleKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()

	// Modals are blocking: they get every key until closed.
	switch {
	case s.message != nil:
		if key == "enter" || key == "esc" || key == " " {
			s.message = nil
		}
		return nil
	case s.prompt != nil:
		outcome, cmd := s.prompt.update(msg)
		switch outcome {
		case promptSubmitted:
			vals := s.prompt.values()
			if s.prompt.kind == promptLink {
				s.body.buf.InsertLink(vals[0], vals[1])
			} else {
				s.body.buf.InsertImage(vals[0])
			}
			s.body.scrollToCaret()
			s.prompt = nil
		case promptCancelled:
			s.prompt = nil
		}
		return cmd
	case s.preview != nil:
		switch key {
		case "esc", "alt+p", "enter":
			s.preview = nil
			return nil
		}
		return s.preview.update(msg)
	}

	switch key {
	case "esc":
		return navigate(Route{Kind: ListingRoute})
	case "ctrl+s":
		return s.publish()
	case "alt+p":
		s.preview = newPreviewModal(s.draft(), s.env.render, s.env.width, s.env.height)
		return nil
	case "tab":
		return s.setFocus((s.focus + 1) % fieldCount)
	case "shift+tab":
		return s.setFocus((s.focus + fieldCount - 1) % fieldCount)
	}

	switch s.focus {
	case fieldBody:
		switch s.body.Update(msg) {
		case bodyPromptLink:
			s.prompt = newPromptModal(promptLink, s.env.width, s.env.height)
		case bodyPromptImage:
			s.prompt = newPromptModal(promptImage, s.env.width, s.env.height)
		}
		return nil
	case fieldTags:
		if cmd, handled := s.handleTagKey(key); handled {
			return cmd
		}
	default:
		if key == "enter" || key == "down" {
			return s.setFocus(s.focus + 1)
		}
		if key == "up" && s.focus > 0 {
			return s.setFocus(s.focus - 1)
		}
	}
	var cmd tea.Cmd
	s.inputs[s.focus], cmd = s.inputs[s.focus].Update(msg)
	return cmd
}

// handleTagKey implements the chip list: enter commits the input, and with
// an empty input left/right pick a tag that delete/backspace removes.
func (s *uploadScreen) handleTagKey(key string) (tea.Cmd, bool) {
	in := &s.inputs[fieldTags]
	switch key {
	case "enter":
		if s.tags.Commit(in.Value()) {
			in.SetValue("")
		}
		s.tagCursor = -1
		return nil, true
	case "ctrl+n":
		if sug := s.suggestions(); len(sug) > 0 {
			in.SetValue(sug[0])
			in.CursorEnd()
		}
		return nil, true
	}
	if in.Value() != "" || s.tags.Len() == 0 {
		s.tagCursor = -1
		return nil, false
	}
	switch key {
	case "left":
		if s.tagCursor < 0 {
			s.tagCursor = s.tags.Len() - 1
		} else if s.tagCursor > 0 {
			s.tagCursor--
		}
		return nil, true
	case "right":
		if s.tagCursor >= 0 {
			s.tagCursor++
			if s.tagCursor >= s.tags.Len() {
				s.tagCursor = -1
			}
		}
		return nil, true
	case "backspace", "delete":
		idx := s.tagCursor
		if idx < 0 {
			idx = s.tags.Len() - 1
		}
		s.tags.Remove(idx)
		if s.tagCursor >= s.tags.Len() {
			s.tagCursor = s.tags.Len() - 1
		}
		return nil, true
	}
	return nil, false
}

func (s *uploadScreen) capturesKeys() bool { return true }

func (s *uploadScreen) teardown() { s.req.stop() }

func (s *uploadScreen) resize() {
	w, h := s.env.width, s.env.height
	if w <= 0 || h <= 0 {
		return
	}
	labelW := 13
	for i := range s.inputs {
		s.inputs[i].Width = max(10, w-labelW-2)
	}
	// six single-line fields, tag chips, suggestions, toolbar, borders and footer
	s.body.setSize(w-2, h-14)
	if s.prompt != nil {
		s.prompt.resizeForTerm(w, h)
	}
	if s.preview != nil {
		s.preview.resizeForTerm(w, h)
	}
}

func (s *uploadScreen) label(idx int, text string) string {
	st := labelStyle
	if s.focus == idx {
		st = focusedLabel
	}
	return st.Width(13).Render(text)
}

func (s *uploadScreen) renderTags() string {
	chips := make([]string, 0, s.tags.Len())
	for i, t := range s.tags.Items() {
		st := tagStyle
		if i == s.tagCursor {
			st = tagCursorMark
		}
		chips = append(chips, st.Render(t+" ×"))
	}
	return strings.Join(chips, " ")
}

func (s *uploadScreen) View() string {
	var b strings.Builder
	names := [fieldBody]string{"Author", "Title", "Institution", "Abstract", "Tags", "Image"}
	for i := 0; i < fieldBody; i++ {
		b.WriteString(s.label(i, names[i]) + s.inputs[i].View() + "\n")
		if i == fieldTags {
			b.WriteString(strings.Repeat(" ", 13) + s.renderTags() + "\n")
			if sug := s.suggestions(); len(sug) > 0 && s.focus == fieldTags {
				b.WriteString(strings.Repeat(" ", 13) + toolbarStyle.Render("ctrl+n: "+strings.Join(sug, " · ")) + "\n")
			} else {
				b.WriteString("\n")
			}
		}
	}
	b.WriteString(toolbarStyle.Render("alt+ b bold · i italic · u underline · s strike · 1 h1 · 2 h2 · g image · l link · c code") + "\n")

	border := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
	if s.focus == fieldBody {
		border = border.BorderForeground(lipgloss.Color("63"))
	}
	b.WriteString(border.Render(s.body.View()) + "\n")

	footer := "tab=next field • shift+arrows select • alt+p preview • ctrl+s publish • esc=back"
	if s.req.pending() {
		footer = s.spin.View() + " Publishing…"
	} else if s.status != "" {
		footer = s.status + " • " + footer
	}
	b.WriteString(toolbarStyle.Render(footer))

	base := b.String()
	switch {
	case s.message != nil:
		return renderOverlay(base, s.message.View(), s.env.width, s.env.height)
	case s.prompt != nil:
		return renderOverlay(base, s.prompt.View(), s.env.width, s.env.height)
	case s.preview != nil:
		return renderOverlay(base, s.preview.View(), s.env.width, s.env.height)
	}
	return base
}
