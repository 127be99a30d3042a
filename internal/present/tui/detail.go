package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mithrel/scholia/internal/present/format"
	"github.com/mithrel/scholia/pkg/api"
)

// detailScreen shows one article. It stays in the loading state until a
// response for the current id arrives.
type detailScreen struct {
	env     *env
	req     inflight
	id      int
	spin    spinner.Model
	vp      viewport.Model
	article *api.ArticleDetail
}

func newDetailScreen(e *env, id int) *detailScreen {
	s := &detailScreen{env: e, id: id}
	s.spin = spinner.New(spinner.WithSpinner(spinner.Dot))
	s.vp = viewport.New(80, 20)
	s.resize()
	return s
}

func (s *detailScreen) Init() tea.Cmd { return s.fetch() }

func (s *detailScreen) fetch() tea.Cmd {
	ctx, seq := s.req.begin(s.env.ctx)
	return tea.Batch(detailCmd(ctx, s.env.api, s.id, seq), s.spin.Tick)
}

// setID switches to another article, cancelling the outstanding fetch.
func (s *detailScreen) setID(id int) tea.Cmd {
	if id == s.id && (s.article != nil || s.req.pending()) {
		return nil
	}
	s.id = id
	s.article = nil
	s.vp.SetContent("")
	return s.fetch()
}

func (s *detailScreen) loading() bool { return s.article == nil }

func (s *detailScreen) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case detailResultMsg:
		if !s.req.done(msg.seq) || msg.id != s.id {
			return nil
		}
		if msg.err != nil {
			s.env.log.Printf("tui: fetching article %d failed: %v", msg.id, msg.err)
			return nil
		}
		a := msg.article
		s.article = &a
		s.vp.SetContent(s.render())
		s.vp.GotoTop()
		return nil
	case spinner.TickMsg:
		if !s.loading() {
			return nil
		}
		var cmd tea.Cmd
		s.spin, cmd = s.spin.Update(msg)
		return cmd
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "backspace", "h", "left":
			return navigate(Route{Kind: ListingRoute})
		case "r":
			s.article = nil
			return s.fetch()
		}
	}
	var cmd tea.Cmd
	s.vp, cmd = s.vp.Update(msg)
	return cmd
}

// render draws the metadata card through glamour and the body paragraphs as
// received, wrapped to the viewport.
func (s *detailScreen) render() string {
	if s.article == nil {
		return ""
	}
	opts := s.env.render
	opts.WordWrap = max(20, s.vp.Width-2)
	head, err := format.Markdown(format.ArticleHeader(*s.article), opts)
	if err != nil {
		s.env.log.Printf("tui: rendering header: %v", err)
		head = s.article.Title + "\n\n"
	}
	para := lipgloss.NewStyle().Width(max(20, s.vp.Width-4)).MarginLeft(2)
	var b strings.Builder
	b.WriteString(head)
	for _, p := range format.Paragraphs(s.article.Content) {
		b.WriteString(para.Render(p) + "\n\n")
	}
	return b.String()
}

func (s *detailScreen) capturesKeys() bool { return false }

func (s *detailScreen) teardown() { s.req.stop() }

func (s *detailScreen) resize() {
	w, h := s.env.width, s.env.height
	if w <= 0 || h <= 0 {
		return
	}
	s.vp.Width = w
	s.vp.Height = max(3, h-1)
	if s.article != nil {
		s.vp.SetContent(s.render())
	}
}

func (s *detailScreen) View() string {
	if s.loading() {
		return fmt.Sprintf("%s Loading article %d…\n", s.spin.View(), s.id)
	}
	footer := lipgloss.NewStyle().Faint(true).Render(
		fmt.Sprintf("↑/↓ scroll • esc=back • r=reload • q=exit   %3.f%%", s.vp.ScrollPercent()*100))
	return s.vp.View() + "\n" + footer
}
