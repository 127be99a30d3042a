package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mithrel/scholia/internal/listing"
	"github.com/mithrel/scholia/pkg/api"
)

// listingScreen browses the fetched collection with a live title/abstract filter.
type listingScreen struct {
	env          *env
	req          inflight
	search       textinput.Model
	table        table.Model
	spin         spinner.Model
	all          []api.ArticleSummary
	shown        []api.ArticleSummary
	loading      bool
	status       string
	lastDuration time.Duration
}

func newListingScreen(e *env) *listingScreen {
	s := &listingScreen{env: e}
	s.search = textinput.New()
	s.search.Prompt = "search: "
	s.search.Placeholder = "title or abstract"
	s.search.SetValue(e.query)
	e.query = ""
	s.spin = spinner.New(spinner.WithSpinner(spinner.Dot))
	s.initTable()
	return s
}

func (s *listingScreen) initTable() {
	cols := s.columnsFor(s.env.headers, 5, 40, 18, 6, 12, 20)
	s.table = table.New(table.WithColumns(cols), table.WithFocused(true))
	s.applyStyles()
	s.resize()
}

func (s *listingScreen) Init() tea.Cmd {
	return s.fetch()
}

func (s *listingScreen) fetch() tea.Cmd {
	ctx, seq := s.req.begin(s.env.ctx)
	s.loading = true
	return tea.Batch(listCmd(ctx, s.env.api, seq), s.spin.Tick)
}

// refresh recomputes the displayed rows from the full collection.
func (s *listingScreen) refresh() {
	s.shown = listing.Display(s.all, s.search.Value())
	rows := make([]table.Row, 0, len(s.shown))
	for _, a := range s.shown {
		rows = append(rows, table.Row{
			strconv.Itoa(a.ID),
			a.Title,
			a.Author,
			strconv.Itoa(a.Likes),
			api.ReadTimeLabel(a.ReadTime),
			strings.Join(a.Tags, ", "),
		})
	}
	s.table.SetRows(rows)
	if s.table.Cursor() >= len(rows) {
		s.table.SetCursor(max(0, len(rows)-1))
	}
}

func (s *listingScreen) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case listResultMsg:
		if !s.req.done(msg.seq) {
			return nil
		}
		s.loading = false
		s.lastDuration = msg.dur
		if msg.err != nil {
			s.env.log.Printf("tui: fetching articles failed: %v", msg.err)
			s.all = nil
			s.status = ""
		} else {
			s.all = msg.articles
			s.env.tags = listing.Tags(msg.articles)
			s.status = "Fetched"
		}
		s.refresh()
		return nil
	case spinner.TickMsg:
		if !s.loading {
			return nil
		}
		var cmd tea.Cmd
		s.spin, cmd = s.spin.Update(msg)
		return cmd
	case tea.KeyMsg:
		if s.search.Focused() {
			switch msg.String() {
			case "esc", "enter":
				s.search.Blur()
				s.table.Focus()
				return nil
			}
			before := s.search.Value()
			var cmd tea.Cmd
			s.search, cmd = s.search.Update(msg)
			if s.search.Value() != before {
				s.refresh()
			}
			return cmd
		}
		switch msg.String() {
		case "/":
			s.table.Blur()
			return s.search.Focus()
		case "enter":
			idx := s.table.Cursor()
			if idx >= 0 && idx < len(s.shown) {
				return navigate(Route{Kind: DetailRoute, ID: s.shown[idx].ID})
			}
			return nil
		case "n":
			return navigate(Route{Kind: UploadRoute})
		case "a":
			return navigate(Route{Kind: AuthRoute})
		case "r":
			return s.fetch()
		case "esc":
			if s.search.Value() != "" {
				s.search.SetValue("")
				s.refresh()
			}
			return nil
		}
	}
	var cmd tea.Cmd
	s.table, cmd = s.table.Update(msg)
	return cmd
}

func (s *listingScreen) capturesKeys() bool { return s.search.Focused() }

func (s *listingScreen) teardown() { s.req.stop() }

func (s *listingScreen) renderFooter() string {
	left := "↑/↓ navigate • / search • enter=open • n=new • r=reload • q=exit"

	var right string
	if s.status != "" {
		if s.lastDuration > 0 {
			right = fmt.Sprintf("%s (%s) • ", s.status, s.lastDuration.Round(time.Millisecond))
		} else {
			right = s.status + " • "
		}
	}
	right += fmt.Sprintf("%d/%d articles ", len(s.shown), len(s.all))

	width := s.table.Width()
	space := width - lipgloss.Width(left) - lipgloss.Width(right)
	if space < 1 {
		space = 1
	}

	return left + strings.Repeat(" ", space) + right
}

func (s *listingScreen) View() string {
	var b strings.Builder
	b.WriteString(s.search.View() + "\n")
	if s.loading && len(s.all) == 0 {
		b.WriteString(s.spin.View() + " Loading articles…\n")
		return b.String()
	}
	if len(s.shown) == 0 {
		b.WriteString("(no articles)\n")
	} else {
		b.WriteString(s.table.View() + "\n")
	}
	b.WriteString(s.renderFooter() + "\n")
	return b.String()
}

func (s *listingScreen) resize() {
	width, height := s.env.width, s.env.height
	if width <= 0 || height <= 0 {
		return
	}
	s.search.Width = max(10, width-lipgloss.Width(s.search.Prompt)-2)
	// search line + footer
	s.table.SetHeight(max(4, height-2))
	s.table.SetWidth(width)
	pad := 12
	avail := width - pad
	if avail < 50 {
		return
	}
	idW, likesW, readW := 5, 6, 12
	rem := avail - idW - likesW - readW
	authorW := rem / 5
	tagsW := rem / 4
	titleW := rem - authorW - tagsW
	if titleW < 10 {
		titleW = 10
	}
	s.table.SetColumns(s.columnsFor(s.env.headers, idW, titleW, authorW, likesW, readW, tagsW))
}

func (s *listingScreen) applyStyles() {
	st := table.DefaultStyles()
	if s.env.headers {
		st.Header = st.Header.
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			BorderBottom(true).
			Bold(true)
	} else {
		st.Header = st.Header.
			BorderBottom(false).
			Bold(false)
	}
	st.Selected = st.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	s.table.SetStyles(st)
}

// columnsFor returns columns with or without titles based on headers flag.
func (s *listingScreen) columnsFor(headers bool, idW, titleW, authorW, likesW, readW, tagsW int) []table.Column {
	cols := []table.Column{
		{Title: "ID", Width: idW},
		{Title: "Title", Width: titleW},
		{Title: "Author", Width: authorW},
		{Title: "♥", Width: likesW},
		{Title: "Read", Width: readW},
		{Title: "Tags", Width: tagsW},
	}
	if !headers {
		for i := range cols {
			cols[i].Title = ""
		}
	}
	return cols
}
