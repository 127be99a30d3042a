package tui

import (
	"context"
	"errors"
	"io"
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mithrel/scholia/internal/present/format"
)

// Options configures Run.
type Options struct {
	API       ArticleAPI
	Log       *log.Logger
	Start     Route
	// Query pre-fills the listing search.
	Query     string
	AltScreen bool
	Headers   bool
	Render    format.RenderOptions
	// ProgramOptions are appended to the defaults; tests use them to drive the program headless.
	ProgramOptions []tea.ProgramOption
}

// env is shared by every screen of one program.
type env struct {
	ctx     context.Context
	api     ArticleAPI
	log     *log.Logger
	headers bool
	render  format.RenderOptions
	// query seeds the first listing screen only.
	query string
	// tags seen in the last successful listing fetch; feeds tag suggestions.
	tags   []string
	width  int
	height int
}

// screen is one routed page. Screens are pointers mutated in place.
type screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) tea.Cmd
	View() string
	resize()
	// capturesKeys reports whether a text field has focus, so single-key
	// shortcuts like "q" must be passed through.
	capturesKeys() bool
	// teardown cancels any in-flight request owned by the screen.
	teardown()
}

type model struct {
	env     *env
	route   Route
	current screen
}

// Run starts the TUI at opts.Start and blocks until the user quits.
func Run(ctx context.Context, opts Options) error {
	m := newModel(ctx, opts)
	progOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if opts.AltScreen {
		progOpts = append(progOpts, tea.WithAltScreen())
	}
	progOpts = append(progOpts, opts.ProgramOptions...)

	final, err := tea.NewProgram(m, progOpts...).Run()
	if fm, ok := final.(model); ok && fm.current != nil {
		fm.current.teardown()
	}
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

func newModel(ctx context.Context, opts Options) model {
	logger := opts.Log
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	e := &env{
		ctx:     ctx,
		api:     opts.API,
		log:     logger,
		headers: opts.Headers,
		render:  opts.Render,
		query:   opts.Query,
		width:   80,
		height:  24,
	}
	m := model{env: e, route: opts.Start}
	m.current = m.screenFor(opts.Start)
	return m
}

func (m model) screenFor(r Route) screen {
	switch r.Kind {
	case DetailRoute:
		return newDetailScreen(m.env, r.ID)
	case AuthRoute:
		return newAuthScreen(m.env)
	case UploadRoute:
		return newUploadScreen(m.env)
	default:
		return newListingScreen(m.env)
	}
}

func (m model) Init() tea.Cmd { return m.current.Init() }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.env.width, m.env.height = msg.Width, msg.Height
		m.current.resize()
		return m, nil
	case navigateMsg:
		return m.navigate(msg.route)
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.current.teardown()
			return m, tea.Quit
		case "q":
			if !m.current.capturesKeys() {
				m.current.teardown()
				return m, tea.Quit
			}
		}
	}
	return m, m.current.Update(msg)
}

func (m model) navigate(r Route) (tea.Model, tea.Cmd) {
	// Same detail screen, new id: re-fetch in place.
	if d, ok := m.current.(*detailScreen); ok && r.Kind == DetailRoute {
		m.route = r
		return m, d.setID(r.ID)
	}
	if r == m.route {
		return m, nil
	}
	m.current.teardown()
	m.env.log.Printf("tui: route %s -> %s", m.route, r)
	m.route = r
	m.current = m.screenFor(r)
	m.current.resize()
	return m, m.current.Init()
}

func (m model) View() string { return m.current.View() }
