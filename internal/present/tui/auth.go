package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// authScreen is the /auth placeholder. Credentials are managed from the CLI.
type authScreen struct {
	env *env
}

func newAuthScreen(e *env) *authScreen { return &authScreen{env: e} }

func (s *authScreen) Init() tea.Cmd { return nil }

func (s *authScreen) Update(msg tea.Msg) tea.Cmd {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "esc", "enter", "backspace":
			return navigate(Route{Kind: ListingRoute})
		}
	}
	return nil
}

func (s *authScreen) View() string {
	title := lipgloss.NewStyle().Bold(true).Render("Sign in")
	body := "Sign-in is not available here yet.\n" +
		"Store a publishing token with `scholia-cli auth login`."
	help := lipgloss.NewStyle().Faint(true).Render("esc=back • q=exit")
	return title + "\n\n" + body + "\n\n" + help + "\n"
}

func (s *authScreen) resize()            {}
func (s *authScreen) capturesKeys() bool { return false }
func (s *authScreen) teardown()          {}
