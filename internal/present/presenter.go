package present

import (
	"errors"
	"io"

	"github.com/mithrel/scholia/internal/present/format"
	"github.com/mithrel/scholia/pkg/api"
)

type Mode int

const (
	ModePlain Mode = iota
	ModePretty
	ModeJSON
	ModeNDJSON
	ModeTUI
)

// ErrInteractive is returned for ModeTUI; the caller must start the TUI itself.
var ErrInteractive = errors.New("tui mode is rendered interactively")

type Options struct {
	Mode       Mode
	JSONIndent bool
	Headers    bool
	Render     format.RenderOptions
}

// ParseMode parses a string like "plain", "pretty", "json", "ndjson", "tui".
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "plain":
		return ModePlain, true
	case "pretty":
		return ModePretty, true
	case "json":
		return ModeJSON, true
	case "ndjson":
		return ModeNDJSON, true
	case "tui":
		return ModeTUI, true
	default:
		return ModeTUI, false
	}
}

func (m Mode) String() string {
	return [...]string{"plain", "pretty", "json", "ndjson", "tui"}[m]
}

// RenderArticles renders a listing according to options.
func RenderArticles(w io.Writer, articles []api.ArticleSummary, opts Options) error {
	switch opts.Mode {
	case ModeJSON:
		if articles == nil {
			articles = []api.ArticleSummary{}
		}
		return format.WriteJSON(w, articles, opts.JSONIndent)
	case ModeNDJSON:
		return format.WriteNDJSONArticles(w, articles)
	case ModePretty:
		return format.WritePrettyArticles(w, articles, opts.Render)
	case ModeTUI:
		return ErrInteractive
	default:
		return format.WritePlainArticles(w, articles, opts.Headers)
	}
}

// RenderArticle renders a single article according to options.
func RenderArticle(w io.Writer, d api.ArticleDetail, opts Options) error {
	switch opts.Mode {
	case ModeJSON, ModeNDJSON:
		return format.WriteJSON(w, d, opts.JSONIndent && opts.Mode == ModeJSON)
	case ModePretty:
		return format.WritePrettyArticle(w, d, opts.Render)
	case ModeTUI:
		return ErrInteractive
	default:
		return format.WritePlainArticle(w, d, opts.Headers)
	}
}
