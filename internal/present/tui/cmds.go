package tui

import (
	"context"
	"encoding/json"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mithrel/scholia/pkg/api"
)

// ArticleAPI is the remote collaborator of every screen.
type ArticleAPI interface {
	ListArticles(ctx context.Context) ([]api.ArticleSummary, error)
	GetArticle(ctx context.Context, id int) (api.ArticleDetail, error)
	CreateArticle(ctx context.Context, d api.Draft) (json.RawMessage, error)
}

// listResultMsg conveys the outcome of fetching the collection.
type listResultMsg struct {
	seq      uint64
	articles []api.ArticleSummary
	err      error
	dur      time.Duration
}

// detailResultMsg conveys the outcome of fetching one article.
type detailResultMsg struct {
	seq     uint64
	id      int
	article api.ArticleDetail
	err     error
	dur     time.Duration
}

// publishResultMsg conveys the outcome of the creation request.
type publishResultMsg struct {
	seq  uint64
	resp json.RawMessage
	err  error
	dur  time.Duration
}

// navigateMsg asks the root model to switch screens.
type navigateMsg struct {
	route Route
}

func navigate(r Route) tea.Cmd {
	return func() tea.Msg { return navigateMsg{route: r} }
}

func listCmd(ctx context.Context, c ArticleAPI, seq uint64) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		articles, err := c.ListArticles(ctx)
		return listResultMsg{seq: seq, articles: articles, err: err, dur: time.Since(start)}
	}
}

func detailCmd(ctx context.Context, c ArticleAPI, id int, seq uint64) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		a, err := c.GetArticle(ctx, id)
		return detailResultMsg{seq: seq, id: id, article: a, err: err, dur: time.Since(start)}
	}
}

func publishCmd(ctx context.Context, c ArticleAPI, d api.Draft, seq uint64) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		resp, err := c.CreateArticle(ctx, d)
		return publishResultMsg{seq: seq, resp: resp, err: err, dur: time.Since(start)}
	}
}
