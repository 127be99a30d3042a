package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mithrel/scholia/pkg/api"
)

// Store persists the articles served by the sandbox API.
type Store interface {
	ListArticles(ctx context.Context) ([]api.Article, error)
	GetArticle(ctx context.Context, id int) (api.Article, error)
	// CreateArticle stores a; a zero ID is assigned the next free one.
	CreateArticle(ctx context.Context, a api.Article) (api.Article, error)
	Close() error
}

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

// Open returns a Store based on a URL (mem:// or sqlite://path).
func Open(ctx context.Context, dsn string) (Store, error) {
	switch {
	case strings.HasPrefix(dsn, "mem://"):
		return newMemStore(), nil
	case strings.HasPrefix(dsn, "sqlite://"):
		s, err := openSQLite(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported store dsn %q", dsn)
	}
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
