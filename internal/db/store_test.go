package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mithrel/scholia/pkg/api"
)

func backends(t *testing.T) map[string]Store {
	t.Helper()
	ctx := context.Background()
	mem, err := Open(ctx, "mem://")
	require.NoError(t, err)
	lite, err := Open(ctx, "sqlite://"+filepath.Join(t.TempDir(), "nested", "sandbox.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = mem.Close()
		_ = lite.Close()
	})
	return map[string]Store{"mem": mem, "sqlite": lite}
}

func article(title string, likes int) api.Article {
	rt := "3 min read"
	return api.Article{
		ArticleSummary: api.ArticleSummary{
			Title:       title,
			Author:      "Ann",
			Institution: "MIT",
			Abstract:    "abs",
			Tags:        []string{" ml ", "", "bio"},
			Likes:       likes,
			ReadTime:    &rt,
			PublishDate: "2024-05-01",
		},
		Content: "p1\np2",
	}
}

func TestStoreCreateListGet(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			a, err := s.CreateArticle(ctx, article("first", 1))
			require.NoError(t, err)
			require.Equal(t, 1, a.ID)
			require.Equal(t, []string{"ml", "bio"}, a.Tags)

			b, err := s.CreateArticle(ctx, article("second", 2))
			require.NoError(t, err)
			require.Equal(t, 2, b.ID)

			all, err := s.ListArticles(ctx)
			require.NoError(t, err)
			require.Len(t, all, 2)
			require.Equal(t, "first", all[0].Title)

			got, err := s.GetArticle(ctx, 2)
			require.NoError(t, err)
			require.Equal(t, "second", got.Title)
			require.Equal(t, "p1\np2", got.Content)
			require.NotNil(t, got.ReadTime)
			require.Equal(t, "3 min read", *got.ReadTime)
		})
	}
}

func TestStoreExplicitIDAndConflict(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			a := article("seeded", 0)
			a.ID = 10
			a.ReadTime = nil
			_, err := s.CreateArticle(ctx, a)
			require.NoError(t, err)

			_, err = s.CreateArticle(ctx, a)
			require.ErrorIs(t, err, ErrConflict)

			next, err := s.CreateArticle(ctx, article("next", 0))
			require.NoError(t, err)
			require.Equal(t, 11, next.ID)

			got, err := s.GetArticle(ctx, 10)
			require.NoError(t, err)
			require.Nil(t, got.ReadTime)
		})
	}
}

func TestStoreNotFound(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.GetArticle(context.Background(), 99)
			require.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestOpenRejectsUnknownScheme(t *testing.T) {
	_, err := Open(context.Background(), "postgres://x")
	require.Error(t, err)
}
