package present

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/scholia/pkg/api"
)

func TestParseMode(t *testing.T) {
	for _, s := range []string{"plain", "pretty", "json", "ndjson", "tui"} {
		m, ok := ParseMode(s)
		require.True(t, ok, s)
		assert.Equal(t, s, m.String())
	}
	_, ok := ParseMode("yaml")
	assert.False(t, ok)
}

func TestRenderArticlesEmptyJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderArticles(&buf, nil, Options{Mode: ModeJSON}))
	assert.Equal(t, "[]\n", buf.String())
}

func TestRenderArticlesNDJSON(t *testing.T) {
	var buf bytes.Buffer
	in := []api.ArticleSummary{{ID: 1}, {ID: 2}}
	require.NoError(t, RenderArticles(&buf, in, Options{Mode: ModeNDJSON}))
	assert.Equal(t, 2, bytes.Count(buf.Bytes(), []byte("\n")))
}

func TestRenderTUIIsInteractive(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, RenderArticles(&buf, nil, Options{Mode: ModeTUI}), ErrInteractive)
	assert.ErrorIs(t, RenderArticle(&buf, api.ArticleDetail{}, Options{Mode: ModeTUI}), ErrInteractive)
}
