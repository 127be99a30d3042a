package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/scholia/pkg/api"
)

func sample() []api.ArticleSummary {
	return []api.ArticleSummary{
		{ID: 1, Title: "Attention Is All You Need", Abstract: "transformers", Likes: 3},
		{ID: 2, Title: "Graph Nets", Abstract: "Message passing over GRAPHS", Likes: 9},
		{ID: 3, Title: "Diffusion", Abstract: "score matching", Likes: 3},
		{ID: 4, Title: "Scaling laws", Abstract: "compute optimal", Likes: 12},
	}
}

func ids(in []api.ArticleSummary) []int {
	out := make([]int, 0, len(in))
	for _, a := range in {
		out = append(out, a.ID)
	}
	return out
}

func TestDisplayEmptyQuerySortsByLikes(t *testing.T) {
	coll := []api.ArticleSummary{
		{ID: 1, Title: "A", Abstract: "x", Likes: 5},
		{ID: 2, Title: "B", Abstract: "y", Likes: 9},
	}
	got := Display(coll, "")
	require.Len(t, got, 2)
	assert.Equal(t, "B", got[0].Title)
	assert.Equal(t, "A", got[1].Title)
}

func TestDisplayStableOnTies(t *testing.T) {
	got := Display(sample(), "")
	assert.Equal(t, []int{4, 2, 1, 3}, ids(got))
}

func TestFilterMatchesTitleOrAbstractCaseInsensitive(t *testing.T) {
	assert.Equal(t, []int{2}, ids(Filter(sample(), "graphs")))
	assert.Equal(t, []int{1}, ids(Filter(sample(), "ATTENTION")))
	assert.Equal(t, []int{3}, ids(Filter(sample(), "Score Match")))
	assert.Len(t, Filter(sample(), ""), 4)
}

func TestFilterNoMatchLeavesCollectionIntact(t *testing.T) {
	coll := sample()
	before := ids(coll)
	got := Display(coll, "quantum chromodynamics")
	assert.Empty(t, got)
	assert.Equal(t, before, ids(coll))
}

func TestDisplayDoesNotReorderInput(t *testing.T) {
	coll := sample()
	_ = Display(coll, "")
	assert.Equal(t, []int{1, 2, 3, 4}, ids(coll))
}

func TestTags(t *testing.T) {
	coll := []api.ArticleSummary{
		{Tags: []string{"ml", "nlp"}},
		{Tags: []string{"nlp", " ", "vision", "ml"}},
	}
	assert.Equal(t, []string{"ml", "nlp", "vision"}, Tags(coll))
}
