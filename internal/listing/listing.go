// Package listing derives the displayed article set from a fetched collection.
package listing

import (
	"sort"
	"strings"

	"github.com/mithrel/scholia/pkg/api"
)

// Filter returns the articles whose title or abstract contains query,
// compared case-insensitively. An empty query matches everything.
// The input slice is never modified.
func Filter(articles []api.ArticleSummary, query string) []api.ArticleSummary {
	q := strings.ToLower(query)
	out := make([]api.ArticleSummary, 0, len(articles))
	for _, a := range articles {
		if strings.Contains(strings.ToLower(a.Title), q) || strings.Contains(strings.ToLower(a.Abstract), q) {
			out = append(out, a)
		}
	}
	return out
}

// SortByLikes orders articles by descending like count in place.
// Ties keep their relative order.
func SortByLikes(articles []api.ArticleSummary) {
	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].Likes > articles[j].Likes
	})
}

// Display is Filter followed by SortByLikes on the filtered copy.
func Display(articles []api.ArticleSummary, query string) []api.ArticleSummary {
	out := Filter(articles, query)
	SortByLikes(out)
	return out
}

// Tags collects the distinct tags of the collection in first-seen order.
func Tags(articles []api.ArticleSummary) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, a := range articles {
		for _, t := range a.Tags {
			t = strings.TrimSpace(t)
			if t == "" {
				continue
			}
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	return out
}
