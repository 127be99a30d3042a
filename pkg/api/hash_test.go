package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAttachment_Hash(t *testing.T) {
	t.Run("identical bytes produce identical hashes", func(t *testing.T) {
		a := Attachment{Name: "a.png", Data: []byte("pixels")}
		b := Attachment{Name: "b.png", Data: []byte("pixels")}
		assert.Equal(t, a.Hash(), b.Hash())
	})

	t.Run("content changes hash", func(t *testing.T) {
		a := Attachment{Data: []byte("pixels")}
		b := Attachment{Data: []byte("pixels!")}
		assert.NotEqual(t, a.Hash(), b.Hash())
	})

	t.Run("hex encoded 256-bit digest", func(t *testing.T) {
		assert.Len(t, HashBytes(nil), 64)
	})
}

func TestArticleProjections(t *testing.T) {
	rt := "3 min read"
	a := Article{
		ArticleSummary: ArticleSummary{
			ID: 7, Title: "T", Author: "A", Institution: "I", Abstract: "x",
			Tags: []string{"ml", "ml"}, Likes: 4, Comments: 2, Views: 10,
			ReadTime: &rt, PublishDate: "2024-01-02",
		},
		Content: "p1\np2",
	}
	s := a.Summary()
	assert.Equal(t, []string{"ml", "ml"}, s.Tags)
	s.Tags[0] = "changed"
	assert.Equal(t, "ml", a.Tags[0])

	d := a.Detail()
	assert.Equal(t, 7, d.ID)
	assert.Equal(t, "p1\np2", d.Content)
	assert.Equal(t, "3 min read", ReadTimeLabel(d.ReadTime))
	assert.Equal(t, "", ReadTimeLabel(nil))
}
