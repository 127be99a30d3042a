package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreCompletions(t *testing.T) {
	tags := []string{"climate", "machine-learning", "marine", "geology"}

	assert.Equal(t, tags, ScoreCompletions("", tags, 2))
	assert.Nil(t, ScoreCompletions("zzz", tags, 5))
	assert.Equal(t, []string{"geology"}, ScoreCompletions("geo", tags, 5))
	assert.ElementsMatch(t, []string{"machine-learning", "marine"}, ScoreCompletions("mar", tags, 5))
	assert.Len(t, ScoreCompletions("m", tags, 1), 1)
}
