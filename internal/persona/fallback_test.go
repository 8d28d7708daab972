package persona

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildFallback(t *testing.T) {
	reviews := BuildFallback("a subscription box for houseplants", 7, []string{"creative"})
	require.Len(t, reviews, 7)

	for i, rev := range reviews {
		assert.Equal(t, i+1, rev.ID)
		assert.Equal(t, 6+i%3, rev.Metadata.SentimentRating)
		assert.NotEmpty(t, rev.Metadata.PersonaDescriptor)
		assert.Contains(t, rev.Text, "subscription box")
		assert.Equal(t, []string{"creative"}, rev.Metadata.Characteristics)

		// Display name carries the sampled age as a suffix.
		parts := strings.Split(rev.Metadata.PersonaName, ", ")
		require.Len(t, parts, 2)
		assert.GreaterOrEqual(t, rev.Metadata.Age, 22)
		assert.LessOrEqual(t, rev.Metadata.Age, 65)
	}

	// Templates cycle: entry 6 reuses the first descriptor.
	assert.Equal(t, reviews[0].Metadata.PersonaDescriptor, reviews[5].Metadata.PersonaDescriptor)
}

func TestBuildFallback_Defaults(t *testing.T) {
	t.Run("count floor", func(t *testing.T) {
		reviews := BuildFallback("idea", 0, []string{"cautious"})
		assert.Len(t, reviews, 1)
	})

	t.Run("empty traits substituted", func(t *testing.T) {
		reviews := BuildFallback("idea", 1, nil)
		assert.NotEmpty(t, reviews[0].Metadata.Characteristics)
	})

	t.Run("long idea truncated in text", func(t *testing.T) {
		long := strings.Repeat("x", 200)
		reviews := BuildFallback(long, 1, []string{"cautious"})
		assert.Contains(t, reviews[0].Text, strings.Repeat("x", 60)+"…")
		assert.NotContains(t, reviews[0].Text, strings.Repeat("x", 61))
	})

	t.Run("multi-byte idea truncated on a rune boundary", func(t *testing.T) {
		long := strings.Repeat("crème brûlée ", 20)
		reviews := BuildFallback(long, 1, []string{"cautious"})
		assert.True(t, utf8.ValidString(reviews[0].Text))
	})
}

func TestFind(t *testing.T) {
	reviews := []Review{{ID: 1}, {ID: 3}}
	require.NotNil(t, Find(reviews, 3))
	assert.Equal(t, 3, Find(reviews, 3).ID)
	assert.Nil(t, Find(reviews, 2))
	assert.Nil(t, Find(nil, 1))
}
