package rank

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courseval/internal/stats"
)

func group(key string, mean float64) stats.GroupStatistic {
	return stats.GroupStatistic{
		Dimension: stats.DimCollege,
		Key:       key,
		Question:  "Survey1",
		N:         10,
		Mean:      mean,
	}
}

func TestTopNDescendingWithNameTieBreak(t *testing.T) {
	groups := []stats.GroupStatistic{
		group("Beta", 4.0),
		group("Alpha", 4.0),
		group("Gamma", 4.8),
		group("Delta", 3.1),
	}

	ranked := TopN(groups, 3)
	require.Len(t, ranked, 3)
	assert.Equal(t, "Gamma", ranked[0].Name)
	assert.Equal(t, 1, ranked[0].Rank)
	// Equal means order alphabetically.
	assert.Equal(t, "Alpha", ranked[1].Name)
	assert.Equal(t, "Beta", ranked[2].Name)
}

func TestTopNStableUnderShuffle(t *testing.T) {
	groups := []stats.GroupStatistic{
		group("A", 4.2), group("B", 4.2), group("C", 3.9),
		group("D", 4.7), group("E", 2.5), group("F", 4.2),
	}

	want := TopN(groups, 10)
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		rng.Shuffle(len(groups), func(a, b int) {
			groups[a], groups[b] = groups[b], groups[a]
		})
		assert.Equal(t, want, TopN(groups, 10))
	}
}

func TestTopNShorterThanN(t *testing.T) {
	ranked := TopN([]stats.GroupStatistic{group("Only", 4)}, 10)
	require.Len(t, ranked, 1)
	assert.Equal(t, 1, ranked[0].Rank)
}

func TestForQuestionFilters(t *testing.T) {
	groups := []stats.GroupStatistic{
		group("A", 4.0),
		{Key: "B", Question: "Survey2", Mean: 5.0},
	}

	ranked := ForQuestion(groups, "Survey1", 10)
	require.Len(t, ranked, 1)
	assert.Equal(t, "A", ranked[0].Name)
}

func TestKeywordsKoreanCourseNames(t *testing.T) {
	names := []string{"영어회화1", "영어회화2", "영어1"}

	keywords := Keywords(names, nil, 10)
	require.NotEmpty(t, keywords)
	assert.Equal(t, "영어", keywords[0].Token)
	assert.Equal(t, 3, keywords[0].Count)
	assert.Equal(t, Keyword{Token: "영어회화", Count: 2}, keywords[1])
}

func TestKeywordsStopWordsRemoved(t *testing.T) {
	names := []string{"Introduction to Physics", "Introduction to Chemistry"}

	keywords := Keywords(names, []string{"introduction", "to"}, 10)
	for _, kw := range keywords {
		assert.NotEqual(t, "introduction", kw.Token)
		assert.NotEqual(t, "to", kw.Token)
	}
	require.Len(t, keywords, 2)
	assert.Equal(t, "physics", keywords[0].Token)
}

func TestKeywordsTieKeepsFirstAppearance(t *testing.T) {
	names := []string{"zeta studies", "alpha studies"}

	keywords := Keywords(names, []string{"studies"}, 10)
	require.Len(t, keywords, 2)
	// Both appear once; zeta was seen first.
	assert.Equal(t, "zeta", keywords[0].Token)
	assert.Equal(t, "alpha", keywords[1].Token)
}

func TestKeywordsCaseInsensitive(t *testing.T) {
	names := []string{"PHYSICS Lab", "physics lecture"}

	keywords := Keywords(names, nil, 1)
	require.Len(t, keywords, 1)
	assert.Equal(t, "physics", keywords[0].Token)
	assert.Equal(t, 2, keywords[0].Count)
}

func TestKeywordsLimit(t *testing.T) {
	names := []string{"one two three four"}
	keywords := Keywords(names, nil, 2)
	assert.Len(t, keywords, 2)
}
