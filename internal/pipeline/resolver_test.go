package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolverBelowThresholdIsNotFound(t *testing.T) {
	for _, s := range []float64{0, 0.3, 0.5, 0.79, 0.7999999} {
		t.Run(fmt.Sprintf("similarity %v", s), func(t *testing.T) {
			searcher := &fakeSearcher{matches: []Match{
				{QuestionID: 1, Text: "What is a goroutine?", Answer: "A lightweight thread.", Similarity: s},
			}}
			_, found := NewResolver(searcher, 0.8, 3, nil).Resolve(context.Background(), "goroutines?")
			assert.False(t, found)
		})
	}
}

func TestResolverThresholdIsInclusive(t *testing.T) {
	searcher := &fakeSearcher{matches: []Match{{QuestionID: 7, Text: "What is a channel?", Similarity: 0.8}}}

	m, found := NewResolver(searcher, 0.8, 3, nil).Resolve(context.Background(), "channels?")
	require.True(t, found)
	assert.Equal(t, uint(7), m.QuestionID)
}

func TestResolverOnlyConsidersTopHit(t *testing.T) {
	// A malformed ranking must not let a lower entry rescue the query.
	searcher := &fakeSearcher{matches: []Match{
		{QuestionID: 1, Similarity: 0.5},
		{QuestionID: 2, Similarity: 0.99},
	}}

	_, found := NewResolver(searcher, 0.8, 3, nil).Resolve(context.Background(), "q")
	assert.False(t, found)
}

func TestResolverFailsOpen(t *testing.T) {
	ctx := context.Background()

	_, found := NewResolver(&fakeSearcher{}, 0.8, 3, nil).Resolve(ctx, "q")
	assert.False(t, found, "empty corpus")

	_, found = NewResolver(&fakeSearcher{err: errors.New("connection refused")}, 0.8, 3, nil).Resolve(ctx, "q")
	assert.False(t, found, "unreachable corpus")
}
