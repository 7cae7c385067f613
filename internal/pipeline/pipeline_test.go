package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fadilmartias/interview-grader/internal/metrics"
	"github.com/fadilmartias/interview-grader/internal/model"
)

type harness struct {
	searcher     *fakeSearcher
	generator    *fakeGenerator
	condenser    *fakeCondenser
	scorer       *fakeScorer
	summarizer   *fakeSummarizer
	users        *memoryUsers
	interactions *memoryInteractions
	sessions     *memorySessions
}

func newHarness() *harness {
	return &harness{
		searcher:     &fakeSearcher{},
		generator:    &fakeGenerator{answer: "generated reference"},
		condenser:    &fakeCondenser{out: "condensed"},
		scorer:       &fakeScorer{byAnswer: map[string]string{}, fallback: "SCORE: 5\nPASSED: NO\nFEEDBACK: average"},
		summarizer:   &fakeSummarizer{narrative: Narrative{Strengths: "s", Weaknesses: "w", Overview: "o"}},
		users:        &memoryUsers{},
		interactions: &memoryInteractions{},
		sessions:     &memorySessions{},
	}
}

func (h *harness) pipeline(concurrency int) *Pipeline {
	resolver := NewResolver(h.searcher, 0.8, 3, nil)
	return New(Deps{
		Provider:   NewReferenceProvider(resolver, h.searcher, h.generator, NewNormalizer(h.condenser, nil), 3, nil),
		Grader:     NewGrader(h.scorer, NewScale(10), nil),
		Recorder:   NewRecorder(h.interactions),
		Aggregator: NewAggregator(h.summarizer, h.sessions, 6.0, nil),
		Users:      h.users,
		Metrics:    metrics.New(),
	}, concurrency)
}

func TestProcessOneStoredMatch(t *testing.T) {
	h := newHarness()
	h.searcher.matches = []Match{{QuestionID: 12, Text: "What is a deadlock?", Answer: "Circular wait.", Similarity: 0.95}}
	h.scorer.byAnswer["two goroutines waiting on each other"] = "SCORE: 9\nPASSED: YES\nFEEDBACK: precise"

	res, err := h.pipeline(1).ProcessOne(context.Background(), ProcessInput{
		CandidateID:     1,
		QuestionText:    "what's a deadlock",
		CandidateAnswer: "two goroutines waiting on each other",
	})
	require.NoError(t, err)

	assert.Equal(t, ProvenanceStored, res.AnswerSource)
	assert.Equal(t, "Circular wait.", res.ReferenceAnswer)
	assert.Equal(t, 9.0, *res.Score)
	assert.True(t, res.Passed)
	assert.NotEmpty(t, res.SessionID)
	assert.Zero(t, h.generator.calls)
	assert.Zero(t, h.condenser.calls)

	require.Len(t, h.interactions.saved, 1)
	saved := h.interactions.saved[0]
	assert.Equal(t, uint(12), *saved.QuestionID)
	assert.Equal(t, "stored", saved.AnswerSource)
	assert.Equal(t, "what's a deadlock", saved.QuestionSummarized)
	assert.Equal(t, "What is a deadlock?", saved.QuestionMatched)
	assert.Equal(t, res.SessionID, saved.SessionID)
}

func TestProcessOneUnmatched(t *testing.T) {
	h := newHarness()
	h.searcher.matches = []Match{{QuestionID: 3, Text: "unrelated", Answer: "x", Similarity: 0.3}}

	res, err := h.pipeline(1).ProcessOne(context.Background(), ProcessInput{
		CandidateID:     1,
		QuestionText:    "tell me how you would shard a table",
		CandidateAnswer: "by tenant id",
		SessionID:       "fixed",
	})
	require.NoError(t, err)

	assert.Equal(t, ProvenanceGeneratedNew, res.AnswerSource)
	assert.Nil(t, res.QuestionID)
	assert.Equal(t, 1, h.condenser.calls)
	assert.Equal(t, 1, h.generator.calls)
	assert.Equal(t, "fixed", res.SessionID)

	require.Len(t, h.interactions.saved, 1)
	assert.Nil(t, h.interactions.saved[0].QuestionID)
	assert.Equal(t, "generated_new", h.interactions.saved[0].AnswerSource)
	assert.Equal(t, "condensed", h.interactions.saved[0].QuestionMatched)
}

func TestProcessOneRejectsBlankQuestion(t *testing.T) {
	_, err := newHarness().pipeline(1).ProcessOne(context.Background(), ProcessInput{QuestionText: "  "})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestProcessBatchAggregatesSession(t *testing.T) {
	h := newHarness()
	h.scorer.byAnswer["a1"] = "SCORE: 8\nPASSED: YES\nFEEDBACK: good"
	h.scorer.byAnswer["a2"] = "SCORE: 7\nPASSED: YES\nFEEDBACK: fine"
	h.scorer.byAnswer["a3"] = "SCORE: 3\nPASSED: NO\nFEEDBACK: weak"

	report, err := h.pipeline(1).ProcessBatch(context.Background(), BatchInput{
		CandidateName:   "Ana",
		InterviewerName: "Bo",
		Position:        "Backend",
		Pairs: []QAPair{
			{Question: "q1", Answer: "a1"},
			{Question: "q2", Answer: "a2"},
			{Question: "q3", Answer: "a3"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, StatusSuccess, report.Status)
	require.NotNil(t, report.Summary)
	assert.InDelta(t, 6.0, report.Summary.AverageScore, 1e-9)
	assert.Equal(t, 2, report.Summary.PassedCount)
	assert.Equal(t, 3, report.Summary.TotalQuestions)
	assert.Equal(t, model.ResultPass, report.Summary.OverallResult)

	require.Len(t, report.Results, 3)
	for i, r := range report.Results {
		assert.Equal(t, i, r.Index)
		assert.Equal(t, report.SessionID, r.SessionID)
	}
	assert.Equal(t, "a1", report.Results[0].CandidateAnswer)
	assert.Equal(t, "a3", report.Results[2].CandidateAnswer)

	row, ok := h.sessions.rows[report.SessionID]
	require.True(t, ok)
	assert.Equal(t, "Backend", row.Position)
	assert.Equal(t, report.CandidateID, row.CandidateID)
	assert.Equal(t, 1, h.sessions.upserts)
}

func TestProcessBatchConcurrentKeepsOrder(t *testing.T) {
	h := newHarness()
	pairs := make([]QAPair, 20)
	for i := range pairs {
		pairs[i] = QAPair{Question: "q", Answer: string(rune('a' + i))}
	}

	report, err := h.pipeline(4).ProcessBatch(context.Background(), BatchInput{Pairs: pairs})
	require.NoError(t, err)

	require.Len(t, report.Results, len(pairs))
	for i, r := range report.Results {
		assert.Equal(t, pairs[i].Answer, r.CandidateAnswer)
	}
	assert.Len(t, h.interactions.saved, len(pairs))
	assert.Equal(t, len(pairs), report.Summary.TotalQuestions)
}

func TestProcessBatchDefaults(t *testing.T) {
	h := newHarness()

	report, err := h.pipeline(1).ProcessBatch(context.Background(), BatchInput{
		Pairs: []QAPair{{Question: "q", Answer: "a"}},
	})
	require.NoError(t, err)

	assert.Equal(t, DefaultCandidateName, report.CandidateName)
	assert.Equal(t, DefaultInterviewerName, report.InterviewerName)
	assert.Equal(t, DefaultPosition, report.Position)
	assert.NotEmpty(t, report.SessionID)
	assert.Contains(t, h.users.users, "candidate/"+DefaultCandidateName)
	assert.Contains(t, h.users.users, "interviewer/"+DefaultInterviewerName)
}

func TestProcessBatchPersistenceFailureIsIsolated(t *testing.T) {
	h := newHarness()
	h.interactions.failOn = "a2"
	h.interactions.err = errors.New("constraint violation")

	report, err := h.pipeline(1).ProcessBatch(context.Background(), BatchInput{
		Pairs: []QAPair{{Question: "q1", Answer: "a1"}, {Question: "q2", Answer: "a2"}, {Question: "q3", Answer: "a3"}},
	})
	require.NoError(t, err)

	assert.Equal(t, StatusPartial, report.Status)
	assert.Equal(t, 1, report.ErrorCount)
	assert.Equal(t, StatusError, report.Results[1].Status)
	assert.Contains(t, report.Results[1].Message, "constraint violation")
	assert.Equal(t, StatusSuccess, report.Results[2].Status)
	assert.Equal(t, 2, report.Summary.TotalQuestions)
}

func TestProcessBatchGenerationFailureMarksError(t *testing.T) {
	h := newHarness()
	h.generator.err = errors.New("model unavailable")

	report, err := h.pipeline(1).ProcessBatch(context.Background(), BatchInput{
		Pairs: []QAPair{{Question: "q1", Answer: "a1"}},
	})
	require.NoError(t, err)

	assert.Equal(t, StatusError, report.Status)
	assert.Nil(t, report.Summary)
	assert.Zero(t, h.sessions.upserts)
	assert.Equal(t, StatusError, report.Results[0].Status)
}

func TestProcessBatchIdentityFailure(t *testing.T) {
	h := newHarness()
	h.users.err = errors.New("db down")

	report, err := h.pipeline(1).ProcessBatch(context.Background(), BatchInput{
		Pairs: []QAPair{{Question: "q1", Answer: "a1"}},
	})
	require.Error(t, err)
	assert.Equal(t, StatusError, report.Status)
	assert.Empty(t, h.interactions.saved)
}

func TestProcessBatchCancelledProducesNoSummary(t *testing.T) {
	h := newHarness()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := h.pipeline(1).ProcessBatch(ctx, BatchInput{
		Pairs: []QAPair{{Question: "q1", Answer: "a1"}, {Question: "q2", Answer: "a2"}},
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StatusError, report.Status)
	assert.Nil(t, report.Summary)
	assert.Zero(t, h.sessions.upserts)
	for _, r := range report.Results {
		assert.Equal(t, StatusError, r.Status)
	}
}
