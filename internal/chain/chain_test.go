package chain

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fadilmartias/interview-grader/internal/pipeline"
)

type fakeLLM struct {
	out string
	err error

	prompt      string
	temperature float32
}

func (f *fakeLLM) GenerateText(_ context.Context, prompt string, temperature float32) (string, error) {
	f.prompt = prompt
	f.temperature = temperature
	return f.out, f.err
}

func TestAnswerChain(t *testing.T) {
	llm := &fakeLLM{out: "\n- Goroutines are cheap\n"}

	out, err := NewAnswerChain(llm).Generate(context.Background(), "What is a goroutine?", "")
	require.NoError(t, err)
	assert.Equal(t, "- Goroutines are cheap", out)
	assert.Contains(t, llm.prompt, "What is a goroutine?")
	assert.Contains(t, llm.prompt, "(none)")
}

func TestSummarizeChainStripsQuotes(t *testing.T) {
	llm := &fakeLLM{out: ` "How do REST and GraphQL differ?" `}

	out, err := NewSummarizeChain(llm).Condense(context.Background(), "so, um, rest versus graphql?")
	require.NoError(t, err)
	assert.Equal(t, "How do REST and GraphQL differ?", out)
	assert.InDelta(t, 0.1, llm.temperature, 1e-6)
}

func TestGradingChainPromptFollowsScale(t *testing.T) {
	llm := &fakeLLM{out: "SCORE: 70"}

	raw, err := NewGradingChain(llm, 100, 60).Score(context.Background(), "q", "ref", "ans")
	require.NoError(t, err)
	assert.Equal(t, "SCORE: 70", raw)
	assert.Contains(t, llm.prompt, "SCORE: [0-100]")
	assert.Contains(t, llm.prompt, "Passing mark: >= 60 points")
	assert.Contains(t, llm.prompt, "Accuracy of knowledge (40 points)")

	_, err = NewGradingChain(llm, 10, 6).Score(context.Background(), "q", "ref", "ans")
	require.NoError(t, err)
	assert.Contains(t, llm.prompt, "Accuracy of knowledge (4 points)")
	assert.Contains(t, llm.prompt, "Practical examples (1 points)")
}

func TestParseNarrative(t *testing.T) {
	raw := `Analysis below.

**STRENGTHS:**
- Solid grasp of concurrency
- Clear communication

WEAKNESSES:
- Limited database depth

SUMMARY:
Promising backend candidate.
Recommend a follow-up round.`

	n, err := ParseNarrative(raw)
	require.NoError(t, err)
	assert.Equal(t, "- Solid grasp of concurrency\n- Clear communication", n.Strengths)
	assert.Equal(t, "- Limited database depth", n.Weaknesses)
	assert.Equal(t, "Promising backend candidate. Recommend a follow-up round.", n.Overview)

	_, err = ParseNarrative("no sections at all")
	assert.ErrorIs(t, err, ErrNoNarrative)
}

func TestSessionSummaryChain(t *testing.T) {
	llm := &fakeLLM{out: "STRENGTHS:\n- a\nWEAKNESSES:\n- b\nSUMMARY: c"}

	n, err := NewSessionSummaryChain(llm, 10).Summarize(context.Background(), "Ana", "Backend", []pipeline.QuestionDetail{
		{Question: "q1", Answer: "a1", Score: 8, Passed: true, Feedback: "good"},
		{Question: "q2", Answer: "a2", Score: 4, Feedback: "weak"},
	})
	require.NoError(t, err)
	assert.Equal(t, "c", n.Overview)
	assert.Contains(t, llm.prompt, "Candidate: Ana")
	assert.Contains(t, llm.prompt, "Passed questions: 1")
	assert.Contains(t, llm.prompt, "Average score: 6.0/10")

	_, err = NewSessionSummaryChain(&fakeLLM{err: errors.New("down")}, 10).Summarize(context.Background(), "Ana", "x", nil)
	assert.Error(t, err)
}
