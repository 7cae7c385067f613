package chain

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fadilmartias/interview-grader/internal/pipeline"
	"github.com/fadilmartias/interview-grader/internal/service"
)

const sessionSummaryTemperature = 0.3

var ErrNoNarrative = errors.New("summary output has no STRENGTHS, WEAKNESSES or SUMMARY section")

// SessionSummaryChain writes the strengths/weaknesses/overview narrative of a session.
type SessionSummaryChain struct {
	llm      service.TextGenerator
	scaleMax float64
}

func NewSessionSummaryChain(llm service.TextGenerator, scaleMax float64) *SessionSummaryChain {
	return &SessionSummaryChain{llm: llm, scaleMax: scaleMax}
}

func (c *SessionSummaryChain) Summarize(ctx context.Context, candidateName, position string, details []pipeline.QuestionDetail) (pipeline.Narrative, error) {
	raw, err := c.llm.GenerateText(ctx, c.prompt(candidateName, position, details), sessionSummaryTemperature)
	if err != nil {
		return pipeline.Narrative{}, err
	}
	return ParseNarrative(raw)
}

func (c *SessionSummaryChain) prompt(candidateName, position string, details []pipeline.QuestionDetail) string {
	var (
		passed int
		sum    float64
		b      strings.Builder
	)
	for i, d := range details {
		if d.Passed {
			passed++
		}
		sum += d.Score

		mark := "✗"
		if d.Passed {
			mark = "✓"
		}
		fmt.Fprintf(&b, "\nQuestion %d:\n  Q: %s\n  A: %s\n  Score: %s/%s\n  Passed: %s\n  Feedback: %s\n",
			i+1, d.Question, d.Answer, formatNumber(d.Score), formatNumber(c.scaleMax), mark, d.Feedback)
	}

	var avg float64
	if len(details) > 0 {
		avg = sum / float64(len(details))
	}

	return fmt.Sprintf(`
You analyze interview results. Summarize how the candidate performed.

INTERVIEW:
- Candidate: %s
- Position: %s
- Total questions: %d
- Passed questions: %d
- Average score: %.1f/%s

QUESTION DETAILS:
%s

REQUIREMENTS:
1. STRENGTHS (2-3 specific points), based on high-scoring questions and positive feedback.
2. WEAKNESSES (2-3 specific points), based on low-scoring questions and negative feedback.
3. SUMMARY (2-3 sentences): overall assessment and a hiring recommendation.

OUTPUT FORMAT:
STRENGTHS:
- [strength 1]
- [strength 2]

WEAKNESSES:
- [weakness 1]
- [weakness 2]

SUMMARY:
[2-3 sentence overview]

Analysis:`, candidateName, position, len(details), passed, avg, formatNumber(c.scaleMax), b.String())
}

// ParseNarrative splits the STRENGTHS/WEAKNESSES/SUMMARY sections. List
// sections keep their line breaks; the summary is joined into one paragraph.
func ParseNarrative(raw string) (pipeline.Narrative, error) {
	sections := map[string][]string{}
	var current string

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if name, rest, ok := sectionHeader(line); ok {
			current = name
			line = rest
		}
		if current != "" && line != "" {
			sections[current] = append(sections[current], line)
		}
	}

	n := pipeline.Narrative{
		Strengths:  strings.Join(sections["STRENGTHS:"], "\n"),
		Weaknesses: strings.Join(sections["WEAKNESSES:"], "\n"),
		Overview:   strings.Join(sections["SUMMARY:"], " "),
	}
	if n.Strengths == "" && n.Weaknesses == "" && n.Overview == "" {
		return n, ErrNoNarrative
	}
	return n, nil
}

func sectionHeader(line string) (name, rest string, ok bool) {
	t := strings.TrimLeft(line, "*# ")
	for _, h := range []string{"STRENGTHS:", "WEAKNESSES:", "SUMMARY:"} {
		if len(t) >= len(h) && strings.EqualFold(t[:len(h)], h) {
			return h, strings.TrimSpace(strings.TrimLeft(t[len(h):], "* ")), true
		}
	}
	return "", "", false
}
