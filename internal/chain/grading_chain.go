package chain

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/fadilmartias/interview-grader/internal/service"
)

const gradingTemperature = 0.2

// GradingChain asks for a SCORE/PASSED/FEEDBACK verdict on a candidate answer.
type GradingChain struct {
	llm          service.TextGenerator
	scaleMax     float64
	passingScore float64
}

func NewGradingChain(llm service.TextGenerator, scaleMax, passingScore float64) *GradingChain {
	return &GradingChain{llm: llm, scaleMax: scaleMax, passingScore: passingScore}
}

func (c *GradingChain) Score(ctx context.Context, question, reference, answer string) (string, error) {
	return c.llm.GenerateText(ctx, c.prompt(question, reference, answer), gradingTemperature)
}

func (c *GradingChain) prompt(question, reference, answer string) string {
	pts := func(share float64) string { return formatNumber(c.scaleMax * share) }

	return fmt.Sprintf(`
You are an expert technical interview assessor.
Question: %s
Reference answer: %s
Candidate answer: %s

GRADING CRITERIA (scale 0-%s):
1. Accuracy of knowledge (%s points)
   - Is the information correct?
   - Are there misconceptions?

2. Completeness compared to the reference answer (%s points)
   - Are the key points covered?
   - Is important information missing?

3. Presentation and logic (%s points)
   - Clear and coherent
   - Easy to follow

4. Practical examples (%s points)
   - Is there an illustrative example?
   - Is it relevant?

NOTES:
- The candidate does NOT need to match the length of the reference answer
- A short answer that covers the key points can score high
- Concise and focused beats long and rambling
- Passing mark: >= %s points

REQUIRED OUTPUT FORMAT:
SCORE: [0-%s]
PASSED: [YES/NO]
FEEDBACK: [2-3 short sentences: strengths, weaknesses, how to improve]

Assessment:`,
		question, reference, answer,
		formatNumber(c.scaleMax), pts(0.4), pts(0.3), pts(0.2), pts(0.1),
		formatNumber(c.passingScore), formatNumber(c.scaleMax))
}

// formatNumber renders v with at most two decimals and no trailing zeros.
func formatNumber(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
