package chain

import (
	"context"
	"fmt"
	"strings"

	"github.com/fadilmartias/interview-grader/internal/service"
)

const summarizeTemperature = 0.1

// SummarizeChain condenses a spoken-style question into one standard question.
type SummarizeChain struct {
	llm service.TextGenerator
}

func NewSummarizeChain(llm service.TextGenerator) *SummarizeChain {
	return &SummarizeChain{llm: llm}
}

func (c *SummarizeChain) Condense(ctx context.Context, question string) (string, error) {
	prompt := fmt.Sprintf(`
You normalize interview questions.

Original question: %s

Task: rewrite the question in a SHORT, CLEAR form that keeps its core meaning.

Rules:
- Remove filler words and long-winded phrasing.
- Keep important technical keywords.
- Use a standard question form.
- Do not add new information.
- STRICTLY one sentence, about 15-20 words.

Examples:
Input: "So I wanted to ask, like, what's the difference between var, let and const in JavaScript?"
Output: "What is the difference between var, let and const in JavaScript?"

Input: "Could you explain to me the main differences between a REST API and GraphQL?"
Output: "How do REST APIs and GraphQL differ?"

Normalized question:`, question)

	out, err := c.llm.GenerateText(ctx, prompt, summarizeTemperature)
	if err != nil {
		return "", err
	}
	return strings.Trim(strings.TrimSpace(out), `"`), nil
}
