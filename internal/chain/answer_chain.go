// Package chain holds the prompt templates and output parsing around the
// text-generation backend. Each chain implements one pipeline capability.
package chain

import (
	"context"
	"fmt"
	"strings"

	"github.com/fadilmartias/interview-grader/internal/service"
)

const answerTemperature = 0.3

// AnswerChain writes a short reference answer for an interview question.
type AnswerChain struct {
	llm service.TextGenerator
}

func NewAnswerChain(llm service.TextGenerator) *AnswerChain {
	return &AnswerChain{llm: llm}
}

func (c *AnswerChain) Generate(ctx context.Context, question, exemplars string) (string, error) {
	if strings.TrimSpace(exemplars) == "" {
		exemplars = "(none)"
	}

	prompt := fmt.Sprintf(`
You are a technical interview expert. Write a concise reference answer for the interview question below.

Interview question: %s

Context from similar questions:
%s

STRICT RULES:
1. Keep it short and to the point, formatted as Markdown bullet points.
2. Do NOT exceed 150 words in total. Cover only the most important technical points.
3. Be technically accurate and easy for an interviewer to grade against.

Reference answer:`, question, exemplars)

	answer, err := c.llm.GenerateText(ctx, prompt, answerTemperature)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(answer), nil
}
