package pipeline

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/fadilmartias/interview-grader/internal/logger"
)

const DefaultContextK = 3

// ReferenceProvider picks or synthesizes the reference answer for a question.
type ReferenceProvider struct {
	resolver   *Resolver
	searcher   Searcher
	generator  AnswerGenerator
	normalizer *Normalizer
	contextK   int
	logger     *zap.Logger
}

func NewReferenceProvider(
	resolver *Resolver,
	searcher Searcher,
	generator AnswerGenerator,
	normalizer *Normalizer,
	contextK int,
	log *zap.Logger,
) *ReferenceProvider {
	if contextK <= 0 {
		contextK = DefaultContextK
	}
	return &ReferenceProvider{
		resolver:   resolver,
		searcher:   searcher,
		generator:  generator,
		normalizer: normalizer,
		contextK:   contextK,
		logger:     logger.OrNop(log),
	}
}

// Provide returns a MatchOutcome whose reference answer is never blank.
func (p *ReferenceProvider) Provide(ctx context.Context, question string) (MatchOutcome, error) {
	match, found := p.resolver.Resolve(ctx, question)
	if found {
		if strings.TrimSpace(match.Answer) != "" {
			return Stored{Match: match}, nil
		}

		answer, err := p.generate(ctx, match.Text)
		if err != nil {
			return nil, err
		}
		return GeneratedFromMatch{Match: match, Answer: answer}, nil
	}

	normalized := p.normalizer.Normalize(ctx, question)
	answer, err := p.generate(ctx, normalized)
	if err != nil {
		return nil, err
	}
	return GeneratedFromUnmatched{Original: question, Normalized: normalized, Answer: answer}, nil
}

func (p *ReferenceProvider) generate(ctx context.Context, question string) (string, error) {
	answer, err := p.generator.Generate(ctx, question, p.exemplars(ctx, question))
	if err != nil {
		return "", fmt.Errorf("generate reference answer: %w", err)
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return "", ErrEmptyAnswer
	}
	return answer, nil
}

// exemplars formats similar answered questions as few-shot context.
func (p *ReferenceProvider) exemplars(ctx context.Context, question string) string {
	matches, err := p.searcher.Search(ctx, question, p.contextK)
	if err != nil {
		p.logger.Warn("context search failed", zap.Error(err))
		return ""
	}

	var parts []string
	for _, m := range matches {
		if strings.TrimSpace(m.Answer) == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("Similar question: %s\nAnswer: %s", m.Text, m.Answer))
	}
	return strings.Join(parts, "\n\n")
}
