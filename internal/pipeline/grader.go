package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/fadilmartias/interview-grader/internal/logger"
)

// Grader scores a candidate answer against a reference answer.
type Grader struct {
	scorer Scorer
	scale  Scale
	logger *zap.Logger
}

func NewGrader(scorer Scorer, scale Scale, log *zap.Logger) *Grader {
	return &Grader{scorer: scorer, scale: scale, logger: logger.OrNop(log)}
}

func (g *Grader) Scale() Scale { return g.scale }

// Grade never fails: scorer errors and unreadable output become a
// minimum-score failed verdict.
func (g *Grader) Grade(ctx context.Context, question, reference, answer string) Verdict {
	raw, err := g.scorer.Score(ctx, question, reference, answer)
	if err != nil {
		g.logger.Warn("grading call failed", zap.Error(err))
		return Verdict{
			Score:    g.scale.Min,
			Passed:   false,
			Feedback: fmt.Sprintf("Error in grading: %v", err),
		}
	}

	v := ParseVerdict(raw, g.scale)
	if !v.Parsed {
		g.logger.Warn("grading output missing score",
			zap.String("raw", logger.TruncateForLog(raw, 200)),
		)
	}
	return v
}
