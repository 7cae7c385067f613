package pipeline

import (
	"context"

	"go.uber.org/zap"

	"github.com/fadilmartias/interview-grader/internal/logger"
)

const (
	DefaultThreshold = 0.8
	DefaultTopK      = 3
)

// Resolver decides whether an incoming question matches a known one.
type Resolver struct {
	searcher  Searcher
	threshold float64
	k         int
	logger    *zap.Logger
}

func NewResolver(searcher Searcher, threshold float64, k int, log *zap.Logger) *Resolver {
	if k <= 0 {
		k = DefaultTopK
	}
	return &Resolver{
		searcher:  searcher,
		threshold: threshold,
		k:         k,
		logger:    logger.OrNop(log),
	}
}

// Resolve returns the top-ranked match when its similarity reaches the
// threshold. Lower-ranked hits are never considered.
func (r *Resolver) Resolve(ctx context.Context, text string) (Match, bool) {
	matches, err := r.searcher.Search(ctx, text, r.k)
	if err != nil {
		r.logger.Warn("similarity search failed", zap.Error(err))
		return Match{}, false
	}
	if len(matches) == 0 {
		return Match{}, false
	}

	top := matches[0]
	if top.Similarity < r.threshold {
		r.logger.Debug("no question above threshold",
			zap.Float64("best", top.Similarity),
			zap.Float64("threshold", r.threshold),
		)
		return Match{}, false
	}
	return top, true
}
