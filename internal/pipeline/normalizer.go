package pipeline

import (
	"context"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/fadilmartias/interview-grader/internal/logger"
)

// maxExpansion bounds how much longer a condensed question may be than the original.
const maxExpansion = 1.5

// Normalizer condenses a raw question into one short sentence.
type Normalizer struct {
	condenser Condenser
	logger    *zap.Logger
}

func NewNormalizer(condenser Condenser, log *zap.Logger) *Normalizer {
	return &Normalizer{condenser: condenser, logger: logger.OrNop(log)}
}

// Normalize returns the condensed text, or raw when condensing fails,
// yields nothing, or grows the text beyond 1.5x its length.
func (n *Normalizer) Normalize(ctx context.Context, raw string) string {
	out, err := n.condenser.Condense(ctx, raw)
	if err != nil {
		n.logger.Warn("condense question failed, keeping original", zap.Error(err))
		return raw
	}

	out = strings.TrimSpace(out)
	if out == "" {
		return raw
	}
	if float64(utf8.RuneCountInString(out)) > maxExpansion*float64(utf8.RuneCountInString(raw)) {
		n.logger.Debug("condensed question longer than original, keeping original",
			zap.String("condensed", logger.TruncateForLog(out, 120)),
		)
		return raw
	}
	return out
}
