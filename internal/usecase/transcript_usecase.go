package usecase

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/fadilmartias/interview-grader/internal/chain"
	"github.com/fadilmartias/interview-grader/internal/dto"
	"github.com/fadilmartias/interview-grader/internal/logger"
	"github.com/fadilmartias/interview-grader/internal/pipeline"
	"github.com/fadilmartias/interview-grader/internal/util"
)

var ErrNoQuestions = errors.New("no professional questions found in transcript")

type TranscriptAnalyzer interface {
	Analyze(ctx context.Context, transcript string) chain.TranscriptAnalysis
}

type TranscriptInput struct {
	Text     string
	Position string
}

type TranscriptUsecase struct {
	analyzer TranscriptAnalyzer
	batches  BatchProcessor
	logger   *zap.Logger
}

func NewTranscriptUsecase(analyzer TranscriptAnalyzer, batches BatchProcessor, log *zap.Logger) *TranscriptUsecase {
	return &TranscriptUsecase{analyzer: analyzer, batches: batches, logger: logger.OrNop(log)}
}

// Process extracts question/answer pairs from a transcript, drops small talk
// and grades the rest as one session.
func (uc *TranscriptUsecase) Process(ctx context.Context, in TranscriptInput) (*dto.TranscriptResult, error) {
	analysis := uc.analyzer.Analyze(ctx, in.Text)
	pairs := chain.FilterProfessionalPairs(analysis.Pairs)

	result := &dto.TranscriptResult{
		InterviewerName: analysis.InterviewerName,
		CandidateName:   analysis.CandidateName,
		Summary:         analysis.Summary,
		ExtractedPairs:  len(analysis.Pairs),
		GradedPairs:     len(pairs),
		Heuristic:       analysis.Heuristic,
	}
	if len(pairs) == 0 {
		return result, ErrNoQuestions
	}

	report, err := uc.batches.ProcessBatch(ctx, pipeline.BatchInput{
		CandidateName:   knownName(analysis.CandidateName),
		InterviewerName: knownName(analysis.InterviewerName),
		Position:        in.Position,
		Pairs:           pairs,
	})
	result.Report = report
	if err != nil {
		return result, err
	}

	uc.logger.Info("transcript graded",
		zap.String("session_id", report.SessionID),
		zap.Int("pairs", len(pairs)),
		zap.Int("dropped", len(analysis.Pairs)-len(pairs)),
	)
	return result, nil
}

// ProcessFile reads a .txt or .pdf transcript from disk and processes it.
func (uc *TranscriptUsecase) ProcessFile(ctx context.Context, path, position string) (*dto.TranscriptResult, error) {
	text, err := util.ExtractText(path)
	if err != nil {
		return nil, err
	}
	return uc.Process(ctx, TranscriptInput{Text: text, Position: position})
}

// knownName maps the analyzer's unknown marker to empty so that the
// pipeline applies its own defaults.
func knownName(name string) string {
	if name == chain.UnknownName {
		return ""
	}
	return name
}
