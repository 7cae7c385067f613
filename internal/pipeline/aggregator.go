package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/fadilmartias/interview-grader/internal/logger"
	"github.com/fadilmartias/interview-grader/internal/model"
)

const (
	DefaultPassBar = 6.0

	answerExcerptLimit = 100

	strengthsUnavailable  = "Strengths summary unavailable"
	weaknessesUnavailable = "Weaknesses summary unavailable"
)

type AggregateInput struct {
	SessionID     string
	CandidateID   uint
	InterviewerID *uint
	CandidateName string
	Position      string
	Results       []*Result
}

// Aggregator folds graded results into one SessionSummary per session.
type Aggregator struct {
	summarizer Summarizer
	store      SessionStore
	passBar    float64
	logger     *zap.Logger
}

func NewAggregator(summarizer Summarizer, store SessionStore, passBar float64, log *zap.Logger) *Aggregator {
	return &Aggregator{
		summarizer: summarizer,
		store:      store,
		passBar:    passBar,
		logger:     logger.OrNop(log),
	}
}

// Aggregate computes totals, asks for a narrative and upserts the session
// summary. The report is returned even when the upsert fails.
func (a *Aggregator) Aggregate(ctx context.Context, in AggregateInput) (*SessionReport, error) {
	report := a.totals(in.SessionID, in.Results)

	details := make([]QuestionDetail, 0, len(in.Results))
	for _, r := range in.Results {
		d := QuestionDetail{
			Question: r.QuestionSummarized,
			Answer:   logger.TruncateForLog(r.CandidateAnswer, answerExcerptLimit),
			Passed:   r.Passed,
			Feedback: r.Feedback,
		}
		if r.Score != nil {
			d.Score = *r.Score
		}
		details = append(details, d)
	}

	narrative, err := a.summarizer.Summarize(ctx, in.CandidateName, in.Position, details)
	if err != nil {
		a.logger.Warn("session narrative failed", zap.String("session_id", in.SessionID), zap.Error(err))
		narrative = Narrative{
			Strengths:  strengthsUnavailable,
			Weaknesses: weaknessesUnavailable,
			Overview:   fmt.Sprintf("Summary unavailable: %v", err),
		}
	} else {
		report.NarrativeAvailable = true
	}
	report.Strengths = narrative.Strengths
	report.Weaknesses = narrative.Weaknesses
	report.Overview = narrative.Overview

	summary := &model.SessionSummary{
		SessionID:       in.SessionID,
		CandidateID:     in.CandidateID,
		InterviewerID:   in.InterviewerID,
		Position:        in.Position,
		TotalQuestions:  report.TotalQuestions,
		PassedQuestions: report.PassedCount,
		AverageScore:    report.AverageScore,
		OverallResult:   report.OverallResult,
		Strengths:       report.Strengths,
		Weaknesses:      report.Weaknesses,
		Summary:         report.Overview,
	}
	if err := a.store.Upsert(ctx, summary); err != nil {
		return report, fmt.Errorf("save session summary: %w", err)
	}
	return report, nil
}

func (a *Aggregator) totals(sessionID string, results []*Result) *SessionReport {
	report := &SessionReport{
		SessionID:      sessionID,
		TotalQuestions: len(results),
		OverallResult:  model.ResultFail,
	}

	var (
		sum    float64
		scored int
	)
	for _, r := range results {
		if r.Passed {
			report.PassedCount++
		}
		if r.Score != nil {
			sum += *r.Score
			scored++
		}
	}

	if scored > 0 {
		report.AverageScore = sum / float64(scored)
	}
	if report.TotalQuestions > 0 {
		report.PassRate = float64(report.PassedCount) / float64(report.TotalQuestions) * 100
	}
	if scored > 0 && report.AverageScore >= a.passBar {
		report.OverallResult = model.ResultPass
	}
	return report
}
