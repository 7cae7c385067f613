package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fadilmartias/interview-grader/internal/logger"
	"github.com/fadilmartias/interview-grader/internal/metrics"
	"github.com/fadilmartias/interview-grader/internal/model"
)

const (
	DefaultCandidateName   = "Unknown Candidate"
	DefaultInterviewerName = "Unknown Interviewer"
	DefaultPosition        = "N/A"
)

type Deps struct {
	Provider   *ReferenceProvider
	Grader     *Grader
	Recorder   *Recorder
	Aggregator *Aggregator
	Users      UserStore
	Metrics    *metrics.Metrics
	Logger     *zap.Logger
}

// Pipeline grades single answers and whole interview sessions.
type Pipeline struct {
	provider    *ReferenceProvider
	grader      *Grader
	recorder    *Recorder
	aggregator  *Aggregator
	users       UserStore
	metrics     *metrics.Metrics
	logger      *zap.Logger
	concurrency int
}

// New builds a Pipeline. concurrency bounds in-flight questions per batch;
// values below 1 mean sequential processing.
func New(deps Deps, concurrency int) *Pipeline {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Pipeline{
		provider:    deps.Provider,
		grader:      deps.Grader,
		recorder:    deps.Recorder,
		aggregator:  deps.Aggregator,
		users:       deps.Users,
		metrics:     deps.Metrics,
		logger:      logger.OrNop(deps.Logger),
		concurrency: concurrency,
	}
}

func NewSessionID() string {
	return uuid.NewString()
}

// ProcessOne resolves the reference answer, grades the candidate answer and
// records the interaction.
func (p *Pipeline) ProcessOne(ctx context.Context, in ProcessInput) (*Result, error) {
	start := time.Now()

	if strings.TrimSpace(in.QuestionText) == "" {
		return nil, fmt.Errorf("%w: question text is required", ErrInvalidInput)
	}
	if in.SessionID == "" {
		in.SessionID = NewSessionID()
	}

	outcome, err := p.provider.Provide(ctx, in.QuestionText)
	if err != nil {
		p.metrics.ObserveAnswer("unresolved", StatusError, 0, 0)
		return nil, err
	}

	verdict := p.grader.Grade(ctx, outcome.EffectiveQuestion(), outcome.ReferenceAnswer(), in.CandidateAnswer)
	elapsed := time.Since(start)

	interaction, err := p.recorder.Record(ctx, RecordInput{
		CandidateID:        in.CandidateID,
		InterviewerID:      in.InterviewerID,
		QuestionSummarized: in.QuestionText,
		CandidateAnswer:    in.CandidateAnswer,
		Outcome:            outcome,
		Verdict:            verdict,
		SessionID:          in.SessionID,
		Elapsed:            elapsed,
	})
	if err != nil {
		p.metrics.ObserveAnswer(string(outcome.Provenance()), StatusError, 0, 0)
		return nil, err
	}

	p.metrics.ObserveAnswer(string(outcome.Provenance()), StatusSuccess,
		p.grader.Scale().Normalize(verdict.Score), elapsed.Seconds())

	p.logger.Debug("answer graded",
		zap.String("session_id", in.SessionID),
		zap.String("source", string(outcome.Provenance())),
		zap.Float64("score", verdict.Score),
		zap.Bool("passed", verdict.Passed),
	)

	score := verdict.Score
	return &Result{
		Status:             StatusSuccess,
		InteractionID:      interaction.ID,
		QuestionID:         outcome.QuestionID(),
		QuestionSummarized: in.QuestionText,
		QuestionMatched:    outcome.EffectiveQuestion(),
		CandidateAnswer:    in.CandidateAnswer,
		ReferenceAnswer:    outcome.ReferenceAnswer(),
		Score:              &score,
		Passed:             verdict.Passed,
		Feedback:           verdict.Feedback,
		AnswerSource:       outcome.Provenance(),
		SimilarityScore:    outcome.Similarity(),
		ProcessingTimeMs:   elapsed.Milliseconds(),
		SessionID:          in.SessionID,
	}, nil
}

// ProcessBatch grades every pair of one interview session and aggregates the
// successful results once all of them finished. Per-question failures become
// error entries. The returned error is set only when identities could not be
// resolved or ctx was cancelled; the report is never nil.
func (p *Pipeline) ProcessBatch(ctx context.Context, in BatchInput) (*BatchReport, error) {
	start := time.Now()

	in = withDefaults(in)
	report := &BatchReport{
		SessionID:       in.SessionID,
		CandidateName:   in.CandidateName,
		InterviewerName: in.InterviewerName,
		Position:        in.Position,
		Results:         make([]*Result, len(in.Pairs)),
	}

	candidate, err := p.users.FindOrCreate(ctx, in.CandidateName, model.RoleCandidate)
	if err != nil {
		return p.failBatch(report, fmt.Errorf("resolve candidate: %w", err))
	}
	interviewer, err := p.users.FindOrCreate(ctx, in.InterviewerName, model.RoleInterviewer)
	if err != nil {
		return p.failBatch(report, fmt.Errorf("resolve interviewer: %w", err))
	}
	report.CandidateID = candidate.ID
	report.InterviewerID = interviewer.ID
	interviewerID := interviewer.ID

	var g errgroup.Group
	g.SetLimit(p.concurrency)

	for i, pair := range in.Pairs {
		if ctx.Err() != nil {
			report.Results[i] = errorResult(i, pair, in.SessionID, ctx.Err())
			continue
		}
		g.Go(func() error {
			res, err := p.ProcessOne(ctx, ProcessInput{
				CandidateID:     candidate.ID,
				InterviewerID:   &interviewerID,
				CandidateAnswer: pair.Answer,
				QuestionText:    pair.Question,
				SessionID:       in.SessionID,
			})
			if err != nil {
				p.logger.Warn("question failed",
					zap.String("session_id", in.SessionID),
					zap.Int("index", i),
					zap.Error(err),
				)
				report.Results[i] = errorResult(i, pair, in.SessionID, err)
				return nil
			}
			res.Index = i
			report.Results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	successes := make([]*Result, 0, len(report.Results))
	for _, r := range report.Results {
		if r.Status == StatusSuccess {
			successes = append(successes, r)
		} else {
			report.ErrorCount++
		}
	}

	if err := ctx.Err(); err != nil {
		report.Status = StatusError
		report.Message = "batch cancelled before completion"
		report.Duration = time.Since(start)
		p.metrics.ObserveBatch(report.Status)
		return report, err
	}

	switch {
	case len(successes) == 0:
		report.Status = StatusError
		report.Message = "no question could be graded"
	case report.ErrorCount > 0:
		report.Status = StatusPartial
	default:
		report.Status = StatusSuccess
	}

	if len(successes) > 0 {
		summary, err := p.aggregator.Aggregate(ctx, AggregateInput{
			SessionID:     in.SessionID,
			CandidateID:   candidate.ID,
			InterviewerID: &interviewerID,
			CandidateName: in.CandidateName,
			Position:      in.Position,
			Results:       successes,
		})
		report.Summary = summary
		if err != nil {
			p.logger.Error("session aggregation failed", zap.String("session_id", in.SessionID), zap.Error(err))
			report.SummaryError = err.Error()
		}
	}

	report.Duration = time.Since(start)
	p.metrics.ObserveBatch(report.Status)
	p.logger.Info("batch processed",
		zap.String("session_id", in.SessionID),
		zap.String("status", report.Status),
		zap.Int("questions", len(in.Pairs)),
		zap.Int("errors", report.ErrorCount),
		zap.Duration("duration", report.Duration),
	)
	return report, nil
}

func (p *Pipeline) failBatch(report *BatchReport, err error) (*BatchReport, error) {
	report.Status = StatusError
	report.Message = err.Error()
	report.Results = nil
	p.metrics.ObserveBatch(report.Status)
	return report, err
}

func withDefaults(in BatchInput) BatchInput {
	if strings.TrimSpace(in.CandidateName) == "" {
		in.CandidateName = DefaultCandidateName
	}
	if strings.TrimSpace(in.InterviewerName) == "" {
		in.InterviewerName = DefaultInterviewerName
	}
	if strings.TrimSpace(in.Position) == "" {
		in.Position = DefaultPosition
	}
	if in.SessionID == "" {
		in.SessionID = NewSessionID()
	}
	return in
}

func errorResult(i int, pair QAPair, sessionID string, err error) *Result {
	msg := err.Error()
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		msg = "not processed: " + msg
	}
	return &Result{
		Status:             StatusError,
		Index:              i,
		QuestionSummarized: pair.Question,
		CandidateAnswer:    pair.Answer,
		SessionID:          sessionID,
		Message:            msg,
	}
}
