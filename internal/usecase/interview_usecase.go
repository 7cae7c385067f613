package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/fadilmartias/interview-grader/internal/dto"
	"github.com/fadilmartias/interview-grader/internal/logger"
	"github.com/fadilmartias/interview-grader/internal/model"
	"github.com/fadilmartias/interview-grader/internal/pipeline"
	"github.com/fadilmartias/interview-grader/internal/queue"
)

const (
	SubmissionQueued     = "queued"
	SubmissionProcessing = "processing"
)

type AnswerProcessor interface {
	ProcessOne(ctx context.Context, in pipeline.ProcessInput) (*pipeline.Result, error)
}

type BatchProcessor interface {
	ProcessBatch(ctx context.Context, in pipeline.BatchInput) (*pipeline.BatchReport, error)
}

type Grader interface {
	AnswerProcessor
	BatchProcessor
}

// Publisher hands a batch to an out-of-process worker.
type Publisher interface {
	Publish(ctx context.Context, job queue.BatchJob) error
}

type InterviewUsecase struct {
	grader    Grader
	users     pipeline.UserStore
	publisher Publisher
	logger    *zap.Logger

	background sync.WaitGroup
}

// NewInterviewUsecase builds the usecase. A nil publisher makes Submit grade
// in a background goroutine of this process.
func NewInterviewUsecase(grader Grader, users pipeline.UserStore, publisher Publisher, log *zap.Logger) *InterviewUsecase {
	return &InterviewUsecase{
		grader:    grader,
		users:     users,
		publisher: publisher,
		logger:    logger.OrNop(log),
	}
}

// ProcessAnswer grades one answer, resolving both participants by name.
func (uc *InterviewUsecase) ProcessAnswer(ctx context.Context, req dto.AnswerRequest) (*pipeline.Result, error) {
	candidate, err := uc.users.FindOrCreate(ctx, orDefault(req.CandidateName, pipeline.DefaultCandidateName), model.RoleCandidate)
	if err != nil {
		return nil, fmt.Errorf("resolve candidate: %w", err)
	}
	interviewer, err := uc.users.FindOrCreate(ctx, orDefault(req.InterviewerName, pipeline.DefaultInterviewerName), model.RoleInterviewer)
	if err != nil {
		return nil, fmt.Errorf("resolve interviewer: %w", err)
	}

	return uc.grader.ProcessOne(ctx, pipeline.ProcessInput{
		CandidateID:     candidate.ID,
		InterviewerID:   &interviewer.ID,
		CandidateAnswer: req.Answer,
		QuestionText:    req.Question,
		SessionID:       req.SessionID,
	})
}

func (uc *InterviewUsecase) ProcessBatch(ctx context.Context, req dto.BatchRequest) (*pipeline.BatchReport, error) {
	return uc.grader.ProcessBatch(ctx, req.Input())
}

// Submit accepts a batch for background grading and returns its session id
// right away.
func (uc *InterviewUsecase) Submit(ctx context.Context, req dto.BatchRequest) (dto.Submission, error) {
	if req.SessionID == "" {
		req.SessionID = pipeline.NewSessionID()
	}

	if uc.publisher != nil {
		job := queue.BatchJob{
			SessionID:       req.SessionID,
			CandidateName:   req.CandidateName,
			InterviewerName: req.InterviewerName,
			Position:        req.Position,
			Pairs:           req.QAPairs,
		}
		if err := uc.publisher.Publish(ctx, job); err != nil {
			return dto.Submission{}, fmt.Errorf("publish batch: %w", err)
		}
		return dto.Submission{SessionID: req.SessionID, Status: SubmissionQueued}, nil
	}

	bg := context.WithoutCancel(ctx)
	uc.background.Add(1)
	go func() {
		defer uc.background.Done()
		if _, err := uc.grader.ProcessBatch(bg, req.Input()); err != nil {
			uc.logger.Error("background batch failed", zap.String("session_id", req.SessionID), zap.Error(err))
		}
	}()
	return dto.Submission{SessionID: req.SessionID, Status: SubmissionProcessing}, nil
}

// HandleJob grades a batch received from the queue.
func (uc *InterviewUsecase) HandleJob(ctx context.Context, job queue.BatchJob) error {
	report, err := uc.grader.ProcessBatch(ctx, job.Input())
	if err != nil {
		return err
	}
	uc.logger.Info("queued batch graded",
		zap.String("session_id", report.SessionID),
		zap.String("status", report.Status),
	)
	return nil
}

// Wait blocks until every in-process background batch has finished.
func (uc *InterviewUsecase) Wait() {
	uc.background.Wait()
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
