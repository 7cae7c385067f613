package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/fadilmartias/interview-grader/internal/model"
)

type RecordInput struct {
	CandidateID        uint
	InterviewerID      *uint
	QuestionSummarized string
	CandidateAnswer    string
	Outcome            MatchOutcome
	Verdict            Verdict
	SessionID          string
	Elapsed            time.Duration
}

// Recorder persists graded interactions. Records are append-only.
type Recorder struct {
	store InteractionStore
}

func NewRecorder(store InteractionStore) *Recorder {
	return &Recorder{store: store}
}

func (r *Recorder) Record(ctx context.Context, in RecordInput) (*model.Interaction, error) {
	score := in.Verdict.Score
	interaction := &model.Interaction{
		CandidateID:        in.CandidateID,
		InterviewerID:      in.InterviewerID,
		QuestionID:         in.Outcome.QuestionID(),
		QuestionSummarized: in.QuestionSummarized,
		QuestionMatched:    in.Outcome.EffectiveQuestion(),
		AnswerOriginal:     in.CandidateAnswer,
		FinalAnswer:        in.Outcome.ReferenceAnswer(),
		AnswerSource:       string(in.Outcome.Provenance()),
		SimilarityScore:    in.Outcome.Similarity(),
		IsPassed:           in.Verdict.Passed,
		GradingScore:       &score,
		Feedback:           in.Verdict.Feedback,
		SessionID:          in.SessionID,
		ProcessingTimeMs:   in.Elapsed.Milliseconds(),
	}

	if err := r.store.Create(ctx, interaction); err != nil {
		return nil, fmt.Errorf("record interaction: %w", err)
	}
	return interaction, nil
}
