package pipeline

import (
	"context"

	"github.com/fadilmartias/interview-grader/internal/model"
)

// Searcher ranks corpus entries by similarity to text, most similar first.
type Searcher interface {
	Search(ctx context.Context, text string, k int) ([]Match, error)
}

type AnswerGenerator interface {
	Generate(ctx context.Context, question, context string) (string, error)
}

type Condenser interface {
	Condense(ctx context.Context, text string) (string, error)
}

// Scorer returns the raw SCORE/PASSED/FEEDBACK text for one answer.
type Scorer interface {
	Score(ctx context.Context, question, reference, answer string) (string, error)
}

type Summarizer interface {
	Summarize(ctx context.Context, candidateName, position string, details []QuestionDetail) (Narrative, error)
}

type UserStore interface {
	FindOrCreate(ctx context.Context, name, role string) (*model.User, error)
}

type InteractionStore interface {
	Create(ctx context.Context, interaction *model.Interaction) error
}

type SessionStore interface {
	Upsert(ctx context.Context, summary *model.SessionSummary) error
}
