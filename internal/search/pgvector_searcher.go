package search

import (
	"context"
	"fmt"

	"github.com/pgvector/pgvector-go"

	"github.com/fadilmartias/interview-grader/internal/pipeline"
	"github.com/fadilmartias/interview-grader/internal/repository"
)

type similarQuestionFinder interface {
	SearchSimilar(ctx context.Context, embedding pgvector.Vector, metric repository.DistanceMetric, topK int) ([]repository.ScoredQuestion, error)
}

// PgvectorSearcher embeds the query and ranks questions inside Postgres.
type PgvectorSearcher struct {
	embedder  Embedder
	questions similarQuestionFinder
	metric    repository.DistanceMetric
}

// NewPgvectorSearcher ranks by cosine distance unless metric is L2Distance.
func NewPgvectorSearcher(embedder Embedder, questions similarQuestionFinder, metric repository.DistanceMetric) *PgvectorSearcher {
	if metric != repository.L2Distance {
		metric = repository.CosineDistance
	}
	return &PgvectorSearcher{embedder: embedder, questions: questions, metric: metric}
}

func (s *PgvectorSearcher) Search(ctx context.Context, text string, k int) ([]pipeline.Match, error) {
	vec, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	scored, err := s.questions.SearchSimilar(ctx, pgvector.NewVector(vec), s.metric, k)
	if err != nil {
		return nil, fmt.Errorf("search similar questions: %w", err)
	}

	matches := make([]pipeline.Match, 0, len(scored))
	for _, q := range scored {
		matches = append(matches, pipeline.Match{
			QuestionID: q.ID,
			Text:       q.Name,
			Answer:     q.StoredAnswer(),
			Category:   q.Category,
			Level:      q.Level,
			Similarity: s.similarity(q.Distance),
		})
	}
	return matches, nil
}

func (s *PgvectorSearcher) similarity(distance float64) float64 {
	if s.metric == repository.L2Distance {
		return L2Similarity(distance)
	}
	return CosineSimilarity(distance)
}
