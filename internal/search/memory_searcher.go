package search

import (
	"context"
	"fmt"
	"runtime"
	"strconv"

	"github.com/philippgille/chromem-go"

	"github.com/fadilmartias/interview-grader/internal/model"
	"github.com/fadilmartias/interview-grader/internal/pipeline"
)

const collectionName = "questions"

// MemorySearcher keeps the question corpus in an in-process chromem collection.
type MemorySearcher struct {
	collection *chromem.Collection
}

func NewMemorySearcher(embedder Embedder) (*MemorySearcher, error) {
	db := chromem.NewDB()

	embeddingFunc := func(ctx context.Context, text string) ([]float32, error) {
		return embedder.Embed(ctx, text)
	}

	collection, err := db.GetOrCreateCollection(collectionName, nil, embeddingFunc)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}
	return &MemorySearcher{collection: collection}, nil
}

// Add indexes questions, reusing stored embeddings when present.
func (s *MemorySearcher) Add(ctx context.Context, questions ...model.Question) error {
	if len(questions) == 0 {
		return nil
	}

	docs := make([]chromem.Document, 0, len(questions))
	for _, q := range questions {
		doc := chromem.Document{
			ID:      strconv.FormatUint(uint64(q.ID), 10),
			Content: q.Name,
			Metadata: map[string]string{
				"answer":   q.StoredAnswer(),
				"category": q.Category,
				"level":    q.Level,
			},
		}
		if q.Embedding != nil {
			doc.Embedding = q.Embedding.Slice()
		}
		docs = append(docs, doc)
	}

	if err := s.collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("index questions: %w", err)
	}
	return nil
}

func (s *MemorySearcher) Count() int {
	return s.collection.Count()
}

func (s *MemorySearcher) Search(ctx context.Context, text string, k int) ([]pipeline.Match, error) {
	n := min(k, s.collection.Count())
	if n <= 0 {
		return nil, nil
	}

	results, err := s.collection.Query(ctx, text, n, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("query collection: %w", err)
	}

	matches := make([]pipeline.Match, 0, len(results))
	for _, r := range results {
		id, err := strconv.ParseUint(r.ID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("document id %q: %w", r.ID, err)
		}
		matches = append(matches, pipeline.Match{
			QuestionID: uint(id),
			Text:       r.Content,
			Answer:     r.Metadata["answer"],
			Category:   r.Metadata["category"],
			Level:      r.Metadata["level"],
			Similarity: clamp01(float64(r.Similarity)),
		})
	}
	return matches, nil
}
