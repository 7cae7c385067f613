package usecase

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pgvector/pgvector-go"
	"go.uber.org/zap"

	"github.com/fadilmartias/interview-grader/internal/dto"
	"github.com/fadilmartias/interview-grader/internal/importer"
	"github.com/fadilmartias/interview-grader/internal/logger"
	"github.com/fadilmartias/interview-grader/internal/model"
	"github.com/fadilmartias/interview-grader/internal/repository"
	"github.com/fadilmartias/interview-grader/internal/service"
)

// CorpusIndex is an in-process copy of the question corpus kept next to the
// database, such as search.MemorySearcher.
type CorpusIndex interface {
	Add(ctx context.Context, questions ...model.Question) error
}

type QuestionUsecase struct {
	questions *repository.QuestionRepository
	embedder  service.Embedder
	index     CorpusIndex
	logger    *zap.Logger
}

// NewQuestionUsecase builds the usecase; index may be nil.
func NewQuestionUsecase(questions *repository.QuestionRepository, embedder service.Embedder, index CorpusIndex, log *zap.Logger) *QuestionUsecase {
	return &QuestionUsecase{questions: questions, embedder: embedder, index: index, logger: logger.OrNop(log)}
}

func (uc *QuestionUsecase) ImportFile(ctx context.Context, path string) (dto.ImportResult, error) {
	rows, err := importer.ReadFile(path)
	if err != nil {
		return dto.ImportResult{}, err
	}
	return uc.Import(ctx, rows)
}

func (uc *QuestionUsecase) ImportReader(ctx context.Context, r io.Reader, ext string) (dto.ImportResult, error) {
	rows, err := importer.Parse(r, ext)
	if err != nil {
		return dto.ImportResult{}, err
	}
	return uc.Import(ctx, rows)
}

// Import embeds and stores every row. Rows whose embedding fails are skipped.
func (uc *QuestionUsecase) Import(ctx context.Context, rows []importer.Row) (dto.ImportResult, error) {
	var res dto.ImportResult
	imported := make([]model.Question, 0, len(rows))

	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		vec, err := uc.embedder.Embed(ctx, row.Name)
		if err != nil {
			uc.logger.Warn("skipping question, embedding failed",
				zap.String("question", logger.TruncateForLog(row.Name, 80)),
				zap.Error(err),
			)
			res.Skipped++
			continue
		}

		embedding := pgvector.NewVector(vec)
		q := model.Question{
			Name:      row.Name,
			Category:  row.Category,
			Level:     row.Level,
			Embedding: &embedding,
		}
		if answer := strings.TrimSpace(row.Answer); answer != "" {
			q.Answer = &answer
		}
		if err := uc.questions.Create(ctx, &q); err != nil {
			return res, fmt.Errorf("store question %q: %w", row.Name, err)
		}
		imported = append(imported, q)
		res.Imported++
	}

	if uc.index != nil {
		if err := uc.index.Add(ctx, imported...); err != nil {
			return res, err
		}
	}

	uc.logger.Info("questions imported", zap.Int("imported", res.Imported), zap.Int("skipped", res.Skipped))
	return res, nil
}

// Reindex embeds stored questions that have no embedding yet.
func (uc *QuestionUsecase) Reindex(ctx context.Context) (int, error) {
	questions, err := uc.questions.All(ctx)
	if err != nil {
		return 0, err
	}

	var n int
	for _, q := range questions {
		if q.Embedding != nil {
			continue
		}
		vec, err := uc.embedder.Embed(ctx, q.Name)
		if err != nil {
			return n, fmt.Errorf("embed question %d: %w", q.ID, err)
		}
		if err := uc.questions.UpdateEmbedding(ctx, q.ID, pgvector.NewVector(vec)); err != nil {
			return n, fmt.Errorf("update embedding %d: %w", q.ID, err)
		}
		n++
	}
	return n, nil
}

// LoadIndex copies the stored corpus into the in-process index.
func (uc *QuestionUsecase) LoadIndex(ctx context.Context) (int, error) {
	if uc.index == nil {
		return 0, nil
	}
	questions, err := uc.questions.All(ctx)
	if err != nil {
		return 0, err
	}
	if err := uc.index.Add(ctx, questions...); err != nil {
		return 0, err
	}
	return len(questions), nil
}
