package repository

import (
	"context"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"github.com/fadilmartias/interview-grader/internal/model"
)

// ScoredQuestion is a question ranked by cosine distance to a query vector.
type ScoredQuestion struct {
	model.Question
	Distance float64 `gorm:"column:distance"`
}

type QuestionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{db}
}

// DistanceMetric selects the pgvector distance operator used for ranking.
type DistanceMetric string

const (
	CosineDistance DistanceMetric = "cosine"
	L2Distance     DistanceMetric = "l2"
)

func (m DistanceMetric) operator() string {
	if m == L2Distance {
		return "<->"
	}
	return "<=>"
}

// SearchSimilar orders embedded questions by the given pgvector distance.
// Unknown metrics fall back to cosine (<=>).
func (r *QuestionRepository) SearchSimilar(ctx context.Context, embedding pgvector.Vector, metric DistanceMetric, topK int) ([]ScoredQuestion, error) {
	var questions []ScoredQuestion

	op := metric.operator()
	err := r.db.WithContext(ctx).Raw(`
        SELECT id, name, answer, category, level, created_at, updated_at, embedding `+op+` ? AS distance
        FROM questions
        WHERE embedding IS NOT NULL
        ORDER BY embedding `+op+` ?
        LIMIT ?
    `, embedding, embedding, topK).Scan(&questions).Error

	return questions, err
}

func (r *QuestionRepository) Create(ctx context.Context, q *model.Question) error {
	return r.db.WithContext(ctx).Create(q).Error
}

func (r *QuestionRepository) UpdateEmbedding(ctx context.Context, id uint, embedding pgvector.Vector) error {
	return r.db.WithContext(ctx).
		Model(&model.Question{}).
		Where("id = ?", id).
		Update("embedding", embedding).Error
}

func (r *QuestionRepository) FindByID(ctx context.Context, id uint) (*model.Question, error) {
	var q model.Question
	if err := r.db.WithContext(ctx).First(&q, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &q, nil
}

// FindByIDs returns the questions keyed by id; unknown ids are absent.
func (r *QuestionRepository) FindByIDs(ctx context.Context, ids []uint) (map[uint]model.Question, error) {
	out := make(map[uint]model.Question, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var questions []model.Question
	if err := r.db.WithContext(ctx).Omit("embedding").Where("id IN ?", ids).Find(&questions).Error; err != nil {
		return nil, err
	}
	for _, q := range questions {
		out[q.ID] = q
	}
	return out, nil
}

func (r *QuestionRepository) All(ctx context.Context) ([]model.Question, error) {
	var questions []model.Question
	err := r.db.WithContext(ctx).Order("id").Find(&questions).Error
	return questions, err
}

func (r *QuestionRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Question{}).Count(&n).Error
	return n, err
}
