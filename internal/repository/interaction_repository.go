package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/fadilmartias/interview-grader/internal/model"
)

// InteractionStats summarizes a set of interactions.
type InteractionStats struct {
	Total        int64   `gorm:"column:total"`
	Passed       int64   `gorm:"column:passed"`
	AverageScore float64 `gorm:"column:average_score"`
	Candidates   int64   `gorm:"column:candidates"`
}

type InteractionRepository struct {
	db *gorm.DB
}

func NewInteractionRepository(db *gorm.DB) *InteractionRepository {
	return &InteractionRepository{db}
}

// Create inserts the interaction. There is no update path.
func (r *InteractionRepository) Create(ctx context.Context, i *model.Interaction) error {
	return r.db.WithContext(ctx).Create(i).Error
}

func (r *InteractionRepository) ListBySession(ctx context.Context, sessionID string) ([]model.Interaction, error) {
	var items []model.Interaction
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("id").
		Find(&items).Error
	return items, err
}

func (r *InteractionRepository) ListByCandidate(ctx context.Context, candidateID uint) ([]model.Interaction, error) {
	var items []model.Interaction
	err := r.db.WithContext(ctx).
		Where("candidate_id = ?", candidateID).
		Order("created_at DESC, id DESC").
		Find(&items).Error
	return items, err
}

// Stats aggregates all interactions, or only those of candidateID when set.
func (r *InteractionRepository) Stats(ctx context.Context, candidateID *uint) (InteractionStats, error) {
	var stats InteractionStats

	q := r.db.WithContext(ctx).
		Model(&model.Interaction{}).
		Select(`COUNT(*) AS total,
            COALESCE(SUM(CASE WHEN is_passed THEN 1 ELSE 0 END), 0) AS passed,
            COALESCE(AVG(grading_score), 0) AS average_score,
            COUNT(DISTINCT candidate_id) AS candidates`)
	if candidateID != nil {
		q = q.Where("candidate_id = ?", *candidateID)
	}

	err := q.Scan(&stats).Error
	return stats, err
}
