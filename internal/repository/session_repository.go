package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fadilmartias/interview-grader/internal/model"
)

type SessionFilter struct {
	Candidate   string
	Interviewer string
	Position    string
	Result      string
	Offset      int
	Limit       int
}

// SessionRow is a session summary joined with participant names.
type SessionRow struct {
	model.SessionSummary
	CandidateName   string `gorm:"column:candidate_name"`
	InterviewerName string `gorm:"column:interviewer_name"`
}

type SessionTotals struct {
	Total int64 `gorm:"column:total"`
	Pass  int64 `gorm:"column:pass"`
	Fail  int64 `gorm:"column:fail"`
}

type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db}
}

// Upsert writes the summary, overwriting the existing row for its session id.
func (r *SessionRepository) Upsert(ctx context.Context, s *model.SessionSummary) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "session_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"candidate_id",
			"interviewer_id",
			"position",
			"total_questions",
			"passed_questions",
			"average_score",
			"overall_result",
			"strengths",
			"weaknesses",
			"summary",
			"updated_at",
		}),
	}).Create(s).Error
}

func (r *SessionRepository) FindBySessionID(ctx context.Context, sessionID string) (*SessionRow, error) {
	var rows []SessionRow
	err := r.joined(ctx).
		Where("s.session_id = ?", sessionID).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return &rows[0], nil
}

// List returns one page of sessions, newest first, and the filtered count.
func (r *SessionRepository) List(ctx context.Context, f SessionFilter) ([]SessionRow, int64, error) {
	var total int64
	if err := applyFilter(r.from(ctx), f).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []SessionRow
	q := applyFilter(r.joined(ctx), f).Order("s.created_at DESC, s.id DESC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}
	if err := q.Scan(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// Totals counts all sessions by overall result, ignoring filters.
func (r *SessionRepository) Totals(ctx context.Context) (SessionTotals, error) {
	var t SessionTotals
	err := r.db.WithContext(ctx).
		Model(&model.SessionSummary{}).
		Select(`COUNT(*) AS total,
            COALESCE(SUM(CASE WHEN overall_result = ? THEN 1 ELSE 0 END), 0) AS pass,
            COALESCE(SUM(CASE WHEN overall_result = ? THEN 1 ELSE 0 END), 0) AS fail`,
			model.ResultPass, model.ResultFail).
		Scan(&t).Error
	return t, err
}

func (r *SessionRepository) from(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("interview_sessions AS s").
		Joins("LEFT JOIN users c ON c.id = s.candidate_id").
		Joins("LEFT JOIN users i ON i.id = s.interviewer_id")
}

func (r *SessionRepository) joined(ctx context.Context) *gorm.DB {
	return r.from(ctx).Select("s.*, c.name AS candidate_name, i.name AS interviewer_name")
}

func applyFilter(q *gorm.DB, f SessionFilter) *gorm.DB {
	if v := strings.TrimSpace(f.Candidate); v != "" {
		q = q.Where("LOWER(c.name) LIKE ?", "%"+strings.ToLower(v)+"%")
	}
	if v := strings.TrimSpace(f.Interviewer); v != "" {
		q = q.Where("LOWER(i.name) LIKE ?", "%"+strings.ToLower(v)+"%")
	}
	if v := strings.TrimSpace(f.Position); v != "" {
		q = q.Where("LOWER(s.position) LIKE ?", "%"+strings.ToLower(v)+"%")
	}
	if v := strings.TrimSpace(f.Result); v != "" {
		q = q.Where("s.overall_result = ?", strings.ToLower(v))
	}
	return q
}
