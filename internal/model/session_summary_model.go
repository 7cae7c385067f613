package model

import "time"

const (
	ResultPass = "pass"
	ResultFail = "fail"
)

// SessionSummary is upserted by SessionID; there is exactly one row per session.
type SessionSummary struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	SessionID       string    `gorm:"type:varchar(100);not null;uniqueIndex" json:"session_id"`
	CandidateID     uint      `gorm:"not null;index" json:"candidate_id"`
	InterviewerID   *uint     `gorm:"index" json:"interviewer_id"`
	Position        string    `gorm:"type:varchar(100)" json:"position"`
	TotalQuestions  int       `json:"total_questions"`
	PassedQuestions int       `json:"passed_questions"`
	AverageScore    float64   `gorm:"type:float" json:"average_score"`
	OverallResult   string    `gorm:"type:varchar(20)" json:"overall_result"`
	Strengths       string    `gorm:"type:text" json:"strengths"`
	Weaknesses      string    `gorm:"type:text" json:"weaknesses"`
	Summary         string    `gorm:"type:text" json:"summary"`
	CreatedAt       time.Time `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (s *SessionSummary) TableName() string {
	return "interview_sessions"
}
