package model

import "time"

// Interaction is one graded exchange. Rows are written once and never updated.
// A nil QuestionID marks a question that did not match the corpus.
type Interaction struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	CandidateID        uint      `gorm:"not null;index" json:"candidate_id"`
	InterviewerID      *uint     `gorm:"index" json:"interviewer_id"`
	QuestionID         *uint     `gorm:"index" json:"question_id"`
	QuestionSummarized string    `gorm:"type:text" json:"question_summarized"`
	QuestionMatched    string    `gorm:"type:text" json:"question_matched"`
	AnswerOriginal     string    `gorm:"type:text;not null" json:"answer_original"`
	FinalAnswer        string    `gorm:"type:text" json:"final_answer"`
	AnswerSource       string    `gorm:"type:varchar(30)" json:"answer_source"`
	SimilarityScore    float64   `gorm:"type:float" json:"similarity_score"`
	IsPassed           bool      `gorm:"default:false" json:"is_passed"`
	GradingScore       *float64  `gorm:"type:float" json:"grading_score"`
	Feedback           string    `gorm:"type:text" json:"feedback"`
	SessionID          string    `gorm:"type:varchar(100);index" json:"session_id"`
	ProcessingTimeMs   int64     `json:"processing_time_ms"`
	CreatedAt          time.Time `gorm:"index" json:"created_at"`
}

func (i *Interaction) TableName() string {
	return "user_interactions"
}
