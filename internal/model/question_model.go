package model

import (
	"time"

	"github.com/pgvector/pgvector-go"
)

// EmbeddingDimensions must match the vector column size below and the
// output dimensionality requested from the embedding model.
const EmbeddingDimensions = 768

type Question struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	Name      string           `gorm:"type:text;not null" json:"name"`
	Answer    *string          `gorm:"type:text" json:"answer"`
	Category  string           `gorm:"type:varchar(50)" json:"category"` // technical, behavioral, soft_skills
	Level     string           `gorm:"type:varchar(20)" json:"level"`    // junior, mid, senior, all
	Embedding *pgvector.Vector `gorm:"type:vector(768)" json:"-"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

func (q *Question) TableName() string {
	return "questions"
}

// StoredAnswer returns the reference answer kept for the question, or "" when none.
func (q *Question) StoredAnswer() string {
	if q == nil || q.Answer == nil {
		return ""
	}
	return *q.Answer
}
