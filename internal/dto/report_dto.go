package dto

import (
	"time"

	"github.com/fadilmartias/interview-grader/internal/response"
)

type InterviewFilter struct {
	Page        int
	PageSize    int
	Candidate   string
	Interviewer string
	Position    string
	Result      string
}

type InterviewItem struct {
	SessionID       string    `json:"session_id"`
	CandidateID     uint      `json:"candidate_id"`
	CandidateName   string    `json:"candidate_name"`
	InterviewerName string    `json:"interviewer_name"`
	Position        string    `json:"position"`
	TotalQuestions  int       `json:"total_questions"`
	PassedQuestions int       `json:"passed_questions"`
	AverageScore    float64   `json:"average_score"`
	OverallResult   string    `json:"overall_result"`
	CreatedAt       time.Time `json:"created_at"`
}

type InterviewTotals struct {
	Total int64 `json:"total"`
	Pass  int64 `json:"pass"`
	Fail  int64 `json:"fail"`
}

type InterviewList struct {
	Items      []InterviewItem      `json:"items"`
	Totals     InterviewTotals      `json:"totals"`
	Pagination *response.Pagination `json:"-"`
}

type QuestionItem struct {
	InteractionID    uint     `json:"interaction_id"`
	QuestionID       *uint    `json:"question_id"`
	Question         string   `json:"question"`
	CandidateAnswer  string   `json:"candidate_answer"`
	ReferenceAnswer  string   `json:"reference_answer"`
	AnswerSource     string   `json:"answer_source"`
	SimilarityScore  float64  `json:"similarity_score"`
	Score            *float64 `json:"score"`
	Passed           bool     `json:"passed"`
	Feedback         string   `json:"feedback"`
	ProcessingTimeMs int64    `json:"processing_time_ms"`
}

type InterviewDetail struct {
	InterviewItem
	Strengths  string         `json:"strengths"`
	Weaknesses string         `json:"weaknesses"`
	Summary    string         `json:"summary"`
	Questions  []QuestionItem `json:"questions"`
}

type SessionReport struct {
	SessionID      string         `json:"session_id"`
	TotalQuestions int            `json:"total_questions"`
	PassedCount    int            `json:"passed_count"`
	PassRate       float64        `json:"pass_rate"`
	AverageScore   float64        `json:"average_score"`
	Questions      []QuestionItem `json:"questions"`
}

type CandidateReport struct {
	CandidateID  uint           `json:"candidate_id"`
	Name         string         `json:"name"`
	Total        int64          `json:"total_interactions"`
	Passed       int64          `json:"passed"`
	PassRate     float64        `json:"pass_rate"`
	AverageScore float64        `json:"average_score"`
	Interactions []QuestionItem `json:"interactions"`
}

type Statistics struct {
	TotalQuestions    int64   `json:"total_questions"`
	TotalInteractions int64   `json:"total_interactions"`
	TotalCandidates   int64   `json:"total_candidates"`
	Passed            int64   `json:"passed"`
	PassRate          float64 `json:"pass_rate"`
	AverageScore      float64 `json:"average_score"`
}
