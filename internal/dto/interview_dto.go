package dto

import (
	"strings"

	"github.com/fadilmartias/interview-grader/internal/pipeline"
)

type AnswerRequest struct {
	CandidateName   string `json:"candidate_name"`
	InterviewerName string `json:"interviewer_name"`
	Question        string `json:"question"`
	Answer          string `json:"answer"`
	SessionID       string `json:"session_id"`
}

// Validate returns field errors, or nil when the request is usable.
func (r AnswerRequest) Validate() map[string]string {
	errs := map[string]string{}
	if strings.TrimSpace(r.Question) == "" {
		errs["question"] = "question is required"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

type BatchRequest struct {
	CandidateName   string            `json:"candidate_name"`
	InterviewerName string            `json:"interviewer_name"`
	Position        string            `json:"position"`
	SessionID       string            `json:"session_id"`
	QAPairs         []pipeline.QAPair `json:"qa_pairs"`
}

func (r BatchRequest) Validate() map[string]string {
	errs := map[string]string{}
	if len(r.QAPairs) == 0 {
		errs["qa_pairs"] = "at least one question/answer pair is required"
	}
	for _, p := range r.QAPairs {
		if strings.TrimSpace(p.Question) == "" {
			errs["qa_pairs"] = "every pair needs a question"
			break
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (r BatchRequest) Input() pipeline.BatchInput {
	return pipeline.BatchInput{
		CandidateName:   r.CandidateName,
		InterviewerName: r.InterviewerName,
		Position:        r.Position,
		SessionID:       r.SessionID,
		Pairs:           r.QAPairs,
	}
}

// Submission acknowledges a batch accepted for background grading.
type Submission struct {
	SessionID string `json:"session_id"`
	Status    string `json:"status"`
}

// TranscriptResult is the outcome of grading one transcript.
type TranscriptResult struct {
	InterviewerName string                `json:"interviewer_name"`
	CandidateName   string                `json:"candidate_name"`
	Summary         string                `json:"summary"`
	ExtractedPairs  int                   `json:"extracted_pairs"`
	GradedPairs     int                   `json:"graded_pairs"`
	Heuristic       bool                  `json:"heuristic"`
	Report          *pipeline.BatchReport `json:"report,omitempty"`
}

type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}
