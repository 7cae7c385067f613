// Package pipeline resolves a reference answer for an interview question,
// grades the candidate's answer against it, records the graded interaction
// and folds a batch of interactions into a session summary.
package pipeline

import (
	"errors"
	"math"
	"time"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrEmptyAnswer  = errors.New("generated reference answer is empty")
)

const (
	StatusSuccess = "success"
	StatusPartial = "partial"
	StatusError   = "error"
)

// Match is one ranked hit from the question corpus. Similarity is normalized to [0,1].
type Match struct {
	QuestionID uint
	Text       string
	Answer     string
	Category   string
	Level      string
	Similarity float64
}

// Provenance tags where a reference answer came from.
type Provenance string

const (
	ProvenanceStored       Provenance = "stored"
	ProvenanceGenerated    Provenance = "generated"
	ProvenanceGeneratedNew Provenance = "generated_new"
)

// MatchOutcome is the result of reference resolution. It is one of
// Stored, GeneratedFromMatch or GeneratedFromUnmatched.
type MatchOutcome interface {
	Provenance() Provenance
	// QuestionID is nil only for GeneratedFromUnmatched.
	QuestionID() *uint
	// EffectiveQuestion is the question text the answer is graded against.
	EffectiveQuestion() string
	ReferenceAnswer() string
	Similarity() float64

	matchOutcome()
}

// Stored: the question matched and the corpus holds a reference answer.
type Stored struct {
	Match Match
}

func (o Stored) Provenance() Provenance    { return ProvenanceStored }
func (o Stored) QuestionID() *uint         { id := o.Match.QuestionID; return &id }
func (o Stored) EffectiveQuestion() string { return o.Match.Text }
func (o Stored) ReferenceAnswer() string   { return o.Match.Answer }
func (o Stored) Similarity() float64       { return o.Match.Similarity }
func (Stored) matchOutcome()               {}

// GeneratedFromMatch: the question matched but had no stored answer.
type GeneratedFromMatch struct {
	Match  Match
	Answer string
}

func (o GeneratedFromMatch) Provenance() Provenance    { return ProvenanceGenerated }
func (o GeneratedFromMatch) QuestionID() *uint         { id := o.Match.QuestionID; return &id }
func (o GeneratedFromMatch) EffectiveQuestion() string { return o.Match.Text }
func (o GeneratedFromMatch) ReferenceAnswer() string   { return o.Answer }
func (o GeneratedFromMatch) Similarity() float64       { return o.Match.Similarity }
func (GeneratedFromMatch) matchOutcome()               {}

// GeneratedFromUnmatched: nothing in the corpus cleared the threshold.
type GeneratedFromUnmatched struct {
	Original   string
	Normalized string
	Answer     string
}

func (o GeneratedFromUnmatched) Provenance() Provenance    { return ProvenanceGeneratedNew }
func (o GeneratedFromUnmatched) QuestionID() *uint         { return nil }
func (o GeneratedFromUnmatched) EffectiveQuestion() string { return o.Normalized }
func (o GeneratedFromUnmatched) ReferenceAnswer() string   { return o.Answer }
func (o GeneratedFromUnmatched) Similarity() float64       { return 0 }
func (GeneratedFromUnmatched) matchOutcome()               {}

// Scale bounds grading scores, e.g. 0-10 or 0-100.
type Scale struct {
	Min float64
	Max float64
}

func NewScale(max float64) Scale {
	return Scale{Min: 0, Max: max}
}

func (s Scale) Clamp(v float64) float64 {
	if math.IsNaN(v) {
		return s.Min
	}
	return math.Max(s.Min, math.Min(s.Max, v))
}

// Normalize maps a score on the scale to [0,1].
func (s Scale) Normalize(v float64) float64 {
	if s.Max <= s.Min {
		return 0
	}
	return (s.Clamp(v) - s.Min) / (s.Max - s.Min)
}

// Verdict is the parsed grading output.
type Verdict struct {
	Score    float64
	Passed   bool
	Feedback string
	Raw      string
	// Parsed is false when the score marker was missing or unreadable.
	Parsed bool
}

// QuestionDetail is the per-question input for the narrative summarizer.
type QuestionDetail struct {
	Question string
	Answer   string
	Score    float64
	Passed   bool
	Feedback string
}

type Narrative struct {
	Strengths  string
	Weaknesses string
	Overview   string
}

type ProcessInput struct {
	CandidateID     uint
	InterviewerID   *uint
	CandidateAnswer string
	QuestionText    string
	SessionID       string
}

// Result is the outcome of one question. Error entries carry only Status,
// Index, the input texts and Message.
type Result struct {
	Status             string     `json:"status"`
	Index              int        `json:"index"`
	InteractionID      uint       `json:"interaction_id,omitempty"`
	QuestionID         *uint      `json:"question_id"`
	QuestionSummarized string     `json:"question_summarized"`
	QuestionMatched    string     `json:"question_matched,omitempty"`
	CandidateAnswer    string     `json:"candidate_answer"`
	ReferenceAnswer    string     `json:"reference_answer,omitempty"`
	Score              *float64   `json:"score"`
	Passed             bool       `json:"passed"`
	Feedback           string     `json:"feedback,omitempty"`
	AnswerSource       Provenance `json:"answer_source,omitempty"`
	SimilarityScore    float64    `json:"similarity_score"`
	ProcessingTimeMs   int64      `json:"processing_time_ms"`
	SessionID          string     `json:"session_id"`
	Message            string     `json:"message,omitempty"`
}

type QAPair struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type BatchInput struct {
	CandidateName   string
	InterviewerName string
	Position        string
	Pairs           []QAPair
	// SessionID is generated when empty.
	SessionID string
}

// SessionReport is the aggregate over the graded results of one session.
type SessionReport struct {
	SessionID          string  `json:"session_id"`
	TotalQuestions     int     `json:"total_questions"`
	PassedCount        int     `json:"passed_count"`
	PassRate           float64 `json:"pass_rate"`
	AverageScore       float64 `json:"average_score"`
	OverallResult      string  `json:"overall_result"`
	Strengths          string  `json:"strengths"`
	Weaknesses         string  `json:"weaknesses"`
	Overview           string  `json:"summary"`
	NarrativeAvailable bool    `json:"narrative_available"`
}

type BatchReport struct {
	Status          string         `json:"status"`
	SessionID       string         `json:"session_id"`
	CandidateName   string         `json:"candidate_name"`
	CandidateID     uint           `json:"candidate_id"`
	InterviewerName string         `json:"interviewer_name"`
	InterviewerID   uint           `json:"interviewer_id"`
	Position        string         `json:"position"`
	ErrorCount      int            `json:"error_count"`
	Summary         *SessionReport `json:"summary,omitempty"`
	SummaryError    string         `json:"summary_error,omitempty"`
	Results         []*Result      `json:"results"`
	Message         string         `json:"message,omitempty"`
	Duration        time.Duration  `json:"-"`
}
