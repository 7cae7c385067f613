package chain

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/kaptinlin/jsonrepair"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/fadilmartias/interview-grader/internal/logger"
	"github.com/fadilmartias/interview-grader/internal/pipeline"
	"github.com/fadilmartias/interview-grader/internal/service"
)

const (
	transcriptTemperature = 0.3

	UnknownName    = "Unknown"
	NoClearAnswer  = "No clear answer provided"
	noSummaryValue = "Summary not available"
)

// TranscriptAnalysis is the structured view of a raw interview transcript.
type TranscriptAnalysis struct {
	InterviewerName string            `json:"interviewer_name"`
	CandidateName   string            `json:"candidate_name"`
	Summary         string            `json:"summary"`
	Pairs           []pipeline.QAPair `json:"qa_pairs"`
	// Heuristic is set when the pairs came from sentence splitting instead of the model.
	Heuristic bool `json:"heuristic"`
}

type TranscriptChain struct {
	llm    service.TextGenerator
	logger *zap.Logger
}

func NewTranscriptChain(llm service.TextGenerator, log *zap.Logger) *TranscriptChain {
	return &TranscriptChain{llm: llm, logger: logger.OrNop(log)}
}

// Analyze extracts participants and question/answer pairs. It falls back to
// a sentence heuristic when the model fails or returns unusable JSON.
func (c *TranscriptChain) Analyze(ctx context.Context, transcript string) TranscriptAnalysis {
	c.logger.Info("analyzing transcript", zap.Int("length", len(transcript)))

	raw, err := c.llm.GenerateText(ctx, transcriptPrompt(transcript), transcriptTemperature)
	if err != nil {
		c.logger.Warn("transcript analysis failed, using heuristic", zap.Error(err))
		return FallbackAnalysis(transcript)
	}

	analysis, ok := ParseAnalysis(raw)
	if !ok {
		c.logger.Warn("transcript analysis unparseable, using heuristic",
			zap.String("raw", logger.TruncateForLog(raw, 500)),
		)
		return FallbackAnalysis(transcript)
	}

	c.logger.Info("transcript analyzed",
		zap.Int("pairs", len(analysis.Pairs)),
		zap.String("interviewer", analysis.InterviewerName),
		zap.String("candidate", analysis.CandidateName),
	)
	return analysis
}

func transcriptPrompt(transcript string) string {
	return fmt.Sprintf(`
You are an expert in analyzing interview transcripts. Identify the participants, write a Q&A-focused summary and extract the question-answer pairs.

Transcript:
%s

TASKS:
1. Identify the interviewer's name and the candidate's name.
2. Write a concise summary (2-3 sentences) covering ONLY the job-related questions and their answers.
3. Extract every question-answer pair about the role, skills, technical knowledge or professional experience. Skip greetings, logistics and small talk.

OUTPUT FORMAT (JSON):
{
    "interviewer_name": "Name of the interviewer (or 'Unknown')",
    "candidate_name": "Name of the candidate (or 'Unknown')",
    "summary": "Brief summary of the questions asked and answers given",
    "qa_pairs": [
        {"question": "The question asked", "answer": "The answer given"}
    ]
}

RULES:
- If a question has no clear answer, use "%s" as the answer.
- Keep questions and answers in their original language; remove filler words.
- Return ONLY valid JSON, no additional text.

JSON Output:`, transcript, NoClearAnswer)
}

var (
	fencePattern = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")
	sentenceEnd  = regexp.MustCompile(`([.!?]+)\s+`)
)

// ParseAnalysis reads the model's JSON answer, repairing minor syntax damage.
func ParseAnalysis(raw string) (TranscriptAnalysis, bool) {
	body := strings.TrimSpace(raw)
	if m := fencePattern.FindStringSubmatch(body); m != nil {
		body = m[1]
	}
	if start, end := strings.Index(body, "{"), strings.LastIndex(body, "}"); start >= 0 && end > start {
		body = body[start : end+1]
	}

	if !gjson.Valid(body) {
		repaired, err := jsonrepair.JSONRepair(body)
		if err != nil || !gjson.Valid(repaired) {
			return TranscriptAnalysis{}, false
		}
		body = repaired
	}

	doc := gjson.Parse(body)
	if !doc.IsObject() {
		return TranscriptAnalysis{}, false
	}

	a := TranscriptAnalysis{
		InterviewerName: stringOr(doc.Get("interviewer_name"), UnknownName),
		CandidateName:   stringOr(doc.Get("candidate_name"), UnknownName),
		Summary:         stringOr(doc.Get("summary"), noSummaryValue),
		Pairs:           []pipeline.QAPair{},
	}
	doc.Get("qa_pairs").ForEach(func(_, pair gjson.Result) bool {
		q := strings.TrimSpace(pair.Get("question").String())
		if q == "" {
			return true
		}
		ans := strings.TrimSpace(pair.Get("answer").String())
		if ans == "" {
			ans = NoClearAnswer
		}
		a.Pairs = append(a.Pairs, pipeline.QAPair{Question: q, Answer: ans})
		return true
	})
	return a, true
}

func stringOr(r gjson.Result, fallback string) string {
	if s := strings.TrimSpace(r.String()); s != "" {
		return s
	}
	return fallback
}

var questionOpeners = []string{
	"what", "how", "why", "when", "where", "who", "which",
	"can you", "could you", "do you", "did you", "have you", "would you", "tell me",
}

// FallbackAnalysis pairs question-like sentences with the sentences that follow them.
func FallbackAnalysis(transcript string) TranscriptAnalysis {
	var (
		pairs    []pipeline.QAPair
		question string
		answer   []string
	)

	flush := func() {
		if question == "" {
			return
		}
		ans := strings.Join(answer, " ")
		if ans == "" {
			ans = NoClearAnswer
		}
		pairs = append(pairs, pipeline.QAPair{Question: question, Answer: ans})
	}

	for _, sentence := range splitSentences(transcript) {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}
		if isQuestion(sentence) {
			flush()
			question = sentence
			answer = nil
			continue
		}
		if question != "" {
			answer = append(answer, sentence)
		}
	}
	flush()

	var previews []string
	for i := 0; i < len(pairs) && i < 3; i++ {
		previews = append(previews, logger.TruncateForLog(pairs[i].Question, 30))
	}
	summary := fmt.Sprintf("The interview contains %d question and answer pairs.", len(pairs))
	if len(previews) > 0 {
		summary += " Topics: " + strings.Join(previews, ", ")
	}

	return TranscriptAnalysis{
		InterviewerName: UnknownName,
		CandidateName:   UnknownName,
		Summary:         summary,
		Pairs:           pairs,
		Heuristic:       true,
	}
}

// splitSentences cuts after terminal punctuation followed by whitespace,
// keeping the punctuation with its sentence.
func splitSentences(text string) []string {
	var (
		out   []string
		start int
	)
	for _, m := range sentenceEnd.FindAllStringSubmatchIndex(text, -1) {
		out = append(out, text[start:m[3]])
		start = m[1]
	}
	if start < len(text) {
		out = append(out, text[start:])
	}
	return out
}

func isQuestion(sentence string) bool {
	if strings.Contains(sentence, "?") {
		return true
	}
	lower := strings.ToLower(sentence)
	for _, kw := range questionOpeners {
		if strings.HasPrefix(lower, kw+" ") {
			return true
		}
	}
	return false
}

var smallTalk = []string{
	"introduce", "introduction", "your name", "how old", "hobby", "hobbies",
	"family", "where are you from", "thank you", "thanks", "hello", "good morning",
	"weather", "today", "schedule", "logistics", "gioi thieu", "xin chao", "cam on",
}

// FilterProfessionalPairs drops pairs whose question is greeting, small talk
// or logistics. Matching ignores case and diacritics.
func FilterProfessionalPairs(pairs []pipeline.QAPair) []pipeline.QAPair {
	out := make([]pipeline.QAPair, 0, len(pairs))
	for _, p := range pairs {
		q := foldText(p.Question)
		if strings.TrimSpace(q) == "" {
			continue
		}
		if containsAny(q, smallTalk) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// foldText lower-cases s and strips combining marks, so "Giới thiệu" matches "gioi thieu".
func foldText(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, strings.ToLower(s))
	if err != nil {
		return strings.ToLower(s)
	}
	return strings.ReplaceAll(folded, "đ", "d")
}
