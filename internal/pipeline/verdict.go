package pipeline

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

const (
	markerScore    = "SCORE"
	markerPassed   = "PASSED"
	markerFeedback = "FEEDBACK"

	UnparseableFeedback = "Grading output could not be parsed"
)

var numberPattern = regexp.MustCompile(`-?\d+(?:\.\d+)?`)

var verdictTokens = map[string]bool{
	"YES":    true,
	"PASS":   true,
	"PASSED": true,
	"TRUE":   true,
	"NO":     false,
	"NOT":    false,
	"FAIL":   false,
	"FAILED": false,
	"FALSE":  false,
}

// ParseVerdict reads the SCORE/PASSED/FEEDBACK layout produced by the scorer.
// A missing or unreadable score yields scale.Min and a failed verdict.
func ParseVerdict(raw string, scale Scale) Verdict {
	v := Verdict{Raw: raw, Score: scale.Min}

	var (
		passed      bool
		inFeedback  bool
		feedback    []string
		scoreParsed bool
	)

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)

		rest, marker := splitMarker(line)
		switch {
		case marker == markerScore && !scoreParsed:
			if s := numberPattern.FindString(rest); s != "" {
				if f, err := strconv.ParseFloat(s, 64); err == nil {
					v.Score = scale.Clamp(f)
					scoreParsed = true
				}
			}
		case marker == markerPassed && !inFeedback:
			passed = isAffirmative(rest)
		case marker == markerFeedback && !inFeedback:
			inFeedback = true
			if rest != "" {
				feedback = append(feedback, rest)
			}
		case inFeedback && line != "":
			feedback = append(feedback, line)
		}
	}

	v.Feedback = strings.TrimSpace(strings.Join(feedback, " "))
	v.Parsed = scoreParsed
	v.Passed = scoreParsed && passed
	if !scoreParsed && v.Feedback == "" {
		v.Feedback = UnparseableFeedback
	}
	return v
}

// splitMarker recognizes a "WORD:" marker at the start of line, tolerating
// markdown emphasis, case differences and blanks before the colon.
func splitMarker(line string) (rest, marker string) {
	trimmed := strings.TrimLeft(line, "*_#- ")
	for _, m := range []string{markerScore, markerPassed, markerFeedback} {
		if len(trimmed) < len(m) || !strings.EqualFold(trimmed[:len(m)], m) {
			continue
		}
		after := strings.TrimLeft(trimmed[len(m):], "*_ \t")
		if !strings.HasPrefix(after, ":") {
			continue
		}
		rest = strings.TrimLeft(after[1:], "*_ ")
		return strings.TrimSpace(rest), m
	}
	return "", ""
}

// isAffirmative reports the first verdict word found in s, so "NOT PASSED"
// is a failure. Punctuation and brackets around the word are ignored.
func isAffirmative(s string) bool {
	for _, tok := range strings.FieldsFunc(strings.ToUpper(s), func(r rune) bool {
		return !unicode.IsLetter(r)
	}) {
		if pass, ok := verdictTokens[tok]; ok {
			return pass
		}
	}
	return false
}
