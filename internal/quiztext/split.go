package quiztext

import (
	"regexp"
	"strings"

	"quizdrill/internal/domain"
)

var (
	questionsMarkerRe = regexp.MustCompile(`(?i)^\s*part\s*1\s*[-:–—]*\s*questions?\s*$`)
	answersMarkerRe   = regexp.MustCompile(`(?i)^\s*part\s*2\s*[-:–—]*\s*answers?\s*$`)
)

// SplitParts separates a generated document into its question and answer
// parts using the "Part 1 - Questions" and "Part 2 - Answers" marker
// lines. The markers themselves are stripped. Missing markers return
// domain.ErrMissingPartMarkers so callers can prompt for a retry without
// touching any session state.
func SplitParts(text string) (questionsPart, answersPart string, err error) {
	lines := splitLines(text)
	qIdx, aIdx := -1, -1
	for i, line := range lines {
		if qIdx < 0 && questionsMarkerRe.MatchString(line) {
			qIdx = i
			continue
		}
		if qIdx >= 0 && aIdx < 0 && answersMarkerRe.MatchString(line) {
			aIdx = i
			break
		}
	}
	if qIdx < 0 || aIdx < 0 {
		return "", "", domain.ErrMissingPartMarkers
	}
	questionsPart = strings.Join(lines[qIdx+1:aIdx], "\n")
	answersPart = strings.Join(lines[aIdx+1:], "\n")
	return questionsPart, answersPart, nil
}
