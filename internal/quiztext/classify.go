// Package quiztext parses loosely structured question and answer documents
// into the quiz model. Parsing is line oriented and tolerant: unrecognized
// lines attach to whatever element is open instead of failing the parse.
package quiztext

import (
	"regexp"
	"strings"

	"quizdrill/internal/domain"
)

// LineKind is the classification of a single input line.
type LineKind int

const (
	LineBlank LineKind = iota
	LineQuestionStart
	LineChoiceStart
	LineContinuation
)

// QuestionStart holds the captures of a question-start line.
type QuestionStart struct {
	ID string
	// Tag is the bracketed type tag, empty when the line carries none.
	Tag domain.QuestionType
	// Stem is the text trailing the id and tag.
	Stem string
}

// ChoiceStart holds the captures of a choice line.
type ChoiceStart struct {
	Key  string
	Text string
}

// Line is one classified input line. Exactly the fields matching Kind
// are populated.
type Line struct {
	Kind     LineKind
	Question QuestionStart
	Choice   ChoiceStart
	// Text is the trimmed content of a continuation line.
	Text string
}

var (
	questionStartRe = regexp.MustCompile(`(?i)^q?(\d+)[.:\s]*(?:\[(single|multiple)\])?\s*(.*)$`)
	choiceStartRe   = regexp.MustCompile(`^([A-Za-z])[.)]\s*(.*)$`)
)

// ClassifyLine assigns a line one of the four kinds. The classifier is
// pure; accumulation into question records happens in ParseQuestions.
func ClassifyLine(raw string) Line {
	line := strings.TrimSpace(raw)
	if line == "" {
		return Line{Kind: LineBlank}
	}
	if m := questionStartRe.FindStringSubmatch(line); m != nil {
		return Line{Kind: LineQuestionStart, Question: QuestionStart{
			ID:   m[1],
			Tag:  tagType(m[2]),
			Stem: strings.TrimSpace(m[3]),
		}}
	}
	if m := choiceStartRe.FindStringSubmatch(line); m != nil {
		return Line{Kind: LineChoiceStart, Choice: ChoiceStart{
			Key:  strings.ToUpper(m[1]),
			Text: strings.TrimSpace(m[2]),
		}}
	}
	return Line{Kind: LineContinuation, Text: line}
}

func tagType(tag string) domain.QuestionType {
	switch strings.ToLower(tag) {
	case "single":
		return domain.TypeSingle
	case "multiple":
		return domain.TypeMultiple
	default:
		return ""
	}
}

// splitLines normalizes line endings and splits the document.
func splitLines(text string) []string {
	return strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
}

// joinLines appends a continuation preserving the line break so renderers
// can reconstruct paragraph structure.
func joinLines(base, next string) string {
	if base == "" {
		return next
	}
	return base + "\n" + next
}
