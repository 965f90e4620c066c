package quiztext

import "quizdrill/internal/domain"

// Question is one parsed question block before matching.
type Question struct {
	ID   string
	Stem string
	// ExplicitType is the bracketed tag from the source, empty when absent.
	ExplicitType domain.QuestionType
	Choices      []domain.Choice
}

// ParseQuestions converts a raw question document into ordered question
// records. A question-start line flushes the previous block; choice lines
// attach to the open question; any other non-blank line continues the
// last choice, or the stem when no choice exists yet. Lines before the
// first question start are discarded. Duplicate ids are all emitted; an
// empty result signals failure to the caller.
func ParseQuestions(text string) []Question {
	var (
		out  []Question
		open *Question
	)
	flush := func() {
		if open != nil {
			out = append(out, *open)
			open = nil
		}
	}
	for _, raw := range splitLines(text) {
		line := ClassifyLine(raw)
		switch line.Kind {
		case LineBlank:
			continue
		case LineQuestionStart:
			flush()
			open = &Question{
				ID:           line.Question.ID,
				Stem:         line.Question.Stem,
				ExplicitType: line.Question.Tag,
			}
		case LineChoiceStart:
			if open == nil {
				continue
			}
			open.Choices = append(open.Choices, domain.Choice{
				Key:  line.Choice.Key,
				Text: line.Choice.Text,
			})
		default:
			if open == nil {
				continue
			}
			if n := len(open.Choices); n > 0 {
				open.Choices[n-1].Text = joinLines(open.Choices[n-1].Text, line.Text)
			} else {
				open.Stem = joinLines(open.Stem, line.Text)
			}
		}
	}
	flush()
	return out
}
