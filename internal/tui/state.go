package tui

import (
	"quizdrill/internal/domain"
)

// State captures the drill UI state. It is plain data so the reducer can
// stay pure and testable without a terminal attached.
type State struct {
	SessionID string
	Title     string
	Questions []domain.Question
	Feedback  map[string]domain.Feedback
	Progress  domain.Progress
	Summary   *domain.Summary
	Current   int
	Cursor    int
	LastEvent string
	Finished  bool
}

// CurrentQuestion returns the question under the navigation cursor.
func CurrentQuestion(state State) (domain.Question, bool) {
	if state.Current < 0 || state.Current >= len(state.Questions) {
		return domain.Question{}, false
	}
	return state.Questions[state.Current], true
}

// CursorKey returns the choice key the cursor points at.
func CursorKey(state State) (string, bool) {
	q, ok := CurrentQuestion(state)
	if !ok {
		return "", false
	}
	if state.Cursor < 0 || state.Cursor >= len(q.Choices) {
		return "", false
	}
	return q.Choices[state.Cursor].Key, true
}
