package tui

import (
	"fmt"

	"quizdrill/internal/domain"
)

// Reduce applies a drill event to the UI state.
func Reduce(state State, event Event) State {
	switch event.Kind {
	case EventSession:
		state.SessionID = event.SessionID
		state.Title = event.Title
		state.Questions = event.Questions
		state.Feedback = map[string]domain.Feedback{}
		state.Progress = event.Progress
		state.Summary = nil
		state.Current = 0
		state.Cursor = 0
		state.LastEvent = ""
	case EventFeedback:
		state = applyFeedback(state, event.Feedback)
		state.Progress = event.Progress
	case EventProgress:
		state.Progress = event.Progress
	case EventSummary:
		summary := event.Summary
		state.Summary = &summary
	}
	state.Finished = state.Progress.Total > 0 && state.Progress.Answered == state.Progress.Total
	return state
}

// applyFeedback folds a grading outcome into the matching question and
// advances to the next open question once this one locks.
func applyFeedback(state State, feedback domain.Feedback) State {
	for i, q := range state.Questions {
		if q.ID != feedback.QuestionID {
			continue
		}
		q.Status = feedback.Status
		q.SelectedKeys = feedback.Selected
		if feedback.Status.Terminal() {
			q.Explanation = feedback.Explanation
		}
		state.Questions[i] = q
		if state.Feedback == nil {
			state.Feedback = map[string]domain.Feedback{}
		}
		state.Feedback[q.ID] = feedback
		if message := formatFeedbackEvent(i, feedback); message != "" {
			state.LastEvent = message
		}
		if feedback.Status.Terminal() && i == state.Current {
			state = advanceToOpen(state)
		}
		break
	}
	return state
}

// advanceToOpen moves the cursor to the next question still accepting
// input, scanning forward first and wrapping once.
func advanceToOpen(state State) State {
	n := len(state.Questions)
	for offset := 1; offset <= n; offset++ {
		idx := (state.Current + offset) % n
		if !state.Questions[idx].Status.Terminal() {
			state.Current = idx
			state.Cursor = 0
			return state
		}
	}
	return state
}

// MoveCursor moves the choice cursor by delta, clamped to the current
// question's choices.
func MoveCursor(state State, delta int) State {
	q, ok := CurrentQuestion(state)
	if !ok || len(q.Choices) == 0 {
		return state
	}
	state.Cursor = clamp(state.Cursor+delta, 0, len(q.Choices)-1)
	return state
}

// MoveQuestion moves to another question by delta, clamped to the quiz,
// resetting the choice cursor.
func MoveQuestion(state State, delta int) State {
	if len(state.Questions) == 0 {
		return state
	}
	next := clamp(state.Current+delta, 0, len(state.Questions)-1)
	if next != state.Current {
		state.Current = next
		state.Cursor = 0
	}
	return state
}

// formatFeedbackEvent creates a short footer message for a toggle outcome.
func formatFeedbackEvent(index int, feedback domain.Feedback) string {
	switch feedback.Status {
	case domain.StatusCorrect:
		return fmt.Sprintf("Q%d correct", index+1)
	case domain.StatusIncorrect:
		return fmt.Sprintf("Q%d incorrect", index+1)
	default:
		return ""
	}
}

// clamp bounds v to [lo, hi].
func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
