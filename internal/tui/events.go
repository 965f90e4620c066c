package tui

import (
	"quizdrill/internal/domain"
)

// EventKind tags a drill UI event.
type EventKind int

const (
	// EventSession loads a fresh session snapshot, replacing all state.
	EventSession EventKind = iota
	// EventFeedback carries the grading outcome of a toggle.
	EventFeedback
	// EventProgress carries a progress push from the session broadcast.
	EventProgress
	// EventSummary carries the end-of-run summary.
	EventSummary
)

// Event is one input to the UI reducer.
type Event struct {
	Kind      EventKind
	SessionID string
	Title     string
	Questions []domain.Question
	Feedback  domain.Feedback
	Progress  domain.Progress
	Summary   domain.Summary
}
