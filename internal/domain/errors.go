package domain

import "errors"

var (
	// ErrSessionNotFound is returned when a drill session has not been started.
	ErrSessionNotFound = errors.New("drill session not found")
	// ErrQuizNotFound indicates the quiz content could not be loaded.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrQuestionNotFound indicates a toggled question ID is invalid.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrChoiceNotFound indicates a toggled choice key is invalid.
	ErrChoiceNotFound = errors.New("choice not found")
	// ErrNoQuestions is returned when a question document yields zero questions.
	ErrNoQuestions = errors.New("no questions parsed from document")
	// ErrNoAnswers is returned when an answer document yields zero answer keys.
	ErrNoAnswers = errors.New("no answer keys parsed from document")
	// ErrMissingPartMarkers is returned when generated text lacks the
	// question and answer part markers.
	ErrMissingPartMarkers = errors.New("part markers not found in generated text")
)
