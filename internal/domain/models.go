package domain

import "time"

// QuestionType distinguishes single-answer from multiple-answer questions.
type QuestionType string

const (
	TypeSingle   QuestionType = "single"
	TypeMultiple QuestionType = "multiple"
)

// QuestionStatus is the drill state of a question.
type QuestionStatus string

const (
	// StatusUngraded marks a question with no answer key; it accepts input
	// but can never become correct.
	StatusUngraded QuestionStatus = "ungraded"
	// StatusUnanswered is the initial state of a graded question.
	StatusUnanswered QuestionStatus = "unanswered"
	StatusCorrect    QuestionStatus = "correct"
	StatusIncorrect  QuestionStatus = "incorrect"
)

// Terminal reports whether the status accepts no further input.
func (s QuestionStatus) Terminal() bool {
	return s == StatusCorrect || s == StatusIncorrect
}

// Choice is one selectable option of a question.
type Choice struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}

// Question is a matched question together with its live drill state.
// CorrectKeys and Explanation come from the answer key during matching;
// Status and SelectedKeys change only through Advance.
type Question struct {
	ID           string         `json:"id"`
	Text         string         `json:"text"`
	Type         QuestionType   `json:"type"`
	Choices      []Choice       `json:"choices"`
	CorrectKeys  []string       `json:"correctKeys,omitempty"`
	Explanation  string         `json:"explanation,omitempty"`
	Status       QuestionStatus `json:"status"`
	SelectedKeys []string       `json:"selectedKeys,omitempty"`
}

// HasChoice reports whether the question offers the given key.
func (q Question) HasChoice(key string) bool {
	for _, c := range q.Choices {
		if c.Key == key {
			return true
		}
	}
	return false
}

// Quiz is an ordered collection of matched questions.
type Quiz struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

// QuizSummary is the listing view of a stored quiz.
type QuizSummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
}

// QuizDocument holds the raw uploaded text a quiz is parsed from.
type QuizDocument struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	QuestionsText string    `json:"questionsText"`
	AnswersText   string    `json:"answersText"`
	CreatedAt     time.Time `json:"createdAt"`
}
