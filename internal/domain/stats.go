package domain

import (
	"math"
	"time"
)

// Stats tracks running totals for one drill session.
type Stats struct {
	Total     int `json:"total"`
	Correct   int `json:"correct"`
	Incorrect int `json:"incorrect"`
}

// Answered is the number of questions that reached a terminal status.
func (s Stats) Answered() int {
	return s.Correct + s.Incorrect
}

// Percent is the share of correct answers among answered questions,
// rounded to the nearest integer. Zero answered yields zero.
func (s Stats) Percent() int {
	answered := s.Answered()
	if answered == 0 {
		return 0
	}
	return int(math.Round(float64(s.Correct) / float64(answered) * 100))
}

// Record folds one terminal transition into the totals.
func (s Stats) Record(status QuestionStatus) Stats {
	switch status {
	case StatusCorrect:
		s.Correct++
	case StatusIncorrect:
		s.Incorrect++
	}
	return s
}

// TallyStats recomputes totals from scratch out of the question states.
func TallyStats(questions []Question) Stats {
	stats := Stats{Total: len(questions)}
	for _, q := range questions {
		stats = stats.Record(q.Status)
	}
	return stats
}

// Progress is the broadcast snapshot subscribers receive after each
// terminal transition.
type Progress struct {
	SessionID string    `json:"sessionId"`
	QuizID    string    `json:"quizId"`
	Total     int       `json:"total"`
	Answered  int       `json:"answered"`
	Correct   int       `json:"correct"`
	Incorrect int       `json:"incorrect"`
	Percent   int       `json:"percent"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewProgress builds a progress snapshot from the current totals.
func NewProgress(sessionID, quizID string, stats Stats, at time.Time) Progress {
	return Progress{
		SessionID: sessionID,
		QuizID:    quizID,
		Total:     stats.Total,
		Answered:  stats.Answered(),
		Correct:   stats.Correct,
		Incorrect: stats.Incorrect,
		Percent:   stats.Percent(),
		UpdatedAt: at,
	}
}

// Feedback is the visible outcome of one toggle for the client that sent it.
type Feedback struct {
	QuestionID  string         `json:"questionId"`
	Status      QuestionStatus `json:"status"`
	Selected    []string       `json:"selected,omitempty"`
	Marks       []Effect       `json:"marks,omitempty"`
	Explanation string         `json:"explanation,omitempty"`
}

// ReviewItem is one incorrectly answered question in a session summary.
type ReviewItem struct {
	ID           string   `json:"id"`
	Text         string   `json:"text"`
	UserSelected []string `json:"userSelected"`
	Correct      []string `json:"correct"`
	Explanation  string   `json:"explanation,omitempty"`
}

// Review collects the incorrectly answered questions in quiz order.
func Review(questions []Question) []ReviewItem {
	items := make([]ReviewItem, 0)
	for _, q := range questions {
		if q.Status != StatusIncorrect {
			continue
		}
		items = append(items, ReviewItem{
			ID:           q.ID,
			Text:         q.Text,
			UserSelected: q.SelectedKeys,
			Correct:      distinctKeys(q.CorrectKeys),
			Explanation:  q.Explanation,
		})
	}
	return items
}

// Summary is the end-of-session report.
type Summary struct {
	SessionID string       `json:"sessionId"`
	QuizID    string       `json:"quizId"`
	Stats     Stats        `json:"stats"`
	Percent   int          `json:"percent"`
	Incorrect []ReviewItem `json:"incorrect"`
	CreatedAt time.Time    `json:"createdAt"`
}

// Export is the downloadable artifact with every missed question.
type Export struct {
	Timestamp          time.Time    `json:"timestamp"`
	Stats              Stats        `json:"stats"`
	IncorrectQuestions []ReviewItem `json:"incorrectQuestions"`
}

// NewExport assembles the export artifact for the given question states.
func NewExport(questions []Question, at time.Time) Export {
	return Export{
		Timestamp:          at,
		Stats:              TallyStats(questions),
		IncorrectQuestions: Review(questions),
	}
}
