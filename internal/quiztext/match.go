package quiztext

import "quizdrill/internal/domain"

// noKeyExplanation is the diagnostic placeholder for unmatched questions.
const noKeyExplanation = "No answer key found."

// Match joins parsed questions with their answer keys by exact id and
// returns live questions ready for a drill session. A question without a
// key degrades to ungraded rather than failing the batch. The resolved
// type honors an explicit tag first and otherwise falls back to the size
// of the correct set.
func Match(questions []Question, answers map[string]Answer) []domain.Question {
	out := make([]domain.Question, 0, len(questions))
	for _, pq := range questions {
		q := domain.Question{
			ID:      pq.ID,
			Text:    pq.Stem,
			Choices: append([]domain.Choice(nil), pq.Choices...),
		}
		if ans, ok := answers[pq.ID]; ok {
			q.CorrectKeys = append([]string(nil), ans.CorrectKeys...)
			q.Explanation = ans.Explanation
			q.Status = domain.StatusUnanswered
		} else {
			q.Explanation = noKeyExplanation
			q.Status = domain.StatusUngraded
		}
		if pq.ExplicitType != "" {
			q.Type = pq.ExplicitType
		} else {
			q.Type = domain.InferType(q.CorrectKeys)
		}
		out = append(out, q)
	}
	return out
}
