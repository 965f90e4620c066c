package domain_test

import (
	"strings"
	"testing"

	"quizdrill/internal/domain"
)

func TestAdvanceSingleCorrect(t *testing.T) {
	q := newSingleQuestion()

	next, effects := domain.Advance(q, domain.ToggleEvent{Key: "B", Selected: []string{"B"}, Added: true})
	if next.Status != domain.StatusCorrect {
		t.Fatalf("expected correct, got %s", next.Status)
	}
	if len(effects) != 1 || effects[0] != (domain.Effect{Key: "B", Mark: domain.MarkCorrect}) {
		t.Fatalf("expected single correct mark on b, got %+v", effects)
	}
	if joinKeys(next.SelectedKeys) != "B" {
		t.Fatalf("expected selection [B], got %v", next.SelectedKeys)
	}
}

func TestAdvanceSingleWrongRevealsAnswer(t *testing.T) {
	q := newSingleQuestion()

	next, effects := domain.Advance(q, domain.ToggleEvent{Key: "A", Selected: []string{"A"}, Added: true})
	if next.Status != domain.StatusIncorrect {
		t.Fatalf("expected incorrect, got %s", next.Status)
	}
	want := []domain.Effect{
		{Key: "A", Mark: domain.MarkIncorrect},
		{Key: "B", Mark: domain.MarkCorrect},
	}
	assertEffects(t, effects, want)
}

func TestAdvanceIgnoresInputAfterTerminal(t *testing.T) {
	q := newSingleQuestion()

	first, _ := domain.Advance(q, domain.ToggleEvent{Key: "A", Selected: []string{"A"}, Added: true})
	second, effects := domain.Advance(first, domain.ToggleEvent{Key: "B", Selected: []string{"B"}, Added: true})
	if effects != nil {
		t.Fatalf("expected no effects on terminal question, got %+v", effects)
	}
	if second.Status != domain.StatusIncorrect || joinKeys(second.SelectedKeys) != "A" {
		t.Fatalf("expected terminal state preserved, got %s %v", second.Status, second.SelectedKeys)
	}
}

func TestAdvanceMultipleProgressiveReveal(t *testing.T) {
	q := newMultiQuestion()

	q, effects := domain.Advance(q, domain.ToggleEvent{Key: "B", Selected: []string{"B"}, Added: true})
	if q.Status != domain.StatusUnanswered || len(effects) != 0 {
		t.Fatalf("expected silent subset pick, got %s %+v", q.Status, effects)
	}
	q, effects = domain.Advance(q, domain.ToggleEvent{Key: "C", Selected: []string{"B", "C"}, Added: true})
	if q.Status != domain.StatusUnanswered || len(effects) != 0 {
		t.Fatalf("expected silent subset pick, got %s %+v", q.Status, effects)
	}
	q, effects = domain.Advance(q, domain.ToggleEvent{Key: "D", Selected: []string{"B", "C", "D"}, Added: true})
	if q.Status != domain.StatusCorrect {
		t.Fatalf("expected correct after completing the set, got %s", q.Status)
	}
	want := []domain.Effect{
		{Key: "B", Mark: domain.MarkCorrect},
		{Key: "C", Mark: domain.MarkCorrect},
		{Key: "D", Mark: domain.MarkCorrect},
	}
	assertEffects(t, effects, want)
	if joinKeys(q.SelectedKeys) != "B,C,D" {
		t.Fatalf("expected selection order preserved, got %v", q.SelectedKeys)
	}
}

func TestAdvanceMultipleWrongPickFailsImmediately(t *testing.T) {
	q := newMultiQuestion()

	q, _ = domain.Advance(q, domain.ToggleEvent{Key: "B", Selected: []string{"B"}, Added: true})
	q, _ = domain.Advance(q, domain.ToggleEvent{Key: "C", Selected: []string{"B", "C"}, Added: true})
	q, effects := domain.Advance(q, domain.ToggleEvent{Key: "A", Selected: []string{"B", "C", "A"}, Added: true})
	if q.Status != domain.StatusIncorrect {
		t.Fatalf("expected incorrect on wrong pick, got %s", q.Status)
	}
	want := []domain.Effect{
		{Key: "A", Mark: domain.MarkIncorrect},
		{Key: "B", Mark: domain.MarkCorrect},
		{Key: "C", Mark: domain.MarkCorrect},
		{Key: "D", Mark: domain.MarkMissed},
	}
	assertEffects(t, effects, want)
	if joinKeys(q.SelectedKeys) != "B,C,A" {
		t.Fatalf("expected selection order preserved, got %v", q.SelectedKeys)
	}
}

func TestAdvanceMultipleUncheckKeepsQuestionOpen(t *testing.T) {
	q := newMultiQuestion()

	q, _ = domain.Advance(q, domain.ToggleEvent{Key: "B", Selected: []string{"B"}, Added: true})
	q, effects := domain.Advance(q, domain.ToggleEvent{Key: "B", Selected: nil, Added: false})
	if q.Status != domain.StatusUnanswered || len(effects) != 0 {
		t.Fatalf("expected uncheck to keep the question open, got %s %+v", q.Status, effects)
	}
}

func TestAdvanceUngradedNeverCorrect(t *testing.T) {
	q := domain.Question{
		ID:      "q9",
		Type:    domain.TypeSingle,
		Choices: []domain.Choice{{Key: "A"}, {Key: "B"}},
		Status:  domain.StatusUngraded,
	}

	next, effects := domain.Advance(q, domain.ToggleEvent{Key: "A", Selected: []string{"A"}, Added: true})
	if next.Status != domain.StatusIncorrect {
		t.Fatalf("expected incorrect on ungraded question, got %s", next.Status)
	}
	assertEffects(t, effects, []domain.Effect{{Key: "A", Mark: domain.MarkIncorrect}})
}

func TestAdvanceDoesNotMutateInput(t *testing.T) {
	q := newMultiQuestion()

	domain.Advance(q, domain.ToggleEvent{Key: "A", Selected: []string{"A"}, Added: true})
	if q.Status != domain.StatusUnanswered || q.SelectedKeys != nil {
		t.Fatalf("expected input untouched, got %s %v", q.Status, q.SelectedKeys)
	}
}

func TestInferType(t *testing.T) {
	cases := []struct {
		name string
		keys []string
		want domain.QuestionType
	}{
		{"no keys", nil, domain.TypeSingle},
		{"one key", []string{"A"}, domain.TypeSingle},
		{"two keys", []string{"A", "B"}, domain.TypeMultiple},
		{"duplicate key", []string{"A", "A"}, domain.TypeSingle},
	}
	for _, tc := range cases {
		if got := domain.InferType(tc.keys); got != tc.want {
			t.Fatalf("%s: expected %s, got %s", tc.name, tc.want, got)
		}
	}
}

func assertEffects(t *testing.T, got, want []domain.Effect) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d effects, got %+v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("effect %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}

func joinKeys(keys []string) string {
	return strings.Join(keys, ",")
}

func newSingleQuestion() domain.Question {
	return domain.Question{
		ID:   "q1",
		Text: "Pick one",
		Type: domain.TypeSingle,
		Choices: []domain.Choice{
			{Key: "A", Text: "Wrong"},
			{Key: "B", Text: "Right"},
		},
		CorrectKeys: []string{"B"},
		Status:      domain.StatusUnanswered,
	}
}

func newMultiQuestion() domain.Question {
	return domain.Question{
		ID:   "q2",
		Text: "Pick all that apply",
		Type: domain.TypeMultiple,
		Choices: []domain.Choice{
			{Key: "A", Text: "Wrong"},
			{Key: "B", Text: "Right"},
			{Key: "C", Text: "Also right"},
			{Key: "D", Text: "Right too"},
		},
		CorrectKeys: []string{"B", "C", "D"},
		Status:      domain.StatusUnanswered,
	}
}
