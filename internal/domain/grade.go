package domain

// ToggleEvent is one checkbox or radio toggle against a question.
type ToggleEvent struct {
	// Key is the choice key that was just toggled.
	Key string
	// Selected is the full checked set after the toggle, in selection order.
	Selected []string
	// Added is true when the toggle checked the key and false when it
	// cleared it.
	Added bool
}

// Mark tells a renderer how to decorate a single choice.
type Mark string

const (
	MarkCorrect   Mark = "correct"
	MarkIncorrect Mark = "incorrect"
	// MarkMissed flags a correct choice the user failed to select.
	MarkMissed Mark = "missed"
)

// Effect is a render directive produced by a grading transition.
type Effect struct {
	Key  string `json:"key"`
	Mark Mark   `json:"mark"`
}

// Advance applies a toggle to a question and returns the next question
// state plus the render directives the transition produced. It never
// mutates its input. Events against a terminal question are ignored.
func Advance(q Question, ev ToggleEvent) (Question, []Effect) {
	if q.Status.Terminal() {
		return q, nil
	}
	if q.Type == TypeMultiple {
		return advanceMultiple(q, ev)
	}
	return advanceSingle(q, ev)
}

// advanceSingle grades the first selection: the question becomes terminal
// immediately, and a wrong pick also reveals the correct choices.
func advanceSingle(q Question, ev ToggleEvent) (Question, []Effect) {
	q.SelectedKeys = []string{ev.Key}
	if containsKey(q.CorrectKeys, ev.Key) {
		q.Status = StatusCorrect
		return q, []Effect{{Key: ev.Key, Mark: MarkCorrect}}
	}
	q.Status = StatusIncorrect
	effects := []Effect{{Key: ev.Key, Mark: MarkIncorrect}}
	for _, k := range distinctKeys(q.CorrectKeys) {
		effects = append(effects, Effect{Key: k, Mark: MarkCorrect})
	}
	return q, effects
}

// advanceMultiple grades progressively. Checking a wrong key fails the
// question at once and flags the unchecked correct keys as missed.
// Checking a correct key stays silent until the checked set equals the
// correct set, which completes the question. Unchecking never ends it.
func advanceMultiple(q Question, ev ToggleEvent) (Question, []Effect) {
	if !ev.Added {
		return q, nil
	}
	checked := append([]string(nil), ev.Selected...)
	if !containsKey(q.CorrectKeys, ev.Key) {
		q.Status = StatusIncorrect
		q.SelectedKeys = checked
		effects := []Effect{{Key: ev.Key, Mark: MarkIncorrect}}
		for _, k := range distinctKeys(q.CorrectKeys) {
			if containsKey(checked, k) {
				effects = append(effects, Effect{Key: k, Mark: MarkCorrect})
			} else {
				effects = append(effects, Effect{Key: k, Mark: MarkMissed})
			}
		}
		return q, effects
	}
	if !sameKeySet(checked, q.CorrectKeys) {
		return q, nil
	}
	q.Status = StatusCorrect
	q.SelectedKeys = checked
	effects := make([]Effect, 0, len(checked))
	for _, k := range checked {
		effects = append(effects, Effect{Key: k, Mark: MarkCorrect})
	}
	return q, effects
}

// InferType resolves the effective type of a question without an explicit
// tag: more than one distinct correct key means multiple, anything else
// (including no key at all) means single.
func InferType(correctKeys []string) QuestionType {
	if len(keySet(correctKeys)) > 1 {
		return TypeMultiple
	}
	return TypeSingle
}

func containsKey(keys []string, key string) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}

// distinctKeys preserves first-occurrence order while dropping duplicates.
func distinctKeys(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

func keySet(keys []string) map[string]struct{} {
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return set
}

// sameKeySet compares two key lists as sets, ignoring order and duplicates.
func sameKeySet(a, b []string) bool {
	as, bs := keySet(a), keySet(b)
	if len(as) != len(bs) {
		return false
	}
	for k := range as {
		if _, ok := bs[k]; !ok {
			return false
		}
	}
	return true
}
