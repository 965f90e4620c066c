package app

import (
	"sync"
	"time"

	"quizdrill/internal/domain"
)

// Session holds the live state of one drill run over a matched quiz.
// The pristine question list is kept aside so reset can reconstruct the
// run instead of patching states in place.
type Session struct {
	id        string
	quizID    string
	title     string
	createdAt time.Time
	now       func() time.Time

	mu          sync.RWMutex
	source      []domain.Question
	questions   []domain.Question
	index       map[string]int
	checked     map[string][]string
	stats       domain.Stats
	subscribers map[chan domain.Progress]struct{}
}

// NewSession builds a session over the matched quiz.
func NewSession(id string, quiz domain.Quiz) *Session {
	return newSessionWithClock(id, quiz, time.Now)
}

// NewSessionWithClock is test-only for deterministic timestamps.
func NewSessionWithClock(id string, quiz domain.Quiz, now func() time.Time) *Session {
	return newSessionWithClock(id, quiz, now)
}

func newSessionWithClock(id string, quiz domain.Quiz, now func() time.Time) *Session {
	source := make([]domain.Question, len(quiz.Questions))
	for i, q := range quiz.Questions {
		source[i] = normalizeQuestion(q)
	}
	s := &Session{
		id:          id,
		quizID:      quiz.ID,
		title:       quiz.Title,
		createdAt:   now(),
		now:         now,
		source:      source,
		subscribers: make(map[chan domain.Progress]struct{}),
	}
	s.resetLocked()
	return s
}

// normalizeQuestion fills defaults for questions built outside the
// matcher, such as static test fixtures.
func normalizeQuestion(q domain.Question) domain.Question {
	if q.Status == "" {
		if len(q.CorrectKeys) > 0 {
			q.Status = domain.StatusUnanswered
		} else {
			q.Status = domain.StatusUngraded
		}
	}
	if q.Type == "" {
		q.Type = domain.InferType(q.CorrectKeys)
	}
	return q
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// QuizID returns the quiz this session drills.
func (s *Session) QuizID() string { return s.quizID }

func (s *Session) toggle(questionID, key string) (domain.Feedback, domain.Progress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[questionID]
	if !ok {
		return domain.Feedback{}, domain.Progress{}, domain.ErrQuestionNotFound
	}
	q := s.questions[i]
	if q.Status.Terminal() {
		// Locked questions swallow input; echo the settled state instead.
		return feedbackFor(q, q.SelectedKeys, nil), s.snapshotLocked(), nil
	}
	if !q.HasChoice(key) {
		return domain.Feedback{}, domain.Progress{}, domain.ErrChoiceNotFound
	}

	ev := s.buildEventLocked(q, key)
	next, effects := domain.Advance(q, ev)
	s.questions[i] = next
	if next.Status.Terminal() {
		s.stats = s.stats.Record(next.Status)
		delete(s.checked, questionID)
		s.broadcastLocked()
		return feedbackFor(next, next.SelectedKeys, effects), s.snapshotLocked(), nil
	}
	return feedbackFor(next, ev.Selected, effects), s.snapshotLocked(), nil
}

// buildEventLocked applies radio semantics to single questions and
// checkbox semantics to multiple ones, tracking the running checked set.
func (s *Session) buildEventLocked(q domain.Question, key string) domain.ToggleEvent {
	if q.Type != domain.TypeMultiple {
		return domain.ToggleEvent{Key: key, Selected: []string{key}, Added: true}
	}
	cur := s.checked[q.ID]
	if hasKey(cur, key) {
		next := withoutKey(cur, key)
		s.checked[q.ID] = next
		return domain.ToggleEvent{Key: key, Selected: next, Added: false}
	}
	next := append(append([]string(nil), cur...), key)
	s.checked[q.ID] = next
	return domain.ToggleEvent{Key: key, Selected: next, Added: true}
}

func feedbackFor(q domain.Question, selected []string, effects []domain.Effect) domain.Feedback {
	fb := domain.Feedback{
		QuestionID: q.ID,
		Status:     q.Status,
		Selected:   selected,
		Marks:      effects,
	}
	if q.Status.Terminal() {
		fb.Explanation = q.Explanation
	}
	return fb
}

func (s *Session) progress() domain.Progress {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Session) summary() domain.Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.Summary{
		SessionID: s.id,
		QuizID:    s.quizID,
		Stats:     s.stats,
		Percent:   s.stats.Percent(),
		Incorrect: domain.Review(s.questions),
		CreatedAt: s.createdAt,
	}
}

func (s *Session) export() domain.Export {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.NewExport(s.questions, s.now())
}

// reset reconstructs every question state from the pristine source and
// zeroes the totals. Subscribers see the fresh snapshot immediately.
func (s *Session) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
	s.broadcastLocked()
}

func (s *Session) resetLocked() {
	s.questions = append([]domain.Question(nil), s.source...)
	s.index = make(map[string]int, len(s.questions))
	for i, q := range s.questions {
		// Later duplicates win lookups, matching the answer map rule.
		s.index[q.ID] = i
	}
	s.checked = make(map[string][]string)
	s.stats = domain.Stats{Total: len(s.questions)}
}

func (s *Session) subscribe() (<-chan domain.Progress, func()) {
	ch := make(chan domain.Progress, 8)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	initial := s.snapshotLocked()
	s.mu.Unlock()

	ch <- initial

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *Session) broadcastLocked() domain.Progress {
	p := s.snapshotLocked()
	for ch := range s.subscribers {
		select {
		case ch <- p:
		default:
			// Drop the stale update so a slow consumer never blocks the broadcast.
			select {
			case <-ch:
			default:
			}
			ch <- p
		}
	}
	return p
}

func (s *Session) snapshotLocked() domain.Progress {
	return domain.NewProgress(s.id, s.quizID, s.stats, s.now())
}

// view renders the client-safe state: answer keys and explanations stay
// hidden until a question is terminal, while live checkbox state is
// exposed so a reconnecting client can restore its controls.
func (s *Session) view() SessionView {
	s.mu.RLock()
	defer s.mu.RUnlock()

	questions := make([]domain.Question, len(s.questions))
	for i, q := range s.questions {
		if !q.Status.Terminal() {
			q.CorrectKeys = nil
			q.Explanation = ""
			q.SelectedKeys = append([]string(nil), s.checked[q.ID]...)
		}
		questions[i] = q
	}
	return SessionView{
		SessionID: s.id,
		QuizID:    s.quizID,
		Title:     s.title,
		CreatedAt: s.createdAt,
		Questions: questions,
		Progress:  s.snapshotLocked(),
	}
}

func hasKey(keys []string, key string) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}

func withoutKey(keys []string, key string) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if k != key {
			out = append(out, k)
		}
	}
	return out
}
