package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"quizdrill/internal/app"
	"quizdrill/internal/domain"
	"quizdrill/internal/quiztext"
)

// QuizLoader fetches matched quiz content from a backing store.
type QuizLoader interface {
	LoadQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
}

// QuizRepository caches matched quizzes with TTL so repeated session
// starts do not re-read and re-parse the stored documents.
type QuizRepository struct {
	loader QuizLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu    sync.RWMutex
	cache map[string]cachedQuiz
}

type cachedQuiz struct {
	quiz      domain.Quiz
	expiresAt time.Time
}

func NewQuizRepository(loader QuizLoader, ttl time.Duration) *QuizRepository {
	return &QuizRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedQuiz),
	}
}

func (r *QuizRepository) GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	now := r.clock()

	r.mu.RLock()
	if entry, ok := r.cache[quizID]; ok && entry.expiresAt.After(now) {
		r.mu.RUnlock()
		return entry.quiz, nil
	}
	r.mu.RUnlock()

	result, err, _ := r.sf.Do(quizID, func() (interface{}, error) {
		now := r.clock()
		r.mu.RLock()
		if entry, ok := r.cache[quizID]; ok && entry.expiresAt.After(now) {
			r.mu.RUnlock()
			return entry.quiz, nil
		}
		r.mu.RUnlock()

		quiz, err := r.loader.LoadQuiz(ctx, quizID)
		if err != nil {
			return domain.Quiz{}, err
		}

		r.mu.Lock()
		r.cache[quizID] = cachedQuiz{
			quiz:      quiz,
			expiresAt: now.Add(r.ttlWithJitter()),
		}
		r.mu.Unlock()
		return quiz, nil
	})
	if err != nil {
		return domain.Quiz{}, err
	}
	return result.(domain.Quiz), nil
}

func (r *QuizRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

// DocumentQuizLoader runs the parse-and-match pipeline over stored
// documents. Stored documents were validated on write, so empty parses
// here mean the row was seeded by hand; they surface the same errors the
// upload path uses.
type DocumentQuizLoader struct {
	documents app.DocumentStore
}

func NewDocumentQuizLoader(documents app.DocumentStore) *DocumentQuizLoader {
	return &DocumentQuizLoader{documents: documents}
}

func (l *DocumentQuizLoader) LoadQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	doc, err := l.documents.GetDocument(ctx, quizID)
	if err != nil {
		return domain.Quiz{}, err
	}
	questions := quiztext.ParseQuestions(doc.QuestionsText)
	if len(questions) == 0 {
		return domain.Quiz{}, domain.ErrNoQuestions
	}
	answers := quiztext.ParseAnswers(doc.AnswersText)
	if len(answers) == 0 {
		return domain.Quiz{}, domain.ErrNoAnswers
	}
	return domain.Quiz{ID: doc.ID, Title: doc.Title, Questions: quiztext.Match(questions, answers)}, nil
}

// StaticQuizLoader is a simple loader backed by an in-memory map (useful for tests/demos).
type StaticQuizLoader struct {
	quizzes map[string]domain.Quiz
}

func NewStaticQuizLoader(quizzes map[string]domain.Quiz) *StaticQuizLoader {
	return &StaticQuizLoader{quizzes: quizzes}
}

func (l *StaticQuizLoader) LoadQuiz(_ context.Context, quizID string) (domain.Quiz, error) {
	if quiz, ok := l.quizzes[quizID]; ok {
		return quiz, nil
	}
	return domain.Quiz{}, domain.ErrQuizNotFound
}
