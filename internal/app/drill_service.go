package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"quizdrill/internal/domain"
	"quizdrill/internal/quiztext"
)

// ErrGeneratorDisabled is returned when no generation endpoint is configured.
var ErrGeneratorDisabled = errors.New("quiz generation is not configured")

// SessionRepository abstracts how live drill sessions are stored (in-memory,
// Redis-tracked, etc).
type SessionRepository interface {
	Put(session *Session)
	Get(sessionID string) (*Session, bool)
	Delete(sessionID string)
}

// QuizRepository loads matched quiz content (from cache/backing store).
type QuizRepository interface {
	GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
}

// DocumentStore persists the raw quiz documents uploads arrive as.
type DocumentStore interface {
	SaveDocument(ctx context.Context, doc domain.QuizDocument) error
	GetDocument(ctx context.Context, id string) (domain.QuizDocument, error)
	ListDocuments(ctx context.Context) ([]domain.QuizDocument, error)
}

// Generator produces a raw two-part quiz document from source text.
type Generator interface {
	Generate(ctx context.Context, title, sourceText string, questionCount int) (string, error)
}

// DrillService contains the drill use cases.
type DrillService struct {
	sessions  SessionRepository
	quizzes   QuizRepository
	documents DocumentStore
	generator Generator
	now       func() time.Time
}

// NewDrillService wires the service. generator may be nil, which disables
// the generation use case.
func NewDrillService(sessions SessionRepository, quizzes QuizRepository, documents DocumentStore, generator Generator) *DrillService {
	return &DrillService{
		sessions:  sessions,
		quizzes:   quizzes,
		documents: documents,
		generator: generator,
		now:       time.Now,
	}
}

// SessionView is the client-safe state of a session.
type SessionView struct {
	SessionID string            `json:"sessionId"`
	QuizID    string            `json:"quizId"`
	Title     string            `json:"title"`
	CreatedAt time.Time         `json:"createdAt"`
	Questions []domain.Question `json:"questions"`
	Progress  domain.Progress   `json:"progress"`
}

// CreateQuiz parses and validates both documents, stores them, and returns
// the matched quiz. Nothing is stored when either parse comes back empty,
// so a bad upload never clobbers existing content.
func (s *DrillService) CreateQuiz(ctx context.Context, title, questionsText, answersText string) (domain.Quiz, error) {
	parsed := quiztext.ParseQuestions(questionsText)
	if len(parsed) == 0 {
		return domain.Quiz{}, domain.ErrNoQuestions
	}
	answers := quiztext.ParseAnswers(answersText)
	if len(answers) == 0 {
		return domain.Quiz{}, domain.ErrNoAnswers
	}

	doc := domain.QuizDocument{
		ID:            uuid.NewString(),
		Title:         strings.TrimSpace(title),
		QuestionsText: questionsText,
		AnswersText:   answersText,
		CreatedAt:     s.now(),
	}
	if doc.Title == "" {
		doc.Title = fallbackTitle(parsed)
	}
	if err := s.documents.SaveDocument(ctx, doc); err != nil {
		return domain.Quiz{}, err
	}
	return domain.Quiz{ID: doc.ID, Title: doc.Title, Questions: quiztext.Match(parsed, answers)}, nil
}

// GenerateQuiz asks the generator for a two-part document over the source
// text and stores it like an upload. A reply without both part markers is
// surfaced without mutating any state so the caller can retry.
func (s *DrillService) GenerateQuiz(ctx context.Context, title, sourceText string, questionCount int) (domain.Quiz, error) {
	if s.generator == nil {
		return domain.Quiz{}, ErrGeneratorDisabled
	}
	raw, err := s.generator.Generate(ctx, title, sourceText, questionCount)
	if err != nil {
		return domain.Quiz{}, err
	}
	questionsPart, answersPart, err := quiztext.SplitParts(raw)
	if err != nil {
		return domain.Quiz{}, err
	}
	return s.CreateQuiz(ctx, title, questionsPart, answersPart)
}

// GetQuiz returns the matched quiz with answer keys attached. Use
// SanitizedQuiz before handing it to clients.
func (s *DrillService) GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	return s.quizzes.GetQuiz(ctx, quizID)
}

// ListQuizzes returns the stored quizzes, newest first.
func (s *DrillService) ListQuizzes(ctx context.Context) ([]domain.QuizSummary, error) {
	docs, err := s.documents.ListDocuments(ctx)
	if err != nil {
		return nil, err
	}
	summaries := make([]domain.QuizSummary, 0, len(docs))
	for _, doc := range docs {
		summaries = append(summaries, domain.QuizSummary{
			ID:        doc.ID,
			Title:     doc.Title,
			CreatedAt: doc.CreatedAt,
		})
	}
	return summaries, nil
}

// StartSession creates a fresh drill run over the quiz.
func (s *DrillService) StartSession(ctx context.Context, quizID string) (SessionView, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return SessionView{}, err
	}
	session := newSessionWithClock(uuid.NewString(), quiz, s.now)
	s.sessions.Put(session)
	return session.view(), nil
}

// SessionState returns the client-safe state of a running session.
func (s *DrillService) SessionState(_ context.Context, sessionID string) (SessionView, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return SessionView{}, domain.ErrSessionNotFound
	}
	return session.view(), nil
}

// Toggle applies one choice toggle and returns the feedback for the
// toggling client plus the progress snapshot broadcast to subscribers.
func (s *DrillService) Toggle(_ context.Context, sessionID, questionID, choiceKey string) (domain.Feedback, domain.Progress, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.Feedback{}, domain.Progress{}, domain.ErrSessionNotFound
	}
	return session.toggle(questionID, strings.ToUpper(strings.TrimSpace(choiceKey)))
}

// Progress returns the current totals for a session.
func (s *DrillService) Progress(_ context.Context, sessionID string) (domain.Progress, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.Progress{}, domain.ErrSessionNotFound
	}
	return session.progress(), nil
}

// Subscribe returns a channel that receives progress updates for a session.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *DrillService) Subscribe(_ context.Context, sessionID string) (<-chan domain.Progress, func(), error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, nil, domain.ErrSessionNotFound
	}
	ch, cancel := session.subscribe()
	return ch, cancel, nil
}

// Summary returns the end-of-run report with every missed question.
func (s *DrillService) Summary(_ context.Context, sessionID string) (domain.Summary, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.Summary{}, domain.ErrSessionNotFound
	}
	return session.summary(), nil
}

// Export returns the downloadable session artifact.
func (s *DrillService) Export(_ context.Context, sessionID string) (domain.Export, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.Export{}, domain.ErrSessionNotFound
	}
	return session.export(), nil
}

// Reset reconstructs the session from its pristine questions.
func (s *DrillService) Reset(_ context.Context, sessionID string) (SessionView, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return SessionView{}, domain.ErrSessionNotFound
	}
	session.reset()
	return session.view(), nil
}

// EndSession drops the session. Ending an unknown session is a no-op.
func (s *DrillService) EndSession(_ context.Context, sessionID string) {
	if _, ok := s.sessions.Get(sessionID); !ok {
		return
	}
	s.sessions.Delete(sessionID)
}

// SanitizedQuiz strips answer keys and explanations so clients cannot read
// them ahead of answering.
func SanitizedQuiz(quiz domain.Quiz) domain.Quiz {
	questions := make([]domain.Question, len(quiz.Questions))
	for i, q := range quiz.Questions {
		q.CorrectKeys = nil
		q.Explanation = ""
		questions[i] = q
	}
	quiz.Questions = questions
	return quiz
}

func fallbackTitle(questions []quiztext.Question) string {
	stem := questions[0].Stem
	if i := strings.IndexByte(stem, '\n'); i >= 0 {
		stem = stem[:i]
	}
	stem = strings.TrimSpace(stem)
	if stem == "" {
		return "Untitled quiz"
	}
	if r := []rune(stem); len(r) > 60 {
		stem = string(r[:57]) + "..."
	}
	return stem
}
