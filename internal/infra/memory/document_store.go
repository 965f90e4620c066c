package memory

import (
	"context"
	"sort"
	"sync"

	"quizdrill/internal/domain"
)

// DocumentStore is an in-memory implementation of app.DocumentStore,
// used for tests and for running the server without a database.
type DocumentStore struct {
	mu   sync.RWMutex
	docs map[string]domain.QuizDocument
}

func NewDocumentStore() *DocumentStore {
	return &DocumentStore{docs: make(map[string]domain.QuizDocument)}
}

func (s *DocumentStore) SaveDocument(_ context.Context, doc domain.QuizDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.ID] = doc
	return nil
}

func (s *DocumentStore) GetDocument(_ context.Context, id string) (domain.QuizDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[id]
	if !ok {
		return domain.QuizDocument{}, domain.ErrQuizNotFound
	}
	return doc, nil
}

func (s *DocumentStore) ListDocuments(_ context.Context) ([]domain.QuizDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	docs := make([]domain.QuizDocument, 0, len(s.docs))
	for _, doc := range s.docs {
		docs = append(docs, doc)
	}
	sort.Slice(docs, func(i, j int) bool {
		if !docs[i].CreatedAt.Equal(docs[j].CreatedAt) {
			return docs[i].CreatedAt.After(docs[j].CreatedAt)
		}
		return docs[i].ID < docs[j].ID
	})
	return docs, nil
}
