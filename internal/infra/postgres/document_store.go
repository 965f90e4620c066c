package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"quizdrill/internal/domain"
)

// DocumentStore persists quiz documents in Postgres.
type DocumentStore struct {
	pool *pgxpool.Pool
}

func NewDocumentStore(pool *pgxpool.Pool) *DocumentStore {
	return &DocumentStore{pool: pool}
}

func (s *DocumentStore) SaveDocument(ctx context.Context, doc domain.QuizDocument) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO quiz_documents (id, title, questions_text, answers_text, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET title = EXCLUDED.title,
		    questions_text = EXCLUDED.questions_text,
		    answers_text = EXCLUDED.answers_text`,
		doc.ID, doc.Title, doc.QuestionsText, doc.AnswersText, doc.CreatedAt)
	if err != nil {
		return fmt.Errorf("save quiz document: %w", err)
	}
	return nil
}

func (s *DocumentStore) GetDocument(ctx context.Context, id string) (domain.QuizDocument, error) {
	var doc domain.QuizDocument
	err := s.pool.QueryRow(ctx, `
		SELECT id, title, questions_text, answers_text, created_at
		FROM quiz_documents WHERE id=$1`, id).
		Scan(&doc.ID, &doc.Title, &doc.QuestionsText, &doc.AnswersText, &doc.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.QuizDocument{}, domain.ErrQuizNotFound
	}
	if err != nil {
		return domain.QuizDocument{}, fmt.Errorf("load quiz document: %w", err)
	}
	return doc, nil
}

func (s *DocumentStore) ListDocuments(ctx context.Context) ([]domain.QuizDocument, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, title, questions_text, answers_text, created_at
		FROM quiz_documents ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list quiz documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.QuizDocument
	for rows.Next() {
		var doc domain.QuizDocument
		if err := rows.Scan(&doc.ID, &doc.Title, &doc.QuestionsText, &doc.AnswersText, &doc.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan quiz document: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate quiz documents: %w", err)
	}
	return docs, nil
}
