// Package sqlite stores quiz documents in an embedded SQLite database,
// suitable for single-machine deployments with no external services.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"quizdrill/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS quiz_documents (
  id             TEXT PRIMARY KEY,
  title          TEXT NOT NULL,
  questions_text TEXT NOT NULL,
  answers_text   TEXT NOT NULL,
  created_at     INTEGER NOT NULL
);
`

// Open opens the database at dsn and ensures the schema exists.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	if dsn == "" {
		dsn = "file:quizdrill.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return db, nil
}

// DocumentStore persists quiz documents in SQLite.
type DocumentStore struct {
	db *sql.DB
}

func NewDocumentStore(db *sql.DB) *DocumentStore {
	return &DocumentStore{db: db}
}

func (s *DocumentStore) SaveDocument(ctx context.Context, doc domain.QuizDocument) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO quiz_documents (id, title, questions_text, answers_text, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET title = excluded.title,
		    questions_text = excluded.questions_text,
		    answers_text = excluded.answers_text`,
		doc.ID, doc.Title, doc.QuestionsText, doc.AnswersText, doc.CreatedAt.Unix())
	if err != nil {
		return fmt.Errorf("save quiz document: %w", err)
	}
	return nil
}

func (s *DocumentStore) GetDocument(ctx context.Context, id string) (domain.QuizDocument, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, questions_text, answers_text, created_at
		FROM quiz_documents WHERE id=$1`, id)
	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.QuizDocument{}, domain.ErrQuizNotFound
	}
	if err != nil {
		return domain.QuizDocument{}, fmt.Errorf("load quiz document: %w", err)
	}
	return doc, nil
}

func (s *DocumentStore) ListDocuments(ctx context.Context) ([]domain.QuizDocument, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, questions_text, answers_text, created_at
		FROM quiz_documents ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list quiz documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.QuizDocument
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan quiz document: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate quiz documents: %w", err)
	}
	return docs, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner) (domain.QuizDocument, error) {
	var doc domain.QuizDocument
	var createdAt int64
	if err := row.Scan(&doc.ID, &doc.Title, &doc.QuestionsText, &doc.AnswersText, &createdAt); err != nil {
		return domain.QuizDocument{}, err
	}
	doc.CreatedAt = time.Unix(createdAt, 0).UTC()
	return doc, nil
}
