// Package sqlite stores test documents in a single SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"quiz-ladders/internal/domain"
)

// TestStore represents a tests database connection.
type TestStore struct {
	db   *sql.DB
	path string
}

// Open opens the database at path and creates the schema if needed.
func Open(ctx context.Context, path string) (*TestStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one writer at a time; SQLite locks the whole file anyway
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &TestStore{db: db, path: path}
	if err := s.createTables(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection.
func (s *TestStore) Close() error {
	return s.db.Close()
}

func (s *TestStore) createTables(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS tests (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		num_questions INTEGER NOT NULL,
		questions TEXT NOT NULL,
		updated_at DATETIME NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("failed to create tests table: %w", err)
	}
	return nil
}

func (s *TestStore) ListTests(ctx context.Context) ([]domain.TestSummary, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, title, num_questions FROM tests ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list tests: %w", err)
	}
	defer rows.Close()

	var out []domain.TestSummary
	for rows.Next() {
		var t domain.TestSummary
		if err := rows.Scan(&t.ID, &t.Title, &t.NumQuestions); err != nil {
			return nil, fmt.Errorf("failed to scan test: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *TestStore) LoadTest(ctx context.Context, testID string) (domain.Test, error) {
	var (
		title string
		raw   string
	)
	err := s.db.QueryRowContext(ctx, "SELECT title, questions FROM tests WHERE id = ?", testID).Scan(&title, &raw)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Test{}, domain.ErrTestNotFound
	}
	if err != nil {
		return domain.Test{}, fmt.Errorf("failed to get test: %w", err)
	}

	t := domain.Test{ID: testID, Title: title}
	if err := json.Unmarshal([]byte(raw), &t.Questions); err != nil {
		return domain.Test{}, fmt.Errorf("failed to decode questions: %w", err)
	}
	return t, nil
}

func (s *TestStore) SaveTest(ctx context.Context, t domain.Test) (string, error) {
	raw, err := json.Marshal(t.Questions)
	if err != nil {
		return "", err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO tests (id, title, num_questions, questions, updated_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET title = excluded.title, num_questions = excluded.num_questions,
			questions = excluded.questions, updated_at = excluded.updated_at`,
		t.ID, t.Title, len(t.Questions), string(raw), time.Now().UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to save test: %w", err)
	}
	return s.path + "#" + t.ID, nil
}
