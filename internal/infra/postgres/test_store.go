package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"quiz-ladders/internal/domain"
)

// TestStore keeps test documents in the tests table; questions live in a JSONB column.
type TestStore struct {
	pool *pgxpool.Pool
}

func NewTestStore(pool *pgxpool.Pool) *TestStore {
	return &TestStore{pool: pool}
}

func (s *TestStore) ListTests(ctx context.Context) ([]domain.TestSummary, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, title, jsonb_array_length(questions)
		FROM tests
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list tests: %w", err)
	}
	defer rows.Close()

	var out []domain.TestSummary
	for rows.Next() {
		var t domain.TestSummary
		if err := rows.Scan(&t.ID, &t.Title, &t.NumQuestions); err != nil {
			return nil, fmt.Errorf("scan test: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *TestStore) LoadTest(ctx context.Context, testID string) (domain.Test, error) {
	var (
		title string
		raw   []byte
	)
	err := s.pool.QueryRow(ctx, `SELECT title, questions FROM tests WHERE id=$1`, testID).Scan(&title, &raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Test{}, domain.ErrTestNotFound
	}
	if err != nil {
		return domain.Test{}, fmt.Errorf("load test: %w", err)
	}

	t := domain.Test{ID: testID, Title: title}
	if err := json.Unmarshal(raw, &t.Questions); err != nil {
		return domain.Test{}, fmt.Errorf("unmarshal test: %w", err)
	}
	return t, nil
}

func (s *TestStore) SaveTest(ctx context.Context, t domain.Test) (string, error) {
	raw, err := json.Marshal(t.Questions)
	if err != nil {
		return "", err
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO tests (id, title, questions, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (id) DO UPDATE
		SET title = EXCLUDED.title, questions = EXCLUDED.questions, updated_at = now()`,
		t.ID, t.Title, raw)
	if err != nil {
		return "", fmt.Errorf("save test: %w", err)
	}
	return "postgres:tests/" + t.ID, nil
}
