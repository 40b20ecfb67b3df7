package app

import (
	"context"
	"fmt"

	"quiz-ladders/internal/domain"
)

// TestStore is a backing store of test documents (JSON directory, Postgres, SQLite, memory).
type TestStore interface {
	ListTests(ctx context.Context) ([]domain.TestSummary, error)
	LoadTest(ctx context.Context, testID string) (domain.Test, error)
	SaveTest(ctx context.Context, t domain.Test) (string, error)
}

// TestRepository loads tests through a cache in front of a TestStore.
type TestRepository interface {
	ListTests(ctx context.Context) ([]domain.TestSummary, error)
	GetTest(ctx context.Context, testID string) (domain.Test, error)
	SaveTest(ctx context.Context, t domain.Test) (string, error)
}

// CatalogService contains the tests API use cases.
type CatalogService struct {
	tests TestRepository
}

func NewCatalogService(tests TestRepository) *CatalogService {
	return &CatalogService{tests: tests}
}

// ListTests returns every stored test, ordered by ID.
func (s *CatalogService) ListTests(ctx context.Context) ([]domain.TestSummary, error) {
	return s.tests.ListTests(ctx)
}

// Quiz returns the playable document of a test: correctness stripped, golden number attached.
func (s *CatalogService) Quiz(ctx context.Context, testID string) (domain.Quiz, error) {
	if !domain.ValidTestID(testID) {
		return domain.Quiz{}, domain.ErrTestNotFound
	}
	t, err := s.tests.GetTest(ctx, testID)
	if err != nil {
		return domain.Quiz{}, err
	}
	return domain.PlayQuiz(t), nil
}

// SaveTest normalizes, validates and persists a test, overwriting any test with the same ID.
// It returns where the document was written.
func (s *CatalogService) SaveTest(ctx context.Context, t domain.Test) (string, error) {
	t = t.Normalize()
	if err := domain.ValidateTest(t); err != nil {
		return "", err
	}
	location, err := s.tests.SaveTest(ctx, t)
	if err != nil {
		return "", fmt.Errorf("save test %s: %w", t.ID, err)
	}
	return location, nil
}
