package memory

import (
	"context"
	"sort"
	"sync"

	"quiz-ladders/internal/domain"
)

// StaticTestStore keeps tests in a map. It backs the memory storage driver and tests.
type StaticTestStore struct {
	mu    sync.RWMutex
	tests map[string]domain.Test
}

func NewStaticTestStore(tests ...domain.Test) *StaticTestStore {
	s := &StaticTestStore{tests: make(map[string]domain.Test, len(tests))}
	for _, t := range tests {
		s.tests[t.ID] = t
	}
	return s
}

func (s *StaticTestStore) ListTests(_ context.Context) ([]domain.TestSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.TestSummary, 0, len(s.tests))
	for _, t := range s.tests {
		out = append(out, t.Summary())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *StaticTestStore) LoadTest(_ context.Context, testID string) (domain.Test, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if t, ok := s.tests[testID]; ok {
		return t, nil
	}
	return domain.Test{}, domain.ErrTestNotFound
}

func (s *StaticTestStore) SaveTest(_ context.Context, t domain.Test) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tests[t.ID] = t
	return "memory:" + t.ID, nil
}
