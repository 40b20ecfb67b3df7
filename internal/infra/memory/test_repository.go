package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	"quiz-ladders/internal/app"
	"quiz-ladders/internal/domain"
)

const listingKey = "\x00listing"

// TestRepository caches tests and the listing with a TTL to avoid repeated store hits.
type TestRepository struct {
	store app.TestStore
	ttl   time.Duration
	clock func() time.Time
	sf    singleflight.Group
	rnd   *rand.Rand
	rndMu sync.Mutex

	mu      sync.RWMutex
	cache   map[string]cachedTest
	listing *cachedListing
}

type cachedTest struct {
	test      domain.Test
	expiresAt time.Time
}

type cachedListing struct {
	tests     []domain.TestSummary
	expiresAt time.Time
}

func NewTestRepository(store app.TestStore, ttl time.Duration) *TestRepository {
	return &TestRepository{
		store: store,
		ttl:   ttl,
		clock: time.Now,
		rnd:   rand.New(rand.NewSource(time.Now().UnixNano())),
		cache: make(map[string]cachedTest),
	}
}

func (r *TestRepository) GetTest(ctx context.Context, testID string) (domain.Test, error) {
	if t, ok := r.cached(testID); ok {
		return t, nil
	}

	result, err, _ := r.sf.Do(testID, func() (interface{}, error) {
		if t, ok := r.cached(testID); ok {
			return t, nil
		}

		t, err := r.store.LoadTest(ctx, testID)
		if err != nil {
			return domain.Test{}, err
		}

		r.mu.Lock()
		r.cache[testID] = cachedTest{
			test:      t,
			expiresAt: r.clock().Add(r.ttlWithJitter()),
		}
		r.mu.Unlock()
		return t, nil
	})
	if err != nil {
		return domain.Test{}, err
	}
	return result.(domain.Test), nil
}

func (r *TestRepository) ListTests(ctx context.Context) ([]domain.TestSummary, error) {
	r.mu.RLock()
	if l := r.listing; l != nil && l.expiresAt.After(r.clock()) {
		r.mu.RUnlock()
		return append([]domain.TestSummary(nil), l.tests...), nil
	}
	r.mu.RUnlock()

	result, err, _ := r.sf.Do(listingKey, func() (interface{}, error) {
		tests, err := r.store.ListTests(ctx)
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.listing = &cachedListing{tests: tests, expiresAt: r.clock().Add(r.ttlWithJitter())}
		r.mu.Unlock()
		return tests, nil
	})
	if err != nil {
		return nil, err
	}
	return append([]domain.TestSummary(nil), result.([]domain.TestSummary)...), nil
}

// SaveTest writes through to the store and drops the cached copies it invalidates.
func (r *TestRepository) SaveTest(ctx context.Context, t domain.Test) (string, error) {
	location, err := r.store.SaveTest(ctx, t)
	if err != nil {
		return "", err
	}
	r.mu.Lock()
	delete(r.cache, t.ID)
	r.listing = nil
	r.mu.Unlock()
	r.sf.Forget(t.ID)
	r.sf.Forget(listingKey)
	return location, nil
}

func (r *TestRepository) cached(testID string) (domain.Test, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if entry, ok := r.cache[testID]; ok && entry.expiresAt.After(r.clock()) {
		return entry.test, true
	}
	return domain.Test{}, false
}

func (r *TestRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
