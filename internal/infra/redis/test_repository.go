package redis

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
	"quiz-ladders/internal/app"
	"quiz-ladders/internal/domain"
)

// TestRepository caches test documents in Redis and falls back to a store on cache miss.
// Documents are stored as:  SET test:{testID}:doc {json}
// The listing is stored as: SET tests:listing {json}
type TestRepository struct {
	client *redis.Client
	store  app.TestStore
	ttl    time.Duration
	sf     singleflight.Group
	rndMu  sync.Mutex
	rnd    *rand.Rand
}

func NewTestRepository(client *redis.Client, store app.TestStore, ttl time.Duration) *TestRepository {
	return &TestRepository{
		client: client,
		store:  store,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *TestRepository) GetTest(ctx context.Context, testID string) (domain.Test, error) {
	key := r.docKey(testID)
	var cached domain.Test
	if r.read(ctx, key, &cached) {
		return cached, nil
	}

	result, err, _ := r.sf.Do(key, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		var cached domain.Test
		if r.read(ctx, key, &cached) {
			return cached, nil
		}

		t, err := r.store.LoadTest(ctx, testID)
		if err != nil {
			return domain.Test{}, err
		}
		r.write(ctx, key, t)
		return t, nil
	})
	if err != nil {
		return domain.Test{}, err
	}
	return result.(domain.Test), nil
}

func (r *TestRepository) ListTests(ctx context.Context) ([]domain.TestSummary, error) {
	var cached []domain.TestSummary
	if r.read(ctx, listingKey, &cached) {
		return cached, nil
	}

	result, err, _ := r.sf.Do(listingKey, func() (interface{}, error) {
		tests, err := r.store.ListTests(ctx)
		if err != nil {
			return nil, err
		}
		r.write(ctx, listingKey, tests)
		return tests, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.TestSummary), nil
}

// SaveTest writes through to the store and drops the cached document and listing.
func (r *TestRepository) SaveTest(ctx context.Context, t domain.Test) (string, error) {
	location, err := r.store.SaveTest(ctx, t)
	if err != nil {
		return "", err
	}
	if err := r.client.Del(ctx, r.docKey(t.ID), listingKey).Err(); err != nil {
		log.Printf("redis: invalidate %s: %v", t.ID, err)
	}
	return location, nil
}

const listingKey = "tests:listing"

func (r *TestRepository) docKey(testID string) string {
	return "test:" + testID + ":doc"
}

func (r *TestRepository) read(ctx context.Context, key string, out any) bool {
	raw, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("redis: get %s: %v", key, err)
		}
		return false
	}
	return json.Unmarshal(raw, out) == nil
}

// write is best effort; a failed cache fill only costs a later store hit.
func (r *TestRepository) write(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := r.client.Set(ctx, key, raw, r.ttlWithJitter()).Err(); err != nil {
		log.Printf("redis: set %s: %v", key, err)
	}
}

func (r *TestRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
