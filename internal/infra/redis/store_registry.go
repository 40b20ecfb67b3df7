package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"quiz-ladders/internal/ui"
)

// StoreRegistry is a Redis-aware implementation of ui.Registry.
// Notes:
//   - Stores live in a local map; they own goroutines and channels that cannot be shared.
//   - Redis holds a liveness key per browser, refreshed on every request. A store is swept
//     once its key has expired and nothing is subscribed to it.
type StoreRegistry struct {
	client  *redis.Client
	ttl     time.Duration
	factory ui.Factory
	clock   func() time.Time

	mu     sync.RWMutex
	stores map[string]*ui.Store
}

func NewStoreRegistry(client *redis.Client, factory ui.Factory, ttl time.Duration) *StoreRegistry {
	return &StoreRegistry{
		client:  client,
		ttl:     ttl,
		factory: factory,
		clock:   time.Now,
		stores:  make(map[string]*ui.Store),
	}
}

func (r *StoreRegistry) GetOrCreate(clientID string) *ui.Store {
	r.mu.Lock()
	store, ok := r.stores[clientID]
	if !ok {
		store = r.factory(clientID)
		r.stores[clientID] = store
	}
	r.mu.Unlock()

	store.Touch()
	// best-effort liveness marker
	_ = r.client.Set(context.Background(), r.key(clientID), "1", r.ttl).Err()
	return store
}

func (r *StoreRegistry) Get(clientID string) (*ui.Store, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	store, ok := r.stores[clientID]
	return store, ok
}

func (r *StoreRegistry) Sweep(ctx context.Context) int {
	r.mu.RLock()
	ids := make([]string, 0, len(r.stores))
	for id := range r.stores {
		ids = append(ids, id)
	}
	r.mu.RUnlock()

	now := r.clock()
	var gone []*ui.Store
	for _, id := range ids {
		n, err := r.client.Exists(ctx, r.key(id)).Result()
		if err != nil || n > 0 {
			continue
		}
		r.mu.Lock()
		if store, ok := r.stores[id]; ok && store.Idle(now) {
			delete(r.stores, id)
			gone = append(gone, store)
		}
		r.mu.Unlock()
	}

	for _, store := range gone {
		store.Close()
	}
	return len(gone)
}

func (r *StoreRegistry) key(clientID string) string {
	return "quiz:client:" + clientID
}
