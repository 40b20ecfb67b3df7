package memory

import (
	"context"
	"sync"
	"time"

	"quiz-ladders/internal/ui"
)

// StoreRegistry is an in-memory implementation of ui.Registry.
type StoreRegistry struct {
	factory ui.Factory
	idle    time.Duration
	clock   func() time.Time

	mu     sync.RWMutex
	stores map[string]*ui.Store
}

// NewStoreRegistry keeps stores until they have had no subscriber and no request for idle.
func NewStoreRegistry(factory ui.Factory, idle time.Duration) *StoreRegistry {
	return &StoreRegistry{
		factory: factory,
		idle:    idle,
		clock:   time.Now,
		stores:  make(map[string]*ui.Store),
	}
}

func (r *StoreRegistry) GetOrCreate(clientID string) *ui.Store {
	r.mu.Lock()
	defer r.mu.Unlock()
	if store, ok := r.stores[clientID]; ok {
		store.Touch()
		return store
	}
	store := r.factory(clientID)
	r.stores[clientID] = store
	return store
}

func (r *StoreRegistry) Get(clientID string) (*ui.Store, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	store, ok := r.stores[clientID]
	return store, ok
}

func (r *StoreRegistry) Sweep(_ context.Context) int {
	cutoff := r.clock().Add(-r.idle)

	r.mu.Lock()
	var gone []*ui.Store
	for id, store := range r.stores {
		if store.Idle(cutoff) {
			delete(r.stores, id)
			gone = append(gone, store)
		}
	}
	r.mu.Unlock()

	for _, store := range gone {
		store.Close()
	}
	return len(gone)
}

// Len returns the number of live stores.
func (r *StoreRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.stores)
}
