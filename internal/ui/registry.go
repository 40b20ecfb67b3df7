package ui

import (
	"context"
	"log"
	"time"
)

// Registry keeps one Store per browser (in-memory, Redis-marked, etc).
type Registry interface {
	GetOrCreate(clientID string) *Store
	Get(clientID string) (*Store, bool)
	// Sweep closes and forgets stores whose browsers went away. It returns how many were removed.
	Sweep(ctx context.Context) int
}

// Factory builds the store for a newly seen browser.
type Factory func(clientID string) *Store

// RunSweeper calls reg.Sweep every interval until ctx is done.
func RunSweeper(ctx context.Context, reg Registry, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := reg.Sweep(ctx); n > 0 {
				log.Printf("swept %d idle clients", n)
			}
		}
	}
}
