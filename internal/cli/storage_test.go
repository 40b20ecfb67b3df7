package cli

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"quiz-ladders/internal/config"
	"quiz-ladders/internal/domain"
)

func TestCacheTTL(t *testing.T) {
	cfg := config.Default()
	cfg.Quiz.TTL = "2m"
	if got := cacheTTL(cfg, false); got != 2*time.Minute {
		t.Fatalf("memory cache: expected 2m, got %v", got)
	}
	if got := cacheTTL(cfg, true); got != 2*time.Minute {
		t.Fatalf("redis cache without redis.ttl: expected 2m, got %v", got)
	}

	cfg.Redis.TTL = "45s"
	if got := cacheTTL(cfg, true); got != 45*time.Second {
		t.Fatalf("redis cache: expected 45s, got %v", got)
	}
	if got := cacheTTL(cfg, false); got != 2*time.Minute {
		t.Fatalf("memory cache must ignore redis.ttl, got %v", got)
	}
}

func TestOpenTestStoreDrivers(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default()
	cfg.Storage.TestsDir = filepath.Join(t.TempDir(), "tests")

	for _, driver := range []string{config.DriverFile, config.DriverMemory, config.DriverSQLite} {
		cfg.Storage.Driver = driver
		cfg.SQLite.Path = filepath.Join(t.TempDir(), "quiz.db")
		store, closeStore, err := openTestStore(ctx, cfg)
		if err != nil {
			t.Fatalf("%s: open: %v", driver, err)
		}
		if _, err := store.LoadTest(ctx, "missing"); !errors.Is(err, domain.ErrTestNotFound) {
			t.Fatalf("%s: expected ErrTestNotFound, got %v", driver, err)
		}
		closeStore()
	}

	cfg.Storage.Driver = "mongo"
	if _, _, err := openTestStore(ctx, cfg); err == nil {
		t.Fatalf("expected unknown driver error")
	}
}

