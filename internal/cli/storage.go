package cli

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"quiz-ladders/internal/app"
	"quiz-ladders/internal/config"
	"quiz-ladders/internal/infra/filestore"
	"quiz-ladders/internal/infra/memory"
	pgstore "quiz-ladders/internal/infra/postgres"
	infraredis "quiz-ladders/internal/infra/redis"
	"quiz-ladders/internal/infra/sqlite"
)

// openTestStore builds the backing store named by storage.driver. The returned cleanup
// releases its connections.
func openTestStore(ctx context.Context, cfg config.Config) (app.TestStore, func(), error) {
	noop := func() {}
	switch cfg.Storage.Driver {
	case "", config.DriverFile:
		store, err := filestore.New(cfg.Storage.TestsDir)
		if err != nil {
			return nil, noop, err
		}
		log.Printf("storage: json files in %s", cfg.Storage.TestsDir)
		return store, noop, nil
	case config.DriverPostgres:
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return nil, noop, err
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, noop, fmt.Errorf("connect postgres: %w", err)
		}
		log.Printf("storage: postgres")
		return pgstore.NewTestStore(pool), pool.Close, nil
	case config.DriverSQLite:
		store, err := sqlite.Open(ctx, cfg.SQLite.Path)
		if err != nil {
			return nil, noop, err
		}
		log.Printf("storage: sqlite at %s", cfg.SQLite.Path)
		return store, func() { _ = store.Close() }, nil
	case config.DriverMemory:
		log.Printf("storage: in-memory (saved tests are lost on exit)")
		return memory.NewStaticTestStore(), noop, nil
	default:
		return nil, noop, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// newRedisClient returns nil when no Redis address is configured.
func newRedisClient(cfg config.Config) *redis.Client {
	if cfg.Redis.Addr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

// newTestRepository puts the read cache in front of store: Redis when configured,
// in-process otherwise.
func newTestRepository(cfg config.Config, store app.TestStore, redisClient *redis.Client) app.TestRepository {
	if redisClient != nil {
		return infraredis.NewTestRepository(redisClient, store, cacheTTL(cfg, true))
	}
	return memory.NewTestRepository(store, cacheTTL(cfg, false))
}

// cacheTTL is quiz.ttl, overridden by redis.ttl for the Redis cache.
func cacheTTL(cfg config.Config, onRedis bool) time.Duration {
	ttl := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	if onRedis {
		ttl = config.TTLDuration(cfg.Redis.TTL, ttl)
	}
	return ttl
}
