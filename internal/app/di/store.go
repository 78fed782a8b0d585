// Package di provides dependency injection factories for creating application components.
package di

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"paisable/internal/app/config"
	authadapters "paisable/internal/feature/auth/adapters"
	authusecase "paisable/internal/feature/auth/usecase"
	"paisable/internal/platform/cache"
	"paisable/internal/platform/db"
	"paisable/internal/platform/http/handler"
	platformmongo "paisable/internal/platform/mongo"
	platformredis "paisable/internal/platform/redis"
)

// Store is the selected user store plus what the server needs to probe and close it.
type Store struct {
	Users  authusecase.UserRepository
	Checks map[string]handler.CheckFunc
	Close  func(ctx context.Context) error
}

// NewRedis connects to Redis when configured. It returns nil, and the server
// runs without a cache, when Redis is not configured or unreachable.
func NewRedis(ctx context.Context, cfg platformredis.Config) *redis.Client {
	if !cfg.Enabled() {
		slog.Info("Redis not configured. Running without cache.")
		return nil
	}
	rdb, err := platformredis.NewRedisClient(ctx, cfg)
	if err != nil {
		slog.Warn("Redis unavailable. Running without cache.", "error", err)
		return nil
	}
	return rdb
}

// NewStore creates the user repository. MongoDB is used when MONGO_URI is
// set, GORM otherwise. The repository is wrapped in the Redis cache, which
// passes through when rdb is nil.
func NewStore(ctx context.Context, cfg config.Config, rdb *redis.Client) (*Store, error) {
	var (
		store *Store
		err   error
	)
	if cfg.Mongo.Enabled() {
		store, err = newMongoStore(ctx, cfg.Mongo)
	} else {
		store, err = newGormStore(cfg.DB)
	}
	if err != nil {
		return nil, err
	}

	store.Users = cache.NewCachingUserRepository(rdb, cfg.UserCacheTTL, store.Users, "users")
	if rdb != nil {
		store.Checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	return store, nil
}

func newMongoStore(ctx context.Context, cfg platformmongo.Config) (*Store, error) {
	client, err := platformmongo.NewMongoClient(ctx, cfg)
	if err != nil {
		return nil, err
	}

	repo := authadapters.NewUserMongo(client.Database(cfg.Database))
	if err := repo.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	slog.Info("user store selected", "store", "mongo", "database", cfg.Database)
	return &Store{
		Users:  repo,
		Checks: map[string]handler.CheckFunc{"mongo": platformmongo.PingFunc(client)},
		Close:  client.Disconnect,
	}, nil
}

func newGormStore(cfg db.Config) (*Store, error) {
	gdb, err := db.OpenDB(cfg, &authadapters.UserModel{})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Driver, err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}

	slog.Info("user store selected", "store", "gorm", "driver", cfg.Driver)
	return &Store{
		Users:  authadapters.NewUserGorm(gdb),
		Checks: map[string]handler.CheckFunc{"database": db.PingFunc(gdb)},
		Close:  func(context.Context) error { return sqlDB.Close() },
	}, nil
}
