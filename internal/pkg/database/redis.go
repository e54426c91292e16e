package database

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/phee/operations/api/internal/config"
	apperrors "github.com/phee/operations/api/internal/pkg/errors"
	"github.com/phee/operations/api/internal/pkg/logger"
)

// RedisDB holds the Redis client backing the rate limiter
type RedisDB struct {
	Client *redis.Client
}

// redisOptions keeps the pool small; the limiter issues one pipeline per request
func redisOptions(cfg config.RedisConfig) *redis.Options {
	return &redis.Options{
		Addr:         net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Password:     cfg.Password,
		DB:           cfg.DB,
		MaxRetries:   1,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
		PoolSize:     10,
		PoolTimeout:  time.Second,
	}
}

// NewRedis connects to Redis and verifies the connection
func NewRedis(ctx context.Context, cfg config.RedisConfig) (*RedisDB, error) {
	opts := redisOptions(cfg)
	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", opts.Addr, err)
	}

	logger.Info("connected to Redis", zap.String("addr", opts.Addr), zap.Int("db", cfg.DB))

	return &RedisDB{Client: client}, nil
}

func (db *RedisDB) Close() error {
	if db.Client == nil {
		return nil
	}
	return db.Client.Close()
}

// Ping reports whether Redis answers
func (db *RedisDB) Ping(ctx context.Context) error {
	if db.Client == nil {
		return apperrors.Unavailable("redis")
	}
	return db.Client.Ping(ctx).Err()
}
