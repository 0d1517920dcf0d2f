package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	redis "github.com/go-redis/redis/v8"
	"github.com/leeforge/genico/config"
	"github.com/leeforge/genico/logging"
	"go.uber.org/zap"
)

const redisKeyPrefix = "genico:ico:"

// Redis stores conversions in a shared redis so several server replicas
// reuse each other's work.
type Redis struct {
	client *redis.Client
}

// NewRedis connects and pings the server described by cnf.
func NewRedis(ctx context.Context, cnf config.RedisConfig, logger logging.Logger) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cnf.Addr(),
		Password: cnf.Password,
		DB:       cnf.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cnf.Addr(), err)
	}
	logger.Info("redis connected",
		zap.String("addr", cnf.Addr()),
		zap.Int("db", cnf.DB),
		zap.String("password", redactedPassword(cnf.Password)),
	)
	return &Redis{client: client}, nil
}

// NewRedisFromClient wraps an existing client.
func NewRedisFromClient(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := r.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.client.Set(ctx, redisKeyPrefix+key, value, ttl).Err()
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, redisKeyPrefix+key).Err()
}

func (r *Redis) Close() error {
	return r.client.Close()
}

func redactedPassword(password string) string {
	if password == "" {
		return "<empty>"
	}
	return "[REDACTED]"
}
