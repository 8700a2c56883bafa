package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/team-service/internal/config"
)

const redisDialTimeout = 2 * time.Second

// Redis owns the optional client behind the team list cache.
// The zero value is a disabled backend and the cache is skipped.
type Redis struct {
	client *redis.Client
}

// NewRedis builds a client when an address is configured. An unreachable server
// is logged, not fatal: cache calls fail and reads go to the store.
func NewRedis(cfg config.RedisConfig, logger *zap.Logger) *Redis {
	if cfg.Addr == "" {
		logger.Info("REDIS_ADDR not provided; team cache disabled")
		return &Redis{}
	}

	r := &Redis{client: redis.NewClient(redisOptions(cfg))}

	ctx, cancel := context.WithTimeout(context.Background(), redisDialTimeout)
	defer cancel()
	if err := r.Ping(ctx); err != nil {
		logger.Warn("redis unreachable at startup", zap.String("addr", cfg.Addr), zap.Error(err))
	} else {
		logger.Info("connected to redis", zap.String("addr", cfg.Addr), zap.Int("db", cfg.DB))
	}
	return r
}

func redisOptions(cfg config.RedisConfig) *redis.Options {
	return &redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: redisDialTimeout,
	}
}

func (r *Redis) Enabled() bool {
	return r != nil && r.client != nil
}

// Handle returns the client, or nil when disabled.
func (r *Redis) Handle() *redis.Client {
	if !r.Enabled() {
		return nil
	}
	return r.client
}

func (r *Redis) Close() {
	if r.Enabled() {
		_ = r.client.Close()
	}
}

func (r *Redis) Ping(ctx context.Context) error {
	if !r.Enabled() {
		return fmt.Errorf("redis: %w", ErrDisabled)
	}
	return r.client.Ping(ctx).Err()
}
