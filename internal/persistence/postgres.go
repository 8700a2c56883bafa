package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/spec-kit/team-service/internal/config"
)

// ErrDisabled is returned by Ping on a backend that was never configured.
var ErrDisabled = errors.New("not configured")

// Postgres owns the pgx pool behind the team and member repositories.
// The zero value is a disabled backend; callers then use the in-process store.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres opens and pings a pool when a DSN is configured.
func NewPostgres(ctx context.Context, cfg config.PostgresConfig, logger *zap.Logger) (*Postgres, error) {
	if cfg.DSN == "" {
		logger.Warn("POSTGRES_DSN not provided; using in-process store")
		return &Postgres{}, nil
	}

	poolCfg, err := poolConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	logger.Info("connected to postgres",
		zap.Int32("max_conns", poolCfg.MaxConns),
		zap.Int32("min_conns", poolCfg.MinConns),
	)
	return &Postgres{pool: pool}, nil
}

// poolConfig parses the DSN and lets positive config values override pgx defaults.
func poolConfig(cfg config.PostgresConfig) (*pgxpool.Config, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, err
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = min(cfg.MinConns, poolCfg.MaxConns)
	}
	if d := seconds(cfg.ConnMaxIdleSec); d > 0 {
		poolCfg.MaxConnIdleTime = d
	}
	if d := seconds(cfg.ConnMaxLifeSec); d > 0 {
		poolCfg.MaxConnLifetime = d
	}
	return poolCfg, nil
}

func seconds(n int32) time.Duration {
	return time.Duration(n) * time.Second
}

func (p *Postgres) Enabled() bool {
	return p != nil && p.pool != nil
}

func (p *Postgres) Close() {
	if p.Enabled() {
		p.pool.Close()
	}
}

// PoolHandle returns the pool, or nil when disabled.
func (p *Postgres) PoolHandle() *pgxpool.Pool {
	if !p.Enabled() {
		return nil
	}
	return p.pool
}

func (p *Postgres) Ping(ctx context.Context) error {
	if !p.Enabled() {
		return fmt.Errorf("postgres: %w", ErrDisabled)
	}
	return p.pool.Ping(ctx)
}
