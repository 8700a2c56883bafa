// Package cache keeps read-through copies of hot API reads in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/team-service/internal/domain"
)

const teamListKey = "teams:list"

var (
	// ErrCacheMiss is returned when no cached entry exists or the entry cannot be trusted.
	ErrCacheMiss = errors.New("cache miss")
	// ErrStaleSnapshot is returned by SetTeams when an invalidation happened after the snapshot was read.
	ErrStaleSnapshot = errors.New("stale team list snapshot")
)

// TeamCache stores the team list with a TTL.
//
// Every Invalidate bumps the generation. A snapshot may only be stored under the
// generation it was read at. A failed delete marks the cache dirty and reads
// bypass Redis until a later delete or write succeeds.
type TeamCache struct {
	client     *redis.Client
	ttl        time.Duration
	generation atomic.Uint64
	dirty      atomic.Bool
}

// NewTeamCache wraps a Redis client. A nil client yields a nil cache.
func NewTeamCache(client *redis.Client, ttl time.Duration) *TeamCache {
	if client == nil || ttl <= 0 {
		return nil
	}
	return &TeamCache{client: client, ttl: ttl}
}

type cachedTeam struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	MemberCount int       `json:"member_count"`
}

// GetTeams returns the cached list or ErrCacheMiss.
func (c *TeamCache) GetTeams(ctx context.Context) ([]domain.Team, error) {
	if c == nil || c.dirty.Load() {
		return nil, ErrCacheMiss
	}
	raw, err := c.client.Get(ctx, teamListKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var cached []cachedTeam
	if err := json.Unmarshal(raw, &cached); err != nil {
		return nil, fmt.Errorf("decode cached teams: %w", err)
	}
	teams := make([]domain.Team, 0, len(cached))
	for _, t := range cached {
		teams = append(teams, domain.Team{
			ID:          t.ID,
			Name:        t.Name,
			Description: t.Description,
			CreatedAt:   t.CreatedAt,
			MemberCount: t.MemberCount,
		})
	}
	return teams, nil
}

// Generation returns the current invalidation generation. Read it before
// loading the list from the store and pass it to SetTeams.
func (c *TeamCache) Generation() uint64 {
	if c == nil {
		return 0
	}
	return c.generation.Load()
}

// SetTeams stores a list read at generation gen.
func (c *TeamCache) SetTeams(ctx context.Context, teams []domain.Team, gen uint64) error {
	if c == nil {
		return nil
	}
	if c.generation.Load() != gen {
		return ErrStaleSnapshot
	}
	cached := make([]cachedTeam, 0, len(teams))
	for _, t := range teams {
		cached = append(cached, cachedTeam{
			ID:          t.ID,
			Name:        t.Name,
			Description: t.Description,
			CreatedAt:   t.CreatedAt,
			MemberCount: t.MemberCount,
		})
	}
	raw, err := json.Marshal(cached)
	if err != nil {
		return fmt.Errorf("encode teams: %w", err)
	}
	if err := c.client.Set(ctx, teamListKey, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	c.dirty.Store(false)
	// an invalidation may have run between the check and the write.
	if c.generation.Load() != gen {
		if err := c.del(ctx); err != nil {
			return err
		}
		return ErrStaleSnapshot
	}
	return nil
}

// Invalidate drops the cached list.
func (c *TeamCache) Invalidate(ctx context.Context) error {
	if c == nil {
		return nil
	}
	c.generation.Add(1)
	return c.del(ctx)
}

func (c *TeamCache) del(ctx context.Context) error {
	if err := c.client.Del(ctx, teamListKey).Err(); err != nil {
		c.dirty.Store(true)
		return fmt.Errorf("redis del failed: %w", err)
	}
	c.dirty.Store(false)
	return nil
}
