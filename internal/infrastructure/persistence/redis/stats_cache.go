// Package redis implements the Redis cache layer.
package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/focushub/focushub/internal/domain/shared"
	"github.com/focushub/focushub/internal/domain/stats"
)

// ══════════════════════════════════════════════════════════════════════════════
// PERIOD STATS READ CACHE
// ══════════════════════════════════════════════════════════════════════════════

// statsKeyPrefix namespaces the period statistics cache. The full key is
// "stats:cache:{userID}:{period}" so one pattern delete invalidates every
// period for a user.
const statsKeyPrefix = "stats:cache:"

// StatsCache implements stats.ReadCache on plain JSON values with a short
// TTL.
type StatsCache struct {
	cache *Cache
}

// NewStatsCache creates a new StatsCache.
func NewStatsCache(cache *Cache) *StatsCache {
	return &StatsCache{cache: cache}
}

func statsKey(userID string, period stats.Period) string {
	return fmt.Sprintf("%s%s:%s", statsKeyPrefix, userID, period)
}

// Get returns the cached stats or shared.ErrNotFound on a miss.
func (s *StatsCache) Get(ctx context.Context, userID string, period stats.Period) (*stats.PeriodStats, error) {
	var cached stats.PeriodStats
	if err := s.cache.Get(ctx, statsKey(userID, period), &cached); err != nil {
		if errors.Is(err, ErrCacheMiss) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &cached, nil
}

// Set stores computed stats under the stats TTL.
func (s *StatsCache) Set(ctx context.Context, ps *stats.PeriodStats) error {
	return s.cache.Set(ctx, statsKey(ps.UserID, ps.Period), ps, TTLStatsCache)
}

// InvalidateUser removes every cached period for the user.
func (s *StatsCache) InvalidateUser(ctx context.Context, userID string) error {
	return s.cache.DeleteByPattern(ctx, statsKeyPrefix+userID+":*")
}

// PurgeAll removes every cached period for every user. Used by the weekly
// cleanup job.
func (s *StatsCache) PurgeAll(ctx context.Context) error {
	return s.cache.DeleteByPattern(ctx, statsKeyPrefix+"*")
}
