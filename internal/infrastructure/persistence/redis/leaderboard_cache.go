// Package redis implements the Redis cache layer.
package redis

import (
	"context"
	"errors"
	"time"

	"github.com/focushub/focushub/internal/domain/leaderboard"
	"github.com/focushub/focushub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// LEADERBOARD SORTED SET CACHE
// ══════════════════════════════════════════════════════════════════════════════

// LeaderboardCache implements leaderboard.SortedSetCache on Redis sorted
// sets. Absent members surface as shared.ErrNotFound so the domain layer
// can distinguish "no rank" from a backend failure.
type LeaderboardCache struct {
	cache *Cache
}

// NewLeaderboardCache creates a new LeaderboardCache.
func NewLeaderboardCache(cache *Cache) *LeaderboardCache {
	return &LeaderboardCache{cache: cache}
}

// AddScore inserts or updates one member's score in a key.
func (l *LeaderboardCache) AddScore(ctx context.Context, key, member string, score float64) error {
	return l.cache.ZAdd(ctx, key, member, score)
}

// Expire refreshes the key's TTL.
func (l *LeaderboardCache) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return l.cache.Expire(ctx, key, ttl)
}

// Delete removes the key entirely.
func (l *LeaderboardCache) Delete(ctx context.Context, key string) error {
	return l.cache.Delete(ctx, key)
}

// TopWithScores returns up to limit members by descending score.
func (l *LeaderboardCache) TopWithScores(ctx context.Context, key string, limit int64) ([]leaderboard.MemberScore, error) {
	zs, err := l.cache.ZRevRangeWithScores(ctx, key, 0, limit-1)
	if err != nil {
		return nil, err
	}

	members := make([]leaderboard.MemberScore, 0, len(zs))
	for _, z := range zs {
		member, ok := z.Member.(string)
		if !ok {
			continue
		}
		members = append(members, leaderboard.MemberScore{Member: member, Score: z.Score})
	}
	return members, nil
}

// RankAndScore returns a member's zero-based descending rank and score.
func (l *LeaderboardCache) RankAndScore(ctx context.Context, key, member string) (int64, float64, error) {
	rank, err := l.cache.ZRevRank(ctx, key, member)
	if err != nil {
		if errors.Is(err, ErrCacheMiss) {
			return 0, 0, shared.ErrNotRanked
		}
		return 0, 0, err
	}

	score, err := l.cache.ZScore(ctx, key, member)
	if err != nil {
		if errors.Is(err, ErrCacheMiss) {
			return 0, 0, shared.ErrNotRanked
		}
		return 0, 0, err
	}

	return rank, score, nil
}

// Cardinality returns the number of members in the key.
func (l *LeaderboardCache) Cardinality(ctx context.Context, key string) (int64, error) {
	return l.cache.ZCard(ctx, key)
}
