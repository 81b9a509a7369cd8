package leaderboard

import (
	"context"
	"time"
)

// MemberScore is one member of a sorted set with its score.
type MemberScore struct {
	Member string
	Score  float64
}

// SortedSetCache is the ranking storage port, backed by sorted sets with
// per-key expiry.
type SortedSetCache interface {
	// AddScore inserts or updates one member's score in a key.
	AddScore(ctx context.Context, key, member string, score float64) error

	// Expire refreshes the key's TTL.
	Expire(ctx context.Context, key string, ttl time.Duration) error

	// Delete removes the key entirely.
	Delete(ctx context.Context, key string) error

	// TopWithScores returns up to limit members by descending score.
	TopWithScores(ctx context.Context, key string, limit int64) ([]MemberScore, error)

	// RankAndScore returns a member's zero-based descending rank and
	// score, or shared.ErrNotFound when the member is absent.
	RankAndScore(ctx context.Context, key, member string) (int64, float64, error)

	// Cardinality returns the number of members in the key.
	Cardinality(ctx context.Context, key string) (int64, error)
}
