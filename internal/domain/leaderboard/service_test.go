package leaderboard

import (
	"context"
	"io"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/focushub/focushub/internal/domain/shared"
	"github.com/focushub/focushub/internal/domain/stats"
	"github.com/focushub/focushub/pkg/logger"
)

// memorySortedSets mimics sorted-set semantics over plain maps.
type memorySortedSets struct {
	sets map[string]map[string]float64
}

func newMemorySortedSets() *memorySortedSets {
	return &memorySortedSets{sets: make(map[string]map[string]float64)}
}

func (c *memorySortedSets) AddScore(_ context.Context, key, member string, score float64) error {
	set, ok := c.sets[key]
	if !ok {
		set = make(map[string]float64)
		c.sets[key] = set
	}
	set[member] = score
	return nil
}

func (c *memorySortedSets) Expire(context.Context, string, time.Duration) error { return nil }

func (c *memorySortedSets) Delete(_ context.Context, key string) error {
	delete(c.sets, key)
	return nil
}

func (c *memorySortedSets) sorted(key string) []MemberScore {
	set := c.sets[key]
	members := make([]MemberScore, 0, len(set))
	for m, s := range set {
		members = append(members, MemberScore{Member: m, Score: s})
	}
	sort.Slice(members, func(i, j int) bool {
		if members[i].Score != members[j].Score {
			return members[i].Score > members[j].Score
		}
		return members[i].Member < members[j].Member
	})
	return members
}

func (c *memorySortedSets) TopWithScores(_ context.Context, key string, limit int64) ([]MemberScore, error) {
	members := c.sorted(key)
	if int64(len(members)) > limit {
		members = members[:limit]
	}
	return members, nil
}

func (c *memorySortedSets) RankAndScore(_ context.Context, key, member string) (int64, float64, error) {
	for i, m := range c.sorted(key) {
		if m.Member == member {
			return int64(i), m.Score, nil
		}
	}
	return 0, 0, shared.ErrNotRanked
}

func (c *memorySortedSets) Cardinality(_ context.Context, key string) (int64, error) {
	return int64(len(c.sets[key])), nil
}

type rankStatsRepo struct {
	users map[string]*stats.UserStats
}

func (r *rankStatsRepo) GetByUserID(_ context.Context, userID string) (*stats.UserStats, error) {
	s, ok := r.users[userID]
	if !ok {
		return nil, shared.ErrStatsNotFound
	}
	return s, nil
}

func (r *rankStatsRepo) GetOrCreate(ctx context.Context, userID string) (*stats.UserStats, error) {
	return r.GetByUserID(ctx, userID)
}

func (r *rankStatsRepo) Save(_ context.Context, s *stats.UserStats) error {
	r.users[s.UserID] = s
	return nil
}

func (r *rankStatsRepo) GetAll(_ context.Context) ([]*stats.UserStats, error) {
	all := make([]*stats.UserStats, 0, len(r.users))
	for _, s := range r.users {
		all = append(all, s)
	}
	return all, nil
}

func (r *rankStatsRepo) CountActive(context.Context) (int, error) { return 0, nil }

func (r *rankStatsRepo) GlobalFocusMinutes(context.Context) (int, int, error) { return 0, 0, nil }

func userWithXP(userID string, totalXP int) *stats.UserStats {
	s := stats.NewUserStats(userID)
	s.TotalXPEarned = totalXP
	return s
}

func newTestService(users ...*stats.UserStats) (*Service, *memorySortedSets, *rankStatsRepo) {
	repo := &rankStatsRepo{users: make(map[string]*stats.UserStats)}
	for _, u := range users {
		repo.users[u.UserID] = u
	}
	cache := newMemorySortedSets()
	log := logger.New(logger.Options{Output: io.Discard})
	return NewService(cache, repo, log), cache, repo
}

func TestService_GetTop_RebuildsOnMiss(t *testing.T) {
	svc, cache, _ := newTestService(
		userWithXP("alice", 900),
		userWithXP("bob", 400),
		userWithXP("carol", 1500),
	)
	ctx := context.Background()

	key := Key(TypeXP, ScopeGlobal, "")
	require.Empty(t, cache.sets[key], "cache starts cold")

	entries := svc.GetTop(ctx, TypeXP, ScopeGlobal, "", 10)

	require.Len(t, entries, 3)
	assert.Equal(t, "carol", entries[0].UserID)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, "alice", entries[1].UserID)
	assert.Equal(t, "bob", entries[2].UserID)
	assert.Equal(t, 3, entries[2].Rank)
}

func TestService_GetTop_RespectsLimit(t *testing.T) {
	svc, _, _ := newTestService(
		userWithXP("alice", 900),
		userWithXP("bob", 400),
		userWithXP("carol", 1500),
	)

	entries := svc.GetTop(context.Background(), TypeXP, ScopeGlobal, "", 2)
	assert.Len(t, entries, 2)
}

func TestService_Rebuild_ExcludesZeroScores(t *testing.T) {
	svc, cache, _ := newTestService(
		userWithXP("active", 500),
		userWithXP("inactive", 0),
	)
	ctx := context.Background()

	require.NoError(t, svc.Rebuild(ctx, TypeXP, ScopeGlobal, ""))

	key := Key(TypeXP, ScopeGlobal, "")
	assert.Len(t, cache.sets[key], 1)
	_, present := cache.sets[key]["inactive"]
	assert.False(t, present, "zero scores never enter a ranking")
}

func TestService_GetUserRank(t *testing.T) {
	svc, _, _ := newTestService(
		userWithXP("alice", 900),
		userWithXP("bob", 400),
	)
	ctx := context.Background()

	require.NoError(t, svc.Rebuild(ctx, TypeXP, ScopeGlobal, ""))

	entry := svc.GetUserRank(ctx, TypeXP, ScopeGlobal, "", "bob")
	require.NotNil(t, entry)
	assert.Equal(t, 2, entry.Rank, "rank is one-based")
	assert.Equal(t, 400.0, entry.Score)
	assert.True(t, entry.IsCurrentUser)
}

func TestService_GetUserRank_AbsentUserIsNil(t *testing.T) {
	svc, _, _ := newTestService(userWithXP("alice", 900))
	ctx := context.Background()

	require.NoError(t, svc.Rebuild(ctx, TypeXP, ScopeGlobal, ""))

	assert.Nil(t, svc.GetUserRank(ctx, TypeXP, ScopeGlobal, "", "stranger"))
}

func TestService_UpdateUserLeaderboards(t *testing.T) {
	svc, cache, _ := newTestService(userWithXP("alice", 900))
	ctx := context.Background()

	svc.UpdateUserLeaderboards(ctx, "alice", "g1")

	for _, typ := range AllTypes() {
		globalKey := Key(typ, ScopeGlobal, "")
		_, ok := cache.sets[globalKey]["alice"]
		assert.True(t, ok, "global key for %s", typ)
	}

	serverKey := Key(TypeXP, ScopeServer, "g1")
	assert.Equal(t, 900.0, cache.sets[serverKey]["alice"])
}

func TestService_UpdateUserLeaderboards_UnknownUserIsNoop(t *testing.T) {
	svc, cache, _ := newTestService()

	svc.UpdateUserLeaderboards(context.Background(), "ghost", "")

	assert.Empty(t, cache.sets)
}

func TestService_GetSize(t *testing.T) {
	svc, _, _ := newTestService(
		userWithXP("alice", 900),
		userWithXP("bob", 400),
	)
	ctx := context.Background()

	require.NoError(t, svc.Rebuild(ctx, TypeXP, ScopeGlobal, ""))

	assert.Equal(t, int64(2), svc.GetSize(ctx, TypeXP, ScopeGlobal, ""))
	assert.Equal(t, int64(0), svc.GetSize(ctx, TypeXP, ScopeServer, "empty-guild"))
}

func TestService_RebuildAllGlobal(t *testing.T) {
	svc, cache, _ := newTestService(userWithXP("alice", 900))
	ctx := context.Background()

	require.NoError(t, svc.RebuildAllGlobal(ctx))

	// XP and level (starts at 1) rank alice; her zero-valued counters
	// leave the other keys empty.
	assert.Len(t, cache.sets[Key(TypeXP, ScopeGlobal, "")], 1)
	assert.Len(t, cache.sets[Key(TypeLevel, ScopeGlobal, "")], 1)
	assert.Empty(t, cache.sets[Key(TypeStreak, ScopeGlobal, "")])
}
