package query

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/focushub/focushub/internal/domain/shared"
	"github.com/focushub/focushub/internal/domain/stats"
	"github.com/focushub/focushub/internal/domain/xp"
	"github.com/focushub/focushub/pkg/logger"
)

type queryStatsRepo struct {
	users map[string]*stats.UserStats
}

func newQueryStatsRepo() *queryStatsRepo {
	return &queryStatsRepo{users: make(map[string]*stats.UserStats)}
}

func (r *queryStatsRepo) GetByUserID(_ context.Context, userID string) (*stats.UserStats, error) {
	s, ok := r.users[userID]
	if !ok {
		return nil, shared.ErrStatsNotFound
	}
	return s, nil
}

func (r *queryStatsRepo) GetOrCreate(_ context.Context, userID string) (*stats.UserStats, error) {
	if s, ok := r.users[userID]; ok {
		return s, nil
	}
	s := stats.NewUserStats(userID)
	r.users[userID] = s
	return s, nil
}

func (r *queryStatsRepo) Save(_ context.Context, s *stats.UserStats) error {
	r.users[s.UserID] = s
	return nil
}

func (r *queryStatsRepo) GetAll(_ context.Context) ([]*stats.UserStats, error) {
	all := make([]*stats.UserStats, 0, len(r.users))
	for _, s := range r.users {
		all = append(all, s)
	}
	return all, nil
}

func (r *queryStatsRepo) CountActive(context.Context) (int, error) { return 0, nil }

func (r *queryStatsRepo) GlobalFocusMinutes(context.Context) (int, int, error) { return 0, 0, nil }

type emptyHistory struct{}

func (emptyHistory) CountCompleted(context.Context, string, time.Time, time.Time) (int, error) {
	return 0, nil
}

func (emptyHistory) CountInterrupted(context.Context, string, time.Time, time.Time) (int, error) {
	return 0, nil
}

func (emptyHistory) SumFocusMinutes(context.Context, string, time.Time, time.Time) (int, error) {
	return 0, nil
}

func (emptyHistory) CountByHourRange(context.Context, string, time.Time, time.Time, int, int) (int, error) {
	return 0, nil
}

func (emptyHistory) SessionsPerDay(context.Context, string, time.Time, time.Time) ([]stats.DailyCount, error) {
	return nil, nil
}

func (emptyHistory) MinutesPerDay(context.Context, string, time.Time, time.Time) ([]stats.DailyCount, error) {
	return nil, nil
}

func (emptyHistory) FirstSessionDate(context.Context, string) (time.Time, error) {
	return time.Time{}, shared.ErrNotFound
}

type emptyTasks struct{}

func (emptyTasks) CountCompleted(context.Context, string, time.Time, time.Time) (int, error) {
	return 0, nil
}

func newStatsQueryFixture() (*GetUserStatsHandler, *queryStatsRepo) {
	repo := newQueryStatsRepo()
	log := logger.New(logger.Options{Output: io.Discard})
	agg := stats.NewAggregator(repo, emptyHistory{}, emptyTasks{}, nil, nil, log)
	return NewGetUserStatsHandler(agg), repo
}

func TestGetUserStats_AllTimeIncludesLevelCurve(t *testing.T) {
	h, repo := newStatsQueryFixture()
	ctx := context.Background()

	s, _ := repo.GetOrCreate(ctx, "u1")
	s.Level = 3
	s.CurrentXP = 100
	s.TotalFocusMinutes = 240

	result, err := h.Handle(ctx, GetUserStatsQuery{UserID: "u1", Period: "all"})
	require.NoError(t, err)

	assert.Equal(t, stats.PeriodAllTime, result.Period)
	assert.Equal(t, 3, result.Level)
	assert.Equal(t, 100, result.CurrentXP)
	assert.Equal(t, xp.XPForLevel(4), result.XPToNextLevel)
	assert.Equal(t, 240, result.TotalFocusMinutes)
}

func TestGetUserStats_UnknownPeriodFallsBackToToday(t *testing.T) {
	h, _ := newStatsQueryFixture()

	result, err := h.Handle(context.Background(), GetUserStatsQuery{UserID: "u1", Period: "fortnight"})
	require.NoError(t, err)

	assert.Equal(t, stats.PeriodToday, result.Period)
	assert.Equal(t, xp.XPForLevel(2), result.XPToNextLevel, "fresh users start at level 1")
}

func TestGetUserStats_RequiresUserID(t *testing.T) {
	h, _ := newStatsQueryFixture()

	_, err := h.Handle(context.Background(), GetUserStatsQuery{Period: "week"})
	assert.Error(t, err)
}
