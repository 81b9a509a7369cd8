package xp

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/focushub/focushub/internal/domain/shared"
	"github.com/focushub/focushub/internal/domain/stats"
	"github.com/focushub/focushub/pkg/logger"
)

// fakeStatsRepo keeps aggregates in a map.
type fakeStatsRepo struct {
	users map[string]*stats.UserStats
}

func newFakeStatsRepo() *fakeStatsRepo {
	return &fakeStatsRepo{users: make(map[string]*stats.UserStats)}
}

func (r *fakeStatsRepo) GetByUserID(_ context.Context, userID string) (*stats.UserStats, error) {
	s, ok := r.users[userID]
	if !ok {
		return nil, shared.ErrStatsNotFound
	}
	return s, nil
}

func (r *fakeStatsRepo) GetOrCreate(_ context.Context, userID string) (*stats.UserStats, error) {
	if s, ok := r.users[userID]; ok {
		return s, nil
	}
	s := stats.NewUserStats(userID)
	r.users[userID] = s
	return s, nil
}

func (r *fakeStatsRepo) Save(_ context.Context, s *stats.UserStats) error {
	r.users[s.UserID] = s
	return nil
}

func (r *fakeStatsRepo) GetAll(_ context.Context) ([]*stats.UserStats, error) {
	all := make([]*stats.UserStats, 0, len(r.users))
	for _, s := range r.users {
		all = append(all, s)
	}
	return all, nil
}

func (r *fakeStatsRepo) CountActive(_ context.Context) (int, error) {
	n := 0
	for _, s := range r.users {
		if s.TotalSessionsCompleted > 0 {
			n++
		}
	}
	return n, nil
}

func (r *fakeStatsRepo) GlobalFocusMinutes(_ context.Context) (int, int, error) {
	total := 0
	for _, s := range r.users {
		total += s.TotalFocusMinutes
	}
	avg := 0
	if len(r.users) > 0 {
		avg = total / len(r.users)
	}
	return total, avg, nil
}

// fakeTxRepo records ledger rows in append order.
type fakeTxRepo struct {
	rows []*Transaction
}

func (r *fakeTxRepo) Create(_ context.Context, tx *Transaction) error {
	r.rows = append(r.rows, tx)
	return nil
}

func (r *fakeTxRepo) GetByUserID(_ context.Context, userID string, limit int) ([]*Transaction, error) {
	var out []*Transaction
	for i := len(r.rows) - 1; i >= 0 && len(out) < limit; i-- {
		if r.rows[i].UserID == userID {
			out = append(out, r.rows[i])
		}
	}
	return out, nil
}

func (r *fakeTxRepo) HasTransactionsInWindow(_ context.Context, userID string, start, end time.Time) (bool, error) {
	for _, tx := range r.rows {
		if tx.UserID == userID && !tx.CreatedAt.Before(start) && tx.CreatedAt.Before(end) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeTxRepo) SumByUserID(_ context.Context, userID string) (int, error) {
	sum := 0
	for _, tx := range r.rows {
		if tx.UserID == userID {
			sum += tx.Amount
		}
	}
	return sum, nil
}

// captureBus records published events.
type captureBus struct {
	events []shared.Event
}

func (b *captureBus) Subscribe(shared.EventType, shared.EventHandler) error { return nil }

func (b *captureBus) Publish(event shared.Event) error {
	b.events = append(b.events, event)
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{Output: io.Discard})
}

func newTestLedger() (*Ledger, *fakeStatsRepo, *fakeTxRepo, *captureBus) {
	statsRepo := newFakeStatsRepo()
	txRepo := &fakeTxRepo{}
	bus := &captureBus{}
	return NewLedger(statsRepo, txRepo, bus, testLogger()), statsRepo, txRepo, bus
}

func TestLedger_GrantXP_DefaultAmount(t *testing.T) {
	ledger, _, txRepo, _ := newTestLedger()
	ctx := context.Background()

	result, err := ledger.GrantXP(ctx, "u1", SourceSessionCompleted, "7")
	require.NoError(t, err)

	assert.Equal(t, 25, result.Amount)
	assert.Equal(t, 1, result.NewLevel)
	assert.Equal(t, 25, result.CurrentXP)
	require.Len(t, txRepo.rows, 1)
	assert.Equal(t, "7", txRepo.rows[0].ReferenceID)
}

func TestLedger_GrantXP_AccumulatesWithinLevel(t *testing.T) {
	ledger, repo, _, _ := newTestLedger()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := ledger.GrantXP(ctx, "u1", SourceSessionCompleted, "")
		require.NoError(t, err)
	}

	s := repo.users["u1"]
	assert.Equal(t, 1, s.Level)
	assert.Equal(t, 75, s.CurrentXP)
	assert.Equal(t, 75, s.TotalXPEarned)
}

func TestLedger_GrantXPAmount_LevelUpCarriesRemainder(t *testing.T) {
	ledger, repo, _, bus := newTestLedger()
	ctx := context.Background()

	_, err := ledger.GrantXPAmount(ctx, "u1", SourceManualGrant, 75, "")
	require.NoError(t, err)

	result, err := ledger.GrantXPAmount(ctx, "u1", SourceManualGrant, 200, "")
	require.NoError(t, err)

	// 75 + 200 = 275; level 2 costs 200, leaving 75.
	assert.True(t, result.LeveledUp())
	assert.Equal(t, 2, result.NewLevel)
	assert.Equal(t, 75, result.CurrentXP)
	assert.Equal(t, XPForLevel(3), result.XPToNextLevel)

	s := repo.users["u1"]
	assert.Equal(t, 2, s.Level)
	assert.Equal(t, 75, s.CurrentXP)
	assert.Equal(t, 275, s.TotalXPEarned)

	require.Len(t, bus.events, 2)
	gained, ok := bus.events[1].(*shared.XPGainedEvent)
	require.True(t, ok)
	assert.Equal(t, 1, gained.PreviousLevel)
	assert.Equal(t, 2, gained.NewLevel)
}

func TestLedger_GrantXPAmount_MultiLevelJump(t *testing.T) {
	ledger, repo, _, _ := newTestLedger()
	ctx := context.Background()

	// 200 (level 2) + 450 (level 3) = 650; grant 700 leaves 50 into level 3.
	result, err := ledger.GrantXPAmount(ctx, "u1", SourceManualGrant, 700, "")
	require.NoError(t, err)

	assert.Equal(t, 3, result.NewLevel)
	assert.Equal(t, 50, result.CurrentXP)
	assert.True(t, result.IsMultiLevel())

	s := repo.users["u1"]
	assert.Less(t, s.CurrentXP, XPForLevel(s.Level+1), "carried xp stays below the next threshold")
}

func TestLedger_GrantXPAmount_ZeroStillAppendsTransaction(t *testing.T) {
	ledger, _, txRepo, _ := newTestLedger()
	ctx := context.Background()

	result, err := ledger.GrantXPAmount(ctx, "u1", SourceManualGrant, 0, "")
	require.NoError(t, err)

	assert.Equal(t, 0, result.Amount)
	assert.False(t, result.LeveledUp())
	require.Len(t, txRepo.rows, 1)
	assert.Equal(t, 0, txRepo.rows[0].Amount)
}

func TestLedger_GrantXPAmount_RejectsNegative(t *testing.T) {
	ledger, _, txRepo, _ := newTestLedger()

	_, err := ledger.GrantXPAmount(context.Background(), "u1", SourceManualGrant, -5, "")
	assert.ErrorIs(t, err, shared.ErrNegativeValue)
	assert.Empty(t, txRepo.rows)
}

func TestLedger_GrantXP_RejectsUnknownSource(t *testing.T) {
	ledger, _, _, _ := newTestLedger()

	_, err := ledger.GrantXP(context.Background(), "u1", Source("mystery"), "")
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestLedger_ShouldGrantFirstSessionBonus(t *testing.T) {
	ledger, _, _, _ := newTestLedger()
	ctx := context.Background()

	first, err := ledger.ShouldGrantFirstSessionBonus(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, first, "no ledger rows yet today")

	_, err = ledger.GrantXP(ctx, "u1", SourceSessionCompleted, "")
	require.NoError(t, err)

	first, err = ledger.ShouldGrantFirstSessionBonus(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, first, "a grant today consumes the bonus")
}

func TestLedger_GetXPProgress(t *testing.T) {
	ledger, _, _, _ := newTestLedger()
	ctx := context.Background()

	_, err := ledger.GrantXPAmount(ctx, "u1", SourceManualGrant, 100, "")
	require.NoError(t, err)

	progress, err := ledger.GetXPProgress(ctx, "u1")
	require.NoError(t, err)

	assert.Equal(t, 1, progress.Level)
	assert.Equal(t, 100, progress.CurrentXP)
	assert.Equal(t, 200, progress.XPToNextLevel)
	assert.Equal(t, 100, progress.TotalXPEarned)
	assert.Equal(t, 50, progress.ProgressPercent)
}

func TestLedger_GetRecentTransactions(t *testing.T) {
	ledger, _, _, _ := newTestLedger()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := ledger.GrantXP(ctx, "u1", SourceTaskCompleted, "")
		require.NoError(t, err)
	}

	history, err := ledger.GetRecentTransactions(ctx, "u1", 3)
	require.NoError(t, err)
	assert.Len(t, history, 3)
}
