package xp

import (
	"context"
	"time"

	"github.com/focushub/focushub/internal/domain/shared"
	"github.com/focushub/focushub/internal/domain/stats"
	"github.com/focushub/focushub/pkg/logger"
	"github.com/focushub/focushub/pkg/timeutil"
)

// Ledger is the only XP-granting entry point. It mutates the UserStats
// aggregate, appends a ledger transaction for every grant, and publishes
// the resulting progress event. Storage failures on this path propagate to
// the caller: XP is never applied partially or lost silently.
type Ledger struct {
	statsRepo stats.Repository
	txRepo    TransactionRepository
	bus       shared.EventBus
	log       *logger.Logger
}

// NewLedger creates the experience ledger service.
func NewLedger(statsRepo stats.Repository, txRepo TransactionRepository, bus shared.EventBus, log *logger.Logger) *Ledger {
	return &Ledger{
		statsRepo: statsRepo,
		txRepo:    txRepo,
		bus:       bus,
		log:       log.With(logger.Component("xp_ledger")),
	}
}

// GrantXP grants the source's default amount. referenceID names what caused
// the grant and may be empty.
func (l *Ledger) GrantXP(ctx context.Context, userID string, source Source, referenceID string) (*GrantResult, error) {
	if !source.IsValid() {
		return nil, shared.ErrUnknownXPSource
	}
	return l.GrantXPAmount(ctx, userID, source, source.DefaultAmount(), referenceID)
}

// GrantXPAmount grants an explicit amount. A zero amount is a valid grant
// and still appends a transaction; a negative amount is rejected.
func (l *Ledger) GrantXPAmount(ctx context.Context, userID string, source Source, amount int, referenceID string) (*GrantResult, error) {
	if !source.IsValid() {
		return nil, shared.ErrUnknownXPSource
	}
	if amount < 0 {
		return nil, shared.ErrNegativeXP
	}

	s, err := l.statsRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, shared.WrapError("xp", "Grant", shared.ErrExternalService, "failed to load user stats", err)
	}

	levelBefore := s.Level
	s.AddXP(amount)

	// One large grant may cross several levels.
	for s.CurrentXP >= XPForLevel(s.Level+1) {
		s.CurrentXP -= XPForLevel(s.Level + 1)
		s.LevelUp()
	}

	if err := l.statsRepo.Save(ctx, s); err != nil {
		return nil, shared.WrapError("xp", "Grant", shared.ErrExternalService, "failed to save user stats", err)
	}

	tx := NewTransaction(userID, amount, source, referenceID, levelBefore, s.Level)
	if err := l.txRepo.Create(ctx, tx); err != nil {
		return nil, shared.WrapError("xp", "Grant", shared.ErrExternalService, "failed to append xp transaction", err)
	}

	result := &GrantResult{
		UserID:        userID,
		Amount:        amount,
		PreviousLevel: levelBefore,
		NewLevel:      s.Level,
		CurrentXP:     s.CurrentXP,
		XPToNextLevel: XPForLevel(s.Level + 1),
	}

	l.log.Debug("xp granted",
		logger.UserID(userID),
		logger.XPAmount(amount),
		logger.String("source", string(source)),
		logger.LevelField(s.Level),
	)

	if l.bus != nil {
		if err := l.bus.Publish(shared.NewXPGainedEvent(userID, amount, levelBefore, s.Level)); err != nil {
			l.log.Warn("failed to publish xp event", logger.UserID(userID), logger.Err(err))
		}
	}

	return result, nil
}

// GetXPProgress is the read-only projection of the user's level state. It
// mutates nothing and grants nothing.
func (l *Ledger) GetXPProgress(ctx context.Context, userID string) (*Progress, error) {
	s, err := l.statsRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, shared.WrapError("xp", "Progress", shared.ErrExternalService, "failed to load user stats", err)
	}
	return &Progress{
		UserID:          userID,
		Level:           s.Level,
		CurrentXP:       s.CurrentXP,
		XPToNextLevel:   XPForLevel(s.Level + 1),
		TotalXPEarned:   s.TotalXPEarned,
		ProgressPercent: ProgressPercent(s.CurrentXP, s.Level),
	}, nil
}

// ShouldGrantFirstSessionBonus reports whether the user has no ledger rows
// yet today, meaning the first-session-of-day bonus is still unclaimed.
func (l *Ledger) ShouldGrantFirstSessionBonus(ctx context.Context, userID string) (bool, error) {
	now := time.Now()
	start := timeutil.StartOfDay(now)
	end := timeutil.EndOfDay(now)

	has, err := l.txRepo.HasTransactionsInWindow(ctx, userID, start, end)
	if err != nil {
		return false, shared.WrapError("xp", "FirstSessionCheck", shared.ErrExternalService, "failed to read ledger window", err)
	}
	return !has, nil
}

// GetRecentTransactions returns the user's latest ledger rows, newest first.
func (l *Ledger) GetRecentTransactions(ctx context.Context, userID string, limit int) ([]*Transaction, error) {
	txs, err := l.txRepo.GetByUserID(ctx, userID, limit)
	if err != nil {
		return nil, shared.WrapError("xp", "History", shared.ErrExternalService, "failed to read ledger history", err)
	}
	return txs, nil
}
