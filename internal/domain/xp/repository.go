package xp

import (
	"context"
	"time"
)

// TransactionRepository persists the append-only experience ledger.
type TransactionRepository interface {
	// Create appends one ledger row.
	Create(ctx context.Context, tx *Transaction) error

	// GetByUserID returns the user's most recent transactions, newest
	// first, bounded by limit.
	GetByUserID(ctx context.Context, userID string, limit int) ([]*Transaction, error)

	// HasTransactionsInWindow reports whether the user has any ledger
	// rows in the half-open [start, end) range. Guards once-per-day
	// bonuses.
	HasTransactionsInWindow(ctx context.Context, userID string, start, end time.Time) (bool, error)

	// SumByUserID returns the user's lifetime granted XP.
	SumByUserID(ctx context.Context, userID string) (int, error)
}
