package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/focushub/focushub/internal/domain/xp"
)

// ══════════════════════════════════════════════════════════════════════════════
// XP TRANSACTION REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// XPTransactionRepository implements xp.TransactionRepository for PostgreSQL.
// The ledger is append-only: there is no update or delete path.
type XPTransactionRepository struct {
	conn *Connection
}

// NewXPTransactionRepository creates a new XPTransactionRepository.
func NewXPTransactionRepository(conn *Connection) *XPTransactionRepository {
	return &XPTransactionRepository{conn: conn}
}

// Create appends one ledger row.
func (r *XPTransactionRepository) Create(ctx context.Context, tx *xp.Transaction) error {
	query := `
		INSERT INTO xp_transactions (
			id, user_id, amount, source, level_before, level_after,
			reference_id, description, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	var referenceID *string
	if tx.ReferenceID != "" {
		referenceID = &tx.ReferenceID
	}

	_, err := r.conn.Exec(ctx, query,
		tx.ID,
		tx.UserID,
		tx.Amount,
		string(tx.Source),
		tx.LevelBefore,
		tx.LevelAfter,
		referenceID,
		tx.Description,
		tx.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append xp transaction: %w", err)
	}
	return nil
}

// GetByUserID returns the user's most recent transactions, newest first.
func (r *XPTransactionRepository) GetByUserID(ctx context.Context, userID string, limit int) ([]*xp.Transaction, error) {
	query := `
		SELECT id, user_id, amount, source, level_before, level_after,
		       reference_id, description, created_at
		FROM xp_transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.conn.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query xp transactions: %w", err)
	}
	defer rows.Close()

	var txs []*xp.Transaction
	for rows.Next() {
		var t xp.Transaction
		var source string
		var referenceID *string

		err := rows.Scan(
			&t.ID,
			&t.UserID,
			&t.Amount,
			&source,
			&t.LevelBefore,
			&t.LevelAfter,
			&referenceID,
			&t.Description,
			&t.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan xp transaction: %w", err)
		}

		t.Source = xp.Source(source)
		if referenceID != nil {
			t.ReferenceID = *referenceID
		}
		txs = append(txs, &t)
	}
	return txs, rows.Err()
}

// HasTransactionsInWindow reports whether the user has any ledger rows in
// the half-open [start, end) range.
func (r *XPTransactionRepository) HasTransactionsInWindow(ctx context.Context, userID string, start, end time.Time) (bool, error) {
	var exists bool
	err := r.conn.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM xp_transactions
			WHERE user_id = $1 AND created_at >= $2 AND created_at < $3
		)
	`, userID, start, end).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check xp transaction window: %w", err)
	}
	return exists, nil
}

// SumByUserID returns the user's lifetime granted XP.
func (r *XPTransactionRepository) SumByUserID(ctx context.Context, userID string) (int, error) {
	var sum int
	err := r.conn.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM xp_transactions WHERE user_id = $1`,
		userID,
	).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("failed to sum xp transactions: %w", err)
	}
	return sum, nil
}
