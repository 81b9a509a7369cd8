package query

import (
	"context"
	"errors"

	"github.com/focushub/focushub/internal/domain/xp"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET XP PROGRESS QUERY
// ══════════════════════════════════════════════════════════════════════════════

// GetXPProgressQuery requests one user's level progress and recent ledger
// history.
type GetXPProgressQuery struct {
	// UserID is the user whose progress is requested.
	UserID string

	// HistoryLimit bounds the returned ledger rows (0 skips history).
	HistoryLimit int
}

// XPProgressPage is the assembled progress response.
type XPProgressPage struct {
	Progress *xp.Progress
	History  []*xp.Transaction
}

// GetXPProgressHandler handles the GetXPProgressQuery.
type GetXPProgressHandler struct {
	ledger *xp.Ledger
}

// NewGetXPProgressHandler creates a new GetXPProgressHandler.
func NewGetXPProgressHandler(ledger *xp.Ledger) *GetXPProgressHandler {
	return &GetXPProgressHandler{ledger: ledger}
}

// Handle executes the query.
func (h *GetXPProgressHandler) Handle(ctx context.Context, q GetXPProgressQuery) (*XPProgressPage, error) {
	if q.UserID == "" {
		return nil, errors.New("get_xp_progress: user_id is required")
	}

	progress, err := h.ledger.GetXPProgress(ctx, q.UserID)
	if err != nil {
		return nil, err
	}

	page := &XPProgressPage{Progress: progress}

	if q.HistoryLimit > 0 {
		history, err := h.ledger.GetRecentTransactions(ctx, q.UserID, q.HistoryLimit)
		if err != nil {
			return nil, err
		}
		page.History = history
	}

	return page, nil
}
