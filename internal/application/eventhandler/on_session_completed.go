// Package eventhandler contains the domain event subscribers. Registration
// order in cmd/worker fixes the pipeline: experience grants run first,
// achievement checks second, leaderboard refreshes last, so each stage sees
// the writes of the stages before it.
package eventhandler

import (
	"context"
	"fmt"
	"strconv"

	"github.com/focushub/focushub/internal/domain/shared"
	"github.com/focushub/focushub/internal/domain/xp"
	"github.com/focushub/focushub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// ON SESSION COMPLETED HANDLER
// Grants session XP plus the first-session-of-day bonus.
// ══════════════════════════════════════════════════════════════════════════════

// OnSessionCompletedHandler turns completed sessions into ledger grants.
type OnSessionCompletedHandler struct {
	ledger *xp.Ledger
	log    *logger.Logger
}

// NewOnSessionCompletedHandler creates a new OnSessionCompletedHandler.
func NewOnSessionCompletedHandler(ledger *xp.Ledger, log *logger.Logger) *OnSessionCompletedHandler {
	return &OnSessionCompletedHandler{
		ledger: ledger,
		log:    log.With(logger.Component("on_session_completed")),
	}
}

// Handle processes a session completed event.
func (h *OnSessionCompletedHandler) Handle(event shared.Event) error {
	e, ok := event.(*shared.SessionEvent)
	if !ok {
		return fmt.Errorf("on_session_completed: unexpected event %T", event)
	}

	ctx := context.Background()
	ref := strconv.FormatInt(e.SessionID, 10)

	// The bonus guard looks at today's ledger rows, so it must run before
	// the session grant writes one.
	firstToday, err := h.ledger.ShouldGrantFirstSessionBonus(ctx, e.UserID)
	if err != nil {
		h.log.Warn("first session check failed", logger.UserID(e.UserID), logger.Err(err))
		firstToday = false
	}

	if _, err := h.ledger.GrantXP(ctx, e.UserID, xp.SourceSessionCompleted, ref); err != nil {
		return err
	}

	if firstToday {
		if _, err := h.ledger.GrantXP(ctx, e.UserID, xp.SourceFirstSessionOfDay, ref); err != nil {
			return err
		}
	}

	return nil
}
