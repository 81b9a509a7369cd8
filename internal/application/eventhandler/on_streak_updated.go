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
// ON STREAK UPDATED HANDLER
// Grants the streak bonus every seventh consecutive day.
// ══════════════════════════════════════════════════════════════════════════════

// streakBonusInterval is the streak length that earns a bonus grant.
const streakBonusInterval = 7

// OnStreakUpdatedHandler grants the weekly streak bonus.
type OnStreakUpdatedHandler struct {
	ledger *xp.Ledger
	log    *logger.Logger
}

// NewOnStreakUpdatedHandler creates a new OnStreakUpdatedHandler.
func NewOnStreakUpdatedHandler(ledger *xp.Ledger, log *logger.Logger) *OnStreakUpdatedHandler {
	return &OnStreakUpdatedHandler{
		ledger: ledger,
		log:    log.With(logger.Component("on_streak_updated")),
	}
}

// Handle processes a streak updated event.
func (h *OnStreakUpdatedHandler) Handle(event shared.Event) error {
	e, ok := event.(*shared.StreakEvent)
	if !ok {
		return fmt.Errorf("on_streak_updated: unexpected event %T", event)
	}

	if e.CurrentStreak <= 0 || e.CurrentStreak%streakBonusInterval != 0 {
		return nil
	}

	_, err := h.ledger.GrantXP(context.Background(), e.UserID, xp.SourceStreakBonus, strconv.Itoa(e.CurrentStreak))
	if err != nil {
		return err
	}

	h.log.Info("streak bonus granted",
		logger.UserID(e.UserID),
		logger.Int("streak", e.CurrentStreak),
	)
	return nil
}
