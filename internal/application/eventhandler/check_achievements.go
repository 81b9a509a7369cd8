package eventhandler

import (
	"context"

	"github.com/focushub/focushub/internal/domain/achievement"
	"github.com/focushub/focushub/internal/domain/shared"
	"github.com/focushub/focushub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// CHECK ACHIEVEMENTS HANDLER
// Runs a full achievement pass after any progress-bearing activity event.
// ══════════════════════════════════════════════════════════════════════════════

// CheckAchievementsHandler re-evaluates the achievement catalogue for the
// event's user. It subscribes to session, task, and streak events; it does
// not subscribe to xp_gained, so the XP an unlock grants never triggers
// another pass inside the same one.
type CheckAchievementsHandler struct {
	engine *achievement.Engine
	log    *logger.Logger
}

// NewCheckAchievementsHandler creates a new CheckAchievementsHandler.
func NewCheckAchievementsHandler(engine *achievement.Engine, log *logger.Logger) *CheckAchievementsHandler {
	return &CheckAchievementsHandler{
		engine: engine,
		log:    log.With(logger.Component("check_achievements")),
	}
}

// Handle runs the achievement pass for the event's user.
func (h *CheckAchievementsHandler) Handle(event shared.Event) error {
	userID := event.AggregateID()

	unlocked, err := h.engine.CheckAndUnlock(context.Background(), userID)
	if err != nil {
		return err
	}

	if len(unlocked) > 0 {
		h.log.Debug("achievement pass unlocked",
			logger.UserID(userID),
			logger.Int("count", len(unlocked)),
		)
	}
	return nil
}
