package eventhandler

import (
	"context"
	"fmt"

	"github.com/focushub/focushub/internal/domain/notification"
	"github.com/focushub/focushub/internal/domain/shared"
	"github.com/focushub/focushub/internal/domain/xp"
	"github.com/focushub/focushub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// ON LEVEL UP HANDLER
// Announces level advancements to the user.
// ══════════════════════════════════════════════════════════════════════════════

// OnLevelUpHandler delivers level-up notifications. Delivery is fire and
// forget; failures are logged and never returned.
type OnLevelUpHandler struct {
	notifier notification.Notifier
	log      *logger.Logger
}

// NewOnLevelUpHandler creates a new OnLevelUpHandler.
func NewOnLevelUpHandler(notifier notification.Notifier, log *logger.Logger) *OnLevelUpHandler {
	return &OnLevelUpHandler{
		notifier: notifier,
		log:      log.With(logger.Component("on_level_up")),
	}
}

// Handle processes a level up event.
func (h *OnLevelUpHandler) Handle(event shared.Event) error {
	e, ok := event.(*shared.XPGainedEvent)
	if !ok {
		return fmt.Errorf("on_level_up: unexpected event %T", event)
	}
	if e.NewLevel <= e.PreviousLevel {
		return nil
	}

	msg := notification.LevelUpMessage{
		UserID:       e.UserID,
		NewLevel:     e.NewLevel,
		LevelsGained: e.NewLevel - e.PreviousLevel,
		Text:         xp.LevelRewardMessage(e.NewLevel),
	}

	if err := h.notifier.DeliverLevelUp(context.Background(), msg); err != nil {
		h.log.Warn("level up notification failed",
			logger.UserID(e.UserID),
			logger.LevelField(e.NewLevel),
			logger.Err(err),
		)
	}
	return nil
}
