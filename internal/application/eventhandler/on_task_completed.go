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
// ON TASK COMPLETED HANDLER
// Grants task XP for each completed task.
// ══════════════════════════════════════════════════════════════════════════════

// OnTaskCompletedHandler turns completed tasks into ledger grants.
type OnTaskCompletedHandler struct {
	ledger *xp.Ledger
	log    *logger.Logger
}

// NewOnTaskCompletedHandler creates a new OnTaskCompletedHandler.
func NewOnTaskCompletedHandler(ledger *xp.Ledger, log *logger.Logger) *OnTaskCompletedHandler {
	return &OnTaskCompletedHandler{
		ledger: ledger,
		log:    log.With(logger.Component("on_task_completed")),
	}
}

// Handle processes a task completed event.
func (h *OnTaskCompletedHandler) Handle(event shared.Event) error {
	e, ok := event.(*shared.TaskEvent)
	if !ok {
		return fmt.Errorf("on_task_completed: unexpected event %T", event)
	}

	_, err := h.ledger.GrantXP(context.Background(), e.UserID, xp.SourceTaskCompleted, strconv.FormatInt(e.TaskID, 10))
	return err
}
