package command

import (
	"context"
	"errors"
	"time"

	"github.com/focushub/focushub/internal/domain/shared"
	"github.com/focushub/focushub/internal/domain/stats"
	"github.com/focushub/focushub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// RECORD TASK COMMAND
// Records one completed task and drives the gamification pipeline for it.
// ══════════════════════════════════════════════════════════════════════════════

// RecordTaskCommand contains the data of one completed task.
type RecordTaskCommand struct {
	// UserID is the user who completed the task.
	UserID string

	// GuildID is the server the task belongs to (empty for DMs).
	GuildID string

	// Title is the task title.
	Title string

	// CompletedAt is when the task was completed. Zero means now.
	CompletedAt time.Time
}

// Validate validates the command.
func (c RecordTaskCommand) Validate() error {
	if c.UserID == "" {
		return errors.New("record_task: user_id is required")
	}
	if c.Title == "" {
		return errors.New("record_task: title is required")
	}
	return nil
}

// RecordTaskResult contains the result of recording a task.
type RecordTaskResult struct {
	// TaskID is the id of the stored task row.
	TaskID int64

	// RecordedAt is when the command finished.
	RecordedAt time.Time
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// RecordTaskHandler handles the RecordTaskCommand.
type RecordTaskHandler struct {
	tasks      stats.TaskWriter
	aggregator *stats.Aggregator
	bus        shared.EventBus
	locks      *shared.KeyedMutex
	log        *logger.Logger
}

// NewRecordTaskHandler creates a new RecordTaskHandler.
func NewRecordTaskHandler(
	tasks stats.TaskWriter,
	aggregator *stats.Aggregator,
	bus shared.EventBus,
	locks *shared.KeyedMutex,
	log *logger.Logger,
) *RecordTaskHandler {
	return &RecordTaskHandler{
		tasks:      tasks,
		aggregator: aggregator,
		bus:        bus,
		locks:      locks,
		log:        log.With(logger.Component("record_task")),
	}
}

// Handle executes the record task command.
func (h *RecordTaskHandler) Handle(ctx context.Context, cmd RecordTaskCommand) (*RecordTaskResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	unlock := h.locks.Lock(cmd.UserID)
	defer unlock()

	completedAt := cmd.CompletedAt
	if completedAt.IsZero() {
		completedAt = time.Now()
	}

	taskID, err := h.tasks.InsertCompleted(ctx, cmd.UserID, cmd.GuildID, cmd.Title, completedAt)
	if err != nil {
		return nil, shared.WrapError("activity", "RecordTask", shared.ErrExternalService, "failed to store task", err)
	}

	if err := h.aggregator.UpdateStatsAfterTask(ctx, cmd.UserID); err != nil {
		return nil, err
	}

	if err := h.bus.Publish(shared.NewTaskCompletedEvent(taskID, cmd.UserID, cmd.GuildID)); err != nil {
		h.log.Warn("failed to publish task event",
			logger.UserID(cmd.UserID),
			logger.Int64("task_id", taskID),
			logger.Err(err),
		)
	}

	h.log.Debug("task recorded",
		logger.UserID(cmd.UserID),
		logger.Int64("task_id", taskID),
	)

	return &RecordTaskResult{
		TaskID:     taskID,
		RecordedAt: time.Now(),
	}, nil
}
