// Package command contains write operations (CQRS - Commands). Every
// activity command serializes per user: the history row, the aggregate
// update, and the synchronous event fanout all happen under one keyed lock,
// so the experience, achievement, and leaderboard subscribers never race on
// the same user.
package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/focushub/focushub/internal/domain/shared"
	"github.com/focushub/focushub/internal/domain/stats"
	"github.com/focushub/focushub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// RECORD SESSION COMMAND
// Records one focus session that reached a terminal state and drives the
// whole gamification pipeline for it.
// ══════════════════════════════════════════════════════════════════════════════

// RecordSessionCommand contains the data of one terminal focus session.
type RecordSessionCommand struct {
	// UserID is the user who ran the session.
	UserID string

	// GuildID is the server the session ran in (empty for DMs).
	GuildID string

	// DurationMinutes is the completed focus time. Zero for interruptions.
	DurationMinutes int

	// StartedAt is when the session started.
	StartedAt time.Time

	// EndedAt is when the session reached its terminal state.
	EndedAt time.Time

	// Completed marks a finished session; false means interrupted.
	Completed bool
}

// Validate validates the command.
func (c RecordSessionCommand) Validate() error {
	if c.UserID == "" {
		return errors.New("record_session: user_id is required")
	}
	if c.DurationMinutes < 0 {
		return fmt.Errorf("record_session: %w", shared.ErrNegativeFocusMinutes)
	}
	if c.StartedAt.IsZero() {
		return errors.New("record_session: started_at is required")
	}
	return nil
}

// RecordSessionResult contains the result of recording a session.
type RecordSessionResult struct {
	// SessionID is the id of the stored session row.
	SessionID int64

	// RecordedAt is when the command finished.
	RecordedAt time.Time
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// RecordSessionHandler handles the RecordSessionCommand.
type RecordSessionHandler struct {
	sessions   stats.SessionWriter
	aggregator *stats.Aggregator
	bus        shared.EventBus
	locks      *shared.KeyedMutex
	log        *logger.Logger
}

// NewRecordSessionHandler creates a new RecordSessionHandler.
func NewRecordSessionHandler(
	sessions stats.SessionWriter,
	aggregator *stats.Aggregator,
	bus shared.EventBus,
	locks *shared.KeyedMutex,
	log *logger.Logger,
) *RecordSessionHandler {
	return &RecordSessionHandler{
		sessions:   sessions,
		aggregator: aggregator,
		bus:        bus,
		locks:      locks,
		log:        log.With(logger.Component("record_session")),
	}
}

// Handle executes the record session command.
func (h *RecordSessionHandler) Handle(ctx context.Context, cmd RecordSessionCommand) (*RecordSessionResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	unlock := h.locks.Lock(cmd.UserID)
	defer unlock()

	endedAt := cmd.EndedAt
	if endedAt.IsZero() {
		endedAt = time.Now()
	}

	row := &stats.Session{
		UserID:          cmd.UserID,
		GuildID:         cmd.GuildID,
		DurationMinutes: cmd.DurationMinutes,
		StartedAt:       cmd.StartedAt,
		EndedAt:         &endedAt,
		Completed:       cmd.Completed,
		Interrupted:     !cmd.Completed,
	}

	sessionID, err := h.sessions.Insert(ctx, row)
	if err != nil {
		return nil, shared.WrapError("activity", "RecordSession", shared.ErrExternalService, "failed to store session", err)
	}

	if err := h.aggregator.UpdateStatsAfterSession(ctx, cmd.UserID, cmd.DurationMinutes, cmd.StartedAt, cmd.Completed); err != nil {
		return nil, err
	}

	// Subscribers run synchronously here, still under the per-user lock.
	var event shared.Event
	if cmd.Completed {
		event = shared.NewSessionCompletedEvent(sessionID, cmd.UserID, cmd.GuildID, cmd.DurationMinutes, cmd.StartedAt)
	} else {
		event = shared.NewSessionInterruptedEvent(sessionID, cmd.UserID, cmd.GuildID, cmd.StartedAt)
	}
	if err := h.bus.Publish(event); err != nil {
		h.log.Warn("failed to publish session event",
			logger.UserID(cmd.UserID),
			logger.SessionID(sessionID),
			logger.Err(err),
		)
	}

	h.log.Debug("session recorded",
		logger.UserID(cmd.UserID),
		logger.SessionID(sessionID),
		logger.Int("duration_minutes", cmd.DurationMinutes),
		logger.Bool("completed", cmd.Completed),
	)

	return &RecordSessionResult{
		SessionID:  sessionID,
		RecordedAt: time.Now(),
	}, nil
}
