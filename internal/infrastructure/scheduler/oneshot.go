package scheduler

import (
	"log/slog"
	"sync"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// ONE-SHOT REGISTRY
// ══════════════════════════════════════════════════════════════════════════════

// OneShotCallback fires when a scheduled session deadline is reached.
type OneShotCallback func(sessionID int64, userID string)

// OneShotRegistry schedules a single callback per session at an absolute
// time. The chat gateway uses it to fire session-completion handling when a
// focus timer elapses; cancelling by session id covers manual interruption.
type OneShotRegistry struct {
	mu      sync.Mutex
	timers  map[int64]*time.Timer
	logger  *slog.Logger
	closed  bool
	pending sync.WaitGroup
}

// NewOneShotRegistry creates a new OneShotRegistry.
func NewOneShotRegistry(logger *slog.Logger) *OneShotRegistry {
	if logger == nil {
		logger = slog.Default()
	}
	return &OneShotRegistry{
		timers: make(map[int64]*time.Timer),
		logger: logger,
	}
}

// ScheduleAt registers a callback to fire at the given time for a session.
// Scheduling again for the same session id replaces the previous timer. A
// time in the past fires immediately.
func (r *OneShotRegistry) ScheduleAt(sessionID int64, userID string, at time.Time, fn OneShotCallback) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}

	if prev, ok := r.timers[sessionID]; ok {
		prev.Stop()
	}

	delay := time.Until(at)
	if delay < 0 {
		delay = 0
	}

	r.pending.Add(1)
	r.timers[sessionID] = time.AfterFunc(delay, func() {
		defer r.pending.Done()

		r.mu.Lock()
		delete(r.timers, sessionID)
		closed := r.closed
		r.mu.Unlock()

		if closed {
			return
		}

		fn(sessionID, userID)
	})

	r.logger.Debug("one-shot scheduled",
		"session_id", sessionID,
		"user_id", userID,
		"fire_at", at.Format(time.RFC3339),
	)
}

// Cancel stops the pending callback for a session. It reports whether a
// timer was still pending.
func (r *OneShotRegistry) Cancel(sessionID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	timer, ok := r.timers[sessionID]
	if !ok {
		return false
	}

	delete(r.timers, sessionID)
	if timer.Stop() {
		// The callback will never run; release its pending slot.
		r.pending.Done()
	}

	r.logger.Debug("one-shot cancelled", "session_id", sessionID)
	return true
}

// PendingCount returns the number of sessions with a scheduled callback.
func (r *OneShotRegistry) PendingCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.timers)
}

// Close stops every pending timer and waits for in-flight callbacks.
func (r *OneShotRegistry) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true

	for id, timer := range r.timers {
		delete(r.timers, id)
		if timer.Stop() {
			r.pending.Done()
		}
	}
	r.mu.Unlock()

	r.pending.Wait()
	r.logger.Info("one-shot registry closed")
}
