// Package stats contains the per-user statistics aggregate and the period
// statistics model. The UserStats aggregate is the authoritative source for
// cumulative counters; every other component mutates it through the
// repository rather than recomputing counters ad hoc.
package stats

import (
	"time"

	"github.com/focushub/focushub/pkg/timeutil"
)

// UserStats holds the cumulative counters for one user. A row is created
// lazily with zero values the first time any component needs it and is
// never deleted.
type UserStats struct {
	UserID string

	// Lifetime totals
	TotalFocusMinutes        int
	TotalSessionsCompleted   int
	TotalSessionsInterrupted int
	TotalTasksCompleted      int

	// Streak tracking
	CurrentStreak   int
	BestStreak      int
	LastSessionDate *time.Time

	// Level & XP
	Level         int
	CurrentXP     int
	TotalXPEarned int

	// Achievements
	AchievementsCount int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUserStats returns a zero-valued aggregate for a user. Level starts at 1.
func NewUserStats(userID string) *UserStats {
	now := time.Now().UTC()
	return &UserStats{
		UserID:    userID,
		Level:     1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IncrementSessionsCompleted records one completed session.
func (s *UserStats) IncrementSessionsCompleted() {
	s.TotalSessionsCompleted++
}

// IncrementSessionsInterrupted records one interrupted session.
func (s *UserStats) IncrementSessionsInterrupted() {
	s.TotalSessionsInterrupted++
}

// AddFocusMinutes adds completed focus time.
func (s *UserStats) AddFocusMinutes(minutes int) {
	s.TotalFocusMinutes += minutes
}

// IncrementTasksCompleted records one completed task.
func (s *UserStats) IncrementTasksCompleted() {
	s.TotalTasksCompleted++
}

// AddXP adds experience to both the since-last-level counter and the
// lifetime total. Level advancement is the ledger's job.
func (s *UserStats) AddXP(xp int) {
	s.CurrentXP += xp
	s.TotalXPEarned += xp
}

// LevelUp advances the level by one.
func (s *UserStats) LevelUp() {
	s.Level++
}

// SetStreak sets the current streak and keeps BestStreak monotonic.
func (s *UserStats) SetStreak(streak int) {
	s.CurrentStreak = streak
	if streak > s.BestStreak {
		s.BestStreak = streak
	}
}

// ApplyStreakTransition runs the streak state machine for a session at the
// given time, comparing against the previous LastSessionDate. A one-day gap
// extends the streak, the same day leaves it unchanged, anything else
// resets it to 1. Callers must invoke this before overwriting
// LastSessionDate with the new session's time.
func (s *UserStats) ApplyStreakTransition(sessionTime time.Time) {
	if s.LastSessionDate == nil {
		s.SetStreak(1)
		return
	}

	switch timeutil.DaysBetween(*s.LastSessionDate, sessionTime) {
	case 0:
		// Same calendar day, streak unchanged
	case 1:
		s.SetStreak(s.CurrentStreak + 1)
	default:
		s.SetStreak(1)
	}
}

// RecordSessionDate stores the session time as the most recent session date.
func (s *UserStats) RecordSessionDate(sessionTime time.Time) {
	t := sessionTime
	s.LastSessionDate = &t
}

// StreakLapsed reports whether the streak should be reset to zero: the user
// has an active streak but the last session is older than yesterday.
func (s *UserStats) StreakLapsed() bool {
	if s.CurrentStreak == 0 || s.LastSessionDate == nil {
		return false
	}
	return timeutil.IsBeforeYesterday(*s.LastSessionDate)
}

// TotalSessions returns completed plus interrupted sessions.
func (s *UserStats) TotalSessions() int {
	return s.TotalSessionsCompleted + s.TotalSessionsInterrupted
}

// CompletionRate returns the completed-session percentage, or 0 when the
// user has no terminal sessions.
func (s *UserStats) CompletionRate() int {
	total := s.TotalSessions()
	if total == 0 {
		return 0
	}
	return int(float64(s.TotalSessionsCompleted) / float64(total) * 100)
}
