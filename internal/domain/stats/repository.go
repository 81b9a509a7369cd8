package stats

import (
	"context"
	"time"
)

// Repository persists the UserStats aggregate.
type Repository interface {
	// GetByUserID returns the aggregate, or shared.ErrNotFound when the
	// user has no row yet.
	GetByUserID(ctx context.Context, userID string) (*UserStats, error)

	// GetOrCreate returns the aggregate, lazily inserting a zero-valued
	// row when the user has none.
	GetOrCreate(ctx context.Context, userID string) (*UserStats, error)

	// Save upserts the aggregate.
	Save(ctx context.Context, s *UserStats) error

	// GetAll returns every aggregate. Used by leaderboard rebuilds and
	// the periodic sweeps.
	GetAll(ctx context.Context) ([]*UserStats, error)

	// CountActive returns the number of users with at least one
	// completed session.
	CountActive(ctx context.Context) (int, error)

	// GlobalFocusMinutes returns the platform-wide total and average
	// focus minutes.
	GlobalFocusMinutes(ctx context.Context) (total int, average int, err error)
}

// Session is one terminal focus session row.
type Session struct {
	ID              int64
	UserID          string
	GuildID         string
	DurationMinutes int
	StartedAt       time.Time
	EndedAt         *time.Time
	Completed       bool
	Interrupted     bool
}

// SessionWriter persists terminal session rows.
type SessionWriter interface {
	// Insert stores one terminal session and returns its id.
	Insert(ctx context.Context, s *Session) (int64, error)
}

// TaskWriter persists completed task rows.
type TaskWriter interface {
	// InsertCompleted stores one completed task and returns its id.
	InsertCompleted(ctx context.Context, userID, guildID, title string, completedAt time.Time) (int64, error)
}

// DailyCount is one group-by-calendar-date bucket.
type DailyCount struct {
	Date  time.Time
	Count int
}

// SessionHistory reads terminal session facts over half-open [start, end)
// instant ranges. Implementations live at the storage boundary.
type SessionHistory interface {
	// CountCompleted returns completed sessions in the range.
	CountCompleted(ctx context.Context, userID string, start, end time.Time) (int, error)

	// CountInterrupted returns interrupted sessions in the range.
	CountInterrupted(ctx context.Context, userID string, start, end time.Time) (int, error)

	// SumFocusMinutes returns completed focus minutes in the range.
	SumFocusMinutes(ctx context.Context, userID string, start, end time.Time) (int, error)

	// CountByHourRange returns completed sessions whose local start hour
	// falls in [fromHour, toHour).
	CountByHourRange(ctx context.Context, userID string, start, end time.Time, fromHour, toHour int) (int, error)

	// SessionsPerDay groups completed session counts by calendar date.
	SessionsPerDay(ctx context.Context, userID string, start, end time.Time) ([]DailyCount, error)

	// MinutesPerDay groups completed focus minutes by calendar date.
	MinutesPerDay(ctx context.Context, userID string, start, end time.Time) ([]DailyCount, error)

	// FirstSessionDate returns the date of the user's earliest session,
	// or shared.ErrNotFound when the user has none.
	FirstSessionDate(ctx context.Context, userID string) (time.Time, error)
}

// TaskHistory reads completed task facts over half-open ranges.
type TaskHistory interface {
	// CountCompleted returns tasks completed in the range.
	CountCompleted(ctx context.Context, userID string, start, end time.Time) (int, error)
}

// ReadCache caches computed period statistics with a short TTL. Any failure
// is treated as a miss by callers; the cache never gates correctness.
type ReadCache interface {
	// Get returns the cached stats or shared.ErrNotFound on a miss.
	Get(ctx context.Context, userID string, period Period) (*PeriodStats, error)

	// Set stores computed stats under the configured TTL.
	Set(ctx context.Context, s *PeriodStats) error

	// InvalidateUser removes every cached period for the user.
	InvalidateUser(ctx context.Context, userID string) error
}
