package stats

import (
	"math"
	"strings"
	"time"

	"github.com/focushub/focushub/pkg/timeutil"
)

// Period is a statistics time window.
type Period string

const (
	PeriodToday   Period = "today"
	PeriodWeek    Period = "week"
	PeriodMonth   Period = "month"
	PeriodAllTime Period = "all"
)

// ParsePeriod parses a period string. Unrecognized values fall back to
// PeriodToday rather than failing.
func ParsePeriod(s string) Period {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "today":
		return PeriodToday
	case "week":
		return PeriodWeek
	case "month":
		return PeriodMonth
	case "all", "alltime", "all_time":
		return PeriodAllTime
	default:
		return PeriodToday
	}
}

// DisplayName returns a human-readable name for the period.
func (p Period) DisplayName() string {
	switch p {
	case PeriodToday:
		return "Today"
	case PeriodWeek:
		return "This Week"
	case PeriodMonth:
		return "This Month"
	default:
		return "All Time"
	}
}

// DayCount returns the number of calendar days in the period. All-time has
// no bounded day count and returns 0.
func (p Period) DayCount() int {
	switch p {
	case PeriodToday:
		return 1
	case PeriodWeek:
		return 7
	case PeriodMonth:
		return 30
	default:
		return 0
	}
}

// StartDate returns the first calendar day of the period, trailing and
// inclusive of today. All-time starts at the zero time.
func (p Period) StartDate() time.Time {
	if p == PeriodAllTime {
		return time.Time{}
	}
	return timeutil.Today().AddDate(0, 0, -(p.DayCount() - 1))
}

// Range returns the half-open [start, end) instant range covering the
// period, ending at the start of tomorrow.
func (p Period) Range() (time.Time, time.Time) {
	return p.StartDate(), timeutil.EndOfDay(time.Now())
}

// PreviousRange returns the half-open range of the immediately preceding
// period of equal length, used for trend comparison.
func (p Period) PreviousRange() (time.Time, time.Time) {
	start := p.StartDate()
	return start.AddDate(0, 0, -p.DayCount()), start
}

// PeriodStats is the computed statistics view for one user and period.
type PeriodStats struct {
	UserID string
	Period Period

	// Focus time
	TotalFocusMinutes  int
	AverageFocusPerDay int

	// Sessions
	SessionsCompleted   int
	SessionsInterrupted int
	SessionsTotal       int
	CompletionRate      int

	// Tasks
	TasksCompleted int

	// Streaks
	CurrentStreak int
	BestStreak    int

	// Trend vs the immediately preceding period of equal length
	TrendPercentage float64
	IsImproving     bool

	// Per-day breakdown (sessions per day, one bucket per day, max 30)
	DailyBreakdown []int

	// Focus minutes keyed by calendar date
	DailyFocusMinutes map[time.Time]int

	// Time-of-day distribution
	MorningSessions   int
	AfternoonSessions int
	EveningSessions   int

	// Best day
	MostProductiveDay        *time.Time
	MostProductiveDayMinutes int

	// Level & XP snapshot
	Level                int
	CurrentXP            int
	XPToNextLevel        int
	AchievementsUnlocked int
}

// Trend computes the trend percentage between a previous and current focus
// minute total: both zero yields 0, growth from zero yields 100, otherwise
// the relative change rounded to one decimal.
func Trend(previousMinutes, currentMinutes int) float64 {
	if previousMinutes == 0 {
		if currentMinutes > 0 {
			return 100.0
		}
		return 0.0
	}
	change := (float64(currentMinutes) - float64(previousMinutes)) / float64(previousMinutes) * 100
	return math.Round(change*10) / 10
}

// CompletionRate computes the completed percentage out of completed plus
// interrupted, or 0 when the denominator is 0.
func CompletionRate(completed, interrupted int) int {
	total := completed + interrupted
	if total == 0 {
		return 0
	}
	return int(float64(completed) / float64(total) * 100)
}
