// Package timeutil provides calendar-day helpers for streaks and statistics.
// All day bucketing uses the host process's local time zone; per-user time
// zones are not consulted. Keeping the conversions here means a future
// per-user zone change touches one package.
// No external dependencies - uses only standard library.
package timeutil

import "time"

// DateOf truncates a time to its calendar date in the local zone.
func DateOf(t time.Time) time.Time {
	local := t.Local()
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.Local)
}

// Today returns the current calendar date in the local zone.
func Today() time.Time {
	return DateOf(time.Now())
}

// Yesterday returns yesterday's calendar date in the local zone.
func Yesterday() time.Time {
	return Today().AddDate(0, 0, -1)
}

// StartOfDay returns the start of the day (00:00:00) for the given time.
func StartOfDay(t time.Time) time.Time {
	return DateOf(t)
}

// EndOfDay returns the exclusive end of the day, i.e. the start of the
// following day. Useful for half-open [start, end) range queries.
func EndOfDay(t time.Time) time.Time {
	return DateOf(t).AddDate(0, 0, 1)
}

// SameDay reports whether two times fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return DateOf(a).Equal(DateOf(b))
}

// DaysBetween returns the number of calendar days from a to b.
// Positive when b is after a, negative when before, zero on the same day.
func DaysBetween(a, b time.Time) int {
	da := DateOf(a)
	db := DateOf(b)
	return int(db.Sub(da).Hours() / 24)
}

// DaysSince returns the number of calendar days from t until today.
func DaysSince(t time.Time) int {
	return DaysBetween(t, time.Now())
}

// Day segment boundaries. Sessions are classified by their local start hour.
const (
	// MorningEndHour is the exclusive upper bound of the morning segment.
	MorningEndHour = 12

	// AfternoonEndHour is the exclusive upper bound of the afternoon segment.
	AfternoonEndHour = 18
)

// Segment identifies a part of the day.
type Segment string

const (
	SegmentMorning   Segment = "morning"
	SegmentAfternoon Segment = "afternoon"
	SegmentEvening   Segment = "evening"
)

// SegmentOf classifies a time into morning, afternoon, or evening by its
// local hour: morning is hour < 12, afternoon 12-17, evening 18 onward.
func SegmentOf(t time.Time) Segment {
	hour := t.Local().Hour()
	switch {
	case hour < MorningEndHour:
		return SegmentMorning
	case hour < AfternoonEndHour:
		return SegmentAfternoon
	default:
		return SegmentEvening
	}
}

// IsToday checks if the given time is today in the local zone.
func IsToday(t time.Time) bool {
	return SameDay(t, time.Now())
}

// IsBeforeYesterday reports whether t falls on a calendar day strictly
// before yesterday. Used by the streak sweep to find lapsed streaks.
func IsBeforeYesterday(t time.Time) bool {
	return DateOf(t).Before(Yesterday())
}
