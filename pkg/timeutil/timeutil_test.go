package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDateOf(t *testing.T) {
	moment := time.Date(2026, time.March, 15, 17, 42, 9, 0, time.Local)
	date := DateOf(moment)

	assert.Equal(t, 2026, date.Year())
	assert.Equal(t, time.March, date.Month())
	assert.Equal(t, 15, date.Day())
	assert.Equal(t, 0, date.Hour())
}

func TestSameDay(t *testing.T) {
	morning := time.Date(2026, time.March, 15, 1, 0, 0, 0, time.Local)
	night := time.Date(2026, time.March, 15, 23, 59, 0, 0, time.Local)
	nextDay := time.Date(2026, time.March, 16, 0, 0, 1, 0, time.Local)

	assert.True(t, SameDay(morning, night))
	assert.False(t, SameDay(night, nextDay))
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2026, time.March, 15, 23, 0, 0, 0, time.Local)
	b := time.Date(2026, time.March, 16, 1, 0, 0, 0, time.Local)

	assert.Equal(t, 1, DaysBetween(a, b), "calendar days, not 24h periods")
	assert.Equal(t, -1, DaysBetween(b, a))
	assert.Equal(t, 0, DaysBetween(a, a))
	assert.Equal(t, 7, DaysBetween(a, a.AddDate(0, 0, 7)))
}

func TestEndOfDay_IsExclusiveBound(t *testing.T) {
	moment := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.Local)
	end := EndOfDay(moment)

	assert.Equal(t, 16, end.Day())
	assert.Equal(t, 0, end.Hour())
	assert.True(t, moment.Before(end))
	assert.Equal(t, StartOfDay(moment).AddDate(0, 0, 1), end)
}

func TestSegmentOf(t *testing.T) {
	tests := []struct {
		hour int
		want Segment
	}{
		{0, SegmentMorning},
		{11, SegmentMorning},
		{12, SegmentAfternoon},
		{17, SegmentAfternoon},
		{18, SegmentEvening},
		{23, SegmentEvening},
	}

	for _, tt := range tests {
		moment := time.Date(2026, time.March, 15, tt.hour, 30, 0, 0, time.Local)
		assert.Equal(t, tt.want, SegmentOf(moment), "hour %d", tt.hour)
	}
}

func TestIsBeforeYesterday(t *testing.T) {
	assert.False(t, IsBeforeYesterday(time.Now()))
	assert.False(t, IsBeforeYesterday(time.Now().AddDate(0, 0, -1)))
	assert.True(t, IsBeforeYesterday(time.Now().AddDate(0, 0, -2)))
}

func TestIsToday(t *testing.T) {
	assert.True(t, IsToday(time.Now()))
	assert.False(t, IsToday(time.Now().AddDate(0, 0, -1)))
}
