package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCronExpression_Valid(t *testing.T) {
	tests := []string{
		"* * * * *",
		"0 * * * *",
		"5 0 * * *",
		"0 1 * * 0",
		"*/15 * * * *",
		"0 9-17 * * 1-5",
		"0,30 * * * *",
	}

	for _, expr := range tests {
		_, err := ParseCronExpression(expr)
		assert.NoError(t, err, "expression %q", expr)
	}
}

func TestParseCronExpression_Invalid(t *testing.T) {
	tests := []string{
		"",
		"* * * *",
		"* * * * * *",
		"60 * * * *",
		"* 24 * * *",
		"x * * * *",
		"*/0 * * * *",
	}

	for _, expr := range tests {
		_, err := ParseCronExpression(expr)
		assert.Error(t, err, "expression %q", expr)
	}
}

func TestCronExpression_Next_EveryHour(t *testing.T) {
	ce := MustParseCronExpression(EveryHour)

	after := time.Date(2026, time.March, 15, 10, 17, 30, 0, time.UTC)
	next := ce.Next(after)

	assert.Equal(t, time.Date(2026, time.March, 15, 11, 0, 0, 0, time.UTC), next)
}

func TestCronExpression_Next_OnTheBoundary(t *testing.T) {
	ce := MustParseCronExpression(EveryHour)

	// Next never returns the input minute itself.
	after := time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC)
	next := ce.Next(after)

	assert.Equal(t, time.Date(2026, time.March, 15, 11, 0, 0, 0, time.UTC), next)
}

func TestCronExpression_Next_DailyAt0005(t *testing.T) {
	ce := MustParseCronExpression(EveryDayAt0005)

	after := time.Date(2026, time.March, 15, 0, 10, 0, 0, time.UTC)
	next := ce.Next(after)

	assert.Equal(t, time.Date(2026, time.March, 16, 0, 5, 0, 0, time.UTC), next)
}

func TestCronExpression_Next_SundayAt1AM(t *testing.T) {
	ce := MustParseCronExpression(EverySundayAt1AM)

	// 2026-03-16 is a Monday; the following Sunday is the 22nd.
	after := time.Date(2026, time.March, 16, 12, 0, 0, 0, time.UTC)
	next := ce.Next(after)

	assert.Equal(t, time.Date(2026, time.March, 22, 1, 0, 0, 0, time.UTC), next)
	assert.Equal(t, time.Sunday, next.Weekday())
}

func TestCronExpression_Next_StepValues(t *testing.T) {
	ce := MustParseCronExpression("*/15 * * * *")

	after := time.Date(2026, time.March, 15, 10, 16, 0, 0, time.UTC)
	next := ce.Next(after)

	assert.Equal(t, 30, next.Minute())
}

func TestCronExpression_Next_WeekdayRange(t *testing.T) {
	ce := MustParseCronExpression("0 9 * * 1-5")

	// Saturday morning rolls over to Monday 09:00.
	saturday := time.Date(2026, time.March, 21, 8, 0, 0, 0, time.UTC)
	require.Equal(t, time.Saturday, saturday.Weekday())

	next := ce.Next(saturday)
	assert.Equal(t, time.Monday, next.Weekday())
	assert.Equal(t, 9, next.Hour())
}

func TestCronExpression_String(t *testing.T) {
	assert.Equal(t, "5 0 * * *", MustParseCronExpression("5 0 * * *").String())
}

func TestMustParseCronExpression_PanicsOnInvalid(t *testing.T) {
	assert.Panics(t, func() { MustParseCronExpression("not a cron") })
}

func TestIntervalSchedule(t *testing.T) {
	s := NewIntervalSchedule(10 * time.Minute)

	now := time.Now()
	assert.Equal(t, now.Add(10*time.Minute), s.Next(now))
	assert.Equal(t, "@every 10m0s", s.String())
}
