package achievement

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/focushub/focushub/internal/domain/shared"
	"github.com/focushub/focushub/internal/domain/stats"
)

func evalContext(s *stats.UserStats, now time.Time) EvalContext {
	return EvalContext{Stats: s, Sessions: &stubSessions{}, Now: now}
}

// stubSessions serves the hour-range evaluators.
type stubSessions struct {
	byHour int
}

func (h *stubSessions) CountCompleted(context.Context, string, time.Time, time.Time) (int, error) {
	return 0, nil
}

func (h *stubSessions) CountInterrupted(context.Context, string, time.Time, time.Time) (int, error) {
	return 0, nil
}

func (h *stubSessions) SumFocusMinutes(context.Context, string, time.Time, time.Time) (int, error) {
	return 0, nil
}

func (h *stubSessions) CountByHourRange(context.Context, string, time.Time, time.Time, int, int) (int, error) {
	return h.byHour, nil
}

func (h *stubSessions) SessionsPerDay(context.Context, string, time.Time, time.Time) ([]stats.DailyCount, error) {
	return nil, nil
}

func (h *stubSessions) MinutesPerDay(context.Context, string, time.Time, time.Time) ([]stats.DailyCount, error) {
	return nil, nil
}

func (h *stubSessions) FirstSessionDate(context.Context, string) (time.Time, error) {
	return time.Time{}, shared.ErrNotFound
}

func TestEvaluate_CounterRequirements(t *testing.T) {
	s := stats.NewUserStats("u1")
	s.TotalSessionsCompleted = 10
	s.TotalFocusMinutes = 600
	s.TotalTasksCompleted = 4
	s.Level = 5
	s.SetStreak(7)

	tests := []struct {
		name        string
		requirement RequirementType
		value       int
		want        bool
	}{
		{"sessions met", RequirementSessionsCompleted, 10, true},
		{"sessions unmet", RequirementSessionsCompleted, 11, false},
		{"minutes met", RequirementTotalFocusMinutes, 500, true},
		{"streak met", RequirementStreakDays, 7, true},
		{"streak unmet", RequirementStreakDays, 8, false},
		{"tasks met", RequirementTasksCompleted, 4, true},
		{"level met", RequirementLevelReached, 5, true},
		{"level unmet", RequirementLevelReached, 6, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := &Definition{Code: "X", RequirementType: tt.requirement, RequirementValue: tt.value}
			got, err := Evaluate(context.Background(), evalContext(s, time.Now()), def)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluate_UnknownRequirement(t *testing.T) {
	def := &Definition{Code: "X", RequirementType: RequirementType("moon_phase")}

	_, err := Evaluate(context.Background(), evalContext(stats.NewUserStats("u1"), time.Now()), def)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestEvaluate_SpecialDates(t *testing.T) {
	s := stats.NewUserStats("u1")
	christmas := time.Date(2026, time.December, 25, 14, 0, 0, 0, time.UTC)
	def := &Definition{Code: "CHRISTMAS_SPIRIT", RequirementType: RequirementSpecialDate}

	got, err := Evaluate(context.Background(), evalContext(s, christmas), def)
	require.NoError(t, err)
	assert.True(t, got)

	got, err = Evaluate(context.Background(), evalContext(s, christmas.AddDate(0, 0, 1)), def)
	require.NoError(t, err)
	assert.False(t, got)
}

func TestEvaluate_SpecialDate_UnknownCode(t *testing.T) {
	def := &Definition{Code: "UNMAPPED_DAY", RequirementType: RequirementSpecialDate}

	got, err := Evaluate(context.Background(), evalContext(stats.NewUserStats("u1"), time.Now()), def)
	require.NoError(t, err)
	assert.False(t, got)
}

func TestEvaluate_HourRangeRequirements(t *testing.T) {
	ec := EvalContext{
		Stats:    stats.NewUserStats("u1"),
		Sessions: &stubSessions{byHour: 12},
		Now:      time.Now(),
	}

	met := &Definition{Code: "EARLY_BIRD", RequirementType: RequirementMorningSessions, RequirementValue: 10}
	got, err := Evaluate(context.Background(), ec, met)
	require.NoError(t, err)
	assert.True(t, got)

	unmet := &Definition{Code: "NIGHT_OWL", RequirementType: RequirementEveningSessions, RequirementValue: 20}
	got, err = Evaluate(context.Background(), ec, unmet)
	require.NoError(t, err)
	assert.False(t, got)
}

func TestEvaluate_PerfectWeek_NeverSatisfied(t *testing.T) {
	def := &Definition{Code: "PERFECT_WEEK", RequirementType: RequirementPerfectWeek, RequirementValue: 1}

	got, err := Evaluate(context.Background(), evalContext(stats.NewUserStats("u1"), time.Now()), def)
	require.NoError(t, err)
	assert.False(t, got)
}

func TestCurrentProgress(t *testing.T) {
	s := stats.NewUserStats("u1")
	s.TotalSessionsCompleted = 42

	counted := &Definition{RequirementType: RequirementSessionsCompleted, RequirementValue: 100}
	assert.Equal(t, 42, CurrentProgress(s, counted))

	calendar := &Definition{RequirementType: RequirementSpecialDate}
	assert.Equal(t, 0, CurrentProgress(s, calendar))

	assert.Equal(t, 0, CurrentProgress(nil, counted))
}

func TestRarity_XPBonus(t *testing.T) {
	assert.Equal(t, 10, RarityCommon.XPBonus())
	assert.Equal(t, 500, RarityMythic.XPBonus())
	assert.Equal(t, 0, Rarity("unranked").XPBonus())
}

func TestDefinition_TotalXPReward(t *testing.T) {
	def := &Definition{XPReward: 100, Rarity: RarityEpic}
	assert.Equal(t, 200, def.TotalXPReward())
}
