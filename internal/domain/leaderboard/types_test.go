package leaderboard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/focushub/focushub/internal/domain/stats"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "leaderboard:global:level", Key(TypeLevel, ScopeGlobal, ""))
	assert.Equal(t, "leaderboard:server:g42:xp", Key(TypeXP, ScopeServer, "g42"))
	assert.Equal(t, "leaderboard:global:streak", Key(TypeStreak, ScopeServer, ""),
		"server scope without a guild degrades to global")
}

func TestParseType(t *testing.T) {
	assert.Equal(t, TypeFocusTime, ParseType("focus_time"))
	assert.Equal(t, TypeXP, ParseType(" XP "))
	assert.Equal(t, TypeLevel, ParseType("elo"), "unknown types fall back to level")
	assert.Equal(t, TypeLevel, ParseType(""))
}

func TestParseScope(t *testing.T) {
	assert.Equal(t, ScopeServer, ParseScope("server"))
	assert.Equal(t, ScopeServer, ParseScope("SERVER"))
	assert.Equal(t, ScopeGlobal, ParseScope("global"))
	assert.Equal(t, ScopeGlobal, ParseScope("galaxy"))
}

func TestType_Score(t *testing.T) {
	s := stats.NewUserStats("u1")
	s.Level = 7
	s.TotalXPEarned = 3200
	s.TotalSessionsCompleted = 40
	s.TotalFocusMinutes = 900
	s.SetStreak(12)
	s.TotalTasksCompleted = 15
	s.AchievementsCount = 6

	assert.Equal(t, 7.0, TypeLevel.Score(s))
	assert.Equal(t, 3200.0, TypeXP.Score(s))
	assert.Equal(t, 40.0, TypeSessions.Score(s))
	assert.Equal(t, 900.0, TypeFocusTime.Score(s))
	assert.Equal(t, 12.0, TypeStreak.Score(s))
	assert.Equal(t, 15.0, TypeTasks.Score(s))
	assert.Equal(t, 6.0, TypeAchievements.Score(s))
}

func TestAllTypes_AllHaveScorers(t *testing.T) {
	s := stats.NewUserStats("u1")
	for _, typ := range AllTypes() {
		assert.NotPanics(t, func() { typ.Score(s) }, "type %s", typ)
		assert.NotEmpty(t, typ.DisplayName())
	}
}
