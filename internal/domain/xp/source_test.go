package xp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSource_DefaultAmounts(t *testing.T) {
	tests := []struct {
		source Source
		want   int
	}{
		{SourceSessionCompleted, 25},
		{SourceTaskCompleted, 10},
		{SourceStreakBonus, 100},
		{SourceFirstSessionOfDay, 5},
		{SourceAchievementUnlocked, 50},
		{SourceDailyLogin, 2},
		{SourceManualGrant, 0},
	}

	for _, tt := range tests {
		assert.True(t, tt.source.IsValid(), "source %s", tt.source)
		assert.Equal(t, tt.want, tt.source.DefaultAmount(), "source %s", tt.source)
	}
}

func TestSource_IsValid_Unknown(t *testing.T) {
	assert.False(t, Source("raid_boss_defeated").IsValid())
	assert.False(t, Source("").IsValid())
}

func TestSource_FormattedDescription(t *testing.T) {
	assert.Equal(t, "Completed a focus session (+25 XP)", SourceSessionCompleted.FormattedDescription(25))
	assert.Equal(t, "Manually granted by admin (+0 XP)", SourceManualGrant.FormattedDescription(0))
}
