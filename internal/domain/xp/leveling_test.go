package xp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestXPForLevel(t *testing.T) {
	tests := []struct {
		level int
		want  int
	}{
		{0, 0},
		{1, 0},
		{2, 200},
		{3, 450},
		{4, 800},
		{10, 5000},
		{-5, 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, XPForLevel(tt.level), "level %d", tt.level)
	}
}

func TestTotalXPToLevel(t *testing.T) {
	assert.Equal(t, 0, TotalXPToLevel(1))
	assert.Equal(t, 200, TotalXPToLevel(2))
	assert.Equal(t, 650, TotalXPToLevel(3))
	assert.Equal(t, 1450, TotalXPToLevel(4))
}

func TestLevelFromXP(t *testing.T) {
	assert.Equal(t, 1, LevelFromXP(0))
	assert.Equal(t, 1, LevelFromXP(199))
	assert.Equal(t, 2, LevelFromXP(200))
	assert.Equal(t, 2, LevelFromXP(649))
	assert.Equal(t, 3, LevelFromXP(650))
}

func TestLevelFromXP_MatchesCumulative(t *testing.T) {
	for level := 1; level <= 50; level++ {
		total := TotalXPToLevel(level)
		assert.Equal(t, level, LevelFromXP(total), "exact threshold for level %d", level)
		if level > 1 {
			assert.Equal(t, level-1, LevelFromXP(total-1), "one below threshold for level %d", level)
		}
	}
}

func TestProgressPercent(t *testing.T) {
	// Level 1 -> 2 needs 200 XP.
	assert.Equal(t, 0, ProgressPercent(0, 1))
	assert.Equal(t, 37, ProgressPercent(75, 1))
	assert.Equal(t, 50, ProgressPercent(100, 1))
	assert.Equal(t, 100, ProgressPercent(250, 1))
	assert.Equal(t, 0, ProgressPercent(-10, 1))
}
