package xp

// XPForLevel returns the XP needed to advance from level-1 to level:
// level squared times 50. Level 1 and below cost nothing.
func XPForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	return level * level * 50
}

// TotalXPToLevel returns the cumulative XP needed to reach the level from
// level 1.
func TotalXPToLevel(level int) int {
	total := 0
	for l := 2; l <= level; l++ {
		total += XPForLevel(l)
	}
	return total
}

// LevelFromXP returns the level a user would hold after earning the given
// lifetime XP from scratch.
func LevelFromXP(totalXP int) int {
	level := 1
	remaining := totalXP
	for remaining >= XPForLevel(level+1) {
		remaining -= XPForLevel(level + 1)
		level++
	}
	return level
}

// ProgressPercent returns how far through the current level the user is,
// as a whole percentage clamped to [0, 100].
func ProgressPercent(currentXP, level int) int {
	needed := XPForLevel(level + 1)
	if needed == 0 {
		return 0
	}
	pct := currentXP * 100 / needed
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
