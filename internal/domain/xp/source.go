// Package xp implements the experience ledger: immutable XP transactions,
// the leveling formula, and level-up results. The ledger is the only place
// XP is granted; callers guard their own idempotency (e.g. the
// first-session-of-day bonus checks today's transactions before granting).
package xp

import "fmt"

// Source tags where an XP grant came from.
type Source string

const (
	SourceSessionCompleted    Source = "session_completed"
	SourceTaskCompleted       Source = "task_completed"
	SourceStreakBonus         Source = "streak_bonus"
	SourceFirstSessionOfDay   Source = "first_session_of_day"
	SourceAchievementUnlocked Source = "achievement_unlocked"
	SourceDailyLogin          Source = "daily_login"
	SourceManualGrant         Source = "manual_grant"
)

// sourceInfo carries the default grant amount and the ledger description
// for each source.
type sourceInfo struct {
	defaultAmount int
	description   string
}

var sources = map[Source]sourceInfo{
	SourceSessionCompleted:    {25, "Completed a focus session"},
	SourceTaskCompleted:       {10, "Completed a task"},
	SourceStreakBonus:         {100, "Maintained a 7-day streak"},
	SourceFirstSessionOfDay:   {5, "First session of the day"},
	SourceAchievementUnlocked: {50, "Unlocked an achievement"},
	SourceDailyLogin:          {2, "Daily login bonus"},
	SourceManualGrant:         {0, "Manually granted by admin"},
}

// IsValid reports whether the source is known.
func (s Source) IsValid() bool {
	_, ok := sources[s]
	return ok
}

// DefaultAmount returns the default XP for the source, used when a grant
// does not specify an explicit amount.
func (s Source) DefaultAmount() int {
	return sources[s].defaultAmount
}

// Description returns the human description of the source.
func (s Source) Description() string {
	return sources[s].description
}

// FormattedDescription returns the ledger description with the granted
// amount appended.
func (s Source) FormattedDescription(amount int) string {
	return fmt.Sprintf("%s (+%d XP)", s.Description(), amount)
}
