// Package leaderboard maintains derived, TTL-bound sorted rankings over the
// user statistics aggregates. Rankings live in a sorted-set cache, are
// rebuilt on miss from the durable store, and are never authoritative: any
// cache failure degrades to an empty result instead of failing the caller.
package leaderboard

import (
	"fmt"
	"strings"

	"github.com/focushub/focushub/internal/domain/stats"
)

// Type selects which statistic a ranking orders by.
type Type string

const (
	TypeLevel        Type = "level"
	TypeXP           Type = "xp"
	TypeSessions     Type = "sessions"
	TypeFocusTime    Type = "focus_time"
	TypeStreak       Type = "streak"
	TypeTasks        Type = "tasks"
	TypeAchievements Type = "achievements"
)

// AllTypes returns every leaderboard type in display order.
func AllTypes() []Type {
	return []Type{TypeLevel, TypeXP, TypeSessions, TypeFocusTime, TypeStreak, TypeTasks, TypeAchievements}
}

// ParseType parses a type string. Unrecognized values fall back to
// TypeLevel rather than failing.
func ParseType(s string) Type {
	normalized := strings.ToLower(strings.TrimSpace(s))
	for _, t := range AllTypes() {
		if normalized == string(t) {
			return t
		}
	}
	return TypeLevel
}

// DisplayName returns a human-readable name for the type.
func (t Type) DisplayName() string {
	switch t {
	case TypeLevel:
		return "Level"
	case TypeXP:
		return "Total XP"
	case TypeSessions:
		return "Sessions"
	case TypeFocusTime:
		return "Focus Time"
	case TypeStreak:
		return "Streak"
	case TypeTasks:
		return "Tasks"
	default:
		return "Achievements"
	}
}

// scorers maps each type to the stats field it ranks by. New types register
// here instead of growing a conditional.
var scorers = map[Type]func(s *stats.UserStats) float64{
	TypeLevel:        func(s *stats.UserStats) float64 { return float64(s.Level) },
	TypeXP:           func(s *stats.UserStats) float64 { return float64(s.TotalXPEarned) },
	TypeSessions:     func(s *stats.UserStats) float64 { return float64(s.TotalSessionsCompleted) },
	TypeFocusTime:    func(s *stats.UserStats) float64 { return float64(s.TotalFocusMinutes) },
	TypeStreak:       func(s *stats.UserStats) float64 { return float64(s.CurrentStreak) },
	TypeTasks:        func(s *stats.UserStats) float64 { return float64(s.TotalTasksCompleted) },
	TypeAchievements: func(s *stats.UserStats) float64 { return float64(s.AchievementsCount) },
}

// Score returns the user's score for this type.
func (t Type) Score(s *stats.UserStats) float64 {
	return scorers[t](s)
}

// Scope partitions a ranking: global covers every user, server covers one
// guild.
type Scope string

const (
	ScopeGlobal Scope = "global"
	ScopeServer Scope = "server"
)

// ParseScope parses a scope string. Unrecognized values fall back to
// ScopeGlobal.
func ParseScope(s string) Scope {
	if strings.EqualFold(strings.TrimSpace(s), string(ScopeServer)) {
		return ScopeServer
	}
	return ScopeGlobal
}

// Key builds the cache key for a (type, scope) pair. Server scope without a
// guild id degrades to the global key.
func Key(t Type, scope Scope, guildID string) string {
	if scope == ScopeServer && guildID != "" {
		return fmt.Sprintf("leaderboard:server:%s:%s", guildID, t)
	}
	return fmt.Sprintf("leaderboard:global:%s", t)
}
