package leaderboard

import "github.com/focushub/focushub/internal/domain/stats"

// Entry is one ranked row, denormalized with display fields from the
// statistics aggregate at read time. Entries are derived and never
// persisted.
type Entry struct {
	Rank   int
	UserID string
	Score  float64

	Level         int
	TotalXP       int
	Sessions      int
	FocusMinutes  int
	Streak        int
	Tasks         int
	Achievements  int
	IsCurrentUser bool
}

// newEntry builds a ranked row from the member's aggregate. A nil aggregate
// leaves the display fields zeroed.
func newEntry(rank int, userID string, score float64, s *stats.UserStats) *Entry {
	e := &Entry{
		Rank:   rank,
		UserID: userID,
		Score:  score,
	}
	if s != nil {
		e.Level = s.Level
		e.TotalXP = s.TotalXPEarned
		e.Sessions = s.TotalSessionsCompleted
		e.FocusMinutes = s.TotalFocusMinutes
		e.Streak = s.CurrentStreak
		e.Tasks = s.TotalTasksCompleted
		e.Achievements = s.AchievementsCount
	}
	return e
}
