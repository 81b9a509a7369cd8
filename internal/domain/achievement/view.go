package achievement

import "time"

// View is the display projection of one catalogue entry for one user:
// unlock state plus progress toward the requirement.
type View struct {
	Code        string
	Name        string
	Description string
	Icon        string
	Rarity      Rarity

	Unlocked   bool
	UnlockedAt *time.Time
	XPAwarded  int

	CurrentProgress  int
	RequiredProgress int
	ProgressPercent  int

	IsSecret bool
	Hint     string
}

// computeProgress sets the percentage, capped at 100. Definitions without a
// positive requirement value show 100 when unlocked and 0 otherwise.
func (v *View) computeProgress() {
	if v.RequiredProgress > 0 {
		pct := v.CurrentProgress * 100 / v.RequiredProgress
		if pct > 100 {
			pct = 100
		}
		v.ProgressPercent = pct
		return
	}
	if v.Unlocked {
		v.ProgressPercent = 100
	} else {
		v.ProgressPercent = 0
	}
}

// AlmostUnlocked reports whether a locked achievement is at 80% progress or
// more.
func (v *View) AlmostUnlocked() bool {
	return !v.Unlocked && v.ProgressPercent >= 80
}

// Obscured reports whether a secret achievement should be rendered with its
// hint instead of its real name and description. The gate opens at 50%
// progress.
func (v *View) Obscured() bool {
	return v.IsSecret && !v.Unlocked && v.ProgressPercent < 50
}

// Summary is the per-user achievement completion overview.
type Summary struct {
	TotalAchievements    int
	UnlockedAchievements int
	CompletionPercentage float64
}
