package xp

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Transaction is one immutable row in the experience ledger. Transactions
// are append-only: corrections are new transactions, never edits.
type Transaction struct {
	ID          uuid.UUID
	UserID      string
	Amount      int
	Source      Source
	LevelBefore int
	LevelAfter  int
	// ReferenceID points at what caused the grant (a session id, an
	// achievement code). Empty when there is no referent.
	ReferenceID string
	Description string
	CreatedAt   time.Time
}

// NewTransaction creates a ledger row for a grant. The description is
// derived from the source and amount.
func NewTransaction(userID string, amount int, source Source, referenceID string, levelBefore, levelAfter int) *Transaction {
	return &Transaction{
		ID:          uuid.New(),
		UserID:      userID,
		Amount:      amount,
		Source:      source,
		LevelBefore: levelBefore,
		LevelAfter:  levelAfter,
		ReferenceID: referenceID,
		Description: source.FormattedDescription(amount),
		CreatedAt:   time.Now().UTC(),
	}
}

// GrantResult describes the outcome of one XP grant: the amount applied and
// any level advancement it caused.
type GrantResult struct {
	UserID        string
	Amount        int
	PreviousLevel int
	NewLevel      int
	CurrentXP     int
	XPToNextLevel int
}

// LeveledUp reports whether the grant advanced at least one level.
func (r *GrantResult) LeveledUp() bool {
	return r.NewLevel > r.PreviousLevel
}

// IsMultiLevel reports whether the grant advanced more than one level.
func (r *GrantResult) IsMultiLevel() bool {
	return r.NewLevel-r.PreviousLevel > 1
}

// LevelsGained returns how many levels the grant advanced.
func (r *GrantResult) LevelsGained() int {
	return r.NewLevel - r.PreviousLevel
}

// ProgressPercent returns progress through the new level as a percentage.
func (r *GrantResult) ProgressPercent() int {
	return ProgressPercent(r.CurrentXP, r.NewLevel)
}

// CongratsMessage returns the level-up announcement text, or an empty
// string when no level was gained.
func (r *GrantResult) CongratsMessage() string {
	switch {
	case r.IsMultiLevel():
		return fmt.Sprintf("Incredible! You jumped %d levels and reached level %d!", r.LevelsGained(), r.NewLevel)
	case r.LeveledUp():
		return fmt.Sprintf("Congratulations! You reached level %d!", r.NewLevel)
	default:
		return ""
	}
}

// levelRewardMessages holds the milestone announcements. Levels not listed
// fall back to the every-tenth or generic message.
var levelRewardMessages = map[int]string{
	5:   "Nice! You've reached level 5! Keep building that focus habit!",
	10:  "Level 10! You're becoming a productivity master!",
	15:  "Level 15! Your dedication is impressive!",
	20:  "Level 20! You're in the top tier of focused users!",
	25:  "Level 25! Quarter-century of focus mastery!",
	50:  "Level 50! You're a legend! Only few reach this milestone!",
	75:  "Level 75! Your focus is unmatched!",
	100: "LEVEL 100! You've achieved MAXIMUM FOCUS!",
}

// LevelRewardMessage returns the reward text for reaching a level.
func LevelRewardMessage(level int) string {
	if msg, ok := levelRewardMessages[level]; ok {
		return msg
	}
	if level%10 == 0 {
		return fmt.Sprintf("Level %d! A new milestone achieved!", level)
	}
	return fmt.Sprintf("Level %d! Keep up the great work!", level)
}

// RewardMessage returns the milestone text for the level this grant reached,
// or an empty string when no level was gained.
func (r *GrantResult) RewardMessage() string {
	if !r.LeveledUp() {
		return ""
	}
	return LevelRewardMessage(r.NewLevel)
}

// Progress is the level snapshot returned to profile views.
type Progress struct {
	UserID          string
	Level           int
	CurrentXP       int
	XPToNextLevel   int
	TotalXPEarned   int
	ProgressPercent int
}
