// Package achievement implements the achievement engine: a static catalogue
// of definitions, per-user unlock records, and requirement evaluation against
// the user's statistics snapshot.
package achievement

import "time"

// Rarity is the achievement tier. Rarer tiers add a larger XP bonus on top
// of the definition's base reward.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
	RarityMythic    Rarity = "mythic"
)

var rarityBonuses = map[Rarity]int{
	RarityCommon:    10,
	RarityUncommon:  25,
	RarityRare:      50,
	RarityEpic:      100,
	RarityLegendary: 200,
	RarityMythic:    500,
}

// XPBonus returns the rarity's XP bonus. Unknown rarities carry no bonus.
func (r Rarity) XPBonus() int {
	return rarityBonuses[r]
}

// RequirementType tags how a definition's requirement is evaluated.
type RequirementType string

const (
	RequirementSessionsCompleted RequirementType = "sessions_completed"
	RequirementTotalFocusMinutes RequirementType = "total_focus_minutes"
	RequirementStreakDays        RequirementType = "streak_days"
	RequirementTasksCompleted    RequirementType = "tasks_completed"
	RequirementLevelReached      RequirementType = "level_reached"
	RequirementMorningSessions   RequirementType = "morning_sessions"
	RequirementEveningSessions   RequirementType = "evening_sessions"
	RequirementSpecialDate       RequirementType = "special_date"
	RequirementPerfectWeek       RequirementType = "perfect_week"
)

// Definition is one catalogue entry. The catalogue is static and read-only
// to this core; rows are seeded by migration.
type Definition struct {
	ID               int64
	Code             string
	Name             string
	Description      string
	Icon             string
	RequirementType  RequirementType
	RequirementValue int
	Rarity           Rarity
	XPReward         int
	IsSecret         bool
	Hint             string
	DisplayOrder     int
	IsEnabled        bool
	CreatedAt        time.Time
}

// TotalXPReward returns the base reward plus the rarity bonus.
func (d *Definition) TotalXPReward() int {
	return d.XPReward + d.Rarity.XPBonus()
}
