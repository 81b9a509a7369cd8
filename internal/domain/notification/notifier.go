// Package notification defines the outbound user-notification port. Delivery
// is fire-and-forget: callers log failures and never retry or surface them.
package notification

import "context"

// LevelUpMessage announces a level advancement to a user.
type LevelUpMessage struct {
	UserID       string
	NewLevel     int
	LevelsGained int
	Text         string
}

// AchievementMessage announces an achievement unlock to a user.
type AchievementMessage struct {
	UserID      string
	Code        string
	Name        string
	Description string
	Icon        string
	Rarity      string
	XPReward    int
}

// Notifier delivers structured messages to users through whatever chat
// surface the process is wired to.
type Notifier interface {
	DeliverLevelUp(ctx context.Context, msg LevelUpMessage) error
	DeliverAchievementUnlocked(ctx context.Context, msg AchievementMessage) error
}
