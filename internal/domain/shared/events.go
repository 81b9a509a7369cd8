package shared

import "time"

// EventType represents the type of domain event.
type EventType string

// Domain event types. Activity events fan out to the experience ledger, the
// achievement engine, and the leaderboard cache; none of those components
// holds a reference back to the component that raised the event.
const (
	// Activity events
	EventSessionCompleted   EventType = "activity.session_completed"
	EventSessionInterrupted EventType = "activity.session_interrupted"
	EventTaskCompleted      EventType = "activity.task_completed"

	// Progress events
	EventXPGained      EventType = "progress.xp_gained"
	EventLevelUp       EventType = "progress.level_up"
	EventStreakUpdated EventType = "progress.streak_updated"
	EventStreakBroken  EventType = "progress.streak_broken"

	// Achievement events
	EventAchievementUnlocked EventType = "achievement.unlocked"

	// Leaderboard events
	EventLeaderboardUpdated EventType = "leaderboard.updated"

	// System events
	EventAggregationCompleted EventType = "system.aggregation_completed"
)

// Event is the base interface for all domain events.
type Event interface {
	// EventType returns the type of the event.
	EventType() EventType

	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time

	// AggregateID returns the ID of the aggregate that produced this event.
	// For activity and progress events this is the user id.
	AggregateID() string
}

// EventHandler processes a single event.
type EventHandler func(event Event) error

// EventBus publishes events to subscribed handlers.
type EventBus interface {
	Subscribe(eventType EventType, handler EventHandler) error
	Publish(event Event) error
}

// BaseEvent provides common event functionality.
type BaseEvent struct {
	Type        EventType `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	AggregateId string    `json:"aggregate_id"`
}

// EventType implements Event interface.
func (e BaseEvent) EventType() EventType { return e.Type }

// OccurredAt implements Event interface.
func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }

// AggregateID implements Event interface.
func (e BaseEvent) AggregateID() string { return e.AggregateId }

// NewBaseEvent creates a new base event.
func NewBaseEvent(eventType EventType, aggregateID string) BaseEvent {
	return BaseEvent{
		Type:        eventType,
		Timestamp:   time.Now(),
		AggregateId: aggregateID,
	}
}

// SessionEvent is raised when a focus session reaches a terminal state.
type SessionEvent struct {
	BaseEvent
	SessionID       int64  `json:"session_id"`
	UserID          string `json:"user_id"`
	GuildID         string `json:"guild_id,omitempty"`
	DurationMinutes int    `json:"duration_minutes"`
	StartedAt       time.Time
	Completed       bool `json:"completed"`
}

// NewSessionCompletedEvent creates a session completion event.
func NewSessionCompletedEvent(sessionID int64, userID, guildID string, minutes int, startedAt time.Time) *SessionEvent {
	return &SessionEvent{
		BaseEvent:       NewBaseEvent(EventSessionCompleted, userID),
		SessionID:       sessionID,
		UserID:          userID,
		GuildID:         guildID,
		DurationMinutes: minutes,
		StartedAt:       startedAt,
		Completed:       true,
	}
}

// NewSessionInterruptedEvent creates a session interruption event.
func NewSessionInterruptedEvent(sessionID int64, userID, guildID string, startedAt time.Time) *SessionEvent {
	return &SessionEvent{
		BaseEvent: NewBaseEvent(EventSessionInterrupted, userID),
		SessionID: sessionID,
		UserID:    userID,
		GuildID:   guildID,
		StartedAt: startedAt,
	}
}

// TaskEvent is raised when a user completes a task.
type TaskEvent struct {
	BaseEvent
	TaskID  int64  `json:"task_id"`
	UserID  string `json:"user_id"`
	GuildID string `json:"guild_id,omitempty"`
}

// NewTaskCompletedEvent creates a task completion event.
func NewTaskCompletedEvent(taskID int64, userID, guildID string) *TaskEvent {
	return &TaskEvent{
		BaseEvent: NewBaseEvent(EventTaskCompleted, userID),
		TaskID:    taskID,
		UserID:    userID,
		GuildID:   guildID,
	}
}

// XPGainedEvent is raised after the ledger applies a grant.
type XPGainedEvent struct {
	BaseEvent
	UserID        string `json:"user_id"`
	Amount        int    `json:"amount"`
	PreviousLevel int    `json:"previous_level"`
	NewLevel      int    `json:"new_level"`
}

// NewXPGainedEvent creates an xp gained event.
func NewXPGainedEvent(userID string, amount, previousLevel, newLevel int) *XPGainedEvent {
	eventType := EventXPGained
	if newLevel > previousLevel {
		eventType = EventLevelUp
	}
	return &XPGainedEvent{
		BaseEvent:     NewBaseEvent(eventType, userID),
		UserID:        userID,
		Amount:        amount,
		PreviousLevel: previousLevel,
		NewLevel:      newLevel,
	}
}

// StreakEvent is raised when a user's streak value changes.
type StreakEvent struct {
	BaseEvent
	UserID        string `json:"user_id"`
	CurrentStreak int    `json:"current_streak"`
	BestStreak    int    `json:"best_streak"`
}

// NewStreakUpdatedEvent creates a streak updated event.
func NewStreakUpdatedEvent(userID string, current, best int) *StreakEvent {
	return &StreakEvent{
		BaseEvent:     NewBaseEvent(EventStreakUpdated, userID),
		UserID:        userID,
		CurrentStreak: current,
		BestStreak:    best,
	}
}

// NewStreakBrokenEvent creates a streak broken event. The current streak is
// zero by definition.
func NewStreakBrokenEvent(userID string, best int) *StreakEvent {
	return &StreakEvent{
		BaseEvent:  NewBaseEvent(EventStreakBroken, userID),
		UserID:     userID,
		BestStreak: best,
	}
}

// AchievementUnlockedEvent is raised when an achievement unlocks.
type AchievementUnlockedEvent struct {
	BaseEvent
	UserID   string `json:"user_id"`
	Code     string `json:"code"`
	XPReward int    `json:"xp_reward"`
}

// NewAchievementUnlockedEvent creates an achievement unlocked event.
func NewAchievementUnlockedEvent(userID, code string, xpReward int) *AchievementUnlockedEvent {
	return &AchievementUnlockedEvent{
		BaseEvent: NewBaseEvent(EventAchievementUnlocked, userID),
		UserID:    userID,
		Code:      code,
		XPReward:  xpReward,
	}
}
