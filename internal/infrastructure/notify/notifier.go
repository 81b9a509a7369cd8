// Package notify provides notification.Notifier adapters. The real chat
// gateway lives outside this module; the logging adapter stands in for it
// and the breaker adapter shields the pipeline from a failing gateway.
package notify

import (
	"context"

	"github.com/focushub/focushub/internal/domain/notification"
	"github.com/focushub/focushub/pkg/circuitbreaker"
	"github.com/focushub/focushub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// LOGGING NOTIFIER
// ══════════════════════════════════════════════════════════════════════════════

// LogNotifier writes notifications to the structured log. It is the default
// adapter when no chat gateway is configured and never fails.
type LogNotifier struct {
	log *logger.Logger
}

// NewLogNotifier creates a new LogNotifier.
func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log.With(logger.Component("notifier"))}
}

// DeliverLevelUp logs a level-up announcement.
func (n *LogNotifier) DeliverLevelUp(ctx context.Context, msg notification.LevelUpMessage) error {
	n.log.Info("level up notification",
		logger.UserID(msg.UserID),
		logger.LevelField(msg.NewLevel),
		logger.Int("levels_gained", msg.LevelsGained),
		logger.String("text", msg.Text),
	)
	return nil
}

// DeliverAchievementUnlocked logs an achievement announcement.
func (n *LogNotifier) DeliverAchievementUnlocked(ctx context.Context, msg notification.AchievementMessage) error {
	n.log.Info("achievement notification",
		logger.UserID(msg.UserID),
		logger.Achievement(msg.Code),
		logger.String("rarity", msg.Rarity),
		logger.XPAmount(msg.XPReward),
	)
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// CIRCUIT-BREAKING NOTIFIER
// ══════════════════════════════════════════════════════════════════════════════

// BreakerNotifier wraps another Notifier with a circuit breaker. Delivery is
// best-effort, so a tripped breaker drops messages instead of queueing them;
// the caller already treats delivery errors as log-and-continue.
type BreakerNotifier struct {
	inner   notification.Notifier
	breaker *circuitbreaker.CircuitBreaker
	log     *logger.Logger
}

// NewBreakerNotifier creates a new BreakerNotifier around inner.
func NewBreakerNotifier(inner notification.Notifier, log *logger.Logger) *BreakerNotifier {
	log = log.With(logger.Component("notifier"))

	breaker := circuitbreaker.NotifierBreaker(func(name string, from, to circuitbreaker.State) {
		log.Warn("notifier circuit state changed",
			logger.String("breaker", name),
			logger.String("from", from.String()),
			logger.String("to", to.String()),
		)
	})

	return &BreakerNotifier{
		inner:   inner,
		breaker: breaker,
		log:     log,
	}
}

// DeliverLevelUp delivers through the breaker.
func (n *BreakerNotifier) DeliverLevelUp(ctx context.Context, msg notification.LevelUpMessage) error {
	return n.breaker.Execute(ctx, func(ctx context.Context) error {
		return n.inner.DeliverLevelUp(ctx, msg)
	})
}

// DeliverAchievementUnlocked delivers through the breaker.
func (n *BreakerNotifier) DeliverAchievementUnlocked(ctx context.Context, msg notification.AchievementMessage) error {
	return n.breaker.Execute(ctx, func(ctx context.Context) error {
		return n.inner.DeliverAchievementUnlocked(ctx, msg)
	})
}
