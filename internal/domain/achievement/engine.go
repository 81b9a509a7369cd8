package achievement

import (
	"context"
	"errors"
	"time"

	"github.com/focushub/focushub/internal/domain/notification"
	"github.com/focushub/focushub/internal/domain/shared"
	"github.com/focushub/focushub/internal/domain/stats"
	"github.com/focushub/focushub/internal/domain/xp"
	"github.com/focushub/focushub/pkg/logger"
)

// Engine evaluates the catalogue against a user's statistics and unlocks
// newly satisfied achievements. Evaluation is single-pass: every predicate
// in one CheckAndUnlock call sees the snapshot taken at call start, so an
// achievement whose requirement depends on another unlock's side effect
// (e.g. a level gained from an unlock reward) fires on the next invocation,
// not recursively within the same one.
type Engine struct {
	defs      DefinitionRepository
	unlocks   UnlockRepository
	statsRepo stats.Repository
	sessions  stats.SessionHistory
	ledger    *xp.Ledger
	notifier  notification.Notifier
	bus       shared.EventBus
	log       *logger.Logger
}

// NewEngine creates the achievement engine.
func NewEngine(
	defs DefinitionRepository,
	unlocks UnlockRepository,
	statsRepo stats.Repository,
	sessions stats.SessionHistory,
	ledger *xp.Ledger,
	notifier notification.Notifier,
	bus shared.EventBus,
	log *logger.Logger,
) *Engine {
	return &Engine{
		defs:      defs,
		unlocks:   unlocks,
		statsRepo: statsRepo,
		sessions:  sessions,
		ledger:    ledger,
		notifier:  notifier,
		bus:       bus,
		log:       log.With(logger.Component("achievement_engine")),
	}
}

// CheckAndUnlock evaluates every enabled definition the user does not yet
// hold and unlocks the satisfied ones. Returns the definitions newly
// unlocked in this pass.
func (e *Engine) CheckAndUnlock(ctx context.Context, userID string) ([]*Definition, error) {
	snapshot, err := e.statsRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, shared.WrapError("achievement", "Check", shared.ErrExternalService, "failed to load user stats", err)
	}

	defs, err := e.defs.GetEnabled(ctx)
	if err != nil {
		return nil, shared.WrapError("achievement", "Check", shared.ErrExternalService, "failed to load catalogue", err)
	}

	held, err := e.heldCodes(ctx, userID)
	if err != nil {
		return nil, err
	}

	ec := EvalContext{Stats: snapshot, Sessions: e.sessions, Now: time.Now()}

	var unlocked []*Definition
	for _, def := range defs {
		if held[def.Code] {
			continue
		}

		satisfied, err := Evaluate(ctx, ec, def)
		if err != nil {
			if errors.Is(err, shared.ErrInvalidInput) {
				e.log.Debug("skipping unknown requirement type",
					logger.Achievement(def.Code),
					logger.String("requirement", string(def.RequirementType)),
				)
				continue
			}
			// Evaluator read failures degrade to "not satisfied"; the
			// next check pass retries.
			e.log.Warn("requirement evaluation failed",
				logger.UserID(userID),
				logger.Achievement(def.Code),
				logger.Err(err),
			)
			continue
		}
		if !satisfied {
			continue
		}

		if err := e.unlock(ctx, userID, def); err != nil {
			if shared.IsAlreadyExists(err) {
				continue
			}
			return unlocked, err
		}
		unlocked = append(unlocked, def)
	}

	return unlocked, nil
}

// unlock is the atomic unit: insert the unlock record, bump the aggregate's
// achievement count, grant the XP reward, and fire the notification. The
// aggregate is re-read here instead of reusing the evaluation snapshot: an
// earlier unlock in the same pass has already persisted its XP reward
// through the ledger, and saving the stale snapshot would overwrite it.
// The insert's uniqueness guard makes a concurrent duplicate a no-op.
func (e *Engine) unlock(ctx context.Context, userID string, def *Definition) error {
	if err := e.unlocks.Create(ctx, NewUnlock(userID, def.Code)); err != nil {
		if shared.IsAlreadyExists(err) {
			return err
		}
		return shared.WrapError("achievement", "Unlock", shared.ErrExternalService, "failed to insert unlock record", err)
	}

	current, err := e.statsRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return shared.WrapError("achievement", "Unlock", shared.ErrExternalService, "failed to load user stats", err)
	}
	current.AchievementsCount++
	if err := e.statsRepo.Save(ctx, current); err != nil {
		return shared.WrapError("achievement", "Unlock", shared.ErrExternalService, "failed to update achievement count", err)
	}

	reward := def.TotalXPReward()
	if _, err := e.ledger.GrantXPAmount(ctx, userID, xp.SourceAchievementUnlocked, reward, def.Code); err != nil {
		return err
	}

	e.log.Info("achievement unlocked",
		logger.UserID(userID),
		logger.Achievement(def.Code),
		logger.XPAmount(reward),
	)

	if e.bus != nil {
		if err := e.bus.Publish(shared.NewAchievementUnlockedEvent(userID, def.Code, reward)); err != nil {
			e.log.Warn("failed to publish unlock event", logger.UserID(userID), logger.Err(err))
		}
	}

	// Best effort: a failed notification never fails the unlock.
	if e.notifier != nil {
		msg := notification.AchievementMessage{
			UserID:      userID,
			Code:        def.Code,
			Name:        def.Name,
			Description: def.Description,
			Icon:        def.Icon,
			Rarity:      string(def.Rarity),
			XPReward:    reward,
		}
		if err := e.notifier.DeliverAchievementUnlocked(ctx, msg); err != nil {
			e.log.Warn("achievement notification failed", logger.UserID(userID), logger.Err(err))
		}
	}

	return nil
}

// GetUserAchievements returns the display projection of the full catalogue
// for one user, in display order.
func (e *Engine) GetUserAchievements(ctx context.Context, userID string) ([]*View, error) {
	snapshot, err := e.statsRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, shared.WrapError("achievement", "List", shared.ErrExternalService, "failed to load user stats", err)
	}

	defs, err := e.defs.GetEnabled(ctx)
	if err != nil {
		return nil, shared.WrapError("achievement", "List", shared.ErrExternalService, "failed to load catalogue", err)
	}

	unlocks, err := e.unlocks.GetByUserID(ctx, userID)
	if err != nil {
		return nil, shared.WrapError("achievement", "List", shared.ErrExternalService, "failed to load unlocks", err)
	}
	unlockedAt := make(map[string]time.Time, len(unlocks))
	for _, u := range unlocks {
		unlockedAt[u.Code] = u.UnlockedAt
	}

	views := make([]*View, 0, len(defs))
	for _, def := range defs {
		v := &View{
			Code:             def.Code,
			Name:             def.Name,
			Description:      def.Description,
			Icon:             def.Icon,
			Rarity:           def.Rarity,
			CurrentProgress:  CurrentProgress(snapshot, def),
			RequiredProgress: def.RequirementValue,
			IsSecret:         def.IsSecret,
			Hint:             def.Hint,
		}
		if at, ok := unlockedAt[def.Code]; ok {
			t := at
			v.Unlocked = true
			v.UnlockedAt = &t
			v.XPAwarded = def.TotalXPReward()
		}
		v.computeProgress()
		views = append(views, v)
	}

	return views, nil
}

// GetAchievementStats returns the user's completion overview.
func (e *Engine) GetAchievementStats(ctx context.Context, userID string) (*Summary, error) {
	total, err := e.defs.CountEnabled(ctx)
	if err != nil {
		return nil, shared.WrapError("achievement", "Summary", shared.ErrExternalService, "failed to count catalogue", err)
	}

	unlocked, err := e.unlocks.CountByUserID(ctx, userID)
	if err != nil {
		return nil, shared.WrapError("achievement", "Summary", shared.ErrExternalService, "failed to count unlocks", err)
	}

	pct := 0.0
	if total > 0 {
		pct = float64(unlocked) / float64(total) * 100
	}

	return &Summary{
		TotalAchievements:    total,
		UnlockedAchievements: unlocked,
		CompletionPercentage: pct,
	}, nil
}

func (e *Engine) heldCodes(ctx context.Context, userID string) (map[string]bool, error) {
	unlocks, err := e.unlocks.GetByUserID(ctx, userID)
	if err != nil {
		return nil, shared.WrapError("achievement", "Check", shared.ErrExternalService, "failed to load unlocks", err)
	}
	held := make(map[string]bool, len(unlocks))
	for _, u := range unlocks {
		held[u.Code] = true
	}
	return held, nil
}
