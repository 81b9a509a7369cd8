package query

import (
	"context"
	"errors"

	"github.com/focushub/focushub/internal/domain/achievement"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET ACHIEVEMENTS QUERY
// ══════════════════════════════════════════════════════════════════════════════

// GetAchievementsQuery requests one user's achievement catalogue view.
type GetAchievementsQuery struct {
	// UserID is the user whose achievements are requested.
	UserID string

	// UnlockedOnly filters the response down to held achievements.
	UnlockedOnly bool
}

// AchievementsPage is the assembled achievement response.
type AchievementsPage struct {
	Achievements []*achievement.View
	Summary      *achievement.Summary
}

// GetAchievementsHandler handles the GetAchievementsQuery.
type GetAchievementsHandler struct {
	engine *achievement.Engine
}

// NewGetAchievementsHandler creates a new GetAchievementsHandler.
func NewGetAchievementsHandler(engine *achievement.Engine) *GetAchievementsHandler {
	return &GetAchievementsHandler{engine: engine}
}

// Handle executes the query.
func (h *GetAchievementsHandler) Handle(ctx context.Context, q GetAchievementsQuery) (*AchievementsPage, error) {
	if q.UserID == "" {
		return nil, errors.New("get_achievements: user_id is required")
	}

	views, err := h.engine.GetUserAchievements(ctx, q.UserID)
	if err != nil {
		return nil, err
	}

	if q.UnlockedOnly {
		held := views[:0]
		for _, v := range views {
			if v.Unlocked {
				held = append(held, v)
			}
		}
		views = held
	}

	summary, err := h.engine.GetAchievementStats(ctx, q.UserID)
	if err != nil {
		return nil, err
	}

	return &AchievementsPage{
		Achievements: views,
		Summary:      summary,
	}, nil
}
