// Package query contains read operations (CQRS - Queries). Queries never
// mutate state; they read through the caches the domain services maintain.
package query

import (
	"context"
	"errors"

	"github.com/focushub/focushub/internal/domain/stats"
	"github.com/focushub/focushub/internal/domain/xp"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET USER STATS QUERY
// ══════════════════════════════════════════════════════════════════════════════

// GetUserStatsQuery requests one user's statistics for a period.
type GetUserStatsQuery struct {
	// UserID is the user whose stats are requested.
	UserID string

	// Period is the requested window: today, week, month, or all.
	// Unknown values fall back to today.
	Period string
}

// GetUserStatsHandler handles the GetUserStatsQuery.
type GetUserStatsHandler struct {
	aggregator *stats.Aggregator
}

// NewGetUserStatsHandler creates a new GetUserStatsHandler.
func NewGetUserStatsHandler(aggregator *stats.Aggregator) *GetUserStatsHandler {
	return &GetUserStatsHandler{aggregator: aggregator}
}

// Handle executes the query.
func (h *GetUserStatsHandler) Handle(ctx context.Context, q GetUserStatsQuery) (*stats.PeriodStats, error) {
	if q.UserID == "" {
		return nil, errors.New("get_user_stats: user_id is required")
	}

	s, err := h.aggregator.GetUserStats(ctx, q.UserID, stats.ParsePeriod(q.Period))
	if err != nil {
		return nil, err
	}

	// The stats package carries no leveling math; the next-level threshold
	// is filled in here from the curve.
	s.XPToNextLevel = xp.XPForLevel(s.Level + 1)

	return s, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// GET GLOBAL STATS QUERY
// ══════════════════════════════════════════════════════════════════════════════

// GetGlobalStatsHandler returns the platform-wide aggregate figures.
type GetGlobalStatsHandler struct {
	aggregator *stats.Aggregator
}

// NewGetGlobalStatsHandler creates a new GetGlobalStatsHandler.
func NewGetGlobalStatsHandler(aggregator *stats.Aggregator) *GetGlobalStatsHandler {
	return &GetGlobalStatsHandler{aggregator: aggregator}
}

// Handle executes the query.
func (h *GetGlobalStatsHandler) Handle(ctx context.Context) (*stats.GlobalStats, error) {
	return h.aggregator.GetGlobalStats(ctx)
}
