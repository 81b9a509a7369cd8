package query

import (
	"context"

	"github.com/focushub/focushub/internal/domain/leaderboard"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET LEADERBOARD QUERY
// ══════════════════════════════════════════════════════════════════════════════

// GetLeaderboardQuery requests a ranking page plus the caller's own rank.
type GetLeaderboardQuery struct {
	// Type is the ranking dimension. Unknown values fall back to level.
	Type string

	// Scope is global or server. Unknown values fall back to global.
	Scope string

	// GuildID qualifies the server scope.
	GuildID string

	// Limit is the maximum number of entries (default 100).
	Limit int

	// RequestingUserID, when set, marks the caller's entry and fills
	// YourRank even when the caller is outside the page.
	RequestingUserID string
}

// LeaderboardPage is the assembled ranking response.
type LeaderboardPage struct {
	Type    leaderboard.Type
	Scope   leaderboard.Scope
	Entries []*leaderboard.Entry

	// YourRank is the requesting user's entry, or nil when not ranked.
	YourRank *leaderboard.Entry

	// TotalRanked is the number of members in the ranking.
	TotalRanked int64
}

// GetLeaderboardHandler handles the GetLeaderboardQuery.
type GetLeaderboardHandler struct {
	service *leaderboard.Service
}

// NewGetLeaderboardHandler creates a new GetLeaderboardHandler.
func NewGetLeaderboardHandler(service *leaderboard.Service) *GetLeaderboardHandler {
	return &GetLeaderboardHandler{service: service}
}

// Handle executes the query. Cache failures degrade to an empty page; the
// service logs them.
func (h *GetLeaderboardHandler) Handle(ctx context.Context, q GetLeaderboardQuery) *LeaderboardPage {
	t := leaderboard.ParseType(q.Type)
	scope := leaderboard.ParseScope(q.Scope)

	page := &LeaderboardPage{
		Type:        t,
		Scope:       scope,
		Entries:     h.service.GetTop(ctx, t, scope, q.GuildID, q.Limit),
		TotalRanked: h.service.GetSize(ctx, t, scope, q.GuildID),
	}

	if q.RequestingUserID != "" {
		page.YourRank = h.service.GetUserRank(ctx, t, scope, q.GuildID, q.RequestingUserID)

		for _, entry := range page.Entries {
			if entry.UserID == q.RequestingUserID {
				entry.IsCurrentUser = true
			}
		}
	}

	return page
}
