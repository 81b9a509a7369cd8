package eventhandler

import (
	"context"

	"github.com/focushub/focushub/internal/domain/leaderboard"
	"github.com/focushub/focushub/internal/domain/shared"
	"github.com/focushub/focushub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// REFRESH LEADERBOARDS HANDLER
// Pushes the user's fresh scores into every ranking after the rest of the
// pipeline has written its changes.
// ══════════════════════════════════════════════════════════════════════════════

// RefreshLeaderboardsHandler updates the user's sorted-set scores. It is
// registered last so the scores it reads include the XP and achievement
// writes made earlier in the same fanout.
type RefreshLeaderboardsHandler struct {
	service *leaderboard.Service
	log     *logger.Logger
}

// NewRefreshLeaderboardsHandler creates a new RefreshLeaderboardsHandler.
func NewRefreshLeaderboardsHandler(service *leaderboard.Service, log *logger.Logger) *RefreshLeaderboardsHandler {
	return &RefreshLeaderboardsHandler{
		service: service,
		log:     log.With(logger.Component("refresh_leaderboards")),
	}
}

// Handle refreshes the rankings for the event's user. Leaderboard writes
// are best-effort, so this never returns an error.
func (h *RefreshLeaderboardsHandler) Handle(event shared.Event) error {
	var guildID string
	switch e := event.(type) {
	case *shared.SessionEvent:
		guildID = e.GuildID
	case *shared.TaskEvent:
		guildID = e.GuildID
	}

	h.service.UpdateUserLeaderboards(context.Background(), event.AggregateID(), guildID)
	return nil
}
