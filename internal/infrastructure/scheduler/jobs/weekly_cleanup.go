package jobs

import (
	"context"
	"log/slog"

	"github.com/focushub/focushub/internal/domain/leaderboard"
)

// ══════════════════════════════════════════════════════════════════════════════
// WEEKLY CLEANUP JOB
// ══════════════════════════════════════════════════════════════════════════════

// StatsCachePurger flushes the period statistics read cache.
type StatsCachePurger interface {
	PurgeAll(ctx context.Context) error
}

// WeeklyCleanupJob runs in the Sunday night quiet window: it purges the
// stats read cache and rebuilds the global leaderboards so the week starts
// from fresh derived state.
type WeeklyCleanupJob struct {
	purger       StatsCachePurger
	leaderboards *leaderboard.Service
	logger       *slog.Logger
}

// NewWeeklyCleanupJob creates a new weekly cleanup job.
func NewWeeklyCleanupJob(purger StatsCachePurger, leaderboards *leaderboard.Service, logger *slog.Logger) *WeeklyCleanupJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &WeeklyCleanupJob{
		purger:       purger,
		leaderboards: leaderboards,
		logger:       logger,
	}
}

// Name returns the unique name of the job.
func (j *WeeklyCleanupJob) Name() string {
	return "weekly_cleanup"
}

// Description returns a human-readable description of the job.
func (j *WeeklyCleanupJob) Description() string {
	return "Purges the stats cache and rebuilds leaderboards in the weekly quiet window"
}

// Run executes the job. A cache purge failure is logged but does not stop
// the leaderboard rebuild; both halves are derived state.
func (j *WeeklyCleanupJob) Run(ctx context.Context) error {
	if err := j.purger.PurgeAll(ctx); err != nil {
		j.logger.Warn("failed to purge stats cache", "error", err)
	} else {
		j.logger.Info("stats cache purged")
	}

	return j.leaderboards.RebuildAllGlobal(ctx)
}
