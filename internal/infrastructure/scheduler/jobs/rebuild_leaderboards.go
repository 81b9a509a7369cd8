// Package jobs contains implementations of scheduled maintenance jobs for
// FocusHub.
package jobs

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/focushub/focushub/internal/domain/leaderboard"
)

// ══════════════════════════════════════════════════════════════════════════════
// REBUILD LEADERBOARDS JOB
// ══════════════════════════════════════════════════════════════════════════════

// RebuildLeaderboardsJob periodically rebuilds every global leaderboard
// sorted set from the durable store. Incremental writes keep rankings warm
// between runs; the rebuild repairs any drift and repopulates expired keys
// before a read has to pay for it.
type RebuildLeaderboardsJob struct {
	service *leaderboard.Service
	logger  *slog.Logger

	lastRun atomic.Value // *RebuildRunStats
}

// RebuildRunStats contains statistics from one rebuild run.
type RebuildRunStats struct {
	StartedAt   time.Time
	CompletedAt time.Time
	Duration    time.Duration
	Success     bool
}

// NewRebuildLeaderboardsJob creates a new rebuild job.
func NewRebuildLeaderboardsJob(service *leaderboard.Service, logger *slog.Logger) *RebuildLeaderboardsJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &RebuildLeaderboardsJob{
		service: service,
		logger:  logger,
	}
}

// Name returns the unique name of the job.
func (j *RebuildLeaderboardsJob) Name() string {
	return "rebuild_leaderboards"
}

// Description returns a human-readable description of the job.
func (j *RebuildLeaderboardsJob) Description() string {
	return "Rebuilds all global leaderboard rankings from the durable store"
}

// Run executes the job.
func (j *RebuildLeaderboardsJob) Run(ctx context.Context) error {
	startedAt := time.Now()

	err := j.service.RebuildAllGlobal(ctx)

	stats := &RebuildRunStats{
		StartedAt:   startedAt,
		CompletedAt: time.Now(),
		Duration:    time.Since(startedAt),
		Success:     err == nil,
	}
	j.lastRun.Store(stats)

	if err != nil {
		return err
	}

	j.logger.Info("leaderboards rebuilt", "duration", stats.Duration.String())
	return nil
}

// LastRun returns statistics from the most recent run, or nil.
func (j *RebuildLeaderboardsJob) LastRun() *RebuildRunStats {
	stats, _ := j.lastRun.Load().(*RebuildRunStats)
	return stats
}
