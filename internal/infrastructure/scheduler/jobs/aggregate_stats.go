package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/focushub/focushub/internal/domain/stats"
)

// ══════════════════════════════════════════════════════════════════════════════
// AGGREGATE STATS JOB
// ══════════════════════════════════════════════════════════════════════════════

// AggregateStatsJob recomputes every user's running totals from session and
// task history. The recompute overwrites the counters, so the job is
// idempotent and repairs drift left by any partial write.
type AggregateStatsJob struct {
	aggregator *stats.Aggregator
	statsRepo  stats.Repository
	logger     *slog.Logger
}

// NewAggregateStatsJob creates a new aggregate stats job.
func NewAggregateStatsJob(aggregator *stats.Aggregator, statsRepo stats.Repository, logger *slog.Logger) *AggregateStatsJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &AggregateStatsJob{
		aggregator: aggregator,
		statsRepo:  statsRepo,
		logger:     logger,
	}
}

// Name returns the unique name of the job.
func (j *AggregateStatsJob) Name() string {
	return "aggregate_stats"
}

// Description returns a human-readable description of the job.
func (j *AggregateStatsJob) Description() string {
	return "Recomputes user totals from session and task history"
}

// Run executes the job. Per-user failures are logged and the run continues;
// one broken aggregate must not block the rest.
func (j *AggregateStatsJob) Run(ctx context.Context) error {
	startedAt := time.Now()

	all, err := j.statsRepo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to list users for reaggregation: %w", err)
	}

	var failed int
	for _, s := range all {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := j.aggregator.RecomputeUserTotals(ctx, s.UserID); err != nil {
			failed++
			j.logger.Error("failed to recompute user totals",
				"user_id", s.UserID,
				"error", err,
			)
		}
	}

	j.logger.Info("stats reaggregation completed",
		"users", len(all),
		"failed", failed,
		"duration", time.Since(startedAt).String(),
	)

	if failed > 0 {
		return fmt.Errorf("reaggregation finished with %d failed users", failed)
	}
	return nil
}
