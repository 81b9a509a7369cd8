package jobs

import (
	"context"
	"log/slog"

	"github.com/focushub/focushub/internal/domain/stats"
)

// ══════════════════════════════════════════════════════════════════════════════
// STREAK SWEEP JOB
// ══════════════════════════════════════════════════════════════════════════════

// StreakSweepJob resets lapsed daily streaks. A streak lapses when the
// user's last session day is before yesterday; session recording never
// zeroes a streak, so this sweep is the only place that does.
type StreakSweepJob struct {
	aggregator *stats.Aggregator
	logger     *slog.Logger
}

// NewStreakSweepJob creates a new streak sweep job.
func NewStreakSweepJob(aggregator *stats.Aggregator, logger *slog.Logger) *StreakSweepJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &StreakSweepJob{
		aggregator: aggregator,
		logger:     logger,
	}
}

// Name returns the unique name of the job.
func (j *StreakSweepJob) Name() string {
	return "streak_sweep"
}

// Description returns a human-readable description of the job.
func (j *StreakSweepJob) Description() string {
	return "Resets streaks for users whose last session day is before yesterday"
}

// Run executes the job.
func (j *StreakSweepJob) Run(ctx context.Context) error {
	reset, err := j.aggregator.ResetLapsedStreaks(ctx)
	if err != nil {
		return err
	}

	if reset > 0 {
		j.logger.Info("lapsed streaks reset", "count", reset)
	}
	return nil
}
