package stats

import (
	"context"
	"time"

	"github.com/focushub/focushub/internal/domain/shared"
	"github.com/focushub/focushub/pkg/logger"
	"github.com/focushub/focushub/pkg/timeutil"
)

// Aggregator owns the per-event update path for the statistics aggregate
// and computes period-scoped read views. Period reads go through a short
// TTL cache; any mutation for a user invalidates every cached period for
// that user.
type Aggregator struct {
	repo     Repository
	sessions SessionHistory
	tasks    TaskHistory
	cache    ReadCache
	bus      shared.EventBus
	log      *logger.Logger
}

// NewAggregator creates the stats aggregator service.
func NewAggregator(repo Repository, sessions SessionHistory, tasks TaskHistory, cache ReadCache, bus shared.EventBus, log *logger.Logger) *Aggregator {
	return &Aggregator{
		repo:     repo,
		sessions: sessions,
		tasks:    tasks,
		cache:    cache,
		bus:      bus,
		log:      log.With(logger.Component("stats_aggregator")),
	}
}

// UpdateStatsAfterSession applies one terminal session to the aggregate:
// counter increments, focus minutes on completion, the streak transition
// against the previous last-session date, and the new last-session date.
// The streak transition must see the previous date, so it runs before the
// date is overwritten.
func (a *Aggregator) UpdateStatsAfterSession(ctx context.Context, userID string, durationMinutes int, startedAt time.Time, completed bool) error {
	if durationMinutes < 0 {
		return shared.ErrNegativeFocusMinutes
	}

	s, err := a.repo.GetOrCreate(ctx, userID)
	if err != nil {
		return shared.WrapError("stats", "Record", shared.ErrExternalService, "failed to load user stats", err)
	}

	if completed {
		s.IncrementSessionsCompleted()
		s.AddFocusMinutes(durationMinutes)
	} else {
		s.IncrementSessionsInterrupted()
	}

	previousStreak := s.CurrentStreak
	s.ApplyStreakTransition(startedAt)
	s.RecordSessionDate(startedAt)

	if err := a.repo.Save(ctx, s); err != nil {
		return shared.WrapError("stats", "Record", shared.ErrExternalService, "failed to save user stats", err)
	}

	a.invalidate(ctx, userID)

	if a.bus != nil && s.CurrentStreak != previousStreak {
		if err := a.bus.Publish(shared.NewStreakUpdatedEvent(userID, s.CurrentStreak, s.BestStreak)); err != nil {
			a.log.Warn("failed to publish streak event", logger.UserID(userID), logger.Err(err))
		}
	}

	a.log.Debug("session recorded",
		logger.UserID(userID),
		logger.Bool("completed", completed),
		logger.Int("streak", s.CurrentStreak),
	)
	return nil
}

// UpdateStatsAfterTask applies one completed task to the aggregate.
func (a *Aggregator) UpdateStatsAfterTask(ctx context.Context, userID string) error {
	s, err := a.repo.GetOrCreate(ctx, userID)
	if err != nil {
		return shared.WrapError("stats", "Record", shared.ErrExternalService, "failed to load user stats", err)
	}

	s.IncrementTasksCompleted()

	if err := a.repo.Save(ctx, s); err != nil {
		return shared.WrapError("stats", "Record", shared.ErrExternalService, "failed to save user stats", err)
	}

	a.invalidate(ctx, userID)
	return nil
}

// GetUserStats returns the period statistics view, served from the read
// cache when warm. Cache failures on either side degrade to a plain
// computation.
func (a *Aggregator) GetUserStats(ctx context.Context, userID string, period Period) (*PeriodStats, error) {
	if a.cache != nil {
		if cached, err := a.cache.Get(ctx, userID, period); err == nil {
			return cached, nil
		} else if !shared.IsNotFound(err) {
			a.log.Warn("stats cache read failed", logger.UserID(userID), logger.Err(err))
		}
	}

	var (
		result *PeriodStats
		err    error
	)
	if period == PeriodAllTime {
		result, err = a.computeAllTime(ctx, userID)
	} else {
		result, err = a.computePeriod(ctx, userID, period)
	}
	if err != nil {
		return nil, err
	}

	if a.cache != nil {
		if err := a.cache.Set(ctx, result); err != nil {
			a.log.Warn("stats cache write failed", logger.UserID(userID), logger.Err(err))
		}
	}
	return result, nil
}

// ResetLapsedStreaks scans every aggregate and zeroes streaks whose last
// session is older than yesterday. This is the only path that reduces a
// streak to zero without a new session. Returns how many streaks were
// reset.
func (a *Aggregator) ResetLapsedStreaks(ctx context.Context) (int, error) {
	all, err := a.repo.GetAll(ctx)
	if err != nil {
		return 0, shared.WrapError("stats", "StreakSweep", shared.ErrExternalService, "failed to scan user stats", err)
	}

	reset := 0
	for _, s := range all {
		if !s.StreakLapsed() {
			continue
		}
		s.CurrentStreak = 0
		if err := a.repo.Save(ctx, s); err != nil {
			a.log.Error("failed to reset lapsed streak", logger.UserID(s.UserID), logger.Err(err))
			continue
		}
		a.invalidate(ctx, s.UserID)
		if a.bus != nil {
			if err := a.bus.Publish(shared.NewStreakBrokenEvent(s.UserID, s.BestStreak)); err != nil {
				a.log.Warn("failed to publish streak broken event", logger.UserID(s.UserID), logger.Err(err))
			}
		}
		reset++
	}
	return reset, nil
}

// RecomputeUserTotals overwrites the aggregate's lifetime counters from the
// session and task history. Idempotent by construction: re-running after a
// partial failure converges to the same state.
func (a *Aggregator) RecomputeUserTotals(ctx context.Context, userID string) error {
	s, err := a.repo.GetOrCreate(ctx, userID)
	if err != nil {
		return shared.WrapError("stats", "Aggregate", shared.ErrExternalService, "failed to load user stats", err)
	}

	var allTime time.Time
	now := time.Now()

	completed, err := a.sessions.CountCompleted(ctx, userID, allTime, now)
	if err != nil {
		return shared.WrapError("stats", "Aggregate", shared.ErrExternalService, "failed to count sessions", err)
	}
	interrupted, err := a.sessions.CountInterrupted(ctx, userID, allTime, now)
	if err != nil {
		return shared.WrapError("stats", "Aggregate", shared.ErrExternalService, "failed to count interruptions", err)
	}
	minutes, err := a.sessions.SumFocusMinutes(ctx, userID, allTime, now)
	if err != nil {
		return shared.WrapError("stats", "Aggregate", shared.ErrExternalService, "failed to sum focus minutes", err)
	}
	tasks, err := a.tasks.CountCompleted(ctx, userID, allTime, now)
	if err != nil {
		return shared.WrapError("stats", "Aggregate", shared.ErrExternalService, "failed to count tasks", err)
	}

	s.TotalSessionsCompleted = completed
	s.TotalSessionsInterrupted = interrupted
	s.TotalFocusMinutes = minutes
	s.TotalTasksCompleted = tasks

	if err := a.repo.Save(ctx, s); err != nil {
		return shared.WrapError("stats", "Aggregate", shared.ErrExternalService, "failed to save user stats", err)
	}

	a.invalidate(ctx, userID)
	return nil
}

// GlobalStats is the platform-wide overview.
type GlobalStats struct {
	TotalActiveUsers    int
	TotalFocusMinutes   int
	AverageFocusMinutes int
}

// GetGlobalStats returns platform-wide totals.
func (a *Aggregator) GetGlobalStats(ctx context.Context) (*GlobalStats, error) {
	active, err := a.repo.CountActive(ctx)
	if err != nil {
		return nil, shared.WrapError("stats", "Global", shared.ErrExternalService, "failed to count active users", err)
	}
	total, average, err := a.repo.GlobalFocusMinutes(ctx)
	if err != nil {
		return nil, shared.WrapError("stats", "Global", shared.ErrExternalService, "failed to sum focus minutes", err)
	}
	return &GlobalStats{
		TotalActiveUsers:    active,
		TotalFocusMinutes:   total,
		AverageFocusMinutes: average,
	}, nil
}

// InvalidateUser drops every cached period for the user. Exposed for
// callers that mutate the aggregate outside this service.
func (a *Aggregator) InvalidateUser(ctx context.Context, userID string) {
	a.invalidate(ctx, userID)
}

func (a *Aggregator) invalidate(ctx context.Context, userID string) {
	if a.cache == nil {
		return
	}
	if err := a.cache.InvalidateUser(ctx, userID); err != nil {
		a.log.Warn("stats cache invalidation failed", logger.UserID(userID), logger.Err(err))
	}
}

// computeAllTime serves the all-time view straight from the aggregate with
// no history scan.
func (a *Aggregator) computeAllTime(ctx context.Context, userID string) (*PeriodStats, error) {
	s, err := a.repo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, shared.WrapError("stats", "Compute", shared.ErrExternalService, "failed to load user stats", err)
	}

	result := &PeriodStats{
		UserID:               userID,
		Period:               PeriodAllTime,
		TotalFocusMinutes:    s.TotalFocusMinutes,
		SessionsCompleted:    s.TotalSessionsCompleted,
		SessionsInterrupted:  s.TotalSessionsInterrupted,
		SessionsTotal:        s.TotalSessions(),
		CompletionRate:       s.CompletionRate(),
		TasksCompleted:       s.TotalTasksCompleted,
		CurrentStreak:        s.CurrentStreak,
		BestStreak:           s.BestStreak,
		Level:                s.Level,
		CurrentXP:            s.CurrentXP,
		AchievementsUnlocked: s.AchievementsCount,
	}

	// Average per day since the user's first session.
	first, err := a.sessions.FirstSessionDate(ctx, userID)
	if err == nil {
		days := timeutil.DaysSince(first) + 1
		if days > 0 {
			result.AverageFocusPerDay = s.TotalFocusMinutes / days
		}
	} else if !shared.IsNotFound(err) {
		a.log.Warn("failed to read first session date", logger.UserID(userID), logger.Err(err))
	}

	return result, nil
}

// computePeriod builds the bounded-period view from session and task
// history queries.
func (a *Aggregator) computePeriod(ctx context.Context, userID string, period Period) (*PeriodStats, error) {
	s, err := a.repo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, shared.WrapError("stats", "Compute", shared.ErrExternalService, "failed to load user stats", err)
	}

	start, end := period.Range()

	completed, err := a.sessions.CountCompleted(ctx, userID, start, end)
	if err != nil {
		return nil, shared.WrapError("stats", "Compute", shared.ErrExternalService, "failed to count sessions", err)
	}
	interrupted, err := a.sessions.CountInterrupted(ctx, userID, start, end)
	if err != nil {
		return nil, shared.WrapError("stats", "Compute", shared.ErrExternalService, "failed to count interruptions", err)
	}
	minutes, err := a.sessions.SumFocusMinutes(ctx, userID, start, end)
	if err != nil {
		return nil, shared.WrapError("stats", "Compute", shared.ErrExternalService, "failed to sum focus minutes", err)
	}
	tasks, err := a.tasks.CountCompleted(ctx, userID, start, end)
	if err != nil {
		return nil, shared.WrapError("stats", "Compute", shared.ErrExternalService, "failed to count tasks", err)
	}

	morning, err := a.sessions.CountByHourRange(ctx, userID, start, end, 0, timeutil.MorningEndHour)
	if err != nil {
		return nil, shared.WrapError("stats", "Compute", shared.ErrExternalService, "failed to count morning sessions", err)
	}
	afternoon, err := a.sessions.CountByHourRange(ctx, userID, start, end, timeutil.MorningEndHour, timeutil.AfternoonEndHour)
	if err != nil {
		return nil, shared.WrapError("stats", "Compute", shared.ErrExternalService, "failed to count afternoon sessions", err)
	}
	evening, err := a.sessions.CountByHourRange(ctx, userID, start, end, timeutil.AfternoonEndHour, 24)
	if err != nil {
		return nil, shared.WrapError("stats", "Compute", shared.ErrExternalService, "failed to count evening sessions", err)
	}

	perDay, err := a.sessions.SessionsPerDay(ctx, userID, start, end)
	if err != nil {
		return nil, shared.WrapError("stats", "Compute", shared.ErrExternalService, "failed to group sessions by day", err)
	}
	minutesPerDay, err := a.sessions.MinutesPerDay(ctx, userID, start, end)
	if err != nil {
		return nil, shared.WrapError("stats", "Compute", shared.ErrExternalService, "failed to group minutes by day", err)
	}

	prevStart, prevEnd := period.PreviousRange()
	previousMinutes, err := a.sessions.SumFocusMinutes(ctx, userID, prevStart, prevEnd)
	if err != nil {
		return nil, shared.WrapError("stats", "Compute", shared.ErrExternalService, "failed to sum previous period", err)
	}

	dayCount := period.DayCount()
	avgPerDay := 0
	if dayCount > 0 {
		avgPerDay = minutes / dayCount
	}

	trend := Trend(previousMinutes, minutes)

	result := &PeriodStats{
		UserID:               userID,
		Period:               period,
		TotalFocusMinutes:    minutes,
		AverageFocusPerDay:   avgPerDay,
		SessionsCompleted:    completed,
		SessionsInterrupted:  interrupted,
		SessionsTotal:        completed + interrupted,
		CompletionRate:       CompletionRate(completed, interrupted),
		TasksCompleted:       tasks,
		CurrentStreak:        s.CurrentStreak,
		BestStreak:           s.BestStreak,
		TrendPercentage:      trend,
		IsImproving:          trend > 0,
		DailyBreakdown:       buildDailyBreakdown(period.StartDate(), dayCount, perDay),
		DailyFocusMinutes:    buildDailyMap(minutesPerDay),
		MorningSessions:      morning,
		AfternoonSessions:    afternoon,
		EveningSessions:      evening,
		Level:                s.Level,
		CurrentXP:            s.CurrentXP,
		AchievementsUnlocked: s.AchievementsCount,
	}

	result.MostProductiveDay, result.MostProductiveDayMinutes = mostProductiveDay(minutesPerDay)
	return result, nil
}

// buildDailyBreakdown maps grouped counts onto one bucket per calendar day,
// capped at 30 buckets.
func buildDailyBreakdown(start time.Time, dayCount int, counts []DailyCount) []int {
	if dayCount > 30 {
		dayCount = 30
	}
	byDate := make(map[time.Time]int, len(counts))
	for _, c := range counts {
		byDate[timeutil.DateOf(c.Date)] = c.Count
	}

	breakdown := make([]int, dayCount)
	for i := range breakdown {
		breakdown[i] = byDate[timeutil.DateOf(start.AddDate(0, 0, i))]
	}
	return breakdown
}

func buildDailyMap(minutes []DailyCount) map[time.Time]int {
	m := make(map[time.Time]int, len(minutes))
	for _, c := range minutes {
		m[timeutil.DateOf(c.Date)] = c.Count
	}
	return m
}

func mostProductiveDay(minutes []DailyCount) (*time.Time, int) {
	var best *time.Time
	bestMinutes := 0
	for _, c := range minutes {
		if best == nil || c.Count > bestMinutes {
			d := timeutil.DateOf(c.Date)
			best = &d
			bestMinutes = c.Count
		}
	}
	return best, bestMinutes
}
