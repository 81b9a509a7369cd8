// Package main is the entry point for the FocusHub background worker.
//
// The worker owns the periodic maintenance of the gamification core:
// - Hourly leaderboard rebuilds
// - Hourly streak sweeps for lapsed users
// - Nightly stats reaggregation from raw activity history
// - Weekly cache cleanup
//
// It also hosts the synchronous event pipeline, so streak resets detected
// by the sweep still fan out to achievements and leaderboards the same way
// live activity does.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/focushub/focushub/config"
	"github.com/focushub/focushub/internal/application/eventhandler"
	"github.com/focushub/focushub/internal/domain/achievement"
	"github.com/focushub/focushub/internal/domain/leaderboard"
	"github.com/focushub/focushub/internal/domain/notification"
	"github.com/focushub/focushub/internal/domain/shared"
	"github.com/focushub/focushub/internal/domain/stats"
	"github.com/focushub/focushub/internal/domain/xp"
	"github.com/focushub/focushub/internal/infrastructure/messaging"
	"github.com/focushub/focushub/internal/infrastructure/notify"
	"github.com/focushub/focushub/internal/infrastructure/persistence/postgres"
	"github.com/focushub/focushub/internal/infrastructure/persistence/redis"
	"github.com/focushub/focushub/internal/infrastructure/scheduler"
	"github.com/focushub/focushub/internal/infrastructure/scheduler/jobs"
	"github.com/focushub/focushub/pkg/logger"
	"github.com/focushub/focushub/pkg/retry"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. CONFIGURATION
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// All calendar-day math (pkg/timeutil) runs in the process-local zone.
	// Align it with the configured zone, which is also pinned as the
	// database session time zone, so SQL date/hour bucketing and Go-side
	// streak math agree.
	time.Local = cfg.App.Location

	// ─────────────────────────────────────────────────────────────────────────
	// 2. LOGGING
	// ─────────────────────────────────────────────────────────────────────────
	// Domain and application code log through pkg/logger; infrastructure
	// components (scheduler, event bus) take an slog.Logger.
	appLog := logger.New(logger.Options{
		Level:     logger.ParseLevel(cfg.Observability.LogLevel),
		AddCaller: cfg.Observability.LogCaller,
	})
	infraLog := setupSlog(cfg)

	appLog.Info("starting FocusHub worker",
		logger.String("env", string(cfg.App.Environment)),
		logger.String("version", cfg.App.Version),
		logger.String("timezone", cfg.App.Timezone),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. POSTGRESQL
	// ─────────────────────────────────────────────────────────────────────────
	appLog.Info("connecting to database")

	var dbConn *postgres.Connection
	connect := func(ctx context.Context) error {
		var cerr error
		if cfg.Database.URL != "" {
			dbConn, cerr = postgres.NewConnectionFromURL(ctx, cfg.Database.URL, cfg.App.Timezone)
		} else {
			dbConn, cerr = postgres.NewConnection(ctx, postgresConfig(cfg))
		}
		return cerr
	}
	if err := retry.ConnectRetrier().Do(ctx, connect); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		appLog.Info("closing database connection")
		dbConn.Close()
	}()

	if err := dbConn.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	if cfg.Database.Migrate {
		appLog.Info("running database migrations")
		migrator := postgres.NewMigrator(dbConn)
		if err := migrator.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 4. REDIS
	// ─────────────────────────────────────────────────────────────────────────
	appLog.Info("connecting to Redis")

	var cache *redis.Cache
	if err := retry.ConnectRetrier().Do(ctx, func(ctx context.Context) error {
		var cerr error
		cache, cerr = redis.NewCache(redisConfig(cfg))
		return cerr
	}); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	defer func() {
		appLog.Info("closing Redis connection")
		_ = cache.Close()
	}()

	leaderboardCache := redis.NewLeaderboardCache(cache)
	statsCache := redis.NewStatsCache(cache)

	// ─────────────────────────────────────────────────────────────────────────
	// 5. REPOSITORIES
	// ─────────────────────────────────────────────────────────────────────────
	statsRepo := postgres.NewStatsRepository(dbConn)
	xpRepo := postgres.NewXPTransactionRepository(dbConn)
	achievementRepo := postgres.NewAchievementRepository(dbConn)
	unlockRepo := postgres.NewUnlockRepository(dbConn)
	sessionRepo := postgres.NewSessionRepository(dbConn)
	taskRepo := postgres.NewTaskRepository(dbConn)

	// ─────────────────────────────────────────────────────────────────────────
	// 6. EVENT BUS
	// ─────────────────────────────────────────────────────────────────────────
	// Synchronous mode: handler registration order below is the fanout
	// order, so stats are current before achievements are evaluated and
	// leaderboards refresh last.
	busConfig := messaging.DefaultInMemoryEventBusConfig()
	busConfig.Logger = infraLog
	bus := messaging.NewInMemoryEventBus(busConfig)
	defer func() {
		appLog.Info("closing event bus")
		_ = bus.Close()
	}()

	// ─────────────────────────────────────────────────────────────────────────
	// 7. DOMAIN SERVICES
	// ─────────────────────────────────────────────────────────────────────────
	aggregator := stats.NewAggregator(statsRepo, sessionRepo, taskRepo, statsCache, bus, appLog)
	ledger := xp.NewLedger(statsRepo, xpRepo, bus, appLog)
	leaderboards := leaderboard.NewService(leaderboardCache, statsRepo, appLog)

	var notifier notification.Notifier = notify.NewLogNotifier(appLog)
	if cfg.Notification.Enabled {
		notifier = notify.NewBreakerNotifier(notifier, appLog)
	}

	engine := achievement.NewEngine(achievementRepo, unlockRepo, statsRepo, sessionRepo, ledger, notifier, bus, appLog)

	// ─────────────────────────────────────────────────────────────────────────
	// 8. EVENT PIPELINE
	// ─────────────────────────────────────────────────────────────────────────
	if err := subscribeHandlers(bus, ledger, engine, leaderboards, notifier, appLog); err != nil {
		return fmt.Errorf("failed to wire event pipeline: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 9. SCHEDULER
	// The one-shot registry is not constructed here: like the command and
	// query handlers, it belongs to the front-end that schedules
	// session-completion callbacks.
	// ─────────────────────────────────────────────────────────────────────────
	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		sched = scheduler.NewScheduler(scheduler.SchedulerConfig{
			Logger:        infraLog,
			Timezone:      cfg.App.Location,
			EnableMetrics: true,
		})

		if err := registerJobs(sched, cfg, aggregator, statsRepo, leaderboards, statsCache, infraLog); err != nil {
			return fmt.Errorf("failed to register jobs: %w", err)
		}

		if err := sched.Start(ctx); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
		defer func() {
			appLog.Info("stopping scheduler")
			_ = sched.Stop()
		}()
	} else {
		appLog.Warn("scheduler disabled, maintenance jobs will not run")
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 10. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	appLog.Info("FocusHub worker is running")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	select {
	case sig := <-sigCh:
		appLog.Info("received shutdown signal", logger.String("signal", sig.String()))
	case <-ctx.Done():
		appLog.Info("context cancelled")
	}

	appLog.Info("starting graceful shutdown",
		logger.String("timeout", cfg.App.ShutdownTimeout.String()),
	)
	return nil
}

// subscribeHandlers wires the event fanout. Order matters for each event
// type: XP grants run before achievement evaluation, and leaderboard
// refreshes run last so they read post-grant stats.
func subscribeHandlers(
	bus *messaging.InMemoryEventBus,
	ledger *xp.Ledger,
	engine *achievement.Engine,
	leaderboards *leaderboard.Service,
	notifier notification.Notifier,
	log *logger.Logger,
) error {
	onSession := eventhandler.NewOnSessionCompletedHandler(ledger, log)
	onTask := eventhandler.NewOnTaskCompletedHandler(ledger, log)
	onStreak := eventhandler.NewOnStreakUpdatedHandler(ledger, log)
	onLevelUp := eventhandler.NewOnLevelUpHandler(notifier, log)
	checkAchievements := eventhandler.NewCheckAchievementsHandler(engine, log)
	refreshLeaderboards := eventhandler.NewRefreshLeaderboardsHandler(leaderboards, log)

	subscriptions := []struct {
		eventType shared.EventType
		handler   shared.EventHandler
	}{
		{shared.EventSessionCompleted, onSession.Handle},
		{shared.EventSessionCompleted, checkAchievements.Handle},
		{shared.EventSessionCompleted, refreshLeaderboards.Handle},

		{shared.EventSessionInterrupted, refreshLeaderboards.Handle},

		{shared.EventTaskCompleted, onTask.Handle},
		{shared.EventTaskCompleted, checkAchievements.Handle},
		{shared.EventTaskCompleted, refreshLeaderboards.Handle},

		{shared.EventStreakUpdated, onStreak.Handle},
		{shared.EventStreakUpdated, checkAchievements.Handle},

		{shared.EventStreakBroken, checkAchievements.Handle},

		// Grants that cross a level boundary are published as level_up
		// instead of xp_gained. Achievement evaluation deliberately does
		// not subscribe to either: unlock rewards must not trigger a
		// nested check pass.
		{shared.EventLevelUp, onLevelUp.Handle},

		{shared.EventAchievementUnlocked, refreshLeaderboards.Handle},
	}

	for _, sub := range subscriptions {
		if err := bus.Subscribe(sub.eventType, sub.handler); err != nil {
			return err
		}
	}

	return nil
}

// registerJobs registers the four maintenance jobs with their cron schedules.
func registerJobs(
	sched *scheduler.Scheduler,
	cfg *config.Config,
	aggregator *stats.Aggregator,
	statsRepo stats.Repository,
	leaderboards *leaderboard.Service,
	statsCache *redis.StatsCache,
	log *slog.Logger,
) error {
	entries := []struct {
		job  scheduler.Job
		cron string
	}{
		{jobs.NewRebuildLeaderboardsJob(leaderboards, log), cfg.Scheduler.RebuildLeaderboardsCron},
		{jobs.NewStreakSweepJob(aggregator, log), cfg.Scheduler.StreakSweepCron},
		{jobs.NewAggregateStatsJob(aggregator, statsRepo, log), cfg.Scheduler.AggregateStatsCron},
		{jobs.NewWeeklyCleanupJob(statsCache, leaderboards, log), cfg.Scheduler.WeeklyCleanupCron},
	}

	for _, e := range entries {
		schedule, err := scheduler.ParseCronExpression(e.cron)
		if err != nil {
			return fmt.Errorf("job %s: invalid cron %q: %w", e.job.Name(), e.cron, err)
		}
		if err := sched.Register(e.job, schedule); err != nil {
			return fmt.Errorf("job %s: %w", e.job.Name(), err)
		}
	}

	return nil
}

// postgresConfig maps the loaded configuration onto the connection settings.
func postgresConfig(cfg *config.Config) postgres.Config {
	pc := postgres.DefaultConfig()
	pc.Host = cfg.Database.Host
	pc.Port = cfg.Database.Port
	pc.Database = cfg.Database.Name
	pc.User = cfg.Database.User
	pc.Password = cfg.Database.Password
	pc.SSLMode = cfg.Database.SSLMode
	pc.MaxConns = int32(cfg.Database.MaxConns)
	pc.MinConns = int32(cfg.Database.MinConns)
	pc.MaxConnLifetime = cfg.Database.ConnMaxLifetime
	pc.MaxConnIdleTime = cfg.Database.ConnMaxIdleTime
	pc.Timezone = cfg.App.Timezone
	return pc
}

// redisConfig maps the loaded configuration onto the cache settings.
func redisConfig(cfg *config.Config) redis.Config {
	rc := redis.DefaultConfig()
	rc.Host = cfg.Redis.Host
	rc.Port = cfg.Redis.Port
	rc.Password = cfg.Redis.Password
	rc.DB = cfg.Redis.DB
	rc.PoolSize = cfg.Redis.PoolSize
	rc.MinIdleConns = cfg.Redis.MinIdleConns
	rc.DialTimeout = cfg.Redis.DialTimeout
	rc.ReadTimeout = cfg.Redis.ReadTimeout
	rc.WriteTimeout = cfg.Redis.WriteTimeout
	return rc
}

// setupSlog builds the slog logger the infrastructure components use.
func setupSlog(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if cfg.App.Debug {
		opts.Level = slog.LevelDebug
	}

	var handler slog.Handler
	if cfg.Observability.LogFormat == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	log := slog.New(handler)
	slog.SetDefault(log)

	return log
}
