package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/focushub/focushub/internal/domain/shared"
	"github.com/focushub/focushub/internal/domain/stats"
)

// ══════════════════════════════════════════════════════════════════════════════
// USER STATS REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// StatsRepository implements stats.Repository for PostgreSQL.
type StatsRepository struct {
	conn *Connection
}

// NewStatsRepository creates a new StatsRepository.
func NewStatsRepository(conn *Connection) *StatsRepository {
	return &StatsRepository{conn: conn}
}

const statsColumns = `
	user_id, total_focus_minutes, total_sessions_completed, total_sessions_interrupted,
	total_tasks_completed, current_streak, best_streak, last_session_date,
	level, current_xp, total_xp_earned, achievements_count, created_at, updated_at
`

// GetByUserID returns the aggregate, or shared.ErrNotFound.
func (r *StatsRepository) GetByUserID(ctx context.Context, userID string) (*stats.UserStats, error) {
	query := fmt.Sprintf(`SELECT %s FROM user_stats WHERE user_id = $1`, statsColumns)

	row := r.conn.QueryRow(ctx, query, userID)
	return r.scanStats(row)
}

// GetOrCreate returns the aggregate, lazily inserting a zero-valued row when
// the user has none. Lost races on the insert fall back to a re-read.
func (r *StatsRepository) GetOrCreate(ctx context.Context, userID string) (*stats.UserStats, error) {
	s, err := r.GetByUserID(ctx, userID)
	if err == nil {
		return s, nil
	}
	if !shared.IsNotFound(err) {
		return nil, err
	}

	fresh := stats.NewUserStats(userID)
	if err := r.insert(ctx, fresh); err != nil {
		if IsUniqueViolation(err) {
			return r.GetByUserID(ctx, userID)
		}
		return nil, err
	}
	return fresh, nil
}

// Save upserts the aggregate.
func (r *StatsRepository) Save(ctx context.Context, s *stats.UserStats) error {
	query := `
		INSERT INTO user_stats (
			user_id, total_focus_minutes, total_sessions_completed, total_sessions_interrupted,
			total_tasks_completed, current_streak, best_streak, last_session_date,
			level, current_xp, total_xp_earned, achievements_count, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			total_focus_minutes = EXCLUDED.total_focus_minutes,
			total_sessions_completed = EXCLUDED.total_sessions_completed,
			total_sessions_interrupted = EXCLUDED.total_sessions_interrupted,
			total_tasks_completed = EXCLUDED.total_tasks_completed,
			current_streak = EXCLUDED.current_streak,
			best_streak = EXCLUDED.best_streak,
			last_session_date = EXCLUDED.last_session_date,
			level = EXCLUDED.level,
			current_xp = EXCLUDED.current_xp,
			total_xp_earned = EXCLUDED.total_xp_earned,
			achievements_count = EXCLUDED.achievements_count,
			updated_at = NOW()
	`

	_, err := r.conn.Exec(ctx, query,
		s.UserID,
		s.TotalFocusMinutes,
		s.TotalSessionsCompleted,
		s.TotalSessionsInterrupted,
		s.TotalTasksCompleted,
		s.CurrentStreak,
		s.BestStreak,
		s.LastSessionDate,
		s.Level,
		s.CurrentXP,
		s.TotalXPEarned,
		s.AchievementsCount,
		s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save user stats: %w", err)
	}
	return nil
}

// GetAll returns every aggregate.
func (r *StatsRepository) GetAll(ctx context.Context) ([]*stats.UserStats, error) {
	query := fmt.Sprintf(`SELECT %s FROM user_stats ORDER BY user_id`, statsColumns)

	rows, err := r.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query user stats: %w", err)
	}
	defer rows.Close()

	var all []*stats.UserStats
	for rows.Next() {
		s, err := r.scanStats(rows)
		if err != nil {
			return nil, err
		}
		all = append(all, s)
	}
	return all, rows.Err()
}

// CountActive returns the number of users with at least one completed session.
func (r *StatsRepository) CountActive(ctx context.Context) (int, error) {
	var count int
	err := r.conn.QueryRow(ctx,
		`SELECT COUNT(*) FROM user_stats WHERE total_sessions_completed > 0`,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count active users: %w", err)
	}
	return count, nil
}

// GlobalFocusMinutes returns the platform-wide total and average focus minutes.
func (r *StatsRepository) GlobalFocusMinutes(ctx context.Context) (int, int, error) {
	var total, average int
	err := r.conn.QueryRow(ctx, `
		SELECT COALESCE(SUM(total_focus_minutes), 0),
		       COALESCE(AVG(total_focus_minutes), 0)::INTEGER
		FROM user_stats
		WHERE total_sessions_completed > 0
	`).Scan(&total, &average)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to sum focus minutes: %w", err)
	}
	return total, average, nil
}

func (r *StatsRepository) insert(ctx context.Context, s *stats.UserStats) error {
	query := `
		INSERT INTO user_stats (
			user_id, total_focus_minutes, total_sessions_completed, total_sessions_interrupted,
			total_tasks_completed, current_streak, best_streak, last_session_date,
			level, current_xp, total_xp_earned, achievements_count, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.conn.Exec(ctx, query,
		s.UserID,
		s.TotalFocusMinutes,
		s.TotalSessionsCompleted,
		s.TotalSessionsInterrupted,
		s.TotalTasksCompleted,
		s.CurrentStreak,
		s.BestStreak,
		s.LastSessionDate,
		s.Level,
		s.CurrentXP,
		s.TotalXPEarned,
		s.AchievementsCount,
		s.CreatedAt,
		s.UpdatedAt,
	)
	return err
}

func (r *StatsRepository) scanStats(row pgx.Row) (*stats.UserStats, error) {
	var s stats.UserStats
	var lastSession *time.Time

	err := row.Scan(
		&s.UserID,
		&s.TotalFocusMinutes,
		&s.TotalSessionsCompleted,
		&s.TotalSessionsInterrupted,
		&s.TotalTasksCompleted,
		&s.CurrentStreak,
		&s.BestStreak,
		&lastSession,
		&s.Level,
		&s.CurrentXP,
		&s.TotalXPEarned,
		&s.AchievementsCount,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrStatsNotFound
		}
		return nil, fmt.Errorf("failed to scan user stats: %w", err)
	}

	s.LastSessionDate = lastSession
	return &s, nil
}
