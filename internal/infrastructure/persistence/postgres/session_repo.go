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
// SESSION HISTORY REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// SessionRepository implements stats.SessionHistory and stats.SessionWriter
// for PostgreSQL.
type SessionRepository struct {
	conn *Connection
}

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(conn *Connection) *SessionRepository {
	return &SessionRepository{conn: conn}
}

// Insert stores one terminal session and returns its id.
func (r *SessionRepository) Insert(ctx context.Context, rec *stats.Session) (int64, error) {
	query := `
		INSERT INTO focus_sessions (
			user_id, guild_id, duration_minutes, started_at, ended_at, completed, interrupted
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	var guildID *string
	if rec.GuildID != "" {
		guildID = &rec.GuildID
	}

	var id int64
	err := r.conn.QueryRow(ctx, query,
		rec.UserID,
		guildID,
		rec.DurationMinutes,
		rec.StartedAt,
		rec.EndedAt,
		rec.Completed,
		rec.Interrupted,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert session: %w", err)
	}
	return id, nil
}

// CountCompleted returns completed sessions in [start, end).
func (r *SessionRepository) CountCompleted(ctx context.Context, userID string, start, end time.Time) (int, error) {
	return r.count(ctx, `
		SELECT COUNT(*) FROM focus_sessions
		WHERE user_id = $1 AND completed AND started_at >= $2 AND started_at < $3
	`, userID, start, end)
}

// CountInterrupted returns interrupted sessions in [start, end).
func (r *SessionRepository) CountInterrupted(ctx context.Context, userID string, start, end time.Time) (int, error) {
	return r.count(ctx, `
		SELECT COUNT(*) FROM focus_sessions
		WHERE user_id = $1 AND interrupted AND started_at >= $2 AND started_at < $3
	`, userID, start, end)
}

// SumFocusMinutes returns completed focus minutes in [start, end).
func (r *SessionRepository) SumFocusMinutes(ctx context.Context, userID string, start, end time.Time) (int, error) {
	var sum int
	err := r.conn.QueryRow(ctx, `
		SELECT COALESCE(SUM(duration_minutes), 0) FROM focus_sessions
		WHERE user_id = $1 AND completed AND started_at >= $2 AND started_at < $3
	`, userID, start, end).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("failed to sum focus minutes: %w", err)
	}
	return sum, nil
}

// CountByHourRange returns completed sessions whose local start hour falls
// in [fromHour, toHour).
func (r *SessionRepository) CountByHourRange(ctx context.Context, userID string, start, end time.Time, fromHour, toHour int) (int, error) {
	var count int
	err := r.conn.QueryRow(ctx, `
		SELECT COUNT(*) FROM focus_sessions
		WHERE user_id = $1 AND completed
		  AND started_at >= $2 AND started_at < $3
		  AND EXTRACT(HOUR FROM started_at) >= $4
		  AND EXTRACT(HOUR FROM started_at) < $5
	`, userID, start, end, fromHour, toHour).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count sessions by hour: %w", err)
	}
	return count, nil
}

// SessionsPerDay groups completed session counts by calendar date.
func (r *SessionRepository) SessionsPerDay(ctx context.Context, userID string, start, end time.Time) ([]stats.DailyCount, error) {
	return r.groupByDay(ctx, `
		SELECT DATE(started_at) AS day, COUNT(*)
		FROM focus_sessions
		WHERE user_id = $1 AND completed AND started_at >= $2 AND started_at < $3
		GROUP BY day
		ORDER BY day
	`, userID, start, end)
}

// MinutesPerDay groups completed focus minutes by calendar date.
func (r *SessionRepository) MinutesPerDay(ctx context.Context, userID string, start, end time.Time) ([]stats.DailyCount, error) {
	return r.groupByDay(ctx, `
		SELECT DATE(started_at) AS day, COALESCE(SUM(duration_minutes), 0)
		FROM focus_sessions
		WHERE user_id = $1 AND completed AND started_at >= $2 AND started_at < $3
		GROUP BY day
		ORDER BY day
	`, userID, start, end)
}

// FirstSessionDate returns the date of the user's earliest session.
func (r *SessionRepository) FirstSessionDate(ctx context.Context, userID string) (time.Time, error) {
	// MIN over zero rows yields NULL, not ErrNoRows.
	var first *time.Time
	err := r.conn.QueryRow(ctx, `
		SELECT MIN(started_at) FROM focus_sessions WHERE user_id = $1
	`, userID).Scan(&first)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return time.Time{}, shared.ErrNotFound
		}
		return time.Time{}, fmt.Errorf("failed to read first session date: %w", err)
	}
	if first == nil {
		return time.Time{}, shared.ErrNotFound
	}
	return *first, nil
}

func (r *SessionRepository) count(ctx context.Context, query string, userID string, start, end time.Time) (int, error) {
	var count int
	err := r.conn.QueryRow(ctx, query, userID, start, end).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}
	return count, nil
}

func (r *SessionRepository) groupByDay(ctx context.Context, query string, userID string, start, end time.Time) ([]stats.DailyCount, error) {
	rows, err := r.conn.Query(ctx, query, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to group sessions by day: %w", err)
	}
	defer rows.Close()

	var counts []stats.DailyCount
	for rows.Next() {
		var c stats.DailyCount
		if err := rows.Scan(&c.Date, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan daily count: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}
