package postgres

import (
	"context"
	"fmt"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// TASK HISTORY REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// TaskRepository implements stats.TaskHistory for PostgreSQL and owns the
// completed-task row writes.
type TaskRepository struct {
	conn *Connection
}

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(conn *Connection) *TaskRepository {
	return &TaskRepository{conn: conn}
}

// InsertCompleted stores one completed task and returns its id.
func (r *TaskRepository) InsertCompleted(ctx context.Context, userID, guildID, title string, completedAt time.Time) (int64, error) {
	query := `
		INSERT INTO tasks (user_id, guild_id, title, completed, completed_at)
		VALUES ($1, $2, $3, TRUE, $4)
		RETURNING id
	`

	var guild *string
	if guildID != "" {
		guild = &guildID
	}

	var id int64
	err := r.conn.QueryRow(ctx, query, userID, guild, title, completedAt).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert task: %w", err)
	}
	return id, nil
}

// CountCompleted returns tasks completed in [start, end).
func (r *TaskRepository) CountCompleted(ctx context.Context, userID string, start, end time.Time) (int, error) {
	var count int
	err := r.conn.QueryRow(ctx, `
		SELECT COUNT(*) FROM tasks
		WHERE user_id = $1 AND completed AND completed_at >= $2 AND completed_at < $3
	`, userID, start, end).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return count, nil
}
