package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/focushub/focushub/internal/domain/achievement"
	"github.com/focushub/focushub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ACHIEVEMENT DEFINITION REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// AchievementRepository implements achievement.DefinitionRepository for
// PostgreSQL. The catalogue is seeded by migration and read-only at runtime.
type AchievementRepository struct {
	conn *Connection
}

// NewAchievementRepository creates a new AchievementRepository.
func NewAchievementRepository(conn *Connection) *AchievementRepository {
	return &AchievementRepository{conn: conn}
}

const achievementColumns = `
	id, code, name, description, icon, requirement_type, requirement_value,
	rarity, xp_reward, is_secret, hint, display_order, is_enabled, created_at
`

// GetEnabled returns enabled definitions in display order.
func (r *AchievementRepository) GetEnabled(ctx context.Context) ([]*achievement.Definition, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM achievements
		WHERE is_enabled
		ORDER BY display_order ASC
	`, achievementColumns)

	rows, err := r.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query achievements: %w", err)
	}
	defer rows.Close()

	var defs []*achievement.Definition
	for rows.Next() {
		def, err := scanDefinition(rows)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, rows.Err()
}

// GetByCode returns one definition, or shared.ErrNotFound.
func (r *AchievementRepository) GetByCode(ctx context.Context, code string) (*achievement.Definition, error) {
	query := fmt.Sprintf(`SELECT %s FROM achievements WHERE code = $1`, achievementColumns)

	def, err := scanDefinition(r.conn.QueryRow(ctx, query, code))
	if err != nil {
		return nil, err
	}
	return def, nil
}

// CountEnabled returns the number of enabled definitions.
func (r *AchievementRepository) CountEnabled(ctx context.Context) (int, error) {
	var count int
	err := r.conn.QueryRow(ctx, `SELECT COUNT(*) FROM achievements WHERE is_enabled`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count achievements: %w", err)
	}
	return count, nil
}

func scanDefinition(row pgx.Row) (*achievement.Definition, error) {
	var d achievement.Definition
	var requirementType, rarity string

	err := row.Scan(
		&d.ID,
		&d.Code,
		&d.Name,
		&d.Description,
		&d.Icon,
		&requirementType,
		&d.RequirementValue,
		&rarity,
		&d.XPReward,
		&d.IsSecret,
		&d.Hint,
		&d.DisplayOrder,
		&d.IsEnabled,
		&d.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrAchievementNotFound
		}
		return nil, fmt.Errorf("failed to scan achievement: %w", err)
	}

	d.RequirementType = achievement.RequirementType(requirementType)
	d.Rarity = achievement.Rarity(rarity)
	return &d, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// UNLOCK REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// UnlockRepository implements achievement.UnlockRepository for PostgreSQL.
// The (user_id, achievement_code) unique constraint is the concurrency
// guard: a lost race surfaces as shared.ErrAlreadyExists.
type UnlockRepository struct {
	conn *Connection
}

// NewUnlockRepository creates a new UnlockRepository.
func NewUnlockRepository(conn *Connection) *UnlockRepository {
	return &UnlockRepository{conn: conn}
}

// Create inserts an unlock record.
func (r *UnlockRepository) Create(ctx context.Context, u *achievement.Unlock) error {
	query := `
		INSERT INTO user_achievements (id, user_id, achievement_code, unlocked_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.conn.Exec(ctx, query, u.ID, u.UserID, u.Code, u.UnlockedAt)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrAlreadyUnlocked
		}
		return fmt.Errorf("failed to insert unlock: %w", err)
	}
	return nil
}

// Exists reports whether the user already holds the achievement.
func (r *UnlockRepository) Exists(ctx context.Context, userID, code string) (bool, error) {
	var exists bool
	err := r.conn.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM user_achievements
			WHERE user_id = $1 AND achievement_code = $2
		)
	`, userID, code).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check unlock existence: %w", err)
	}
	return exists, nil
}

// GetByUserID returns the user's unlocks, newest first.
func (r *UnlockRepository) GetByUserID(ctx context.Context, userID string) ([]*achievement.Unlock, error) {
	query := `
		SELECT id, user_id, achievement_code, unlocked_at
		FROM user_achievements
		WHERE user_id = $1
		ORDER BY unlocked_at DESC
	`

	rows, err := r.conn.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query unlocks: %w", err)
	}
	defer rows.Close()

	var unlocks []*achievement.Unlock
	for rows.Next() {
		var u achievement.Unlock
		if err := rows.Scan(&u.ID, &u.UserID, &u.Code, &u.UnlockedAt); err != nil {
			return nil, fmt.Errorf("failed to scan unlock: %w", err)
		}
		unlocks = append(unlocks, &u)
	}
	return unlocks, rows.Err()
}

// CountByUserID returns how many achievements the user holds.
func (r *UnlockRepository) CountByUserID(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.conn.QueryRow(ctx,
		`SELECT COUNT(*) FROM user_achievements WHERE user_id = $1`,
		userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count unlocks: %w", err)
	}
	return count, nil
}
