package achievement

import "context"

// DefinitionRepository reads the static achievement catalogue.
type DefinitionRepository interface {
	// GetEnabled returns enabled definitions in display order.
	GetEnabled(ctx context.Context) ([]*Definition, error)

	// GetByCode returns one definition, or shared.ErrNotFound.
	GetByCode(ctx context.Context, code string) (*Definition, error)

	// CountEnabled returns the number of enabled definitions.
	CountEnabled(ctx context.Context) (int, error)
}

// UnlockRepository persists per-user unlock records.
type UnlockRepository interface {
	// Create inserts an unlock record. Returns shared.ErrAlreadyExists
	// when the (user, code) pair already holds one.
	Create(ctx context.Context, u *Unlock) error

	// Exists reports whether the user already holds the achievement.
	Exists(ctx context.Context, userID, code string) (bool, error)

	// GetByUserID returns the user's unlocks, newest first.
	GetByUserID(ctx context.Context, userID string) ([]*Unlock, error)

	// CountByUserID returns how many achievements the user holds.
	CountByUserID(ctx context.Context, userID string) (int, error)
}
