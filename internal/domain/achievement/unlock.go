package achievement

import (
	"time"

	"github.com/google/uuid"
)

// Unlock records that a user holds an achievement. At most one row exists
// per (user, code) pair; the repository enforces uniqueness on insert.
type Unlock struct {
	ID         uuid.UUID
	UserID     string
	Code       string
	UnlockedAt time.Time
}

// NewUnlock creates an unlock record stamped with the current time.
func NewUnlock(userID, code string) *Unlock {
	return &Unlock{
		ID:         uuid.New(),
		UserID:     userID,
		Code:       code,
		UnlockedAt: time.Now().UTC(),
	}
}
