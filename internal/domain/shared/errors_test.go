package shared

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_Is(t *testing.T) {
	assert.ErrorIs(t, ErrStatsNotFound, ErrNotFound)
	assert.ErrorIs(t, ErrAlreadyUnlocked, ErrAlreadyExists)
	assert.ErrorIs(t, ErrNegativeXP, ErrNegativeValue)
	assert.ErrorIs(t, ErrUnknownRequirement, ErrInvalidInput)
	assert.ErrorIs(t, ErrNotRanked, ErrNotFound)

	assert.NotErrorIs(t, ErrStatsNotFound, ErrAlreadyExists)
}

func TestWrapError_PreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	wrapped := WrapError("stats", "Record", ErrExternalService, "failed to save", cause)

	assert.ErrorIs(t, wrapped, ErrExternalService)
	assert.ErrorIs(t, wrapped, cause)
	assert.Contains(t, wrapped.Error(), "stats.Record")
	assert.Contains(t, wrapped.Error(), "connection refused")
}

func TestIsHelpers(t *testing.T) {
	assert.True(t, IsNotFound(ErrStatsNotFound))
	assert.False(t, IsNotFound(ErrNegativeXP))
	assert.True(t, IsAlreadyExists(ErrAlreadyUnlocked))
}
