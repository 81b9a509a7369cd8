package command

import (
	"context"
	"errors"

	"github.com/focushub/focushub/internal/domain/shared"
	"github.com/focushub/focushub/internal/domain/xp"
	"github.com/focushub/focushub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// GRANT XP COMMAND
// Manual XP grant, used by moderation tooling. Runs under the same per-user
// lock as the activity pipeline so concurrent grants never interleave.
// ══════════════════════════════════════════════════════════════════════════════

// GrantXPCommand contains the data of a manual grant.
type GrantXPCommand struct {
	// UserID is the user receiving the grant.
	UserID string

	// Amount is the XP amount. Zero is allowed and still recorded.
	Amount int

	// Reason is attached to the ledger row as the reference.
	Reason string
}

// Validate validates the command.
func (c GrantXPCommand) Validate() error {
	if c.UserID == "" {
		return errors.New("grant_xp: user_id is required")
	}
	if c.Amount < 0 {
		return shared.ErrNegativeXP
	}
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// GrantXPHandler handles the GrantXPCommand.
type GrantXPHandler struct {
	ledger *xp.Ledger
	locks  *shared.KeyedMutex
	log    *logger.Logger
}

// NewGrantXPHandler creates a new GrantXPHandler.
func NewGrantXPHandler(ledger *xp.Ledger, locks *shared.KeyedMutex, log *logger.Logger) *GrantXPHandler {
	return &GrantXPHandler{
		ledger: ledger,
		locks:  locks,
		log:    log.With(logger.Component("grant_xp")),
	}
}

// Handle executes the grant.
func (h *GrantXPHandler) Handle(ctx context.Context, cmd GrantXPCommand) (*xp.GrantResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	unlock := h.locks.Lock(cmd.UserID)
	defer unlock()

	result, err := h.ledger.GrantXPAmount(ctx, cmd.UserID, xp.SourceManualGrant, cmd.Amount, cmd.Reason)
	if err != nil {
		return nil, err
	}

	h.log.Info("manual xp granted",
		logger.UserID(cmd.UserID),
		logger.XPAmount(cmd.Amount),
		logger.String("reason", cmd.Reason),
	)

	return result, nil
}
