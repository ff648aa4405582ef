package command

import (
	"context"
	"fmt"
	"time"

	"github.com/gyaan-arena/arena-hub/internal/domain/profile"
	"github.com/gyaan-arena/arena-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// RENAME PLAYER COMMAND
// Sets the player's display name. Future leaderboard submissions are
// filed under the new name; existing board entries keep the old one.
// ══════════════════════════════════════════════════════════════════════════════

// RenamePlayerCommand contains the new display name.
type RenamePlayerCommand struct {
	// Username is the new display name.
	Username string
}

// Validate validates the command.
func (c RenamePlayerCommand) Validate() error {
	if c.Username == "" {
		return fmt.Errorf("rename_player: %w: username is required", shared.ErrInvalidInput)
	}
	if _, err := shared.NewPlayerName(c.Username); err != nil {
		return fmt.Errorf("rename_player: %w", err)
	}
	return nil
}

// RenamePlayerResult contains the updated identity fields.
type RenamePlayerResult struct {
	// Username is the stored display name.
	Username string

	// Avatar is the derived one-letter avatar.
	Avatar string
}

// RenamePlayerHandler handles the RenamePlayerCommand.
type RenamePlayerHandler struct {
	profileRepo profile.Repository
}

// NewRenamePlayerHandler creates a new RenamePlayerHandler.
func NewRenamePlayerHandler(profileRepo profile.Repository) *RenamePlayerHandler {
	return &RenamePlayerHandler{profileRepo: profileRepo}
}

// Handle executes the rename player command.
func (h *RenamePlayerHandler) Handle(ctx context.Context, cmd RenamePlayerCommand) (*RenamePlayerResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("rename_player: validation failed: %w", err)
	}

	prof, err := h.profileRepo.Load(ctx)
	if err != nil {
		if !shared.IsNotFound(err) {
			return nil, fmt.Errorf("rename_player: failed to load profile: %w", err)
		}
		prof = profile.New(time.Now())
	}

	if err := prof.Rename(cmd.Username); err != nil {
		return nil, fmt.Errorf("rename_player: %w", err)
	}

	if err := h.profileRepo.Save(ctx, prof); err != nil {
		return nil, fmt.Errorf("rename_player: failed to save profile: %w", err)
	}

	return &RenamePlayerResult{
		Username: prof.Username,
		Avatar:   prof.Avatar,
	}, nil
}
