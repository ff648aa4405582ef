package command

import (
	"context"
	"fmt"

	"github.com/gyaan-arena/arena-hub/internal/domain/progress"
	"github.com/gyaan-arena/arena-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// RESET PROGRESS COMMAND
// Wipes the progress document. Profile, leaderboard and achievements
// are untouched; the next session write starts from a fresh state.
// ══════════════════════════════════════════════════════════════════════════════

// ResetProgressCommand requests a progress wipe.
type ResetProgressCommand struct {
	// Reason is an optional human-readable reason, carried on the event.
	Reason string
}

// ResetProgressResult confirms the wipe.
type ResetProgressResult struct {
	// Cleared is true when the stored document was removed.
	Cleared bool
}

// ResetProgressHandler handles the ResetProgressCommand.
type ResetProgressHandler struct {
	progressRepo   progress.Repository
	eventPublisher shared.EventPublisher
}

// NewResetProgressHandler creates a new ResetProgressHandler.
func NewResetProgressHandler(
	progressRepo progress.Repository,
	eventPublisher shared.EventPublisher,
) *ResetProgressHandler {
	return &ResetProgressHandler{
		progressRepo:   progressRepo,
		eventPublisher: eventPublisher,
	}
}

// Handle executes the reset progress command.
func (h *ResetProgressHandler) Handle(ctx context.Context, cmd ResetProgressCommand) (*ResetProgressResult, error) {
	if err := h.progressRepo.Clear(ctx); err != nil {
		return nil, fmt.Errorf("reset_progress: failed to clear progress: %w", err)
	}

	if h.eventPublisher != nil {
		_ = h.eventPublisher.Publish(shared.NewProgressResetEvent(cmd.Reason))
	}

	return &ResetProgressResult{Cleared: true}, nil
}
