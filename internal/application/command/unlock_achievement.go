package command

import (
	"context"
	"fmt"

	"github.com/gyaan-arena/arena-hub/internal/domain/achievement"
	"github.com/gyaan-arena/arena-hub/internal/domain/profile"
	"github.com/gyaan-arena/arena-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// UNLOCK ACHIEVEMENT COMMAND
// The explicit unlock entry point for badges whose predicates are not
// wired into the score check: streak milestones, polyglot, sharing.
// ══════════════════════════════════════════════════════════════════════════════

// UnlockAchievementCommand names the achievement to unlock.
type UnlockAchievementCommand struct {
	// ID is the catalog identifier, e.g. "streak_3" or "sharing_is_caring".
	ID string
}

// Validate validates the command.
func (c UnlockAchievementCommand) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("unlock_achievement: %w: id is required", shared.ErrInvalidInput)
	}
	if _, ok := achievement.Lookup(c.ID); !ok {
		return fmt.Errorf("unlock_achievement: %w: %s", shared.ErrUnknownAchievement, c.ID)
	}
	return nil
}

// UnlockAchievementResult contains the unlock outcome.
type UnlockAchievementResult struct {
	// Achievement is the catalog entry that was requested.
	Achievement achievement.Definition

	// Fresh reports whether this call actually unlocked it
	// (false when it was already unlocked).
	Fresh bool
}

// UnlockAchievementHandler handles the UnlockAchievementCommand.
type UnlockAchievementHandler struct {
	achievementRepo achievement.Repository
	profileRepo     profile.Repository
	eventPublisher  shared.EventPublisher
}

// NewUnlockAchievementHandler creates a new UnlockAchievementHandler.
func NewUnlockAchievementHandler(
	achievementRepo achievement.Repository,
	profileRepo profile.Repository,
	eventPublisher shared.EventPublisher,
) *UnlockAchievementHandler {
	return &UnlockAchievementHandler{
		achievementRepo: achievementRepo,
		profileRepo:     profileRepo,
		eventPublisher:  eventPublisher,
	}
}

// Handle executes the unlock achievement command.
func (h *UnlockAchievementHandler) Handle(ctx context.Context, cmd UnlockAchievementCommand) (*UnlockAchievementResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("unlock_achievement: validation failed: %w", err)
	}

	state, err := h.achievementRepo.Load(ctx)
	if err != nil {
		if !shared.IsNotFound(err) {
			return nil, fmt.Errorf("unlock_achievement: failed to load achievements: %w", err)
		}
		state = achievement.NewState()
	}

	def, fresh, err := state.Unlock(cmd.ID)
	if err != nil {
		return nil, fmt.Errorf("unlock_achievement: %w", err)
	}

	if !fresh {
		return &UnlockAchievementResult{Achievement: def, Fresh: false}, nil
	}

	if err := h.achievementRepo.Save(ctx, state); err != nil {
		return nil, fmt.Errorf("unlock_achievement: failed to save achievements: %w", err)
	}

	if h.profileRepo != nil {
		if prof, loadErr := h.profileRepo.Load(ctx); loadErr == nil {
			prof.AddAchievement(def.ID)
			_ = h.profileRepo.Save(ctx, prof)
		}
	}

	if h.eventPublisher != nil {
		_ = h.eventPublisher.Publish(shared.NewAchievementUnlockedEvent(def.ID, def.Name, def.Points))
	}

	return &UnlockAchievementResult{Achievement: def, Fresh: true}, nil
}
