package command

import (
	"context"
	"fmt"

	"github.com/gyaan-arena/arena-hub/internal/domain/achievement"
	"github.com/gyaan-arena/arena-hub/internal/domain/profile"
	"github.com/gyaan-arena/arena-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// CHECK ACHIEVEMENTS COMMAND
// Runs the wired achievement predicates against a subject score and
// unlocks whatever they yield. Streak, polyglot and sharing badges are
// not checked here; they have explicit unlock triggers.
// ══════════════════════════════════════════════════════════════════════════════

// CheckAchievementsCommand carries the score context to evaluate.
type CheckAchievementsCommand struct {
	// Subject is the subject the score was reached in.
	Subject string

	// Score is the cumulative subject score to test against thresholds.
	Score float64
}

// Validate validates the command.
func (c CheckAchievementsCommand) Validate() error {
	if c.Subject == "" {
		return fmt.Errorf("check_achievements: %w: subject is required", shared.ErrInvalidInput)
	}
	if _, err := shared.NewSubject(c.Subject); err != nil {
		return fmt.Errorf("check_achievements: %w", err)
	}
	return nil
}

// CheckAchievementsResult lists the achievements unlocked by this check.
type CheckAchievementsResult struct {
	// Unlocked holds the freshly unlocked achievements, in unlock order.
	Unlocked []achievement.Definition
}

// CheckAchievementsHandler handles the CheckAchievementsCommand.
type CheckAchievementsHandler struct {
	achievementRepo achievement.Repository
	profileRepo     profile.Repository
	eventPublisher  shared.EventPublisher
}

// NewCheckAchievementsHandler creates a new CheckAchievementsHandler.
func NewCheckAchievementsHandler(
	achievementRepo achievement.Repository,
	profileRepo profile.Repository,
	eventPublisher shared.EventPublisher,
) *CheckAchievementsHandler {
	return &CheckAchievementsHandler{
		achievementRepo: achievementRepo,
		profileRepo:     profileRepo,
		eventPublisher:  eventPublisher,
	}
}

// Handle executes the check achievements command.
func (h *CheckAchievementsHandler) Handle(ctx context.Context, cmd CheckAchievementsCommand) (*CheckAchievementsResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("check_achievements: validation failed: %w", err)
	}

	subject, err := shared.NewSubject(cmd.Subject)
	if err != nil {
		return nil, fmt.Errorf("check_achievements: %w", err)
	}

	state, err := h.achievementRepo.Load(ctx)
	if err != nil {
		if !shared.IsNotFound(err) {
			return nil, fmt.Errorf("check_achievements: failed to load achievements: %w", err)
		}
		state = achievement.NewState()
	}

	unlocked, err := state.Check(subject, cmd.Score)
	if err != nil {
		return nil, fmt.Errorf("check_achievements: %w", err)
	}

	if len(unlocked) == 0 {
		return &CheckAchievementsResult{Unlocked: nil}, nil
	}

	if err := h.achievementRepo.Save(ctx, state); err != nil {
		return nil, fmt.Errorf("check_achievements: failed to save achievements: %w", err)
	}

	h.mirrorToProfile(ctx, unlocked)

	if h.eventPublisher != nil {
		for _, def := range unlocked {
			_ = h.eventPublisher.Publish(shared.NewAchievementUnlockedEvent(def.ID, def.Name, def.Points))
		}
	}

	return &CheckAchievementsResult{Unlocked: unlocked}, nil
}

// mirrorToProfile records unlock IDs on the profile document so the
// profile view lists earned badges without reading achievement state.
// A profile write failure does not undo the unlock.
func (h *CheckAchievementsHandler) mirrorToProfile(ctx context.Context, unlocked []achievement.Definition) {
	if h.profileRepo == nil {
		return
	}

	prof, err := h.profileRepo.Load(ctx)
	if err != nil {
		return
	}
	for _, def := range unlocked {
		prof.AddAchievement(def.ID)
	}
	_ = h.profileRepo.Save(ctx, prof)
}
