package command

import (
	"context"
	"fmt"
	"time"

	"github.com/gyaan-arena/arena-hub/internal/domain/leaderboard"
	"github.com/gyaan-arena/arena-hub/internal/domain/profile"
	"github.com/gyaan-arena/arena-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// SUBMIT SCORE COMMAND
// Submits a subject score to the leaderboard under the current profile's
// name. The overall and weekly boards are refreshed as side effects.
// ══════════════════════════════════════════════════════════════════════════════

// SubmitScoreCommand contains a score submission for a subject board.
type SubmitScoreCommand struct {
	// Category is the subject board: math, science or coding.
	Category string

	// Score is the submitted score.
	Score float64

	// Timestamp is when the score was achieved (defaults to now if zero).
	Timestamp time.Time
}

// Validate validates the command.
func (c SubmitScoreCommand) Validate() error {
	if c.Category == "" {
		return fmt.Errorf("submit_score: %w: category is required", shared.ErrInvalidInput)
	}
	category, err := shared.NewCategory(c.Category)
	if err != nil {
		return fmt.Errorf("submit_score: %w", err)
	}
	if !category.IsSubjectBoard() {
		return fmt.Errorf("submit_score: %w: scores go to subject boards only", shared.ErrInvalidCategory)
	}
	return nil
}

// SubmitScoreResult contains the outcome of a submission.
type SubmitScoreResult struct {
	// Accepted reports whether the subject board took the score
	// (false when a strictly higher score was already stored).
	Accepted bool

	// Username is the profile name the score was filed under.
	Username string

	// SubjectRank is the player's 1-based rank on the subject board (0 = unranked).
	SubjectRank int

	// OverallRank is the player's 1-based rank on the overall board (0 = unranked).
	OverallRank int
}

// SubmitScoreHandler handles the SubmitScoreCommand.
type SubmitScoreHandler struct {
	leaderboardRepo leaderboard.Repository
	profileRepo     profile.Repository
	eventPublisher  shared.EventPublisher
}

// NewSubmitScoreHandler creates a new SubmitScoreHandler.
func NewSubmitScoreHandler(
	leaderboardRepo leaderboard.Repository,
	profileRepo profile.Repository,
	eventPublisher shared.EventPublisher,
) *SubmitScoreHandler {
	return &SubmitScoreHandler{
		leaderboardRepo: leaderboardRepo,
		profileRepo:     profileRepo,
		eventPublisher:  eventPublisher,
	}
}

// Handle executes the submit score command.
func (h *SubmitScoreHandler) Handle(ctx context.Context, cmd SubmitScoreCommand) (*SubmitScoreResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("submit_score: validation failed: %w", err)
	}

	category, err := shared.NewCategory(cmd.Category)
	if err != nil {
		return nil, fmt.Errorf("submit_score: %w", err)
	}

	now := cmd.Timestamp
	if now.IsZero() {
		now = time.Now()
	}

	prof, err := h.profileRepo.Load(ctx)
	if err != nil {
		if !shared.IsNotFound(err) {
			return nil, fmt.Errorf("submit_score: failed to load profile: %w", err)
		}
		prof = profile.New(now)
	}

	state, err := h.leaderboardRepo.Load(ctx)
	if err != nil {
		if !shared.IsNotFound(err) {
			return nil, fmt.Errorf("submit_score: failed to load leaderboard: %w", err)
		}
		state = leaderboard.NewState()
	}

	res, err := state.Submit(category, cmd.Score, prof.Username, prof.Level, prof.TotalPoints, now)
	if err != nil {
		return nil, fmt.Errorf("submit_score: %w", err)
	}

	if err := h.leaderboardRepo.Save(ctx, state); err != nil {
		return nil, fmt.Errorf("submit_score: failed to save leaderboard: %w", err)
	}

	if h.eventPublisher != nil {
		_ = h.eventPublisher.Publish(shared.NewScoreSubmittedEvent(
			category.String(), prof.Username, cmd.Score, res.Accepted,
		))

		entries, rankErr := state.Ranked(category)
		if rankErr == nil {
			_ = h.eventPublisher.Publish(shared.NewLeaderboardUpdatedEvent(category.String(), len(entries)))
		}
	}

	return &SubmitScoreResult{
		Accepted:    res.Accepted,
		Username:    prof.Username,
		SubjectRank: res.SubjectRank,
		OverallRank: res.OverallRank,
	}, nil
}
