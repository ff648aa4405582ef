package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/gyaan-arena/arena-hub/internal/domain/achievement"
	"github.com/gyaan-arena/arena-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// RECORD LANGUAGE COMMAND
// Counts a UI language switch towards the polyglot badge. The counter
// is only tracked here; the polyglot predicate is not evaluated
// automatically and fires through the explicit unlock trigger.
// ══════════════════════════════════════════════════════════════════════════════

// RecordLanguageCommand names the UI language that was used.
type RecordLanguageCommand struct {
	// Language is the language code, e.g. "en", "hi", "kn".
	Language string
}

// Validate validates the command.
func (c RecordLanguageCommand) Validate() error {
	if c.Language == "" {
		return fmt.Errorf("record_language: %w: language is required", shared.ErrInvalidInput)
	}
	return nil
}

// RecordLanguageResult contains the updated language counters.
type RecordLanguageResult struct {
	// Language is the normalized (lowercased) language code.
	Language string

	// Count is how many times this language has been used.
	Count int

	// LanguagesUsed is the number of distinct languages seen so far.
	LanguagesUsed int
}

// RecordLanguageHandler handles the RecordLanguageCommand.
type RecordLanguageHandler struct {
	achievementRepo achievement.Repository
	eventPublisher  shared.EventPublisher
}

// NewRecordLanguageHandler creates a new RecordLanguageHandler.
func NewRecordLanguageHandler(
	achievementRepo achievement.Repository,
	eventPublisher shared.EventPublisher,
) *RecordLanguageHandler {
	return &RecordLanguageHandler{
		achievementRepo: achievementRepo,
		eventPublisher:  eventPublisher,
	}
}

// Handle executes the record language command.
func (h *RecordLanguageHandler) Handle(ctx context.Context, cmd RecordLanguageCommand) (*RecordLanguageResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("record_language: validation failed: %w", err)
	}

	state, err := h.achievementRepo.Load(ctx)
	if err != nil {
		if !shared.IsNotFound(err) {
			return nil, fmt.Errorf("record_language: failed to load achievements: %w", err)
		}
		state = achievement.NewState()
	}

	count, err := state.RecordLanguageUse(cmd.Language)
	if err != nil {
		return nil, fmt.Errorf("record_language: %w", err)
	}

	if err := h.achievementRepo.Save(ctx, state); err != nil {
		return nil, fmt.Errorf("record_language: failed to save achievements: %w", err)
	}

	normalized := strings.ToLower(strings.TrimSpace(cmd.Language))

	if h.eventPublisher != nil {
		_ = h.eventPublisher.Publish(shared.NewLanguageRecordedEvent(normalized, count))
	}

	return &RecordLanguageResult{
		Language:      normalized,
		Count:         count,
		LanguagesUsed: state.LanguagesUsed(),
	}, nil
}
