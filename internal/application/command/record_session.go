// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"
	"fmt"
	"time"

	"github.com/gyaan-arena/arena-hub/internal/domain/progress"
	"github.com/gyaan-arena/arena-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// RECORD SESSION COMMAND
// Logs one finished (or abandoned) game session into the progress state.
// Feeds the engagement score, the weighted average and the CSV export.
// ══════════════════════════════════════════════════════════════════════════════

// RecordSessionCommand contains the data of one played game session.
type RecordSessionCommand struct {
	// Game is the subject the session belongs to: math, science or coding.
	Game string

	// Score is the score reached in the session.
	Score float64

	// Total is the maximum reachable score of the session.
	Total float64

	// Completed reports whether the session was played to the end.
	Completed bool

	// Timestamp is when the session finished (defaults to now if zero).
	Timestamp time.Time
}

// Validate validates the command.
func (c RecordSessionCommand) Validate() error {
	if c.Game == "" {
		return fmt.Errorf("record_session: %w: game is required", shared.ErrInvalidInput)
	}
	if _, err := shared.NewSubject(c.Game); err != nil {
		return fmt.Errorf("record_session: %w", err)
	}
	return nil
}

// RecordSessionResult contains the result of recording a session.
type RecordSessionResult struct {
	// SessionID is the generated ID of the stored session record.
	SessionID string

	// TotalSessions is the number of sessions kept in the capped log.
	TotalSessions int

	// Engagement is the recomputed engagement score (0-100).
	Engagement int

	// AverageScore is the recomputed weighted average score (0-100).
	AverageScore int

	// RecordedAt is the timestamp stored with the session.
	RecordedAt time.Time
}

// RecordSessionHandler handles the RecordSessionCommand.
type RecordSessionHandler struct {
	progressRepo   progress.Repository
	eventPublisher shared.EventPublisher
}

// NewRecordSessionHandler creates a new RecordSessionHandler.
func NewRecordSessionHandler(
	progressRepo progress.Repository,
	eventPublisher shared.EventPublisher,
) *RecordSessionHandler {
	return &RecordSessionHandler{
		progressRepo:   progressRepo,
		eventPublisher: eventPublisher,
	}
}

// Handle executes the record session command.
func (h *RecordSessionHandler) Handle(ctx context.Context, cmd RecordSessionCommand) (*RecordSessionResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("record_session: validation failed: %w", err)
	}

	subject, err := shared.NewSubject(cmd.Game)
	if err != nil {
		return nil, fmt.Errorf("record_session: %w", err)
	}

	now := cmd.Timestamp
	if now.IsZero() {
		now = time.Now()
	}

	state, err := h.progressRepo.Load(ctx)
	if err != nil {
		if !shared.IsNotFound(err) {
			return nil, fmt.Errorf("record_session: failed to load progress: %w", err)
		}
		state = progress.NewState(now)
	}

	record, err := state.RecordSession(subject, cmd.Score, cmd.Total, cmd.Completed, now)
	if err != nil {
		return nil, fmt.Errorf("record_session: %w", err)
	}

	if err := h.progressRepo.Save(ctx, state); err != nil {
		return nil, fmt.Errorf("record_session: failed to save progress: %w", err)
	}

	if h.eventPublisher != nil {
		_ = h.eventPublisher.Publish(shared.NewSessionRecordedEvent(
			record.ID.String(), subject.String(), cmd.Score, cmd.Total, cmd.Completed,
		))
	}

	return &RecordSessionResult{
		SessionID:     record.ID.String(),
		TotalSessions: state.TotalSessions(),
		Engagement:    state.Engagement(now),
		AverageScore:  state.AverageScore(),
		RecordedAt:    record.Timestamp,
	}, nil
}
