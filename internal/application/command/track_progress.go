package command

import (
	"context"
	"fmt"
	"time"

	"github.com/gyaan-arena/arena-hub/internal/domain/profile"
	"github.com/gyaan-arena/arena-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// TRACK PROGRESS COMMAND
// Credits a played round to the profile: points, per-subject stats,
// recomputed level and daily streak.
// ══════════════════════════════════════════════════════════════════════════════

// TrackProgressCommand contains the outcome of one played round.
type TrackProgressCommand struct {
	// Subject is the subject of the round: math, science or coding.
	Subject string

	// Correct is the number of correct answers (10 points each).
	Correct int

	// Total is the number of questions asked in the round.
	Total int

	// Timestamp is when the round finished (defaults to now if zero).
	Timestamp time.Time
}

// Validate validates the command.
func (c TrackProgressCommand) Validate() error {
	if c.Subject == "" {
		return fmt.Errorf("track_progress: %w: subject is required", shared.ErrInvalidInput)
	}
	if _, err := shared.NewSubject(c.Subject); err != nil {
		return fmt.Errorf("track_progress: %w", err)
	}
	if c.Correct < 0 || c.Total < 0 {
		return fmt.Errorf("track_progress: %w: correct and total must be non-negative", shared.ErrNegativeValue)
	}
	return nil
}

// TrackProgressResult contains the updated profile figures.
type TrackProgressResult struct {
	// PointsEarned is the number of points credited by this round.
	PointsEarned int

	// TotalPoints is the profile's new point total.
	TotalPoints int

	// Level is the profile's recomputed level.
	Level int

	// LeveledUp indicates the level increased with this round.
	LeveledUp bool

	// DailyStreak is the current streak after the calendar-day rule.
	DailyStreak int

	// SubjectStats is the updated per-subject statistics.
	SubjectStats profile.SubjectStats
}

// TrackProgressHandler handles the TrackProgressCommand.
type TrackProgressHandler struct {
	profileRepo    profile.Repository
	eventPublisher shared.EventPublisher
}

// NewTrackProgressHandler creates a new TrackProgressHandler.
func NewTrackProgressHandler(
	profileRepo profile.Repository,
	eventPublisher shared.EventPublisher,
) *TrackProgressHandler {
	return &TrackProgressHandler{
		profileRepo:    profileRepo,
		eventPublisher: eventPublisher,
	}
}

// Handle executes the track progress command.
func (h *TrackProgressHandler) Handle(ctx context.Context, cmd TrackProgressCommand) (*TrackProgressResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("track_progress: validation failed: %w", err)
	}

	subject, err := shared.NewSubject(cmd.Subject)
	if err != nil {
		return nil, fmt.Errorf("track_progress: %w", err)
	}

	now := cmd.Timestamp
	if now.IsZero() {
		now = time.Now()
	}

	prof, err := h.profileRepo.Load(ctx)
	if err != nil {
		if !shared.IsNotFound(err) {
			return nil, fmt.Errorf("track_progress: failed to load profile: %w", err)
		}
		prof = profile.New(now)
	}

	prevPoints := prof.TotalPoints
	prevLevel := prof.Level
	prevStreak := prof.DailyStreak

	if err := prof.TrackSubjectProgress(subject, cmd.Correct, cmd.Total); err != nil {
		return nil, fmt.Errorf("track_progress: %w", err)
	}
	leveledUp := prof.Touch(now)

	if err := h.profileRepo.Save(ctx, prof); err != nil {
		return nil, fmt.Errorf("track_progress: failed to save profile: %w", err)
	}

	stats := prof.Subjects[subject]
	earned := prof.TotalPoints - prevPoints

	h.publishEvents(subject, cmd, prof, stats, earned, prevLevel, prevStreak, leveledUp)

	return &TrackProgressResult{
		PointsEarned: earned,
		TotalPoints:  prof.TotalPoints,
		Level:        prof.Level,
		LeveledUp:    leveledUp,
		DailyStreak:  prof.DailyStreak,
		SubjectStats: stats,
	}, nil
}

func (h *TrackProgressHandler) publishEvents(
	subject shared.Subject,
	cmd TrackProgressCommand,
	prof *profile.Profile,
	stats profile.SubjectStats,
	earned, prevLevel, prevStreak int,
	leveledUp bool,
) {
	if h.eventPublisher == nil {
		return
	}

	_ = h.eventPublisher.Publish(shared.NewSubjectProgressTrackedEvent(
		subject.String(), cmd.Correct, cmd.Total, earned,
		float64(stats.Score), float64(stats.Accuracy),
	))

	if earned > 0 {
		_ = h.eventPublisher.Publish(shared.NewPointsGainedEvent(earned, prof.TotalPoints, subject.String()))
	}
	if leveledUp {
		_ = h.eventPublisher.Publish(shared.NewLevelUpEvent(prevLevel, prof.Level, prof.TotalPoints))
	}
	if prof.DailyStreak > prevStreak {
		_ = h.eventPublisher.Publish(shared.NewStreakUpdatedEvent(prof.DailyStreak))
	} else if prof.DailyStreak < prevStreak {
		_ = h.eventPublisher.Publish(shared.NewStreakBrokenEvent(prevStreak))
	}
}
