// Package saga contains business processes that orchestrate multiple
// domain operations in a coordinated manner.
package saga

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gyaan-arena/arena-hub/internal/application/command"
	"github.com/gyaan-arena/arena-hub/internal/domain/achievement"
	"github.com/gyaan-arena/arena-hub/internal/domain/shared"
	"github.com/gyaan-arena/arena-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// GAME RESULT FLOW
// A finished game fans out into four aggregate updates, always in the
// same order:
//
//	Record Session → Track Subject Progress → Submit Score → Check Achievements
//
// Each step is a single-document write. The flow is NOT atomic: a step
// failure aborts the remaining steps and leaves the earlier writes in
// place. A later game repairs the derived views, so partial state is
// tolerated rather than rolled back.
// ══════════════════════════════════════════════════════════════════════════════

// GameResultInput contains everything a finished game reports.
type GameResultInput struct {
	// Game is the subject the game belongs to: math, science or coding.
	Game string

	// Score is the session score.
	Score float64

	// Total is the maximum reachable session score.
	Total float64

	// Completed reports whether the game was played to the end.
	Completed bool

	// Correct is the number of correct answers in the round.
	Correct int

	// Questions is the number of questions asked in the round.
	Questions int

	// Timestamp is when the game finished (defaults to now if zero).
	Timestamp time.Time
}

// Validate checks if the input is valid.
func (i GameResultInput) Validate() error {
	if i.Game == "" {
		return errors.New("game_result_flow: game is required")
	}
	if _, err := shared.NewSubject(i.Game); err != nil {
		return fmt.Errorf("game_result_flow: %w", err)
	}
	if i.Correct < 0 || i.Questions < 0 {
		return errors.New("game_result_flow: correct and questions must be non-negative")
	}
	return nil
}

// GameResultFlowStep represents a step in the game result flow.
type GameResultFlowStep string

const (
	StepRecordSession     GameResultFlowStep = "record_session"
	StepTrackProgress     GameResultFlowStep = "track_progress"
	StepSubmitScore       GameResultFlowStep = "submit_score"
	StepCheckAchievements GameResultFlowStep = "check_achievements"
	StepComplete          GameResultFlowStep = "complete"
)

// GameResultFlowResult aggregates the outcome of all four steps.
type GameResultFlowResult struct {
	// SessionID is the stored session record ID.
	SessionID string

	// Engagement is the recomputed engagement score.
	Engagement int

	// AverageScore is the recomputed weighted average score.
	AverageScore int

	// PointsEarned is the number of profile points credited.
	PointsEarned int

	// TotalPoints is the profile's new point total.
	TotalPoints int

	// Level is the profile's recomputed level.
	Level int

	// LeveledUp indicates the level increased.
	LeveledUp bool

	// DailyStreak is the streak after the calendar-day rule.
	DailyStreak int

	// ScoreAccepted reports whether the subject board took the score.
	ScoreAccepted bool

	// SubjectRank is the player's rank on the subject board (0 = unranked).
	SubjectRank int

	// OverallRank is the player's rank on the overall board (0 = unranked).
	OverallRank int

	// UnlockedAchievements are badges unlocked by this game.
	UnlockedAchievements []achievement.Definition

	// ProcessedAt is when the flow completed.
	ProcessedAt time.Time
}

// HasUnlocks returns true if any achievements were unlocked.
func (r *GameResultFlowResult) HasUnlocks() bool {
	return len(r.UnlockedAchievements) > 0
}

// ══════════════════════════════════════════════════════════════════════════════
// FLOW IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// GameResultFlow orchestrates the four aggregate updates of a finished
// game. The mutex serializes flows within this process; cross-process
// writers remain last-writer-wins on each document.
type GameResultFlow struct {
	mu sync.Mutex

	recordSession     *command.RecordSessionHandler
	trackProgress     *command.TrackProgressHandler
	submitScore       *command.SubmitScoreHandler
	checkAchievements *command.CheckAchievementsHandler
	log               *logger.Logger
}

// NewGameResultFlow creates a new GameResultFlow with all dependencies.
func NewGameResultFlow(
	recordSession *command.RecordSessionHandler,
	trackProgress *command.TrackProgressHandler,
	submitScore *command.SubmitScoreHandler,
	checkAchievements *command.CheckAchievementsHandler,
	log *logger.Logger,
) *GameResultFlow {
	if log == nil {
		log = logger.Default()
	}
	return &GameResultFlow{
		recordSession:     recordSession,
		trackProgress:     trackProgress,
		submitScore:       submitScore,
		checkAchievements: checkAchievements,
		log:               log,
	}
}

// Execute runs the complete game result flow.
func (f *GameResultFlow) Execute(ctx context.Context, input GameResultInput) (*GameResultFlowResult, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	now := input.Timestamp
	if now.IsZero() {
		now = time.Now()
	}

	result := &GameResultFlowResult{}

	// Step 1: session log
	session, err := f.recordSession.Handle(ctx, command.RecordSessionCommand{
		Game:      input.Game,
		Score:     input.Score,
		Total:     input.Total,
		Completed: input.Completed,
		Timestamp: now,
	})
	if err != nil {
		return nil, f.stepFailed(StepRecordSession, err)
	}
	result.SessionID = session.SessionID
	result.Engagement = session.Engagement
	result.AverageScore = session.AverageScore

	// Step 2: profile credit
	progress, err := f.trackProgress.Handle(ctx, command.TrackProgressCommand{
		Subject:   input.Game,
		Correct:   input.Correct,
		Total:     input.Questions,
		Timestamp: now,
	})
	if err != nil {
		return nil, f.stepFailed(StepTrackProgress, err)
	}
	result.PointsEarned = progress.PointsEarned
	result.TotalPoints = progress.TotalPoints
	result.Level = progress.Level
	result.LeveledUp = progress.LeveledUp
	result.DailyStreak = progress.DailyStreak

	// Step 3: leaderboard
	submission, err := f.submitScore.Handle(ctx, command.SubmitScoreCommand{
		Category:  input.Game,
		Score:     input.Score,
		Timestamp: now,
	})
	if err != nil {
		return nil, f.stepFailed(StepSubmitScore, err)
	}
	result.ScoreAccepted = submission.Accepted
	result.SubjectRank = submission.SubjectRank
	result.OverallRank = submission.OverallRank

	// Step 4: achievements, fed the cumulative subject score so the
	// math milestones can trip as totals cross their thresholds.
	unlocks, err := f.checkAchievements.Handle(ctx, command.CheckAchievementsCommand{
		Subject: input.Game,
		Score:   float64(progress.SubjectStats.Score),
	})
	if err != nil {
		return nil, f.stepFailed(StepCheckAchievements, err)
	}
	result.UnlockedAchievements = unlocks.Unlocked

	result.ProcessedAt = now
	f.log.Info("game result processed",
		logger.Game(input.Game),
		logger.Score(int(input.Score)),
		logger.Points(result.PointsEarned),
	)

	return result, nil
}

// stepFailed wraps a step error with its flow position.
func (f *GameResultFlow) stepFailed(step GameResultFlowStep, err error) error {
	f.log.Error("game result flow step failed",
		logger.String("step", string(step)),
		logger.Err(err),
	)
	return fmt.Errorf("game_result_flow: step %s: %w", step, err)
}
