// Package jobs contains the scheduled background jobs of Gyaan Arena Hub.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/gyaan-arena/arena-hub/internal/domain/leaderboard"
	"github.com/gyaan-arena/arena-hub/internal/domain/shared"
	"github.com/gyaan-arena/arena-hub/pkg/logger"
	"github.com/gyaan-arena/arena-hub/pkg/retry"
)

// RefreshWeeklyBoardJob re-derives the weekly leaderboard slice from the
// overall board. Submissions keep the slice current, but on a quiet board
// entries older than the window linger until the next submission; this job
// evicts them on schedule.
type RefreshWeeklyBoardJob struct {
	repo    leaderboard.Repository
	retrier *retry.Retrier
	log     *logger.Logger
}

// NewRefreshWeeklyBoardJob creates the weekly board refresh job.
func NewRefreshWeeklyBoardJob(repo leaderboard.Repository, log *logger.Logger) *RefreshWeeklyBoardJob {
	if log == nil {
		log = logger.Default()
	}
	return &RefreshWeeklyBoardJob{
		repo:    repo,
		retrier: retry.JobRetrier(),
		log:     log.With(logger.String("job", "refresh_weekly_board")),
	}
}

// Name returns the unique name of the job.
func (j *RefreshWeeklyBoardJob) Name() string {
	return "refresh_weekly_board"
}

// Description returns a human-readable description of the job.
func (j *RefreshWeeklyBoardJob) Description() string {
	return "Evicts expired entries from the weekly leaderboard slice"
}

// Run executes the job.
func (j *RefreshWeeklyBoardJob) Run(ctx context.Context) error {
	state, err := j.repo.Load(ctx)
	if err != nil {
		if shared.IsNotFound(err) {
			j.log.Debug("no leaderboard document, nothing to refresh")
			return nil
		}
		return fmt.Errorf("refresh_weekly_board: load leaderboard: %w", err)
	}

	if !state.RefreshWeekly(time.Now()) {
		j.log.Debug("weekly slice unchanged")
		return nil
	}

	// Nobody is waiting on a background job, so a flaky store gets a
	// few more chances before the run is reported as failed.
	err = j.retrier.Do(ctx, func(ctx context.Context) error {
		return j.repo.Save(ctx, state)
	})
	if err != nil {
		return fmt.Errorf("refresh_weekly_board: save leaderboard: %w", err)
	}

	j.log.Info("weekly slice refreshed",
		logger.Int("entries", len(state.Weekly)),
	)

	return nil
}
