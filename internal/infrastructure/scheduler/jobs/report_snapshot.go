package jobs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gyaan-arena/arena-hub/internal/domain/progress"
	"github.com/gyaan-arena/arena-hub/internal/domain/shared"
	"github.com/gyaan-arena/arena-hub/pkg/logger"
	"github.com/gyaan-arena/arena-hub/pkg/retry"
	"github.com/gyaan-arena/arena-hub/pkg/timeutil"
)

// ReportSnapshotJob periodically writes the CSV progress report to disk,
// so a report exists even if the player never uses the export endpoint.
type ReportSnapshotJob struct {
	repo    progress.Repository
	dir     string
	retrier *retry.Retrier
	log     *logger.Logger
}

// NewReportSnapshotJob creates the report snapshot job.
// Reports are written into dir, one file per calendar day.
func NewReportSnapshotJob(repo progress.Repository, dir string, log *logger.Logger) *ReportSnapshotJob {
	if log == nil {
		log = logger.Default()
	}
	return &ReportSnapshotJob{
		repo:    repo,
		dir:     dir,
		retrier: retry.JobRetrier(),
		log:     log.With(logger.String("job", "report_snapshot")),
	}
}

// Name returns the unique name of the job.
func (j *ReportSnapshotJob) Name() string {
	return "report_snapshot"
}

// Description returns a human-readable description of the job.
func (j *ReportSnapshotJob) Description() string {
	return "Writes the CSV progress report to the snapshot directory"
}

// Run executes the job.
func (j *ReportSnapshotJob) Run(ctx context.Context) error {
	state, err := j.repo.Load(ctx)
	if err != nil {
		if shared.IsNotFound(err) {
			j.log.Debug("no progress document, skipping snapshot")
			return nil
		}
		return fmt.Errorf("report_snapshot: load progress: %w", err)
	}

	now := time.Now()
	if err := os.MkdirAll(j.dir, 0o755); err != nil {
		return fmt.Errorf("report_snapshot: create snapshot dir: %w", err)
	}

	filename := fmt.Sprintf("stem_progress_%s.csv", timeutil.FormatDateStr(now))
	path := filepath.Join(j.dir, filename)
	csv := []byte(state.ExportCSV(now))

	err = j.retrier.Do(ctx, func(ctx context.Context) error {
		return os.WriteFile(path, csv, 0o644)
	})
	if err != nil {
		return fmt.Errorf("report_snapshot: write report: %w", err)
	}

	j.log.Info("progress report written",
		logger.String("path", path),
		logger.Int("sessions", state.TotalSessions()),
	)

	return nil
}
