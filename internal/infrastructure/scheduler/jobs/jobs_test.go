package jobs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyaan-arena/arena-hub/internal/domain/leaderboard"
	"github.com/gyaan-arena/arena-hub/internal/domain/progress"
	"github.com/gyaan-arena/arena-hub/internal/domain/shared"
	"github.com/gyaan-arena/arena-hub/internal/infrastructure/persistence/kv"
)

func TestRefreshWeeklyBoardJob_NoDocumentIsNoop(t *testing.T) {
	repo := kv.NewLeaderboardRepository(kv.NewMemory(), nil)
	job := NewRefreshWeeklyBoardJob(repo, nil)

	require.NoError(t, job.Run(context.Background()))
}

func TestRefreshWeeklyBoardJob_EvictsExpiredEntries(t *testing.T) {
	ctx := context.Background()
	repo := kv.NewLeaderboardRepository(kv.NewMemory(), nil)

	state := leaderboard.NewState()
	old := time.Now().AddDate(0, 0, -(leaderboard.WeeklyWindowDays + 1))
	_, err := state.Submit(shared.CategoryMath, 80, "asha", 1, 80, old)
	require.NoError(t, err)
	// Pretend the submission was still within the window.
	state.Weekly = append([]leaderboard.Entry(nil), state.Overall...)
	require.NoError(t, repo.Save(ctx, state))

	job := NewRefreshWeeklyBoardJob(repo, nil)
	require.NoError(t, job.Run(ctx))

	reloaded, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, reloaded.Weekly)
	assert.Len(t, reloaded.Overall, 1)
}

func TestReportSnapshotJob_WritesCSV(t *testing.T) {
	ctx := context.Background()
	repo := kv.NewProgressRepository(kv.NewMemory(), nil)

	state := progress.NewState(time.Now())
	_, err := state.RecordSession(shared.SubjectMath, 7, 10, true, time.Now())
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, state))

	dir := t.TempDir()
	job := NewReportSnapshotJob(repo, dir, nil)
	require.NoError(t, job.Run(ctx))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Name(), "stem_progress_")

	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Timestamp,Game,Score,Total,Completed")
}

func TestReportSnapshotJob_NoDocumentIsNoop(t *testing.T) {
	repo := kv.NewProgressRepository(kv.NewMemory(), nil)
	job := NewReportSnapshotJob(repo, t.TempDir(), nil)

	require.NoError(t, job.Run(context.Background()))
}
