package command

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyaan-arena/arena-hub/internal/domain/achievement"
	"github.com/gyaan-arena/arena-hub/internal/domain/shared"
	"github.com/gyaan-arena/arena-hub/internal/infrastructure/persistence/kv"
)

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

type testRepos struct {
	progress    *kv.ProgressRepository
	profile     *kv.ProfileRepository
	leaderboard *kv.LeaderboardRepository
	achievement *kv.AchievementRepository
}

func newTestRepos() testRepos {
	store := kv.NewMemory()
	return testRepos{
		progress:    kv.NewProgressRepository(store, nil),
		profile:     kv.NewProfileRepository(store, nil),
		leaderboard: kv.NewLeaderboardRepository(store, nil),
		achievement: kv.NewAchievementRepository(store, nil),
	}
}

func TestRecordSessionHandler_CreatesStateOnFirstSession(t *testing.T) {
	repos := newTestRepos()
	h := NewRecordSessionHandler(repos.progress, nil)

	res, err := h.Handle(context.Background(), RecordSessionCommand{
		Game:      "math",
		Score:     8,
		Total:     10,
		Completed: true,
		Timestamp: testNow,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, res.SessionID)
	assert.Equal(t, 1, res.TotalSessions)
	assert.Equal(t, 80, res.AverageScore)
	assert.Equal(t, res.RecordedAt, testNow)

	state, err := repos.progress.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, state.TotalSessions())
}

func TestRecordSessionHandler_RejectsUnknownGame(t *testing.T) {
	repos := newTestRepos()
	h := NewRecordSessionHandler(repos.progress, nil)

	_, err := h.Handle(context.Background(), RecordSessionCommand{
		Game: "history", Score: 5, Total: 10, Timestamp: testNow,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrInvalidSubject)

	_, err = repos.progress.Load(context.Background())
	assert.ErrorIs(t, err, shared.ErrProgressNotFound)
}

func TestTrackProgressHandler_CreditsPointsAndLevel(t *testing.T) {
	repos := newTestRepos()
	h := NewTrackProgressHandler(repos.profile, nil)

	res, err := h.Handle(context.Background(), TrackProgressCommand{
		Subject: "math", Correct: 12, Total: 15, Timestamp: testNow,
	})
	require.NoError(t, err)

	assert.Equal(t, 120, res.PointsEarned)
	assert.Equal(t, 120, res.TotalPoints)
	assert.Equal(t, 2, res.Level)
	assert.True(t, res.LeveledUp)
	assert.Equal(t, 80, res.SubjectStats.Accuracy)
}

func TestTrackProgressHandler_StreakAdvancesOnConsecutiveDays(t *testing.T) {
	repos := newTestRepos()
	h := NewTrackProgressHandler(repos.profile, nil)

	_, err := h.Handle(context.Background(), TrackProgressCommand{
		Subject: "science", Correct: 3, Total: 5, Timestamp: testNow,
	})
	require.NoError(t, err)

	res, err := h.Handle(context.Background(), TrackProgressCommand{
		Subject: "science", Correct: 4, Total: 5, Timestamp: testNow.Add(24 * time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.DailyStreak)
}

func TestSubmitScoreHandler_FilesUnderProfileName(t *testing.T) {
	repos := newTestRepos()
	rename := NewRenamePlayerHandler(repos.profile)
	_, err := rename.Handle(context.Background(), RenamePlayerCommand{Username: "Asha"})
	require.NoError(t, err)

	h := NewSubmitScoreHandler(repos.leaderboard, repos.profile, nil)
	res, err := h.Handle(context.Background(), SubmitScoreCommand{
		Category: "math", Score: 90, Timestamp: testNow,
	})
	require.NoError(t, err)

	assert.True(t, res.Accepted)
	assert.Equal(t, "Asha", res.Username)
	assert.Equal(t, 1, res.SubjectRank)
	assert.Equal(t, 1, res.OverallRank)
}

func TestSubmitScoreHandler_RejectsNonSubjectBoard(t *testing.T) {
	repos := newTestRepos()
	h := NewSubmitScoreHandler(repos.leaderboard, repos.profile, nil)

	_, err := h.Handle(context.Background(), SubmitScoreCommand{
		Category: "overall", Score: 90, Timestamp: testNow,
	})
	assert.ErrorIs(t, err, shared.ErrInvalidCategory)
}

func TestCheckAchievementsHandler_UnlocksAndMirrorsToProfile(t *testing.T) {
	repos := newTestRepos()
	h := NewCheckAchievementsHandler(repos.achievement, repos.profile, nil)

	res, err := h.Handle(context.Background(), CheckAchievementsCommand{
		Subject: "math", Score: 150,
	})
	require.NoError(t, err)

	require.Len(t, res.Unlocked, 2)
	assert.Equal(t, achievement.FirstWin, res.Unlocked[0].ID)
	assert.Equal(t, achievement.MathMaster1, res.Unlocked[1].ID)

	// Second check with the same score unlocks nothing new.
	res, err = h.Handle(context.Background(), CheckAchievementsCommand{
		Subject: "math", Score: 150,
	})
	require.NoError(t, err)
	assert.Empty(t, res.Unlocked)
}

func TestUnlockAchievementHandler_ExternalTriggerIsIdempotent(t *testing.T) {
	repos := newTestRepos()
	h := NewUnlockAchievementHandler(repos.achievement, repos.profile, nil)

	res, err := h.Handle(context.Background(), UnlockAchievementCommand{ID: achievement.SharingIsCaring})
	require.NoError(t, err)
	assert.True(t, res.Fresh)

	res, err = h.Handle(context.Background(), UnlockAchievementCommand{ID: achievement.SharingIsCaring})
	require.NoError(t, err)
	assert.False(t, res.Fresh)
}

func TestRecordLanguageHandler_CountsDistinctLanguages(t *testing.T) {
	repos := newTestRepos()
	h := NewRecordLanguageHandler(repos.achievement, nil)

	_, err := h.Handle(context.Background(), RecordLanguageCommand{Language: "EN"})
	require.NoError(t, err)
	res, err := h.Handle(context.Background(), RecordLanguageCommand{Language: "hi"})
	require.NoError(t, err)

	assert.Equal(t, "hi", res.Language)
	assert.Equal(t, 1, res.Count)
	assert.Equal(t, 2, res.LanguagesUsed)
}

func TestResetProgressHandler_ClearsOnlyProgress(t *testing.T) {
	repos := newTestRepos()

	record := NewRecordSessionHandler(repos.progress, nil)
	_, err := record.Handle(context.Background(), RecordSessionCommand{
		Game: "coding", Score: 1, Total: 1, Completed: true, Timestamp: testNow,
	})
	require.NoError(t, err)

	track := NewTrackProgressHandler(repos.profile, nil)
	_, err = track.Handle(context.Background(), TrackProgressCommand{
		Subject: "coding", Correct: 1, Total: 1, Timestamp: testNow,
	})
	require.NoError(t, err)

	reset := NewResetProgressHandler(repos.progress, nil)
	res, err := reset.Handle(context.Background(), ResetProgressCommand{Reason: "user request"})
	require.NoError(t, err)
	assert.True(t, res.Cleared)

	_, err = repos.progress.Load(context.Background())
	assert.ErrorIs(t, err, shared.ErrProgressNotFound)

	prof, err := repos.profile.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10, prof.TotalPoints)
}
