package query

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyaan-arena/arena-hub/internal/domain/achievement"
	"github.com/gyaan-arena/arena-hub/internal/domain/leaderboard"
	"github.com/gyaan-arena/arena-hub/internal/domain/profile"
	"github.com/gyaan-arena/arena-hub/internal/domain/progress"
	"github.com/gyaan-arena/arena-hub/internal/domain/shared"
	"github.com/gyaan-arena/arena-hub/internal/infrastructure/persistence/kv"
)

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

type testStore struct {
	progress    *kv.ProgressRepository
	profile     *kv.ProfileRepository
	leaderboard *kv.LeaderboardRepository
	achievement *kv.AchievementRepository
}

func newTestStore() testStore {
	mem := kv.NewMemory()
	return testStore{
		progress:    kv.NewProgressRepository(mem, nil),
		profile:     kv.NewProfileRepository(mem, nil),
		leaderboard: kv.NewLeaderboardRepository(mem, nil),
		achievement: kv.NewAchievementRepository(mem, nil),
	}
}

func TestGetLeaderboard_EmptyBoardAndUnrankedUser(t *testing.T) {
	s := newTestStore()
	h := NewGetLeaderboardHandler(s.leaderboard, s.profile)

	res, err := h.Handle(context.Background(), GetLeaderboardQuery{Category: "math"})
	require.NoError(t, err)

	assert.Equal(t, "math", res.Category)
	assert.Empty(t, res.Entries)
	assert.Zero(t, res.UserRank)
}

func TestGetLeaderboard_RanksCurrentUser(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	prof := profile.New(testNow)
	require.NoError(t, prof.Rename("Asha"))
	require.NoError(t, s.profile.Save(ctx, prof))

	board := leaderboard.NewState()
	_, err := board.Submit(shared.CategoryMath, 70, "Ravi", 2, 150, testNow)
	require.NoError(t, err)
	_, err = board.Submit(shared.CategoryMath, 90, "Asha", 1, 90, testNow)
	require.NoError(t, err)
	require.NoError(t, s.leaderboard.Save(ctx, board))

	h := NewGetLeaderboardHandler(s.leaderboard, s.profile)
	res, err := h.Handle(ctx, GetLeaderboardQuery{Category: "math"})
	require.NoError(t, err)

	require.Len(t, res.Entries, 2)
	assert.Equal(t, "Asha", res.Entries[0].Username)
	assert.Equal(t, 1, res.Entries[0].Rank)
	assert.Equal(t, 1, res.UserRank)
}

func TestGetLeaderboard_RejectsUnknownCategory(t *testing.T) {
	s := newTestStore()
	h := NewGetLeaderboardHandler(s.leaderboard, s.profile)

	_, err := h.Handle(context.Background(), GetLeaderboardQuery{Category: "chess"})
	assert.ErrorIs(t, err, shared.ErrInvalidCategory)
}

func TestGetDashboard_DefaultsWhenNothingStored(t *testing.T) {
	s := newTestStore()
	h := NewGetDashboardHandler(s.progress, s.profile, s.leaderboard)

	res, err := h.Handle(context.Background(), GetDashboardQuery{At: testNow})
	require.NoError(t, err)

	assert.Equal(t, profile.DefaultUsername, res.Username)
	assert.Equal(t, 1, res.Level)
	assert.Zero(t, res.TotalSessions)
	assert.Zero(t, res.Engagement)
	assert.Zero(t, res.AverageScore)
	assert.Len(t, res.Subjects, 3)
}

func TestGetDashboard_AggregatesStoredState(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	state := progress.NewState(testNow)
	_, err := state.RecordSession(shared.SubjectMath, 8, 10, true, testNow)
	require.NoError(t, err)
	require.NoError(t, s.progress.Save(ctx, state))

	prof := profile.New(testNow)
	require.NoError(t, prof.TrackSubjectProgress(shared.SubjectMath, 8, 10))
	prof.Touch(testNow)
	require.NoError(t, s.profile.Save(ctx, prof))

	h := NewGetDashboardHandler(s.progress, s.profile, s.leaderboard)
	res, err := h.Handle(ctx, GetDashboardQuery{At: testNow})
	require.NoError(t, err)

	assert.Equal(t, 1, res.TotalSessions)
	assert.Equal(t, 66, res.Engagement)
	assert.Equal(t, 80, res.AverageScore)
	assert.Equal(t, 80, res.TotalPoints)
	assert.Equal(t, 1, res.GamesPlayed)
	assert.Equal(t, "math", res.BestSubject)
	assert.Equal(t, 80, res.Subjects["math"].Accuracy)
}

func TestExportProgress_ShapeAndFilename(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	state := progress.NewState(testNow)
	_, err := state.RecordSession(shared.SubjectScience, 4, 5, true, testNow)
	require.NoError(t, err)
	require.NoError(t, s.progress.Save(ctx, state))

	h := NewExportProgressHandler(s.progress)
	res, err := h.Handle(ctx, ExportProgressQuery{At: testNow})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Sessions)
	assert.Equal(t, "stem_progress_2026-03-15.csv", res.Filename)
	assert.True(t, strings.HasPrefix(res.CSV, "Timestamp,Game,Score,Total,Completed\n"))
	assert.Contains(t, res.CSV, "Summary Statistics")
}

func TestGetShareText_ReflectsProfile(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	prof := profile.New(testNow)
	require.NoError(t, prof.TrackSubjectProgress(shared.SubjectCoding, 15, 15))
	prof.Touch(testNow)
	require.NoError(t, s.profile.Save(ctx, prof))

	h := NewGetShareTextHandler(s.profile)
	res, err := h.Handle(ctx, GetShareTextQuery{})
	require.NoError(t, err)

	assert.Contains(t, res.Text, "Level: 2")
	assert.Contains(t, res.Text, "Total Points: 150")
}

func TestGetAchievements_CatalogWithUnlockFlags(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	state := achievement.NewState()
	_, _, err := state.Unlock(achievement.FirstWin)
	require.NoError(t, err)
	_, err = state.RecordLanguageUse("en")
	require.NoError(t, err)
	_, err = state.RecordLanguageUse("hi")
	require.NoError(t, err)
	require.NoError(t, s.achievement.Save(ctx, state))

	h := NewGetAchievementsHandler(s.achievement)
	res, err := h.Handle(ctx, GetAchievementsQuery{})
	require.NoError(t, err)

	require.Len(t, res.Achievements, 7)
	assert.Equal(t, achievement.FirstWin, res.Achievements[0].ID)
	assert.True(t, res.Achievements[0].Unlocked)
	assert.False(t, res.Achievements[1].Unlocked)
	assert.Equal(t, 1, res.UnlockedCount)
	assert.Equal(t, 2, res.LanguagesUsed)
}
