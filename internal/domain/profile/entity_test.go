package profile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyaan-arena/arena-hub/internal/domain/shared"
	"github.com/gyaan-arena/arena-hub/pkg/timeutil"
)

func day(d int) time.Time {
	return timeutil.DateTime(2026, 3, d, 18, 0, 0)
}

func TestNewProfileDefaults(t *testing.T) {
	p := New(day(1))

	assert.Equal(t, "Guest Player", p.Username)
	assert.Equal(t, "G", p.Avatar)
	assert.Equal(t, 1, p.Level)
	assert.Equal(t, 0, p.TotalPoints)
	assert.Equal(t, 0, p.DailyStreak)
	assert.Len(t, p.Subjects, 3)
}

func TestTrackSubjectProgressFreshProfile(t *testing.T) {
	p := New(day(1))

	err := p.TrackSubjectProgress(shared.SubjectMath, 5, 10)
	require.NoError(t, err)

	stats := p.Subjects[shared.SubjectMath]
	assert.Equal(t, 50, stats.Score)
	assert.Equal(t, 1, stats.GamesPlayed)
	assert.Equal(t, 50, stats.Accuracy)
	assert.Equal(t, 50, p.TotalPoints)
}

func TestTrackSubjectProgressRunningMean(t *testing.T) {
	p := New(day(1))

	// Rounds are weighted equally regardless of how many questions each had.
	require.NoError(t, p.TrackSubjectProgress(shared.SubjectMath, 10, 10)) // 100%
	require.NoError(t, p.TrackSubjectProgress(shared.SubjectMath, 1, 2))   // 50%

	assert.Equal(t, 75, p.Subjects[shared.SubjectMath].Accuracy)
	assert.Equal(t, 110, p.TotalPoints)
}

func TestTrackSubjectProgressZeroTotalSkipsAccuracy(t *testing.T) {
	p := New(day(1))
	require.NoError(t, p.TrackSubjectProgress(shared.SubjectCoding, 8, 10))

	before := p.Subjects[shared.SubjectCoding].Accuracy
	require.NoError(t, p.TrackSubjectProgress(shared.SubjectCoding, 0, 0))

	stats := p.Subjects[shared.SubjectCoding]
	assert.Equal(t, before, stats.Accuracy)
	assert.Equal(t, 2, stats.GamesPlayed)
}

func TestTrackSubjectProgressRejectsInvalid(t *testing.T) {
	p := New(day(1))

	assert.ErrorIs(t, p.TrackSubjectProgress("history", 1, 2), shared.ErrInvalidInput)
	assert.ErrorIs(t, p.TrackSubjectProgress(shared.SubjectMath, -1, 2), shared.ErrNegativeValue)
	assert.ErrorIs(t, p.TrackSubjectProgress(shared.SubjectMath, 3, 2), shared.ErrValueOutOfRange)
	assert.Equal(t, 0, p.TotalPoints)
}

func TestTouchRecomputesLevel(t *testing.T) {
	p := New(day(1))
	p.TotalPoints = 250

	leveledUp := p.Touch(day(1))

	assert.True(t, leveledUp)
	assert.Equal(t, 3, p.Level)
}

func TestLevelAlwaysDerivedFromPoints(t *testing.T) {
	p := New(day(1))

	for _, tc := range []struct {
		points int
		level  int
	}{
		{0, 1}, {99, 1}, {100, 2}, {199, 2}, {200, 3}, {1000, 11},
	} {
		p.TotalPoints = tc.points
		p.Touch(day(1))
		assert.Equal(t, tc.level, p.Level, "points=%d", tc.points)
	}
}

func TestStreakSameDayUnchanged(t *testing.T) {
	p := New(day(1))
	p.DailyStreak = 4
	p.LastPlayed = day(5)

	p.Touch(timeutil.DateTime(2026, 3, 5, 23, 0, 0))

	assert.Equal(t, 4, p.DailyStreak)
}

func TestStreakConsecutiveDayIncrements(t *testing.T) {
	p := New(day(1))
	p.DailyStreak = 4
	p.LastPlayed = day(5)

	// 23:59 on the 5th to 00:10 on the 6th is still "exactly one day prior".
	p.Touch(timeutil.DateTime(2026, 3, 6, 0, 10, 0))

	assert.Equal(t, 5, p.DailyStreak)
	assert.Equal(t, timeutil.DateTime(2026, 3, 6, 0, 10, 0), p.LastPlayed)
}

func TestStreakGapResetsToOne(t *testing.T) {
	p := New(day(1))
	p.DailyStreak = 9
	p.LastPlayed = day(5)

	p.Touch(day(8))

	assert.Equal(t, 1, p.DailyStreak)
}

func TestRename(t *testing.T) {
	p := New(day(1))

	require.NoError(t, p.Rename("asha"))
	assert.Equal(t, "asha", p.Username)
	assert.Equal(t, "A", p.Avatar)

	assert.ErrorIs(t, p.Rename("   "), shared.ErrEmptyValue)
	assert.Equal(t, "asha", p.Username)
}

func TestAchievementsIdempotent(t *testing.T) {
	p := New(day(1))

	p.AddAchievement("first_win")
	p.AddAchievement("first_win")

	assert.Equal(t, []string{"first_win"}, p.Achievements)
	assert.True(t, p.HasAchievement("first_win"))
	assert.False(t, p.HasAchievement("polyglot"))
}

func TestNormalizeRepairsCorruptProfile(t *testing.T) {
	p := &Profile{TotalPoints: 150, Level: 99}
	p.Normalize()

	assert.Equal(t, "Guest Player", p.Username)
	assert.Equal(t, "G", p.Avatar)
	assert.Equal(t, 2, p.Level)
	assert.Len(t, p.Subjects, 3)
	assert.NotNil(t, p.Achievements)
}

func TestShareText(t *testing.T) {
	p := New(day(1))
	p.TotalPoints = 230
	p.DailyStreak = 3
	p.Touch(day(1))

	text := p.ShareText()
	assert.Contains(t, text, "Level: 3")
	assert.Contains(t, text, "Total Points: 230")
	assert.Contains(t, text, "Daily Streak: 3 days")
}

func TestBestSubject(t *testing.T) {
	p := New(day(1))
	_, ok := p.BestSubject()
	assert.False(t, ok)

	require.NoError(t, p.TrackSubjectProgress(shared.SubjectScience, 9, 10))
	require.NoError(t, p.TrackSubjectProgress(shared.SubjectMath, 2, 10))

	best, ok := p.BestSubject()
	assert.True(t, ok)
	assert.Equal(t, shared.SubjectScience, best)
}
