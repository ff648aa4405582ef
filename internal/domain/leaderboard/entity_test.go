package leaderboard

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyaan-arena/arena-hub/internal/domain/shared"
)

func lbNow() time.Time {
	return time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
}

func TestSubmitAppendsNewEntry(t *testing.T) {
	st := NewState()

	res, err := st.Submit(shared.CategoryMath, 100, "asha", 2, 150, lbNow())
	require.NoError(t, err)

	assert.True(t, res.Accepted)
	assert.Equal(t, 1, res.SubjectRank)
	assert.Equal(t, 1, res.OverallRank)
	require.Len(t, st.Math, 1)
	assert.Equal(t, 100.0, st.Math[0].Score)
	require.Len(t, st.Overall, 1)
	assert.Equal(t, 150.0, st.Overall[0].Score)
}

func TestSubjectBoardKeepsBestScore(t *testing.T) {
	st := NewState()

	_, err := st.Submit(shared.CategoryMath, 100, "asha", 2, 150, lbNow())
	require.NoError(t, err)
	res, err := st.Submit(shared.CategoryMath, 80, "asha", 2, 230, lbNow())
	require.NoError(t, err)

	assert.False(t, res.Accepted)
	require.Len(t, st.Math, 1)
	assert.Equal(t, 100.0, st.Math[0].Score)
}

func TestSubjectBoardReplacesOnStrictlyHigher(t *testing.T) {
	st := NewState()

	_, err := st.Submit(shared.CategoryScience, 100, "asha", 2, 150, lbNow())
	require.NoError(t, err)

	// Equal score is not strictly higher: entry stays.
	res, err := st.Submit(shared.CategoryScience, 100, "asha", 3, 200, lbNow().Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, res.Accepted)
	assert.Equal(t, 2, st.Science[0].Level)

	res, err = st.Submit(shared.CategoryScience, 120, "asha", 3, 250, lbNow().Add(2*time.Hour))
	require.NoError(t, err)
	assert.True(t, res.Accepted)
	assert.Equal(t, 120.0, st.Science[0].Score)
	assert.Equal(t, 3, st.Science[0].Level)
}

func TestOverallAlwaysOverwritten(t *testing.T) {
	st := NewState()

	_, err := st.Submit(shared.CategoryMath, 100, "asha", 3, 300, lbNow())
	require.NoError(t, err)
	// totalPoints dropped (e.g. after a reset elsewhere): overall still reflects it.
	_, err = st.Submit(shared.CategoryMath, 10, "asha", 1, 50, lbNow())
	require.NoError(t, err)

	require.Len(t, st.Overall, 1)
	assert.Equal(t, 50.0, st.Overall[0].Score)
}

func TestBoardsSortedDescendingAndTruncated(t *testing.T) {
	st := NewState()

	for i := 0; i < 15; i++ {
		_, err := st.Submit(shared.CategoryCoding, float64(i*10), fmt.Sprintf("player%d", i), 1, i*10, lbNow())
		require.NoError(t, err)
	}

	require.Len(t, st.Coding, MaxEntries)
	require.Len(t, st.Overall, MaxEntries)
	for i := 1; i < len(st.Coding); i++ {
		assert.GreaterOrEqual(t, st.Coding[i-1].Score, st.Coding[i].Score)
	}
	// The lowest five submissions fell off the board.
	assert.Equal(t, 140.0, st.Coding[0].Score)
	assert.Equal(t, 50.0, st.Coding[MaxEntries-1].Score)
}

func TestTieBreakKeepsInsertionOrder(t *testing.T) {
	st := NewState()

	_, err := st.Submit(shared.CategoryMath, 100, "first", 1, 100, lbNow())
	require.NoError(t, err)
	_, err = st.Submit(shared.CategoryMath, 100, "second", 1, 100, lbNow())
	require.NoError(t, err)

	assert.Equal(t, "first", st.Math[0].Username)
	assert.Equal(t, "second", st.Math[1].Username)
}

func TestWeeklyIsDerivedFromOverall(t *testing.T) {
	st := NewState()
	now := lbNow()

	_, err := st.Submit(shared.CategoryMath, 50, "old", 1, 50, now.AddDate(0, 0, -10))
	require.NoError(t, err)
	_, err = st.Submit(shared.CategoryMath, 60, "fresh", 1, 60, now)
	require.NoError(t, err)

	require.Len(t, st.Overall, 2)
	require.Len(t, st.Weekly, 1)
	assert.Equal(t, "fresh", st.Weekly[0].Username)

	// A new submit by the stale player refreshes their overall timestamp,
	// so they reappear in the weekly slice.
	_, err = st.Submit(shared.CategoryMath, 40, "old", 1, 90, now)
	require.NoError(t, err)
	assert.Len(t, st.Weekly, 2)
}

func TestSubmitRejectsInvalidInput(t *testing.T) {
	st := NewState()

	_, err := st.Submit(shared.CategoryOverall, 10, "asha", 1, 10, lbNow())
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	_, err = st.Submit(shared.CategoryWeekly, 10, "asha", 1, 10, lbNow())
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	_, err = st.Submit(shared.CategoryMath, -5, "asha", 1, 10, lbNow())
	assert.ErrorIs(t, err, shared.ErrValueOutOfRange)

	_, err = st.Submit(shared.CategoryMath, 10, "", 1, 10, lbNow())
	assert.ErrorIs(t, err, shared.ErrEmptyValue)

	assert.Empty(t, st.Overall)
}

func TestRankOf(t *testing.T) {
	st := NewState()

	_, err := st.Submit(shared.CategoryMath, 200, "asha", 1, 200, lbNow())
	require.NoError(t, err)
	_, err = st.Submit(shared.CategoryMath, 100, "ravi", 1, 100, lbNow())
	require.NoError(t, err)

	rank, err := st.RankOf(shared.CategoryMath, "ravi")
	require.NoError(t, err)
	assert.Equal(t, 2, rank)

	rank, err = st.RankOf(shared.CategoryMath, "nobody")
	require.NoError(t, err)
	assert.Equal(t, 0, rank)

	_, err = st.RankOf("galaxy", "asha")
	assert.ErrorIs(t, err, shared.ErrInvalidCategory)
}

func TestRankedReturnsCopy(t *testing.T) {
	st := NewState()
	_, err := st.Submit(shared.CategoryMath, 100, "asha", 1, 100, lbNow())
	require.NoError(t, err)

	ranked, err := st.Ranked(shared.CategoryMath)
	require.NoError(t, err)
	ranked[0].Score = 999

	assert.Equal(t, 100.0, st.Math[0].Score)
}

func TestNormalizeRepairsLoadedState(t *testing.T) {
	st := &State{
		Overall: []Entry{{Username: "b", Score: 1}, {Username: "a", Score: 5}},
	}
	st.Normalize()

	assert.NotNil(t, st.Weekly)
	assert.Equal(t, "a", st.Overall[0].Username)
}

func TestRefreshWeeklyDropsExpiredEntries(t *testing.T) {
	st := NewState()
	_, err := st.Submit(shared.CategoryMath, 80, "asha", 1, 80, lbNow())
	require.NoError(t, err)
	require.Len(t, st.Weekly, 1)

	changed := st.RefreshWeekly(lbNow().AddDate(0, 0, 3))
	assert.False(t, changed)
	assert.Len(t, st.Weekly, 1)

	changed = st.RefreshWeekly(lbNow().AddDate(0, 0, 8))
	assert.True(t, changed)
	assert.Empty(t, st.Weekly)
}
