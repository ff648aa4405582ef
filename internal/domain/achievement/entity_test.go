package achievement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyaan-arena/arena-hub/internal/domain/shared"
)

func TestCatalogIsComplete(t *testing.T) {
	catalog := Catalog()
	require.Len(t, catalog, 7)

	points := map[string]int{}
	for _, def := range catalog {
		points[def.ID] = def.Points
	}
	assert.Equal(t, 10, points[FirstWin])
	assert.Equal(t, 100, points[MathMaster1])
	assert.Equal(t, 500, points[MathMaster2])
	assert.Equal(t, 30, points[Streak3])
	assert.Equal(t, 70, points[Streak7])
	assert.Equal(t, 30, points[Polyglot])
	assert.Equal(t, 10, points[SharingIsCaring])
}

func TestCheckFirstWin(t *testing.T) {
	st := NewState()

	unlocked, err := st.Check(shared.SubjectScience, 1)
	require.NoError(t, err)

	require.Len(t, unlocked, 1)
	assert.Equal(t, FirstWin, unlocked[0].ID)
	assert.True(t, st.IsUnlocked(FirstWin))
}

func TestCheckZeroScoreUnlocksNothing(t *testing.T) {
	st := NewState()

	unlocked, err := st.Check(shared.SubjectMath, 0)
	require.NoError(t, err)

	assert.Empty(t, unlocked)
	assert.Empty(t, st.Unlocked)
}

func TestCheckMultiplePredicatesInOneCall(t *testing.T) {
	st := NewState()

	unlocked, err := st.Check(shared.SubjectMath, 150)
	require.NoError(t, err)

	require.Len(t, unlocked, 2)
	assert.Equal(t, FirstWin, unlocked[0].ID)
	assert.Equal(t, MathMaster1, unlocked[1].ID)
	assert.False(t, st.IsUnlocked(MathMaster2))
}

func TestCheckMathMastersNeedMathSubject(t *testing.T) {
	st := NewState()

	unlocked, err := st.Check(shared.SubjectCoding, 600)
	require.NoError(t, err)

	require.Len(t, unlocked, 1)
	assert.Equal(t, FirstWin, unlocked[0].ID)
}

func TestCheckIsMonotonic(t *testing.T) {
	st := NewState()

	_, err := st.Check(shared.SubjectMath, 600)
	require.NoError(t, err)
	before := append([]string(nil), st.Unlocked...)

	// Repeated and weaker events never shrink the unlocked set.
	for _, score := range []float64{600, 100, 1, 0} {
		unlocked, err := st.Check(shared.SubjectMath, score)
		require.NoError(t, err)
		assert.Empty(t, unlocked)
	}
	assert.Equal(t, before, st.Unlocked)
}

func TestCheckRejectsInvalidInput(t *testing.T) {
	st := NewState()

	_, err := st.Check("history", 10)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestUnlockExternalTrigger(t *testing.T) {
	st := NewState()

	def, fresh, err := st.Unlock(SharingIsCaring)
	require.NoError(t, err)
	assert.True(t, fresh)
	assert.Equal(t, "Sharing is Caring", def.Name)

	_, fresh, err = st.Unlock(SharingIsCaring)
	require.NoError(t, err)
	assert.False(t, fresh)
	assert.Equal(t, []string{SharingIsCaring}, st.Unlocked)

	_, _, err = st.Unlock("no_such_badge")
	assert.ErrorIs(t, err, shared.ErrUnknownAchievement)
}

func TestRecordLanguageUse(t *testing.T) {
	st := NewState()

	count, err := st.RecordLanguageUse("HI")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = st.RecordLanguageUse("hi")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	_, err = st.RecordLanguageUse("ta")
	require.NoError(t, err)
	assert.Equal(t, 2, st.LanguagesUsed())

	_, err = st.RecordLanguageUse("  ")
	assert.ErrorIs(t, err, shared.ErrEmptyValue)
}

func TestNormalizeRepairsLoadedState(t *testing.T) {
	st := &State{}
	st.Normalize()

	assert.NotNil(t, st.Unlocked)
	assert.NotNil(t, st.CountByLang)
}
