package kv

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyaan-arena/arena-hub/internal/domain/shared"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	_, err := store.Get(ctx, KeyProgress)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Set(ctx, KeyProgress, []byte(`{"a":1}`)))

	got, err := store.Get(ctx, KeyProgress)
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"a":1}`), got)

	require.NoError(t, store.Delete(ctx, KeyProgress))
	_, err = store.Get(ctx, KeyProgress)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	original := []byte(`{"a":1}`)
	require.NoError(t, store.Set(ctx, "k", original))
	original[0] = 'X'

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, byte('{'), got[0])
}

func TestMemoryStoreRejectsBadInput(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	assert.ErrorIs(t, store.Set(ctx, "", []byte("x")), ErrKeyEmpty)
	assert.ErrorIs(t, store.Set(ctx, "k", nil), ErrNilValue)
	_, err := store.Get(ctx, "")
	assert.ErrorIs(t, err, ErrKeyEmpty)
}

func TestFileStoreRoundTrip(t *testing.T) {
	store, err := NewFile(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = store.Get(ctx, KeyProfile)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Set(ctx, KeyProfile, []byte(`{"username":"asha"}`)))

	got, err := store.Get(ctx, KeyProfile)
	require.NoError(t, err)
	assert.JSONEq(t, `{"username":"asha"}`, string(got))

	// Overwrite replaces the previous document whole.
	require.NoError(t, store.Set(ctx, KeyProfile, []byte(`{"username":"ravi"}`)))
	got, err = store.Get(ctx, KeyProfile)
	require.NoError(t, err)
	assert.JSONEq(t, `{"username":"ravi"}`, string(got))

	require.NoError(t, store.Delete(ctx, KeyProfile))
	_, err = store.Get(ctx, KeyProfile)
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting a missing key is not an error.
	assert.NoError(t, store.Delete(ctx, KeyProfile))
}

func TestFileStoreRejectsPathEscapes(t *testing.T) {
	store, err := NewFile(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	assert.Error(t, store.Set(ctx, "../evil", []byte("x")))
	assert.Error(t, store.Set(ctx, "a/b", []byte("x")))
}

func TestProgressRepositoryDefaultsOnAbsence(t *testing.T) {
	repo := NewProgressRepository(NewMemory(), nil)

	_, err := repo.Load(context.Background())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestProgressRepositoryCorruptDocumentTreatedAsAbsent(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, KeyProgress, []byte("not json {")))

	repo := NewProgressRepository(store, nil)
	_, err := repo.Load(ctx)
	assert.ErrorIs(t, err, shared.ErrProgressNotFound)
}

func TestProfileRepositoryRoundTripNormalizes(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	// A hand-edited document with a stale level gets repaired on load.
	require.NoError(t, store.Set(ctx, KeyProfile, []byte(`{"username":"asha","totalPoints":250,"level":1}`)))

	repo := NewProfileRepository(store, nil)
	p, err := repo.Load(ctx)
	require.NoError(t, err)

	assert.Equal(t, "asha", p.Username)
	assert.Equal(t, 3, p.Level)
	assert.Len(t, p.Subjects, 3)

	require.NoError(t, repo.Save(ctx, p))
	again, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, p.Username, again.Username)
	assert.Equal(t, p.TotalPoints, again.TotalPoints)
}

func TestLeaderboardRepositoryRoundTrip(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()
	repo := NewLeaderboardRepository(store, nil)

	_, err := repo.Load(ctx)
	assert.ErrorIs(t, err, shared.ErrLeaderboardNotFound)

	require.NoError(t, store.Set(ctx, KeyLeaderboard, []byte(`{"overall":[{"username":"asha","score":50,"level":1,"timestamp":"2026-03-15T12:00:00Z"}]}`)))

	state, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, state.Overall, 1)
	assert.NotNil(t, state.Weekly)
}

func TestAchievementRepositoryRoundTrip(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()
	repo := NewAchievementRepository(store, nil)

	require.NoError(t, store.Set(ctx, KeyAchievements, []byte(`{"unlocked":["first_win"],"countByLang":{"hi":2}}`)))

	state, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.True(t, state.IsUnlocked("first_win"))
	assert.Equal(t, 2, state.CountByLang["hi"])
}
