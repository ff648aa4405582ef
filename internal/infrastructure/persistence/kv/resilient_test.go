package kv

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyaan-arena/arena-hub/pkg/circuitbreaker"
)

// flakyStore fails the first failures calls to Get, then delegates
// to an in-memory store.
type flakyStore struct {
	*Memory
	failures int
	calls    int
}

var errFlaky = errors.New("kv: transient backend error")

func (s *flakyStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.calls++
	if s.calls <= s.failures {
		return nil, errFlaky
	}
	return s.Memory.Get(ctx, key)
}

func TestResilientRetriesTransientFailures(t *testing.T) {
	inner := &flakyStore{Memory: NewMemory(), failures: 2}
	ctx := context.Background()
	require.NoError(t, inner.Memory.Set(ctx, KeyProfile, []byte(`{"username":"asha"}`)))

	store := NewResilient(inner, nil)

	got, err := store.Get(ctx, KeyProfile)
	require.NoError(t, err)
	assert.JSONEq(t, `{"username":"asha"}`, string(got))
	assert.Equal(t, 3, inner.calls)
}

func TestResilientDoesNotRetryNotFound(t *testing.T) {
	inner := &flakyStore{Memory: NewMemory()}
	store := NewResilient(inner, nil)

	_, err := store.Get(context.Background(), KeyProgress)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 1, inner.calls)
}

func TestResilientOpensCircuitAfterRepeatedFailures(t *testing.T) {
	inner := &flakyStore{Memory: NewMemory(), failures: 1000}
	store := NewResilient(inner, nil)
	ctx := context.Background()

	// Each Get exhausts its retries and counts as one breaker failure.
	for i := 0; i < 3; i++ {
		_, err := store.Get(ctx, KeyProfile)
		require.ErrorIs(t, err, errFlaky)
	}

	_, err := store.Get(ctx, KeyProfile)
	assert.ErrorIs(t, err, circuitbreaker.ErrCircuitOpen)
}
