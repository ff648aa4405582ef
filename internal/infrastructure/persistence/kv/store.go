// Package kv defines the key-value document store contract used for all
// persisted arena state, plus the in-memory and file-backed implementations.
//
// Each record is a single JSON document under a fixed key. There are no
// transactions and no atomicity across keys: every document is read and
// written whole, and a crash between two dependent writes leaves derived
// views stale until the next event.
package kv

import (
	"context"
	"errors"
)

// ══════════════════════════════════════════════════════════════════════════════
// DOCUMENT KEYS
// ══════════════════════════════════════════════════════════════════════════════

// Fixed keys for the persisted documents.
const (
	// KeyProgress holds the session log and per-subject totals.
	KeyProgress = "progress-state"

	// KeyProfile holds the local player profile.
	KeyProfile = "user-profile"

	// KeyLeaderboard holds all five ranked category boards.
	KeyLeaderboard = "leaderboard-state"

	// KeyAchievements holds the unlocked set and language counters.
	KeyAchievements = "achievement-state"

	// KeyAuth holds the local login gate PIN hash.
	KeyAuth = "auth-state"
)

// ══════════════════════════════════════════════════════════════════════════════
// ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrNotFound is returned when the requested key has no stored document.
	ErrNotFound = errors.New("kv: key not found")

	// ErrKeyEmpty is returned when an empty key is provided.
	ErrKeyEmpty = errors.New("kv: key cannot be empty")

	// ErrNilValue is returned when attempting to store a nil document.
	ErrNilValue = errors.New("kv: value cannot be nil")
)

// ══════════════════════════════════════════════════════════════════════════════
// STORE CONTRACT
// ══════════════════════════════════════════════════════════════════════════════

// Store is the minimal key-value document contract.
// Implementations: Memory (tests), File (local installs), Redis, Postgres.
type Store interface {
	// Get returns the raw document stored under key.
	// Returns ErrNotFound if the key has no document.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores the raw document under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes the document under key. Deleting a missing key is not
	// an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the store.
	Close() error
}
