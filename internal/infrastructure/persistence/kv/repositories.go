package kv

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/gyaan-arena/arena-hub/internal/domain/achievement"
	"github.com/gyaan-arena/arena-hub/internal/domain/leaderboard"
	"github.com/gyaan-arena/arena-hub/internal/domain/profile"
	"github.com/gyaan-arena/arena-hub/internal/domain/progress"
	"github.com/gyaan-arena/arena-hub/internal/domain/shared"
	"github.com/gyaan-arena/arena-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// DOCUMENT REPOSITORIES
// One repository per persisted document. Missing and corrupt documents are
// both reported as not-found: callers default-construct and move on, the
// user never sees a storage error for a blob they cannot repair.
// ══════════════════════════════════════════════════════════════════════════════

// load reads and unmarshals a document, mapping absence and corruption
// to the given domain not-found error.
func load(ctx context.Context, store Store, key string, dest interface{}, notFound error, log *logger.Logger) error {
	data, err := store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return notFound
		}
		return err
	}

	if err := json.Unmarshal(data, dest); err != nil {
		// Corrupt document: treat as absent, keep a trace for operators.
		log.Warn("discarding corrupt document",
			logger.StorageKey(key),
			logger.Err(err),
		)
		return notFound
	}
	return nil
}

// save marshals and writes a document whole.
func save(ctx context.Context, store Store, key string, doc interface{}) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return store.Set(ctx, key, data)
}

// ──────────────────────────────────────────────────────────────────────────────
// Progress
// ──────────────────────────────────────────────────────────────────────────────

// ProgressRepository persists progress.State under KeyProgress.
type ProgressRepository struct {
	store Store
	log   *logger.Logger
}

// NewProgressRepository creates a progress document repository.
func NewProgressRepository(store Store, log *logger.Logger) *ProgressRepository {
	if log == nil {
		log = logger.Default()
	}
	return &ProgressRepository{store: store, log: log}
}

// Load implements progress.Repository.
func (r *ProgressRepository) Load(ctx context.Context) (*progress.State, error) {
	var state progress.State
	if err := load(ctx, r.store, KeyProgress, &state, shared.ErrProgressNotFound, r.log); err != nil {
		return nil, err
	}
	state.Normalize()
	return &state, nil
}

// Save implements progress.Repository.
func (r *ProgressRepository) Save(ctx context.Context, state *progress.State) error {
	return save(ctx, r.store, KeyProgress, state)
}

// Clear implements progress.Repository.
func (r *ProgressRepository) Clear(ctx context.Context) error {
	return r.store.Delete(ctx, KeyProgress)
}

// ──────────────────────────────────────────────────────────────────────────────
// Profile
// ──────────────────────────────────────────────────────────────────────────────

// ProfileRepository persists profile.Profile under KeyProfile.
type ProfileRepository struct {
	store Store
	log   *logger.Logger
}

// NewProfileRepository creates a profile document repository.
func NewProfileRepository(store Store, log *logger.Logger) *ProfileRepository {
	if log == nil {
		log = logger.Default()
	}
	return &ProfileRepository{store: store, log: log}
}

// Load implements profile.Repository.
func (r *ProfileRepository) Load(ctx context.Context) (*profile.Profile, error) {
	var p profile.Profile
	if err := load(ctx, r.store, KeyProfile, &p, shared.ErrProfileNotFound, r.log); err != nil {
		return nil, err
	}
	p.Normalize()
	return &p, nil
}

// Save implements profile.Repository.
func (r *ProfileRepository) Save(ctx context.Context, p *profile.Profile) error {
	return save(ctx, r.store, KeyProfile, p)
}

// Clear implements profile.Repository.
func (r *ProfileRepository) Clear(ctx context.Context) error {
	return r.store.Delete(ctx, KeyProfile)
}

// ──────────────────────────────────────────────────────────────────────────────
// Leaderboard
// ──────────────────────────────────────────────────────────────────────────────

// LeaderboardRepository persists leaderboard.State under KeyLeaderboard.
type LeaderboardRepository struct {
	store Store
	log   *logger.Logger
}

// NewLeaderboardRepository creates a leaderboard document repository.
func NewLeaderboardRepository(store Store, log *logger.Logger) *LeaderboardRepository {
	if log == nil {
		log = logger.Default()
	}
	return &LeaderboardRepository{store: store, log: log}
}

// Load implements leaderboard.Repository.
func (r *LeaderboardRepository) Load(ctx context.Context) (*leaderboard.State, error) {
	var state leaderboard.State
	if err := load(ctx, r.store, KeyLeaderboard, &state, shared.ErrLeaderboardNotFound, r.log); err != nil {
		return nil, err
	}
	state.Normalize()
	return &state, nil
}

// Save implements leaderboard.Repository.
func (r *LeaderboardRepository) Save(ctx context.Context, state *leaderboard.State) error {
	return save(ctx, r.store, KeyLeaderboard, state)
}

// Clear implements leaderboard.Repository.
func (r *LeaderboardRepository) Clear(ctx context.Context) error {
	return r.store.Delete(ctx, KeyLeaderboard)
}

// ──────────────────────────────────────────────────────────────────────────────
// Achievements
// ──────────────────────────────────────────────────────────────────────────────

// AchievementRepository persists achievement.State under KeyAchievements.
type AchievementRepository struct {
	store Store
	log   *logger.Logger
}

// NewAchievementRepository creates an achievement document repository.
func NewAchievementRepository(store Store, log *logger.Logger) *AchievementRepository {
	if log == nil {
		log = logger.Default()
	}
	return &AchievementRepository{store: store, log: log}
}

// Load implements achievement.Repository.
func (r *AchievementRepository) Load(ctx context.Context) (*achievement.State, error) {
	var state achievement.State
	if err := load(ctx, r.store, KeyAchievements, &state, shared.ErrAchievementNotFound, r.log); err != nil {
		return nil, err
	}
	state.Normalize()
	return &state, nil
}

// Save implements achievement.Repository.
func (r *AchievementRepository) Save(ctx context.Context, state *achievement.State) error {
	return save(ctx, r.store, KeyAchievements, state)
}

// Clear implements achievement.Repository.
func (r *AchievementRepository) Clear(ctx context.Context) error {
	return r.store.Delete(ctx, KeyAchievements)
}
