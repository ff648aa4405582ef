package config

import (
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// FeatureFlags manages feature toggles for the hub. The hub serves a
// single player per deployment, so there is no per-user rollout: a flag
// is on or off for the whole instance, optionally inside a time window.
type FeatureFlags struct {
	mu       sync.RWMutex
	features map[string]*Feature
}

// Feature represents a single feature flag.
type Feature struct {
	Name        string
	Description string
	Enabled     bool

	// Time-based activation (e.g., a weekend tournament)
	EnabledFrom  *time.Time
	EnabledUntil *time.Time
}

// Predefined feature flag names.
const (
	// === Leaderboard Features ===
	FeatureLeaderboardWeekly = "leaderboard.weekly" // Trailing 7-day board

	// === Notification Features ===
	FeatureNotifyAchievements = "notify.achievements"  // Unlock toasts
	FeatureNotifyLevelUp      = "notify.level_up"      // Level-up toasts
	FeatureNotifyStreakBroken = "notify.streak_broken" // Streak loss toasts

	// === Scheduler Features ===
	FeatureJobWeeklyRefresh = "job.weekly_refresh" // Weekly board eviction job
	FeatureJobCSVSnapshot   = "job.csv_snapshot"   // Progress CSV snapshot job

	// === Experimental Features ===
	FeatureExperimentalSharing = "experimental.sharing" // Share-text endpoint
)

// LoadFeatureFlags loads feature flags from environment variables.
func LoadFeatureFlags() *FeatureFlags {
	ff := &FeatureFlags{
		features: make(map[string]*Feature),
	}

	ff.initializeDefaults()
	ff.loadFromEnvironment()

	return ff
}

// initializeDefaults sets up all features with default values.
func (ff *FeatureFlags) initializeDefaults() {
	ff.features[FeatureLeaderboardWeekly] = &Feature{
		Name:        FeatureLeaderboardWeekly,
		Description: "Trailing 7-day leaderboard slice",
		Enabled:     true,
	}

	ff.features[FeatureNotifyAchievements] = &Feature{
		Name:        FeatureNotifyAchievements,
		Description: "Toast on achievement unlock",
		Enabled:     true,
	}

	ff.features[FeatureNotifyLevelUp] = &Feature{
		Name:        FeatureNotifyLevelUp,
		Description: "Toast on level up",
		Enabled:     true,
	}

	ff.features[FeatureNotifyStreakBroken] = &Feature{
		Name:        FeatureNotifyStreakBroken,
		Description: "Toast when the daily streak resets",
		Enabled:     false, // Can be demotivating for younger players
	}

	ff.features[FeatureJobWeeklyRefresh] = &Feature{
		Name:        FeatureJobWeeklyRefresh,
		Description: "Evict expired weekly leaderboard entries",
		Enabled:     true,
	}

	ff.features[FeatureJobCSVSnapshot] = &Feature{
		Name:        FeatureJobCSVSnapshot,
		Description: "Periodic progress CSV snapshot on disk",
		Enabled:     true,
	}

	ff.features[FeatureExperimentalSharing] = &Feature{
		Name:        FeatureExperimentalSharing,
		Description: "Progress share text",
		Enabled:     true,
	}
}

// loadFromEnvironment loads feature flag overrides from env vars.
// Format: FEATURE_<NAME>=true|false
// Example: FEATURE_NOTIFY_STREAK_BROKEN=true
func (ff *FeatureFlags) loadFromEnvironment() {
	for name, feature := range ff.features {
		envKey := featureNameToEnvKey(name)
		if val := os.Getenv(envKey); val != "" {
			if b, err := strconv.ParseBool(val); err == nil {
				feature.Enabled = b
			}
		}
	}
}

// featureNameToEnvKey converts feature name to environment variable key.
// "notify.level_up" -> "FEATURE_NOTIFY_LEVEL_UP"
func featureNameToEnvKey(name string) string {
	key := strings.ToUpper(name)
	key = strings.ReplaceAll(key, ".", "_")
	return "FEATURE_" + key
}

// IsEnabled checks if a feature is currently enabled.
func (ff *FeatureFlags) IsEnabled(featureName string) bool {
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	feature, ok := ff.features[featureName]
	if !ok {
		return false
	}

	if !feature.Enabled {
		return false
	}

	now := time.Now()
	if feature.EnabledFrom != nil && now.Before(*feature.EnabledFrom) {
		return false
	}
	if feature.EnabledUntil != nil && now.After(*feature.EnabledUntil) {
		return false
	}

	return true
}

// EnableFeature enables a feature. Thread-safe for live updates.
func (ff *FeatureFlags) EnableFeature(featureName string) error {
	return ff.setEnabled(featureName, true)
}

// DisableFeature disables a feature completely.
func (ff *FeatureFlags) DisableFeature(featureName string) error {
	return ff.setEnabled(featureName, false)
}

func (ff *FeatureFlags) setEnabled(featureName string, enabled bool) error {
	ff.mu.Lock()
	defer ff.mu.Unlock()

	feature, ok := ff.features[featureName]
	if !ok {
		return ErrFeatureNotFound
	}

	feature.Enabled = enabled
	return nil
}

// GetAllFeatures returns a copy of all feature configurations.
func (ff *FeatureFlags) GetAllFeatures() map[string]*Feature {
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	result := make(map[string]*Feature, len(ff.features))
	for k, v := range ff.features {
		featureCopy := *v
		result[k] = &featureCopy
	}
	return result
}

// NotificationsEnabled checks if any toast notifications are enabled.
func (ff *FeatureFlags) NotificationsEnabled() bool {
	return ff.IsEnabled(FeatureNotifyAchievements) ||
		ff.IsEnabled(FeatureNotifyLevelUp) ||
		ff.IsEnabled(FeatureNotifyStreakBroken)
}

// --- Errors ---

var ErrFeatureNotFound = &FeatureFlagError{Message: "feature not found"}

// FeatureFlagError represents a feature flag error.
type FeatureFlagError struct {
	Message string
}

func (e *FeatureFlagError) Error() string {
	return e.Message
}
