// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages.
package shared

import (
	"encoding/json"
	"time"
)

// EventType represents the type of domain event.
type EventType string

// Domain event types - these drive the event-driven architecture.
// Each event represents something significant that happened in the domain.
const (
	// Progress events
	EventSessionRecorded        EventType = "progress.session_recorded"
	EventSubjectProgressTracked EventType = "progress.subject_tracked"
	EventProgressReset          EventType = "progress.reset"

	// Profile events
	EventPointsGained  EventType = "profile.points_gained"
	EventLevelUp       EventType = "profile.level_up"
	EventStreakUpdated EventType = "profile.streak_updated"
	EventStreakBroken  EventType = "profile.streak_broken"

	// Leaderboard events
	EventScoreSubmitted     EventType = "leaderboard.score_submitted"
	EventLeaderboardUpdated EventType = "leaderboard.updated"

	// Achievement events
	EventAchievementUnlocked EventType = "achievement.unlocked"
	EventLanguageRecorded    EventType = "achievement.language_recorded"
)

// Event is the base interface for all domain events.
type Event interface {
	// EventType returns the type of the event.
	EventType() EventType

	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time

	// AggregateID returns the ID of the aggregate that produced this event.
	AggregateID() string

	// Payload returns the event data as a map for serialization.
	Payload() map[string]interface{}
}

// BaseEvent provides common event functionality.
type BaseEvent struct {
	Type          EventType `json:"type"`
	Timestamp     time.Time `json:"timestamp"`
	AggregateId   string    `json:"aggregate_id"`
	Version       int       `json:"version"`
	CorrelationID string    `json:"correlation_id,omitempty"`
}

// EventType implements Event interface.
func (e BaseEvent) EventType() EventType {
	return e.Type
}

// OccurredAt implements Event interface.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AggregateID implements Event interface.
func (e BaseEvent) AggregateID() string {
	return e.AggregateId
}

// NewBaseEvent creates a new base event.
func NewBaseEvent(eventType EventType, aggregateID string) BaseEvent {
	return BaseEvent{
		Type:        eventType,
		Timestamp:   time.Now(),
		AggregateId: aggregateID,
		Version:     1,
	}
}

// WithCorrelationID sets the correlation ID for tracing.
func (e BaseEvent) WithCorrelationID(id string) BaseEvent {
	e.CorrelationID = id
	return e
}

// ═══════════════════════════════════════════════════════════════════════════
// Progress Events
// ═══════════════════════════════════════════════════════════════════════════

// SessionRecordedEvent is emitted when a finished game session is logged.
type SessionRecordedEvent struct {
	BaseEvent
	SessionID string  `json:"session_id"`
	Game      string  `json:"game"`
	Score     float64 `json:"score"`
	Total     float64 `json:"total"`
	Completed bool    `json:"completed"`
}

// Payload implements Event interface.
func (e SessionRecordedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"session_id": e.SessionID,
		"game":       e.Game,
		"score":      e.Score,
		"total":      e.Total,
		"completed":  e.Completed,
	}
}

// NewSessionRecordedEvent creates a new SessionRecordedEvent.
func NewSessionRecordedEvent(sessionID, game string, score, total float64, completed bool) SessionRecordedEvent {
	return SessionRecordedEvent{
		BaseEvent: NewBaseEvent(EventSessionRecorded, sessionID),
		SessionID: sessionID,
		Game:      game,
		Score:     score,
		Total:     total,
		Completed: completed,
	}
}

// SubjectProgressTrackedEvent is emitted when per-subject progress is updated.
type SubjectProgressTrackedEvent struct {
	BaseEvent
	Subject      string  `json:"subject"`
	Correct      int     `json:"correct"`
	Total        int     `json:"total"`
	PointsEarned int     `json:"points_earned"`
	NewScore     float64 `json:"new_score"`
	NewAccuracy  float64 `json:"new_accuracy"`
}

// Payload implements Event interface.
func (e SubjectProgressTrackedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"subject":       e.Subject,
		"correct":       e.Correct,
		"total":         e.Total,
		"points_earned": e.PointsEarned,
		"new_score":     e.NewScore,
		"new_accuracy":  e.NewAccuracy,
	}
}

// NewSubjectProgressTrackedEvent creates a new SubjectProgressTrackedEvent.
func NewSubjectProgressTrackedEvent(subject string, correct, total, pointsEarned int, newScore, newAccuracy float64) SubjectProgressTrackedEvent {
	return SubjectProgressTrackedEvent{
		BaseEvent:    NewBaseEvent(EventSubjectProgressTracked, subject),
		Subject:      subject,
		Correct:      correct,
		Total:        total,
		PointsEarned: pointsEarned,
		NewScore:     newScore,
		NewAccuracy:  newAccuracy,
	}
}

// ProgressResetEvent is emitted when all arena state is wiped.
type ProgressResetEvent struct {
	BaseEvent
	Reason string `json:"reason,omitempty"`
}

// Payload implements Event interface.
func (e ProgressResetEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"reason": e.Reason,
	}
}

// NewProgressResetEvent creates a new ProgressResetEvent.
func NewProgressResetEvent(reason string) ProgressResetEvent {
	return ProgressResetEvent{
		BaseEvent: NewBaseEvent(EventProgressReset, "progress"),
		Reason:    reason,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Profile Events
// ═══════════════════════════════════════════════════════════════════════════

// PointsGainedEvent is emitted when the player gains arena points.
type PointsGainedEvent struct {
	BaseEvent
	Amount   int    `json:"amount"`
	NewTotal int    `json:"new_total"`
	Source   string `json:"source"` // e.g., "math", "science", "coding"
}

// Payload implements Event interface.
func (e PointsGainedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"amount":    e.Amount,
		"new_total": e.NewTotal,
		"source":    e.Source,
	}
}

// NewPointsGainedEvent creates a new PointsGainedEvent.
func NewPointsGainedEvent(amount, newTotal int, source string) PointsGainedEvent {
	return PointsGainedEvent{
		BaseEvent: NewBaseEvent(EventPointsGained, "profile"),
		Amount:    amount,
		NewTotal:  newTotal,
		Source:    source,
	}
}

// LevelUpEvent is emitted when the derived level increases.
type LevelUpEvent struct {
	BaseEvent
	OldLevel    int `json:"old_level"`
	NewLevel    int `json:"new_level"`
	TotalPoints int `json:"total_points"`
}

// Payload implements Event interface.
func (e LevelUpEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"old_level":    e.OldLevel,
		"new_level":    e.NewLevel,
		"total_points": e.TotalPoints,
	}
}

// NewLevelUpEvent creates a new LevelUpEvent.
func NewLevelUpEvent(oldLevel, newLevel, totalPoints int) LevelUpEvent {
	return LevelUpEvent{
		BaseEvent:   NewBaseEvent(EventLevelUp, "profile"),
		OldLevel:    oldLevel,
		NewLevel:    newLevel,
		TotalPoints: totalPoints,
	}
}

// StreakUpdatedEvent is emitted when the daily streak advances.
type StreakUpdatedEvent struct {
	BaseEvent
	CurrentStreak int `json:"current_streak"`
}

// Payload implements Event interface.
func (e StreakUpdatedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"current_streak": e.CurrentStreak,
	}
}

// NewStreakUpdatedEvent creates a new StreakUpdatedEvent.
func NewStreakUpdatedEvent(currentStreak int) StreakUpdatedEvent {
	return StreakUpdatedEvent{
		BaseEvent:     NewBaseEvent(EventStreakUpdated, "profile"),
		CurrentStreak: currentStreak,
	}
}

// StreakBrokenEvent is emitted when a missed day resets the streak.
type StreakBrokenEvent struct {
	BaseEvent
	PreviousStreak int `json:"previous_streak"`
}

// Payload implements Event interface.
func (e StreakBrokenEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"previous_streak": e.PreviousStreak,
	}
}

// NewStreakBrokenEvent creates a new StreakBrokenEvent.
func NewStreakBrokenEvent(previousStreak int) StreakBrokenEvent {
	return StreakBrokenEvent{
		BaseEvent:      NewBaseEvent(EventStreakBroken, "profile"),
		PreviousStreak: previousStreak,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Leaderboard Events
// ═══════════════════════════════════════════════════════════════════════════

// ScoreSubmittedEvent is emitted when a score is submitted to a category board.
type ScoreSubmittedEvent struct {
	BaseEvent
	Category   string  `json:"category"`
	PlayerName string  `json:"player_name"`
	Score      float64 `json:"score"`
	Accepted   bool    `json:"accepted"` // false when a subject board kept a better score
}

// Payload implements Event interface.
func (e ScoreSubmittedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"category":    e.Category,
		"player_name": e.PlayerName,
		"score":       e.Score,
		"accepted":    e.Accepted,
	}
}

// NewScoreSubmittedEvent creates a new ScoreSubmittedEvent.
func NewScoreSubmittedEvent(category, playerName string, score float64, accepted bool) ScoreSubmittedEvent {
	return ScoreSubmittedEvent{
		BaseEvent:  NewBaseEvent(EventScoreSubmitted, category),
		Category:   category,
		PlayerName: playerName,
		Score:      score,
		Accepted:   accepted,
	}
}

// LeaderboardUpdatedEvent is emitted after a category board is re-ranked.
type LeaderboardUpdatedEvent struct {
	BaseEvent
	Category string `json:"category"`
	Entries  int    `json:"entries"`
}

// Payload implements Event interface.
func (e LeaderboardUpdatedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"category": e.Category,
		"entries":  e.Entries,
	}
}

// NewLeaderboardUpdatedEvent creates a new LeaderboardUpdatedEvent.
func NewLeaderboardUpdatedEvent(category string, entries int) LeaderboardUpdatedEvent {
	return LeaderboardUpdatedEvent{
		BaseEvent: NewBaseEvent(EventLeaderboardUpdated, category),
		Category:  category,
		Entries:   entries,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Achievement Events
// ═══════════════════════════════════════════════════════════════════════════

// AchievementUnlockedEvent is emitted when an achievement is earned.
type AchievementUnlockedEvent struct {
	BaseEvent
	AchievementID string `json:"achievement_id"`
	Name          string `json:"name"`
	Points        int    `json:"points"`
}

// Payload implements Event interface.
func (e AchievementUnlockedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"achievement_id": e.AchievementID,
		"name":           e.Name,
		"points":         e.Points,
	}
}

// NewAchievementUnlockedEvent creates a new AchievementUnlockedEvent.
func NewAchievementUnlockedEvent(achievementID, name string, points int) AchievementUnlockedEvent {
	return AchievementUnlockedEvent{
		BaseEvent:     NewBaseEvent(EventAchievementUnlocked, achievementID),
		AchievementID: achievementID,
		Name:          name,
		Points:        points,
	}
}

// LanguageRecordedEvent is emitted when a coding puzzle language is counted.
type LanguageRecordedEvent struct {
	BaseEvent
	Language string `json:"language"`
	Count    int    `json:"count"`
}

// Payload implements Event interface.
func (e LanguageRecordedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"language": e.Language,
		"count":    e.Count,
	}
}

// NewLanguageRecordedEvent creates a new LanguageRecordedEvent.
func NewLanguageRecordedEvent(language string, count int) LanguageRecordedEvent {
	return LanguageRecordedEvent{
		BaseEvent: NewBaseEvent(EventLanguageRecorded, language),
		Language:  language,
		Count:     count,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Event Envelope (for serialization and transport)
// ═══════════════════════════════════════════════════════════════════════════

// EventEnvelope wraps an event for transport/storage.
type EventEnvelope struct {
	ID            string          `json:"id"`
	Type          EventType       `json:"type"`
	AggregateID   string          `json:"aggregate_id"`
	Timestamp     time.Time       `json:"timestamp"`
	Version       int             `json:"version"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

// EventHandler is a function that handles an event.
type EventHandler func(event Event) error

// EventPublisher defines the interface for publishing events.
type EventPublisher interface {
	// Publish sends an event to subscribers.
	Publish(event Event) error
}

// EventSubscriber defines the interface for subscribing to events.
type EventSubscriber interface {
	// Subscribe registers a handler for an event type.
	Subscribe(eventType EventType, handler EventHandler) error

	// SubscribeAll registers a handler for all events.
	SubscribeAll(handler EventHandler) error
}

// EventBus combines publishing and subscribing.
type EventBus interface {
	EventPublisher
	EventSubscriber
}
