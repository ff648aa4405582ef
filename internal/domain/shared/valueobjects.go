// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages.
package shared

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"
)

// ═══════════════════════════════════════════════════════════════════════════
// Subject Value Object
// ═══════════════════════════════════════════════════════════════════════════

// Subject represents one of the three arena subjects.
type Subject string

const (
	SubjectMath    Subject = "math"
	SubjectScience Subject = "science"
	SubjectCoding  Subject = "coding"
)

// AllSubjects lists every known subject in canonical order.
func AllSubjects() []Subject {
	return []Subject{SubjectMath, SubjectScience, SubjectCoding}
}

// IsValid checks if the subject is one of the known subjects.
func (s Subject) IsValid() bool {
	switch s {
	case SubjectMath, SubjectScience, SubjectCoding:
		return true
	}
	return false
}

// String returns the string representation.
func (s Subject) String() string {
	return string(s)
}

// NewSubject creates a Subject with validation.
func NewSubject(value string) (Subject, error) {
	s := Subject(strings.ToLower(strings.TrimSpace(value)))
	if !s.IsValid() {
		return "", ErrInvalidSubject
	}
	return s, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Category Value Object (leaderboard category)
// ═══════════════════════════════════════════════════════════════════════════

// Category represents a leaderboard category.
type Category string

const (
	CategoryOverall Category = "overall"
	CategoryMath    Category = "math"
	CategoryScience Category = "science"
	CategoryCoding  Category = "coding"
	CategoryWeekly  Category = "weekly"
)

// AllCategories lists every leaderboard category in canonical order.
func AllCategories() []Category {
	return []Category{CategoryOverall, CategoryMath, CategoryScience, CategoryCoding, CategoryWeekly}
}

// IsValid checks if the category is one of the known categories.
func (c Category) IsValid() bool {
	switch c {
	case CategoryOverall, CategoryMath, CategoryScience, CategoryCoding, CategoryWeekly:
		return true
	}
	return false
}

// IsSubjectBoard reports whether the category is a per-subject board.
// Subject boards keep a player's best-ever score; overall is always overwritten.
func (c Category) IsSubjectBoard() bool {
	switch c {
	case CategoryMath, CategoryScience, CategoryCoding:
		return true
	}
	return false
}

// Subject returns the subject backing a subject board, if any.
func (c Category) Subject() (Subject, bool) {
	switch c {
	case CategoryMath:
		return SubjectMath, true
	case CategoryScience:
		return SubjectScience, true
	case CategoryCoding:
		return SubjectCoding, true
	}
	return "", false
}

// String returns the string representation.
func (c Category) String() string {
	return string(c)
}

// NewCategory creates a Category with validation.
func NewCategory(value string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(value)))
	if !c.IsValid() {
		return "", ErrInvalidCategory
	}
	return c, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Score Value Object
// ═══════════════════════════════════════════════════════════════════════════

// Score represents a session or board score. Scores must be finite
// and non-negative so persisted state never carries NaN or Inf.
type Score float64

// IsValid checks that the score is finite and non-negative.
func (s Score) IsValid() bool {
	f := float64(s)
	return !math.IsNaN(f) && !math.IsInf(f, 0) && f >= 0
}

// Float64 returns the underlying float64 value.
func (s Score) Float64() float64 {
	return float64(s)
}

// NewScore creates a Score with validation.
func NewScore(value float64) (Score, error) {
	s := Score(value)
	if !s.IsValid() {
		return 0, ErrInvalidScore
	}
	return s, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Points and Level Value Objects
// ═══════════════════════════════════════════════════════════════════════════

// Points represents accumulated arena points.
type Points int

// IsValid checks that the points value is non-negative.
func (p Points) IsValid() bool {
	return p >= 0
}

// Int returns the underlying int value.
func (p Points) Int() int {
	return int(p)
}

// Add adds points and returns the result, floored at zero.
func (p Points) Add(amount int) Points {
	result := Points(int(p) + amount)
	if result < 0 {
		return 0
	}
	return result
}

// Level derives the level from total points.
// The level is never stored incrementally: it is always recomputed
// from total points, so the two can never drift apart.
func (p Points) Level() Level {
	if p < 0 {
		return 1
	}
	return Level(int(p)/PointsPerLevel + 1)
}

// PointsPerLevel is the flat number of points required per level.
const PointsPerLevel = 100

// NewPoints creates a Points value with validation.
func NewPoints(amount int) (Points, error) {
	if amount < 0 {
		return 0, ErrInvalidPoints
	}
	return Points(amount), nil
}

// Level represents a player's level, starting at 1.
type Level int

// IsValid checks if the level is at least 1.
func (l Level) IsValid() bool {
	return l >= 1
}

// Int returns the underlying int value.
func (l Level) Int() int {
	return int(l)
}

// ProgressToNext returns percentage progress within the current level (0-99).
func (l Level) ProgressToNext(p Points) int {
	return (int(p) % PointsPerLevel) * 100 / PointsPerLevel
}

// ═══════════════════════════════════════════════════════════════════════════
// PlayerName Value Object
// ═══════════════════════════════════════════════════════════════════════════

// PlayerName represents the display name on leaderboard entries.
type PlayerName string

// Display names: letters, digits, spaces, and a few separators.
var playerNameRegex = regexp.MustCompile(`^[\p{L}\p{N}][\p{L}\p{N} ._-]{0,49}$`)

// IsValid checks if the player name format is valid.
func (p PlayerName) IsValid() bool {
	return playerNameRegex.MatchString(string(p))
}

// String returns the string representation.
func (p PlayerName) String() string {
	return string(p)
}

// NewPlayerName creates a PlayerName with validation.
func NewPlayerName(value string) (PlayerName, error) {
	p := PlayerName(strings.TrimSpace(value))
	if !p.IsValid() {
		return "", ErrInvalidPlayerName
	}
	return p, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// SessionID Value Object
// ═══════════════════════════════════════════════════════════════════════════

// SessionID represents a unique game session identifier (UUID format).
type SessionID string

// UUID validation regex (simple version).
var uuidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// IsValid checks if the session ID is a valid UUID.
func (s SessionID) IsValid() bool {
	return uuidRegex.MatchString(string(s))
}

// String returns the string representation.
func (s SessionID) String() string {
	return string(s)
}

// IsEmpty checks if the ID is empty.
func (s SessionID) IsEmpty() bool {
	return s == ""
}

// NewSessionID creates a SessionID with validation.
func NewSessionID(id string) (SessionID, error) {
	sid := SessionID(strings.ToLower(strings.TrimSpace(id)))
	if !sid.IsValid() {
		return "", NewDomainError("shared", "NewSessionID", ErrInvalidID, "invalid session ID format")
	}
	return sid, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// TimeRange Value Object
// ═══════════════════════════════════════════════════════════════════════════

// TimeRange represents a time period.
type TimeRange struct {
	From time.Time
	To   time.Time
}

// IsValid checks if the time range is valid.
func (t TimeRange) IsValid() bool {
	return !t.From.IsZero() && !t.To.IsZero() && !t.From.After(t.To)
}

// Duration returns the duration of the time range.
func (t TimeRange) Duration() time.Duration {
	return t.To.Sub(t.From)
}

// Contains checks if a time is within the range.
func (t TimeRange) Contains(tm time.Time) bool {
	return (tm.Equal(t.From) || tm.After(t.From)) && (tm.Equal(t.To) || tm.Before(t.To))
}

// NewTimeRange creates a new TimeRange with validation.
func NewTimeRange(from, to time.Time) (TimeRange, error) {
	tr := TimeRange{From: from, To: to}
	if !tr.IsValid() {
		return TimeRange{}, NewDomainError("shared", "NewTimeRange", ErrInvalidInput, "'from' must be before 'to'")
	}
	return tr, nil
}

// LastNDays returns a TimeRange for the last N days ending now.
func LastNDays(n int) TimeRange {
	now := time.Now()
	return TimeRange{
		From: now.AddDate(0, 0, -n),
		To:   now,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Helpers
// ═══════════════════════════════════════════════════════════════════════════

// IsFinite reports whether f is neither NaN nor infinite.
func IsFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// FormatPercent renders a 0-100 value for display, e.g. "87%".
func FormatPercent(v float64) string {
	return fmt.Sprintf("%d%%", int(math.Round(v)))
}
