// Package timeutil provides timezone utilities for India Standard Time (UTC+5:30).
// This is essential for Gyaan Arena Hub as daily streaks and weekly leaderboards
// are computed on calendar days in the players' local timezone.
// No external dependencies - uses only standard library.
package timeutil

import (
	"time"
)

// IndiaTZ is the India Standard Time zone (UTC+5:30, no DST).
// India has not observed DST since 1945, so this is constant year-round.
var IndiaTZ = time.FixedZone("Asia/Kolkata", 5*60*60+30*60)

// Now returns the current time in India timezone.
func Now() time.Time {
	return time.Now().In(IndiaTZ)
}

// ToIndia converts a time to India timezone.
func ToIndia(t time.Time) time.Time {
	return t.In(IndiaTZ)
}

// ToUTC converts a time to UTC.
func ToUTC(t time.Time) time.Time {
	return t.UTC()
}

// Date creates a time in India timezone with the given date.
func Date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, IndiaTZ)
}

// DateTime creates a time in India timezone with the given date and time.
func DateTime(year, month, day, hour, min, sec int) time.Time {
	return time.Date(year, time.Month(month), day, hour, min, sec, 0, IndiaTZ)
}

// StartOfDay returns the start of the day (00:00:00) in India timezone.
func StartOfDay(t time.Time) time.Time {
	local := ToIndia(t)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, IndiaTZ)
}

// EndOfDay returns the end of the day (23:59:59.999999999) in India timezone.
func EndOfDay(t time.Time) time.Time {
	local := ToIndia(t)
	return time.Date(local.Year(), local.Month(), local.Day(), 23, 59, 59, 999999999, IndiaTZ)
}

// StartOfWeek returns the start of the week (Monday 00:00:00) in India timezone.
func StartOfWeek(t time.Time) time.Time {
	local := ToIndia(t)
	weekday := int(local.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday
	}
	daysToSubtract := weekday - 1 // Monday = 1
	return StartOfDay(local.AddDate(0, 0, -daysToSubtract))
}

// IsToday checks if the given time is today in India timezone.
func IsToday(t time.Time) bool {
	return IsSameDay(t, Now())
}

// IsSameDay checks if two times are on the same calendar day in India timezone.
func IsSameDay(t1, t2 time.Time) bool {
	a1, a2 := ToIndia(t1), ToIndia(t2)
	return a1.Year() == a2.Year() && a1.YearDay() == a2.YearDay()
}

// IsConsecutiveDay checks if t2 is the calendar day after t1.
func IsConsecutiveDay(t1, t2 time.Time) bool {
	a1, a2 := ToIndia(t1), ToIndia(t2)
	nextDay := a1.AddDate(0, 0, 1)
	return IsSameDay(nextDay, a2)
}

// DaysBetween calculates the number of calendar days between two times.
// Midnight boundaries count: 23:59 and 00:01 on adjacent days are 1 day apart.
func DaysBetween(t1, t2 time.Time) int {
	a1 := StartOfDay(t1)
	a2 := StartOfDay(t2)
	duration := a2.Sub(a1)
	days := int(duration.Hours() / 24)
	if days < 0 {
		days = -days
	}
	return days
}

// DaysSince calculates the number of calendar days since the given time.
func DaysSince(t time.Time) int {
	now := StartOfDay(Now())
	then := StartOfDay(t)
	duration := now.Sub(then)
	return int(duration.Hours() / 24)
}

// WithinTrailingDays checks if t falls within the trailing window of n days
// ending at ref (inclusive). Used for weekly activity and weekly leaderboards.
func WithinTrailingDays(t, ref time.Time, n int) bool {
	cutoff := ref.Add(-time.Duration(n) * 24 * time.Hour)
	return t.After(cutoff) && !t.After(ref)
}

// Common date/time formats.
const (
	// FormatDate is the standard date format (YYYY-MM-DD).
	FormatDate = "2006-01-02"
	// FormatTime is the standard time format (HH:MM).
	FormatTime = "15:04"
	// FormatDateTime is the standard datetime format.
	FormatDateTime = "2006-01-02 15:04"
	// FormatDateTimeSeconds includes seconds.
	FormatDateTimeSeconds = "2006-01-02 15:04:05"
	// FormatExportTimestamp is the timestamp format used in CSV exports.
	FormatExportTimestamp = time.RFC3339
)

// FormatIndia formats a time in India timezone with the given layout.
func FormatIndia(t time.Time, layout string) string {
	return ToIndia(t).Format(layout)
}

// FormatDateStr formats a time as a date string (YYYY-MM-DD) in India timezone.
func FormatDateStr(t time.Time) string {
	return FormatIndia(t, FormatDate)
}

// FormatDateTimeStr formats a time as datetime string in India timezone.
func FormatDateTimeStr(t time.Time) string {
	return FormatIndia(t, FormatDateTime)
}

// ParseIndia parses a time string in India timezone.
func ParseIndia(layout, value string) (time.Time, error) {
	return time.ParseInLocation(layout, value, IndiaTZ)
}

// ParseDateIndia parses a date string (YYYY-MM-DD) in India timezone.
func ParseDateIndia(value string) (time.Time, error) {
	return ParseIndia(FormatDate, value)
}
