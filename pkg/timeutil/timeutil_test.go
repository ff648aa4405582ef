package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIndiaTZOffset(t *testing.T) {
	name, offset := time.Now().In(IndiaTZ).Zone()
	assert.Equal(t, "Asia/Kolkata", name)
	assert.Equal(t, 5*3600+30*60, offset)
}

func TestStartOfDay(t *testing.T) {
	ts := DateTime(2026, 3, 15, 18, 42, 7)
	start := StartOfDay(ts)

	assert.Equal(t, 0, start.Hour())
	assert.Equal(t, 0, start.Minute())
	assert.Equal(t, 0, start.Second())
	assert.Equal(t, 15, start.Day())
}

func TestIsSameDay(t *testing.T) {
	morning := DateTime(2026, 3, 15, 0, 5, 0)
	evening := DateTime(2026, 3, 15, 23, 55, 0)
	nextDay := DateTime(2026, 3, 16, 0, 5, 0)

	assert.True(t, IsSameDay(morning, evening))
	assert.False(t, IsSameDay(evening, nextDay))
}

func TestIsSameDayAcrossTimezones(t *testing.T) {
	// 20:00 UTC on the 15th is already 01:30 on the 16th in India.
	utc := time.Date(2026, 3, 15, 20, 0, 0, 0, time.UTC)
	india := DateTime(2026, 3, 16, 2, 0, 0)

	assert.True(t, IsSameDay(utc, india))
}

func TestIsConsecutiveDay(t *testing.T) {
	day1 := DateTime(2026, 3, 15, 23, 59, 0)
	day2 := DateTime(2026, 3, 16, 0, 1, 0)
	day3 := DateTime(2026, 3, 17, 12, 0, 0)

	assert.True(t, IsConsecutiveDay(day1, day2))
	assert.False(t, IsConsecutiveDay(day1, day3))
	assert.False(t, IsConsecutiveDay(day2, day1))
}

func TestDaysBetween(t *testing.T) {
	day1 := DateTime(2026, 3, 15, 23, 59, 0)
	day2 := DateTime(2026, 3, 16, 0, 1, 0)

	assert.Equal(t, 1, DaysBetween(day1, day2))
	assert.Equal(t, 1, DaysBetween(day2, day1))
	assert.Equal(t, 0, DaysBetween(day1, day1))
	assert.Equal(t, 31, DaysBetween(Date(2026, 1, 1), Date(2026, 2, 1)))
}

func TestWithinTrailingDays(t *testing.T) {
	ref := DateTime(2026, 3, 15, 12, 0, 0)

	assert.True(t, WithinTrailingDays(ref.Add(-6*24*time.Hour), ref, 7))
	assert.True(t, WithinTrailingDays(ref, ref, 7))
	assert.False(t, WithinTrailingDays(ref.Add(-8*24*time.Hour), ref, 7))
	assert.False(t, WithinTrailingDays(ref.Add(time.Hour), ref, 7))
}

func TestStartOfWeekIsMonday(t *testing.T) {
	// 2026-03-15 is a Sunday.
	sunday := Date(2026, 3, 15)
	start := StartOfWeek(sunday)

	assert.Equal(t, time.Monday, start.Weekday())
	assert.Equal(t, 9, start.Day())
}

func TestParseDateIndia(t *testing.T) {
	parsed, err := ParseDateIndia("2026-03-15")

	assert.NoError(t, err)
	assert.Equal(t, 2026, parsed.Year())
	assert.Equal(t, time.March, parsed.Month())
	assert.Equal(t, 15, parsed.Day())
	assert.Equal(t, "2026-03-15", FormatDateStr(parsed))
}
