package scheduler

import (
	"fmt"
	"time"
)

// IntervalSchedule schedules a job to run at a fixed interval.
type IntervalSchedule struct {
	Interval time.Duration
}

// NewIntervalSchedule creates a new IntervalSchedule.
func NewIntervalSchedule(interval time.Duration) *IntervalSchedule {
	return &IntervalSchedule{
		Interval: interval,
	}
}

// Next returns the next scheduled time.
func (s *IntervalSchedule) Next(t time.Time) time.Time {
	return t.Add(s.Interval)
}

// String returns the string representation of the schedule.
func (s *IntervalSchedule) String() string {
	return fmt.Sprintf("@every %s", s.Interval.String())
}

// WeeklySchedule schedules a job to run once a week on a fixed weekday
// and time of day.
type WeeklySchedule struct {
	Weekday time.Weekday
	Hour    int
	Minute  int
}

// NewWeeklySchedule creates a new WeeklySchedule.
// Hour and minute outside their valid ranges are clamped to zero.
func NewWeeklySchedule(weekday time.Weekday, hour, minute int) *WeeklySchedule {
	if hour < 0 || hour > 23 {
		hour = 0
	}
	if minute < 0 || minute > 59 {
		minute = 0
	}
	return &WeeklySchedule{
		Weekday: weekday,
		Hour:    hour,
		Minute:  minute,
	}
}

// Next returns the next occurrence of the configured weekday and time
// strictly after t.
func (s *WeeklySchedule) Next(t time.Time) time.Time {
	next := time.Date(t.Year(), t.Month(), t.Day(), s.Hour, s.Minute, 0, 0, t.Location())
	daysAhead := (int(s.Weekday) - int(t.Weekday()) + 7) % 7
	next = next.AddDate(0, 0, daysAhead)
	if !next.After(t) {
		next = next.AddDate(0, 0, 7)
	}
	return next
}

// String returns the string representation of the schedule.
func (s *WeeklySchedule) String() string {
	return fmt.Sprintf("@weekly %s %02d:%02d", s.Weekday, s.Hour, s.Minute)
}
