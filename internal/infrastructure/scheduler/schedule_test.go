package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntervalScheduleNext(t *testing.T) {
	s := NewIntervalSchedule(15 * time.Minute)
	base := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, base.Add(15*time.Minute), s.Next(base))
	assert.Equal(t, "@every 15m0s", s.String())
}

func TestWeeklyScheduleNext(t *testing.T) {
	// 2026-03-15 is a Sunday.
	sunday := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	s := NewWeeklySchedule(time.Monday, 0, 0)
	next := s.Next(sunday)
	assert.Equal(t, time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC), next)

	// Same weekday, time already passed: pushed a full week out.
	s = NewWeeklySchedule(time.Sunday, 9, 30)
	next = s.Next(sunday)
	assert.Equal(t, time.Date(2026, 3, 22, 9, 30, 0, 0, time.UTC), next)

	// Same weekday, time still ahead today.
	s = NewWeeklySchedule(time.Sunday, 18, 0)
	next = s.Next(sunday)
	assert.Equal(t, time.Date(2026, 3, 15, 18, 0, 0, 0, time.UTC), next)
}

func TestWeeklyScheduleClampsInvalidTime(t *testing.T) {
	s := NewWeeklySchedule(time.Friday, 99, -5)
	assert.Zero(t, s.Hour)
	assert.Zero(t, s.Minute)
}

type countingJob struct {
	name string
	runs chan struct{}
}

func (j *countingJob) Name() string        { return j.name }
func (j *countingJob) Description() string { return "counts runs" }
func (j *countingJob) Run(ctx context.Context) error {
	j.runs <- struct{}{}
	return nil
}

func TestSchedulerRunNow(t *testing.T) {
	s := New(DefaultConfig())
	job := &countingJob{name: "counter", runs: make(chan struct{}, 1)}
	require.NoError(t, s.Register(job, NewIntervalSchedule(time.Hour)))

	result, err := s.RunNow(context.Background(), "counter")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Len(t, job.runs, 1)

	snap := s.Metrics().Snapshot()
	assert.Equal(t, int64(1), snap.TotalExecutions)
	assert.Equal(t, 1.0, snap.SuccessRate)
}

func TestSchedulerRejectsDuplicateJob(t *testing.T) {
	s := New(DefaultConfig())
	job := &countingJob{name: "dup", runs: make(chan struct{}, 1)}

	require.NoError(t, s.Register(job, NewIntervalSchedule(time.Hour)))
	err := s.Register(job, NewIntervalSchedule(time.Hour))
	assert.ErrorIs(t, err, ErrJobAlreadyExists)
}

func TestSchedulerLifecycle(t *testing.T) {
	s := New(DefaultConfig())

	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.IsRunning())
	assert.ErrorIs(t, s.Start(context.Background()), ErrSchedulerAlreadyRunning)

	require.NoError(t, s.Stop())
	assert.False(t, s.IsRunning())
	assert.ErrorIs(t, s.Stop(), ErrSchedulerNotRunning)
}
