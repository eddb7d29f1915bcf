package services

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestSchedulerRunsJobImmediately(t *testing.T) {
	s := NewScheduler(zap.NewNop())

	var runs atomic.Int32
	s.AddJob("test", time.Hour, func(_ context.Context) error {
		runs.Add(1)
		return nil
	})

	s.Start(context.Background())
	defer s.Stop()

	assert.Eventually(t, func() bool {
		return runs.Load() == 1
	}, time.Second, 10*time.Millisecond)
}

func TestSchedulerClampsShortIntervals(t *testing.T) {
	s := NewScheduler(zap.NewNop())
	s.AddJob("eager", time.Second, func(_ context.Context) error { return nil })

	assert.Equal(t, MinPollInterval, s.jobs[0].interval)
}

func TestSchedulerStopWaitsForInFlightRun(t *testing.T) {
	s := NewScheduler(zap.NewNop())

	started := make(chan struct{})
	release := make(chan struct{})
	var finished atomic.Bool
	s.AddJob("slow", time.Hour, func(_ context.Context) error {
		close(started)
		<-release
		finished.Store(true)
		return nil
	})

	s.Start(context.Background())
	<-started

	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("Stop returned while a run was in flight")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	<-done
	assert.True(t, finished.Load())
}

func TestSchedulerStartIsIdempotent(t *testing.T) {
	s := NewScheduler(zap.NewNop())

	var runs atomic.Int32
	s.AddJob("test", time.Hour, func(_ context.Context) error {
		runs.Add(1)
		return nil
	})

	ctx := context.Background()
	s.Start(ctx)
	s.Start(ctx)
	defer s.Stop()

	assert.Eventually(t, func() bool {
		return runs.Load() == 1
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, int32(1), runs.Load())
}

func TestSchedulerJobErrorDoesNotStopLoop(t *testing.T) {
	s := NewScheduler(zap.NewNop())

	var runs atomic.Int32
	s.AddJob("failing", time.Hour, func(_ context.Context) error {
		runs.Add(1)
		return assert.AnError
	})

	s.Start(context.Background())
	assert.Eventually(t, func() bool {
		return runs.Load() == 1
	}, time.Second, 10*time.Millisecond)
	s.Stop()
}
