package services

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// MinPollInterval is the floor for any polling job. Shorter intervals
// are clamped to protect provider quota.
const MinPollInterval = 5 * time.Minute

// job is one scheduled polling task.
type job struct {
	name     string
	interval time.Duration
	run      func(ctx context.Context) error
}

// Scheduler drives the pollers on independent fixed intervals. Each
// job's tick runs to completion before its next tick is considered:
// overlapping runs are impossible by construction, and ticks that fire
// while a run is in flight are drained, not queued.
type Scheduler struct {
	jobs []job
	log  *zap.Logger

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewScheduler creates an empty scheduler.
func NewScheduler(log *zap.Logger) *Scheduler {
	return &Scheduler{log: log.Named("scheduler")}
}

// AddJob registers a named job. Intervals below MinPollInterval are
// clamped up.
func (s *Scheduler) AddJob(name string, interval time.Duration, run func(ctx context.Context) error) {
	if interval < MinPollInterval {
		s.log.Warn("poll interval below floor, clamping",
			zap.String("job", name),
			zap.Duration("requested", interval),
			zap.Duration("floor", MinPollInterval))
		interval = MinPollInterval
	}
	s.jobs = append(s.jobs, job{name: name, interval: interval, run: run})
}

// Start launches one loop per job and returns. Jobs run immediately on
// startup, then on their interval.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.mu.Unlock()

	for _, j := range s.jobs {
		s.wg.Add(1)
		go s.loop(ctx, j)
	}
}

// Stop shuts the scheduler down, letting in-flight runs finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopCh)
	s.mu.Unlock()

	s.wg.Wait()
}

// loop is one job's run cycle.
func (s *Scheduler) loop(ctx context.Context, j job) {
	defer s.wg.Done()

	s.runJob(ctx, j)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.runJob(ctx, j)
			// Drop any tick that fired while the run was in flight.
			select {
			case <-ticker.C:
			default:
			}
		}
	}
}

// runJob executes one tick and logs the outcome.
func (s *Scheduler) runJob(ctx context.Context, j job) {
	start := time.Now()
	if err := j.run(ctx); err != nil {
		s.log.Error("job run failed",
			zap.String("job", j.name),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return
	}
	s.log.Debug("job run complete",
		zap.String("job", j.name),
		zap.Duration("elapsed", time.Since(start)))
}
