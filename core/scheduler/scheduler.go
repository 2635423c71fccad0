// Package scheduler runs the periodic synchronization jobs.
//
// Each job runs once at start and then again after a fixed delay measured
// from the end of the previous run. Every run is wrapped in the job's
// distributed lock; instances that cannot take the lock skip the run.
// Failures are logged and the job keeps its schedule.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"rules-service/core/lock"
	"rules-service/core/logger"
	"rules-service/core/metrics"

	"go.uber.org/zap"
)

// Job is a periodic task guarded by a distributed lock.
type Job struct {
	// Name identifies the job in logs.
	Name string
	// LockName names the distributed lock.
	LockName string
	// Interval is the fixed delay between runs.
	Interval time.Duration
	// MinHold and MaxHold bound how long the lock is held.
	MinHold time.Duration
	MaxHold time.Duration
	// Enabled turns the job on.
	Enabled bool
	// Run performs one cycle. log carries the cycle's correlation id.
	Run func(ctx context.Context, log *zap.Logger) error
}

// FromConfig fills the schedule fields of a job from cfg.
func FromConfig(name, lockName string, cfg JobConfig, run func(ctx context.Context, log *zap.Logger) error) Job {
	return Job{
		Name:     name,
		LockName: lockName,
		Interval: cfg.Interval,
		MinHold:  cfg.LockMin,
		MaxHold:  cfg.LockMax,
		Enabled:  cfg.Enabled,
		Run:      run,
	}
}

// Scheduler owns the running jobs.
type Scheduler struct {
	locker lock.Locker
	logger *zap.Logger
	jobs   []Job
	wg     sync.WaitGroup
}

// New creates a scheduler using locker for job locks.
func New(locker lock.Locker, logger *zap.Logger) *Scheduler {
	return &Scheduler{locker: locker, logger: logger}
}

// Add registers a job. Jobs added after Start are not run.
func (s *Scheduler) Add(jobs ...Job) {
	s.jobs = append(s.jobs, jobs...)
}

// Start launches every enabled job. Jobs stop when ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	for _, job := range s.jobs {
		if !job.Enabled {
			s.logger.Info("Job disabled", zap.String("job", job.Name))
			continue
		}
		if job.Interval <= 0 {
			s.logger.Warn("Job has no interval, not scheduled", zap.String("job", job.Name))
			continue
		}

		s.wg.Add(1)
		go func(job Job) {
			defer s.wg.Done()
			s.loop(ctx, job)
		}(job)
		s.logger.Info("Job scheduled", zap.String("job", job.Name), zap.Duration("interval", job.Interval))
	}
}

// Wait blocks until every started job returned.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

func (s *Scheduler) loop(ctx context.Context, job Job) {
	for {
		_, _ = s.RunOnce(ctx, job)

		timer := time.NewTimer(job.Interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// RunOnce runs one cycle of job under its lock. It reports whether the
// cycle ran; a cycle skipped because of the lock is not an error.
func (s *Scheduler) RunOnce(ctx context.Context, job Job) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}

	log := logger.WithCorrelationID(s.logger).With(zap.String("job", job.Name))

	ran, err := lock.WithDistributedLock(ctx, s.locker, job.LockName, job.MinHold, job.MaxHold, func(ctx context.Context) error {
		return runRecovered(ctx, job, log)
	})
	if !ran && err == nil {
		metrics.IncLockSkipped(job.LockName)
		log.Debug("Lock held elsewhere, skipping run", zap.String("lock", job.LockName))
		return false, nil
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			log.Info("Run cancelled")
		} else {
			log.Error("Run failed", zap.Error(err))
		}
		return ran, err
	}
	return true, nil
}

// runRecovered runs job and reports a panic as an error.
func runRecovered(ctx context.Context, job Job, log *zap.Logger) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("Run panicked", zap.Any("panic", r), zap.Stack("stack"))
			err = fmt.Errorf("job %s panicked: %v", job.Name, r)
		}
	}()
	return job.Run(ctx, log)
}
