package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"rules-service/core/lock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRunOnce(t *testing.T) {
	ctx := context.Background()
	locker := lock.NewMemoryLocker()
	s := New(locker, zap.NewNop())

	t.Run("Runs Under Lock", func(t *testing.T) {
		var runs int
		job := Job{Name: "rules", LockName: "rules_download", MaxHold: time.Minute, Run: func(context.Context, *zap.Logger) error {
			runs++
			return nil
		}}

		ran, err := s.RunOnce(ctx, job)
		require.NoError(t, err)
		assert.True(t, ran)
		assert.Equal(t, 1, runs)
	})

	t.Run("Skips When Lock Held", func(t *testing.T) {
		lease, err := locker.TryAcquire(ctx, "valuesets_download", time.Minute)
		require.NoError(t, err)
		defer func() { _ = lease.Release(ctx, time.Now()) }()

		job := Job{Name: "valuesets", LockName: "valuesets_download", MaxHold: time.Minute, Run: func(context.Context, *zap.Logger) error {
			t.Fatal("must not run")
			return nil
		}}
		ran, err := s.RunOnce(ctx, job)
		require.NoError(t, err)
		assert.False(t, ran)
	})

	t.Run("Reports Failure", func(t *testing.T) {
		boom := errors.New("upstream down")
		job := Job{Name: "countrylist", LockName: "countrylist_download", MaxHold: time.Minute, Run: func(context.Context, *zap.Logger) error {
			return boom
		}}
		ran, err := s.RunOnce(ctx, job)
		assert.True(t, ran)
		assert.ErrorIs(t, err, boom)

		// The lock was released despite the failure
		_, err = locker.TryAcquire(ctx, "countrylist_download", time.Minute)
		assert.NoError(t, err)
	})
}

func TestStartRunsImmediatelyAndRepeats(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := New(lock.NewMemoryLocker(), zap.NewNop())

	var runs atomic.Int32
	var disabledRuns atomic.Int32
	s.Add(
		Job{Name: "rules", LockName: "rules_download", Interval: 10 * time.Millisecond, MaxHold: time.Minute, Enabled: true,
			Run: func(context.Context, *zap.Logger) error {
				runs.Add(1)
				return errors.New("keeps schedule after failures")
			}},
		Job{Name: "domestic", LockName: "domesticrules_download", Interval: 10 * time.Millisecond, MaxHold: time.Minute, Enabled: false,
			Run: func(context.Context, *zap.Logger) error {
				disabledRuns.Add(1)
				return nil
			}},
	)
	s.Start(ctx)

	assert.Eventually(t, func() bool { return runs.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	s.Wait()

	assert.Equal(t, int32(0), disabledRuns.Load())
}

func TestFromConfig(t *testing.T) {
	cfg := JobConfig{Enabled: true, Interval: time.Minute, LockMin: time.Second, LockMax: time.Hour}
	job := FromConfig("rules", "rules_download", cfg, nil)

	assert.Equal(t, "rules_download", job.LockName)
	assert.Equal(t, time.Minute, job.Interval)
	assert.Equal(t, time.Second, job.MinHold)
	assert.Equal(t, time.Hour, job.MaxHold)
	assert.True(t, job.Enabled)
}

func TestRunOnceRecoversPanic(t *testing.T) {
	ctx := context.Background()
	locker := lock.NewMemoryLocker()
	s := New(locker, zap.NewNop())

	job := Job{Name: "rules", LockName: "rules_download", MaxHold: time.Minute, Run: func(context.Context, *zap.Logger) error {
		panic("nil store")
	}}

	var ran bool
	var err error
	require.NotPanics(t, func() { ran, err = s.RunOnce(ctx, job) })
	assert.True(t, ran)
	assert.ErrorContains(t, err, "panicked")

	// The lock was released after the panic
	_, err = locker.TryAcquire(ctx, "rules_download", time.Minute)
	assert.NoError(t, err)
}

func TestLoopSurvivesPanic(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var runs atomic.Int32
	s := New(lock.NewMemoryLocker(), zap.NewNop())
	s.Add(Job{Name: "rules", LockName: "rules_download", Interval: 5 * time.Millisecond, MaxHold: time.Minute, Enabled: true,
		Run: func(context.Context, *zap.Logger) error {
			if runs.Add(1) == 1 {
				panic("first run")
			}
			return nil
		}})
	s.Start(ctx)

	assert.Eventually(t, func() bool { return runs.Load() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()
	s.Wait()
}
