package background

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitDone(t *testing.T, task *Task) {
	t.Helper()
	select {
	case <-task.Done():
	case <-time.After(5 * time.Second):
		t.Fatalf("task %s did not finish", task.Name)
	}
}

func TestScheduler_RunsTaskOnce(t *testing.T) {
	s := NewScheduler(Options{})
	var runs atomic.Int32

	task := s.Schedule(context.Background(), "count", func(context.Context) error {
		runs.Add(1)
		return nil
	})

	waitDone(t, task)
	require.NoError(t, task.Err())
	assert.Equal(t, int32(1), runs.Load())
	assert.NotEmpty(t, task.ID)
	assert.Equal(t, "count", task.Name)
}

func TestScheduler_TaskOutlivesCallerContext(t *testing.T) {
	s := NewScheduler(Options{})
	callerCtx, cancel := context.WithCancel(context.Background())

	started := make(chan struct{})
	task := s.Schedule(callerCtx, "detached", func(taskCtx context.Context) error {
		close(started)
		select {
		case <-taskCtx.Done():
			return taskCtx.Err()
		case <-time.After(50 * time.Millisecond):
			return nil
		}
	})

	<-started
	// Cancel the caller immediately; the task context must not be affected.
	cancel()

	waitDone(t, task)
	assert.NoError(t, task.Err())
}

func TestScheduler_TaskTimeoutBoundsWork(t *testing.T) {
	s := NewScheduler(Options{TaskTimeout: 20 * time.Millisecond})

	task := s.Schedule(context.Background(), "slow", func(taskCtx context.Context) error {
		<-taskCtx.Done()
		return taskCtx.Err()
	})

	waitDone(t, task)
	assert.ErrorIs(t, task.Err(), context.DeadlineExceeded)
}

func TestScheduler_PanicIsRecovered(t *testing.T) {
	s := NewScheduler(Options{})

	task := s.Schedule(context.Background(), "explode", func(context.Context) error {
		panic("boom")
	})

	waitDone(t, task)
	require.Error(t, task.Err())
	assert.Contains(t, task.Err().Error(), "panicked")
	assert.Contains(t, task.Err().Error(), "boom")
}

func TestScheduler_FailureStaysOnTask(t *testing.T) {
	s := NewScheduler(Options{})
	taskErr := errors.New("artifact fetch failed")

	task := s.Schedule(context.Background(), "failing", func(context.Context) error {
		return taskErr
	})

	waitDone(t, task)
	assert.ErrorIs(t, task.Err(), taskErr)
}

func TestScheduler_WaitDrainsInFlightTasks(t *testing.T) {
	s := NewScheduler(Options{})
	var finished atomic.Bool

	release := make(chan struct{})
	s.Schedule(context.Background(), "in-flight", func(context.Context) error {
		<-release
		finished.Store(true)
		return nil
	})

	go func() {
		time.Sleep(10 * time.Millisecond)
		close(release)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Wait(ctx))
	assert.True(t, finished.Load())
}

func TestScheduler_RejectsTasksAfterWait(t *testing.T) {
	s := NewScheduler(Options{})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Wait(ctx))

	task := s.Schedule(context.Background(), "late", func(context.Context) error {
		t.Fatal("late task must not run")
		return nil
	})

	waitDone(t, task)
	assert.ErrorIs(t, task.Err(), ErrSchedulerClosed)
}

func TestScheduler_WaitInterruptedByContext(t *testing.T) {
	s := NewScheduler(Options{})

	release := make(chan struct{})
	defer close(release)
	s.Schedule(context.Background(), "stuck", func(context.Context) error {
		<-release
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := s.Wait(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "drain interrupted")
}
