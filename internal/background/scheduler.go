// Package background runs best-effort deferred work (e.g. archiving a scan
// screenshot) decoupled from the primary response path. The execution
// environment may terminate pending work as soon as a response is sent, so
// tasks run on an explicitly detached context with their own deadline.
package background

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrSchedulerClosed is returned by tasks scheduled after shutdown began.
var ErrSchedulerClosed = errors.New("background scheduler is closed")

// Task is the handle for one scheduled unit of work. It exposes completion
// and failure observation without coupling the caller to the work itself.
type Task struct {
	ID   string
	Name string

	done chan struct{}
	err  error
}

// Done returns a channel closed when the task finishes (successfully or not).
func (t *Task) Done() <-chan struct{} { return t.done }

// Err returns the task's failure, valid once Done is closed.
func (t *Task) Err() error { return t.err }

func (t *Task) finish(err error) {
	t.err = err
	close(t.done)
}

// Options configures the scheduler.
type Options struct {
	Logger *slog.Logger // Optional: structured logger
	// TaskTimeout bounds each task's detached context. Defaults to 2 minutes.
	TaskTimeout time.Duration
}

// Scheduler accepts deferred work at the moment a primary result is produced
// and guarantees exactly one attempt, independent of whether the caller is
// still waiting. Failures are logged, never surfaced to the original caller,
// and never retried: a missing artifact is an acceptable degraded outcome.
type Scheduler struct {
	logger  *slog.Logger
	timeout time.Duration

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// NewScheduler constructs a Scheduler.
func NewScheduler(opts Options) *Scheduler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeout := opts.TaskTimeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &Scheduler{
		logger:  logger.With("component", "background_scheduler"),
		timeout: timeout,
	}
}

// Schedule runs fn once on a context detached from ctx's cancellation, so
// the work outlives the response that triggered it. The returned Task
// reports completion; the primary path is never blocked or failed by it.
func (s *Scheduler) Schedule(ctx context.Context, name string, fn func(context.Context) error) *Task {
	task := &Task{ID: uuid.NewString(), Name: name, done: make(chan struct{})}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.logger.WarnContext(ctx, "task rejected, scheduler closed", "task", name)
		task.finish(ErrSchedulerClosed)
		return task
	}
	s.wg.Add(1)
	s.mu.Unlock()

	// Keep request-scoped values (trace ids etc.) but drop the cancellation,
	// replacing it with the scheduler's own deadline.
	taskCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)

	go func() {
		defer s.wg.Done()
		defer cancel()

		err := s.runTask(taskCtx, task, fn)
		task.finish(err)

		if err != nil {
			s.logger.ErrorContext(taskCtx, "background task failed",
				"task", task.Name, "task_id", task.ID, "error", err)
			return
		}
		s.logger.DebugContext(taskCtx, "background task completed",
			"task", task.Name, "task_id", task.ID)
	}()

	return task
}

func (s *Scheduler) runTask(ctx context.Context, task *Task, fn func(context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("background task %s panicked: %v", task.Name, r)
		}
	}()
	return fn(ctx)
}

// Wait blocks until all in-flight tasks finish or ctx is done. Call during
// graceful shutdown so deferred work is not lost at process exit.
func (s *Scheduler) Wait(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("background scheduler drain interrupted: %w", ctx.Err())
	case <-done:
		return nil
	}
}
