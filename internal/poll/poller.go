package poll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/factgate/factgate/internal/domain/model"
)

// Outcome classifies the terminal result of a polling session.
type Outcome string

const (
	// OutcomeSuccess means the job completed and Payload is valid.
	OutcomeSuccess Outcome = "success"
	// OutcomeFailure means the job cannot complete (bad submit or remote failure).
	OutcomeFailure Outcome = "failure"
	// OutcomeTimedOut means the attempt ceiling was reached before a terminal
	// state; ResultURL carries the best-known manual-review reference.
	OutcomeTimedOut Outcome = "timed_out"
)

// Result is the terminal value of a polling session. Callers always receive
// one; the poller never exposes an adapter that could hang forever.
type Result[R any] struct {
	Outcome Outcome
	// Payload is valid only when Outcome is OutcomeSuccess.
	Payload R
	// Reason explains failures and timeouts.
	Reason string
	// ResultURL is the last-known human-facing reference for the job.
	ResultURL string
	// Job describes the submission, when one succeeded.
	Job *model.VerificationJob
	// Attempts lists the numbered poll attempts of this session.
	Attempts []model.PollAttempt
}

// Sleeper pauses between poll attempts. Injectable so tests run without
// real delays.
type Sleeper func(ctx context.Context, d time.Duration) error

// ContextSleep sleeps for d or until the context is done.
func ContextSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Options groups dependencies for a Poller.
type Options[Q, R any] struct {
	Adapter Adapter[Q, R] // Required: the job-type specific adapter
	Policy  Policy        // Required: interval and ceiling policy
	Logger  *slog.Logger  // Optional: structured logger
	Sleep   Sleeper       // Optional: override for tests
}

// Poller drives an Adapter through submit → repeated poll → terminal state,
// owning all timing decisions. Adapters stay two-method thin; every job type
// shares the same timeout and backoff behavior.
type Poller[Q, R any] struct {
	adapter Adapter[Q, R]
	policy  Policy
	logger  *slog.Logger
	sleep   Sleeper
}

// New constructs a Poller.
func New[Q, R any](opts Options[Q, R]) (*Poller[Q, R], error) {
	if opts.Adapter == nil {
		return nil, errors.New("poll: adapter is required")
	}
	if opts.Policy == nil {
		return nil, errors.New("poll: policy is required")
	}
	if opts.Policy.MaxAttempts() <= 0 {
		return nil, errors.New("poll: policy must allow at least one attempt")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	sleep := opts.Sleep
	if sleep == nil {
		sleep = ContextSleep
	}

	return &Poller[Q, R]{
		adapter: opts.Adapter,
		policy:  opts.Policy,
		logger:  logger.With("component", "poller", "kind", opts.Adapter.Kind()),
		sleep:   sleep,
	}, nil
}

// Run submits the request and polls until a terminal Result. Submission
// failures are not retried; they are assumed non-transient (bad input or
// remote rejection). Poll transport errors count against the ceiling.
func (p *Poller[Q, R]) Run(ctx context.Context, req Q) Result[R] {
	sub, err := p.adapter.Submit(ctx, req)
	if err != nil {
		p.logger.ErrorContext(ctx, "job submission failed", "error", err)
		return Result[R]{
			Outcome: OutcomeFailure,
			Reason:  fmt.Sprintf("submit: %v", err),
		}
	}

	job := &model.VerificationJob{
		JobID:       sub.Handle.ID,
		Kind:        p.adapter.Kind(),
		SubmittedAt: time.Now(),
		ResultURL:   sub.Handle.ResultURL,
	}

	if sub.Immediate != nil && sub.Immediate.Phase.Terminal() {
		p.logger.DebugContext(ctx, "job completed at submission", "job_id", job.JobID)
		return p.terminal(job, nil, *sub.Immediate)
	}

	return p.pollLoop(ctx, sub.Handle, job)
}

func (p *Poller[Q, R]) pollLoop(
	ctx context.Context,
	handle Handle,
	job *model.VerificationJob,
) Result[R] {
	max := p.policy.MaxAttempts()
	intervals := p.policy.Intervals()
	attempts := make([]model.PollAttempt, 0, max)

	for n := 1; n <= max; n++ {
		status, err := p.adapter.Poll(ctx, handle)
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return p.canceled(ctx, job, attempts)
			}
			attempts = append(attempts, attempt(n, model.AttemptTransientError))
			p.logger.DebugContext(ctx, "poll attempt failed",
				"job_id", job.JobID, "attempt", n, "error", err)
		case status.Phase.Terminal():
			attempts = append(attempts, attempt(n, model.AttemptTerminal))
			return p.terminal(job, attempts, status)
		default:
			attempts = append(attempts, attempt(n, model.AttemptPending))
			p.logger.DebugContext(ctx, "job still pending",
				"job_id", job.JobID, "attempt", n, "phase", status.Phase)
		}

		if n < max {
			if serr := p.sleep(ctx, intervals.Next()); serr != nil {
				return p.canceled(ctx, job, attempts)
			}
		}
	}

	p.logger.WarnContext(ctx, "poll ceiling reached",
		"job_id", job.JobID, "attempts", max, "result_url", job.ResultURL)
	return Result[R]{
		Outcome:   OutcomeTimedOut,
		Reason:    fmt.Sprintf("no terminal state after %d poll attempts", max),
		ResultURL: job.ResultURL,
		Job:       job,
		Attempts:  attempts,
	}
}

func (p *Poller[Q, R]) terminal(
	job *model.VerificationJob,
	attempts []model.PollAttempt,
	status Status[R],
) Result[R] {
	if status.Phase == PhaseFailed {
		return Result[R]{
			Outcome:   OutcomeFailure,
			Reason:    status.Reason,
			ResultURL: job.ResultURL,
			Job:       job,
			Attempts:  attempts,
		}
	}
	return Result[R]{
		Outcome:   OutcomeSuccess,
		Payload:   status.Payload,
		ResultURL: job.ResultURL,
		Job:       job,
		Attempts:  attempts,
	}
}

func (p *Poller[Q, R]) canceled(
	ctx context.Context,
	job *model.VerificationJob,
	attempts []model.PollAttempt,
) Result[R] {
	return Result[R]{
		Outcome:   OutcomeFailure,
		Reason:    fmt.Sprintf("polling canceled: %v", ctx.Err()),
		ResultURL: job.ResultURL,
		Job:       job,
		Attempts:  attempts,
	}
}

func attempt(n int, outcome model.AttemptOutcome) model.PollAttempt {
	return model.PollAttempt{Number: n, At: time.Now(), Outcome: outcome}
}
