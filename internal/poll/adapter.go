// Package poll implements the generic submit-then-poll engine that drives
// asynchronously-completing external jobs (reputation scans, malicious-URL
// scans, warehouse queries) to a terminal result with bounded latency.
package poll

import (
	"context"
	"errors"

	"github.com/factgate/factgate/internal/domain/model"
)

// ErrMalformedResponse indicates an upstream response did not match the
// adapter's expected schema. It is a transport-level failure: the poller
// counts it against the attempt ceiling instead of surfacing it.
var ErrMalformedResponse = errors.New("malformed upstream response")

// Phase is the normalized lifecycle phase of a remote job.
type Phase string

const (
	// PhaseQueued means the remote system accepted the job but has not started it.
	PhaseQueued Phase = "queued"
	// PhaseProcessing means the remote system is working on the job.
	PhaseProcessing Phase = "processing"
	// PhaseSucceeded means the job completed and a payload is available.
	PhaseSucceeded Phase = "succeeded"
	// PhaseFailed means the remote system abandoned the job.
	PhaseFailed Phase = "failed"
)

// Terminal reports whether the phase ends a polling session.
func (p Phase) Terminal() bool {
	return p == PhaseSucceeded || p == PhaseFailed
}

// Status is a normalized poll response.
type Status[R any] struct {
	Phase Phase
	// Payload is valid only when Phase is PhaseSucceeded.
	Payload R
	// Reason describes the remote failure when Phase is PhaseFailed.
	Reason string
}

// Handle identifies a submitted job at the remote system.
type Handle struct {
	ID string
	// ResultURL is an optional human-facing reference (e.g. a public results
	// page) that remains useful even if polling never completes.
	ResultURL string
}

// Submission is the outcome of a successful submit call. Some upstreams
// return a finished result inline; Immediate carries it so the poller can
// short-circuit without a single poll round trip.
type Submission[R any] struct {
	Handle    Handle
	Immediate *Status[R]
}

// Adapter knows how to submit one kind of external job and how to interpret
// a raw poll response. Implementations must be pure with respect to polling
// side effects: Poll performs exactly one network round trip and never
// sleeps or retries; all timing decisions belong to the Poller.
type Adapter[Q, R any] interface {
	Kind() model.JobKind
	Submit(ctx context.Context, req Q) (Submission[R], error)
	Poll(ctx context.Context, h Handle) (Status[R], error)
}
