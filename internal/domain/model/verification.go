package model

import (
	"fmt"
	"strings"
	"time"
)

// JobKind identifies which external verification job type a job belongs to.
//
//nolint:recvcheck // UnmarshalText needs pointer receiver, Valid needs value receiver
type JobKind string

const (
	// JobKindReputationScan is a URL reputation scan job.
	JobKindReputationScan JobKind = "reputation_scan"
	// JobKindMaliciousURLScan is a malicious-URL scan job.
	JobKindMaliciousURLScan JobKind = "malicious_url_scan"
	// JobKindWarehouseQuery is an analytical warehouse query job.
	JobKindWarehouseQuery JobKind = "warehouse_query"
)

// Valid returns true if the JobKind is one of the known values.
func (k JobKind) Valid() bool {
	return k == JobKindReputationScan || k == JobKindMaliciousURLScan || k == JobKindWarehouseQuery
}

// UnmarshalText implements encoding.TextUnmarshaler for JobKind.
func (k *JobKind) UnmarshalText(text []byte) error {
	v := JobKind(strings.ToLower(strings.TrimSpace(string(text))))
	if !v.Valid() {
		return fmt.Errorf("invalid JobKind: %q", string(text))
	}
	*k = v
	return nil
}

// VerificationJob describes one submitted external job. It is created on
// successful submission and immutable afterwards; the poller references it
// but never owns or mutates it.
type VerificationJob struct {
	JobID       string    `json:"job_id"`
	Kind        JobKind   `json:"kind"`
	SubmittedAt time.Time `json:"submitted_at"`
	// ResultURL is a human-facing reference (e.g. a public results page)
	// usable for manual review even when polling never completes.
	ResultURL string `json:"result_url,omitempty"`
}

// AttemptOutcome classifies a single poll attempt within a polling session.
type AttemptOutcome string

const (
	// AttemptPending means the remote job was still queued or processing.
	AttemptPending AttemptOutcome = "pending"
	// AttemptTerminal means the remote job reached a terminal state.
	AttemptTerminal AttemptOutcome = "terminal"
	// AttemptTransientError means the poll round trip itself failed.
	AttemptTransientError AttemptOutcome = "transient_error"
)

// PollAttempt records one numbered poll attempt. Attempts exist only within
// a single polling session and are never persisted.
type PollAttempt struct {
	Number  int            `json:"number"`
	At      time.Time      `json:"at"`
	Outcome AttemptOutcome `json:"outcome"`
}
