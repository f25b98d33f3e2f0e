package poll

import (
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	// DefaultScanInterval is the fixed wait between scan poll attempts.
	DefaultScanInterval = 2 * time.Second
	// DefaultScanAttempts is the poll ceiling for reputation and URL scans.
	DefaultScanAttempts = 15
	// DefaultWarehouseInitialInterval seeds the warehouse backoff sequence.
	DefaultWarehouseInitialInterval = 1 * time.Second
	// DefaultWarehouseAttempts is the poll ceiling for warehouse queries.
	DefaultWarehouseAttempts = 10
)

// IntervalSeq yields successive sleep intervals within one polling session.
type IntervalSeq interface {
	Next() time.Duration
}

// Policy owns the timing decisions of a polling session: how long to wait
// between attempts and how many attempts to make before giving up.
type Policy interface {
	MaxAttempts() int
	// Intervals returns a fresh interval sequence for one session.
	Intervals() IntervalSeq
}

// FixedPolicy polls at a constant interval, as the scan upstreams expect.
type FixedPolicy struct {
	Interval time.Duration
	Attempts int
}

// MaxAttempts implements Policy.
func (p FixedPolicy) MaxAttempts() int { return p.Attempts }

// Intervals implements Policy.
func (p FixedPolicy) Intervals() IntervalSeq { return fixedSeq(p.Interval) }

type fixedSeq time.Duration

func (s fixedSeq) Next() time.Duration { return time.Duration(s) }

// ExponentialPolicy doubles the wait after every attempt, starting at
// Initial. Warehouse queries use it so short queries finish fast while long
// ones do not hammer the results endpoint.
type ExponentialPolicy struct {
	Initial  time.Duration
	Attempts int
}

// MaxAttempts implements Policy.
func (p ExponentialPolicy) MaxAttempts() int { return p.Attempts }

// Intervals implements Policy.
func (p ExponentialPolicy) Intervals() IntervalSeq {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.Initial
	b.Multiplier = 2
	// Deterministic intervals: the ceiling already bounds worst-case latency.
	b.RandomizationFactor = 0
	b.MaxElapsedTime = 0
	b.Reset()
	return backoffSeq{b}
}

type backoffSeq struct {
	b *backoff.ExponentialBackOff
}

func (s backoffSeq) Next() time.Duration { return s.b.NextBackOff() }

// DefaultScanPolicy is the policy for reputation and malicious-URL scans.
func DefaultScanPolicy() Policy {
	return FixedPolicy{Interval: DefaultScanInterval, Attempts: DefaultScanAttempts}
}

// DefaultWarehousePolicy is the policy for warehouse query jobs.
func DefaultWarehousePolicy() Policy {
	return ExponentialPolicy{Initial: DefaultWarehouseInitialInterval, Attempts: DefaultWarehouseAttempts}
}
