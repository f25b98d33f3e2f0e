package poll

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFixedPolicy_ConstantIntervals(t *testing.T) {
	p := FixedPolicy{Interval: 2 * time.Second, Attempts: 15}

	assert.Equal(t, 15, p.MaxAttempts())

	seq := p.Intervals()
	for range 5 {
		assert.Equal(t, 2*time.Second, seq.Next())
	}
}

func TestExponentialPolicy_DoublesEachAttempt(t *testing.T) {
	p := ExponentialPolicy{Initial: time.Second, Attempts: 10}

	assert.Equal(t, 10, p.MaxAttempts())

	seq := p.Intervals()
	assert.Equal(t, 1*time.Second, seq.Next())
	assert.Equal(t, 2*time.Second, seq.Next())
	assert.Equal(t, 4*time.Second, seq.Next())
	assert.Equal(t, 8*time.Second, seq.Next())
}

func TestExponentialPolicy_FreshSequencePerSession(t *testing.T) {
	p := ExponentialPolicy{Initial: time.Second, Attempts: 10}

	first := p.Intervals()
	first.Next()
	first.Next()

	// A new session must start over at the initial interval.
	second := p.Intervals()
	assert.Equal(t, 1*time.Second, second.Next())
}

func TestDefaultPolicies(t *testing.T) {
	scan := DefaultScanPolicy()
	assert.Equal(t, DefaultScanAttempts, scan.MaxAttempts())
	assert.Equal(t, DefaultScanInterval, scan.Intervals().Next())

	wh := DefaultWarehousePolicy()
	assert.Equal(t, DefaultWarehouseAttempts, wh.MaxAttempts())
	assert.Equal(t, DefaultWarehouseInitialInterval, wh.Intervals().Next())
}
