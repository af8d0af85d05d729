// Package backoff provides the delay strategies shard runners use between
// reconnect attempts. All strategies are stateless and safe for concurrent
// use.
package backoff

import (
	"math"
	"math/rand/v2"
	"time"
)

// Strategy computes the delay before a reconnect attempt.
type Strategy interface {
	// Delay returns how long to wait before attempt n (1-indexed).
	Delay(attempt int) time.Duration
}

// Constant always returns the same delay.
type Constant struct {
	Interval time.Duration
}

// NewConstant creates a constant strategy.
func NewConstant(interval time.Duration) *Constant {
	return &Constant{Interval: interval}
}

// Delay returns the fixed interval.
func (c *Constant) Delay(_ int) time.Duration { return c.Interval }

// Exponential doubles the delay each attempt, capped at Max.
type Exponential struct {
	Initial time.Duration
	Max     time.Duration
}

// NewExponential creates an exponential strategy.
func NewExponential(initial, maxDelay time.Duration) *Exponential {
	return &Exponential{Initial: initial, Max: maxDelay}
}

// Delay returns Initial * 2^(attempt-1), capped at Max.
func (e *Exponential) Delay(attempt int) time.Duration {
	d := time.Duration(float64(e.Initial) * math.Pow(2, float64(attempt-1)))
	if e.Max > 0 && d > e.Max {
		return e.Max
	}
	return d
}

// ExponentialWithJitter picks uniformly in [0, exponential cap], spreading
// a fleet's simultaneous reconnects apart.
type ExponentialWithJitter struct {
	Initial time.Duration
	Max     time.Duration
}

// NewExponentialWithJitter creates a full-jitter exponential strategy.
func NewExponentialWithJitter(initial, maxDelay time.Duration) *ExponentialWithJitter {
	return &ExponentialWithJitter{Initial: initial, Max: maxDelay}
}

// Delay returns a random duration in [0, min(Initial * 2^(attempt-1), Max)].
func (e *ExponentialWithJitter) Delay(attempt int) time.Duration {
	base := float64(e.Initial) * math.Pow(2, float64(attempt-1))
	if e.Max > 0 && base > float64(e.Max) {
		base = float64(e.Max)
	}
	return time.Duration(rand.Float64() * base) //nolint:gosec // jitter intentionally uses non-crypto rand
}
