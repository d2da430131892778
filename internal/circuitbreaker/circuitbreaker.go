// Package circuitbreaker wraps sony/gobreaker/v2 so that a venue operation
// stuck failing stops being hammered within a single scan cycle without
// aborting the cycle itself — the caller still sees an error and treats it
// as a local FetchFailure.
package circuitbreaker

import (
	"context"
	"time"

	"github.com/sony/gobreaker/v2"
)

// Breaker wraps one gobreaker.CircuitBreaker instance for a single
// (venue, operation) pair.
type Breaker[T any] struct {
	cb *gobreaker.CircuitBreaker[T]
}

// New builds a breaker named name that opens once at least 60% of the
// requests counted in the current one-minute interval have failed, with
// at least 5 requests counted, and stays open for openTimeout before
// allowing a half-open probe.
func New[T any](name string, openTimeout time.Duration) *Breaker[T] {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.Requests >= 5 && float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
	}
	return &Breaker[T]{cb: gobreaker.NewCircuitBreaker[T](settings)}
}

// Execute runs fn through the breaker. If the breaker is open, fn is not
// called and gobreaker.ErrOpenState is returned.
func (b *Breaker[T]) Execute(ctx context.Context, fn func(ctx context.Context) (T, error)) (T, error) {
	return b.cb.Execute(func() (T, error) {
		return fn(ctx)
	})
}

// State returns the breaker's current state name, for health/metric checks.
func (b *Breaker[T]) State() string {
	return b.cb.State().String()
}
