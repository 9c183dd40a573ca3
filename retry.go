package qdispatch

import (
	"errors"
	"math"
	"time"
)

// RetryPolicy defines retry behavior for a step
type RetryPolicy struct {
	MaxAttempts int
	Strategy    RetryStrategy
	Filter      func(error) bool
}

// RetryStrategy defines the interface for retry behavior
type RetryStrategy interface {
	NextDelay(attempt int) time.Duration
}

// ExponentialBackoff implements RetryStrategy
type ExponentialBackoff struct {
	Initial time.Duration
}

func (eb *ExponentialBackoff) NextDelay(attempt int) time.Duration {
	return eb.Initial * time.Duration(math.Pow(2, float64(attempt-1)))
}

/*
Retryable is the default retry filter. Only processor trouble is worth
another attempt: contract violations, failed assertions and undefined
variants come out the same every time.
*/
func Retryable(err error) bool {
	switch {
	case err == nil:
		return false
	case IsContractViolation(err),
		errors.Is(err, ErrAssertionFailed),
		errors.Is(err, ErrUnsupportedVariant),
		errors.Is(err, ErrForeignQubit),
		errors.Is(err, ErrInvalidOperands):
		return false
	}
	return true
}

// WithRetry configures retry behavior for a step
func WithRetry(attempts int, strategy RetryStrategy) StepOption {
	return func(s *Step) {
		s.RetryPolicy = &RetryPolicy{
			MaxAttempts: attempts,
			Strategy:    strategy,
			Filter:      Retryable,
		}
	}
}
