package qdispatch

import (
	"errors"
	"fmt"
)

/*
GuardedProcessor puts regulators in front of another processor. A call is
rejected with ErrCircuitOpen or ErrRateLimited when a regulator holds it
back; otherwise it is forwarded and whatever the inner processor returns
comes back unchanged.

Failed assertions and operands the processor cannot accept are the
program's business, so they do not count against the circuit breaker.
*/
type GuardedProcessor struct {
	inner   Processor
	breaker *CircuitBreaker
	limiter *RateLimiter
}

// GuardOption is a function type for configuring a GuardedProcessor
type GuardOption func(*GuardedProcessor)

func WithCircuitBreaker(breaker *CircuitBreaker) GuardOption {
	return func(g *GuardedProcessor) {
		g.breaker = breaker
	}
}

func WithRateLimiter(limiter *RateLimiter) GuardOption {
	return func(g *GuardedProcessor) {
		g.limiter = limiter
	}
}

func NewGuardedProcessor(inner Processor, opts ...GuardOption) *GuardedProcessor {
	g := &GuardedProcessor{inner: inner}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Observe passes dispatch metrics on to every regulator in the guard.
func (g *GuardedProcessor) Observe(metrics *Metrics) {
	for _, r := range g.regulators() {
		r.Observe(metrics)
	}
}

// Renormalize asks every regulator to return to normal operation.
func (g *GuardedProcessor) Renormalize() {
	for _, r := range g.regulators() {
		r.Renormalize()
	}
}

func (g *GuardedProcessor) regulators() []Regulator {
	var out []Regulator
	if g.breaker != nil {
		out = append(out, g.breaker)
	}
	if g.limiter != nil {
		out = append(out, g.limiter)
	}
	return out
}

func (g *GuardedProcessor) guard(name string, call func() error) error {
	if g.breaker != nil && !g.breaker.Allow() {
		return fmt.Errorf("%s: %w", name, ErrCircuitOpen)
	}

	if g.limiter != nil && g.limiter.Limit() {
		return fmt.Errorf("%s: %w", name, ErrRateLimited)
	}

	err := call()

	if g.breaker != nil {
		if unhealthy(err) {
			g.breaker.RecordFailure()
		} else {
			g.breaker.RecordSuccess()
		}
	}

	return err
}

// unhealthy reports whether err says something about the processor rather than the caller.
func unhealthy(err error) bool {
	switch {
	case err == nil,
		errors.Is(err, ErrAssertionFailed),
		errors.Is(err, ErrForeignQubit),
		errors.Is(err, ErrInvalidOperands):
		return false
	}
	return true
}

func (g *GuardedProcessor) Assert(paulis []Pauli, qubits []*Qubit, result Result, msg string) error {
	return g.guard("Assert", func() error {
		return g.inner.Assert(paulis, qubits, result, msg)
	})
}

func (g *GuardedProcessor) AssertProb(
	paulis []Pauli, qubits []*Qubit, result Result, prob float64, msg string, tol float64,
) error {
	return g.guard("AssertProb", func() error {
		return g.inner.AssertProb(paulis, qubits, result, prob, msg, tol)
	})
}

func (g *GuardedProcessor) Measure(paulis []Pauli, qubits []*Qubit) (result Result, err error) {
	err = g.guard("Measure", func() error {
		var innerErr error
		result, innerErr = g.inner.Measure(paulis, qubits)
		return innerErr
	})
	return result, err
}

func (g *GuardedProcessor) X(qubit *Qubit) error {
	return g.guard("X", func() error {
		return g.inner.X(qubit)
	})
}

func (g *GuardedProcessor) ControlledX(controls []*Qubit, qubit *Qubit) error {
	return g.guard("ControlledX", func() error {
		return g.inner.ControlledX(controls, qubit)
	})
}
