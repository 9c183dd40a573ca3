package qdispatch

import (
	"errors"
	"fmt"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestGuardedProcessor(t *testing.T) {
	Convey("Given a guarded processor with a circuit breaker", t, func() {
		inner := &countingProcessor{}
		breaker := NewCircuitBreaker(2, time.Minute, 1)
		guarded := NewGuardedProcessor(inner, WithCircuitBreaker(breaker))
		dispatcher := NewDispatcher(guarded, WithDiagnostics(NewRecordingDiagnostics()))
		q := testQubits(1)

		Convey("When the inner processor keeps failing", func() {
			boom := errors.New("link down")
			inner.err = boom

			So(dispatcher.X().Apply(q[0]), ShouldEqual, boom)
			So(dispatcher.X().Apply(q[0]), ShouldEqual, boom)

			Convey("The breaker should open and stop forwarding", func() {
				err := dispatcher.X().Apply(q[0])

				So(errors.Is(err, ErrCircuitOpen), ShouldBeTrue)
				So(breaker.State(), ShouldEqual, CircuitOpen)
				So(inner.Calls(), ShouldHaveLength, 2)
			})
		})

		Convey("Failed assertions should not trip the breaker", func() {
			inner.err = fmt.Errorf("checked: %w", &AssertionError{Msg: "nope"})
			args := AssertArgs{Paulis: []Pauli{PauliZ}, Qubits: q}

			for i := 0; i < 3; i++ {
				So(errors.Is(dispatcher.Assert().Apply(args), ErrAssertionFailed), ShouldBeTrue)
			}
			So(breaker.State(), ShouldEqual, CircuitClosed)
		})
	})

	Convey("Given a guarded simulator with a circuit breaker", t, func() {
		simulator := NewSimulatorProcessor(WithSeed(5))
		breaker := NewCircuitBreaker(2, time.Minute, 1)
		guarded := NewGuardedProcessor(simulator, WithCircuitBreaker(breaker))
		own := simulator.Allocate(1)

		Convey("Qubits the simulator does not own should not trip the breaker", func() {
			stranger := testQubits(1)

			for i := 0; i < 3; i++ {
				So(errors.Is(guarded.X(stranger[0]), ErrForeignQubit), ShouldBeTrue)
			}
			So(breaker.State(), ShouldEqual, CircuitClosed)
			So(guarded.X(own[0]), ShouldBeNil)
		})

		Convey("Malformed observables should not trip the breaker either", func() {
			twice := []*Qubit{own[0], own[0]}

			for i := 0; i < 3; i++ {
				_, err := guarded.Measure([]Pauli{PauliX, PauliZ}, twice)
				So(errors.Is(err, ErrInvalidOperands), ShouldBeTrue)
			}
			So(breaker.State(), ShouldEqual, CircuitClosed)
		})
	})

	Convey("Given a guarded processor with a rate limiter", t, func() {
		inner := &countingProcessor{}
		guarded := NewGuardedProcessor(inner, WithRateLimiter(NewRateLimiter(2, time.Hour)))
		q := testQubits(1)

		Convey("Calls beyond the bucket should be rejected", func() {
			So(guarded.X(q[0]), ShouldBeNil)
			So(guarded.X(q[0]), ShouldBeNil)

			_, err := guarded.Measure([]Pauli{PauliZ}, q)
			So(errors.Is(err, ErrRateLimited), ShouldBeTrue)
			So(inner.Calls(), ShouldHaveLength, 2)
		})

		Convey("It should pass metrics on to its regulators", func() {
			metrics := NewMetrics()
			NewDispatcher(guarded, WithMetrics(metrics))

			So(guarded.limiter.metrics, ShouldEqual, metrics)
		})
	})
}
