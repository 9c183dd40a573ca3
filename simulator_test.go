package qdispatch

import (
	"errors"
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSimulatorProcessor(t *testing.T) {
	Convey("Given a simulator behind a dispatcher", t, func() {
		simulator := NewSimulatorProcessor(WithSeed(7))
		dispatcher := NewDispatcher(simulator, WithDiagnostics(NewRecordingDiagnostics()))
		q := simulator.Allocate(2)

		Convey("Fresh qubits should be in |0⟩", func() {
			So(dispatcher.Assert().Apply(AssertArgs{
				Paulis: []Pauli{PauliZ, PauliZ},
				Qubits: q,
				Result: Zero,
				Msg:    "both zero",
			}), ShouldBeNil)

			err := dispatcher.Assert().Apply(AssertArgs{
				Paulis: []Pauli{PauliZ, PauliI},
				Qubits: q,
				Result: One,
				Msg:    "q0 is one",
			})
			So(errors.Is(err, ErrAssertionFailed), ShouldBeTrue)

			var assertErr *AssertionError
			So(errors.As(err, &assertErr), ShouldBeTrue)
			So(assertErr.Msg, ShouldEqual, "q0 is one")
			So(assertErr.Probability, ShouldAlmostEqual, 0, 1e-9)
		})

		Convey("An X basis qubit in |0⟩ should be an even coin", func() {
			So(dispatcher.AssertProb().Apply(AssertProbArgs{
				Paulis:      []Pauli{PauliX},
				Qubits:      q[:1],
				Result:      Zero,
				Probability: 0.5,
				Tolerance:   1e-9,
			}), ShouldBeNil)
		})

		Convey("X should flip a qubit and its adjoint flip it back", func() {
			So(dispatcher.X().Apply(q[0]), ShouldBeNil)
			So(dispatcher.Assert().Apply(AssertArgs{
				Paulis: []Pauli{PauliZ}, Qubits: q[:1], Result: One,
			}), ShouldBeNil)

			So(dispatcher.X().ApplyAdjoint(q[0]), ShouldBeNil)
			So(dispatcher.Assert().Apply(AssertArgs{
				Paulis: []Pauli{PauliZ}, Qubits: q[:1], Result: Zero,
			}), ShouldBeNil)
		})

		Convey("Controlled X should only act when the control is set", func() {
			So(dispatcher.X().ApplyControlled(q[:1], q[1]), ShouldBeNil)
			So(dispatcher.Assert().Apply(AssertArgs{
				Paulis: []Pauli{PauliI, PauliZ}, Qubits: q, Result: Zero,
			}), ShouldBeNil)

			So(dispatcher.X().Apply(q[0]), ShouldBeNil)
			So(dispatcher.X().ApplyControlled(q[:1], q[1]), ShouldBeNil)
			So(dispatcher.Assert().Apply(AssertArgs{
				Paulis: []Pauli{PauliI, PauliZ}, Qubits: q, Result: One,
			}), ShouldBeNil)
		})

		Convey("Measuring in the X basis should collapse into an X eigenstate", func() {
			args := &MeasureArgs{Paulis: []Pauli{PauliX, PauliI}, Qubits: q}
			So(dispatcher.Measure().Apply(args), ShouldBeNil)

			So(dispatcher.Assert().Apply(AssertArgs{
				Paulis: []Pauli{PauliX}, Qubits: q[:1], Result: args.Outcome,
			}), ShouldBeNil)

			Convey("Entangling with controlled X should give correlated parities", func() {
				So(dispatcher.X().ApplyControlled(q[:1], q[1]), ShouldBeNil)

				So(dispatcher.Assert().Apply(AssertArgs{
					Paulis: []Pauli{PauliZ, PauliZ}, Qubits: q, Result: Zero, Msg: "even parity",
				}), ShouldBeNil)
				So(dispatcher.Assert().Apply(AssertArgs{
					Paulis: []Pauli{PauliX, PauliX}, Qubits: q, Result: args.Outcome, Msg: "xx parity",
				}), ShouldBeNil)

				p, err := simulator.Probability([]Pauli{PauliZ}, q[1:], One)
				So(err, ShouldBeNil)
				So(p, ShouldAlmostEqual, 0.5, 1e-9)
			})
		})

		Convey("Measuring in the Y basis should leave a Y eigenstate", func() {
			p, err := simulator.Probability([]Pauli{PauliY}, q[:1], Zero)
			So(err, ShouldBeNil)
			So(p, ShouldAlmostEqual, 0.5, 1e-9)

			args := &MeasureArgs{Paulis: []Pauli{PauliY}, Qubits: q[:1]}
			So(dispatcher.Measure().Apply(args), ShouldBeNil)

			p, err = simulator.Probability([]Pauli{PauliY}, q[:1], args.Outcome)
			So(err, ShouldBeNil)
			So(math.Abs(p-1), ShouldBeLessThan, 1e-9)
		})

		Convey("Qubits from elsewhere should be rejected", func() {
			err := dispatcher.Assert().Apply(AssertArgs{
				Paulis: []Pauli{PauliZ}, Qubits: testQubits(1), Result: Zero,
			})
			So(errors.Is(err, ErrForeignQubit), ShouldBeTrue)
		})

		Convey("An observable naming one qubit twice should be rejected", func() {
			twice := []*Qubit{q[0], q[0]}

			err := dispatcher.Assert().Apply(AssertArgs{
				Paulis: []Pauli{PauliX, PauliZ}, Qubits: twice, Result: Zero,
			})
			So(errors.Is(err, ErrInvalidOperands), ShouldBeTrue)

			_, err = simulator.Probability([]Pauli{PauliZ, PauliZ}, twice, Zero)
			So(errors.Is(err, ErrInvalidOperands), ShouldBeTrue)

			args := &MeasureArgs{Paulis: []Pauli{PauliY, PauliY}, Qubits: twice}
			So(errors.Is(dispatcher.Measure().Apply(args), ErrInvalidOperands), ShouldBeTrue)

			Convey("Identity factors are pruned before the check", func() {
				So(dispatcher.Assert().Apply(AssertArgs{
					Paulis: []Pauli{PauliI, PauliZ}, Qubits: twice, Result: Zero,
				}), ShouldBeNil)
			})
		})

		Convey("A qubit cannot control itself", func() {
			So(dispatcher.X().ApplyControlled(q[:1], q[0]), ShouldNotBeNil)
		})
	})
}
