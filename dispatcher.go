package qdispatch

import (
	"fmt"

	"github.com/theapemachine/errnie"
)

// AssertArgs is the operand tuple of the Assert operation.
type AssertArgs struct {
	Paulis []Pauli
	Qubits []*Qubit
	Result Result
	Msg    string
}

// AssertProbArgs is the operand tuple of the AssertProb operation.
type AssertProbArgs struct {
	Paulis      []Pauli
	Qubits      []*Qubit
	Result      Result
	Probability float64
	Msg         string
	Tolerance   float64
}

// MeasureArgs carries the observable in and the outcome back out.
type MeasureArgs struct {
	Paulis  []Pauli
	Qubits  []*Qubit
	Outcome Result
}

/*
Dispatcher adapts the intrinsic operations to the four-variant calling
convention and hands the normalized calls to a Processor. It keeps no state
between calls besides the processor reference it was built with, so one
dispatcher can serve concurrent callers when its processor can.
*/
type Dispatcher struct {
	processor   Processor
	diagnostics Diagnostics
	metrics     *Metrics

	assert     *Operation[AssertArgs]
	assertProb *Operation[AssertProbArgs]
	measure    *Operation[*MeasureArgs]
	x          *Operation[*Qubit]
}

// DispatcherOption is a function type for configuring dispatchers
type DispatcherOption func(*Dispatcher)

// WithDiagnostics routes contract violations to d instead of the process-wide hook.
func WithDiagnostics(d Diagnostics) DispatcherOption {
	return func(dp *Dispatcher) {
		dp.diagnostics = d
	}
}

func WithMetrics(m *Metrics) DispatcherOption {
	return func(dp *Dispatcher) {
		dp.metrics = m
	}
}

func NewDispatcher(processor Processor, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{processor: processor}

	for _, opt := range opts {
		opt(d)
	}

	d.assert = d.newAssert()
	d.assertProb = d.newAssertProb()
	d.measure = d.newMeasure()
	d.x = d.newX()

	if observer, ok := processor.(interface{ Observe(*Metrics) }); ok && d.metrics != nil {
		observer.Observe(d.metrics)
	}

	errnie.Debug("NewDispatcher - processor %T", processor)
	return d
}

func (d *Dispatcher) Processor() Processor { return d.processor }

func (d *Dispatcher) Assert() *Operation[AssertArgs] { return d.assert }

func (d *Dispatcher) AssertProb() *Operation[AssertProbArgs] { return d.assertProb }

func (d *Dispatcher) Measure() *Operation[*MeasureArgs] { return d.measure }

func (d *Dispatcher) X() *Operation[*Qubit] { return d.x }

/*
newAssert builds the Assert operation. Only the forward body does any work:
an assertion is a diagnostic checkpoint with no effect on the state, so its
adjoint and controlled forms acknowledge and return.
*/
func (d *Dispatcher) newAssert() *Operation[AssertArgs] {
	op := &Operation[AssertArgs]{Name: "Assert", metrics: d.metrics}

	op.Body = func(args AssertArgs) error {
		if err := d.checkObservable(op.Name, args.Paulis, args.Qubits); err != nil {
			return err
		}

		paulis, qubits := PruneObservable(args.Paulis, args.Qubits)
		return d.processor.Assert(paulis, qubits, args.Result, args.Msg)
	}
	op.AdjointBody = func(AssertArgs) error { return nil }
	op.ControlledBody = func([]*Qubit, AssertArgs) error { return nil }
	op.ControlledAdjointBody = func([]*Qubit, AssertArgs) error { return nil }

	return op
}

func (d *Dispatcher) newAssertProb() *Operation[AssertProbArgs] {
	op := &Operation[AssertProbArgs]{Name: "AssertProb", metrics: d.metrics}

	op.Body = func(args AssertProbArgs) error {
		if err := d.checkObservable(op.Name, args.Paulis, args.Qubits); err != nil {
			return err
		}

		paulis, qubits := PruneObservable(args.Paulis, args.Qubits)
		return d.processor.AssertProb(
			paulis, qubits, args.Result, args.Probability, args.Msg, args.Tolerance,
		)
	}
	op.AdjointBody = func(AssertProbArgs) error { return nil }
	op.ControlledBody = func([]*Qubit, AssertProbArgs) error { return nil }
	op.ControlledAdjointBody = func([]*Qubit, AssertProbArgs) error { return nil }

	return op
}

// Measurement is irreversible, so only the forward body is defined.
func (d *Dispatcher) newMeasure() *Operation[*MeasureArgs] {
	op := &Operation[*MeasureArgs]{Name: "Measure", metrics: d.metrics}

	op.Body = func(args *MeasureArgs) error {
		if args == nil {
			return fmt.Errorf("%s: nil operands: %w", op.Name, ErrInvalidOperands)
		}

		if err := d.checkObservable(op.Name, args.Paulis, args.Qubits); err != nil {
			return err
		}

		paulis, qubits := PruneObservable(args.Paulis, args.Qubits)
		if len(paulis) == 0 {
			// The identity observable has eigenvalue +1 everywhere.
			args.Outcome = Zero
			return nil
		}

		result, err := d.processor.Measure(paulis, qubits)
		if err != nil {
			return err
		}

		args.Outcome = result
		return nil
	}

	return op
}

// X is its own inverse; an empty control set is the plain gate.
func (d *Dispatcher) newX() *Operation[*Qubit] {
	op := &Operation[*Qubit]{Name: "X", metrics: d.metrics}

	op.Body = func(qubit *Qubit) error {
		return d.processor.X(qubit)
	}
	op.AdjointBody = op.Body
	op.ControlledBody = func(controls []*Qubit, qubit *Qubit) error {
		if len(controls) == 0 {
			return d.processor.X(qubit)
		}
		return d.processor.ControlledX(controls, qubit)
	}
	op.ControlledAdjointBody = op.ControlledBody

	return op
}

/*
checkObservable enforces the equal-length contract. A violation is first
recorded on the diagnostics channel, then surfaced as a ContractError.
*/
func (d *Dispatcher) checkObservable(name string, paulis []Pauli, qubits []*Qubit) error {
	if checkObservable(paulis, qubits) {
		return nil
	}

	d.diagnosticsHook().Assert(false, "Arrays length mismatch", paulis, qubitIDs(qubits))

	if d.metrics != nil {
		d.metrics.recordContractViolation(name)
	}

	return &ContractError{
		Operation:  name,
		PauliCount: len(paulis),
		QubitCount: len(qubits),
	}
}

func (d *Dispatcher) diagnosticsHook() Diagnostics {
	if d.diagnostics != nil {
		return d.diagnostics
	}
	return DefaultDiagnostics()
}
