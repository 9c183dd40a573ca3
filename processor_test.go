package qdispatch

import (
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

type processorCall struct {
	Method   string
	Paulis   []Pauli
	Qubits   []*Qubit
	Controls []*Qubit
	Result   Result
	Prob     float64
	Msg      string
	Tol      float64
}

// countingProcessor records every call and returns err from each of them.
type countingProcessor struct {
	mu      sync.Mutex
	calls   []processorCall
	err     error
	outcome Result
}

func (cp *countingProcessor) record(call processorCall) {
	cp.mu.Lock()
	defer cp.mu.Unlock()
	cp.calls = append(cp.calls, call)
}

func (cp *countingProcessor) Calls() []processorCall {
	cp.mu.Lock()
	defer cp.mu.Unlock()
	return append([]processorCall(nil), cp.calls...)
}

func (cp *countingProcessor) Assert(paulis []Pauli, qubits []*Qubit, result Result, msg string) error {
	cp.record(processorCall{Method: "Assert", Paulis: paulis, Qubits: qubits, Result: result, Msg: msg})
	return cp.err
}

func (cp *countingProcessor) AssertProb(
	paulis []Pauli, qubits []*Qubit, result Result, prob float64, msg string, tol float64,
) error {
	cp.record(processorCall{
		Method: "AssertProb", Paulis: paulis, Qubits: qubits,
		Result: result, Prob: prob, Msg: msg, Tol: tol,
	})
	return cp.err
}

func (cp *countingProcessor) Measure(paulis []Pauli, qubits []*Qubit) (Result, error) {
	cp.record(processorCall{Method: "Measure", Paulis: paulis, Qubits: qubits})
	return cp.outcome, cp.err
}

func (cp *countingProcessor) X(qubit *Qubit) error {
	cp.record(processorCall{Method: "X", Qubits: []*Qubit{qubit}})
	return cp.err
}

func (cp *countingProcessor) ControlledX(controls []*Qubit, qubit *Qubit) error {
	cp.record(processorCall{Method: "ControlledX", Qubits: []*Qubit{qubit}, Controls: controls})
	return cp.err
}

func testQubits(n int) []*Qubit {
	out := make([]*Qubit, n)
	for i := range out {
		out[i] = NewQubit(i)
	}
	return out
}

func TestNullProcessor(t *testing.T) {
	Convey("Given a null processor", t, func() {
		var processor Processor = NewNullProcessor()
		q := testQubits(2)

		Convey("Every call should succeed", func() {
			So(processor.Assert([]Pauli{PauliZ}, q[:1], One, "m"), ShouldBeNil)
			So(processor.AssertProb([]Pauli{PauliZ}, q[:1], One, 0.5, "m", 1e-6), ShouldBeNil)
			So(processor.X(q[0]), ShouldBeNil)
			So(processor.ControlledX(q[:1], q[1]), ShouldBeNil)
		})

		Convey("Measurements should come back Zero", func() {
			result, err := processor.Measure([]Pauli{PauliX}, q[:1])
			So(err, ShouldBeNil)
			So(result, ShouldEqual, Zero)
		})
	})
}

func TestPauliAndResult(t *testing.T) {
	Convey("Given the basis and outcome labels", t, func() {
		Convey("Paulis should round trip through their names", func() {
			for _, p := range []Pauli{PauliI, PauliX, PauliY, PauliZ} {
				parsed, err := ParsePauli(p.String())
				So(err, ShouldBeNil)
				So(parsed, ShouldEqual, p)
			}

			parsed, err := ParsePauli("PauliY")
			So(err, ShouldBeNil)
			So(parsed, ShouldEqual, PauliY)
		})

		Convey("Unknown names should be rejected", func() {
			_, err := ParsePauli("W")
			So(err, ShouldNotBeNil)
		})

		Convey("Results should print their labels", func() {
			So(Zero.String(), ShouldEqual, "Zero")
			So(One.String(), ShouldEqual, "One")
		})
	})
}
