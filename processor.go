package qdispatch

/*
Processor is the pluggable backend that performs or records what an
operation does. The dispatcher validates and prunes operands before any
call reaches a processor, so implementations receive equal-length,
identity-free observables and do not check lengths themselves.

Errors returned by a processor travel back to the caller unchanged.
*/
type Processor interface {
	// Assert checks that measuring the observable would yield result with certainty.
	Assert(paulis []Pauli, qubits []*Qubit, result Result, msg string) error

	// AssertProb checks that measuring the observable yields result with
	// probability prob, within tol.
	AssertProb(paulis []Pauli, qubits []*Qubit, result Result, prob float64, msg string, tol float64) error

	// Measure performs a joint measurement of the observable.
	Measure(paulis []Pauli, qubits []*Qubit) (Result, error)

	X(qubit *Qubit) error
	ControlledX(controls []*Qubit, qubit *Qubit) error
}

/*
NullProcessor accepts every call and does nothing. Measurements always come
back Zero. It stands in for targets that only need the program to run.
*/
type NullProcessor struct{}

func NewNullProcessor() *NullProcessor {
	return &NullProcessor{}
}

func (*NullProcessor) Assert([]Pauli, []*Qubit, Result, string) error { return nil }

func (*NullProcessor) AssertProb([]Pauli, []*Qubit, Result, float64, string, float64) error {
	return nil
}

func (*NullProcessor) Measure([]Pauli, []*Qubit) (Result, error) { return Zero, nil }

func (*NullProcessor) X(*Qubit) error { return nil }

func (*NullProcessor) ControlledX([]*Qubit, *Qubit) error { return nil }
