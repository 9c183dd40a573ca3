package qdispatch

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sync"

	"github.com/theapemachine/errnie"
)

/*
SimulatorProcessor executes operations on a local state vector. One
simulator is usually shared by the dispatchers of every intrinsic in a
program, so all state access is serialized behind a mutex and calls are
applied in the order they arrive.
*/
type SimulatorProcessor struct {
	mu        sync.Mutex
	state     *QuantumState
	qubits    []*Qubit
	tolerance float64
	rng       *rand.Rand
}

// SimulatorOption is a function type for configuring simulators
type SimulatorOption func(*SimulatorProcessor)

// WithTolerance sets how far from certainty Assert may be before it fails.
func WithTolerance(tol float64) SimulatorOption {
	return func(s *SimulatorProcessor) {
		s.tolerance = tol
	}
}

// WithSeed makes measurement outcomes reproducible.
func WithSeed(seed uint64) SimulatorOption {
	return func(s *SimulatorProcessor) {
		s.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

func NewSimulatorProcessor(opts ...SimulatorOption) *SimulatorProcessor {
	s := &SimulatorProcessor{
		state:     newQuantumState(),
		tolerance: 1e-9,
		rng:       rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Allocate adds n qubits in |0⟩ and returns their handles.
func (s *SimulatorProcessor) Allocate(n int) []*Qubit {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*Qubit, n)
	for i := range out {
		q := &Qubit{id: s.state.grow(), owner: s}
		s.qubits = append(s.qubits, q)
		out[i] = q
	}

	errnie.Debug("allocated %d qubits, total %d", n, len(s.qubits))
	return out
}

// Probability reports the chance of result when measuring the observable, without collapsing.
func (s *SimulatorProcessor) Probability(paulis []Pauli, qubits []*Qubit, result Result) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bits, err := s.observableBits(qubits)
	if err != nil {
		return 0, err
	}
	return s.state.probability(result, paulis, bits), nil
}

func (s *SimulatorProcessor) Assert(paulis []Pauli, qubits []*Qubit, result Result, msg string) error {
	return s.AssertProb(paulis, qubits, result, 1, msg, s.tolerance)
}

func (s *SimulatorProcessor) AssertProb(
	paulis []Pauli, qubits []*Qubit, result Result, prob float64, msg string, tol float64,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bits, err := s.observableBits(qubits)
	if err != nil {
		return err
	}

	actual := s.state.probability(result, paulis, bits)
	if math.Abs(actual-prob) > tol {
		return &AssertionError{Msg: msg, Expected: prob, Probability: actual}
	}

	return nil
}

func (s *SimulatorProcessor) Measure(paulis []Pauli, qubits []*Qubit) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bits, err := s.observableBits(qubits)
	if err != nil {
		return Zero, err
	}

	return s.state.measure(paulis, bits, s.rng.Float64()), nil
}

func (s *SimulatorProcessor) X(qubit *Qubit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bits, err := s.bits([]*Qubit{qubit})
	if err != nil {
		return err
	}

	s.state.applyX(bits[0])
	return nil
}

func (s *SimulatorProcessor) ControlledX(controls []*Qubit, qubit *Qubit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bits, err := s.bits(append(append([]*Qubit(nil), controls...), qubit))
	if err != nil {
		return err
	}

	target := bits[len(bits)-1]
	for _, c := range bits[:len(bits)-1] {
		if c == target {
			return fmt.Errorf("controlled X: %v is both control and target", qubit)
		}
	}

	s.state.applyControlledX(bits[:len(bits)-1], target)
	return nil
}

/*
observableBits maps the qubits of a Pauli product to bit positions. Each
qubit may appear once: two factors on one qubit do not multiply to a
Hermitian observable.
*/
func (s *SimulatorProcessor) observableBits(qubits []*Qubit) ([]int, error) {
	bits, err := s.bits(qubits)
	if err != nil {
		return nil, err
	}

	seen := make(map[int]struct{}, len(bits))
	for i, b := range bits {
		if _, dup := seen[b]; dup {
			return nil, fmt.Errorf("observable names %v twice: %w", qubits[i], ErrInvalidOperands)
		}
		seen[b] = struct{}{}
	}
	return bits, nil
}

// bits maps handles to bit positions. The caller must hold the lock.
func (s *SimulatorProcessor) bits(qubits []*Qubit) ([]int, error) {
	out := make([]int, len(qubits))
	for i, q := range qubits {
		if q == nil || q.owner != s {
			return nil, fmt.Errorf("%v: %w", q, ErrForeignQubit)
		}
		out[i] = q.id
	}
	return out, nil
}
