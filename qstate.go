package qdispatch

import (
	"math"
	"math/cmplx"
)

/*
QuantumState is a dense state vector over n qubits. Qubit k is bit k of the
basis index. It is not safe for concurrent use; SimulatorProcessor guards it.
*/
type QuantumState struct {
	Vector []complex128
	qubits int
}

func newQuantumState() *QuantumState {
	return &QuantumState{Vector: []complex128{1}}
}

// grow adds one qubit in |0⟩ and returns its bit position.
func (qs *QuantumState) grow() int {
	next := make([]complex128, len(qs.Vector)*2)
	copy(next, qs.Vector)
	qs.Vector = next
	qs.qubits++
	return qs.qubits - 1
}

func applyPauli(vec []complex128, p Pauli, bit int) []complex128 {
	mask := 1 << bit
	out := make([]complex128, len(vec))

	for i, amp := range vec {
		set := i&mask != 0

		switch p {
		case PauliX:
			out[i^mask] = amp
		case PauliY:
			// Y|0⟩ = i|1⟩, Y|1⟩ = -i|0⟩
			if set {
				out[i^mask] = -1i * amp
			} else {
				out[i^mask] = 1i * amp
			}
		case PauliZ:
			if set {
				out[i] = -amp
			} else {
				out[i] = amp
			}
		default:
			out[i] = amp
		}
	}

	return out
}

func (qs *QuantumState) applyObservable(paulis []Pauli, bits []int) []complex128 {
	vec := qs.Vector
	for i, p := range paulis {
		vec = applyPauli(vec, p, bits[i])
	}
	if len(paulis) == 0 {
		vec = append([]complex128(nil), qs.Vector...)
	}
	return vec
}

// expectation returns ⟨ψ|P|ψ⟩ for the Pauli product P.
func (qs *QuantumState) expectation(paulis []Pauli, bits []int) float64 {
	transformed := qs.applyObservable(paulis, bits)

	var sum complex128
	for i, amp := range qs.Vector {
		sum += cmplx.Conj(amp) * transformed[i]
	}
	return real(sum)
}

// probability of observing result when measuring the Pauli product.
func (qs *QuantumState) probability(result Result, paulis []Pauli, bits []int) float64 {
	e := qs.expectation(paulis, bits)
	if result == One {
		return (1 - e) / 2
	}
	return (1 + e) / 2
}

/*
measure samples the Pauli product using r in [0, 1) and collapses the state
onto the matching eigenspace.
*/
func (qs *QuantumState) measure(paulis []Pauli, bits []int, r float64) Result {
	p0 := qs.probability(Zero, paulis, bits)

	result, p := Zero, p0
	if r >= p0 {
		result, p = One, 1-p0
	}

	transformed := qs.applyObservable(paulis, bits)
	sign := complex(1, 0)
	if result == One {
		sign = -1
	}

	norm := complex(2*math.Sqrt(math.Max(p, 1e-300)), 0)
	for i := range qs.Vector {
		qs.Vector[i] = (qs.Vector[i] + sign*transformed[i]) / norm
	}

	return result
}

func (qs *QuantumState) applyX(bit int) {
	qs.Vector = applyPauli(qs.Vector, PauliX, bit)
}

// applyControlledX flips target on every basis state where all controls are set.
func (qs *QuantumState) applyControlledX(controls []int, target int) {
	var controlMask int
	for _, c := range controls {
		controlMask |= 1 << c
	}
	targetMask := 1 << target

	for i := range qs.Vector {
		if i&controlMask == controlMask && i&targetMask == 0 {
			j := i | targetMask
			qs.Vector[i], qs.Vector[j] = qs.Vector[j], qs.Vector[i]
		}
	}
}
