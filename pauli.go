package qdispatch

import (
	"fmt"
	"strings"
)

/*
Pauli selects the measurement basis for a single qubit. PauliI is the
identity and means the qubit does not take part in the observable.
*/
type Pauli int

const (
	PauliI Pauli = iota
	PauliX
	PauliY
	PauliZ
)

func (p Pauli) String() string {
	switch p {
	case PauliI:
		return "I"
	case PauliX:
		return "X"
	case PauliY:
		return "Y"
	case PauliZ:
		return "Z"
	default:
		return fmt.Sprintf("Pauli(%d)", int(p))
	}
}

// ParsePauli accepts "I", "X", "Y", "Z" and their PauliX style long names.
func ParsePauli(s string) (Pauli, error) {
	switch strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(s)), "PAULI") {
	case "I":
		return PauliI, nil
	case "X":
		return PauliX, nil
	case "Y":
		return PauliY, nil
	case "Z":
		return PauliZ, nil
	}
	return PauliI, fmt.Errorf("unknown pauli %q", s)
}

// Result is the outcome label of a measurement or assertion.
type Result int

const (
	Zero Result = iota
	One
)

func (r Result) String() string {
	if r == One {
		return "One"
	}
	return "Zero"
}
