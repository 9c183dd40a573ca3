package qdispatch

import "fmt"

/*
Qubit is an opaque handle to an addressable unit. Two handles refer to the
same qubit only when they are the same pointer; the id is there for tracing
and for the processor that allocated it to find its amplitudes.
*/
type Qubit struct {
	id    int
	owner any
}

func NewQubit(id int) *Qubit {
	return &Qubit{id: id}
}

func (q *Qubit) ID() int {
	return q.id
}

func (q *Qubit) String() string {
	if q == nil {
		return "q<nil>"
	}
	return fmt.Sprintf("q%d", q.id)
}

func qubitIDs(qubits []*Qubit) []int {
	ids := make([]int, len(qubits))
	for i, q := range qubits {
		if q == nil {
			ids[i] = -1
			continue
		}
		ids[i] = q.id
	}
	return ids
}
