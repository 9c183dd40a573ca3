package qdispatch

/*
PruneObservable drops every identity entry from a parallel pair of Pauli
and qubit slices. The result keeps the relative order and stays parallel.

The caller must ensure both slices have the same length; the operations in
this package check that before they get here. An observable made only of
identities prunes down to two empty slices, which processors accept.
*/
func PruneObservable(paulis []Pauli, qubits []*Qubit) ([]Pauli, []*Qubit) {
	prunedPaulis := make([]Pauli, 0, len(paulis))
	prunedQubits := make([]*Qubit, 0, len(qubits))

	for i, p := range paulis {
		if p == PauliI {
			continue
		}
		prunedPaulis = append(prunedPaulis, p)
		prunedQubits = append(prunedQubits, qubits[i])
	}

	return prunedPaulis, prunedQubits
}

// checkObservable reports whether the observable pair is well formed.
func checkObservable(paulis []Pauli, qubits []*Qubit) bool {
	return len(paulis) == len(qubits)
}
