package qdispatch

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestPruneObservable(t *testing.T) {
	Convey("Given an observable with identity entries", t, func() {
		q := testQubits(4)
		paulis := []Pauli{PauliI, PauliX, PauliI, PauliZ}

		prunedPaulis, prunedQubits := PruneObservable(paulis, q)

		Convey("It should keep only the non-identity entries in order", func() {
			So(prunedPaulis, ShouldResemble, []Pauli{PauliX, PauliZ})
			So(prunedQubits, ShouldHaveLength, 2)
			So(prunedQubits[0], ShouldPointTo, q[1])
			So(prunedQubits[1], ShouldPointTo, q[3])
		})

		Convey("It should leave the input untouched", func() {
			So(paulis, ShouldResemble, []Pauli{PauliI, PauliX, PauliI, PauliZ})
			So(q, ShouldHaveLength, 4)
		})

		Convey("Pruning again should change nothing", func() {
			againPaulis, againQubits := PruneObservable(prunedPaulis, prunedQubits)

			So(againPaulis, ShouldResemble, prunedPaulis)
			So(againQubits, ShouldHaveLength, len(prunedQubits))
			for i := range againQubits {
				So(againQubits[i], ShouldPointTo, prunedQubits[i])
			}
		})
	})

	Convey("Given an observable made only of identities", t, func() {
		prunedPaulis, prunedQubits := PruneObservable([]Pauli{PauliI, PauliI}, testQubits(2))

		Convey("It should prune down to two empty slices", func() {
			So(prunedPaulis, ShouldNotBeNil)
			So(prunedQubits, ShouldNotBeNil)
			So(prunedPaulis, ShouldBeEmpty)
			So(prunedQubits, ShouldBeEmpty)
		})
	})

	Convey("Given an empty observable", t, func() {
		prunedPaulis, prunedQubits := PruneObservable(nil, nil)

		Convey("It should return empty slices", func() {
			So(prunedPaulis, ShouldBeEmpty)
			So(prunedQubits, ShouldBeEmpty)
		})
	})

	Convey("Given observables of every shape", t, func() {
		q := testQubits(5)
		inputs := [][]Pauli{
			{PauliX, PauliY, PauliZ},
			{PauliI, PauliY, PauliI, PauliI, PauliX},
			{PauliZ},
		}

		Convey("The pruned slices should stay parallel and identity free", func() {
			for _, paulis := range inputs {
				prunedPaulis, prunedQubits := PruneObservable(paulis, q[:len(paulis)])

				So(len(prunedPaulis), ShouldEqual, len(prunedQubits))
				for _, p := range prunedPaulis {
					So(p, ShouldNotEqual, PauliI)
				}
			}
		})
	})
}
