package qdispatch

import (
	"fmt"
	"time"
)

// Variant tags one of the four call shapes every operation exposes.
type Variant int

const (
	Forward Variant = iota
	Adjoint
	Controlled
	ControlledAdjoint
)

func (v Variant) String() string {
	switch v {
	case Forward:
		return "body"
	case Adjoint:
		return "adjoint"
	case Controlled:
		return "controlled"
	case ControlledAdjoint:
		return "controlled-adjoint"
	default:
		return fmt.Sprintf("Variant(%d)", int(v))
	}
}

/*
Operation bundles the four independent bodies of one logical operation.
Each operation kind fills in its own bodies; a diagnostic operation may
leave three of them as no-ops while a gate gives each real meaning. A nil
body means the variant is not defined for that operation.

A nil error is the trivial acknowledgment.
*/
type Operation[A any] struct {
	Name                  string
	Body                  func(args A) error
	AdjointBody           func(args A) error
	ControlledBody        func(controls []*Qubit, args A) error
	ControlledAdjointBody func(controls []*Qubit, args A) error

	metrics *Metrics
}

/*
Invoke runs the body selected by variant. Controls are ignored by the
uncontrolled variants.
*/
func (op *Operation[A]) Invoke(variant Variant, controls []*Qubit, args A) error {
	start := time.Now()
	err := op.invoke(variant, controls, args)

	if op.metrics != nil {
		op.metrics.recordCall(op.Name, variant, start, err)
	}

	return err
}

func (op *Operation[A]) invoke(variant Variant, controls []*Qubit, args A) error {
	switch variant {
	case Forward:
		if op.Body != nil {
			return op.Body(args)
		}
	case Adjoint:
		if op.AdjointBody != nil {
			return op.AdjointBody(args)
		}
	case Controlled:
		if op.ControlledBody != nil {
			return op.ControlledBody(controls, args)
		}
	case ControlledAdjoint:
		if op.ControlledAdjointBody != nil {
			return op.ControlledAdjointBody(controls, args)
		}
	}

	return fmt.Errorf("%s %s: %w", op.Name, variant, ErrUnsupportedVariant)
}

// Apply is shorthand for the forward variant.
func (op *Operation[A]) Apply(args A) error {
	return op.Invoke(Forward, nil, args)
}

func (op *Operation[A]) ApplyAdjoint(args A) error {
	return op.Invoke(Adjoint, nil, args)
}

func (op *Operation[A]) ApplyControlled(controls []*Qubit, args A) error {
	return op.Invoke(Controlled, controls, args)
}

func (op *Operation[A]) ApplyControlledAdjoint(controls []*Qubit, args A) error {
	return op.Invoke(ControlledAdjoint, controls, args)
}
