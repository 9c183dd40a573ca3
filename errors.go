package qdispatch

import (
	"errors"
	"fmt"
)

// ErrLengthMismatch is wrapped by every ContractError. ErrAssertionFailed is
// wrapped by every AssertionError.
var (
	ErrLengthMismatch     = errors.New("observable length mismatch")
	ErrUnsupportedVariant = errors.New("unsupported operation variant")
	ErrAssertionFailed    = errors.New("assertion failed")
	ErrUnknownTarget      = errors.New("unknown target")
	ErrCircuitOpen        = errors.New("circuit breaker is open")
	ErrRateLimited        = errors.New("rate limit exceeded")
	ErrForeignQubit       = errors.New("qubit not owned by this processor")
	ErrInvalidOperands    = errors.New("invalid operands")
)

/*
ContractError reports a defect in the calling layer, such as an observable
whose slices have different lengths. It is never worth retrying.
*/
type ContractError struct {
	Operation  string
	PauliCount int
	QubitCount int
}

func (e *ContractError) Error() string {
	return fmt.Sprintf(
		"both input arrays for %s (paulis, qubits) must be of same size, got %d and %d",
		e.Operation, e.PauliCount, e.QubitCount,
	)
}

func (e *ContractError) Unwrap() error {
	return ErrLengthMismatch
}

// IsContractViolation reports whether err is, or wraps, a ContractError.
func IsContractViolation(err error) bool {
	var contractErr *ContractError
	return errors.As(err, &contractErr)
}

// AssertionError is raised by a processor when an asserted outcome does not hold.
type AssertionError struct {
	Msg         string
	Expected    float64
	Probability float64
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("%s: expected probability %.6f, got %.6f", e.Msg, e.Expected, e.Probability)
}

func (e *AssertionError) Unwrap() error {
	return ErrAssertionFailed
}
