package qdispatch

import (
	"sync"

	"github.com/davecgh/go-spew/spew"
	"github.com/theapemachine/errnie"
)

/*
Diagnostics is a best-effort reporting hook for contract violations.
Implementations record a condition and a label and must never panic or
return control-flow signals; the caller carries on exactly as before.
*/
type Diagnostics interface {
	Assert(condition bool, label string, operands ...any)
}

var (
	diagnosticsMu sync.RWMutex
	diagnostics   Diagnostics = LogDiagnostics{}
)

// DefaultDiagnostics returns the process-wide diagnostics hook.
func DefaultDiagnostics() Diagnostics {
	diagnosticsMu.RLock()
	defer diagnosticsMu.RUnlock()
	return diagnostics
}

/*
SetDiagnostics replaces the process-wide diagnostics hook and returns a
function that restores the previous one. A nil hook silences the channel.

	restore := SetDiagnostics(recorder)
	defer restore()
*/
func SetDiagnostics(d Diagnostics) (restore func()) {
	if d == nil {
		d = NopDiagnostics{}
	}

	diagnosticsMu.Lock()
	previous := diagnostics
	diagnostics = d
	diagnosticsMu.Unlock()

	return func() {
		diagnosticsMu.Lock()
		diagnostics = previous
		diagnosticsMu.Unlock()
	}
}

// LogDiagnostics writes failed conditions to the errnie log.
type LogDiagnostics struct{}

func (LogDiagnostics) Assert(condition bool, label string, operands ...any) {
	if condition {
		return
	}

	if len(operands) == 0 {
		errnie.Warn("diagnostic assertion failed: %s", label)
		return
	}

	errnie.Warn("diagnostic assertion failed: %s\n%s", label, spew.Sdump(operands...))
}

type NopDiagnostics struct{}

func (NopDiagnostics) Assert(bool, string, ...any) {}

// DiagnosticRecord is one call made on a RecordingDiagnostics.
type DiagnosticRecord struct {
	Condition bool
	Label     string
	Operands  []any
}

/*
RecordingDiagnostics keeps every call in memory. It is safe for concurrent
use and is what tooling and tests install to observe contract violations.
*/
type RecordingDiagnostics struct {
	mu      sync.Mutex
	records []DiagnosticRecord
}

func NewRecordingDiagnostics() *RecordingDiagnostics {
	return &RecordingDiagnostics{}
}

func (rd *RecordingDiagnostics) Assert(condition bool, label string, operands ...any) {
	rd.mu.Lock()
	defer rd.mu.Unlock()

	rd.records = append(rd.records, DiagnosticRecord{
		Condition: condition,
		Label:     label,
		Operands:  operands,
	})
}

// Records returns a copy of everything recorded so far.
func (rd *RecordingDiagnostics) Records() []DiagnosticRecord {
	rd.mu.Lock()
	defer rd.mu.Unlock()

	out := make([]DiagnosticRecord, len(rd.records))
	copy(out, rd.records)
	return out
}

// Failures counts the recorded calls whose condition did not hold.
func (rd *RecordingDiagnostics) Failures() int {
	rd.mu.Lock()
	defer rd.mu.Unlock()

	n := 0
	for _, r := range rd.records {
		if !r.Condition {
			n++
		}
	}
	return n
}
