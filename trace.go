package qdispatch

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
)

// TraceEntry is one processor call as seen by a TraceProcessor.
type TraceEntry struct {
	ID          uuid.UUID `json:"id"`
	Operation   string    `json:"operation"`
	Paulis      []string  `json:"paulis,omitempty"`
	Qubits      []int     `json:"qubits,omitempty"`
	Controls    []int     `json:"controls,omitempty"`
	Result      string    `json:"result,omitempty"`
	Probability float64   `json:"probability,omitempty"`
	Msg         string    `json:"msg,omitempty"`
	Error       string    `json:"error,omitempty"`
	At          time.Time `json:"at"`
}

/*
TraceProcessor records every call it receives and forwards it to an inner
processor. With a nil inner processor it behaves like NullProcessor and
the trace is the only effect, which is what a hardware shim needs before
the program is shipped elsewhere.
*/
type TraceProcessor struct {
	mu      sync.Mutex
	inner   Processor
	entries []TraceEntry
}

func NewTraceProcessor(inner Processor) *TraceProcessor {
	if inner == nil {
		inner = NewNullProcessor()
	}
	return &TraceProcessor{inner: inner}
}

func (t *TraceProcessor) Entries() []TraceEntry {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]TraceEntry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Export writes the trace as JSON lines.
func (t *TraceProcessor) Export(w io.Writer) error {
	stream := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(w)
	for _, entry := range t.Entries() {
		if err := stream.Encode(entry); err != nil {
			return err
		}
	}
	return nil
}

// ReadTrace decodes a trace written by Export.
func ReadTrace(r io.Reader) ([]TraceEntry, error) {
	decoder := jsoniter.ConfigCompatibleWithStandardLibrary.NewDecoder(r)

	var entries []TraceEntry
	for decoder.More() {
		var entry TraceEntry
		if err := decoder.Decode(&entry); err != nil {
			return entries, fmt.Errorf("trace entry %d: %w", len(entries), err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Observable parses the recorded Pauli names back into their basis values.
func (e TraceEntry) Observable() ([]Pauli, error) {
	out := make([]Pauli, len(e.Paulis))
	for i, name := range e.Paulis {
		p, err := ParsePauli(name)
		if err != nil {
			return nil, fmt.Errorf("trace entry %s: %w", e.ID, err)
		}
		out[i] = p
	}
	return out, nil
}

func (t *TraceProcessor) record(entry TraceEntry, err error) {
	entry.ID = uuid.New()
	entry.At = time.Now()
	if err != nil {
		entry.Error = err.Error()
	}

	t.mu.Lock()
	t.entries = append(t.entries, entry)
	t.mu.Unlock()
}

func pauliNames(paulis []Pauli) []string {
	out := make([]string, len(paulis))
	for i, p := range paulis {
		out[i] = p.String()
	}
	return out
}

func (t *TraceProcessor) Assert(paulis []Pauli, qubits []*Qubit, result Result, msg string) error {
	err := t.inner.Assert(paulis, qubits, result, msg)
	t.record(TraceEntry{
		Operation: "Assert",
		Paulis:    pauliNames(paulis),
		Qubits:    qubitIDs(qubits),
		Result:    result.String(),
		Msg:       msg,
	}, err)
	return err
}

func (t *TraceProcessor) AssertProb(
	paulis []Pauli, qubits []*Qubit, result Result, prob float64, msg string, tol float64,
) error {
	err := t.inner.AssertProb(paulis, qubits, result, prob, msg, tol)
	t.record(TraceEntry{
		Operation:   "AssertProb",
		Paulis:      pauliNames(paulis),
		Qubits:      qubitIDs(qubits),
		Result:      result.String(),
		Probability: prob,
		Msg:         msg,
	}, err)
	return err
}

func (t *TraceProcessor) Measure(paulis []Pauli, qubits []*Qubit) (Result, error) {
	result, err := t.inner.Measure(paulis, qubits)
	t.record(TraceEntry{
		Operation: "Measure",
		Paulis:    pauliNames(paulis),
		Qubits:    qubitIDs(qubits),
		Result:    result.String(),
	}, err)
	return result, err
}

func (t *TraceProcessor) X(qubit *Qubit) error {
	err := t.inner.X(qubit)
	t.record(TraceEntry{
		Operation: "X",
		Qubits:    qubitIDs([]*Qubit{qubit}),
	}, err)
	return err
}

func (t *TraceProcessor) ControlledX(controls []*Qubit, qubit *Qubit) error {
	err := t.inner.ControlledX(controls, qubit)
	t.record(TraceEntry{
		Operation: "ControlledX",
		Qubits:    qubitIDs([]*Qubit{qubit}),
		Controls:  qubitIDs(controls),
	}, err)
	return err
}
