package draft

import (
	"github.com/vellum-ml/vellum/internal/export"
)

// Payload is the kind-specific content of a failure record. It is a
// sealed tagged union: exactly one payload type exists per FailureKind,
// which keeps the classifier's switch and the renderer's switch in
// lockstep at compile time.
type Payload interface {
	kind() FailureKind
}

// MissingFakeKernelPayload identifies an operator with no fake kernel.
type MissingFakeKernelPayload struct {
	Op string
}

func (MissingFakeKernelPayload) kind() FailureKind { return MissingFakeKernel }

// MismatchedFakeKernelPayload identifies an operator whose fake kernel
// disagrees with the real one, and why.
type MismatchedFakeKernelPayload struct {
	Op     string
	Reason string
}

func (MismatchedFakeKernelPayload) kind() FailureKind { return MismatchedFakeKernel }

// DataDependentPayload describes an unevaluable symbolic expression that
// was specialized from real-tensor propagation.
type DataDependentPayload struct {
	Expr   string
	Result any     // constant chosen in the first occurrence
	Stack  []Frame // filtered user stack
	// Occurrences counts how many times the same (stack-identical)
	// error was hit. It is backfilled once after classification; every
	// other field is immutable from construction.
	Occurrences int
}

func (DataDependentPayload) kind() FailureKind { return DataDependentError }

// ConstraintViolationPayload describes a guard that contradicted the
// supplied dynamic-shape spec, plus the refined spec used for the retry.
type ConstraintViolationPayload struct {
	Expr          string
	SymbolSources map[string][]string // symbol name -> user-facing sources
	Stack         []Frame
	RefinedSpec   export.ShapeSpec
}

func (ConstraintViolationPayload) kind() FailureKind { return ConstraintViolation }

// FailureRecord is one deduplicated failure surfaced by a draft export.
// Records are owned by the Report that aggregates them.
type FailureRecord struct {
	Kind    FailureKind
	Payload Payload

	// Suppressed marks the failure as expected. Suppressed records do
	// not count against Report.Successful. The flag is set by the
	// caller (e.g. a test harness asserting a known gap), never by the
	// classifier.
	Suppressed bool
}

func newRecord(p Payload) *FailureRecord {
	return &FailureRecord{Kind: p.kind(), Payload: p}
}

// Suppress marks the record as an expected failure.
func (r *FailureRecord) Suppress() {
	r.Suppressed = true
}
