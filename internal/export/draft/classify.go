package draft

import (
	"fmt"

	"github.com/vellum-ml/vellum/internal/export"
	"github.com/vellum-ml/vellum/internal/structlog"
)

// Event keys the draft pipeline captures. Any other key reaching the
// classifier is an internal-consistency error.
const (
	EventPropagateRealTensors = "propagate_real_tensors"
	EventGuardAdded           = "guard_added"
	EventMissingFakeKernel    = "missing_fake_kernel"
	EventMismatchedFakeKernel = "mismatched_fake_kernel"
)

// CaptureKeys returns the allow-list handed to the capture session.
func CaptureKeys() []string {
	return []string{
		EventPropagateRealTensors,
		EventGuardAdded,
		EventMissingFakeKernel,
		EventMismatchedFakeKernel,
	}
}

// UnknownEventError reports an event key that no classifier rule covers.
// Reaching it means the capture allow-list and the classifier have
// drifted apart, which is fatal rather than ignorable.
type UnknownEventError struct {
	Key string
}

// Error implements the error interface.
func (e *UnknownEventError) Error() string {
	return fmt.Sprintf("unknown structured log key: %q", e.Key)
}

// ClassifyConfig parameterizes a classification pass.
type ClassifyConfig struct {
	// IsInternal decides which stack frames belong to the framework.
	// Nil means DefaultIsInternal.
	IsInternal InternalFunc

	// RefinedSpec is the dynamic-shape spec produced by the refinement
	// retry, or nil when no refinement pass ran. guard_added events are
	// only user-actionable after a refinement, so they are dropped
	// entirely when this is nil.
	RefinedSpec export.ShapeSpec
}

// Classify consumes captured events in emission order and produces the
// deduplicated failure records in first-occurrence order, plus the
// operator identifiers that need runtime guards inserted around them.
func Classify(events []structlog.Event, files map[int]string, cfg ClassifyConfig) ([]*FailureRecord, []string, error) {
	isInternal := cfg.IsInternal
	if isInternal == nil {
		isInternal = DefaultIsInternal
	}

	type opKey struct {
		kind   FailureKind
		op     string
		reason string
	}

	var records []*FailureRecord
	dataDependent := make(map[string]int)
	seenOps := make(map[opKey]struct{})
	var guardOps []string
	seenGuardOps := make(map[string]struct{})

	addGuardOp := func(op string) {
		if _, ok := seenGuardOps[op]; ok {
			return
		}
		seenGuardOps[op] = struct{}{}
		guardOps = append(guardOps, op)
	}

	for _, ev := range events {
		md := ev.Metadata
		switch ev.Key {
		case EventPropagateRealTensors:
			stack := filterStack(metaFrames(md["stack"]), files, isInternal)
			key := stackKey(stack)
			dataDependent[key]++
			if dataDependent[key] > 1 {
				continue
			}
			records = append(records, newRecord(DataDependentPayload{
				Expr:   metaString(md, "expr"),
				Result: md["result"],
				Stack:  stack,
			}))

		case EventGuardAdded:
			if cfg.RefinedSpec == nil {
				continue
			}
			// Guards without a user-facing source correspond to purely
			// internal symbols, not to anything in the supplied spec.
			sources := metaSymbolSources(md["symbol_to_sources"])
			if len(sources) == 0 {
				continue
			}
			stack := filterStack(metaFrames(md["stack"]), files, isInternal)
			records = append(records, newRecord(ConstraintViolationPayload{
				Expr:          metaString(md, "expr"),
				SymbolSources: sources,
				Stack:         stack,
				RefinedSpec:   cfg.RefinedSpec,
			}))

		case EventMissingFakeKernel:
			op := metaString(md, "op")
			key := opKey{kind: MissingFakeKernel, op: op}
			if _, ok := seenOps[key]; ok {
				continue
			}
			seenOps[key] = struct{}{}
			addGuardOp(op)
			records = append(records, newRecord(MissingFakeKernelPayload{Op: op}))

		case EventMismatchedFakeKernel:
			op := metaString(md, "op")
			reason := metaString(md, "reason")
			key := opKey{kind: MismatchedFakeKernel, op: op, reason: reason}
			if _, ok := seenOps[key]; ok {
				continue
			}
			seenOps[key] = struct{}{}
			addGuardOp(op)
			records = append(records, newRecord(MismatchedFakeKernelPayload{Op: op, Reason: reason}))

		default:
			return nil, nil, &UnknownEventError{Key: ev.Key}
		}
	}

	// Second pass: write the final occurrence count into the first (and
	// only) record of each data-dependent dedup group.
	for _, rec := range records {
		if p, ok := rec.Payload.(DataDependentPayload); ok {
			p.Occurrences = dataDependent[stackKey(p.Stack)]
			rec.Payload = p
		}
	}

	return records, guardOps, nil
}
