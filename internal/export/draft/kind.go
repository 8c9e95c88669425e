package draft

// FailureKind is the closed taxonomy of failures a draft export can
// surface. The numeric values are stable and order reports.
type FailureKind int

const (
	// MissingFakeKernel: an operator has no fake kernel implementation.
	MissingFakeKernel FailureKind = iota + 1
	// DataDependentError: a symbolic expression could not be evaluated
	// and was specialized to a constant observed on real tensors.
	DataDependentError
	// ConstraintViolation: the supplied dynamic-shape spec contradicted
	// a guard added during tracing.
	ConstraintViolation
	// MismatchedFakeKernel: an operator's fake kernel disagrees with its
	// real kernel.
	MismatchedFakeKernel
)

// String returns the stable name of the failure kind.
func (k FailureKind) String() string {
	switch k {
	case MissingFakeKernel:
		return "MISSING_FAKE_KERNEL"
	case DataDependentError:
		return "DATA_DEPENDENT_ERROR"
	case ConstraintViolation:
		return "CONSTRAINT_VIOLATION_ERROR"
	case MismatchedFakeKernel:
		return "MISMATCHED_FAKE_KERNEL"
	default:
		return "UNKNOWN"
	}
}
