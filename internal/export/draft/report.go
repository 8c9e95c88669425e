package draft

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/vellum-ml/vellum/internal/debug"
)

// ErrNotImplemented is returned by Report.ApplySuggestedFixes: an
// automatic multi-round repair loop is a known gap, documented here
// rather than silently doing nothing.
var ErrNotImplemented = errors.New("applying suggested fixes is not implemented")

// Pointers printed in failure blocks.
const (
	fakeKernelDocs    = "https://vellum-ml.dev/docs/custom-ops/fake-kernels"
	dataDependentDocs = "https://vellum-ml.dev/docs/export/data-dependent-errors"
)

// Report is the immutable result of a draft export: the deduplicated
// failure records in first-occurrence order plus the filename table
// needed to resolve their stack frames.
type Report struct {
	records []*FailureRecord
	files   map[int]string
}

// NewReport creates a report over the given records and filename table.
func NewReport(records []*FailureRecord, files map[int]string) *Report {
	return &Report{records: records, files: files}
}

// Records returns the failure records in first-occurrence order.
// Callers may Suppress individual records to mark expected failures.
func (r *Report) Records() []*FailureRecord {
	return r.records
}

// Successful reports whether the export is sound: no failures, or every
// failure explicitly suppressed.
func (r *Report) Successful() bool {
	for _, rec := range r.records {
		if !rec.Suppressed {
			return false
		}
	}
	return true
}

// ApplySuggestedFixes would apply the refined shape constraints back to
// the caller's spec automatically. It is not implemented.
func (r *Report) ApplySuggestedFixes() error {
	return ErrNotImplemented
}

const successBanner = `
##############################################################################################
Congratulations: no issues were found during export, and a graph was produced soundly.
You can now switch back to the strict export entry point.
##############################################################################################
`

// String renders the report: a green success banner, or a yellow warning
// banner followed by one numbered block per failure record.
func (r *Report) String() string {
	if r.Successful() {
		return color.New(color.FgGreen).Sprint(successBanner)
	}

	var b strings.Builder
	fmt.Fprintf(&b, `
###################################################################################################
WARNING: %d issue(s) found during export, and the graph may not be sound.
Please follow the instructions below to fix the errors.
###################################################################################################

`, len(r.records))

	for i, rec := range r.records {
		fmt.Fprintf(&b, "%d. %s\n", i+1, r.renderRecord(rec))
	}
	return color.New(color.FgYellow).Sprint(b.String())
}

func (r *Report) renderRecord(rec *FailureRecord) string {
	switch p := rec.Payload.(type) {
	case MissingFakeKernelPayload:
		return fmt.Sprintf(`Missing fake kernel.
    %s is missing a fake kernel implementation.

    Please refer to %s for instructions on how to write one.
`, p.Op, fakeKernelDocs)

	case ConstraintViolationPayload:
		return fmt.Sprintf(`Constraint violation error.
    The specified input dynamic-shape spec was found to be incorrect during tracing.
    Specifically, this guard was added: %s, where %s.
    This occurred at the following stacktrace: %s.
    Because of this, the dynamic-shape spec has been refined to the following. You
    can also specify Auto dims and let the tracer infer the dynamism for you.
    `+"```"+`
    dynamic_shapes = %s
    `+"```"+`
`, p.Expr, formatSymbolSources(p.SymbolSources), prettyStack(p.Stack, r.files), p.RefinedSpec)

	case DataDependentPayload:
		return fmt.Sprintf(`Data dependent error.
    When exporting, the value of `+"`%s`"+` could not be evaluated.
    This was encountered %d time(s).
    This occurred at the following stacktrace: %s:
        %s
    As a result, it was specialized to a constant (e.g. `+"`%s`"+` in the first occurrence), and asserts were inserted into the graph.

    Please add an explicit check for this data-dependent assumption to the original code.
    Please refer to %s for more details.
`, p.Expr, p.Occurrences, prettyStack(p.Stack, r.files), r.location(p.Stack), debug.FriendlyString(p.Result), dataDependentDocs)

	case MismatchedFakeKernelPayload:
		return fmt.Sprintf(`Mismatched fake kernel.
    %s has a fake kernel implementation, but its behavior does not match the real kernel.
    The reason for the mismatch is: %s.

    Please refer to %s for instructions on how to write a correct fake kernel.
`, p.Op, p.Reason, fakeKernelDocs)

	default:
		// Payload is sealed; an unknown type is memory corruption or a
		// missed case after extending the taxonomy.
		panic(fmt.Sprintf("unknown failure payload %T", rec.Payload))
	}
}

// location renders the source line of the innermost frame, or a
// placeholder when the file is unreadable.
func (r *Report) location(stack []Frame) string {
	if len(stack) == 0 {
		return "<no location>"
	}
	frame := stack[len(stack)-1]
	path, ok := r.files[frame.File]
	if !ok {
		return "<no location>"
	}
	line := sourceLine(path, frame.Line)
	if line == "" {
		return "<no location>"
	}
	return "`" + line + "`"
}

func formatSymbolSources(sources map[string][]string) string {
	syms := make([]string, 0, len(sources))
	for sym := range sources {
		syms = append(syms, sym)
	}
	sort.Strings(syms)

	parts := make([]string, len(syms))
	for i, sym := range syms {
		parts[i] = fmt.Sprintf("%s = %s", sym, strings.Join(sources[sym], ", "))
	}
	return strings.Join(parts, "; ")
}
