package export

import (
	"errors"
	"fmt"
)

// ErrNoSuggestedFixes is returned when refinement is requested for a
// constraint error that carries no machine-readable fixes.
var ErrNoSuggestedFixes = errors.New("constraint error carries no suggested fixes")

// SuggestedFix is one corrected dimension derived by the shape solver.
type SuggestedFix struct {
	Input string // input name
	Index int    // dim index
	Dim   Dim    // corrected specification
}

// ConstraintError is the user-correctable error a tracing attempt raises
// when the supplied dynamic-shape spec contradicts a guard discovered
// during tracing. It is distinct from every other tracing failure mode:
// the draft orchestrator catches exactly this type and retries once with
// a refined spec built from the suggested fixes.
type ConstraintError struct {
	Msg   string
	Fixes []SuggestedFix
}

// Error implements the error interface.
func (e *ConstraintError) Error() string {
	return fmt.Sprintf("shape constraint violated: %s (%d suggested fixes)", e.Msg, len(e.Fixes))
}

// RefineShapeSpec applies the suggested fixes from a constraint error to
// a dynamic-shape spec, producing the refined spec for the single retry.
// The original spec is not modified.
func RefineShapeSpec(spec ShapeSpec, cerr *ConstraintError) (ShapeSpec, error) {
	if cerr == nil || len(cerr.Fixes) == 0 {
		return nil, ErrNoSuggestedFixes
	}
	refined := spec.Clone()
	if refined == nil {
		refined = make(ShapeSpec)
	}
	for _, fix := range cerr.Fixes {
		dims := refined[fix.Input]
		if dims == nil {
			dims = make(map[int]Dim)
			refined[fix.Input] = dims
		}
		dims[fix.Index] = fix.Dim
	}
	return refined, nil
}
