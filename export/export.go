// Copyright 2025 Vellum ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package export

import (
	"context"

	iexport "github.com/vellum-ml/vellum/internal/export"
	"github.com/vellum-ml/vellum/internal/export/draft"
	"github.com/vellum-ml/vellum/internal/graph"
)

// Dynamic-shape specification.

// ShapeSpec is a dynamic-shape specification keyed by input name.
type ShapeSpec = iexport.ShapeSpec

// Dim specifies a single dimension of an input tensor.
type Dim = iexport.Dim

// Static returns a dimension pinned to size n.
func Static(n int) Dim { return iexport.Static(n) }

// Dynamic returns a named dynamic dimension bounded by [min, max].
func Dynamic(name string, min, max int) Dim { return iexport.Dynamic(name, min, max) }

// Auto returns a dimension whose dynamism the tracer infers.
func Auto() Dim { return iexport.Auto() }

// ConstraintError is the user-correctable error a tracing attempt
// raises when the dynamic-shape spec contradicts a discovered guard.
type ConstraintError = iexport.ConstraintError

// SuggestedFix is one corrected dimension carried by a ConstraintError.
type SuggestedFix = iexport.SuggestedFix

// RefineShapeSpec applies a constraint error's suggested fixes to a
// spec, producing the refined spec used for the retry.
func RefineShapeSpec(spec ShapeSpec, cerr *ConstraintError) (ShapeSpec, error) {
	return iexport.RefineShapeSpec(spec, cerr)
}

// Draft export.

// FailureKind is the closed taxonomy of draft-export failures.
type FailureKind = draft.FailureKind

// Failure kinds.
const (
	MissingFakeKernel    = draft.MissingFakeKernel
	DataDependentError   = draft.DataDependentError
	ConstraintViolation  = draft.ConstraintViolation
	MismatchedFakeKernel = draft.MismatchedFakeKernel
)

// FailureRecord is one deduplicated failure surfaced by a draft export.
type FailureRecord = draft.FailureRecord

// Report aggregates the failures of a draft export.
type Report = draft.Report

// TraceFn is the instrumented tracing operation driven by Draft.
type TraceFn = draft.TraceFn

// Options configures a draft export.
type Options = draft.Options

// Result is the outcome of a draft export.
type Result = draft.Result

// Program is the exported-program representation a trace produces.
type Program = graph.Program

// Draft runs a permissive export: it traces the model while capturing
// diagnostic events, retries once on a correctable shape-constraint
// error, and attaches a failure Report to the result.
//
// Example:
//
//	result, err := export.Draft(ctx, traceModel, args, export.Options{
//	    ShapeSpec: export.ShapeSpec{"x": {0: export.Auto()}},
//	})
//	if err != nil {
//	    return err
//	}
//	if !result.Report.Successful() {
//	    fmt.Println(result.Report)
//	}
func Draft(ctx context.Context, fn TraceFn, args []any, opts Options) (*Result, error) {
	return draft.Export(ctx, fn, args, opts)
}
