package draft

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/vellum-ml/vellum/internal/export"
	"github.com/vellum-ml/vellum/internal/graph"
	"github.com/vellum-ml/vellum/internal/metrics"
	"github.com/vellum-ml/vellum/internal/structlog"
)

// TraceFn is the instrumented operation: it traces the model with the
// given arguments under a dynamic-shape spec and returns the exported
// program, or an error. A *export.ConstraintError signals a
// user-correctable shape problem that the orchestrator will refine and
// retry exactly once; every other error propagates unchanged.
type TraceFn func(ctx context.Context, args []any, spec export.ShapeSpec) (*graph.Program, error)

// phase tracks the orchestrator's progress through a draft export.
type phase int

const (
	phaseNotStarted phase = iota
	phaseFirstAttempt
	phaseRetryingWithRefinedShapes
	phaseSucceeded
	phaseFailed
)

func (p phase) String() string {
	switch p {
	case phaseNotStarted:
		return "not_started"
	case phaseFirstAttempt:
		return "first_attempt"
	case phaseRetryingWithRefinedShapes:
		return "retrying_with_refined_shapes"
	case phaseSucceeded:
		return "succeeded"
	case phaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Options configures a draft export.
type Options struct {
	// Channel is the diagnostic channel the tracer emits on.
	// Nil means structlog.Default().
	Channel *structlog.Channel

	// Logger receives the final human-readable summary.
	// Nil means no logging.
	Logger *zap.Logger

	// ShapeSpec is the caller's dynamic-shape specification.
	ShapeSpec export.ShapeSpec

	// IsInternal overrides the framework-frame predicate used when
	// filtering stacks. Nil means DefaultIsInternal.
	IsInternal InternalFunc

	// WriteArtifact spills the captured events to the per-user temp
	// directory so the report can be re-rendered offline.
	WriteArtifact bool

	// Metrics, when inside an active context, accumulates export
	// telemetry (attempt count, failure count, retry flag).
	Metrics *metrics.Context
}

// Result is the outcome of a draft export. The program is present even
// when the report carries failures: "failed" is a diagnostic verdict,
// not an abort.
type Result struct {
	Program      *graph.Program
	Report       *Report
	RefinedSpec  export.ShapeSpec // nil unless the retry ran
	ArtifactPath string           // empty unless an artifact was written
}

// Export runs fn under a capture scope, retries once on a correctable
// constraint error with a refined shape spec, classifies the captured
// events, and attaches the report to the result.
//
// Only an error from the second attempt (or a non-correctable error from
// the first) propagates; diagnostic failures surface via the report.
func Export(ctx context.Context, fn TraceFn, args []any, opts Options) (*Result, error) {
	ch := opts.Channel
	if ch == nil {
		ch = structlog.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	session, err := structlog.Begin(ch, CaptureKeys())
	if err != nil {
		return nil, fmt.Errorf("begin capture: %w", err)
	}
	defer session.End()

	recordMetric := func(name string, value any) {
		if opts.Metrics != nil && opts.Metrics.InProgress() {
			_ = opts.Metrics.Set(name, value, true)
		}
	}

	state := phaseFirstAttempt
	logger.Debug("draft export attempt", zap.String("phase", state.String()))

	var refined export.ShapeSpec
	prog, err := fn(ctx, args, opts.ShapeSpec)
	if err != nil {
		var cerr *export.ConstraintError
		if !errors.As(err, &cerr) {
			return nil, err
		}
		refined, err = export.RefineShapeSpec(opts.ShapeSpec, cerr)
		if err != nil {
			return nil, fmt.Errorf("refine dynamic shapes: %w", err)
		}

		state = phaseRetryingWithRefinedShapes
		logger.Debug("draft export attempt",
			zap.String("phase", state.String()),
			zap.Stringer("refined_spec", refined))

		// The single retry: an error here propagates uncaught.
		prog, err = fn(ctx, args, refined)
		if err != nil {
			return nil, err
		}
	}

	files := ch.FilenameTable()
	records, guardOps, err := Classify(session.Events(), files, ClassifyConfig{
		IsInternal:  opts.IsInternal,
		RefinedSpec: refined,
	})
	if err != nil {
		return nil, err
	}

	graph.InsertOpGuards(prog, guardOps)

	report := NewReport(records, files)
	result := &Result{
		Program:     prog,
		Report:      report,
		RefinedSpec: refined,
	}

	if opts.WriteArtifact {
		path, werr := session.WriteArtifact()
		if werr != nil {
			logger.Warn("failed to write diagnostic artifact", zap.Error(werr))
		} else {
			result.ArtifactPath = path
		}
	}

	recordMetric("draft_export_failures", len(records))
	recordMetric("draft_export_retried", refined != nil)

	if report.Successful() {
		state = phaseSucceeded
		logger.Info("draft export succeeded", zap.String("phase", state.String()))
	} else {
		state = phaseFailed
		logger.Warn("issues found during draft export",
			zap.String("phase", state.String()),
			zap.Int("failures", len(records)),
			zap.String("artifact", result.ArtifactPath),
			zap.String("hint", "inspect result.Report for the detailed failure blocks"))
	}

	return result, nil
}
