// Package draft implements draft export: a permissive tracing mode that
// runs a model through the tracer with real-tensor propagation enabled,
// captures the structured diagnostic events the run emits, and turns
// them into an actionable report instead of hard failures.
//
// The pipeline has four stages:
//
//  1. Capture: a structlog.CaptureSession scoped around the tracing
//     attempts collects the allow-listed event keys in emission order.
//  2. Classification: each event maps to one FailureKind; duplicates
//     collapse under a per-kind identity (stack hash for data-dependent
//     errors, operator id for kernel failures).
//  3. Report: an immutable aggregate with success semantics
//     (Successful is true iff there are no unsuppressed records) and a
//     human-readable rendering per failure kind.
//  4. Orchestration: Export runs the trace once, retries exactly once
//     with a refined shape spec when the first attempt fails with a
//     correctable constraint error, and attaches the report to the
//     result.
//
// One draft export per process at a time: the capture session owns the
// channel's debug gate for its whole dynamic extent.
package draft
