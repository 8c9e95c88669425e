// Package structlog implements the structured diagnostic event channel
// used by the tracing and export machinery.
//
// Key components:
//   - Event: a discrete diagnostic record (string key plus metadata mapping)
//   - Channel: process-wide event channel with listener registration and a
//     debug gate for normally-suppressed events
//   - CaptureSession: scoped capture of an allow-listed set of event keys
//     during one instrumented run
//   - Artifact: spill-to-disk form of a capture, re-renderable offline
//
// Events emitted on a channel are delivered to listeners in emission
// order. Exactly one capture session may be active per channel at a time;
// the session saves and restores the channel's debug gate on every exit
// path, so callers pair Begin with a deferred End.
package structlog
