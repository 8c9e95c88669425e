// Copyright 2025 Vellum ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package export provides model export entry points for the Vellum ML
// framework.
//
// The draft entry point (Draft) trades strictness for diagnosability:
// instead of failing on the first missing fake kernel or unevaluable
// symbolic expression, it completes the trace with real-tensor
// propagation enabled and reports every issue it found, deduplicated
// and rendered with remediation instructions.
//
// Key concepts:
//   - ShapeSpec / Dim: dynamic-shape specification for model inputs
//   - ConstraintError: correctable shape error triggering one automatic
//     retry with a refined spec
//   - Report: immutable failure aggregate with success semantics
package export
