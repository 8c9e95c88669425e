// Copyright 2025 Vellum ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package metrics provides telemetry-accumulation scopes for
// compilation and export runs.
package metrics

import (
	"github.com/vellum-ml/vellum/internal/metrics"
)

// OnExit receives the accumulated metrics when a scope ends.
type OnExit = metrics.OnExit

// Context accumulates metrics across one (possibly recursive) scope.
type Context = metrics.Context

// RuntimeContext gathers metrics that have no natural scope to wrap.
type RuntimeContext = metrics.RuntimeContext

// Scope-misuse errors.
var (
	ErrNotInProgress = metrics.ErrNotInProgress
	ErrAlreadySet    = metrics.ErrAlreadySet
)

// NewContext creates a metrics context flushing to onExit.
func NewContext(onExit OnExit) *Context {
	return metrics.NewContext(onExit)
}

// NewRuntimeContext creates a runtime metrics context flushing to onExit.
func NewRuntimeContext(onExit OnExit) *RuntimeContext {
	return metrics.NewRuntimeContext(onExit)
}
