// Copyright 2025 Vellum ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn exposes the model-tree types used when preparing a model
// for export, including the wrapped-parameter flattening transform.
package nn

import (
	"github.com/vellum-ml/vellum/internal/nn"
	"github.com/vellum-ml/vellum/internal/tensor"
)

// Module is a node in a model tree: parameters plus named children.
type Module = nn.Module

// Parameter is a named model parameter, plain or wrapped.
type Parameter = nn.Parameter

// WrapMeta records how to rebuild one flattened wrapped parameter.
type WrapMeta = nn.WrapMeta

// NewModule creates an empty module with the given name.
func NewModule(name string) *Module {
	return nn.NewModule(name)
}

// NewParameter creates a plain parameter.
func NewParameter(name string, meta tensor.Meta) *Parameter {
	return nn.NewParameter(name, meta)
}

// NewWrappedParameter creates a composite parameter of the given
// wrapper kind over the ordered inner parameters.
func NewWrappedParameter(name, kind string, metadata any, inner []*Parameter) *Parameter {
	return nn.NewWrappedParameter(name, kind, metadata, inner)
}

// FlattenWrappedParams replaces every wrapped parameter in the module
// tree with its plain leaf tensors, returning rebuild metadata keyed by
// parameter FQN. Apply before tracing to avoid per-step wrapper
// overhead; note that flattened state dicts are renamed.
func FlattenWrappedParams(m *Module) map[string]*WrapMeta {
	return nn.FlattenWrappedParams(m)
}

// RebuildWrappedParams reverses FlattenWrappedParams in place.
func RebuildWrappedParams(m *Module, metas map[string]*WrapMeta) error {
	return nn.RebuildWrappedParams(m, metas)
}
