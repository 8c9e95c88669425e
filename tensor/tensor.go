// Copyright 2025 Vellum ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor exposes the tensor vocabulary used across the export
// pipeline: shapes, data types and data-free tensor metadata.
package tensor

import (
	"github.com/vellum-ml/vellum/internal/tensor"
)

// Shape represents tensor dimensions.
type Shape = tensor.Shape

// DataType represents runtime type information for tensors.
type DataType = tensor.DataType

// Supported data types for tensors.
const (
	Float32 = tensor.Float32
	Float64 = tensor.Float64
	Int32   = tensor.Int32
	Int64   = tensor.Int64
	Uint8   = tensor.Uint8
	Bool    = tensor.Bool
)

// Meta describes a tensor without holding its data.
type Meta = tensor.Meta

// NewMeta creates tensor metadata with the given shape and dtype.
func NewMeta(shape Shape, dtype DataType) Meta {
	return tensor.NewMeta(shape, dtype)
}
