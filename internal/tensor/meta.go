package tensor

import "fmt"

// Meta describes a tensor without holding its data.
//
// Tracing, export and diagnostics only ever need the shape, dtype and
// grad flag of an argument; the runtime buffer stays with the backend.
type Meta struct {
	Shape        Shape
	DType        DataType
	RequiresGrad bool
}

// NewMeta creates tensor metadata with the given shape and dtype.
func NewMeta(shape Shape, dtype DataType) Meta {
	return Meta{Shape: shape.Clone(), DType: dtype}
}

// NumElements returns the element count implied by the shape.
func (m Meta) NumElements() int {
	return m.Shape.NumElements()
}

// SizeBytes returns the byte size implied by shape and dtype.
func (m Meta) SizeBytes() int {
	return m.NumElements() * m.DType.Size()
}

// String returns a one-line description, e.g. "Tensor([2 3], dtype=float32, grad=false)".
func (m Meta) String() string {
	return fmt.Sprintf("Tensor(%s, dtype=%s, grad=%t)", m.Shape, m.DType, m.RequiresGrad)
}
