// Copyright 2025 The probnum Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"gonum.org/v1/gonum/mat"

	"github.com/mahdi-shafiei/probnum/internal/tensor"
)

// Type aliases for public API

// DType is a constraint for element types accepted by FromSlice.
// Supported types: float32, float64, int32, int64, int, uint8, bool.
type DType = tensor.DType

// DataType is the semantic element type of an array.
type DataType = tensor.DataType

// Data type constants.
const (
	Float32 DataType = tensor.Float32
	Float64 DataType = tensor.Float64
	Int32   DataType = tensor.Int32
	Int64   DataType = tensor.Int64
	Uint8   DataType = tensor.Uint8
	Bool    DataType = tensor.Bool
)

// Shape represents the dimensions of an array.
// Example: Shape{2, 3} is a 2×3 matrix, Shape{} a scalar.
type Shape = tensor.Shape

// Array is a dense row-major array.
type Array = tensor.Array

// Errors.
var (
	ErrShapeMismatch = tensor.ErrShapeMismatch
	ErrInvalidShape  = tensor.ErrInvalidShape
)

// Tolerances used by AllClose callers that have no better choice.
const (
	DefaultRelTol = tensor.DefaultRelTol
	DefaultAbsTol = tensor.DefaultAbsTol
)

// New creates a zero-filled array.
func New(shape Shape, dtype DataType) (*Array, error) {
	return tensor.New(shape, dtype)
}

// FromSlice creates an array from a Go slice. The data type is inferred
// from T.
func FromSlice[T DType](data []T, shape Shape) (*Array, error) {
	return tensor.FromSlice(data, shape)
}

// FromRows creates a 2-D array from equal-length rows.
func FromRows(rows [][]float64) (*Array, error) {
	return tensor.FromRows(rows)
}

// FromMatrix copies a gonum matrix.
func FromMatrix(m mat.Matrix) *Array {
	return tensor.FromMatrix(m)
}

// Scalar creates a 0-d array.
func Scalar(v float64) *Array { return tensor.Scalar(v) }

// Vector creates a 1-d array.
func Vector(values ...float64) *Array { return tensor.Vector(values...) }

// Zeros creates an array filled with zeros.
func Zeros(shape Shape) *Array { return tensor.Zeros(shape) }

// Ones creates an array filled with ones.
func Ones(shape Shape) *Array { return tensor.Ones(shape) }

// Full creates an array filled with value.
func Full(shape Shape, value float64) *Array { return tensor.Full(shape, value) }

// Eye creates an n×n identity matrix.
func Eye(n int) *Array { return tensor.Eye(n) }

// Diag creates a square matrix with v on its diagonal.
func Diag(v *Array) *Array { return tensor.Diag(v) }

// Add returns a + b with broadcasting.
func Add(a, b *Array) (*Array, error) { return tensor.Add(a, b) }

// Sub returns a - b with broadcasting.
func Sub(a, b *Array) (*Array, error) { return tensor.Sub(a, b) }

// Mul returns a * b elementwise with broadcasting.
func Mul(a, b *Array) (*Array, error) { return tensor.Mul(a, b) }

// Div returns a / b elementwise with broadcasting.
func Div(a, b *Array) (*Array, error) { return tensor.Div(a, b) }

// Scale returns alpha * a.
func Scale(alpha float64, a *Array) *Array { return tensor.Scale(alpha, a) }

// MatMul multiplies 1-D and 2-D arrays with NumPy semantics.
func MatMul(a, b *Array) (*Array, error) { return tensor.MatMul(a, b) }

// Kron returns the Kronecker product of two matrices.
func Kron(a, b *Array) (*Array, error) { return tensor.Kron(a, b) }

// BroadcastShapes computes the broadcast shape of a and b.
func BroadcastShapes(a, b Shape) (Shape, bool, error) {
	return tensor.BroadcastShapes(a, b)
}

// BroadcastTo returns a copy of a broadcast to shape.
func BroadcastTo(a *Array, shape Shape) (*Array, error) {
	return tensor.BroadcastTo(a, shape)
}

// AllClose reports whether a and b agree elementwise within tolerance.
func AllClose(a, b *Array, rtol, atol float64) bool {
	return tensor.AllClose(a, b, rtol, atol)
}

// ParseDataType parses a data type name such as "float64" or "int".
func ParseDataType(name string) (DataType, bool) {
	return tensor.ParseDataType(name)
}
