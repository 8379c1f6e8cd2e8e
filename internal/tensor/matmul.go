package tensor

import (
	"fmt"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/floats"
)

// MatMul performs matrix multiplication with NumPy semantics for 1-D and
// 2-D operands:
//
//	(n)   @ (n)   -> ()
//	(m,k) @ (k)   -> (m)
//	(k)   @ (k,n) -> (n)
//	(m,k) @ (k,n) -> (m,n)
//
// 0-d operands and operands with more than two dimensions are rejected.
func MatMul(a, b *Array) (*Array, error) {
	if a.Ndim() == 0 || b.Ndim() == 0 {
		return nil, fmt.Errorf("%w: matmul does not accept 0-d operands (%v @ %v)", ErrShapeMismatch, a.shape, b.shape)
	}
	if a.Ndim() > 2 || b.Ndim() > 2 {
		return nil, fmt.Errorf("%w: matmul supports at most 2-D operands, got %v @ %v", ErrShapeMismatch, a.shape, b.shape)
	}

	dtype := Promote(a.dtype, b.dtype)

	// Promote vectors to matrices, remembering which axes to drop again.
	m, k := 1, a.shape[0]
	if a.Ndim() == 2 {
		m, k = a.shape[0], a.shape[1]
	}
	kAlt, n := b.shape[0], 1
	if b.Ndim() == 2 {
		n = b.shape[1]
	}
	if k != kAlt {
		return nil, fmt.Errorf("%w: matmul inner dimensions differ: %v @ %v", ErrShapeMismatch, a.shape, b.shape)
	}

	var outShape Shape
	switch {
	case a.Ndim() == 1 && b.Ndim() == 1:
		outShape = Shape{}
		return wrap(outShape, []float64{floats.Dot(a.data, b.data)}, dtype), nil
	case a.Ndim() == 2 && b.Ndim() == 1:
		outShape = Shape{m}
	case a.Ndim() == 1 && b.Ndim() == 2:
		outShape = Shape{n}
	default:
		outShape = Shape{m, n}
	}

	out := make([]float64, m*n)
	gemm(out, a.data, b.data, m, k, n)
	return wrap(outShape, out, dtype), nil
}

// MustMatMul is MatMul for callers that have already validated shapes.
// Panics on error.
func MustMatMul(a, b *Array) *Array {
	out, err := MatMul(a, b)
	if err != nil {
		panic(err)
	}
	return out
}

// Dot returns the inner product of two 1-d arrays of equal length.
func Dot(a, b *Array) (float64, error) {
	if a.Ndim() != 1 || b.Ndim() != 1 || a.Size() != b.Size() {
		return 0, fmt.Errorf("%w: dot needs equal-length vectors, got %v and %v", ErrShapeMismatch, a.shape, b.shape)
	}
	return floats.Dot(a.data, b.data), nil
}

// gemm computes C = A·B for row-major A (m×k), B (k×n) into c (m×n).
// Degenerate sizes are handled here since BLAS rejects zero leading dimensions.
func gemm(c, a, b []float64, m, k, n int) {
	if m == 0 || n == 0 {
		return
	}
	if k == 0 {
		for i := range c {
			c[i] = 0
		}
		return
	}
	blas64.Gemm(blas.NoTrans, blas.NoTrans, 1,
		blas64.General{Rows: m, Cols: k, Stride: k, Data: a},
		blas64.General{Rows: k, Cols: n, Stride: n, Data: b},
		0,
		blas64.General{Rows: m, Cols: n, Stride: n, Data: c},
	)
}
