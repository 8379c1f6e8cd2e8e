// Copyright 2025 The probnum Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the dense arrays used as means, constants and
// covariance matrices throughout probnum.
//
// # Overview
//
// Arrays are row-major and stored as float64 with a DataType tag recording
// the semantic element type. The package provides:
//   - Construction from Go slices, rows and gonum matrices
//   - NumPy-style broadcasting for elementwise operations
//   - NumPy matmul semantics for 1-D and 2-D operands (gonum BLAS)
//   - Kronecker products, transposes and reshapes
//
// # Basic Usage
//
//	import "github.com/mahdi-shafiei/probnum/tensor"
//
//	func main() {
//	    a, _ := tensor.FromRows([][]float64{{1, 2}, {3, 4}})
//	    x := tensor.Vector(1, -1)
//
//	    y, _ := tensor.MatMul(a, x) // (2,)
//	    z, _ := tensor.Add(a, x)    // broadcast to (2, 2)
//	}
//
// # Empty arrays
//
// Zero-length dimensions are valid, so empty arrays flow through every
// operation. Negative dimensions are rejected with ErrInvalidShape.
package tensor
