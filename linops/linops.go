// Copyright 2025 The probnum Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package linops provides matrix-free linear operators used as covariances.
//
// Operators compose lazily. A covariance such as A·(I ⊗ₛ B)·Aᵀ is stored as
// a Product of its factors and only materialised by ToDense:
//
//	sigma, _ := linops.NewSymmetricKronecker(linops.NewIdentity(2), b)
//	cov, _ := linops.Congruence(a, sigma)
//	dense := cov.ToDense()
package linops

import (
	"github.com/mahdi-shafiei/probnum/internal/linops"
	"github.com/mahdi-shafiei/probnum/tensor"
)

// LinearOperator is a linear map from R^cols to R^rows.
type LinearOperator = linops.LinearOperator

// Operator types.
type (
	MatrixMult         = linops.MatrixMult
	Identity           = linops.Identity
	Zero               = linops.Zero
	Diagonal           = linops.Diagonal
	Scaled             = linops.Scaled
	Gather             = linops.Gather
	Kronecker          = linops.Kronecker
	SymmetricKronecker = linops.SymmetricKronecker
	Product            = linops.Product
	Sum                = linops.Sum
)

// ErrShapeMismatch is returned when operator dimensions are incompatible.
var ErrShapeMismatch = linops.ErrShapeMismatch

// NewMatrixMult wraps a 2-D array.
func NewMatrixMult(a *tensor.Array) (*MatrixMult, error) { return linops.NewMatrixMult(a) }

// NewIdentity creates the n×n identity.
func NewIdentity(n int) *Identity { return linops.NewIdentity(n) }

// NewZero creates a rows×cols zero operator.
func NewZero(rows, cols int) *Zero { return linops.NewZero(rows, cols) }

// NewDiagonal creates diag(d).
func NewDiagonal(d *tensor.Array) (*Diagonal, error) { return linops.NewDiagonal(d) }

// NewScaled returns alpha·op.
func NewScaled(op LinearOperator, alpha float64) LinearOperator { return linops.NewScaled(op, alpha) }

// NewKronecker creates A ⊗ B.
func NewKronecker(a, b LinearOperator) *Kronecker { return linops.NewKronecker(a, b) }

// NewSymmetricKronecker creates A ⊗ₛ B. A nil b means b = a.
func NewSymmetricKronecker(a, b LinearOperator) (*SymmetricKronecker, error) {
	return linops.NewSymmetricKronecker(a, b)
}

// NewProduct composes operators left to right.
func NewProduct(factors ...LinearOperator) (LinearOperator, error) {
	return linops.NewProduct(factors...)
}

// NewSum adds operators of equal shape.
func NewSum(terms ...LinearOperator) (LinearOperator, error) { return linops.NewSum(terms...) }

// Congruence returns A·Σ·Aᵀ.
func Congruence(a, sigma LinearOperator) (LinearOperator, error) { return linops.Congruence(a, sigma) }

// Dense converts a 0-d or 2-d array into an operator.
func Dense(a *tensor.Array) (LinearOperator, error) { return linops.Dense(a) }

// Apply applies op to a vector or matrix.
func Apply(op LinearOperator, x *tensor.Array) (*tensor.Array, error) { return linops.Apply(op, x) }

// Diag returns the diagonal of a square operator.
func Diag(op LinearOperator) ([]float64, error) { return linops.Diag(op) }
