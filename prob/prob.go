// Copyright 2025 The probnum Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package prob

import (
	"github.com/mahdi-shafiei/probnum/internal/distributions"
	"github.com/mahdi-shafiei/probnum/internal/randvar"
	"github.com/mahdi-shafiei/probnum/linops"
	"github.com/mahdi-shafiei/probnum/tensor"
)

// RandomVariable is an uncertain quantity with a fixed shape.
type RandomVariable = randvar.RandomVariable

// Option configures New.
type Option = randvar.Option

// Operand is a resolved arithmetic operand.
type Operand = randvar.Operand

// OperandKind classifies operands.
type OperandKind = randvar.OperandKind

// Operand kinds.
const (
	KindScalar         = randvar.KindScalar
	KindArray          = randvar.KindArray
	KindMatrix         = randvar.KindMatrix
	KindLinearOperator = randvar.KindLinearOperator
	KindRandomVariable = randvar.KindRandomVariable
)

// Distribution is the moment contract of a distribution.
type Distribution = distributions.Distribution

// Distribution families.
type (
	Normal = distributions.Normal
	Dirac  = distributions.Dirac
)

// Errors.
var (
	ErrInsufficientInfo   = randvar.ErrInsufficientInfo
	ErrDTypeMismatch      = randvar.ErrDTypeMismatch
	ErrNoDistribution     = randvar.ErrNoDistribution
	ErrUnknownDependence  = randvar.ErrUnknownDependence
	ErrUnsupportedOperand = randvar.ErrUnsupportedOperand
	ErrShapeMismatch      = randvar.ErrShapeMismatch
	ErrInvalidCovariance  = distributions.ErrInvalidCovariance
)

// New creates a random variable.
func New(opts ...Option) (*RandomVariable, error) { return randvar.New(opts...) }

// WithShape sets the shape.
func WithShape(shape tensor.Shape) Option { return randvar.WithShape(shape) }

// WithDType sets the data type.
func WithDType(dtype tensor.DataType) Option { return randvar.WithDType(dtype) }

// WithDistribution sets the distribution.
func WithDistribution(d Distribution) Option { return randvar.WithDistribution(d) }

// AsRandVar coerces a value into a random variable.
func AsRandVar(x any) (*RandomVariable, error) { return randvar.AsRandVar(x) }

// AsOperand resolves an arithmetic operand.
func AsOperand(x any) (Operand, error) { return randvar.AsOperand(x) }

// Constant returns a degenerate random variable concentrated on a.
func Constant(a *tensor.Array) *RandomVariable { return randvar.Constant(a) }

// NewNormal creates a Gaussian with the given mean and covariance operator.
func NewNormal(mean *tensor.Array, cov linops.LinearOperator) (*Normal, error) {
	return distributions.NewNormal(mean, cov)
}

// NewNormalDense creates a Gaussian from a covariance array.
func NewNormalDense(mean, cov *tensor.Array) (*Normal, error) {
	return distributions.NewNormalDense(mean, cov)
}

// NewDirac creates a point mass.
func NewDirac(support *tensor.Array) *Dirac { return distributions.NewDirac(support) }

// IsDegenerate reports whether d has zero variance.
func IsDegenerate(d Distribution) bool { return distributions.IsDegenerate(d) }

// Add returns a + b.
func Add(a, b any) (*RandomVariable, error) { return randvar.Add(a, b) }

// Sub returns a - b.
func Sub(a, b any) (*RandomVariable, error) { return randvar.Sub(a, b) }

// Mul returns a * b elementwise.
func Mul(a, b any) (*RandomVariable, error) { return randvar.Mul(a, b) }

// Div returns a / b elementwise.
func Div(a, b any) (*RandomVariable, error) { return randvar.Div(a, b) }

// MatMul returns a @ b.
func MatMul(a, b any) (*RandomVariable, error) { return randvar.MatMul(a, b) }

// AddIndependent returns a + b for independent a and b.
func AddIndependent(a, b any) (*RandomVariable, error) { return randvar.AddIndependent(a, b) }

// SubIndependent returns a - b for independent a and b.
func SubIndependent(a, b any) (*RandomVariable, error) { return randvar.SubIndependent(a, b) }
