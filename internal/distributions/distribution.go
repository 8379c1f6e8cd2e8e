// Package distributions implements the probability distributions carried by
// random variables. Only the first two moments are represented.
package distributions

import (
	"errors"
	"fmt"

	"github.com/mahdi-shafiei/probnum/internal/linops"
	"github.com/mahdi-shafiei/probnum/internal/tensor"
)

// ErrInvalidCovariance is returned when a covariance does not match the mean.
var ErrInvalidCovariance = errors.New("invalid covariance")

// Distribution is a probability distribution over arrays of a fixed shape.
//
// Moments use the row-major flattening of the shape: Mean() has shape
// Shape() and Cov() is an n×n operator with n = Shape().NumElements().
type Distribution interface {
	Shape() tensor.Shape
	DType() tensor.DataType
	// Mean returns the distribution's own array; callers must not modify it.
	Mean() *tensor.Array
	Cov() linops.LinearOperator

	// WithMoments returns a distribution of the same family with the given
	// moments. The shape of the result is the shape of mean.
	WithMoments(mean *tensor.Array, cov linops.LinearOperator) (Distribution, error)
}

// IsDegenerate reports whether d has zero variance.
func IsDegenerate(d Distribution) bool {
	if _, ok := d.(*Dirac); ok {
		return true
	}
	return linops.IsZero(d.Cov())
}

// Reshape reinterprets the flat moments of d under a new shape with the same
// number of elements.
func Reshape(d Distribution, shape tensor.Shape) (Distribution, error) {
	if d.Shape().Equal(shape) {
		return d, nil
	}
	mean, err := d.Mean().Reshape(shape)
	if err != nil {
		return nil, err
	}
	return d.WithMoments(mean, d.Cov())
}

// Variance returns the marginal variances of d with shape d.Shape().
func Variance(d Distribution) (*tensor.Array, error) {
	v, err := linops.Diag(d.Cov())
	if err != nil {
		return nil, err
	}
	arr, err := tensor.FromSlice(v, d.Shape())
	if err != nil {
		return nil, fmt.Errorf("variance: %w", err)
	}
	return arr, nil
}

func checkCov(mean *tensor.Array, cov linops.LinearOperator) error {
	n := mean.Size()
	r, c := cov.Shape()
	if r != n || c != n {
		return fmt.Errorf("%w: covariance %v does not match mean of shape %v (want %d×%d)",
			ErrInvalidCovariance, linops.ShapeOf(cov), mean.Shape(), n, n)
	}
	return nil
}
