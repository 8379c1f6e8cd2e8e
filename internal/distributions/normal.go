package distributions

import (
	"fmt"

	"github.com/mahdi-shafiei/probnum/internal/linops"
	"github.com/mahdi-shafiei/probnum/internal/tensor"
)

// Normal is a (possibly matrix-variate) Gaussian given by its mean and a
// covariance operator over the row-major flattened mean.
type Normal struct {
	mean *tensor.Array
	cov  linops.LinearOperator
}

// NewNormal creates a Gaussian. cov must be n×n with n = mean.Size().
// The mean is copied and stored as Float64.
func NewNormal(mean *tensor.Array, cov linops.LinearOperator) (*Normal, error) {
	if cov == nil {
		return nil, fmt.Errorf("%w: nil covariance", ErrInvalidCovariance)
	}
	if err := checkCov(mean, cov); err != nil {
		return nil, err
	}
	return &Normal{mean: mean.AsType(tensor.Float64), cov: cov}, nil
}

// NewNormalDense creates a Gaussian from an explicit covariance array. A 0-d
// array is the variance of a single-element mean; otherwise cov must be
// 2-D.
func NewNormalDense(mean, cov *tensor.Array) (*Normal, error) {
	op, err := linops.Dense(cov)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCovariance, err)
	}
	return NewNormal(mean, op)
}

func (n *Normal) Shape() tensor.Shape { return n.mean.Shape() }
func (n *Normal) DType() tensor.DataType { return tensor.Float64 }
func (n *Normal) Mean() *tensor.Array { return n.mean }
func (n *Normal) Cov() linops.LinearOperator { return n.cov }

// WithMoments returns a new Normal with the given moments.
func (n *Normal) WithMoments(mean *tensor.Array, cov linops.LinearOperator) (Distribution, error) {
	return NewNormal(mean, cov)
}

func (n *Normal) String() string {
	return fmt.Sprintf("Normal(shape=%v, cov=%v)", n.Shape(), n.cov)
}
