package distributions

import (
	"fmt"

	"github.com/mahdi-shafiei/probnum/internal/linops"
	"github.com/mahdi-shafiei/probnum/internal/tensor"
)

// Dirac is the degenerate distribution concentrated on a single value.
// Any array is a valid support, including empty arrays, NaN and ±Inf.
type Dirac struct {
	support *tensor.Array
}

// NewDirac creates a point mass at support. The array is copied.
func NewDirac(support *tensor.Array) *Dirac {
	return &Dirac{support: support.Clone()}
}

// Support returns the value the distribution is concentrated on.
func (d *Dirac) Support() *tensor.Array { return d.support }

func (d *Dirac) Shape() tensor.Shape { return d.support.Shape() }
func (d *Dirac) DType() tensor.DataType { return d.support.DType() }
func (d *Dirac) Mean() *tensor.Array { return d.support }

// Cov returns the n×n zero operator.
func (d *Dirac) Cov() linops.LinearOperator {
	n := d.support.Size()
	return linops.NewZero(n, n)
}

// WithMoments returns a point mass at mean. The covariance is only checked
// for size.
func (d *Dirac) WithMoments(mean *tensor.Array, cov linops.LinearOperator) (Distribution, error) {
	if cov != nil {
		if err := checkCov(mean, cov); err != nil {
			return nil, err
		}
	}
	return NewDirac(mean), nil
}

func (d *Dirac) String() string {
	return fmt.Sprintf("Dirac(%v)", d.support)
}
