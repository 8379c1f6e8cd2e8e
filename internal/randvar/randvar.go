// Package randvar implements random variables whose moments propagate
// analytically through affine arithmetic.
//
// A RandomVariable pairs a shape and a data type with a distribution.
// Combining it with constants (scalars, arrays, matrices, linear operators)
// yields a new RandomVariable whose mean and covariance are transformed in
// closed form:
//
//	mean(A·x + b) = A·mean(x) + b
//	cov(A·x + b)  = A·cov(x)·Aᵀ
//
// Covariances are linear operators and stay lazy; nothing is densified
// unless Cov().ToDense() is called.
package randvar

import (
	"errors"
	"fmt"
	"math"

	"github.com/mahdi-shafiei/probnum/internal/distributions"
	"github.com/mahdi-shafiei/probnum/internal/linops"
	"github.com/mahdi-shafiei/probnum/internal/tensor"
)

var (
	// ErrInsufficientInfo is returned by New when neither shape, dtype nor
	// distribution is given.
	ErrInsufficientInfo = errors.New("insufficient information to construct a random variable")

	// ErrDTypeMismatch is returned when an explicit dtype disagrees with the
	// distribution.
	ErrDTypeMismatch = errors.New("dtype mismatch")

	// ErrNoDistribution is returned when moments are requested from a
	// random variable that carries no distribution.
	ErrNoDistribution = errors.New("random variable has no distribution")

	// ErrUnknownDependence is returned when two uncertain random variables
	// are combined and their joint distribution is unknown.
	ErrUnknownDependence = errors.New("dependence between random variables is unknown")

	// ErrUnsupportedOperand is returned for operands that cannot take part
	// in random variable arithmetic.
	ErrUnsupportedOperand = errors.New("unsupported operand")

	// ErrShapeMismatch is returned for incompatible shapes.
	ErrShapeMismatch = tensor.ErrShapeMismatch
)

// RandomVariable is an uncertain quantity with a fixed shape.
//
// RandomVariable values are immutable; every operation returns a new one.
type RandomVariable struct {
	shape tensor.Shape
	dtype tensor.DataType
	dist  distributions.Distribution
}

type options struct {
	shape    tensor.Shape
	hasShape bool
	dtype    tensor.DataType
	hasDType bool
	dist     distributions.Distribution
}

// Option configures New.
type Option func(*options)

// WithShape sets the shape of the random variable.
func WithShape(shape tensor.Shape) Option {
	return func(o *options) {
		o.shape = shape.Clone()
		o.hasShape = true
	}
}

// WithDType sets the data type of the random variable.
func WithDType(dtype tensor.DataType) Option {
	return func(o *options) {
		o.dtype = dtype
		o.hasDType = true
	}
}

// WithDistribution sets the distribution of the random variable.
func WithDistribution(d distributions.Distribution) Option {
	return func(o *options) {
		o.dist = d
	}
}

// New creates a random variable.
//
// At least one option is required. With a distribution, shape and dtype
// default to the distribution's own. An explicit shape with the same number
// of elements reinterprets the flat moments; any other shape fails with
// ErrShapeMismatch. An explicit dtype must match the distribution's.
// Without a distribution the shape defaults to () and the dtype to Float64.
func New(opts ...Option) (*RandomVariable, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if !o.hasShape && !o.hasDType && o.dist == nil {
		return nil, ErrInsufficientInfo
	}
	if o.hasShape {
		if err := o.shape.Validate(); err != nil {
			return nil, err
		}
	}

	if o.dist == nil {
		rv := &RandomVariable{shape: tensor.Shape{}, dtype: tensor.Float64}
		if o.hasShape {
			rv.shape = o.shape
		}
		if o.hasDType {
			rv.dtype = o.dtype
		}
		return rv, nil
	}

	d := o.dist
	if o.hasDType && o.dtype != d.DType() {
		return nil, fmt.Errorf("%w: dtype %v given for a %v distribution", ErrDTypeMismatch, o.dtype, d.DType())
	}
	if o.hasShape && !o.shape.Equal(d.Shape()) {
		if o.shape.NumElements() != d.Shape().NumElements() {
			return nil, fmt.Errorf("%w: shape %v is incompatible with distribution of shape %v",
				ErrShapeMismatch, o.shape, d.Shape())
		}
		var err error
		if d, err = distributions.Reshape(d, o.shape); err != nil {
			return nil, err
		}
	}
	return fromDistribution(d), nil
}

func fromDistribution(d distributions.Distribution) *RandomVariable {
	return &RandomVariable{shape: d.Shape().Clone(), dtype: d.DType(), dist: d}
}

// Constant returns a degenerate random variable concentrated on a.
func Constant(a *tensor.Array) *RandomVariable {
	return fromDistribution(distributions.NewDirac(a))
}

// AsRandVar coerces x into a random variable.
//
// A *RandomVariable is returned unchanged and a distribution is wrapped.
// Scalars, slices, arrays, gonum matrices and linear operators (densified)
// become degenerate random variables. NaN, ±Inf and empty arrays are
// accepted as they are.
func AsRandVar(x any) (*RandomVariable, error) {
	if d, ok := x.(distributions.Distribution); ok {
		return fromDistribution(d), nil
	}
	op, err := AsOperand(x)
	if err != nil {
		return nil, err
	}
	if op.kind == KindRandomVariable {
		return op.rv, nil
	}
	return Constant(op.Array()), nil
}

// Shape returns the shape of realizations.
func (r *RandomVariable) Shape() tensor.Shape { return r.shape }

// DType returns the element type of realizations.
func (r *RandomVariable) DType() tensor.DataType { return r.dtype }

// Ndim returns the number of dimensions.
func (r *RandomVariable) Ndim() int { return len(r.shape) }

// Size returns the number of elements of a realization.
func (r *RandomVariable) Size() int { return r.shape.NumElements() }

// Distribution returns the distribution, or nil if there is none.
func (r *RandomVariable) Distribution() distributions.Distribution { return r.dist }

// IsDegenerate reports whether r is a constant wrapped as a random variable.
func (r *RandomVariable) IsDegenerate() bool {
	return r.dist != nil && distributions.IsDegenerate(r.dist)
}

// Mean returns a copy of the expected value, with shape r.Shape().
func (r *RandomVariable) Mean() (*tensor.Array, error) {
	if r.dist == nil {
		return nil, ErrNoDistribution
	}
	return r.dist.Mean().Clone(), nil
}

// Cov returns the covariance of the row-major flattened variable.
func (r *RandomVariable) Cov() (linops.LinearOperator, error) {
	if r.dist == nil {
		return nil, ErrNoDistribution
	}
	return r.dist.Cov(), nil
}

// Var returns the marginal variances, with shape r.Shape().
func (r *RandomVariable) Var() (*tensor.Array, error) {
	if r.dist == nil {
		return nil, ErrNoDistribution
	}
	return distributions.Variance(r.dist)
}

// Std returns the marginal standard deviations, with shape r.Shape().
func (r *RandomVariable) Std() (*tensor.Array, error) {
	v, err := r.Var()
	if err != nil {
		return nil, err
	}
	std := tensor.Sqrt(v)
	// Round-off can leave tiny negative variances.
	for i, s := range std.Data() {
		if math.IsNaN(s) && v.Data()[i] < 0 && v.Data()[i] > -1e-12 {
			std.Data()[i] = 0
		}
	}
	return std, nil
}

// Reshape returns r with its flat moments reinterpreted under shape.
func (r *RandomVariable) Reshape(shape tensor.Shape) (*RandomVariable, error) {
	if r.dist == nil {
		if shape.NumElements() != r.shape.NumElements() {
			return nil, fmt.Errorf("%w: cannot reshape %v into %v", ErrShapeMismatch, r.shape, shape)
		}
		return New(WithShape(shape), WithDType(r.dtype))
	}
	return New(WithDistribution(r.dist), WithShape(shape))
}

// T returns the transpose of a matrix-variate random variable. Scalars and
// vectors are returned unchanged.
func (r *RandomVariable) T() (*RandomVariable, error) {
	if r.Ndim() < 2 {
		return r, nil
	}
	if r.Ndim() > 2 {
		return nil, fmt.Errorf("%w: transpose needs at most 2 dimensions, got %v", ErrShapeMismatch, r.shape)
	}
	if r.dist == nil {
		return New(WithShape(tensor.Shape{r.shape[1], r.shape[0]}), WithDType(r.dtype))
	}
	p := linops.NewTransposition(r.shape[0], r.shape[1])
	return r.transform(r.dist.Mean().T(), p)
}

func (r *RandomVariable) String() string {
	family := "none"
	switch r.dist.(type) {
	case nil:
	case *distributions.Normal:
		family = "Normal"
	case *distributions.Dirac:
		family = "Dirac"
	default:
		family = fmt.Sprintf("%T", r.dist)
	}
	return fmt.Sprintf("RandomVariable(shape=%v, dtype=%v, distribution=%s)", r.shape, r.dtype, family)
}
