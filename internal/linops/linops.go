// Package linops implements matrix-free linear operators.
//
// Operators are composed lazily: a Product, Sum, Kronecker or Scaled operator
// only records its factors, and the dense matrix is formed only when ToDense
// is called.
package linops

import (
	"fmt"

	"github.com/mahdi-shafiei/probnum/internal/tensor"
)

// ErrShapeMismatch is returned when operator dimensions are incompatible.
var ErrShapeMismatch = tensor.ErrShapeMismatch

// LinearOperator is a linear map from R^cols to R^rows.
type LinearOperator interface {
	// Shape returns the operator's dimensions.
	Shape() (rows, cols int)

	// Matmat applies the operator to every column of x.
	// x must be a 2-D array with cols rows; the result is rows × x.cols.
	// Panics if x has the wrong shape.
	Matmat(x *tensor.Array) *tensor.Array

	// T returns the transposed operator.
	T() LinearOperator

	// ToDense materialises the operator as a rows × cols array.
	ToDense() *tensor.Array
}

// Matvec applies op to a 1-d vector.
func Matvec(op LinearOperator, v *tensor.Array) (*tensor.Array, error) {
	_, cols := op.Shape()
	if v.Ndim() != 1 || v.Size() != cols {
		return nil, fmt.Errorf("%w: operator %v cannot be applied to vector of shape %v",
			ErrShapeMismatch, ShapeOf(op), v.Shape())
	}
	out := op.Matmat(v.Column())
	return out.Flatten(), nil
}

// Apply applies op to a 1-d vector or a 2-d matrix after checking shapes.
func Apply(op LinearOperator, x *tensor.Array) (*tensor.Array, error) {
	switch x.Ndim() {
	case 1:
		return Matvec(op, x)
	case 2:
		if _, cols := op.Shape(); x.Shape()[0] != cols {
			return nil, fmt.Errorf("%w: operator %v cannot be applied to matrix of shape %v",
				ErrShapeMismatch, ShapeOf(op), x.Shape())
		}
		return op.Matmat(x), nil
	default:
		return nil, fmt.Errorf("%w: operators apply to 1-D or 2-D arrays, got %v", ErrShapeMismatch, x.Shape())
	}
}

// ShapeOf returns the operator dimensions as a tensor.Shape.
func ShapeOf(op LinearOperator) tensor.Shape {
	r, c := op.Shape()
	return tensor.Shape{r, c}
}

// Dense converts a covariance-like array into an operator: a 0-d array is a
// 1×1 operator, a 2-d array is wrapped in MatrixMult.
func Dense(a *tensor.Array) (LinearOperator, error) {
	switch a.Ndim() {
	case 0:
		m, err := a.Reshape(tensor.Shape{1, 1})
		if err != nil {
			return nil, err
		}
		return &MatrixMult{a: m}, nil
	case 2:
		return NewMatrixMult(a)
	default:
		return nil, fmt.Errorf("%w: dense operator needs a 0-D or 2-D array, got %v", ErrShapeMismatch, a.Shape())
	}
}

// densify is the fallback ToDense: apply the operator to the identity.
func densify(op LinearOperator) *tensor.Array {
	_, cols := op.Shape()
	return op.Matmat(tensor.Eye(cols))
}

// checkOperand panics unless x is a 2-D array with cols rows.
func checkOperand(name string, cols int, x *tensor.Array) {
	if x.Ndim() != 2 || x.Shape()[0] != cols {
		panic(fmt.Sprintf("%s: cannot apply operator with %d columns to array of shape %v", name, cols, x.Shape()))
	}
}

// IsZero reports whether op is structurally the zero operator, without
// materialising it.
func IsZero(op LinearOperator) bool {
	switch o := op.(type) {
	case *Zero:
		return true
	case *Scaled:
		return IsZero(o.op)
	case *Product:
		for _, f := range o.factors {
			if IsZero(f) {
				return true
			}
		}
	}
	return false
}

// Diag returns the diagonal of a square operator. Identity, Zero, Diagonal,
// Scaled, Kronecker and Sum are handled structurally; anything else is probed
// one unit vector at a time.
func Diag(op LinearOperator) ([]float64, error) {
	r, c := op.Shape()
	if r != c {
		return nil, fmt.Errorf("%w: diagonal of non-square operator %v", ErrShapeMismatch, ShapeOf(op))
	}
	return diag(op), nil
}

func diag(op LinearOperator) []float64 {
	n, _ := op.Shape()
	out := make([]float64, n)
	switch o := op.(type) {
	case *Identity:
		for i := range out {
			out[i] = 1
		}
	case *Zero:
	case *Diagonal:
		copy(out, o.d)
	case *Scaled:
		for i, v := range diag(o.op) {
			out[i] = o.alpha * v
		}
	case *Kronecker:
		if ar, ac := o.a.Shape(); ar == ac {
			da, db := diag(o.a), diag(o.b)
			for i, a := range da {
				for j, b := range db {
					out[i*len(db)+j] = a * b
				}
			}
			return out
		}
		probe(op, out)
	case *Sum:
		for _, t := range o.terms {
			for i, v := range diag(t) {
				out[i] += v
			}
		}
	default:
		probe(op, out)
	}
	return out
}

// probe fills out[i] with (op·eᵢ)[i].
func probe(op LinearOperator, out []float64) {
	n := len(out)
	e := tensor.Zeros(tensor.Shape{n, 1})
	for i := 0; i < n; i++ {
		e.Data()[i] = 1
		out[i] = op.Matmat(e).Data()[i]
		e.Data()[i] = 0
	}
}
