package randvar

import (
	"fmt"

	"github.com/mahdi-shafiei/probnum/internal/distributions"
	"github.com/mahdi-shafiei/probnum/internal/linops"
	"github.com/mahdi-shafiei/probnum/internal/tensor"
)

// binaryOp identifies an arithmetic operation with the random variable as
// receiver.
type binaryOp int

const (
	opAdd     binaryOp = iota // R + C
	opSub                     // R - C
	opRSub                    // C - R
	opMul                     // R * C
	opDiv                     // R / C
	opRDiv                    // C / R
	opMatMul                  // R @ C
	opRMatMul                 // C @ R
)

var opNames = [...]string{"add", "sub", "rsub", "mul", "div", "rdiv", "matmul", "rmatmul"}

func (op binaryOp) String() string { return opNames[op] }

// swap returns the operation with the operands exchanged.
func (op binaryOp) swap() binaryOp {
	switch op {
	case opSub:
		return opRSub
	case opRSub:
		return opSub
	case opDiv:
		return opRDiv
	case opRDiv:
		return opDiv
	case opMatMul:
		return opRMatMul
	case opRMatMul:
		return opMatMul
	default:
		return op
	}
}

// Add returns r + other with broadcasting.
func (r *RandomVariable) Add(other any) (*RandomVariable, error) { return r.binary(opAdd, other) }

// Sub returns r - other with broadcasting.
func (r *RandomVariable) Sub(other any) (*RandomVariable, error) { return r.binary(opSub, other) }

// RSub returns other - r with broadcasting.
func (r *RandomVariable) RSub(other any) (*RandomVariable, error) { return r.binary(opRSub, other) }

// Mul returns the elementwise product r * other with broadcasting.
func (r *RandomVariable) Mul(other any) (*RandomVariable, error) { return r.binary(opMul, other) }

// Div returns the elementwise quotient r / other with broadcasting.
func (r *RandomVariable) Div(other any) (*RandomVariable, error) { return r.binary(opDiv, other) }

// MatMul returns r @ other.
func (r *RandomVariable) MatMul(other any) (*RandomVariable, error) {
	return r.binary(opMatMul, other)
}

// RMatMul returns other @ r.
func (r *RandomVariable) RMatMul(other any) (*RandomVariable, error) {
	return r.binary(opRMatMul, other)
}

// Neg returns -r.
func (r *RandomVariable) Neg() (*RandomVariable, error) {
	if r.dist == nil {
		return nil, ErrNoDistribution
	}
	return r.withMoments(tensor.Neg(r.dist.Mean()), r.dist.Cov())
}

// binary resolves other and applies op.
//
// A degenerate random variable on either side is treated as the constant it
// holds. Two uncertain operands fail with ErrUnknownDependence.
func (r *RandomVariable) binary(op binaryOp, other any) (*RandomVariable, error) {
	c, err := AsOperand(other)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if r.dist == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrNoDistribution)
	}
	if c.kind != KindRandomVariable {
		return r.withConstant(op, c)
	}

	o := c.rv
	switch {
	case o.dist == nil:
		return nil, fmt.Errorf("%s: %w", op, ErrNoDistribution)
	case o.IsDegenerate():
		return r.withConstant(op, arrayOperand(o.dist.Mean()))
	case r.IsDegenerate():
		return o.withConstant(op.swap(), arrayOperand(r.dist.Mean()))
	default:
		return nil, fmt.Errorf("%w: %s of two uncertain random variables; use AddIndependent or SubIndependent if they are independent",
			ErrUnknownDependence, op)
	}
}

func (r *RandomVariable) withConstant(op binaryOp, c Operand) (*RandomVariable, error) {
	var (
		out *RandomVariable
		err error
	)
	switch op {
	case opMatMul, opRMatMul:
		out, err = r.matmul(c, op == opRMatMul)
	case opAdd:
		out, err = r.shift(c.Array(), tensor.Add)
	case opSub:
		out, err = r.shift(c.Array(), tensor.Sub)
	case opRSub:
		out, err = r.shift(c.Array(), func(m, a *tensor.Array) (*tensor.Array, error) { return tensor.Sub(a, m) })
	case opMul:
		out, err = r.scale(c.Array(), false)
	case opDiv:
		out, err = r.scale(c.Array(), true)
	case opRDiv:
		out, err = r.rdiv(c.Array())
	}
	if err != nil {
		return nil, fmt.Errorf("%s with %s: %w", op, c.kind, err)
	}
	return out, nil
}

// withMoments builds the result of an operation from transformed moments.
func (r *RandomVariable) withMoments(mean *tensor.Array, cov linops.LinearOperator) (*RandomVariable, error) {
	d, err := r.dist.WithMoments(mean, cov)
	if err != nil {
		return nil, err
	}
	return fromDistribution(d), nil
}

// transform returns the variable with the given mean and covariance A·Σ·Aᵀ.
func (r *RandomVariable) transform(mean *tensor.Array, a linops.LinearOperator) (*RandomVariable, error) {
	cov, err := linops.Congruence(a, r.dist.Cov())
	if err != nil {
		return nil, err
	}
	return r.withMoments(mean, cov)
}

// broadcast returns the gather operator taking vec(r) to vec(r) broadcast to
// shape, or nil when it is the identity.
func (r *RandomVariable) broadcast(shape tensor.Shape) (linops.LinearOperator, error) {
	g, err := linops.NewBroadcast(r.shape, shape)
	if err != nil {
		return nil, err
	}
	if g.IsIdentity() {
		return nil, nil
	}
	return g, nil
}

// shift handles r ± c. The covariance only changes through broadcasting.
func (r *RandomVariable) shift(c *tensor.Array, f func(m, c *tensor.Array) (*tensor.Array, error)) (*RandomVariable, error) {
	mean, err := f(r.dist.Mean(), c)
	if err != nil {
		return nil, err
	}
	g, err := r.broadcast(mean.Shape())
	if err != nil {
		return nil, err
	}
	if g == nil {
		return r.withMoments(mean, r.dist.Cov())
	}
	return r.transform(mean, g)
}

// scale handles r * c and r / c.
func (r *RandomVariable) scale(c *tensor.Array, reciprocal bool) (*RandomVariable, error) {
	var (
		mean *tensor.Array
		err  error
	)
	if reciprocal {
		mean, err = tensor.Div(r.dist.Mean(), c)
		c = tensor.Reciprocal(c)
	} else {
		mean, err = tensor.Mul(r.dist.Mean(), c)
	}
	if err != nil {
		return nil, err
	}

	if c.Size() == 1 && mean.Shape().Equal(r.shape) {
		alpha := c.Data()[0]
		return r.withMoments(mean, linops.NewScaled(r.dist.Cov(), alpha*alpha))
	}

	factors, err := tensor.BroadcastTo(c, mean.Shape())
	if err != nil {
		return nil, err
	}
	d, err := linops.NewDiagonal(factors.Flatten())
	if err != nil {
		return nil, err
	}
	g, err := r.broadcast(mean.Shape())
	if err != nil {
		return nil, err
	}
	var a linops.LinearOperator = d
	if g != nil {
		if a, err = linops.NewProduct(d, g); err != nil {
			return nil, err
		}
	}
	return r.transform(mean, a)
}

// rdiv handles c / r, which is only linear when r is a constant.
func (r *RandomVariable) rdiv(c *tensor.Array) (*RandomVariable, error) {
	if !r.IsDegenerate() {
		return nil, fmt.Errorf("%w: division by an uncertain random variable", ErrUnsupportedOperand)
	}
	q, err := tensor.Div(c, r.dist.Mean())
	if err != nil {
		return nil, err
	}
	return Constant(q), nil
}

// matmul handles r @ c, or c @ r when left is set.
//
// With X = mean(r) in row-major vec form, the operator A applied to vec(r) is:
//
//	x (n)   @ R (n)    A = xᵀ
//	R (n)   @ B (n,p)  A = Bᵀ
//	B (m,n) @ R (n)    A = B
//	R (m,n) @ x (n)    A = I_m ⊗ xᵀ
//	R (m,n) @ B (n,p)  A = I_m ⊗ Bᵀ
//	x (m)   @ R (m,n)  A = xᵀ ⊗ I_n
//	B (k,m) @ R (m,n)  A = B ⊗ I_n
func (r *RandomVariable) matmul(c Operand, left bool) (*RandomVariable, error) {
	if r.Ndim() == 0 || r.Ndim() > 2 {
		return nil, fmt.Errorf("%w: matmul needs a 1-D or 2-D random variable, got %v", ErrShapeMismatch, r.shape)
	}

	var (
		b      linops.LinearOperator // matrix or operator operand
		vec    *tensor.Array         // vector operand
		mean   *tensor.Array
		err    error
		rMean  = r.dist.Mean()
		dense  = c.kind != KindLinearOperator
		inner  int
		opRows int
	)
	if dense {
		a := c.Array()
		switch a.Ndim() {
		case 1:
			vec = a
		case 2:
			if b, err = linops.NewMatrixMult(a); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("%w: matmul needs a 1-D or 2-D operand, got %v", ErrShapeMismatch, a.Shape())
		}
		if left {
			mean, err = tensor.MatMul(a, rMean)
		} else {
			mean, err = tensor.MatMul(rMean, a)
		}
		if err != nil {
			return nil, err
		}
	} else {
		b = c.op
		opRows, inner = b.Shape()
		if left {
			if r.shape[0] != inner {
				return nil, fmt.Errorf("%w: operator %v @ random variable %v", ErrShapeMismatch, linops.ShapeOf(b), r.shape)
			}
			if mean, err = linops.Apply(b, rMean); err != nil {
				return nil, err
			}
		} else {
			if r.shape[r.Ndim()-1] != opRows {
				return nil, fmt.Errorf("%w: random variable %v @ operator %v", ErrShapeMismatch, r.shape, linops.ShapeOf(b))
			}
			// X @ B = (Bᵀ Xᵀ)ᵀ
			if mean, err = linops.Apply(b.T(), rMean.T()); err != nil {
				return nil, err
			}
			mean = mean.T()
		}
	}

	var a linops.LinearOperator
	switch {
	case vec != nil:
		row, err := linops.NewMatrixMult(vec.Column().T())
		if err != nil {
			return nil, err
		}
		switch {
		case r.Ndim() == 1:
			a = row
		case left:
			a = linops.NewKronecker(row, linops.NewIdentity(r.shape[1]))
		default:
			a = linops.NewKronecker(linops.NewIdentity(r.shape[0]), row)
		}
	case r.Ndim() == 1 && left:
		a = b
	case r.Ndim() == 1:
		a = b.T()
	case left:
		a = linops.NewKronecker(b, linops.NewIdentity(r.shape[1]))
	default:
		a = linops.NewKronecker(linops.NewIdentity(r.shape[0]), b.T())
	}
	return r.transform(mean, a)
}

// Add returns a + b where at least one side is usually a random variable.
// Plain values on both sides are combined as constants.
func Add(a, b any) (*RandomVariable, error) { return dispatch(opAdd, a, b) }

// Sub returns a - b.
func Sub(a, b any) (*RandomVariable, error) { return dispatch(opSub, a, b) }

// Mul returns the elementwise product a * b.
func Mul(a, b any) (*RandomVariable, error) { return dispatch(opMul, a, b) }

// Div returns the elementwise quotient a / b. b may only be a random
// variable if it is degenerate.
func Div(a, b any) (*RandomVariable, error) { return dispatch(opDiv, a, b) }

// MatMul returns a @ b.
func MatMul(a, b any) (*RandomVariable, error) { return dispatch(opMatMul, a, b) }

func dispatch(op binaryOp, a, b any) (*RandomVariable, error) {
	if rv, ok := a.(*RandomVariable); ok {
		return rv.binary(op, b)
	}
	if rv, ok := b.(*RandomVariable); ok {
		return rv.binary(op.swap(), a)
	}
	rv, err := AsRandVar(a)
	if err != nil {
		return nil, err
	}
	return rv.binary(op, b)
}

// AddIndependent returns a + b assuming a and b are independent: means add
// and covariances add. Shapes must be equal.
func AddIndependent(a, b any) (*RandomVariable, error) {
	return independent(a, b, tensor.Add)
}

// SubIndependent returns a - b assuming a and b are independent: means
// subtract and covariances add. Shapes must be equal.
func SubIndependent(a, b any) (*RandomVariable, error) {
	return independent(a, b, tensor.Sub)
}

func independent(a, b any, f func(x, y *tensor.Array) (*tensor.Array, error)) (*RandomVariable, error) {
	ra, err := AsRandVar(a)
	if err != nil {
		return nil, err
	}
	rb, err := AsRandVar(b)
	if err != nil {
		return nil, err
	}
	if ra.dist == nil || rb.dist == nil {
		return nil, ErrNoDistribution
	}
	if !ra.shape.Equal(rb.shape) {
		return nil, fmt.Errorf("%w: independent combination needs equal shapes, got %v and %v", ErrShapeMismatch, ra.shape, rb.shape)
	}
	mean, err := f(ra.dist.Mean(), rb.dist.Mean())
	if err != nil {
		return nil, err
	}
	cov, err := linops.NewSum(ra.dist.Cov(), rb.dist.Cov())
	if err != nil {
		return nil, err
	}
	base := ra.dist
	if distributions.IsDegenerate(base) {
		base = rb.dist
	}
	d, err := base.WithMoments(mean, cov)
	if err != nil {
		return nil, err
	}
	return fromDistribution(d), nil
}
