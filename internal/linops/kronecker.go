package linops

import (
	"fmt"

	"github.com/mahdi-shafiei/probnum/internal/tensor"
)

// Kronecker is the operator A ⊗ B acting on row-major vectorised matrices:
//
//	(A ⊗ B) vec(X) = vec(A X Bᵀ)
//
// A is m×p and B is n×q, so the operator is (m·n) × (p·q). Neither factor is
// densified by Matmat.
type Kronecker struct {
	a, b LinearOperator
}

// NewKronecker creates A ⊗ B.
func NewKronecker(a, b LinearOperator) *Kronecker {
	return &Kronecker{a: a, b: b}
}

// Factors returns A and B.
func (k *Kronecker) Factors() (LinearOperator, LinearOperator) { return k.a, k.b }

// Shape returns (m·n, p·q).
func (k *Kronecker) Shape() (int, int) {
	ar, ac := k.a.Shape()
	br, bc := k.b.Shape()
	return ar * br, ac * bc
}

// Matmat applies A ⊗ B to every column of x.
func (k *Kronecker) Matmat(x *tensor.Array) *tensor.Array {
	rows, cols := k.Shape()
	checkOperand("Kronecker", cols, x)
	return mapColumns(x, rows, func(col *tensor.Array) *tensor.Array {
		return kronApply(k.a, k.b, col)
	})
}

// T returns Aᵀ ⊗ Bᵀ.
func (k *Kronecker) T() LinearOperator { return &Kronecker{a: k.a.T(), b: k.b.T()} }

// ToDense forms kron(A, B) from the dense factors.
func (k *Kronecker) ToDense() *tensor.Array {
	out, err := tensor.Kron(k.a.ToDense(), k.b.ToDense())
	if err != nil {
		panic(fmt.Sprintf("Kronecker.ToDense: %v", err))
	}
	return out
}

func (k *Kronecker) String() string { return fmt.Sprintf("Kronecker(%v, %v)", k.a, k.b) }

// SymmetricKronecker is the symmetric Kronecker product of two n×n
// operators, ½(A ⊗ B + B ⊗ A):
//
//	(A ⊗ₛ B) vec(X) = ½ vec(A X Bᵀ + B X Aᵀ)
//
// It is the covariance structure of symmetric matrix-variate Gaussians.
type SymmetricKronecker struct {
	a, b LinearOperator
	n    int
}

// NewSymmetricKronecker creates A ⊗ₛ B. Both factors must be square with the
// same size. A nil b means b = a.
func NewSymmetricKronecker(a, b LinearOperator) (*SymmetricKronecker, error) {
	if b == nil {
		b = a
	}
	ar, ac := a.Shape()
	br, bc := b.Shape()
	if ar != ac || br != bc || ar != br {
		return nil, fmt.Errorf("%w: symmetric Kronecker needs square factors of equal size, got %d×%d and %d×%d",
			ErrShapeMismatch, ar, ac, br, bc)
	}
	return &SymmetricKronecker{a: a, b: b, n: ar}, nil
}

// Factors returns A and B.
func (s *SymmetricKronecker) Factors() (LinearOperator, LinearOperator) { return s.a, s.b }

// Shape returns (n², n²).
func (s *SymmetricKronecker) Shape() (int, int) { return s.n * s.n, s.n * s.n }

// Matmat applies A ⊗ₛ B to every column of x.
func (s *SymmetricKronecker) Matmat(x *tensor.Array) *tensor.Array {
	rows, cols := s.Shape()
	checkOperand("SymmetricKronecker", cols, x)
	return mapColumns(x, rows, func(col *tensor.Array) *tensor.Array {
		sum, err := tensor.Add(kronApply(s.a, s.b, col), kronApply(s.b, s.a, col))
		if err != nil {
			panic(fmt.Sprintf("SymmetricKronecker.Matmat: %v", err))
		}
		return tensor.Scale(0.5, sum)
	})
}

// T returns Aᵀ ⊗ₛ Bᵀ.
func (s *SymmetricKronecker) T() LinearOperator {
	return &SymmetricKronecker{a: s.a.T(), b: s.b.T(), n: s.n}
}

// ToDense materialises the operator column by column.
func (s *SymmetricKronecker) ToDense() *tensor.Array {
	return densify(s)
}

func (s *SymmetricKronecker) String() string {
	return fmt.Sprintf("SymmetricKronecker(%v, %v)", s.a, s.b)
}

// kronApply computes vec(A X Bᵀ) for a flat vector col = vec(X), without
// forming A ⊗ B. Returns a flat vector.
func kronApply(a, b LinearOperator, col *tensor.Array) *tensor.Array {
	ar, ac := a.Shape()
	br, bc := b.Shape()

	x, err := col.Reshape(tensor.Shape{ac, bc})
	if err != nil {
		panic(fmt.Sprintf("kronApply: %v", err))
	}
	ax := a.Matmat(x)       // ar × bc
	bxa := b.Matmat(ax.T()) // br × ar  = (A X Bᵀ)ᵀ
	y := bxa.T()            // ar × br
	if y.Size() != ar*br {
		panic(fmt.Sprintf("kronApply: unexpected result shape %v", y.Shape()))
	}
	return y.Flatten()
}

// mapColumns applies f to every column of x (as a flat vector) and stacks
// the results as columns of a rows × k matrix.
func mapColumns(x *tensor.Array, rows int, f func(col *tensor.Array) *tensor.Array) *tensor.Array {
	n, k := x.Shape()[0], x.Shape()[1]
	out := tensor.Zeros(tensor.Shape{rows, k})
	dst, src := out.Data(), x.Data()

	buf := make([]float64, n)
	for c := 0; c < k; c++ {
		for r := 0; r < n; r++ {
			buf[r] = src[r*k+c]
		}
		y := f(tensor.Vector(buf...)).Data()
		for r := 0; r < rows; r++ {
			dst[r*k+c] = y[r]
		}
	}
	return out
}
