package linops

import (
	"fmt"

	"github.com/mahdi-shafiei/probnum/internal/tensor"
)

// MatrixMult wraps an explicit 2-D array as an operator.
type MatrixMult struct {
	a *tensor.Array
}

// NewMatrixMult creates an operator from a 2-D array. The array is copied.
func NewMatrixMult(a *tensor.Array) (*MatrixMult, error) {
	if a.Ndim() != 2 {
		return nil, fmt.Errorf("%w: MatrixMult needs a 2-D array, got %v", ErrShapeMismatch, a.Shape())
	}
	return &MatrixMult{a: a.Clone()}, nil
}

// Shape returns the matrix dimensions.
func (m *MatrixMult) Shape() (int, int) {
	s := m.a.Shape()
	return s[0], s[1]
}

// Matmat computes A·x.
func (m *MatrixMult) Matmat(x *tensor.Array) *tensor.Array {
	_, cols := m.Shape()
	checkOperand("MatrixMult", cols, x)
	return tensor.MustMatMul(m.a, x)
}

// T returns Aᵀ.
func (m *MatrixMult) T() LinearOperator {
	return &MatrixMult{a: m.a.T()}
}

// ToDense returns a copy of A.
func (m *MatrixMult) ToDense() *tensor.Array {
	return m.a.AsType(tensor.Float64)
}

func (m *MatrixMult) String() string {
	r, c := m.Shape()
	return fmt.Sprintf("MatrixMult(%d×%d)", r, c)
}

// Identity is the n×n identity operator.
type Identity struct {
	n int
}

// NewIdentity creates the n×n identity.
func NewIdentity(n int) *Identity {
	return &Identity{n: n}
}

// Shape returns (n, n).
func (id *Identity) Shape() (int, int) { return id.n, id.n }

// Matmat returns a copy of x.
func (id *Identity) Matmat(x *tensor.Array) *tensor.Array {
	checkOperand("Identity", id.n, x)
	return x.AsType(tensor.Float64)
}

// T returns the identity itself.
func (id *Identity) T() LinearOperator { return id }

// ToDense returns the n×n identity matrix.
func (id *Identity) ToDense() *tensor.Array { return tensor.Eye(id.n) }

func (id *Identity) String() string { return fmt.Sprintf("Identity(%d)", id.n) }

// Zero is the rows×cols zero operator. It is the covariance of a degenerate
// distribution.
type Zero struct {
	rows, cols int
}

// NewZero creates a rows×cols zero operator.
func NewZero(rows, cols int) *Zero {
	return &Zero{rows: rows, cols: cols}
}

// Shape returns (rows, cols).
func (z *Zero) Shape() (int, int) { return z.rows, z.cols }

// Matmat returns a rows × k zero matrix.
func (z *Zero) Matmat(x *tensor.Array) *tensor.Array {
	checkOperand("Zero", z.cols, x)
	return tensor.Zeros(tensor.Shape{z.rows, x.Shape()[1]})
}

// T returns the cols×rows zero operator.
func (z *Zero) T() LinearOperator { return &Zero{rows: z.cols, cols: z.rows} }

// ToDense returns a zero matrix.
func (z *Zero) ToDense() *tensor.Array { return tensor.Zeros(tensor.Shape{z.rows, z.cols}) }

func (z *Zero) String() string { return fmt.Sprintf("Zero(%d×%d)", z.rows, z.cols) }

// Diagonal is the operator diag(d).
type Diagonal struct {
	d []float64
}

// NewDiagonal creates diag(d) from a 1-d array.
func NewDiagonal(d *tensor.Array) (*Diagonal, error) {
	if d.Ndim() != 1 {
		return nil, fmt.Errorf("%w: Diagonal needs a 1-D array, got %v", ErrShapeMismatch, d.Shape())
	}
	vals := make([]float64, d.Size())
	copy(vals, d.Data())
	return &Diagonal{d: vals}, nil
}

// Shape returns (n, n).
func (dg *Diagonal) Shape() (int, int) { return len(dg.d), len(dg.d) }

// Matmat scales row i of x by d[i].
func (dg *Diagonal) Matmat(x *tensor.Array) *tensor.Array {
	checkOperand("Diagonal", len(dg.d), x)
	out := x.AsType(tensor.Float64)
	k := x.Shape()[1]
	data := out.Data()
	for i, di := range dg.d {
		row := data[i*k : (i+1)*k]
		for j := range row {
			row[j] *= di
		}
	}
	return out
}

// T returns the operator itself.
func (dg *Diagonal) T() LinearOperator { return dg }

// ToDense returns diag(d) as a matrix.
func (dg *Diagonal) ToDense() *tensor.Array {
	return tensor.Diag(tensor.Vector(dg.d...))
}

func (dg *Diagonal) String() string { return fmt.Sprintf("Diagonal(%d)", len(dg.d)) }

// Scaled is alpha·op.
type Scaled struct {
	op    LinearOperator
	alpha float64
}

// NewScaled returns alpha·op. Nested scalings are folded into one factor.
func NewScaled(op LinearOperator, alpha float64) LinearOperator {
	if s, ok := op.(*Scaled); ok {
		return &Scaled{op: s.op, alpha: alpha * s.alpha}
	}
	return &Scaled{op: op, alpha: alpha}
}

// Shape returns the shape of the wrapped operator.
func (s *Scaled) Shape() (int, int) { return s.op.Shape() }

// Alpha returns the scale factor.
func (s *Scaled) Alpha() float64 { return s.alpha }

// Matmat computes alpha·(op·x).
func (s *Scaled) Matmat(x *tensor.Array) *tensor.Array {
	return tensor.Scale(s.alpha, s.op.Matmat(x))
}

// T returns alpha·opᵀ.
func (s *Scaled) T() LinearOperator { return &Scaled{op: s.op.T(), alpha: s.alpha} }

// ToDense returns alpha times the dense wrapped operator.
func (s *Scaled) ToDense() *tensor.Array {
	return tensor.Scale(s.alpha, s.op.ToDense()).AsType(tensor.Float64)
}

func (s *Scaled) String() string { return fmt.Sprintf("%g·%v", s.alpha, s.op) }
