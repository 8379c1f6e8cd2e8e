package linops

import (
	"fmt"

	"github.com/mahdi-shafiei/probnum/internal/parallel"
	"github.com/mahdi-shafiei/probnum/internal/tensor"
)

// Gather selects rows: (G·x)[i] = x[idx[i]]. Indices may repeat, which makes
// Gather the operator behind broadcasting; a permutation of 0..n-1 makes it
// a transposition of a matrix-shaped vector.
type Gather struct {
	idx  []int
	cols int
}

// NewGather creates a len(idx) × cols selection operator.
func NewGather(idx []int, cols int) (*Gather, error) {
	for i, j := range idx {
		if j < 0 || j >= cols {
			return nil, fmt.Errorf("%w: gather index %d at position %d out of range [0, %d)", ErrShapeMismatch, j, i, cols)
		}
	}
	own := make([]int, len(idx))
	copy(own, idx)
	return &Gather{idx: own, cols: cols}, nil
}

// NewBroadcast returns the operator mapping vec(x) of shape from onto the
// row-major vec of x broadcast to shape to.
func NewBroadcast(from, to tensor.Shape) (*Gather, error) {
	idx, err := tensor.BroadcastIndex(from, to)
	if err != nil {
		return nil, err
	}
	return &Gather{idx: idx, cols: from.NumElements()}, nil
}

// NewTransposition returns the permutation taking vec(M) to vec(Mᵀ) for an
// m×n matrix M in row-major order.
func NewTransposition(m, n int) *Gather {
	idx := make([]int, m*n)
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			idx[j*m+i] = i*n + j
		}
	}
	return &Gather{idx: idx, cols: m * n}
}

// Shape returns (len(idx), cols).
func (g *Gather) Shape() (int, int) { return len(g.idx), g.cols }

// IsIdentity reports whether the gather is the identity map.
func (g *Gather) IsIdentity() bool {
	if len(g.idx) != g.cols {
		return false
	}
	for i, j := range g.idx {
		if i != j {
			return false
		}
	}
	return true
}

// Matmat copies the selected rows of x.
func (g *Gather) Matmat(x *tensor.Array) *tensor.Array {
	checkOperand("Gather", g.cols, x)
	k := x.Shape()[1]
	out := tensor.Zeros(tensor.Shape{len(g.idx), k})
	dst, src := out.Data(), x.Data()
	parallel.ForRange(len(g.idx), func(start, end int) {
		for i := start; i < end; i++ {
			copy(dst[i*k:(i+1)*k], src[g.idx[i]*k:(g.idx[i]+1)*k])
		}
	}, parallel.Default())
	return out
}

// T returns the scatter-add operator Gᵀ.
func (g *Gather) T() LinearOperator { return &scatter{g: g} }

// ToDense returns the 0/1 selection matrix.
func (g *Gather) ToDense() *tensor.Array {
	out := tensor.Zeros(tensor.Shape{len(g.idx), g.cols})
	data := out.Data()
	for i, j := range g.idx {
		data[i*g.cols+j] = 1
	}
	return out
}

func (g *Gather) String() string { return fmt.Sprintf("Gather(%d×%d)", len(g.idx), g.cols) }

// scatter is the transpose of a Gather: rows of x are summed into idx rows.
type scatter struct {
	g *Gather
}

func (s *scatter) Shape() (int, int) { return s.g.cols, len(s.g.idx) }

func (s *scatter) Matmat(x *tensor.Array) *tensor.Array {
	checkOperand("Gather.T", len(s.g.idx), x)
	k := x.Shape()[1]
	out := tensor.Zeros(tensor.Shape{s.g.cols, k})
	dst, src := out.Data(), x.Data()
	// Repeated indices accumulate into the same row, so this stays sequential.
	for i, j := range s.g.idx {
		row := dst[j*k : (j+1)*k]
		for c := range row {
			row[c] += src[i*k+c]
		}
	}
	return out
}

func (s *scatter) T() LinearOperator { return s.g }

func (s *scatter) ToDense() *tensor.Array { return s.g.ToDense().T() }

func (s *scatter) String() string { return fmt.Sprintf("%v.T", s.g) }
