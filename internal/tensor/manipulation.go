package tensor

import "fmt"

// Reshape returns a copy of a with a new shape holding the same number of
// elements. Row-major element order is preserved.
func (a *Array) Reshape(shape Shape) (*Array, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if shape.NumElements() != a.Size() {
		return nil, fmt.Errorf("%w: cannot reshape %v (%d elements) into %v",
			ErrShapeMismatch, a.shape, a.Size(), shape)
	}
	out := a.Clone()
	out.shape = shape.Clone()
	return out, nil
}

// Flatten returns a 1-d copy of a.
func (a *Array) Flatten() *Array {
	out := a.Clone()
	out.shape = Shape{a.Size()}
	return out
}

// Column returns a copy of a as an n×1 matrix.
func (a *Array) Column() *Array {
	out := a.Clone()
	out.shape = Shape{a.Size(), 1}
	return out
}

// T returns the transpose of a 2-D array. 0-d and 1-d arrays are returned
// unchanged (as copies), matching NumPy.
// Panics for arrays with more than two dimensions.
func (a *Array) T() *Array {
	switch a.Ndim() {
	case 0, 1:
		return a.Clone()
	case 2:
	default:
		panic(fmt.Sprintf("T() needs at most 2 dimensions, got shape %v", a.shape))
	}
	m, n := a.shape[0], a.shape[1]
	out := make([]float64, m*n)
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			out[j*m+i] = a.data[i*n+j]
		}
	}
	return wrap(Shape{n, m}, out, a.dtype)
}

// Kron returns the Kronecker product of two 2-D arrays. 1-d operands are
// treated as row vectors, as in NumPy.
//
//	Kron((m,n), (p,q)) -> (m·p, n·q)
func Kron(a, b *Array) (*Array, error) {
	as, err := asMatrixShape(a)
	if err != nil {
		return nil, err
	}
	bs, err := asMatrixShape(b)
	if err != nil {
		return nil, err
	}
	m, n := as[0], as[1]
	p, q := bs[0], bs[1]
	rows, cols := m*p, n*q

	out := make([]float64, rows*cols)
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			aij := a.data[i*n+j]
			for k := 0; k < p; k++ {
				base := (i*p+k)*cols + j*q
				for l := 0; l < q; l++ {
					out[base+l] = aij * b.data[k*q+l]
				}
			}
		}
	}

	shape := Shape{rows, cols}
	if a.Ndim() == 1 && b.Ndim() == 1 {
		shape = Shape{cols}
	}
	return wrap(shape, out, Promote(a.dtype, b.dtype)), nil
}

func asMatrixShape(a *Array) (Shape, error) {
	switch a.Ndim() {
	case 1:
		return Shape{1, a.shape[0]}, nil
	case 2:
		return a.shape, nil
	default:
		return nil, fmt.Errorf("%w: kron needs 1-D or 2-D operands, got %v", ErrShapeMismatch, a.shape)
	}
}

// Diagonal returns the main diagonal of a square 2-D array.
func (a *Array) Diagonal() (*Array, error) {
	if a.Ndim() != 2 || a.shape[0] != a.shape[1] {
		return nil, fmt.Errorf("%w: diagonal needs a square matrix, got %v", ErrShapeMismatch, a.shape)
	}
	n := a.shape[0]
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = a.data[i*n+i]
	}
	return wrap(Shape{n}, out, a.dtype), nil
}

// BroadcastTo returns a copy of a broadcast to shape.
func BroadcastTo(a *Array, shape Shape) (*Array, error) {
	idx, err := BroadcastIndex(a.shape, shape)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(idx))
	for i, j := range idx {
		out[i] = a.data[j]
	}
	return wrap(shape.Clone(), out, a.dtype), nil
}
