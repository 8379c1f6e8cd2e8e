package tensor

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Array is a dense, row-major n-dimensional array.
//
// Values are stored as float64 regardless of DType; the DType tag records the
// semantic element type (an integer array stays Int64 until it is combined
// with a float). NaN and ±Inf are stored as given.
//
// Arrays are treated as immutable by the rest of the library: every
// operation returns a new Array.
type Array struct {
	shape Shape
	data  []float64
	dtype DataType
}

// New creates a zero-filled array with the given shape and data type.
func New(shape Shape, dtype DataType) (*Array, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	return &Array{
		shape: shape.Clone(),
		data:  make([]float64, shape.NumElements()),
		dtype: dtype,
	}, nil
}

// FromSlice creates an array from a Go slice.
// The slice is copied; the data type is inferred from T.
func FromSlice[T DType](data []T, shape Shape) (*Array, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("%w: shape %v requires %d elements, but got %d",
			ErrInvalidShape, shape, shape.NumElements(), len(data))
	}

	var dummy T
	a := &Array{
		shape: shape.Clone(),
		data:  make([]float64, len(data)),
		dtype: inferDataType(dummy),
	}
	for i, v := range data {
		a.data[i] = toFloat64(v)
	}
	return a, nil
}

// FromRows creates a 2-D float64 array from row slices.
// All rows must have the same length.
func FromRows(rows [][]float64) (*Array, error) {
	m := len(rows)
	n := 0
	if m > 0 {
		n = len(rows[0])
	}
	data := make([]float64, 0, m*n)
	for i, row := range rows {
		if len(row) != n {
			return nil, fmt.Errorf("%w: row %d has %d elements, want %d", ErrInvalidShape, i, len(row), n)
		}
		data = append(data, row...)
	}
	return &Array{shape: Shape{m, n}, data: data, dtype: Float64}, nil
}

// FromMatrix copies a gonum matrix into a 2-D float64 array.
func FromMatrix(m mat.Matrix) *Array {
	r, c := m.Dims()
	a := &Array{shape: Shape{r, c}, data: make([]float64, r*c), dtype: Float64}
	if d, ok := m.(*mat.Dense); ok {
		raw := d.RawMatrix()
		for i := 0; i < r; i++ {
			copy(a.data[i*c:(i+1)*c], raw.Data[i*raw.Stride:i*raw.Stride+c])
		}
		return a
	}
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			a.data[i*c+j] = m.At(i, j)
		}
	}
	return a
}

// Scalar creates a 0-d float64 array.
func Scalar(v float64) *Array {
	return &Array{shape: Shape{}, data: []float64{v}, dtype: Float64}
}

// Vector creates a 1-d float64 array from its arguments.
func Vector(values ...float64) *Array {
	data := make([]float64, len(values))
	copy(data, values)
	return &Array{shape: Shape{len(values)}, data: data, dtype: Float64}
}

// wrap builds an array around data without copying.
func wrap(shape Shape, data []float64, dtype DataType) *Array {
	return &Array{shape: shape, data: data, dtype: dtype}
}

// Shape returns the array's shape.
func (a *Array) Shape() Shape {
	return a.shape
}

// DType returns the array's data type.
func (a *Array) DType() DataType {
	return a.dtype
}

// Ndim returns the number of dimensions.
func (a *Array) Ndim() int {
	return len(a.shape)
}

// Size returns the total number of elements.
func (a *Array) Size() int {
	return len(a.data)
}

// Data returns the underlying row-major storage.
//
// WARNING: Modifications to the returned slice will modify the array.
func (a *Array) Data() []float64 {
	return a.data
}

// Item returns the value of a single-element array.
// Panics if the array holds more than one element.
func (a *Array) Item() float64 {
	if len(a.data) != 1 {
		panic(fmt.Sprintf("Item() only works for single-element arrays, got shape %v", a.shape))
	}
	return a.data[0]
}

// At returns the element at the given indices.
// Panics if indices are out of bounds.
func (a *Array) At(indices ...int) float64 {
	return a.data[a.offset(indices)]
}

// Set sets the element at the given indices.
// Panics if indices are out of bounds.
func (a *Array) Set(value float64, indices ...int) {
	a.data[a.offset(indices)] = value
}

func (a *Array) offset(indices []int) int {
	if len(indices) != len(a.shape) {
		panic(fmt.Sprintf("expected %d indices, got %d", len(a.shape), len(indices)))
	}
	off := 0
	strides := a.shape.ComputeStrides()
	for i, idx := range indices {
		if idx < 0 || idx >= a.shape[i] {
			panic(fmt.Sprintf("index %d out of bounds for dimension %d (size %d)", idx, i, a.shape[i]))
		}
		off += idx * strides[i]
	}
	return off
}

// Clone creates a deep copy of the array.
func (a *Array) Clone() *Array {
	data := make([]float64, len(a.data))
	copy(data, a.data)
	return &Array{shape: a.shape.Clone(), data: data, dtype: a.dtype}
}

// AsType returns a copy of the array tagged with dtype. Values are converted
// toward zero for integer types and to 0/1 for Bool.
func (a *Array) AsType(dtype DataType) *Array {
	out := a.Clone()
	out.dtype = dtype
	if dtype.IsFloat() {
		return out
	}
	for i, v := range out.data {
		switch {
		case dtype == Bool:
			if v != 0 {
				out.data[i] = 1
			}
		case !math.IsNaN(v) && !math.IsInf(v, 0):
			out.data[i] = math.Trunc(v)
		}
	}
	return out
}

// Mat converts the array into a gonum dense matrix: 0-d → 1×1, 1-d → n×1,
// 2-d → m×n. Returns nil for empty arrays, which gonum cannot represent.
// Panics for arrays with more than two dimensions.
func (a *Array) Mat() *mat.Dense {
	if len(a.data) == 0 {
		return nil
	}
	data := make([]float64, len(a.data))
	copy(data, a.data)
	switch len(a.shape) {
	case 0:
		return mat.NewDense(1, 1, data)
	case 1:
		return mat.NewDense(a.shape[0], 1, data)
	case 2:
		return mat.NewDense(a.shape[0], a.shape[1], data)
	default:
		panic(fmt.Sprintf("Mat() needs at most 2 dimensions, got shape %v", a.shape))
	}
}

// String returns a NumPy-like rendering of the array.
func (a *Array) String() string {
	var sb strings.Builder
	a.format(&sb, 0, 0)
	return sb.String()
}

func (a *Array) format(sb *strings.Builder, dim, off int) {
	if len(a.shape) == 0 {
		fmt.Fprintf(sb, "%g", a.data[0])
		return
	}
	sb.WriteByte('[')
	stride := 1
	for _, d := range a.shape[dim+1:] {
		stride *= d
	}
	for i := 0; i < a.shape[dim]; i++ {
		if i > 0 {
			sb.WriteString(" ")
		}
		if dim == len(a.shape)-1 {
			fmt.Fprintf(sb, "%g", a.data[off+i])
		} else {
			a.format(sb, dim+1, off+i*stride)
		}
	}
	sb.WriteByte(']')
}
