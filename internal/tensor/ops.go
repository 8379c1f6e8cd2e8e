package tensor

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/mahdi-shafiei/probnum/internal/parallel"
)

// binaryOp is an elementwise kernel over float64 values.
type binaryOp func(x, y float64) float64

// Add returns a + b with NumPy broadcasting.
func Add(a, b *Array) (*Array, error) {
	return elementwise(a, b, func(x, y float64) float64 { return x + y }, Promote(a.dtype, b.dtype))
}

// Sub returns a - b with NumPy broadcasting.
func Sub(a, b *Array) (*Array, error) {
	return elementwise(a, b, func(x, y float64) float64 { return x - y }, Promote(a.dtype, b.dtype))
}

// Mul returns the elementwise product a * b with NumPy broadcasting.
func Mul(a, b *Array) (*Array, error) {
	return elementwise(a, b, func(x, y float64) float64 { return x * y }, Promote(a.dtype, b.dtype))
}

// Div returns the elementwise quotient a / b with NumPy broadcasting.
// The result is always Float64.
func Div(a, b *Array) (*Array, error) {
	return elementwise(a, b, func(x, y float64) float64 { return x / y }, Float64)
}

func elementwise(a, b *Array, op binaryOp, dtype DataType) (*Array, error) {
	if a.shape.Equal(b.shape) {
		out := make([]float64, len(a.data))
		parallel.ForRange(len(out), func(start, end int) {
			for i := start; i < end; i++ {
				out[i] = op(a.data[i], b.data[i])
			}
		}, parallel.Default())
		return wrap(a.shape.Clone(), out, dtype), nil
	}

	outShape, _, err := BroadcastShapes(a.shape, b.shape)
	if err != nil {
		return nil, err
	}

	outStrides := outShape.ComputeStrides()
	aStrides := broadcastStrides(a.shape, outShape)
	bStrides := broadcastStrides(b.shape, outShape)

	out := make([]float64, outShape.NumElements())
	parallel.ForRange(len(out), func(start, end int) {
		for i := start; i < end; i++ {
			out[i] = op(a.data[flatIndex(i, outStrides, aStrides)], b.data[flatIndex(i, outStrides, bStrides)])
		}
	}, parallel.Default())
	return wrap(outShape, out, dtype), nil
}

// Scale returns alpha * a. The data type is promoted to Float64 unless alpha
// is integral.
func Scale(alpha float64, a *Array) *Array {
	out := make([]float64, len(a.data))
	floats.ScaleTo(out, alpha, a.data)
	dtype := a.dtype
	if math.Trunc(alpha) != alpha || math.IsInf(alpha, 0) {
		dtype = Promote(dtype, Float64)
	}
	return wrap(a.shape.Clone(), out, dtype)
}

// Neg returns -a.
func Neg(a *Array) *Array {
	return Scale(-1, a)
}

// Reciprocal returns 1/a elementwise as Float64.
func Reciprocal(a *Array) *Array {
	out := make([]float64, len(a.data))
	for i, v := range a.data {
		out[i] = 1 / v
	}
	return wrap(a.shape.Clone(), out, Float64)
}

// Sqrt returns the elementwise square root as Float64.
func Sqrt(a *Array) *Array {
	out := make([]float64, len(a.data))
	for i, v := range a.data {
		out[i] = math.Sqrt(v)
	}
	return wrap(a.shape.Clone(), out, Float64)
}
