package distributions

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahdi-shafiei/probnum/internal/linops"
	"github.com/mahdi-shafiei/probnum/internal/tensor"
)

func TestNewNormal(t *testing.T) {
	mean := tensor.Vector(1, 2)
	n, err := NewNormal(mean, linops.NewIdentity(2))
	require.NoError(t, err)

	assert.Equal(t, tensor.Shape{2}, n.Shape())
	assert.Equal(t, tensor.Float64, n.DType())
	assert.Equal(t, []float64{1, 2}, n.Mean().Data())
	assert.False(t, IsDegenerate(n))

	// The mean is copied.
	mean.Data()[0] = 100
	assert.Equal(t, 1.0, n.Mean().At(0))
}

func TestNewNormal_IntegerMean(t *testing.T) {
	mean, err := tensor.FromSlice([]int64{1, 2}, tensor.Shape{2})
	require.NoError(t, err)
	n, err := NewNormal(mean, linops.NewIdentity(2))
	require.NoError(t, err)
	assert.Equal(t, tensor.Float64, n.Mean().DType())
}

func TestNewNormal_InvalidCovariance(t *testing.T) {
	tests := []struct {
		name string
		mean *tensor.Array
		cov  linops.LinearOperator
	}{
		{"too small", tensor.Vector(1, 2, 3), linops.NewIdentity(2)},
		{"not square", tensor.Vector(1, 2), linops.NewZero(2, 3)},
		{"nil", tensor.Vector(1), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewNormal(tt.mean, tt.cov)
			assert.ErrorIs(t, err, ErrInvalidCovariance)
		})
	}
}

func TestNewNormalDense(t *testing.T) {
	n, err := NewNormalDense(tensor.Scalar(0.5), tensor.Scalar(4))
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{}, n.Shape())
	assert.Equal(t, 4.0, n.Cov().ToDense().Item())

	_, err = NewNormalDense(tensor.Vector(1, 2), tensor.Vector(1, 1))
	assert.ErrorIs(t, err, ErrInvalidCovariance)

	cov, err := tensor.FromRows([][]float64{{2, 1}, {1, 2}})
	require.NoError(t, err)
	n, err = NewNormalDense(tensor.Vector(0, 0), cov)
	require.NoError(t, err)
	assert.True(t, tensor.AllClose(cov, n.Cov().ToDense(), 0, 0))
}

func TestDirac(t *testing.T) {
	tests := []struct {
		name    string
		support *tensor.Array
	}{
		{"scalar", tensor.Scalar(1)},
		{"nan", tensor.Scalar(math.NaN())},
		{"inf", tensor.Scalar(math.Inf(1))},
		{"empty", tensor.Vector()},
		{"vector", tensor.Vector(1, 2)},
		{"matrix", tensor.Eye(3)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDirac(tt.support)
			n := tt.support.Size()

			assert.True(t, IsDegenerate(d))
			assert.Equal(t, tt.support.Shape(), d.Shape())
			assert.Equal(t, tt.support.DType(), d.DType())
			assert.Equal(t, tensor.Shape{n, n}, linops.ShapeOf(d.Cov()))
			assert.True(t, linops.IsZero(d.Cov()))
			assert.True(t, tensor.AllClose(tt.support, d.Mean(), 0, 0))
		})
	}
}

func TestDirac_KeepsDType(t *testing.T) {
	a, err := tensor.FromSlice([]int64{3, 4}, tensor.Shape{2})
	require.NoError(t, err)
	assert.Equal(t, tensor.Int64, NewDirac(a).DType())
}

func TestWithMoments(t *testing.T) {
	n, err := NewNormal(tensor.Vector(1, 2), linops.NewIdentity(2))
	require.NoError(t, err)

	next, err := n.WithMoments(tensor.Scalar(3), linops.NewScaled(linops.NewIdentity(1), 2))
	require.NoError(t, err)
	assert.IsType(t, &Normal{}, next)
	assert.Equal(t, tensor.Shape{}, next.Shape())

	_, err = n.WithMoments(tensor.Scalar(3), linops.NewIdentity(2))
	assert.ErrorIs(t, err, ErrInvalidCovariance)

	d := NewDirac(tensor.Vector(1, 2))
	next, err = d.WithMoments(tensor.Vector(5), linops.NewIdentity(1))
	require.NoError(t, err)
	assert.True(t, IsDegenerate(next))
	assert.Equal(t, []float64{5}, next.Mean().Data())
}

func TestReshape(t *testing.T) {
	cov := linops.NewKronecker(linops.NewIdentity(2), linops.NewIdentity(2))
	n, err := NewNormal(tensor.Vector(1, 2, 3, 4), cov)
	require.NoError(t, err)

	r, err := Reshape(n, tensor.Shape{2, 2})
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2, 2}, r.Shape())
	assert.Equal(t, 3.0, r.Mean().At(1, 0))
	assert.Same(t, cov, r.Cov())

	same, err := Reshape(n, tensor.Shape{4})
	require.NoError(t, err)
	assert.Same(t, n, same)

	_, err = Reshape(n, tensor.Shape{3})
	assert.ErrorIs(t, err, tensor.ErrShapeMismatch)
}

func TestVariance(t *testing.T) {
	diag, err := linops.NewDiagonal(tensor.Vector(1, 4, 9, 16))
	require.NoError(t, err)
	n, err := NewNormal(tensor.Zeros(tensor.Shape{2, 2}), diag)
	require.NoError(t, err)

	v, err := Variance(n)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2, 2}, v.Shape())
	assert.Equal(t, []float64{1, 4, 9, 16}, v.Data())

	v, err = Variance(NewDirac(tensor.Scalar(2)))
	require.NoError(t, err)
	assert.Equal(t, 0.0, v.Item())
}
