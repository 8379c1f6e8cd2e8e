package problem

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahdi-shafiei/probnum/internal/randvar"
	"github.com/mahdi-shafiei/probnum/internal/tensor"
	"github.com/mahdi-shafiei/probnum/internal/testutil"
)

const matrixVariate = `
variable:
  normal:
    mean: [[-2, 0.3], [0, 1]]
    cov:
      symmetric_kronecker:
        a: {eye: 2}
        b: {dense: [[1, 1], [1, 1]]}
steps:
  - matmul: [[1], [-4]]
`

func decode(t *testing.T, src string) *Document {
	t.Helper()
	doc, err := Decode(strings.NewReader(src))
	require.NoError(t, err)
	return doc
}

func TestEvaluate_MatrixVariate(t *testing.T) {
	doc := decode(t, matrixVariate)

	res, err := Evaluate(context.Background(), doc, testutil.NewTestLogger(t))
	require.NoError(t, err)

	assert.Equal(t, []int{2, 1}, res.Shape)
	assert.Equal(t, "float64", res.DType)
	assert.Equal(t, "Normal", res.Distribution)
	assert.Equal(t, []string{"matmul"}, res.Steps)
	assert.InDeltaSlice(t, []float64{-3.2}, res.Mean.([][]float64)[0], 1e-12)
	assert.InDeltaSlice(t, []float64{-4}, res.Mean.([][]float64)[1], 1e-12)

	// Compare with A·Σ·Aᵀ computed densely, A = I ⊗ xᵀ.
	cov, err := doc.Variable.Normal.Cov.Build()
	require.NoError(t, err)
	xt, err := tensor.FromRows([][]float64{{1, -4}})
	require.NoError(t, err)
	a, err := tensor.Kron(tensor.Eye(2), xt)
	require.NoError(t, err)
	want := tensor.MustMatMul(tensor.MustMatMul(a, cov.ToDense()), a.T())

	require.Len(t, res.Cov, 2)
	for i := range res.Cov {
		assert.InDeltaSlice(t, want.Data()[2*i:2*i+2], res.Cov[i], 1e-12)
	}
	assert.InDelta(t, res.Cov[0][1], res.Cov[1][0], 1e-12)
}

func TestEvaluate_Pipeline(t *testing.T) {
	doc := decode(t, `
variable:
  normal:
    mean: [1, 2]
    cov: {diag: [1, 4]}
steps:
  - mul: 2
  - add: [1, 1]
  - neg: true
  - reshape: [2, 1]
  - transpose: true
`)
	res, err := Evaluate(context.Background(), doc, testutil.NewTestLogger(t))
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2}, res.Shape)
	assert.Equal(t, []string{"mul", "add", "neg", "reshape", "transpose"}, res.Steps)
	assert.Equal(t, [][]float64{{-3, -5}}, res.Mean)
	assert.Equal(t, [][]float64{{4, 16}}, res.Var)
	assert.Equal(t, [][]float64{{4, 0}, {0, 16}}, res.Cov)
}

func TestEvaluate_OperatorOperand(t *testing.T) {
	doc := decode(t, `
variable:
  normal:
    mean: [1, 1, 1]
    cov: {eye: 3}
steps:
  - matmul: {scaled: {alpha: 3, op: {eye: 3}}}
`)
	res, err := Evaluate(context.Background(), doc, testutil.NewTestLogger(t))
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 3, 3}, res.Mean)
	assert.Equal(t, []float64{9, 9, 9}, res.Var)
}

func TestEvaluate_Dirac(t *testing.T) {
	doc := decode(t, `
variable:
  shape: [2, 2]
  dirac: [1, 2, 3, 4]
steps:
  - rsub: 10
`)
	res, err := Evaluate(context.Background(), doc, testutil.NewTestLogger(t))
	require.NoError(t, err)
	assert.Equal(t, "Dirac", res.Distribution)
	assert.Equal(t, [][]float64{{9, 8}, {7, 6}}, res.Mean)
	assert.Equal(t, [][]float64{{0, 0}, {0, 0}}, res.Var)
}

func TestEvaluate_NonFinite(t *testing.T) {
	doc := decode(t, `
variable:
  dirac: [.nan, .inf]
`)
	res, err := Evaluate(context.Background(), doc, testutil.NewTestLogger(t))
	require.NoError(t, err)
	mean := res.Mean.([]float64)
	assert.NotEqual(t, mean[0], mean[0])
	assert.Greater(t, mean[1], 1e308)
}

func TestEvaluate_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{
			name: "two steps in one",
			src:  "variable: {dirac: 1}\nsteps:\n  - {add: 1, mul: 2}\n",
			want: ErrInvalidDocument,
		},
		{
			name: "no variable",
			src:  "steps: []\n",
			want: ErrInvalidDocument,
		},
		{
			name: "both variables",
			src:  "variable: {dirac: 1, normal: {mean: 1, cov: {eye: 1}}}\n",
			want: ErrInvalidDocument,
		},
		{
			name: "kronecker without b",
			src:  "variable: {normal: {mean: [1, 1], cov: {kronecker: {a: {eye: 2}}}}}\n",
			want: ErrInvalidDocument,
		},
		{
			name: "operator with two fields",
			src:  "variable: {normal: {mean: 1, cov: {eye: 1, zeros: 1}}}\n",
			want: ErrInvalidDocument,
		},
		{
			name: "covariance too small",
			src:  "variable: {normal: {mean: [1, 2], cov: {eye: 1}}}\n",
			want: nil,
		},
		{
			name: "incompatible matmul",
			src:  "variable: {normal: {mean: [1, 2], cov: {eye: 2}}}\nsteps:\n  - matmul: [1, 2, 3]\n",
			want: randvar.ErrShapeMismatch,
		},
		{
			name: "bad reshape",
			src:  "variable: {dirac: [1, 2, 3]}\nsteps:\n  - reshape: [2, 2]\n",
			want: randvar.ErrShapeMismatch,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := decode(t, tt.src)
			_, err := Evaluate(context.Background(), doc, testutil.NewTestLogger(t))
			require.Error(t, err)
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestEvaluate_Cancelled(t *testing.T) {
	doc := decode(t, matrixVariate)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Evaluate(ctx, doc, testutil.NewTestLogger(t))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"empty", ""},
		{"unknown field", "variable: {dirac: 1}\nfoo: 1\n"},
		{"ragged", "variable: {dirac: [[1, 2], [3]]}\n"},
		{"mixed depth", "variable: {dirac: [1, [2]]}\n"},
		{"not a number", "variable: {dirac: [1, abc]}\n"},
		{"mapping value", "variable: {dirac: {a: 1}}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.src))
			assert.ErrorIs(t, err, ErrInvalidDocument)
		})
	}
}

func TestValue(t *testing.T) {
	doc := decode(t, "variable: {dirac: [[1, 2, 3], [4, 5, 6]]}\n")
	a := doc.Variable.Dirac.Array
	assert.Equal(t, tensor.Shape{2, 3}, a.Shape())
	assert.Equal(t, 6.0, a.At(1, 2))

	doc = decode(t, "variable: {dirac: [[], []]}\n")
	assert.Equal(t, tensor.Shape{2, 0}, doc.Variable.Dirac.Array.Shape())

	out, err := Value{Array: a}.MarshalYAML()
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1, 2, 3}, {4, 5, 6}}, out)
}

func TestNested(t *testing.T) {
	assert.Equal(t, 2.5, Nested(tensor.Scalar(2.5)))
	assert.Equal(t, []float64{1, 2}, Nested(tensor.Vector(1, 2)))
	assert.Equal(t, [][]float64{{1, 0}, {0, 1}}, Nested(tensor.Eye(2)))
	assert.Equal(t, []float64{0, 0, 0, 0, 0, 0, 0, 0}, Nested(tensor.Zeros(tensor.Shape{2, 2, 2})))
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "problem.yaml")
	require.NoError(t, os.WriteFile(path, []byte(matrixVariate), 0o600))

	doc, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, doc.Steps, 1)
	assert.NotNil(t, doc.Steps[0].MatMul)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
