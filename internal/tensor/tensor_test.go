package tensor

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// Test helpers

func assertEqualShape(t *testing.T, expected, actual Shape, msg string) {
	t.Helper()
	if !expected.Equal(actual) {
		t.Errorf("%s: expected shape %v, got %v", msg, expected, actual)
	}
}

func assertData(t *testing.T, expected []float64, a *Array, msg string) {
	t.Helper()
	got := a.Data()
	if len(got) != len(expected) {
		t.Fatalf("%s: expected %d elements, got %d", msg, len(expected), len(got))
	}
	for i := range expected {
		if math.Abs(expected[i]-got[i]) > 1e-12 {
			t.Errorf("%s: element %d: expected %v, got %v", msg, i, expected[i], got[i])
		}
	}
}

func mustFromSlice[T DType](t *testing.T, data []T, shape Shape) *Array {
	t.Helper()
	a, err := FromSlice(data, shape)
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}
	return a
}

// DType Tests

func TestDataTypeSize(t *testing.T) {
	tests := []struct {
		dtype DataType
		size  int
	}{
		{Float32, 4},
		{Float64, 8},
		{Int32, 4},
		{Int64, 8},
		{Uint8, 1},
		{Bool, 1},
	}

	for _, tt := range tests {
		if got := tt.dtype.Size(); got != tt.size {
			t.Errorf("%s.Size() = %d, want %d", tt.dtype, got, tt.size)
		}
	}
}

func TestDataTypeString(t *testing.T) {
	tests := []struct {
		dtype DataType
		str   string
	}{
		{Float32, "float32"},
		{Float64, "float64"},
		{Int32, "int32"},
		{Int64, "int64"},
		{Uint8, "uint8"},
		{Bool, "bool"},
	}

	for _, tt := range tests {
		if got := tt.dtype.String(); got != tt.str {
			t.Errorf("%s.String() = %q, want %q", tt.dtype, got, tt.str)
		}
		parsed, ok := ParseDataType(tt.str)
		if !ok || parsed != tt.dtype {
			t.Errorf("ParseDataType(%q) = %v, %v", tt.str, parsed, ok)
		}
	}
}

func TestInferDataType(t *testing.T) {
	if dt := inferDataType(float32(0)); dt != Float32 {
		t.Errorf("inferDataType(float32) = %v, want Float32", dt)
	}
	if dt := inferDataType(float64(0)); dt != Float64 {
		t.Errorf("inferDataType(float64) = %v, want Float64", dt)
	}
	if dt := inferDataType(int32(0)); dt != Int32 {
		t.Errorf("inferDataType(int32) = %v, want Int32", dt)
	}
	if dt := inferDataType(0); dt != Int64 {
		t.Errorf("inferDataType(int) = %v, want Int64", dt)
	}
}

func TestPromote(t *testing.T) {
	tests := []struct {
		a, b, want DataType
	}{
		{Int64, Float64, Float64},
		{Float64, Int64, Float64},
		{Int64, Float32, Float32},
		{Bool, Int32, Int32},
		{Int64, Int64, Int64},
		{Uint8, Bool, Uint8},
	}
	for _, tt := range tests {
		if got := Promote(tt.a, tt.b); got != tt.want {
			t.Errorf("Promote(%s, %s) = %s, want %s", tt.a, tt.b, got, tt.want)
		}
	}
}

// Shape Tests

func TestShapeNumElements(t *testing.T) {
	tests := []struct {
		shape    Shape
		expected int
	}{
		{Shape{}, 1},         // Scalar
		{Shape{5}, 5},        // 1D
		{Shape{3, 4}, 12},    // 2D
		{Shape{2, 3, 4}, 24}, // 3D
		{Shape{0}, 0},        // Empty
		{Shape{3, 0}, 0},     // Empty rows
	}

	for _, tt := range tests {
		if got := tt.shape.NumElements(); got != tt.expected {
			t.Errorf("Shape%v.NumElements() = %d, want %d", tt.shape, got, tt.expected)
		}
	}
}

func TestShapeValidation(t *testing.T) {
	validShapes := []Shape{
		{},
		{0},
		{1},
		{3, 4},
		{3, 0},
	}

	for _, s := range validShapes {
		if err := s.Validate(); err != nil {
			t.Errorf("Shape%v.Validate() failed: %v", s, err)
		}
	}

	invalidShapes := []Shape{
		{-1},
		{3, -4},
	}

	for _, s := range invalidShapes {
		err := s.Validate()
		if err == nil {
			t.Errorf("Shape%v.Validate() should fail but didn't", s)
			continue
		}
		if !errors.Is(err, ErrInvalidShape) {
			t.Errorf("Shape%v.Validate() = %v, want ErrInvalidShape", s, err)
		}
	}
}

func TestShapeEqual(t *testing.T) {
	tests := []struct {
		a, b  Shape
		equal bool
	}{
		{Shape{3, 4}, Shape{3, 4}, true},
		{Shape{3, 4}, Shape{4, 3}, false},
		{Shape{3}, Shape{3, 1}, false},
		{Shape{}, Shape{}, true},
	}

	for _, tt := range tests {
		if got := tt.a.Equal(tt.b); got != tt.equal {
			t.Errorf("Shape%v.Equal(%v) = %v, want %v", tt.a, tt.b, got, tt.equal)
		}
	}
}

func TestShapeString(t *testing.T) {
	tests := map[string]Shape{
		"()":     {},
		"(2,)":   {2},
		"(2, 3)": {2, 3},
	}
	for want, s := range tests {
		if got := s.String(); got != want {
			t.Errorf("Shape%v.String() = %q, want %q", []int(s), got, want)
		}
	}
}

func TestComputeStrides(t *testing.T) {
	tests := []struct {
		shape    Shape
		expected []int
	}{
		{Shape{4}, []int{1}},
		{Shape{3, 4}, []int{4, 1}},
		{Shape{2, 3, 4}, []int{12, 4, 1}},
	}

	for _, tt := range tests {
		got := tt.shape.ComputeStrides()
		if len(got) != len(tt.expected) {
			t.Fatalf("Shape%v.ComputeStrides() length = %d, want %d", tt.shape, len(got), len(tt.expected))
		}
		for i := range got {
			if got[i] != tt.expected[i] {
				t.Errorf("Shape%v.ComputeStrides()[%d] = %d, want %d", tt.shape, i, got[i], tt.expected[i])
			}
		}
	}
}

func TestBroadcastShapes(t *testing.T) {
	tests := []struct {
		a, b      Shape
		expected  Shape
		shouldErr bool
	}{
		// Compatible shapes
		{Shape{3, 1}, Shape{3, 5}, Shape{3, 5}, false},
		{Shape{1, 5}, Shape{3, 5}, Shape{3, 5}, false},
		{Shape{3, 4}, Shape{3, 4}, Shape{3, 4}, false},
		{Shape{1}, Shape{3, 4}, Shape{3, 4}, false},
		{Shape{3, 4}, Shape{1}, Shape{3, 4}, false},
		{Shape{}, Shape{2}, Shape{2}, false},

		// Incompatible shapes
		{Shape{3, 4}, Shape{3, 5}, nil, true},
		{Shape{2, 3}, Shape{3, 3}, nil, true},
		{Shape{2}, Shape{0}, nil, true},
	}

	for _, tt := range tests {
		got, _, err := BroadcastShapes(tt.a, tt.b)
		if tt.shouldErr {
			if !errors.Is(err, ErrShapeMismatch) {
				t.Errorf("BroadcastShapes(%v, %v) error = %v, want ErrShapeMismatch", tt.a, tt.b, err)
			}
		} else {
			if err != nil {
				t.Errorf("BroadcastShapes(%v, %v) failed: %v", tt.a, tt.b, err)
			}
			if !got.Equal(tt.expected) {
				t.Errorf("BroadcastShapes(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.expected)
			}
		}
	}
}

func TestBroadcastIndex(t *testing.T) {
	idx, err := BroadcastIndex(Shape{2, 1}, Shape{2, 3})
	if err != nil {
		t.Fatalf("BroadcastIndex failed: %v", err)
	}
	want := []int{0, 0, 0, 1, 1, 1}
	for i := range want {
		if idx[i] != want[i] {
			t.Errorf("idx[%d] = %d, want %d", i, idx[i], want[i])
		}
	}

	idx, err = BroadcastIndex(Shape{}, Shape{3})
	if err != nil {
		t.Fatalf("BroadcastIndex failed: %v", err)
	}
	for i, v := range idx {
		if v != 0 {
			t.Errorf("scalar idx[%d] = %d, want 0", i, v)
		}
	}

	if _, err := BroadcastIndex(Shape{3}, Shape{2}); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("BroadcastIndex((3,), (2,)) error = %v, want ErrShapeMismatch", err)
	}
}

// Array Tests

func TestFromSlice(t *testing.T) {
	a := mustFromSlice(t, []int64{1, 2, 3, 4}, Shape{2, 2})
	assertEqualShape(t, Shape{2, 2}, a.Shape(), "FromSlice")
	if a.DType() != Int64 {
		t.Errorf("dtype = %s, want int64", a.DType())
	}
	if got := a.At(1, 0); got != 3 {
		t.Errorf("At(1, 0) = %v, want 3", got)
	}

	if _, err := FromSlice([]float64{1, 2, 3}, Shape{2, 2}); !errors.Is(err, ErrInvalidShape) {
		t.Errorf("FromSlice with wrong length: error = %v, want ErrInvalidShape", err)
	}

	empty := mustFromSlice(t, []float64{}, Shape{0})
	if empty.Size() != 0 {
		t.Errorf("empty size = %d", empty.Size())
	}
}

func TestFromRows(t *testing.T) {
	a, err := FromRows([][]float64{{1, 2}, {3, 4}, {5, 6}})
	if err != nil {
		t.Fatalf("FromRows failed: %v", err)
	}
	assertEqualShape(t, Shape{3, 2}, a.Shape(), "FromRows")
	assertData(t, []float64{1, 2, 3, 4, 5, 6}, a, "FromRows")

	if _, err := FromRows([][]float64{{1, 2}, {3}}); err == nil {
		t.Error("FromRows with ragged rows should fail")
	}
}

func TestFromMatrixRoundTrip(t *testing.T) {
	d := mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6})
	a := FromMatrix(d)
	assertEqualShape(t, Shape{2, 3}, a.Shape(), "FromMatrix")
	assertData(t, []float64{1, 2, 3, 4, 5, 6}, a, "FromMatrix")

	if !mat.Equal(a.Mat(), d) {
		t.Error("Mat() does not reproduce the source matrix")
	}
	if FromMatrix(d.T()).At(2, 1) != 6 {
		t.Error("FromMatrix of a transposed view is wrong")
	}
	if Zeros(Shape{0}).Mat() != nil {
		t.Error("Mat() of an empty array should be nil")
	}
}

func TestCreation(t *testing.T) {
	assertData(t, []float64{0, 0, 0}, Zeros(Shape{3}), "Zeros")
	assertData(t, []float64{1, 1}, Ones(Shape{2}), "Ones")
	assertData(t, []float64{7, 7, 7, 7}, Full(Shape{2, 2}, 7), "Full")
	assertData(t, []float64{1, 0, 0, 1}, Eye(2), "Eye")
	assertData(t, []float64{2, 0, 0, 3}, Diag(Vector(2, 3)), "Diag")
	if Scalar(math.NaN()).Ndim() != 0 {
		t.Error("Scalar should be 0-d")
	}
}

func TestAsType(t *testing.T) {
	a := Vector(1.7, -2.2, math.NaN()).AsType(Int64)
	if a.DType() != Int64 {
		t.Fatalf("dtype = %s", a.DType())
	}
	if a.Data()[0] != 1 || a.Data()[1] != -2 || !math.IsNaN(a.Data()[2]) {
		t.Errorf("AsType(Int64) = %v", a.Data())
	}
}

func TestAddBroadcast(t *testing.T) {
	a := mustFromSlice(t, []float64{1, 2, 3, 4, 5, 6}, Shape{2, 3})
	b := Vector(10, 20, 30)

	got, err := Add(a, b)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	assertEqualShape(t, Shape{2, 3}, got.Shape(), "Add")
	assertData(t, []float64{11, 22, 33, 14, 25, 36}, got, "Add")

	got, err = Sub(Scalar(1), b)
	if err != nil {
		t.Fatalf("Sub failed: %v", err)
	}
	assertData(t, []float64{-9, -19, -29}, got, "Sub scalar")

	if _, err := Add(a, Vector(1, 2)); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("Add with incompatible shapes: error = %v, want ErrShapeMismatch", err)
	}
}

func TestMulDivDTypes(t *testing.T) {
	ints := mustFromSlice(t, []int64{2, 4}, Shape{2})

	got, err := Mul(ints, ints)
	if err != nil {
		t.Fatalf("Mul failed: %v", err)
	}
	if got.DType() != Int64 {
		t.Errorf("int*int dtype = %s, want int64", got.DType())
	}

	got, err = Div(ints, ints)
	if err != nil {
		t.Fatalf("Div failed: %v", err)
	}
	if got.DType() != Float64 {
		t.Errorf("int/int dtype = %s, want float64", got.DType())
	}

	if Scale(2, ints).DType() != Int64 {
		t.Error("integral scale should keep int64")
	}
	if Scale(0.5, ints).DType() != Float64 {
		t.Error("fractional scale should promote to float64")
	}
	if Scale(math.Inf(1), ints).DType() != Float64 {
		t.Error("infinite scale should promote to float64")
	}
}

func TestMatMul(t *testing.T) {
	a := mustFromSlice(t, []float64{1, 2, 3, 4}, Shape{2, 2})
	v := Vector(1, -1)

	tests := []struct {
		name  string
		x, y  *Array
		shape Shape
		data  []float64
	}{
		{"matrix@matrix", a, a, Shape{2, 2}, []float64{7, 10, 15, 22}},
		{"matrix@vector", a, v, Shape{2}, []float64{-1, -1}},
		{"vector@matrix", v, a, Shape{2}, []float64{-2, -2}},
		{"vector@vector", v, v, Shape{}, []float64{2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MatMul(tt.x, tt.y)
			if err != nil {
				t.Fatalf("MatMul failed: %v", err)
			}
			assertEqualShape(t, tt.shape, got.Shape(), tt.name)
			assertData(t, tt.data, got, tt.name)
		})
	}
}

func TestMatMulErrors(t *testing.T) {
	a := Zeros(Shape{2, 3})
	cases := [][2]*Array{
		{a, a},
		{Scalar(1), a},
		{Zeros(Shape{2, 2, 2}), a},
	}
	for _, c := range cases {
		if _, err := MatMul(c[0], c[1]); !errors.Is(err, ErrShapeMismatch) {
			t.Errorf("MatMul(%v, %v) error = %v, want ErrShapeMismatch", c[0].Shape(), c[1].Shape(), err)
		}
	}
}

func TestMatMulEmpty(t *testing.T) {
	got, err := MatMul(Zeros(Shape{0, 3}), Zeros(Shape{3, 2}))
	if err != nil {
		t.Fatalf("MatMul failed: %v", err)
	}
	assertEqualShape(t, Shape{0, 2}, got.Shape(), "empty rows")

	got, err = MatMul(Zeros(Shape{2, 0}), Zeros(Shape{0, 2}))
	if err != nil {
		t.Fatalf("MatMul failed: %v", err)
	}
	assertData(t, []float64{0, 0, 0, 0}, got, "empty inner dimension")
}

func TestReshapeAndTranspose(t *testing.T) {
	a := mustFromSlice(t, []float64{1, 2, 3, 4, 5, 6}, Shape{2, 3})

	r, err := a.Reshape(Shape{3, 2})
	if err != nil {
		t.Fatalf("Reshape failed: %v", err)
	}
	assertData(t, []float64{1, 2, 3, 4, 5, 6}, r, "Reshape")

	if _, err := a.Reshape(Shape{4}); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("Reshape to wrong size: error = %v", err)
	}

	tr := a.T()
	assertEqualShape(t, Shape{3, 2}, tr.Shape(), "T")
	assertData(t, []float64{1, 4, 2, 5, 3, 6}, tr, "T")

	assertEqualShape(t, Shape{6}, a.Flatten().Shape(), "Flatten")
	assertEqualShape(t, Shape{6, 1}, a.Column().Shape(), "Column")
}

func TestKron(t *testing.T) {
	x := mustFromSlice(t, []float64{1, -4}, Shape{2, 1})
	got, err := Kron(Eye(2), x)
	if err != nil {
		t.Fatalf("Kron failed: %v", err)
	}
	assertEqualShape(t, Shape{4, 2}, got.Shape(), "Kron")
	assertData(t, []float64{1, 0, -4, 0, 0, 1, 0, -4}, got, "Kron")

	if _, err := Kron(Zeros(Shape{1, 1, 1}), x); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("Kron 3-D error = %v", err)
	}
}

func TestDiagonal(t *testing.T) {
	d, err := mustFromSlice(t, []float64{1, 2, 3, 4}, Shape{2, 2}).Diagonal()
	if err != nil {
		t.Fatalf("Diagonal failed: %v", err)
	}
	assertData(t, []float64{1, 4}, d, "Diagonal")

	if _, err := Zeros(Shape{2, 3}).Diagonal(); err == nil {
		t.Error("Diagonal of non-square matrix should fail")
	}
}

func TestAllClose(t *testing.T) {
	a := Vector(1, math.NaN(), math.Inf(1))
	b := Vector(1+1e-9, math.NaN(), math.Inf(1))
	if !AllClose(a, b, DefaultRelTol, DefaultAbsTol) {
		t.Error("AllClose should accept near-equal values, matching NaN and Inf")
	}
	if AllClose(a, Vector(1, 0, math.Inf(1)), DefaultRelTol, DefaultAbsTol) {
		t.Error("AllClose should reject NaN vs number")
	}
	if AllClose(Vector(1), Vector(1, 1), DefaultRelTol, DefaultAbsTol) {
		t.Error("AllClose should reject different shapes")
	}
}

func TestArrayString(t *testing.T) {
	a := mustFromSlice(t, []float64{1, 2, 3, 4}, Shape{2, 2})
	if got := a.String(); got != "[[1 2] [3 4]]" {
		t.Errorf("String() = %q", got)
	}
	if got := Scalar(2.5).String(); got != "2.5" {
		t.Errorf("scalar String() = %q", got)
	}
}

func TestBroadcastTo(t *testing.T) {
	got, err := BroadcastTo(Vector(1, 2), Shape{3, 2})
	if err != nil {
		t.Fatalf("BroadcastTo failed: %v", err)
	}
	assertEqualShape(t, Shape{3, 2}, got.Shape(), "BroadcastTo")
	assertData(t, []float64{1, 2, 1, 2, 1, 2}, got, "BroadcastTo")

	got, err = BroadcastTo(Scalar(5), Shape{2})
	if err != nil {
		t.Fatalf("BroadcastTo scalar failed: %v", err)
	}
	assertData(t, []float64{5, 5}, got, "BroadcastTo scalar")

	if _, err := BroadcastTo(Vector(1, 2, 3), Shape{2}); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("expected ErrShapeMismatch, got %v", err)
	}
}
