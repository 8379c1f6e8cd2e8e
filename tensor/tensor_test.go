// Copyright 2025 The probnum Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor_test

import (
	"errors"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/mahdi-shafiei/probnum/tensor"
)

func TestDataTypeConstants(t *testing.T) {
	tests := []struct {
		dtype tensor.DataType
		name  string
	}{
		{tensor.Float32, "float32"},
		{tensor.Float64, "float64"},
		{tensor.Int32, "int32"},
		{tensor.Int64, "int64"},
		{tensor.Uint8, "uint8"},
		{tensor.Bool, "bool"},
	}
	for _, tt := range tests {
		if got := tt.dtype.String(); got != tt.name {
			t.Errorf("%v.String() = %q, want %q", tt.dtype, got, tt.name)
		}
		parsed, ok := tensor.ParseDataType(tt.name)
		if !ok || parsed != tt.dtype {
			t.Errorf("ParseDataType(%q) = %v, %v", tt.name, parsed, ok)
		}
	}
}

func TestCreationFunctions(t *testing.T) {
	a, err := tensor.FromSlice([]int32{1, 2, 3, 4}, tensor.Shape{2, 2})
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}
	if a.DType() != tensor.Int32 {
		t.Errorf("FromSlice dtype = %v, want int32", a.DType())
	}

	m := tensor.FromMatrix(mat.NewDense(2, 2, []float64{1, 2, 3, 4}))
	if !tensor.AllClose(a.AsType(tensor.Float64), m, 0, 0) {
		t.Errorf("FromMatrix = %v, want %v", m, a)
	}

	if got := tensor.Eye(3).Size(); got != 9 {
		t.Errorf("Eye(3).Size() = %d, want 9", got)
	}
	if got := tensor.Vector().Shape(); !got.Equal(tensor.Shape{0}) {
		t.Errorf("Vector() shape = %v, want (0,)", got)
	}
}

func TestMatMulAndBroadcast(t *testing.T) {
	a, err := tensor.FromRows([][]float64{{1, 2}, {3, 4}})
	if err != nil {
		t.Fatal(err)
	}
	y, err := tensor.MatMul(a, tensor.Vector(1, -1))
	if err != nil {
		t.Fatalf("MatMul failed: %v", err)
	}
	if !tensor.AllClose(y, tensor.Vector(-1, -1), 0, 0) {
		t.Errorf("MatMul = %v, want [-1 -1]", y)
	}

	z, err := tensor.Add(a, tensor.Vector(10, 20))
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	want, _ := tensor.FromRows([][]float64{{11, 22}, {13, 24}})
	if !tensor.AllClose(z, want, 0, 0) {
		t.Errorf("Add = %v, want %v", z, want)
	}

	if _, _, err := tensor.BroadcastShapes(tensor.Shape{3}, tensor.Shape{2}); !errors.Is(err, tensor.ErrShapeMismatch) {
		t.Errorf("BroadcastShapes error = %v, want ErrShapeMismatch", err)
	}
}
