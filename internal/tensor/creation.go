package tensor

// Zeros creates a float64 array filled with zeros.
// Panics on a negative dimension.
//
// Example:
//
//	a := tensor.Zeros(tensor.Shape{3, 4})
func Zeros(shape Shape) *Array {
	a, err := New(shape, Float64)
	if err != nil {
		panic(err)
	}
	return a
}

// Ones creates a float64 array filled with ones.
func Ones(shape Shape) *Array {
	return Full(shape, 1)
}

// Full creates a float64 array filled with value.
func Full(shape Shape, value float64) *Array {
	a := Zeros(shape)
	for i := range a.data {
		a.data[i] = value
	}
	return a
}

// Eye creates an n×n identity matrix.
func Eye(n int) *Array {
	a := Zeros(Shape{n, n})
	for i := 0; i < n; i++ {
		a.data[i*n+i] = 1
	}
	return a
}

// Diag creates an n×n matrix with the elements of a 1-d array on its diagonal.
func Diag(v *Array) *Array {
	n := v.Size()
	out := Zeros(Shape{n, n})
	for i, x := range v.data {
		out.data[i*n+i] = x
	}
	return out
}
