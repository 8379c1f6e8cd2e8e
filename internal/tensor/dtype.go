// Package tensor provides the dense array and shape types used by the probnum
// random variable core.
package tensor

// DType is a constraint for Go element types that can be loaded into an Array.
type DType interface {
	~float32 | ~float64 | ~int32 | ~int64 | ~int | ~uint8 | ~bool
}

// DataType records the element type an Array semantically holds.
// Storage is always float64; the tag drives result-type promotion.
type DataType int

// Supported data types, ordered by promotion rank.
const (
	Float32 DataType = iota
	Float64
	Int32
	Int64
	Uint8
	Bool
)

// Size returns the byte size of the data type.
func (dt DataType) Size() int {
	switch dt {
	case Float32, Int32:
		return 4
	case Float64, Int64:
		return 8
	case Uint8, Bool:
		return 1
	default:
		panic("unknown data type")
	}
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Uint8:
		return "uint8"
	case Bool:
		return "bool"
	default:
		return "unknown"
	}
}

// IsFloat reports whether the data type is a floating-point type.
func (dt DataType) IsFloat() bool {
	return dt == Float32 || dt == Float64
}

// rank orders data types for promotion: bool < uint8 < int32 < int64 < float32 < float64.
func (dt DataType) rank() int {
	switch dt {
	case Bool:
		return 0
	case Uint8:
		return 1
	case Int32:
		return 2
	case Int64:
		return 3
	case Float32:
		return 4
	default:
		return 5
	}
}

// Promote returns the smallest data type that can represent both a and b.
//
//	Promote(Int64, Float32) → Float32
//	Promote(Bool, Int32)    → Int32
func Promote(a, b DataType) DataType {
	if a.rank() >= b.rank() {
		return a
	}
	return b
}

// ParseDataType maps a name such as "int64" or "float64" to its DataType.
// The names "int" and "float" are accepted as Int64 and Float64.
func ParseDataType(name string) (DataType, bool) {
	switch name {
	case "float32":
		return Float32, true
	case "float64", "float":
		return Float64, true
	case "int32":
		return Int32, true
	case "int64", "int":
		return Int64, true
	case "uint8":
		return Uint8, true
	case "bool":
		return Bool, true
	default:
		return Float64, false
	}
}

// inferDataType infers DataType from a generic type T.
func inferDataType[T DType](dummy T) DataType {
	switch any(dummy).(type) {
	case float32:
		return Float32
	case float64:
		return Float64
	case int32:
		return Int32
	case int64, int:
		return Int64
	case uint8:
		return Uint8
	case bool:
		return Bool
	default:
		return Float64
	}
}

// toFloat64 converts a supported element to float64 storage.
func toFloat64[T DType](v T) float64 {
	switch x := any(v).(type) {
	case float32:
		return float64(x)
	case float64:
		return x
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case int:
		return float64(x)
	case uint8:
		return float64(x)
	case bool:
		if x {
			return 1
		}
		return 0
	default:
		panic("unsupported type")
	}
}
