package randvar

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/mahdi-shafiei/probnum/internal/linops"
	"github.com/mahdi-shafiei/probnum/internal/tensor"
)

// OperandKind classifies the second operand of an arithmetic operation.
type OperandKind int

const (
	// KindScalar is a 0-d value.
	KindScalar OperandKind = iota
	// KindArray is a 1-d array (or an array with more than two dimensions).
	KindArray
	// KindMatrix is a 2-d array.
	KindMatrix
	// KindLinearOperator is a linops.LinearOperator.
	KindLinearOperator
	// KindRandomVariable is a *RandomVariable.
	KindRandomVariable
)

func (k OperandKind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindArray:
		return "array"
	case KindMatrix:
		return "matrix"
	case KindLinearOperator:
		return "linear operator"
	case KindRandomVariable:
		return "random variable"
	default:
		return fmt.Sprintf("OperandKind(%d)", int(k))
	}
}

// Operand is a resolved arithmetic operand. Exactly one of its payloads is
// set, according to its kind.
type Operand struct {
	kind  OperandKind
	value *tensor.Array
	op    linops.LinearOperator
	rv    *RandomVariable
}

// Kind returns the operand kind.
func (o Operand) Kind() OperandKind { return o.kind }

// Array returns the operand as a dense array. Linear operators are
// densified; random variables return their mean (nil without distribution).
func (o Operand) Array() *tensor.Array {
	switch o.kind {
	case KindLinearOperator:
		return o.op.ToDense()
	case KindRandomVariable:
		if o.rv.dist == nil {
			return nil
		}
		return o.rv.dist.Mean()
	default:
		return o.value
	}
}

// Operator returns the linear operator of a KindLinearOperator operand.
func (o Operand) Operator() linops.LinearOperator { return o.op }

// RandomVariable returns the random variable of a KindRandomVariable operand.
func (o Operand) RandomVariable() *RandomVariable { return o.rv }

// AsOperand resolves x into an Operand.
//
// Supported: Go integer, float and bool scalars; []float64, []int, []int64,
// [][]float64; *tensor.Array; gonum mat.Matrix; linops.LinearOperator;
// *RandomVariable. Anything else fails with ErrUnsupportedOperand.
func AsOperand(x any) (Operand, error) {
	var (
		a   *tensor.Array
		err error
	)
	switch v := x.(type) {
	case *RandomVariable:
		if v == nil {
			return Operand{}, fmt.Errorf("%w: nil random variable", ErrUnsupportedOperand)
		}
		return Operand{kind: KindRandomVariable, rv: v}, nil
	case linops.LinearOperator:
		return Operand{kind: KindLinearOperator, op: v}, nil
	case *tensor.Array:
		if v == nil {
			return Operand{}, fmt.Errorf("%w: nil array", ErrUnsupportedOperand)
		}
		a = v
	case float64:
		a, err = tensor.FromSlice([]float64{v}, tensor.Shape{})
	case float32:
		a, err = tensor.FromSlice([]float32{v}, tensor.Shape{})
	case int:
		a, err = tensor.FromSlice([]int{v}, tensor.Shape{})
	case int64:
		a, err = tensor.FromSlice([]int64{v}, tensor.Shape{})
	case int32:
		a, err = tensor.FromSlice([]int32{v}, tensor.Shape{})
	case int16:
		a, err = tensor.FromSlice([]int32{int32(v)}, tensor.Shape{})
	case int8:
		a, err = tensor.FromSlice([]int32{int32(v)}, tensor.Shape{})
	case uint8:
		a, err = tensor.FromSlice([]uint8{v}, tensor.Shape{})
	case bool:
		a, err = tensor.FromSlice([]bool{v}, tensor.Shape{})
	case []float64:
		a, err = tensor.FromSlice(v, tensor.Shape{len(v)})
	case []int:
		a, err = tensor.FromSlice(v, tensor.Shape{len(v)})
	case []int64:
		a, err = tensor.FromSlice(v, tensor.Shape{len(v)})
	case [][]float64:
		a, err = tensor.FromRows(v)
	case mat.Matrix:
		a = tensor.FromMatrix(v)
	default:
		return Operand{}, fmt.Errorf("%w: %T", ErrUnsupportedOperand, x)
	}
	if err != nil {
		return Operand{}, err
	}
	return arrayOperand(a), nil
}

func arrayOperand(a *tensor.Array) Operand {
	kind := KindArray
	switch a.Ndim() {
	case 0:
		kind = KindScalar
	case 2:
		kind = KindMatrix
	}
	return Operand{kind: kind, value: a}
}
