// Package problem reads YAML problem documents that describe a random
// variable and a pipeline of arithmetic steps applied to it.
//
//	variable:
//	  normal:
//	    mean: [[-2, 0.3], [0, 1]]
//	    cov:
//	      symmetric_kronecker:
//	        a: {eye: 2}
//	        b: {dense: [[1, 1], [1, 1]]}
//	steps:
//	  - matmul: [[1], [-4]]
package problem

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mahdi-shafiei/probnum/internal/linops"
	"github.com/mahdi-shafiei/probnum/internal/tensor"
)

// ErrInvalidDocument is returned for malformed problem documents.
var ErrInvalidDocument = errors.New("invalid problem document")

// Document is a problem: a random variable and the steps applied to it.
type Document struct {
	Variable Variable `yaml:"variable"`
	Steps    []Step   `yaml:"steps"`
}

// Variable describes the initial random variable. Exactly one of Normal and
// Dirac must be set.
type Variable struct {
	Shape  []int   `yaml:"shape,omitempty"`
	Normal *Normal `yaml:"normal,omitempty"`
	Dirac  *Value  `yaml:"dirac,omitempty"`
}

// Normal describes a Gaussian.
type Normal struct {
	Mean Value    `yaml:"mean"`
	Cov  Operator `yaml:"cov"`
}

// Operator describes a linear operator. Exactly one field must be set.
type Operator struct {
	Dense              *Value  `yaml:"dense,omitempty"`
	Eye                *int    `yaml:"eye,omitempty"`
	Zeros              *int    `yaml:"zeros,omitempty"`
	Diag               *Value  `yaml:"diag,omitempty"`
	Scaled             *Scaled `yaml:"scaled,omitempty"`
	Kronecker          *Pair   `yaml:"kronecker,omitempty"`
	SymmetricKronecker *Pair   `yaml:"symmetric_kronecker,omitempty"`
}

// Scaled is alpha·op.
type Scaled struct {
	Alpha float64  `yaml:"alpha"`
	Op    Operator `yaml:"op"`
}

// Pair holds the factors of a Kronecker product. B defaults to A for the
// symmetric product.
type Pair struct {
	A Operator  `yaml:"a"`
	B *Operator `yaml:"b,omitempty"`
}

// Step is one pipeline operation. Exactly one field must be set.
type Step struct {
	MatMul    *Operand `yaml:"matmul,omitempty"`
	RMatMul   *Operand `yaml:"rmatmul,omitempty"`
	Add       *Operand `yaml:"add,omitempty"`
	Sub       *Operand `yaml:"sub,omitempty"`
	RSub      *Operand `yaml:"rsub,omitempty"`
	Mul       *Operand `yaml:"mul,omitempty"`
	Div       *Operand `yaml:"div,omitempty"`
	Neg       bool     `yaml:"neg,omitempty"`
	Transpose bool     `yaml:"transpose,omitempty"`
	Reshape   []int    `yaml:"reshape,omitempty"`
}

// Operand is a step argument: a number or nested list, or a mapping that
// describes a linear operator.
type Operand struct {
	Value    *Value
	Operator *Operator
}

// UnmarshalYAML decodes mappings as operators and everything else as values.
func (o *Operand) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.MappingNode {
		o.Operator = new(Operator)
		return node.Decode(o.Operator)
	}
	o.Value = new(Value)
	return node.Decode(o.Value)
}

// Resolve returns the operand as *tensor.Array or linops.LinearOperator.
func (o *Operand) Resolve() (any, error) {
	if o.Operator != nil {
		return o.Operator.Build()
	}
	if o.Value == nil || o.Value.Array == nil {
		return nil, fmt.Errorf("%w: empty operand", ErrInvalidDocument)
	}
	return o.Value.Array, nil
}

// Value is a number or a (nested) list of numbers decoded into an array.
// YAML's .nan and .inf are accepted.
type Value struct {
	Array *tensor.Array
}

// UnmarshalYAML decodes a scalar or a rectangular nested sequence.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	var (
		shape tensor.Shape
		data  []float64
	)
	if err := collect(node, 0, &shape, &data); err != nil {
		return err
	}
	a, err := tensor.FromSlice(data, shape)
	if err != nil {
		return fmt.Errorf("%w: line %d: %v", ErrInvalidDocument, node.Line, err)
	}
	v.Array = a
	return nil
}

// MarshalYAML encodes the array as nested lists.
func (v Value) MarshalYAML() (any, error) {
	if v.Array == nil {
		return nil, nil
	}
	return Nested(v.Array), nil
}

// collect walks node depth-first, recording the extent of every level in
// shape and appending scalars to data.
func collect(node *yaml.Node, depth int, shape *tensor.Shape, data *[]float64) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if depth != len(*shape) {
			return fmt.Errorf("%w: line %d: ragged nested list", ErrInvalidDocument, node.Line)
		}
		var f float64
		if err := node.Decode(&f); err != nil {
			return fmt.Errorf("%w: line %d: %q is not a number", ErrInvalidDocument, node.Line, node.Value)
		}
		*data = append(*data, f)
		return nil
	case yaml.SequenceNode:
		n := len(node.Content)
		switch {
		case depth == len(*shape) && len(*data) == 0:
			*shape = append(*shape, n)
		case depth >= len(*shape) || (*shape)[depth] != n:
			return fmt.Errorf("%w: line %d: ragged nested list", ErrInvalidDocument, node.Line)
		}
		for _, child := range node.Content {
			if err := collect(child, depth+1, shape, data); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("%w: line %d: expected a number or a list", ErrInvalidDocument, node.Line)
	}
}

// Build constructs the described operator.
func (o *Operator) Build() (linops.LinearOperator, error) {
	var (
		ops []linops.LinearOperator
		err error
		set int
	)
	add := func(op linops.LinearOperator, e error) {
		set++
		ops = append(ops, op)
		if err == nil {
			err = e
		}
	}
	if o.Dense != nil {
		add(linops.Dense(o.Dense.Array))
	}
	if o.Eye != nil {
		add(sized(*o.Eye, func(n int) linops.LinearOperator { return linops.NewIdentity(n) }))
	}
	if o.Zeros != nil {
		add(sized(*o.Zeros, func(n int) linops.LinearOperator { return linops.NewZero(n, n) }))
	}
	if o.Diag != nil {
		add(linops.NewDiagonal(o.Diag.Array))
	}
	if o.Scaled != nil {
		op, e := o.Scaled.Op.Build()
		if e == nil {
			op = linops.NewScaled(op, o.Scaled.Alpha)
		}
		add(op, e)
	}
	if o.Kronecker != nil {
		a, b, e := o.Kronecker.build(false)
		var op linops.LinearOperator
		if e == nil {
			op = linops.NewKronecker(a, b)
		}
		add(op, e)
	}
	if o.SymmetricKronecker != nil {
		a, b, e := o.SymmetricKronecker.build(true)
		var op linops.LinearOperator
		if e == nil {
			op, e = linops.NewSymmetricKronecker(a, b)
		}
		add(op, e)
	}

	if set != 1 {
		return nil, fmt.Errorf("%w: operator needs exactly one of dense, eye, zeros, diag, scaled, kronecker, symmetric_kronecker (got %d)",
			ErrInvalidDocument, set)
	}
	if err != nil {
		return nil, err
	}
	return ops[0], nil
}

func sized(n int, f func(int) linops.LinearOperator) (linops.LinearOperator, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative operator size %d", ErrInvalidDocument, n)
	}
	return f(n), nil
}

func (p *Pair) build(symmetric bool) (linops.LinearOperator, linops.LinearOperator, error) {
	a, err := p.A.Build()
	if err != nil {
		return nil, nil, err
	}
	if p.B == nil {
		if symmetric {
			return a, a, nil
		}
		return nil, nil, fmt.Errorf("%w: kronecker needs both a and b", ErrInvalidDocument)
	}
	b, err := p.B.Build()
	if err != nil {
		return nil, nil, err
	}
	return a, b, nil
}

// Decode reads a document from r. Unknown fields are rejected.
func Decode(r io.Reader) (*Document, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidDocument)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return &doc, nil
}

// LoadFile reads a document from path.
func LoadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// Nested converts an array of at most two dimensions to float64, []float64
// or [][]float64. Higher-dimensional arrays are flattened.
func Nested(a *tensor.Array) any {
	switch a.Ndim() {
	case 0:
		return a.Item()
	case 2:
		s := a.Shape()
		out := make([][]float64, s[0])
		for i := range out {
			out[i] = append([]float64{}, a.Data()[i*s[1]:(i+1)*s[1]]...)
		}
		return out
	default:
		return append([]float64{}, a.Data()...)
	}
}
