package problem

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mahdi-shafiei/probnum/internal/distributions"
	"github.com/mahdi-shafiei/probnum/internal/randvar"
	"github.com/mahdi-shafiei/probnum/internal/tensor"
)

// Result summarises the final random variable of a pipeline.
type Result struct {
	Shape        []int       `json:"shape" yaml:"shape"`
	DType        string      `json:"dtype" yaml:"dtype"`
	Distribution string      `json:"distribution" yaml:"distribution"`
	Steps        []string    `json:"steps" yaml:"steps"`
	Mean         any         `json:"mean" yaml:"mean"`
	Var          any         `json:"var" yaml:"var"`
	Cov          [][]float64 `json:"cov" yaml:"cov"`

	// RandomVariable is the evaluated variable.
	RandomVariable *randvar.RandomVariable `json:"-" yaml:"-"`
}

// Build constructs the initial random variable.
func (v *Variable) Build() (*randvar.RandomVariable, error) {
	var d distributions.Distribution
	switch {
	case v.Normal != nil && v.Dirac != nil:
		return nil, fmt.Errorf("%w: variable needs exactly one of normal and dirac", ErrInvalidDocument)
	case v.Normal != nil:
		if v.Normal.Mean.Array == nil {
			return nil, fmt.Errorf("%w: normal needs a mean", ErrInvalidDocument)
		}
		cov, err := v.Normal.Cov.Build()
		if err != nil {
			return nil, fmt.Errorf("covariance: %w", err)
		}
		if d, err = distributions.NewNormal(v.Normal.Mean.Array, cov); err != nil {
			return nil, err
		}
	case v.Dirac != nil:
		d = distributions.NewDirac(v.Dirac.Array)
	default:
		return nil, fmt.Errorf("%w: variable needs exactly one of normal and dirac", ErrInvalidDocument)
	}

	opts := []randvar.Option{randvar.WithDistribution(d)}
	if v.Shape != nil {
		opts = append(opts, randvar.WithShape(tensor.Shape(v.Shape)))
	}
	return randvar.New(opts...)
}

// Name returns the operation of the step.
func (s *Step) Name() (string, error) {
	var names []string
	for name, set := range map[string]bool{
		"matmul":    s.MatMul != nil,
		"rmatmul":   s.RMatMul != nil,
		"add":       s.Add != nil,
		"sub":       s.Sub != nil,
		"rsub":      s.RSub != nil,
		"mul":       s.Mul != nil,
		"div":       s.Div != nil,
		"neg":       s.Neg,
		"transpose": s.Transpose,
		"reshape":   s.Reshape != nil,
	} {
		if set {
			names = append(names, name)
		}
	}
	if len(names) != 1 {
		return "", fmt.Errorf("%w: step needs exactly one operation, got %v", ErrInvalidDocument, names)
	}
	return names[0], nil
}

// Apply applies the step to rv.
func (s *Step) Apply(rv *randvar.RandomVariable) (*randvar.RandomVariable, error) {
	name, err := s.Name()
	if err != nil {
		return nil, err
	}
	switch name {
	case "neg":
		return rv.Neg()
	case "transpose":
		return rv.T()
	case "reshape":
		return rv.Reshape(tensor.Shape(s.Reshape))
	}

	var (
		operand *Operand
		f       func(any) (*randvar.RandomVariable, error)
	)
	switch name {
	case "matmul":
		operand, f = s.MatMul, rv.MatMul
	case "rmatmul":
		operand, f = s.RMatMul, rv.RMatMul
	case "add":
		operand, f = s.Add, rv.Add
	case "sub":
		operand, f = s.Sub, rv.Sub
	case "rsub":
		operand, f = s.RSub, rv.RSub
	case "mul":
		operand, f = s.Mul, rv.Mul
	case "div":
		operand, f = s.Div, rv.Div
	}
	c, err := operand.Resolve()
	if err != nil {
		return nil, err
	}
	return f(c)
}

// Evaluate builds the variable of doc and applies every step in order.
// It stops early when ctx is cancelled.
func Evaluate(ctx context.Context, doc *Document, logger *slog.Logger) (*Result, error) {
	rv, err := doc.Variable.Build()
	if err != nil {
		return nil, fmt.Errorf("variable: %w", err)
	}
	logger.DebugContext(ctx, "built random variable", "rv", rv.String())

	names := make([]string, 0, len(doc.Steps))
	for i := range doc.Steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		step := &doc.Steps[i]
		name, err := step.Name()
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		next, err := step.Apply(rv)
		if err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i+1, name, err)
		}
		logger.DebugContext(ctx, "applied step",
			"step", i+1,
			"op", name,
			"from", rv.Shape().String(),
			"to", next.Shape().String(),
		)
		rv = next
		names = append(names, name)
	}
	return Summarize(rv, names)
}

// Summarize materialises the moments of rv.
func Summarize(rv *randvar.RandomVariable, steps []string) (*Result, error) {
	mean, err := rv.Mean()
	if err != nil {
		return nil, err
	}
	variance, err := rv.Var()
	if err != nil {
		return nil, err
	}
	cov, err := rv.Cov()
	if err != nil {
		return nil, err
	}
	dense := cov.ToDense()
	rows := dense.Shape()[0]
	covRows := make([][]float64, rows)
	for i := range covRows {
		covRows[i] = append([]float64{}, dense.Data()[i*rows:(i+1)*rows]...)
	}

	family := "Normal"
	if rv.IsDegenerate() {
		family = "Dirac"
	}
	return &Result{
		Shape:          append([]int{}, rv.Shape()...),
		DType:          rv.DType().String(),
		Distribution:   family,
		Steps:          steps,
		Mean:           Nested(mean),
		Var:            Nested(variance),
		Cov:            covRows,
		RandomVariable: rv,
	}, nil
}
