package linops

import (
	"fmt"
	"strings"

	"github.com/mahdi-shafiei/probnum/internal/tensor"
)

// Product is the lazy composition F₁·F₂·…·Fₖ. Matmat applies the factors
// right to left; nothing is multiplied out until ToDense.
type Product struct {
	factors []LinearOperator
}

// NewProduct composes the given operators. Nested products are flattened.
// Adjacent dimensions must agree.
func NewProduct(factors ...LinearOperator) (LinearOperator, error) {
	if len(factors) == 0 {
		return nil, fmt.Errorf("%w: empty product", ErrShapeMismatch)
	}
	flat := make([]LinearOperator, 0, len(factors))
	for _, f := range factors {
		if p, ok := f.(*Product); ok {
			flat = append(flat, p.factors...)
			continue
		}
		flat = append(flat, f)
	}
	for i := 0; i+1 < len(flat); i++ {
		_, c := flat[i].Shape()
		r, _ := flat[i+1].Shape()
		if c != r {
			return nil, fmt.Errorf("%w: cannot compose %v with %v", ErrShapeMismatch, ShapeOf(flat[i]), ShapeOf(flat[i+1]))
		}
	}
	if len(flat) == 1 {
		return flat[0], nil
	}
	return &Product{factors: flat}, nil
}

// Congruence returns the lazy operator A·Σ·Aᵀ, the covariance of A·x when
// x has covariance Σ.
func Congruence(a, sigma LinearOperator) (LinearOperator, error) {
	return NewProduct(a, sigma, a.T())
}

// Factors returns the composed operators, leftmost first.
func (p *Product) Factors() []LinearOperator { return p.factors }

// Shape returns (rows of the first factor, cols of the last).
func (p *Product) Shape() (int, int) {
	r, _ := p.factors[0].Shape()
	_, c := p.factors[len(p.factors)-1].Shape()
	return r, c
}

// Matmat applies each factor in turn, starting with the rightmost.
func (p *Product) Matmat(x *tensor.Array) *tensor.Array {
	_, cols := p.Shape()
	checkOperand("Product", cols, x)
	out := x
	for i := len(p.factors) - 1; i >= 0; i-- {
		out = p.factors[i].Matmat(out)
	}
	return out
}

// T returns Fₖᵀ·…·F₁ᵀ.
func (p *Product) T() LinearOperator {
	ts := make([]LinearOperator, len(p.factors))
	for i, f := range p.factors {
		ts[len(p.factors)-1-i] = f.T()
	}
	return &Product{factors: ts}
}

// ToDense multiplies the product out, densifying only the last factor.
func (p *Product) ToDense() *tensor.Array {
	out := p.factors[len(p.factors)-1].ToDense()
	for i := len(p.factors) - 2; i >= 0; i-- {
		out = p.factors[i].Matmat(out)
	}
	return out
}

func (p *Product) String() string {
	parts := make([]string, len(p.factors))
	for i, f := range p.factors {
		parts[i] = fmt.Sprint(f)
	}
	return strings.Join(parts, " @ ")
}

// Sum is the lazy sum of operators with equal shapes.
type Sum struct {
	terms []LinearOperator
}

// NewSum adds the given operators. All shapes must be equal.
func NewSum(terms ...LinearOperator) (LinearOperator, error) {
	if len(terms) == 0 {
		return nil, fmt.Errorf("%w: empty sum", ErrShapeMismatch)
	}
	r, c := terms[0].Shape()
	kept := make([]LinearOperator, 0, len(terms))
	for _, t := range terms {
		tr, tc := t.Shape()
		if tr != r || tc != c {
			return nil, fmt.Errorf("%w: cannot add %v and %v", ErrShapeMismatch, ShapeOf(terms[0]), ShapeOf(t))
		}
		if IsZero(t) {
			continue
		}
		kept = append(kept, t)
	}
	switch len(kept) {
	case 0:
		return NewZero(r, c), nil
	case 1:
		return kept[0], nil
	}
	return &Sum{terms: kept}, nil
}

// Shape returns the common shape of the terms.
func (s *Sum) Shape() (int, int) { return s.terms[0].Shape() }

// Matmat adds the result of every term.
func (s *Sum) Matmat(x *tensor.Array) *tensor.Array {
	out := s.terms[0].Matmat(x)
	for _, t := range s.terms[1:] {
		next, err := tensor.Add(out, t.Matmat(x))
		if err != nil {
			panic(fmt.Sprintf("Sum.Matmat: %v", err))
		}
		out = next
	}
	return out
}

// T returns the sum of the transposed terms.
func (s *Sum) T() LinearOperator {
	ts := make([]LinearOperator, len(s.terms))
	for i, t := range s.terms {
		ts[i] = t.T()
	}
	return &Sum{terms: ts}
}

// ToDense adds the dense terms.
func (s *Sum) ToDense() *tensor.Array {
	out := s.terms[0].ToDense()
	for _, t := range s.terms[1:] {
		next, err := tensor.Add(out, t.ToDense())
		if err != nil {
			panic(fmt.Sprintf("Sum.ToDense: %v", err))
		}
		out = next
	}
	return out
}

func (s *Sum) String() string {
	parts := make([]string, len(s.terms))
	for i, t := range s.terms {
		parts[i] = fmt.Sprint(t)
	}
	return "(" + strings.Join(parts, " + ") + ")"
}
