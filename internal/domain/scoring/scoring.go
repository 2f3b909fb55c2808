// Package scoring computes the change in life expectancy from a weight vector.
// It is the only place the scoring arithmetic lives; every entry point shares it.
package scoring

import (
	"github.com/okian/lifespan/internal/domain/factor"
	"github.com/okian/lifespan/internal/domain/model"
	"github.com/okian/lifespan/internal/domain/response"
)

// DefaultDampingConstant divides the raw weighted sum to keep estimates
// within a realistic range.
const DefaultDampingConstant = 4.0

// Option applies a configuration option to the WeightedScorer.
type Option func(*WeightedScorer)

// WithDampingConstant sets the divisor applied to the weighted sum.
// Non-positive values are ignored.
func WithDampingConstant(d float64) Option {
	return func(s *WeightedScorer) {
		if d > 0 {
			s.damping = d
		}
	}
}

// Contribution is one table position's share of the result.
type Contribution struct {
	Index    int
	Factor   model.Factor
	Weight   float64
	Eligible bool
	// Adjusted is YearImpact × Weight / damping for eligible factors, 0 otherwise.
	Adjusted float64
}

// Result contains the computed change and its per-factor breakdown.
type Result struct {
	ChangeInAge   float64
	Contributions []Contribution
}

// Scorer computes a Result for a caller.
type Scorer interface {
	Score(table *factor.Table, v model.Vector, g model.Gender) (Result, error)
}

// WeightedScorer implements Scorer as a damped, gender-filtered weighted sum.
// It holds no mutable state and is safe for concurrent use.
type WeightedScorer struct {
	damping float64
}

// NewWeightedScorer creates a scorer with configuration options.
func NewWeightedScorer(opts ...Option) *WeightedScorer {
	s := &WeightedScorer{damping: DefaultDampingConstant}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DampingConstant returns the configured divisor.
func (s *WeightedScorer) DampingConstant() float64 { return s.damping }

// Eligible reports whether a factor restricted to sex applies to g.
func Eligible(sex model.Sex, g model.Gender) bool {
	return !sex.Excludes(g)
}

// Score sums YearImpact × weight over eligible factors and divides by the
// damping constant.
func (s *WeightedScorer) Score(table *factor.Table, v model.Vector, g model.Gender) (Result, error) {
	if !g.Valid() {
		return Result{}, &model.InvalidGenderError{Raw: g.String()}
	}
	if len(v) != table.Len() {
		return Result{}, &response.VectorLengthError{Got: len(v), Want: table.Len()}
	}

	var total float64
	contribs := make([]Contribution, table.Len())
	for i := range contribs {
		f := table.At(i)
		c := Contribution{Index: i, Factor: f, Weight: v[i], Eligible: Eligible(f.AffectedSex, g)}
		if c.Eligible {
			weighted := f.YearImpact * v[i]
			total += weighted
			c.Adjusted = weighted / s.damping
		}
		contribs[i] = c
	}

	return Result{
		ChangeInAge:   total / s.damping,
		Contributions: contribs,
	}, nil
}
