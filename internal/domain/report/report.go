// Package report turns a scoring result into an explainable estimate.
package report

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/okian/lifespan/internal/domain/model"
	"github.com/okian/lifespan/internal/domain/scoring"
)

// DefaultBaselineAge is the average life expectancy estimates are relative to.
const DefaultBaselineAge = 75.0

const percentScale = 100

// Narrative text.
const (
	averageSummary = "You're expected to live exactly the average life expectancy."

	recommendBoth     = "To improve your health further, we recommend continuing with the positive lifestyle habits and addressing the negative factors listed above."
	recommendNegative = "To improve your health, we recommend addressing the negative factors listed above."
	recommendPositive = "We recommend continuing with the positive lifestyle habits listed above."
	recommendNone     = "None of your answers moved the estimate; review the factors to find habits worth adopting."
)

// ScoredFactor explains one factor that moved the estimate.
type ScoredFactor struct {
	Name string `json:"name"`
	// RawImpact is the factor's full, unweighted year impact.
	RawImpact float64 `json:"raw_impact"`
	// AdjustedImpact is the factor's share of ChangeInAge.
	AdjustedImpact float64 `json:"adjusted_impact"`
	// PercentageOfFullImpact is AdjustedImpact / RawImpact × 100.
	PercentageOfFullImpact float64 `json:"percentage_of_full_impact"`
}

// Report is the explainable estimate for one request.
type Report struct {
	Gender          model.Gender   `json:"gender"`
	EstimatedAge    int            `json:"estimated_age"`
	ChangeInAge     float64        `json:"change_in_age"`
	RankedFactors   []ScoredFactor `json:"ranked_factors"`
	PositiveFactors []string       `json:"positive_factors"`
	NegativeFactors []string       `json:"negative_factors"`
	Summary         string         `json:"summary"`
	Recommendation  string         `json:"recommendation"`
}

// Option applies a configuration option to the Builder.
type Option func(*Builder)

// WithBaselineAge sets the age estimates are relative to. Non-positive values are ignored.
func WithBaselineAge(age float64) Option {
	return func(b *Builder) {
		if age > 0 {
			b.baseline = age
		}
	}
}

// Builder assembles Reports. It is immutable after construction.
type Builder struct {
	baseline float64
}

// NewBuilder creates a Builder with configuration options.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{baseline: DefaultBaselineAge}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// BaselineAge returns the configured baseline.
func (b *Builder) BaselineAge() float64 { return b.baseline }

// Build derives the estimated age, ranks contributing factors and writes the narrative.
// Numeric values are taken from res unmodified.
func (b *Builder) Build(res scoring.Result, g model.Gender) Report {
	r := Report{
		Gender:          g,
		EstimatedAge:    int(math.Floor(b.baseline + res.ChangeInAge)),
		ChangeInAge:     res.ChangeInAge,
		RankedFactors:   []ScoredFactor{},
		PositiveFactors: []string{},
		NegativeFactors: []string{},
	}

	for _, c := range res.Contributions {
		if !c.Eligible || c.Weight == 0 || c.Factor.YearImpact == 0 {
			continue
		}
		r.RankedFactors = append(r.RankedFactors, ScoredFactor{
			Name:                   c.Factor.Name,
			RawImpact:              c.Factor.YearImpact,
			AdjustedImpact:         c.Adjusted,
			PercentageOfFullImpact: c.Adjusted / c.Factor.YearImpact * percentScale,
		})
		if c.Factor.YearImpact < 0 {
			r.NegativeFactors = append(r.NegativeFactors, describe(c.Factor))
		} else {
			r.PositiveFactors = append(r.PositiveFactors, describe(c.Factor))
		}
	}
	// Contributions arrive in table order, so a stable sort keeps ties in table order.
	sort.SliceStable(r.RankedFactors, func(i, j int) bool {
		return math.Abs(r.RankedFactors[i].AdjustedImpact) > math.Abs(r.RankedFactors[j].AdjustedImpact)
	})

	r.Summary = Summary(res.ChangeInAge)
	r.Recommendation = recommend(len(r.PositiveFactors) > 0, len(r.NegativeFactors) > 0)
	return r
}

// Summary phrases the change relative to the average life expectancy.
func Summary(change float64) string {
	switch {
	case change > 0:
		return fmt.Sprintf("You're expected to live %.2f extra years compared to the average life expectancy.", change)
	case change < 0:
		return fmt.Sprintf("You're expected to live %.2f fewer years compared to the average life expectancy.", math.Abs(change))
	default:
		return averageSummary
	}
}

func recommend(positive, negative bool) string {
	switch {
	case positive && negative:
		return recommendBoth
	case negative:
		return recommendNegative
	case positive:
		return recommendPositive
	default:
		return recommendNone
	}
}

func describe(f model.Factor) string {
	years := strconv.FormatFloat(f.YearImpact, 'f', -1, 64)
	if f.YearImpact > 0 {
		years = "+" + years
	}
	return f.Name + ": " + years + " years"
}
