// Package factor loads the immutable reference table of lifestyle factors.
package factor

import (
	"strings"

	"github.com/okian/lifespan/internal/domain/model"
)

// Table is the ordered, read-only factor table. It is built once and shared
// between requests without locking.
type Table struct {
	source  string
	factors []model.Factor
	index   map[string]int
}

// New validates factors and builds a Table from a private copy of them.
func New(source string, factors []model.Factor) (*Table, error) {
	if len(factors) == 0 {
		return nil, &LoadError{Source: source, Reason: "table has no factors"}
	}
	t := &Table{
		source:  source,
		factors: make([]model.Factor, len(factors)),
		index:   make(map[string]int, len(factors)),
	}
	copy(t.factors, factors)
	for i, f := range t.factors {
		key := normalizeName(f.Name)
		if key == "" {
			return nil, &LoadError{Source: source, Row: i + 1, Reason: "missing factor name"}
		}
		if _, dup := t.index[key]; dup {
			return nil, &LoadError{Source: source, Row: i + 1, Reason: "duplicate factor " + f.Name}
		}
		t.index[key] = i
	}
	return t, nil
}

// Source names where the table was loaded from.
func (t *Table) Source() string { return t.source }

// Len returns the number of factors.
func (t *Table) Len() int { return len(t.factors) }

// At returns the factor at position i.
func (t *Table) At(i int) model.Factor { return t.factors[i] }

// Factors returns a copy of the factors in table order.
func (t *Table) Factors() []model.Factor {
	out := make([]model.Factor, len(t.factors))
	copy(out, t.factors)
	return out
}

// Index returns the position of the named factor (case-insensitive).
func (t *Table) Index(name string) (int, bool) {
	i, ok := t.index[normalizeName(name)]
	return i, ok
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
