package response

import (
	"math"
	"strconv"

	"github.com/okian/lifespan/internal/domain/factor"
	"github.com/okian/lifespan/internal/domain/model"
)

// FromNamed builds a vector from answers keyed by factor name
// (case-insensitive) or by decimal table position.
func FromNamed(table *factor.Table, answers map[string]string) (model.Vector, error) {
	if len(answers) != table.Len() {
		return nil, &VectorLengthError{Got: len(answers), Want: table.Len()}
	}
	raw := make([]string, table.Len())
	set := make([]bool, table.Len())
	for key, value := range answers {
		i, ok := resolve(table, key)
		if !ok {
			return nil, &UnknownFactorError{Key: key}
		}
		if set[i] {
			// The same factor was named twice (by name and by index), so one is missing.
			return nil, &VectorLengthError{Got: table.Len() - 1, Want: table.Len()}
		}
		raw[i], set[i] = value, true
	}
	return weigh(table, raw)
}

// FromOrdered builds a vector from answers given in table order.
func FromOrdered(table *factor.Table, answers []string) (model.Vector, error) {
	if len(answers) != table.Len() {
		return nil, &VectorLengthError{Got: len(answers), Want: table.Len()}
	}
	return weigh(table, answers)
}

// FromWeights validates already-normalized weights given in table order.
func FromWeights(table *factor.Table, weights []float64) (model.Vector, error) {
	if len(weights) != table.Len() {
		return nil, &VectorLengthError{Got: len(weights), Want: table.Len()}
	}
	v := make(model.Vector, len(weights))
	for i, w := range weights {
		if math.IsNaN(w) || w < 0 || w > 1 {
			return nil, &WeightRangeError{Index: i, Weight: w}
		}
		v[i] = w
	}
	return v, nil
}

func weigh(table *factor.Table, raw []string) (model.Vector, error) {
	v := make(model.Vector, len(raw))
	for i, r := range raw {
		a, err := ParseAnswer(r)
		if err != nil {
			return nil, &UnrecognizedResponseError{Factor: table.At(i).Name, Raw: r}
		}
		v[i] = a.Weight()
	}
	return v, nil
}

func resolve(table *factor.Table, key string) (int, bool) {
	if i, ok := table.Index(key); ok {
		return i, true
	}
	n, err := strconv.Atoi(key)
	if err != nil || n < 0 || n >= table.Len() {
		return 0, false
	}
	return n, true
}
