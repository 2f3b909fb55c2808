// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"strings"
)

// Sex restricts which callers a factor applies to.
type Sex int

// Sex values. SexAll is the zero value so an unrestricted factor needs no label handling.
const (
	SexAll Sex = iota
	SexMale
	SexFemale
)

// ParseSex maps a table label to a Sex. Accepts male, female and the
// unrestricted spellings both, all, any, unrestricted (case-insensitive).
func ParseSex(label string) (Sex, error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "male":
		return SexMale, nil
	case "female":
		return SexFemale, nil
	case "both", "all", "any", "unrestricted":
		return SexAll, nil
	default:
		return SexAll, fmt.Errorf("unknown sex label %q", label)
	}
}

// String returns the canonical table label.
func (s Sex) String() string {
	switch s {
	case SexMale:
		return "male"
	case SexFemale:
		return "female"
	default:
		return "both"
	}
}

// MarshalText renders the canonical label for JSON and YAML encoders.
func (s Sex) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Factor is a single row of the reference table.
type Factor struct {
	Name        string  `json:"name"`               // factor label, unique within a table
	YearImpact  float64 `json:"year_impact"`        // signed years gained (+) or lost (-) at full engagement
	AffectedSex Sex     `json:"affected_sex"`       // who the factor applies to
	Question    string  `json:"question,omitempty"` // prompt text shown by questionnaires; may be empty
}

// Prompt returns the question for the factor, falling back to its name.
func (f Factor) Prompt() string {
	if f.Question != "" {
		return f.Question
	}
	return f.Name
}
