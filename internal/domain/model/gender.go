package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidGender is matched by every InvalidGenderError.
var ErrInvalidGender = errors.New("invalid gender")

// Gender identifies the caller for eligibility filtering.
type Gender int

// Gender values. The zero value is deliberately invalid.
const (
	GenderUnknown Gender = iota
	GenderMale
	GenderFemale
)

// InvalidGenderError reports a gender input other than male or female.
type InvalidGenderError struct {
	Raw string
}

func (e *InvalidGenderError) Error() string {
	return fmt.Sprintf("gender must be either 'male' or 'female', got %q", e.Raw)
}

// Is lets errors.Is match ErrInvalidGender.
func (e *InvalidGenderError) Is(target error) bool { return target == ErrInvalidGender }

// ParseGender parses a case-insensitive gender string.
func ParseGender(raw string) (Gender, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "male":
		return GenderMale, nil
	case "female":
		return GenderFemale, nil
	default:
		return GenderUnknown, &InvalidGenderError{Raw: raw}
	}
}

// Valid reports whether g is male or female.
func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

func (g Gender) String() string {
	switch g {
	case GenderMale:
		return "male"
	case GenderFemale:
		return "female"
	default:
		return "unknown"
	}
}

// MarshalText renders the lower-case name.
func (g Gender) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

// Excludes reports whether a factor restricted to s is skipped for g.
// Only a restriction naming the opposite gender excludes a factor.
func (s Sex) Excludes(g Gender) bool {
	switch s {
	case SexMale:
		return g == GenderFemale
	case SexFemale:
		return g == GenderMale
	default:
		return false
	}
}
