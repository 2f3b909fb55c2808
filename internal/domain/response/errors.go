package response

import (
	"errors"
	"fmt"
	"strconv"
)

// Sentinel kinds for per-request input errors. These allow errors.Is from callers.
var (
	ErrUnrecognizedResponse = errors.New("unrecognized response")
	ErrVectorLength         = errors.New("response count mismatch")
	ErrUnknownFactor        = errors.New("unknown factor")
	ErrWeightRange          = errors.New("weight out of range")
)

// UnrecognizedResponseError names a raw answer that maps to no known token.
type UnrecognizedResponseError struct {
	Factor string
	Raw    string
}

func (e *UnrecognizedResponseError) Error() string {
	if e.Factor == "" {
		return fmt.Sprintf("unrecognized response %q", e.Raw)
	}
	return fmt.Sprintf("unrecognized response %q for %s", e.Raw, e.Factor)
}

func (e *UnrecognizedResponseError) Is(target error) bool { return target == ErrUnrecognizedResponse }

// VectorLengthError reports a response count that does not match the table.
type VectorLengthError struct {
	Got  int
	Want int
}

func (e *VectorLengthError) Error() string {
	return fmt.Sprintf("input vector must have %d elements, one for each factor; got %d", e.Want, e.Got)
}

func (e *VectorLengthError) Is(target error) bool { return target == ErrVectorLength }

// UnknownFactorError reports a response keyed by a name the table does not have.
type UnknownFactorError struct {
	Key string
}

func (e *UnknownFactorError) Error() string {
	return "unknown factor " + strconv.Quote(e.Key)
}

func (e *UnknownFactorError) Is(target error) bool { return target == ErrUnknownFactor }

// WeightRangeError reports a numeric weight outside [0,1].
type WeightRangeError struct {
	Index  int
	Weight float64
}

func (e *WeightRangeError) Error() string {
	return fmt.Sprintf("weight %v at position %d must be within [0, 1]", e.Weight, e.Index)
}

func (e *WeightRangeError) Is(target error) bool { return target == ErrWeightRange }
