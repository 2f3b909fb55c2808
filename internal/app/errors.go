package service

import (
	"errors"

	"github.com/okian/lifespan/internal/domain/model"
	"github.com/okian/lifespan/internal/domain/response"
)

// Sentinel kinds for service errors.
var (
	ErrNotStarted        = errors.New("service not started")
	ErrNoResponses       = errors.New("no responses supplied")
	ErrAmbiguousResponse = errors.New("supply exactly one of responses, answers or input_vector")
)

// Error kinds reported to callers and metrics.
const (
	KindBadRequest           = "bad_request"
	KindVectorLength         = "vector_length"
	KindUnrecognizedResponse = "unrecognized_response"
	KindUnknownFactor        = "unknown_factor"
	KindWeightRange          = "weight_range"
	KindInvalidGender        = "invalid_gender"
	KindInternal             = "internal_error"
)

// ErrorKind classifies an Estimate error. Every kind except KindInternal is a
// per-request input error.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, response.ErrVectorLength):
		return KindVectorLength
	case errors.Is(err, response.ErrUnrecognizedResponse):
		return KindUnrecognizedResponse
	case errors.Is(err, response.ErrUnknownFactor):
		return KindUnknownFactor
	case errors.Is(err, response.ErrWeightRange):
		return KindWeightRange
	case errors.Is(err, model.ErrInvalidGender):
		return KindInvalidGender
	case errors.Is(err, ErrNoResponses), errors.Is(err, ErrAmbiguousResponse):
		return KindBadRequest
	default:
		return KindInternal
	}
}
