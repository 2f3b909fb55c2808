// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"

	service "github.com/okian/lifespan/internal/app"
	"github.com/okian/lifespan/pkg/logger"
)

// calculateRequest is the legacy questionnaire payload: one numeric
// weight per factor in table order.
type calculateRequest struct {
	InputVector []float64 `json:"input_vector"`
	Gender      string    `json:"gender"`
}

type calculateResponse struct {
	EstimatedLifespan int      `json:"estimated_lifespan"`
	ExtraYears        string   `json:"extra_years"`
	NegativeFactors   []string `json:"negative_factors"`
	PositiveFactors   []string `json:"positive_factors"`
}

type calculateError struct {
	Error string `json:"error"`
}

// CalculateHandler serves the legacy calculate endpoint.
type CalculateHandler struct {
	deps   Dependencies
	logger logger.Logger
}

// NewCalculateHandler creates a new calculate handler.
func NewCalculateHandler(deps Dependencies, l logger.Logger) *CalculateHandler {
	return &CalculateHandler{deps: deps, logger: l}
}

// HandlePostCalculate handles POST /calculate requests.
func (h *CalculateHandler) HandlePostCalculate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req calculateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, calculateError{Error: "malformed request: " + err.Error()})
		return
	}
	weights := req.InputVector
	if weights == nil {
		weights = []float64{}
	}

	rep, err := h.deps.Estimate(r.Context(), service.Request{Gender: req.Gender, Weights: weights})
	if err != nil {
		kind := service.ErrorKind(err)
		if h.logger != nil {
			h.logger.Debug(r.Context(), "calculate request rejected",
				logger.String("requestID", RequestIDFromContext(r.Context())),
				logger.String("kind", kind),
				logger.Error(err),
			)
		}
		writeJSON(w, statusFor(kind), calculateError{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, calculateResponse{
		EstimatedLifespan: rep.EstimatedAge,
		ExtraYears:        rep.Summary,
		NegativeFactors:   rep.NegativeFactors,
		PositiveFactors:   rep.PositiveFactors,
	})
}
