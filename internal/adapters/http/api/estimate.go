// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"errors"
	"net/http"
	"strings"

	service "github.com/okian/lifespan/internal/app"
	"github.com/okian/lifespan/pkg/logger"
)

// estimateRequest mirrors the OpenAPI schema for POST /estimate.
type estimateRequest struct {
	Gender      string            `json:"gender"`
	Responses   map[string]string `json:"responses,omitempty"`
	Answers     []string          `json:"answers,omitempty"`
	InputVector []float64         `json:"input_vector,omitempty"`
}

func (e estimateRequest) validate() error {
	if strings.TrimSpace(e.Gender) == "" {
		return errors.New("missing gender")
	}
	return nil
}

// EstimateHandler handles estimate requests.
type EstimateHandler struct {
	deps   Dependencies
	logger logger.Logger
}

// NewEstimateHandler creates a new estimate handler.
func NewEstimateHandler(deps Dependencies, l logger.Logger) *EstimateHandler {
	return &EstimateHandler{deps: deps, logger: l}
}

// HandlePostEstimate handles POST /estimate requests.
func (h *EstimateHandler) HandlePostEstimate(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_estimate"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req estimateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, service.KindBadRequest, WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, service.KindBadRequest, WrapKind(op, ErrBadRequest, err))
		return
	}

	rep, err := h.deps.Estimate(r.Context(), service.Request{
		Gender:    req.Gender,
		Responses: req.Responses,
		Answers:   req.Answers,
		Weights:   req.InputVector,
	})
	if err != nil {
		kind := service.ErrorKind(err)
		if h.logger != nil {
			h.logger.Debug(r.Context(), "estimate request rejected",
				logger.String("requestID", RequestIDFromContext(r.Context())),
				logger.String("kind", kind),
				logger.Error(err),
			)
		}
		writeError(w, statusFor(kind), kind, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}
