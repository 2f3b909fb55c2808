// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
)

type factorResponse struct {
	Index       int     `json:"index"`
	Name        string  `json:"name"`
	Question    string  `json:"question"`
	YearImpact  float64 `json:"year_impact"`
	AffectedSex string  `json:"affected_sex"`
}

// FactorsHandler lists the reference table.
type FactorsHandler struct {
	deps Dependencies
}

// NewFactorsHandler creates a new factors handler.
func NewFactorsHandler(deps Dependencies) *FactorsHandler {
	return &FactorsHandler{deps: deps}
}

// HandleGetFactors handles GET /factors requests.
func (h *FactorsHandler) HandleGetFactors(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	factors := h.deps.Factors(r.Context())
	out := make([]factorResponse, len(factors))
	for i, f := range factors {
		out[i] = factorResponse{
			Index:       i,
			Name:        f.Name,
			Question:    f.Prompt(),
			YearImpact:  f.YearImpact,
			AffectedSex: f.AffectedSex.String(),
		}
	}
	writeJSON(w, http.StatusOK, out)
}
