// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	service "github.com/okian/lifespan/internal/app"
	"github.com/okian/lifespan/internal/domain/model"
	"github.com/okian/lifespan/internal/domain/report"
	"github.com/okian/lifespan/pkg/logger"
)

// maxBodyBytes bounds request bodies; a full questionnaire is a few KB.
const maxBodyBytes = 1 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Estimate scores one questionnaire.
	Estimate(ctx context.Context, req service.Request) (report.Report, error)

	// Factors lists the reference table in order.
	Factors(ctx context.Context) []model.Factor
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	estimateHandler  *EstimateHandler
	calculateHandler *CalculateHandler
	factorsHandler   *FactorsHandler
}

// ServerOption applies a configuration option to the Server.
type ServerOption func(*serverOptions)

type serverOptions struct {
	logger logger.Logger
}

// WithLogger sets the logger used for rejected requests.
func WithLogger(l logger.Logger) ServerOption {
	return func(o *serverOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...ServerOption) *Server {
	o := serverOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		estimateHandler:  NewEstimateHandler(deps, o.logger),
		calculateHandler: NewCalculateHandler(deps, o.logger),
		factorsHandler:   NewFactorsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/factors", MetricsMiddleware(s.factorsHandler.HandleGetFactors, "factors"))
	mux.HandleFunc("/estimate", MetricsMiddleware(s.estimateHandler.HandlePostEstimate, "estimate"))
	mux.HandleFunc("/calculate", MetricsMiddleware(s.calculateHandler.HandlePostCalculate, "calculate"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// statusFor maps a service error kind to an HTTP status. Input errors are the
// caller's fault; anything else is ours.
func statusFor(kind string) int {
	if kind == service.KindInternal {
		return http.StatusInternalServerError
	}
	return http.StatusBadRequest
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	return dec.Decode(v)
}
