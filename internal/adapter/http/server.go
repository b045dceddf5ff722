// Package http serves the advisory API alongside health, readiness and
// metrics endpoints.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/crop-advisor-service/internal/domain"
)

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// ReadinessFunc adapts a function to ReadinessChecker.
type ReadinessFunc func(ctx context.Context) error

func (f ReadinessFunc) CheckReadiness(ctx context.Context) error { return f(ctx) }

// LocationAnalyzer builds a report for a resolved location.
type LocationAnalyzer interface {
	AnalyzeLocation(ctx context.Context, lat, lon float64, region string) (*domain.LocationReport, error)
}

// CropRecommender turns a report into crop recommendations.
type CropRecommender interface {
	Recommend(ctx context.Context, report domain.LocationReport) ([]domain.Recommendation, error)
}

// YieldPredictor resolves yield predictions for requested crops.
type YieldPredictor interface {
	PredictAll(ctx context.Context, crops []domain.CropArea) ([]domain.YieldPrediction, float64)
}

// ExpenseStore persists the expense ledger.
type ExpenseStore interface {
	AddExpenses(ctx context.Context, expenses []domain.Expense) ([]domain.Expense, error)
	ListExpenses(ctx context.Context, category string) ([]domain.Expense, error)
	ClearExpenses(ctx context.Context) (int64, error)
	Categories(ctx context.Context) ([]string, error)
	AddCategory(ctx context.Context, name string) error
}

// Deps are the collaborators behind the API routes. Geocoder may be nil.
type Deps struct {
	Ready       ReadinessChecker
	Geocoder    domain.Geocoder
	Analyzer    LocationAnalyzer
	Recommender CropRecommender
	Yields      YieldPredictor
	Expenses    ExpenseStore
}

// Server exposes the advisory API and the health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	deps       Deps
	logger     *slog.Logger
}

// NewServer creates an HTTP server. writeTimeout bounds a whole request and
// must leave room for a language model completion.
func NewServer(addr string, writeTimeout time.Duration, deps Deps, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      requestLogger(logger, mux),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: writeTimeout,
			IdleTimeout:  60 * time.Second,
		},
		deps:   deps,
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(deps.Ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("POST /v1/analysis", s.handleAnalysis)
	mux.HandleFunc("POST /v1/recommend-crops", s.handleRecommendCrops)
	mux.HandleFunc("POST /v1/yield-predictions", s.handleYieldPredictions)

	mux.HandleFunc("GET /v1/expenses", s.handleListExpenses)
	mux.HandleFunc("POST /v1/expenses", s.handleAddExpenses)
	mux.HandleFunc("DELETE /v1/expenses", s.handleClearExpenses)
	mux.HandleFunc("GET /v1/expenses.csv", s.handleExportExpenses)
	mux.HandleFunc("GET /v1/expense-categories", s.handleListCategories)
	mux.HandleFunc("POST /v1/expense-categories", s.handleAddCategory)
	mux.HandleFunc("GET /v1/profit", s.handleProfit)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if checker != nil {
			if err := checker.CheckReadiness(ctx); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{
					"status": "not ready",
					"error":  err.Error(),
				})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

// writeJSON encodes v before writing the header so an unencodable value
// becomes a 500 instead of an empty success.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body = []byte(`{"error":"internal error"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(body, '\n')) //nolint:errcheck // client may have gone away
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
