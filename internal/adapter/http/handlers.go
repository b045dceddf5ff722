package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/couchcryptid/crop-advisor-service/internal/domain"
)

const maxBodyBytes = 1 << 20

// noRecommendationsMessage is the 404 detail when the model produced nothing parseable.
const noRecommendationsMessage = "No recommendations found."

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// analyze validates a location request, resolves it and builds the report.
// It writes the error response itself and returns nil on failure.
func (s *Server) analyze(w http.ResponseWriter, r *http.Request) *domain.LocationReport {
	var req domain.AnalysisRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil
	}
	req.Address = strings.TrimSpace(req.Address)
	if err := domain.ValidateRequest(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil
	}

	loc, err := domain.ResolveLocation(r.Context(), req, s.deps.Geocoder, s.logger)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) {
			writeError(w, http.StatusBadRequest, err.Error())
		} else {
			writeError(w, http.StatusBadGateway, err.Error())
		}
		return nil
	}

	report, err := s.deps.Analyzer.AnalyzeLocation(r.Context(), loc.Lat, loc.Lon, loc.Address)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return nil
	}
	return report
}

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	if report := s.analyze(w, r); report != nil {
		writeJSON(w, http.StatusOK, report)
	}
}

func (s *Server) handleRecommendCrops(w http.ResponseWriter, r *http.Request) {
	report := s.analyze(w, r)
	if report == nil {
		return
	}

	recs, err := s.deps.Recommender.Recommend(r.Context(), *report)
	switch {
	case errors.Is(err, domain.ErrNoRecommendations) || (err == nil && len(recs) == 0):
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": noRecommendationsMessage})
	case err != nil:
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		writeJSON(w, http.StatusOK, recs)
	}
}

type yieldRequest struct {
	Crops []domain.CropArea `json:"crops"`
}

type yieldResponse struct {
	Predictions []domain.YieldPrediction `json:"predictions"`
	TotalIncome float64                  `json:"total_income"`
}

func (s *Server) handleYieldPredictions(w http.ResponseWriter, r *http.Request) {
	var req yieldRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Crops) == 0 {
		writeError(w, http.StatusBadRequest, "at least one crop is required")
		return
	}
	for _, c := range req.Crops {
		if strings.TrimSpace(c.Crop) == "" {
			writeError(w, http.StatusBadRequest, "crop name required")
			return
		}
		if c.Acres <= 0 {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("acres for %q must be positive", c.Crop))
			return
		}
	}

	preds, total := s.deps.Yields.PredictAll(r.Context(), req.Crops)
	writeJSON(w, http.StatusOK, yieldResponse{Predictions: preds, TotalIncome: total})
}

// --- expenses ---

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.deps.Expenses.ListExpenses(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		s.internalError(w, "list expenses", err)
		return
	}
	writeJSON(w, http.StatusOK, expenses)
}

type addExpensesRequest struct {
	Expenses []domain.Expense `json:"expenses"`
}

func (s *Server) handleAddExpenses(w http.ResponseWriter, r *http.Request) {
	var req addExpensesRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Expenses) == 0 {
		writeError(w, http.StatusBadRequest, "at least one expense is required")
		return
	}
	for i, e := range req.Expenses {
		if err := e.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("expense %d: %s", i, err))
			return
		}
	}

	stored, err := s.deps.Expenses.AddExpenses(r.Context(), req.Expenses)
	if err != nil {
		s.internalError(w, "add expenses", err)
		return
	}
	writeJSON(w, http.StatusCreated, stored)
}

func (s *Server) handleClearExpenses(w http.ResponseWriter, r *http.Request) {
	n, err := s.deps.Expenses.ClearExpenses(r.Context())
	if err != nil {
		s.internalError(w, "clear expenses", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"deleted": n})
}

func (s *Server) handleExportExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.deps.Expenses.ListExpenses(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		s.internalError(w, "export expenses", err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="expenses.csv"`)
	if err := domain.WriteExpensesCSV(w, expenses); err != nil {
		s.logger.Warn("write expenses csv", "error", err)
	}
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.deps.Expenses.Categories(r.Context())
	if err != nil {
		s.internalError(w, "list categories", err)
		return
	}
	writeJSON(w, http.StatusOK, cats)
}

type addCategoryRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleAddCategory(w http.ResponseWriter, r *http.Request) {
	var req addCategoryRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "category name required")
		return
	}
	if err := s.deps.Expenses.AddCategory(r.Context(), req.Name); err != nil {
		s.internalError(w, "add category", err)
		return
	}

	cats, err := s.deps.Expenses.Categories(r.Context())
	if err != nil {
		s.internalError(w, "list categories", err)
		return
	}
	writeJSON(w, http.StatusCreated, cats)
}

func (s *Server) handleProfit(w http.ResponseWriter, r *http.Request) {
	var revenue float64
	if v := r.URL.Query().Get("revenue"); v != "" {
		var err error
		revenue, err = strconv.ParseFloat(v, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid revenue %q", v))
			return
		}
	}

	expenses, err := s.deps.Expenses.ListExpenses(r.Context(), "")
	if err != nil {
		s.internalError(w, "list expenses", err)
		return
	}
	writeJSON(w, http.StatusOK, domain.SummarizeProfit(revenue, expenses))
}

func (s *Server) internalError(w http.ResponseWriter, op string, err error) {
	s.logger.Error(op+" failed", "error", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}
