package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/couchcryptid/crop-advisor-service/internal/adapter/http"
	"github.com/couchcryptid/crop-advisor-service/internal/domain"
)

type mockReadiness struct {
	err error
}

func (m *mockReadiness) CheckReadiness(_ context.Context) error { return m.err }

type fakeAnalyzer struct {
	err error
}

func (f fakeAnalyzer) AnalyzeLocation(_ context.Context, lat, lon float64, region string) (*domain.LocationReport, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.LocationReport{
		Coordinates: domain.Coordinates{Latitude: lat, Longitude: lon},
		Region:      region,
		Season:      domain.SeasonFall,
	}, nil
}

type fakeRecommender struct {
	recs []domain.Recommendation
	err  error
}

func (f fakeRecommender) Recommend(_ context.Context, _ domain.LocationReport) ([]domain.Recommendation, error) {
	return f.recs, f.err
}

type fakeYields struct{}

func (fakeYields) PredictAll(_ context.Context, crops []domain.CropArea) ([]domain.YieldPrediction, float64) {
	preds := make([]domain.YieldPrediction, 0, len(crops))
	for _, c := range crops {
		preds = append(preds, domain.NewYieldPrediction(domain.NormalizeCrop(c.Crop), c.Acres, 1000, 20, domain.YieldSourceStatic))
	}
	return preds, domain.TotalIncome(preds)
}

type fakeGeocoder struct{}

func (fakeGeocoder) ForwardGeocode(_ context.Context, _ string) (domain.GeocodingResult, error) {
	return domain.GeocodingResult{Lat: 18.52, Lon: 73.85, FormattedAddress: "Pune, India", Confidence: 1}, nil
}

func (fakeGeocoder) ReverseGeocode(_ context.Context, _, _ float64) (domain.GeocodingResult, error) {
	return domain.GeocodingResult{}, fmt.Errorf("unused")
}

// memExpenses is an in-memory ExpenseStore.
type memExpenses struct {
	expenses   []domain.Expense
	categories []string
	failWith   error
}

func (m *memExpenses) AddExpenses(_ context.Context, in []domain.Expense) ([]domain.Expense, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	out := make([]domain.Expense, 0, len(in))
	for i, e := range in {
		e.ID = fmt.Sprintf("e%d", len(m.expenses)+i+1)
		out = append(out, e)
	}
	m.expenses = append(m.expenses, out...)
	return out, nil
}

func (m *memExpenses) ListExpenses(_ context.Context, category string) ([]domain.Expense, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	out := []domain.Expense{}
	for _, e := range m.expenses {
		if category == "" || e.Category == category {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memExpenses) ClearExpenses(_ context.Context) (int64, error) {
	n := int64(len(m.expenses))
	m.expenses = nil
	return n, nil
}

func (m *memExpenses) Categories(_ context.Context) ([]string, error) {
	return m.categories, nil
}

func (m *memExpenses) AddCategory(_ context.Context, name string) error {
	m.categories = append(m.categories, strings.TrimSpace(name))
	return nil
}

func defaultDeps() httpadapter.Deps {
	return httpadapter.Deps{
		Analyzer:    fakeAnalyzer{},
		Recommender: fakeRecommender{recs: []domain.Recommendation{{Crop: "Wheat", Category: "cereals", Score: "85", Reason: "cool"}}},
		Yields:      fakeYields{},
		Expenses:    &memExpenses{categories: []string{"Seeds"}},
	}
}

func newTestServer(readyErr error) *httpadapter.Server {
	deps := defaultDeps()
	deps.Ready = &mockReadiness{err: readyErr}
	return httpadapter.NewServer(":0", 30*time.Second, deps, slog.Default())
}

func do(t *testing.T, srv http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func decodeMap(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealthzReturns200(t *testing.T) {
	rec := do(t, newTestServer(nil), http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", decodeMap(t, rec)["status"])
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	rec := do(t, newTestServer(nil), http.MethodGet, "/readyz", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ready", decodeMap(t, rec)["status"])
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	rec := do(t, newTestServer(fmt.Errorf("not ready yet")), http.MethodGet, "/readyz", "")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := decodeMap(t, rec)
	assert.Equal(t, "not ready", body["status"])
	assert.Equal(t, "not ready yet", body["error"])
}

func TestReadyzWithoutChecker(t *testing.T) {
	srv := httpadapter.NewServer(":0", time.Second, defaultDeps(), slog.Default())
	rec := do(t, srv, http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	rec := do(t, newTestServer(nil), http.MethodGet, "/metrics", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestAnalysis(t *testing.T) {
	tests := []struct {
		name       string
		deps       func(*httpadapter.Deps)
		body       string
		wantStatus int
		wantRegion string
	}{
		{name: "coordinates", body: `{"lat":18.52,"long":73.85}`, wantStatus: http.StatusOK},
		{name: "string coordinates", body: `{"lat":"18.52","long":"73.85"}`, wantStatus: http.StatusOK},
		{
			name:       "address",
			deps:       func(d *httpadapter.Deps) { d.Geocoder = fakeGeocoder{} },
			body:       `{"address":"  Pune "}`,
			wantStatus: http.StatusOK,
			wantRegion: "Pune, India",
		},
		{name: "address without geocoder", body: `{"address":"Pune"}`, wantStatus: http.StatusBadRequest},
		{name: "no location", body: `{}`, wantStatus: http.StatusBadRequest},
		{name: "latitude out of range", body: `{"lat":95,"long":73.85}`, wantStatus: http.StatusBadRequest},
		{name: "malformed body", body: `{"lat":`, wantStatus: http.StatusBadRequest},
		{name: "NaN latitude", body: `{"lat":"NaN","long":"73.8","address":"Pune"}`, wantStatus: http.StatusBadRequest},
		{name: "infinite longitude", body: `{"lat":"18.5","long":"Inf"}`, wantStatus: http.StatusBadRequest},
		{
			name:       "weather unavailable",
			deps:       func(d *httpadapter.Deps) { d.Analyzer = fakeAnalyzer{err: domain.ErrWeatherUnavailable} },
			body:       `{"lat":18.52,"long":73.85}`,
			wantStatus: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := defaultDeps()
			if tt.deps != nil {
				tt.deps(&deps)
			}
			srv := httpadapter.NewServer(":0", time.Second, deps, slog.Default())

			rec := do(t, srv, http.MethodPost, "/v1/analysis", tt.body)
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantStatus != http.StatusOK {
				assert.NotEmpty(t, decodeMap(t, rec)["error"])
				return
			}

			var report domain.LocationReport
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
			assert.InDelta(t, 18.52, report.Coordinates.Latitude, 1e-9)
			assert.Equal(t, tt.wantRegion, report.Region)
		})
	}
}

type nonFiniteAnalyzer struct{}

func (nonFiniteAnalyzer) AnalyzeLocation(_ context.Context, _, _ float64, _ string) (*domain.LocationReport, error) {
	return &domain.LocationReport{Coordinates: domain.Coordinates{Latitude: math.NaN()}}, nil
}

func TestAnalysisUnencodableReportIs500(t *testing.T) {
	deps := defaultDeps()
	deps.Analyzer = nonFiniteAnalyzer{}
	srv := httpadapter.NewServer(":0", time.Second, deps, slog.Default())

	rec := do(t, srv, http.MethodPost, "/v1/analysis", `{"lat":18.52,"long":73.85}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal error", decodeMap(t, rec)["error"])
}

func TestAnalysisRejectsWrongMethod(t *testing.T) {
	rec := do(t, newTestServer(nil), http.MethodGet, "/v1/analysis", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRecommendCrops(t *testing.T) {
	tests := []struct {
		name       string
		rec        fakeRecommender
		wantStatus int
	}{
		{name: "found", rec: fakeRecommender{recs: []domain.Recommendation{{Crop: "Wheat", Score: "85"}}}, wantStatus: http.StatusOK},
		{name: "none parsed", rec: fakeRecommender{err: domain.ErrNoRecommendations}, wantStatus: http.StatusNotFound},
		{name: "model down", rec: fakeRecommender{err: fmt.Errorf("%w: connection refused", domain.ErrCompletionFailed)}, wantStatus: http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := defaultDeps()
			deps.Recommender = tt.rec
			srv := httpadapter.NewServer(":0", time.Second, deps, slog.Default())

			rec := do(t, srv, http.MethodPost, "/v1/recommend-crops", `{"lat":18.52,"long":73.85}`)
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())

			switch tt.wantStatus {
			case http.StatusOK:
				var recs []domain.Recommendation
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &recs))
				assert.Equal(t, tt.rec.recs, recs)
			case http.StatusNotFound:
				assert.Equal(t, "No recommendations found.", decodeMap(t, rec)["detail"])
			}
		})
	}
}

func TestYieldPredictions(t *testing.T) {
	srv := newTestServer(nil)

	rec := do(t, srv, http.MethodPost, "/v1/yield-predictions", `{"crops":[{"crop":" Rice ","acres":2},{"crop":"wheat","acres":1}]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Predictions []domain.YieldPrediction `json:"predictions"`
		TotalIncome float64                  `json:"total_income"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Predictions, 2)
	assert.Equal(t, "rice", body.Predictions[0].Crop)
	assert.InDelta(t, 60000, body.TotalIncome, 1e-6)

	for _, bad := range []string{`{"crops":[]}`, `{"crops":[{"crop":"","acres":1}]}`, `{"crops":[{"crop":"rice","acres":0}]}`} {
		rec := do(t, srv, http.MethodPost, "/v1/yield-predictions", bad)
		assert.Equal(t, http.StatusBadRequest, rec.Code, bad)
	}
}

func TestExpensesLifecycle(t *testing.T) {
	srv := newTestServer(nil)

	rec := do(t, srv, http.MethodPost, "/v1/expenses",
		`{"expenses":[{"category":"Seeds","description":"paddy","amount":1200,"date":"2024-06-01T00:00:00Z"},{"category":"Labor","amount":800,"date":"2024-06-02T00:00:00Z"}]}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var stored []domain.Expense
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stored))
	require.Len(t, stored, 2)
	assert.Equal(t, "e1", stored[0].ID)

	rec = do(t, srv, http.MethodGet, "/v1/expenses?category=Labor", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var labor []domain.Expense
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &labor))
	require.Len(t, labor, 1)
	assert.InDelta(t, 800, labor[0].Amount, 1e-9)

	rec = do(t, srv, http.MethodGet, "/v1/expenses.csv", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "expenses.csv")
	assert.Contains(t, rec.Body.String(), "paddy")

	rec = do(t, srv, http.MethodGet, "/v1/profit?revenue=5000", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var summary domain.ProfitSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.InDelta(t, 2000, summary.TotalExpenses, 1e-9)
	assert.InDelta(t, 3000, summary.Profit, 1e-9)

	rec = do(t, srv, http.MethodDelete, "/v1/expenses", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.InDelta(t, 2, decodeMap(t, rec)["deleted"], 0)

	rec = do(t, srv, http.MethodGet, "/v1/expenses", "")
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestAddExpensesValidation(t *testing.T) {
	srv := newTestServer(nil)

	for _, body := range []string{
		`{"expenses":[]}`,
		`{"expenses":[{"category":"","amount":10}]}`,
		`{"expenses":[{"category":"Seeds","amount":-1}]}`,
		`not json`,
	} {
		rec := do(t, srv, http.MethodPost, "/v1/expenses", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestExpenseStoreFailureIs500(t *testing.T) {
	deps := defaultDeps()
	deps.Expenses = &memExpenses{failWith: fmt.Errorf("disk full")}
	srv := httpadapter.NewServer(":0", time.Second, deps, slog.Default())

	rec := do(t, srv, http.MethodGet, "/v1/expenses", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal error", decodeMap(t, rec)["error"])
}

func TestCategories(t *testing.T) {
	srv := newTestServer(nil)

	rec := do(t, srv, http.MethodPost, "/v1/expense-categories", `{"name":" Fuel "}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `["Seeds","Fuel"]`, rec.Body.String())

	rec = do(t, srv, http.MethodGet, "/v1/expense-categories", "")
	assert.JSONEq(t, `["Seeds","Fuel"]`, rec.Body.String())

	rec = do(t, srv, http.MethodPost, "/v1/expense-categories", `{"name":"  "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProfitRejectsBadRevenue(t *testing.T) {
	rec := do(t, newTestServer(nil), http.MethodGet, "/v1/profit?revenue=lots", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
