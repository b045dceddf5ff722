package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/crop-advisor-service/internal/domain"
)

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

// AdvisoryTransformer implements Transformer. Malformed requests are
// returned as errors so the pipeline skips them; collaborator failures
// produce an advisory carrying an error message instead.
type AdvisoryTransformer struct {
	geocoder    domain.Geocoder
	analyzer    LocationAnalyzer
	recommender CropRecommender
	yields      YieldPredictor
	logger      *slog.Logger
}

// NewTransformer creates an AdvisoryTransformer. Pass a nil geocoder to
// disable geocoding; address-only requests are then rejected.
func NewTransformer(geocoder domain.Geocoder, analyzer LocationAnalyzer, recommender CropRecommender, yields YieldPredictor, logger *slog.Logger) *AdvisoryTransformer {
	return &AdvisoryTransformer{
		geocoder:    geocoder,
		analyzer:    analyzer,
		recommender: recommender,
		yields:      yields,
		logger:      logger,
	}
}

func (t *AdvisoryTransformer) Transform(ctx context.Context, raw domain.RawMessage) (domain.OutputMessage, error) {
	req, err := domain.ParseAnalysisRequest(raw)
	if err != nil {
		return domain.OutputMessage{}, err
	}

	advisory := t.Advise(ctx, req)
	if advisory == nil {
		return domain.OutputMessage{}, fmt.Errorf("%w: location could not be resolved", domain.ErrInvalidRequest)
	}
	return domain.SerializeAdvisory(*advisory)
}

// Advise runs one request through geocoding, analysis, recommendation and
// yield prediction. It returns nil only when the request names no usable
// location.
func (t *AdvisoryTransformer) Advise(ctx context.Context, req domain.AnalysisRequest) *domain.Advisory {
	advisory := &domain.Advisory{
		RequestID:       req.ID,
		Recommendations: []domain.Recommendation{},
	}
	defer func() { advisory.ProcessedAt = domain.Now().UTC() }()

	loc, err := domain.ResolveLocation(ctx, req, t.geocoder, t.logger)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) {
			t.logger.Warn("request location unresolvable", "request_id", req.ID, "address", req.Address, "error", err)
			return nil
		}
		advisory.Location = domain.Location{Address: req.Address, GeoSource: domain.GeoSourceFailed}
		advisory.Error = err.Error()
		return advisory
	}
	advisory.Location = loc

	report, err := t.analyzer.AnalyzeLocation(ctx, loc.Lat, loc.Lon, loc.Address)
	if err != nil {
		advisory.Error = err.Error()
		return advisory
	}
	advisory.Report = report

	recs, err := t.recommender.Recommend(ctx, *report)
	switch {
	case err == nil:
		advisory.Recommendations = recs
	case errors.Is(err, domain.ErrNoRecommendations):
		// an empty list is a valid answer
	default:
		advisory.Error = err.Error()
	}

	if len(req.Crops) > 0 {
		advisory.Yields, advisory.TotalIncome = t.yields.PredictAll(ctx, req.Crops)
	}
	return advisory
}
