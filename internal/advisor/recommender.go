package advisor

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/crop-advisor-service/internal/domain"
	"github.com/couchcryptid/crop-advisor-service/internal/observability"
)

// Recommender asks the language model for crop recommendations.
type Recommender struct {
	llm     domain.Completer
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewRecommender creates a Recommender backed by llm.
func NewRecommender(llm domain.Completer, metrics *observability.Metrics, logger *slog.Logger) *Recommender {
	return &Recommender{llm: llm, metrics: metrics, logger: logger}
}

// Recommend returns the recommendations parsed from a completion for report.
// The prompt ends where the first numbered record would start, so the
// completion is re-prefixed with "1." before parsing. An empty parse result
// is domain.ErrNoRecommendations.
func (r *Recommender) Recommend(ctx context.Context, report domain.LocationReport) ([]domain.Recommendation, error) {
	text, err := r.llm.Complete(ctx, domain.RecommendationSampling.Request(domain.BuildRecommendationPrompt(report)))
	if err != nil {
		r.metrics.RecommendationRequests.WithLabelValues(outcomeError).Inc()
		r.logger.Warn("recommendation completion failed", "region", report.Region, "error", err)
		return nil, err
	}

	recs := domain.ParseRecommendations("1." + text)
	r.metrics.RecommendationsParsed.Add(float64(len(recs)))
	if len(recs) == 0 {
		r.metrics.RecommendationRequests.WithLabelValues(outcomeEmpty).Inc()
		r.logger.Warn("no recommendations parsed", "region", report.Region, "completion_length", len(text))
		return recs, domain.ErrNoRecommendations
	}

	r.metrics.RecommendationRequests.WithLabelValues(outcomeSuccess).Inc()
	for _, rec := range recs {
		if !rec.KnownCategory() {
			r.logger.Debug("recommendation with unknown category", "crop", rec.Crop, "category", rec.Category)
		}
	}
	return recs, nil
}
