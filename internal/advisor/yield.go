package advisor

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/crop-advisor-service/internal/domain"
	"github.com/couchcryptid/crop-advisor-service/internal/observability"
)

// YieldEstimator predicts harvest and income per crop. Yields come from the
// static table when the crop is listed, otherwise from the language model;
// prices always come from the language model.
type YieldEstimator struct {
	llm     domain.Completer
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewYieldEstimator creates a YieldEstimator backed by llm.
func NewYieldEstimator(llm domain.Completer, metrics *observability.Metrics, logger *slog.Logger) *YieldEstimator {
	return &YieldEstimator{llm: llm, metrics: metrics, logger: logger}
}

// Predict resolves one crop. Failures never return an error: they produce a
// prediction whose Error field explains what could not be determined.
func (y *YieldEstimator) Predict(ctx context.Context, crop string, acres float64) domain.YieldPrediction {
	name := domain.NormalizeCrop(crop)

	if perAcre, ok := domain.StaticYieldPerAcre(name); ok {
		price := y.askPrice(ctx, name)
		if price == nil {
			return y.failed(name, acres, domain.YieldSourceStatic, domain.YieldErrNoPrice)
		}
		return y.succeeded(domain.NewYieldPrediction(name, acres, perAcre, *price, domain.YieldSourceStatic))
	}

	yield, price := y.askYieldPrice(ctx, name)
	if yield == nil || price == nil {
		return y.failed(name, acres, domain.YieldSourceModel, domain.YieldErrNoYieldOrPrice)
	}
	return y.succeeded(domain.NewYieldPrediction(name, acres, *yield, *price, domain.YieldSourceModel))
}

// PredictAll resolves each crop in order and returns the predictions with
// the summed income of the successful ones.
func (y *YieldEstimator) PredictAll(ctx context.Context, crops []domain.CropArea) ([]domain.YieldPrediction, float64) {
	preds := make([]domain.YieldPrediction, 0, len(crops))
	for _, c := range crops {
		preds = append(preds, y.Predict(ctx, c.Crop, c.Acres))
	}
	return preds, domain.TotalIncome(preds)
}

func (y *YieldEstimator) askPrice(ctx context.Context, crop string) *float64 {
	text, err := y.llm.Complete(ctx, domain.PriceSampling.Request(domain.BuildPricePrompt(crop)))
	if err != nil {
		y.logger.Warn("price completion failed", "crop", crop, "error", err)
		return nil
	}
	return domain.ParsePrice(text)
}

func (y *YieldEstimator) askYieldPrice(ctx context.Context, crop string) (yield, price *float64) {
	text, err := y.llm.Complete(ctx, domain.YieldPriceSampling.Request(domain.BuildYieldPricePrompt(crop)))
	if err != nil {
		y.logger.Warn("yield/price completion failed", "crop", crop, "error", err)
		return nil, nil
	}
	return domain.ParseYieldPrice(text)
}

func (y *YieldEstimator) succeeded(p domain.YieldPrediction) domain.YieldPrediction {
	y.metrics.YieldPredictions.WithLabelValues(p.Source, outcomeSuccess).Inc()
	return p
}

func (y *YieldEstimator) failed(crop string, acres float64, source, msg string) domain.YieldPrediction {
	y.metrics.YieldPredictions.WithLabelValues(source, outcomeError).Inc()
	y.logger.Warn("yield prediction failed", "crop", crop, "source", source, "reason", msg)
	return domain.FailedYieldPrediction(crop, acres, msg)
}
