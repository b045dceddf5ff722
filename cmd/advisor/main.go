package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/crop-advisor-service/internal/adapter/ambee"
	httpadapter "github.com/couchcryptid/crop-advisor-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/crop-advisor-service/internal/adapter/kafka"
	"github.com/couchcryptid/crop-advisor-service/internal/adapter/llama"
	"github.com/couchcryptid/crop-advisor-service/internal/adapter/mapbox"
	"github.com/couchcryptid/crop-advisor-service/internal/adapter/openweather"
	"github.com/couchcryptid/crop-advisor-service/internal/adapter/sqlite"
	"github.com/couchcryptid/crop-advisor-service/internal/advisor"
	"github.com/couchcryptid/crop-advisor-service/internal/config"
	"github.com/couchcryptid/crop-advisor-service/internal/domain"
	"github.com/couchcryptid/crop-advisor-service/internal/observability"
	"github.com/couchcryptid/crop-advisor-service/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	weatherClient := openweather.NewClient(cfg.OpenWeatherAPIKey, cfg.OpenWeatherBaseURL, cfg.OpenWeatherTimeout, cfg.ForecastLocation, metrics, logger)
	weather := openweather.NewCachedProvider(weatherClient, cfg.WeatherCacheSize, cfg.WeatherCacheTTL, clockwork.NewRealClock(), metrics)

	// Soil readings and geocoding are optional (AMBEE_ENABLED, MAPBOX_ENABLED).
	var soil domain.SoilProvider
	if cfg.AmbeeEnabled {
		soil = ambee.NewClient(cfg.AmbeeAPIKey, cfg.AmbeeTimeout, metrics, logger)
		logger.Info("ambee soil readings enabled", "timeout", cfg.AmbeeTimeout)
	}
	metrics.SetFeature("soil_readings", cfg.AmbeeEnabled)

	var geocoder domain.Geocoder
	if cfg.MapboxEnabled {
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, metrics, logger)
		geocoder = mapbox.NewCachedGeocoder(client, cfg.MapboxCacheSize, metrics)
		logger.Info("mapbox geocoding enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout)
	} else {
		logger.Info("mapbox geocoding disabled")
	}
	metrics.SetFeature("geocoding", cfg.MapboxEnabled)

	llm := llama.NewClient(cfg.LLMBaseURL, cfg.LLMTimeout, metrics, logger)
	analyzer := advisor.NewAnalyzer(weather, soil, cfg.ForecastLocation, metrics, logger)
	recommender := advisor.NewRecommender(llm, metrics, logger)
	yields := advisor.NewYieldEstimator(llm, metrics, logger)

	store, err := sqlite.Open(ctx, cfg.SQLitePath)
	if err != nil {
		logger.Error("failed to open expense store", "path", cfg.SQLitePath, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	deps := httpadapter.Deps{
		Ready:       httpadapter.ReadinessFunc(store.Ping),
		Geocoder:    geocoder,
		Analyzer:    analyzer,
		Recommender: recommender,
		Yields:      yields,
		Expenses:    store,
	}

	var (
		reader *kafkaadapter.Reader
		writer *kafkaadapter.Writer
		p      *pipeline.Pipeline
	)
	metrics.SetFeature("kafka_pipeline", cfg.KafkaEnabled)
	if cfg.KafkaEnabled {
		reader = kafkaadapter.NewReader(cfg, logger)
		writer = kafkaadapter.NewWriter(cfg, logger)
		transformer := pipeline.NewTransformer(geocoder, analyzer, recommender, yields, logger)
		p = pipeline.New(reader, transformer, writer, logger, metrics, cfg.BatchSize)
		deps.Ready = p
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, cfg.LLMTimeout+cfg.OpenWeatherTimeout, deps, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	if p != nil {
		go func() {
			if err := p.Run(ctx); err != nil {
				logger.Error("pipeline error", "error", err)
			}
		}()
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if reader != nil {
		if err := reader.Close(); err != nil {
			logger.Error("kafka reader close error", "error", err)
		}
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
