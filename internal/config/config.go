package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// OpenWeatherMap configuration.
	OpenWeatherAPIKey  string
	OpenWeatherBaseURL string
	OpenWeatherTimeout time.Duration
	WeatherCacheSize   int
	WeatherCacheTTL    time.Duration
	ForecastLocation   *time.Location

	// Ambee soil data configuration.
	AmbeeAPIKey  string
	AmbeeEnabled bool
	AmbeeTimeout time.Duration

	// llama.cpp completion server configuration.
	LLMBaseURL string
	LLMTimeout time.Duration

	// Mapbox geocoding configuration.
	MapboxToken     string
	MapboxEnabled   bool
	MapboxTimeout   time.Duration
	MapboxCacheSize int

	// Kafka pipeline configuration.
	KafkaEnabled       bool
	KafkaBrokers       []string
	KafkaSourceTopic   string
	KafkaSinkTopic     string
	KafkaGroupID       string
	BatchSize          int
	BatchFlushInterval time.Duration

	SQLitePath string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	owmTimeout, err := parseDuration("OPENWEATHER_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}
	cacheTTL, err := parseDuration("WEATHER_CACHE_TTL", "1h")
	if err != nil {
		return nil, err
	}
	ambeeTimeout, err := parseDuration("AMBEE_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}
	llmTimeout, err := parseDuration("LLM_TIMEOUT", "120s")
	if err != nil {
		return nil, err
	}
	mapboxTimeout, err := parseDuration("MAPBOX_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}
	flushInterval, err := parseDuration("BATCH_FLUSH_INTERVAL", "500ms")
	if err != nil {
		return nil, err
	}

	batchSize, err := parseBatchSize()
	if err != nil {
		return nil, err
	}

	loc, err := time.LoadLocation(envOrDefault("FORECAST_TIMEZONE", "Local"))
	if err != nil {
		return nil, fmt.Errorf("invalid FORECAST_TIMEZONE: %w", err)
	}

	ambeeKey := os.Getenv("AMBEE_API_KEY")
	mapboxToken := os.Getenv("MAPBOX_TOKEN")

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		OpenWeatherAPIKey:  os.Getenv("OPENWEATHER_API_KEY"),
		OpenWeatherBaseURL: envOrDefault("OPENWEATHER_BASE_URL", "https://api.openweathermap.org/data/2.5"),
		OpenWeatherTimeout: owmTimeout,
		WeatherCacheSize:   parsePositiveInt("WEATHER_CACHE_SIZE", 1000),
		WeatherCacheTTL:    cacheTTL,
		ForecastLocation:   loc,

		AmbeeAPIKey:  ambeeKey,
		AmbeeEnabled: parseFlag("AMBEE_ENABLED", ambeeKey != ""),
		AmbeeTimeout: ambeeTimeout,

		LLMBaseURL: strings.TrimRight(envOrDefault("LLM_BASE_URL", "http://localhost:8081"), "/"),
		LLMTimeout: llmTimeout,

		MapboxToken:     mapboxToken,
		MapboxEnabled:   parseFlag("MAPBOX_ENABLED", mapboxToken != ""),
		MapboxTimeout:   mapboxTimeout,
		MapboxCacheSize: parsePositiveInt("MAPBOX_CACHE_SIZE", 1000),

		KafkaEnabled:       parseFlag("KAFKA_ENABLED", false),
		KafkaBrokers:       parseBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic:   envOrDefault("KAFKA_SOURCE_TOPIC", "location-analysis-requests"),
		KafkaSinkTopic:     envOrDefault("KAFKA_SINK_TOPIC", "crop-advisories"),
		KafkaGroupID:       envOrDefault("KAFKA_GROUP_ID", "crop-advisor"),
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,

		SQLitePath: envOrDefault("SQLITE_PATH", "data/advisor.db"),
	}

	if cfg.OpenWeatherAPIKey == "" {
		return nil, errors.New("OPENWEATHER_API_KEY is required")
	}
	if cfg.AmbeeEnabled && cfg.AmbeeAPIKey == "" {
		return nil, errors.New("AMBEE_ENABLED is true but AMBEE_API_KEY is not set")
	}
	if cfg.MapboxEnabled && cfg.MapboxToken == "" {
		return nil, errors.New("MAPBOX_ENABLED is true but MAPBOX_TOKEN is not set")
	}
	if cfg.KafkaEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_BROKERS is required")
		}
		if cfg.KafkaSourceTopic == "" {
			return nil, errors.New("KAFKA_SOURCE_TOPIC is required")
		}
		if cfg.KafkaSinkTopic == "" {
			return nil, errors.New("KAFKA_SINK_TOPIC is required")
		}
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseBatchSize() (int, error) {
	n, err := strconv.Atoi(envOrDefault("BATCH_SIZE", "10"))
	if err != nil || n < 1 || n > 1000 {
		return 0, errors.New("invalid BATCH_SIZE: must be between 1 and 1000")
	}
	return n, nil
}

// parsePositiveInt falls back on missing or invalid values.
func parsePositiveInt(key string, fallback int) int {
	if s := os.Getenv(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func parseFlag(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		return v == "true"
	}
	return fallback
}

func parseBrokers(s string) []string {
	var brokers []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
