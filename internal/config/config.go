package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Weather provider names accepted by WEATHER_PROVIDER.
const (
	WeatherOpenMeteo = "openmeteo"
	WeatherSynthetic = "synthetic"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
	RateLimitRPS    int

	SheltersPath   string
	RankCandidates int

	// Weather provider configuration.
	WeatherProvider string
	WeatherBaseURL  string
	WeatherTimeout  time.Duration

	// OSRM routing configuration.
	RoutingBaseURL string
	RoutingProfile string
	RoutingTimeout time.Duration

	// Mapbox geocoding configuration.
	MapboxToken     string
	MapboxEnabled   bool
	MapboxTimeout   time.Duration
	MapboxCacheSize int

	// Kafka advisory sink configuration.
	KafkaEnabled       bool
	KafkaBrokers       []string
	KafkaAdvisoryTopic string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	weatherTimeout, err := parseDuration("WEATHER_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	routingTimeout, err := parseDuration("ROUTING_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}
	mapboxTimeout, err := parseDuration("MAPBOX_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}

	rankCandidates, err := parsePositiveInt("RANK_CANDIDATES", 5)
	if err != nil {
		return nil, err
	}

	rateLimit, err := strconv.Atoi(sharedcfg.EnvOrDefault("RATE_LIMIT_RPS", "10"))
	if err != nil || rateLimit < 0 {
		return nil, errors.New("invalid RATE_LIMIT_RPS")
	}

	mapboxToken := os.Getenv("MAPBOX_TOKEN")
	mapboxEnabled := mapboxToken != ""
	if v := os.Getenv("MAPBOX_ENABLED"); v != "" {
		mapboxEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		RateLimitRPS:    rateLimit,

		SheltersPath:   explicitOrDefault("SHELTERS_PATH", "data/relief_camps.csv"),
		RankCandidates: rankCandidates,

		WeatherProvider: sharedcfg.EnvOrDefault("WEATHER_PROVIDER", WeatherOpenMeteo),
		WeatherBaseURL:  sharedcfg.EnvOrDefault("WEATHER_BASE_URL", "https://api.open-meteo.com"),
		WeatherTimeout:  weatherTimeout,

		RoutingBaseURL: sharedcfg.EnvOrDefault("ROUTING_BASE_URL", "https://router.project-osrm.org"),
		RoutingProfile: explicitOrDefault("ROUTING_PROFILE", "driving"),
		RoutingTimeout: routingTimeout,

		MapboxToken:     mapboxToken,
		MapboxEnabled:   mapboxEnabled,
		MapboxTimeout:   mapboxTimeout,
		MapboxCacheSize: parseMapboxCacheSize(),

		KafkaEnabled:       os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers:       sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaAdvisoryTopic: explicitOrDefault("KAFKA_ADVISORY_TOPIC", "storm-risk-advisories"),
	}

	if cfg.SheltersPath == "" {
		return nil, errors.New("SHELTERS_PATH is required")
	}
	if cfg.WeatherProvider != WeatherOpenMeteo && cfg.WeatherProvider != WeatherSynthetic {
		return nil, fmt.Errorf("WEATHER_PROVIDER must be %q or %q", WeatherOpenMeteo, WeatherSynthetic)
	}
	if cfg.RoutingProfile == "" {
		return nil, errors.New("ROUTING_PROFILE is required")
	}
	if cfg.MapboxEnabled && cfg.MapboxToken == "" {
		return nil, errors.New("MAPBOX_ENABLED is true but MAPBOX_TOKEN is not set")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
	}
	if cfg.KafkaEnabled && cfg.KafkaAdvisoryTopic == "" {
		return nil, errors.New("KAFKA_ADVISORY_TOPIC is required when KAFKA_ENABLED is true")
	}

	return cfg, nil
}

// explicitOrDefault returns def only when key is unset, so an explicitly
// blank value reaches validation instead of silently taking the default.
func explicitOrDefault(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(v)
	}
	return def
}

func parseDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parsePositiveInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}

func parseMapboxCacheSize() int {
	if s := os.Getenv("MAPBOX_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 1000
}
