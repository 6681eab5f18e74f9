package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/cyclone-saferoute/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/cyclone-saferoute/internal/adapter/kafka"
	"github.com/couchcryptid/cyclone-saferoute/internal/adapter/mapbox"
	"github.com/couchcryptid/cyclone-saferoute/internal/adapter/openmeteo"
	"github.com/couchcryptid/cyclone-saferoute/internal/adapter/osrm"
	"github.com/couchcryptid/cyclone-saferoute/internal/adapter/synthetic"
	"github.com/couchcryptid/cyclone-saferoute/internal/advisor"
	"github.com/couchcryptid/cyclone-saferoute/internal/config"
	"github.com/couchcryptid/cyclone-saferoute/internal/domain"
	"github.com/couchcryptid/cyclone-saferoute/internal/observability"
	"github.com/couchcryptid/cyclone-saferoute/internal/shelter"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	shelters, err := shelter.Load(cfg.SheltersPath)
	if err != nil {
		logger.Error("failed to load shelters", "path", cfg.SheltersPath, "error", err)
		os.Exit(1)
	}
	logger.Info("shelters loaded", "path", cfg.SheltersPath, "count", len(shelters))

	var weather domain.WeatherProvider
	switch cfg.WeatherProvider {
	case config.WeatherSynthetic:
		weather = synthetic.NewProvider(metrics)
	default:
		weather = openmeteo.NewClient(cfg.WeatherBaseURL, cfg.WeatherTimeout, metrics, logger)
	}
	logger.Info("weather provider selected", "provider", cfg.WeatherProvider)

	router := osrm.NewClient(cfg.RoutingBaseURL, cfg.RoutingProfile, cfg.RoutingTimeout, metrics, logger)

	opts := []advisor.Option{advisor.WithCandidates(cfg.RankCandidates)}

	// Geocoder is feature-flagged via MAPBOX_ENABLED / MAPBOX_TOKEN.
	if cfg.MapboxEnabled {
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, metrics, logger)
		opts = append(opts, advisor.WithGeocoder(mapbox.NewCachedGeocoder(client, cfg.MapboxCacheSize, metrics)))
		metrics.GeocodeEnabled.Set(1)
		logger.Info("mapbox geocoding enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout)
	} else {
		logger.Info("mapbox geocoding disabled")
	}

	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		opts = append(opts, advisor.WithPublisher(writer))
		logger.Info("advisory publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaAdvisoryTopic)
	}

	adv, err := advisor.New(weather, router, shelters, logger, metrics, opts...)
	if err != nil {
		logger.Error("failed to start advisor", "error", err)
		os.Exit(1)
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, adv, cfg.RateLimitRPS, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
