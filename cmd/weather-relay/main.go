package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	httpapi "github.com/i474232898/weather-tags-relay/internal/api/http"
	"github.com/i474232898/weather-tags-relay/internal/config"
	"github.com/i474232898/weather-tags-relay/internal/logging"
	"github.com/i474232898/weather-tags-relay/internal/scheduler"
	"github.com/i474232898/weather-tags-relay/internal/store"
	"github.com/i474232898/weather-tags-relay/internal/weather"
	"github.com/i474232898/weather-tags-relay/internal/weather/providers"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, "weather-tags-relay")
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.OpenWeatherAPIKey == "" {
		logger.Warn("OPENWEATHER_API_KEY is not set; provider calls will be rejected")
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	opts := []providers.Option{
		providers.WithBaseURL(cfg.OpenWeatherURL),
		providers.WithLogger(logger),
	}
	if cfg.Breaker.Enabled {
		opts = append(opts, providers.WithCircuitBreaker(
			providers.NewCircuitBreaker("openweather", cfg.Breaker.MaxFailures, cfg.Breaker.OpenTimeout),
		))
	}
	provider := providers.NewOpenWeatherProvider(httpClient, cfg.OpenWeatherAPIKey, opts...)

	stats := store.NewMemoryStore()
	service := weather.NewService(provider, stats, logger)

	// Periodic stats report.
	sched := scheduler.New(stats, cfg.StatsInterval, logger)
	if err := sched.Start(); err != nil {
		logger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	app := httpapi.NewApp(service, httpapi.Options{
		CORSOrigins:   cfg.CORSOrigins,
		AccessLog:     true,
		LookupTimeout: cfg.HTTPTimeout,
	})

	go func() {
		logger.Info("listening", zap.String("port", cfg.Port))
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Error("fiber server stopped", zap.Error(err))
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("error during shutdown", zap.Error(err))
	}
	sched.Report()
}
