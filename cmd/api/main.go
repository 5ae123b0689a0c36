package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/hbnb/hbnb-api/internal/app"
	"github.com/hbnb/hbnb-api/internal/infrastructure/auth"
	"github.com/hbnb/hbnb-api/internal/infrastructure/observability"
	"github.com/hbnb/hbnb-api/pkg/config"
)

func main() {
	// A missing .env file is fine; the environment may already be set
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Server.Env, cfg.Server.LogLevel)

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			}()
			log.Info().Str("endpoint", cfg.OTEL.Endpoint).Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize metrics")
	}

	backend, err := app.OpenBackend(cfg, metrics)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize repository")
	}
	defer func() {
		if err := backend.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing repository clients")
		}
	}()

	if err := backend.Reload(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to prepare repository")
	}
	log.Info().
		Str("repository", cfg.Repository.Type).
		Str("cache", cfg.Cache.Provider).
		Msg("Repository ready")

	if cfg.IsDevelopment() && cfg.Auth.JWTSecret == config.DefaultJWTSecret {
		log.Warn().Msg("Using the default token secret; set SECRET_KEY outside development")
	}

	handler := app.NewHTTPHandler(
		backend.Repo,
		auth.NewBcryptHasher(),
		auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		cfg.CORS.AllowedOrigins,
		metrics,
	)

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", serverAddr).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during server shutdown")
	}

	log.Info().Msg("Server stopped")
}
