package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/hungrymonkey/finder/internal/adapters/cache"
	"github.com/hungrymonkey/finder/internal/api/fixtures"
	"github.com/hungrymonkey/finder/internal/api/handlers"
	"github.com/hungrymonkey/finder/internal/api/routes"
	"github.com/hungrymonkey/finder/internal/domain/providers"
	"github.com/hungrymonkey/finder/internal/infrastructure/clients/redis"
	"github.com/hungrymonkey/finder/internal/infrastructure/observability"
	"github.com/hungrymonkey/finder/pkg/config"
	"github.com/hungrymonkey/finder/pkg/secrets"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Secrets from Vault land in the environment before configuration is read
	if res, err := secrets.ApplyVaultSecrets(ctx, secrets.LoadVaultConfigFromEnv()); err != nil {
		observability.GetLogger().Warn().Err(err).Str("path", res.Path).Msg("Failed to load Vault secrets")
	} else if res.Enabled {
		observability.GetLogger().Info().Int("loaded", res.Loaded).Int("skipped", res.Skipped).Msg("Vault secrets loaded")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		observability.GetLogger().Fatal().Err(err).Msg("Failed to load configuration")
	}

	observability.InitLogger(cfg.App.ServiceName+"-mockapi", cfg.App.Env)
	logger := observability.GetLogger()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName+"-mockapi", cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					logger.Error().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			}()
			logger.Info().Msg("OpenTelemetry initialized successfully")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize metrics")
	}

	// Verified hours live in Redis when configured, in memory otherwise
	var cacheProvider providers.CacheProvider = cache.NewMemoryAdapter()
	if cfg.Redis.Enabled() {
		redisClient, err := redis.NewClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Warn().Err(err).Str("addr", cfg.Redis.RedisAddr()).Msg("Redis unavailable, keeping verifications in memory")
		} else {
			defer redisClient.Close()
			cacheProvider = cache.NewRedisAdapter(redisClient, "finder:")
			logger.Info().Str("addr", cfg.Redis.RedisAddr()).Msg("Redis client initialized successfully")
		}
	}

	store, err := fixtures.LoadStore()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load fixtures")
	}

	verifier := fixtures.NewHoursVerifier(cacheProvider, cfg.MockAPI.VerifyDelay, metrics)

	if cfg.MockAPI.JWTSecret == "" {
		logger.Warn().Msg("MOCKAPI_JWT_SECRET is empty, protected routes accept any bearer token")
	}

	router := routes.NewRouter(
		handlers.NewRestaurantHandler(store, verifier),
		handlers.NewProfileHandler(),
		[]byte(cfg.MockAPI.JWTSecret),
		cfg.MockAPI.AllowedOrigins,
		metrics,
	)

	server := &http.Server{
		Addr:         cfg.MockAPI.Addr(),
		Handler:      router.SetupRoutes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", server.Addr).Msg("Mock API starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("Server failed")
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("Server shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Error during server shutdown")
	}
	verifier.Close()

	logger.Info().Msg("Server stopped")
}
