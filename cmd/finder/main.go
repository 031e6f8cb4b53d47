package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/hungrymonkey/finder/internal/adapters/restaurants"
	"github.com/hungrymonkey/finder/internal/application/services"
	"github.com/hungrymonkey/finder/internal/cli"
	"github.com/hungrymonkey/finder/internal/infrastructure/auth"
	"github.com/hungrymonkey/finder/internal/infrastructure/clients/restaurantapi"
	"github.com/hungrymonkey/finder/internal/infrastructure/observability"
	"github.com/hungrymonkey/finder/pkg/config"
	apperrors "github.com/hungrymonkey/finder/pkg/errors"
	"github.com/hungrymonkey/finder/pkg/secrets"
)

func main() {
	os.Exit(run())
}

func run() int {
	global := flag.NewFlagSet("finder", flag.ContinueOnError)
	verbose := global.Bool("v", false, "log requests to stderr")
	if err := global.Parse(os.Args[1:]); err != nil {
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if _, err := secrets.ApplyVaultSecrets(ctx, secrets.LoadVaultConfigFromEnv()); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load Vault secrets: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}

	observability.InitLoggerTo(os.Stderr, cfg.App.ServiceName, cfg.App.Env)
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	logger := observability.GetLogger()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
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
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize metrics")
	}

	client := restaurantapi.NewClient(cfg.API.BaseURL,
		restaurantapi.WithTimeout(cfg.API.Timeout),
		restaurantapi.WithTokenProvider(auth.FromConfig(cfg.Auth.Token, cfg.Auth.TokenFile)),
		restaurantapi.WithMetrics(metrics),
		restaurantapi.WithSearchRequiresAuth(cfg.API.SearchRequiresAuth),
	)
	adapter := restaurants.NewAPIAdapter(client)
	service := services.NewRestaurantService(adapter, adapter, cfg.API.CachedLimit, cfg.API.FetchImages)

	app := cli.NewApp(service, os.Stdin, os.Stdout, os.Stderr, cfg.API.Debounce)
	if err := app.Run(ctx, global.Args()); err != nil {
		return exitCode(err)
	}
	return 0
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, flag.ErrHelp):
		return 0
	case errors.Is(err, cli.ErrUsage):
		return 2
	case apperrors.IsType(err, apperrors.ErrorTypeInvalidArgument):
		fmt.Fprintln(os.Stderr, apperrors.UserMessage(err))
		return 2
	case apperrors.IsType(err, apperrors.ErrorTypeAuthenticationRequired):
		fmt.Fprintln(os.Stderr, "Authentication required: set FINDER_AUTH_TOKEN or FINDER_AUTH_TOKEN_FILE")
		return 1
	default:
		fmt.Fprintln(os.Stderr, apperrors.UserMessage(err))
		return 1
	}
}
