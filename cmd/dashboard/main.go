package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/lueurxax/media-dashboard/internal/app"
	"github.com/lueurxax/media-dashboard/internal/platform/config"
	db "github.com/lueurxax/media-dashboard/internal/storage"
)

func main() {
	mode := flag.String("mode", "serve", "Service mode (serve, warm)")

	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := newLogger(cfg.AppEnv, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database := connectWarehouse(ctx, cfg, &logger)
	if database != nil {
		defer database.Close()
	}

	application := app.New(cfg, database, &logger)

	if err := runMode(ctx, application, *mode); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info().Msg("application stopped")
			return
		}

		logger.Fatal().Err(err).Msg("application error")
	}
}

// connectWarehouse returns nil when the warehouse is not configured or not
// reachable; the videos dashboard then shows an unavailable notice.
func connectWarehouse(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) *db.DB {
	if !cfg.VideosEnabled() {
		logger.Info().Msg("VIDEOS_POSTGRES_DSN not set, videos dashboard disabled")
		return nil
	}

	poolOpts := db.PoolOptions{
		MaxConns:          cfg.DBMaxConnections,
		MinConns:          cfg.DBMinConnections,
		MaxConnIdleTime:   cfg.DBMaxConnIdleTime,
		MaxConnLifetime:   cfg.DBMaxConnLifetime,
		HealthCheckPeriod: cfg.DBHealthCheckPeriod,
	}

	database, err := db.NewWithOptions(ctx, cfg.VideosPostgresDSN, poolOpts, logger)
	if err != nil {
		logger.Error().Err(err).Msg("failed to connect to videos warehouse")
		return nil
	}

	if cfg.DBMigrate {
		if err := database.Migrate(ctx); err != nil {
			logger.Error().Err(err).Msg("failed to run migrations")
		}
	}

	return database
}

func newLogger(appEnv, level string) zerolog.Logger {
	var logger zerolog.Logger
	if appEnv == "local" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
	} else {
		logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	return logger.Level(lvl)
}

func runMode(ctx context.Context, application *app.App, mode string) error {
	switch mode {
	case "serve":
		return application.RunServer(ctx)
	case "warm":
		return application.RunWarm(ctx)
	default:
		log.Fatalf("Usage: %s --mode=[serve|warm]", os.Args[0])

		return nil
	}
}
