package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// SingleTickerConfig configures a single-ticker loop.
type SingleTickerConfig struct {
	// Name identifies the worker for logging.
	Name string

	// Interval is the ticker interval. Must be positive.
	Interval time.Duration

	// OnTick is called when the ticker fires. A panic inside OnTick is
	// logged and the loop keeps running.
	OnTick func(ctx context.Context)

	// RunOnStart runs OnTick immediately when starting.
	RunOnStart bool

	// Logger for the worker.
	Logger *zerolog.Logger
}

// SingleTickerLoop calls OnTick every Interval until ctx is canceled.
// Returns a wrapped context error when the context is canceled.
func SingleTickerLoop(ctx context.Context, cfg SingleTickerConfig) error {
	if cfg.Interval <= 0 {
		return fmt.Errorf("single ticker loop %s: interval must be positive, got %s", cfg.Name, cfg.Interval)
	}

	logger := getLogger(cfg.Logger)
	logger.Info().Str(logFieldWorker, cfg.Name).Dur("interval", cfg.Interval).Msg("starting single ticker loop")

	defer func() {
		logger.Info().Str(logFieldWorker, cfg.Name).Msg("single ticker loop stopped")
	}()

	if cfg.RunOnStart {
		runTick(ctx, cfg, logger)
	}

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf(errFmtSingleTickerLoop, cfg.Name, ctx.Err())
		case <-ticker.C:
			runTick(ctx, cfg, logger)
		}
	}
}

func runTick(ctx context.Context, cfg SingleTickerConfig, logger *zerolog.Logger) {
	if cfg.OnTick == nil {
		return
	}

	defer RecoverPanic(logger, cfg.Name)

	cfg.OnTick(ctx)
}
