// Package worker provides loop helpers for background tasks such as the
// periodic dataset refresh.
package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

const (
	logFieldWorker = "worker"

	errFmtSingleTickerLoop = "single ticker loop %s: %w"
)

// RunWithTimeout runs fn with a timeout derived from the parent context.
func RunWithTimeout(ctx context.Context, timeout time.Duration, fn func(ctx context.Context) error) error {
	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return fn(timeoutCtx)
}

// RecoverPanic recovers from panics and logs them.
// Use as: defer worker.RecoverPanic(logger, "operation name")
func RecoverPanic(logger *zerolog.Logger, operation string) {
	if r := recover(); r != nil {
		logger.Error().
			Interface("panic", r).
			Str("operation", operation).
			Msg("recovered from panic")
	}
}

// getLogger returns the provided logger or a nop logger if nil.
func getLogger(logger *zerolog.Logger) *zerolog.Logger {
	if logger == nil {
		nop := zerolog.Nop()

		return &nop
	}

	return logger
}
