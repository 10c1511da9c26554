// Package db provides PostgreSQL access for the media dashboard.
//
// This package contains:
//   - DB: Connection pool wrapper with retrying connect
//   - The videos warehouse query used by the videos dashboard
//   - Migration support via goose
//   - Type conversions between PostgreSQL nullable types and Go values
package db

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"

	"github.com/lueurxax/media-dashboard/migrations"
)

// DB wraps a PostgreSQL connection pool.
type DB struct {
	Pool   *pgxpool.Pool
	Logger *zerolog.Logger
}

// PoolOptions configures the database connection pool. Zero fields keep the
// pgxpool defaults.
type PoolOptions struct {
	MaxConns          int32
	MinConns          int32
	MaxConnIdleTime   time.Duration
	MaxConnLifetime   time.Duration
	HealthCheckPeriod time.Duration
}

// NewWithOptions creates a new database connection with custom pool options.
func NewWithOptions(ctx context.Context, dsn string, opts PoolOptions, logger *zerolog.Logger) (*DB, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse db config: %w", err)
	}

	applyPoolOptions(config, opts)

	return connectWithRetries(ctx, config, logger)
}

// applyPoolOptions applies non-zero pool options to the config.
func applyPoolOptions(config *pgxpool.Config, opts PoolOptions) {
	if opts.MaxConns > 0 {
		config.MaxConns = opts.MaxConns
	}

	if opts.MinConns > 0 {
		config.MinConns = opts.MinConns
	}

	if opts.MaxConnIdleTime > 0 {
		config.MaxConnIdleTime = opts.MaxConnIdleTime
	}

	if opts.MaxConnLifetime > 0 {
		config.MaxConnLifetime = opts.MaxConnLifetime
	}

	if opts.HealthCheckPeriod > 0 {
		config.HealthCheckPeriod = opts.HealthCheckPeriod
	}
}

// connectWithRetries attempts to connect to the database with retries.
func connectWithRetries(ctx context.Context, config *pgxpool.Config, logger *zerolog.Logger) (*DB, error) {
	var pool *pgxpool.Pool

	var err error

	for i := 0; i < maxConnectionRetries; i++ {
		pool, err = pgxpool.NewWithConfig(ctx, config)
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				return &DB{Pool: pool, Logger: logger}, nil
			}
		}

		if pool != nil {
			pool.Close()
		}

		logger.Warn().Err(err).Int("attempt", i+1).Msg("database not reachable, retrying")

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("connect to database: %w", ctx.Err())
		case <-time.After(ConnectionRetrySleep):
		}
	}

	return nil, fmt.Errorf("failed to connect to database after retries: %w", err)
}

// Ping checks that the pool can still reach the server.
func (db *DB) Ping(ctx context.Context) error {
	return db.Pool.Ping(ctx)
}

// Close closes the database connection pool.
func (db *DB) Close() {
	db.Pool.Close()
}

const migrationLockID = 2024

type gooseLogger struct {
	logger *zerolog.Logger
}

func (l *gooseLogger) Fatalf(format string, v ...interface{}) {
	l.logger.Fatal().Msgf(format, v...)
}

func (l *gooseLogger) Printf(format string, v ...interface{}) {
	l.logger.Info().Msgf(format, v...)
}

// Migrate runs database migrations using goose.
// It acquires an advisory lock to ensure only one migration runs at a time
// across multiple instances.
func (db *DB) Migrate(ctx context.Context) error {
	conn, err := db.Pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", migrationLockID); err != nil {
		return fmt.Errorf("acquire advisory lock: %w", err)
	}

	defer func() {
		//nolint:errcheck // advisory unlock in defer is best-effort, lock released on connection close anyway
		_, _ = conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", migrationLockID)
	}()

	dbSQL := stdlib.OpenDB(*db.Pool.Config().ConnConfig)

	defer func() {
		_ = dbSQL.Close()
	}()

	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(&gooseLogger{logger: db.Logger})

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, dbSQL, "."); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

// Helpers

// SanitizeUTF8 removes invalid UTF-8 sequences from a string.
func SanitizeUTF8(s string) string {
	if s == "" || utf8.ValidString(s) {
		return s
	}

	return strings.ToValidUTF8(s, "")
}

func fromText(t pgtype.Text) string {
	if !t.Valid {
		return ""
	}

	return SanitizeUTF8(t.String)
}

func fromTimestamptz(t pgtype.Timestamptz) time.Time {
	if !t.Valid {
		return time.Time{}
	}

	return t.Time.UTC()
}

func fromInt8(i pgtype.Int8) int64 {
	if !i.Valid || i.Int64 < 0 {
		return 0
	}

	return i.Int64
}

func fromBool(b pgtype.Bool) bool {
	return b.Valid && b.Bool
}
