package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	apperrors "github.com/lueurxax/media-dashboard/internal/core/errors"
)

type Config struct {
	AppEnv   string `env:"APP_ENV" envDefault:"local"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	HTTPPort int    `env:"HTTP_PORT" envDefault:"8080"`

	// News articles: a CSV path, file:// URI, s3://bucket/key, or feed+https:// URLs (comma-separated).
	NewsSourceURI    string        `env:"NEWS_SOURCE_URI"`
	FeedFetchTimeout time.Duration `env:"FEED_FETCH_TIMEOUT" envDefault:"30s"`
	FeedMaxItems     int           `env:"FEED_MAX_ITEMS" envDefault:"500"`

	// Videos warehouse
	VideosPostgresDSN   string        `env:"VIDEOS_POSTGRES_DSN"`
	VideosTable         string        `env:"VIDEOS_TABLE" envDefault:"media_analytics.youtube_videos"`
	DBMigrate           bool          `env:"DB_MIGRATE" envDefault:"true"`
	DBMaxConnections    int32         `env:"DB_MAX_CONNECTIONS" envDefault:"10"`
	DBMinConnections    int32         `env:"DB_MIN_CONNECTIONS" envDefault:"1"`
	DBMaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`
	DBMaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	DBHealthCheckPeriod time.Duration `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`

	// S3-compatible object storage for s3:// news sources
	S3Endpoint  string `env:"S3_ENDPOINT" envDefault:"s3.amazonaws.com"`
	S3Region    string `env:"S3_REGION" envDefault:""`
	S3AccessKey string `env:"S3_ACCESS_KEY"`
	S3SecretKey string `env:"S3_SECRET_KEY"`
	S3UseSSL    bool   `env:"S3_USE_SSL" envDefault:"true"`

	// Dataset cache
	DatasetLoadTimeout     time.Duration `env:"DATASET_LOAD_TIMEOUT" envDefault:"60s"`
	DatasetRefreshInterval time.Duration `env:"DATASET_REFRESH_INTERVAL" envDefault:"0s"`

	// Presentation
	ArticlesPageSize  int `env:"ARTICLES_PAGE_SIZE" envDefault:"100"`
	VideoTopChannels  int `env:"VIDEO_TOP_CHANNELS" envDefault:"10"`
	ArticleTopAuthors int `env:"ARTICLE_TOP_AUTHORS" envDefault:"5"`
	PreviewCount      int `env:"PREVIEW_COUNT" envDefault:"5"`
	VideoTableLimit   int `env:"VIDEO_TABLE_LIMIT" envDefault:"500"`

	// Per-IP rate limiting for dashboard routes
	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS" envDefault:"5"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"20"`

	// Honor X-Forwarded-For / X-Real-IP; enable only behind a proxy that sets them.
	TrustProxyHeaders bool `env:"TRUST_PROXY_HEADERS" envDefault:"false"`
}

func Load() (*Config, error) {
	_ = godotenv.Load() //nolint:errcheck // .env file is optional, error is expected when not present

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment config: %w", err)
	}

	cfg.NewsSourceURI = strings.TrimSpace(cfg.NewsSourceURI)
	cfg.VideosPostgresDSN = strings.TrimSpace(cfg.VideosPostgresDSN)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects settings that would make the dashboard misbehave.
func (c *Config) Validate() error {
	checks := []struct {
		ok   bool
		name string
	}{
		{c.HTTPPort > 0 && c.HTTPPort < 65536, "HTTP_PORT"},
		{c.ArticlesPageSize > 0, "ARTICLES_PAGE_SIZE"},
		{c.VideoTopChannels > 0, "VIDEO_TOP_CHANNELS"},
		{c.ArticleTopAuthors > 0, "ARTICLE_TOP_AUTHORS"},
		{c.PreviewCount >= 0, "PREVIEW_COUNT"},
		{c.VideoTableLimit > 0, "VIDEO_TABLE_LIMIT"},
		{c.DatasetLoadTimeout > 0, "DATASET_LOAD_TIMEOUT"},
		{c.DatasetRefreshInterval >= 0, "DATASET_REFRESH_INTERVAL"},
		{c.RateLimitRPS > 0, "RATE_LIMIT_RPS"},
		{c.RateLimitBurst > 0, "RATE_LIMIT_BURST"},
		{c.VideosTable != "", "VIDEOS_TABLE"},
	}

	for _, check := range checks {
		if !check.ok {
			return fmt.Errorf("%w: %s out of range", apperrors.ErrInvalidConfig, check.name)
		}
	}

	return nil
}

// VideosEnabled reports whether a warehouse DSN was configured.
func (c *Config) VideosEnabled() bool {
	return c.VideosPostgresDSN != ""
}

// NewsEnabled reports whether a news source was configured.
func (c *Config) NewsEnabled() bool {
	return c.NewsSourceURI != ""
}
