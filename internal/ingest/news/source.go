package news

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/lueurxax/media-dashboard/internal/core/domain"
	apperrors "github.com/lueurxax/media-dashboard/internal/core/errors"
)

// Source URI schemes.
const (
	schemeFile = "file"
	schemeS3   = "s3"
	feedPrefix = "feed+"
	gzipSuffix = ".gz"
)

// Source produces the full list of articles for one load.
type Source interface {
	Load(ctx context.Context) ([]domain.ArticleRecord, error)
	// Describe returns a human-readable location without credentials.
	Describe() string
}

// Options carry the settings sources need beyond the URI.
type Options struct {
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3UseSSL    bool

	FeedTimeout  time.Duration
	FeedMaxItems int
}

// NewSource picks a Source implementation from the URI:
//
//	/path/to/export.csv, file:///path/to/export.csv[.gz]  -> FileSource
//	s3://bucket/key.csv[.gz]                             -> ObjectSource
//	feed+https://host/rss[,feed+https://...]              -> FeedSource
func NewSource(uri string, opts Options) (Source, error) {
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return nil, apperrors.ErrSourceNotConfigured
	}

	if strings.HasPrefix(uri, feedPrefix) {
		src, err := newFeedSourceFromURI(uri, opts)
		if err != nil {
			return nil, err
		}

		return src, nil
	}

	u, err := url.Parse(uri)
	if err != nil || u.Scheme == "" || isWindowsDrive(u.Scheme) {
		return &FileSource{Path: uri}, nil
	}

	switch u.Scheme {
	case schemeFile:
		return &FileSource{Path: u.Path}, nil
	case schemeS3:
		src, err := NewObjectSource(u.Host, strings.TrimPrefix(u.Path, "/"), opts)
		if err != nil {
			return nil, err
		}

		return src, nil
	default:
		return nil, fmt.Errorf("%w: scheme %q", apperrors.ErrUnsupportedSource, u.Scheme)
	}
}

func isWindowsDrive(scheme string) bool {
	return len(scheme) == 1
}

// FileSource reads an export from the local filesystem. Paths ending in .gz
// are decompressed on the fly.
type FileSource struct {
	Path string
}

func (s *FileSource) Describe() string {
	return s.Path
}

func (s *FileSource) Load(ctx context.Context) ([]domain.ArticleRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(filepath.Clean(s.Path))
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", apperrors.ErrDataUnavailable, s.Path, err)
	}
	defer f.Close()

	return readExport(f, s.Path)
}

// readExport decodes an export body, transparently gunzipping by name.
func readExport(r io.Reader, name string) ([]domain.ArticleRecord, error) {
	if strings.HasSuffix(strings.ToLower(name), gzipSuffix) {
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("%w: gzip %s: %w", apperrors.ErrDataUnavailable, name, err)
		}
		defer zr.Close()

		r = zr
	}

	articles, err := ReadCSV(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	return articles, nil
}
