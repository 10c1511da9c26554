package news

import (
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/lueurxax/media-dashboard/internal/core/domain"
	apperrors "github.com/lueurxax/media-dashboard/internal/core/errors"
)

// ObjectSource reads an export from S3-compatible object storage.
type ObjectSource struct {
	client *minio.Client
	bucket string
	key    string
}

// NewObjectSource builds a minio client for the configured endpoint.
func NewObjectSource(bucket, key string, opts Options) (*ObjectSource, error) {
	if bucket == "" || key == "" {
		return nil, fmt.Errorf("%w: s3 uri needs bucket and key", apperrors.ErrInvalidInput)
	}

	client, err := minio.New(opts.S3Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.S3AccessKey, opts.S3SecretKey, ""),
		Secure: opts.S3UseSSL,
		Region: opts.S3Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create s3 client: %w", err)
	}

	return NewObjectSourceWithClient(client, bucket, key), nil
}

// NewObjectSourceWithClient wraps an existing client.
func NewObjectSourceWithClient(client *minio.Client, bucket, key string) *ObjectSource {
	return &ObjectSource{client: client, bucket: bucket, key: key}
}

func (s *ObjectSource) Describe() string {
	return "s3://" + s.bucket + "/" + s.key
}

func (s *ObjectSource) Load(ctx context.Context) ([]domain.ArticleRecord, error) {
	if _, err := s.client.StatObject(ctx, s.bucket, s.key, minio.StatObjectOptions{}); err != nil {
		return nil, s.wrapErr(err)
	}

	obj, err := s.client.GetObject(ctx, s.bucket, s.key, minio.GetObjectOptions{})
	if err != nil {
		return nil, s.wrapErr(err)
	}
	defer obj.Close()

	return readExport(obj, s.key)
}

func (s *ObjectSource) wrapErr(err error) error {
	errResp := minio.ToErrorResponse(err)
	if errResp.Code == "NoSuchKey" || errResp.Code == "NoSuchBucket" || errResp.Code == "NotFound" {
		return fmt.Errorf("%w: %s: %w", apperrors.ErrDataUnavailable, s.Describe(), apperrors.ErrNotFound)
	}

	return fmt.Errorf("%w: %s: %w", apperrors.ErrDataUnavailable, s.Describe(), err)
}
