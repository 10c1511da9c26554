package videos

import (
	"context"

	"github.com/lueurxax/media-dashboard/internal/core/domain"
	db "github.com/lueurxax/media-dashboard/internal/storage"
)

// Repository defines the warehouse operations required by the Source.
type Repository interface {
	QueryVideos(ctx context.Context, table string) ([]domain.VideoRecord, error)
}

// Compile-time assertion that *db.DB implements Repository.
var _ Repository = (*db.DB)(nil)
