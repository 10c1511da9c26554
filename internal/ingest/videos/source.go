// Package videos loads the video-metadata table from the warehouse.
package videos

import (
	"context"
	"fmt"

	"github.com/lueurxax/media-dashboard/internal/core/domain"
	apperrors "github.com/lueurxax/media-dashboard/internal/core/errors"
)

// Source reads every video row from one warehouse table.
type Source struct {
	repo  Repository
	table string
}

// NewSource returns a Source over table. A nil repo means no warehouse is configured.
func NewSource(repo Repository, table string) *Source {
	return &Source{repo: repo, table: table}
}

func (s *Source) Describe() string {
	return s.table
}

// Load queries the table and normalizes the rows. Any warehouse failure is
// reported as ErrDataUnavailable.
func (s *Source) Load(ctx context.Context) ([]domain.VideoRecord, error) {
	if s.repo == nil {
		return nil, fmt.Errorf("%w: %w: videos warehouse", apperrors.ErrDataUnavailable, apperrors.ErrSourceNotConfigured)
	}

	rows, err := s.repo.QueryVideos(ctx, s.table)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrDataUnavailable, err)
	}

	for i := range rows {
		rows[i] = normalize(rows[i])
	}

	return rows, nil
}

func normalize(v domain.VideoRecord) domain.VideoRecord {
	if !v.PublishedAt.IsZero() {
		v.PublishedAt = v.PublishedAt.UTC()
	}

	v.Views = max(v.Views, 0)
	v.Likes = max(v.Likes, 0)
	v.CommentCount = max(v.CommentCount, 0)

	return v
}
