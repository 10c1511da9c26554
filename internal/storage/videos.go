package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/lueurxax/media-dashboard/internal/core/domain"
	apperrors "github.com/lueurxax/media-dashboard/internal/core/errors"
)

const videoColumns = `video_id, title, channel_title, category_id::text, publish_time,
	views::bigint, likes::bigint, comment_count::bigint, comments_disabled,
	tags, thumbnail_link, description`

// TableIdentifier quotes a possibly schema-qualified table name for use in SQL.
func TableIdentifier(table string) (string, error) {
	table = strings.TrimSpace(table)
	if table == "" {
		return "", fmt.Errorf("%w: empty table name", apperrors.ErrInvalidInput)
	}

	parts := strings.Split(table, ".")
	if len(parts) > 2 {
		return "", fmt.Errorf("%w: table name %q has too many parts", apperrors.ErrInvalidInput, table)
	}

	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			return "", fmt.Errorf("%w: table name %q has an empty part", apperrors.ErrInvalidInput, table)
		}
	}

	return pgx.Identifier(parts).Sanitize(), nil
}

// QueryVideos reads every row of the videos table. Missing values come back
// as zero values; timestamps are normalized to UTC.
func (db *DB) QueryVideos(ctx context.Context, table string) ([]domain.VideoRecord, error) {
	ident, err := TableIdentifier(table)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY publish_time NULLS LAST, video_id", videoColumns, ident)

	rows, err := db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query videos from %s: %w", table, err)
	}
	defer rows.Close()

	var videos []domain.VideoRecord

	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan video row: %w", err)
		}

		videos = append(videos, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate video rows: %w", err)
	}

	return videos, nil
}

func scanVideo(row pgx.Row) (domain.VideoRecord, error) {
	var (
		id, title, channel, category pgtype.Text
		tags, thumbnail, description pgtype.Text
		published                    pgtype.Timestamptz
		views, likes, comments       pgtype.Int8
		disabled                     pgtype.Bool
	)

	if err := row.Scan(
		&id, &title, &channel, &category, &published,
		&views, &likes, &comments, &disabled,
		&tags, &thumbnail, &description,
	); err != nil {
		return domain.VideoRecord{}, err
	}

	return domain.VideoRecord{
		ID:               fromText(id),
		Title:            fromText(title),
		Channel:          fromText(channel),
		CategoryID:       fromText(category),
		PublishedAt:      fromTimestamptz(published),
		Views:            fromInt8(views),
		Likes:            fromInt8(likes),
		CommentCount:     fromInt8(comments),
		CommentsDisabled: fromBool(disabled),
		Tags:             fromText(tags),
		ThumbnailLink:    fromText(thumbnail),
		Description:      fromText(description),
	}, nil
}
