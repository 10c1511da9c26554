package domain

import (
	"strings"
	"time"
)

// TagSeparator delimits entries in VideoRecord.Tags.
const TagSeparator = "|"

// VideoRecord is one row of the YouTube video-metadata table.
type VideoRecord struct {
	ID               string    `json:"video_id"`
	Title            string    `json:"title"`
	Channel          string    `json:"channel_title"`
	CategoryID       string    `json:"category_id"`
	PublishedAt      time.Time `json:"publish_time,omitzero"` // zero when unknown
	Views            int64     `json:"views"`
	Likes            int64     `json:"likes"`
	CommentCount     int64     `json:"comment_count"`
	CommentsDisabled bool      `json:"comments_disabled"`
	Tags             string    `json:"tags"`
	ThumbnailLink    string    `json:"thumbnail_link"`
	Description      string    `json:"description"`
}

// RecordDate returns the publish timestamp and whether it is known.
func (v VideoRecord) RecordDate() (time.Time, bool) {
	return v.PublishedAt, !v.PublishedAt.IsZero()
}

// CategoryKey returns the category identifier as a string.
func (v VideoRecord) CategoryKey() string {
	return v.CategoryID
}

// SecondaryKey returns the channel title.
func (v VideoRecord) SecondaryKey() string {
	return v.Channel
}

// SearchFields returns the title and the raw tag string.
func (v VideoRecord) SearchFields() []string {
	return []string{v.Title, v.Tags}
}

// TagList splits Tags into trimmed, unquoted entries.
func (v VideoRecord) TagList() []string {
	if strings.TrimSpace(v.Tags) == "" {
		return nil
	}

	parts := strings.Split(v.Tags, TagSeparator)
	tags := make([]string, 0, len(parts))

	for _, p := range parts {
		p = strings.Trim(strings.TrimSpace(p), `"`)
		if p == "" || p == "[none]" {
			continue
		}

		tags = append(tags, p)
	}

	return tags
}
