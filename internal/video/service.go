// Package video assembles canonical metadata for a submitted URL:
// validate, extract, resolve formats.
package video

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/topclip/tikfetch/internal/extractor"
	"github.com/topclip/tikfetch/internal/format"
	"github.com/topclip/tikfetch/internal/tiktok"
)

// Metadata is the immutable snapshot returned by one successful
// resolution. CreatedAt is resolution time, not upload time.
type Metadata struct {
	ID               string          `json:"id"`
	Title            string          `json:"title"`
	Author           string          `json:"author"`
	Description      string          `json:"description"`
	Duration         int             `json:"duration"`
	ViewCount        int64           `json:"view_count"`
	LikeCount        int64           `json:"like_count"`
	ShareCount       int64           `json:"share_count"`
	CommentCount     int64           `json:"comment_count"`
	ThumbnailURL     string          `json:"thumbnail_url"`
	VideoURL         string          `json:"video_url"`
	OriginalURL      string          `json:"original_url"`
	AvailableFormats []format.Format `json:"available_formats"`
	CreatedAt        time.Time       `json:"created_at"`
}

// Service runs the resolution pipeline. The optional cache only backs
// Info; Resolve always goes to the engine so download-side format lookup
// never depends on cached state.
type Service struct {
	adapter *extractor.Adapter
	cache   *Cache // nil when disabled
	logger  *zap.Logger
}

// NewService creates a metadata service. cache may be nil.
func NewService(adapter *extractor.Adapter, cache *Cache, logger *zap.Logger) *Service {
	return &Service{
		adapter: adapter,
		cache:   cache,
		logger:  logger.Named("video"),
	}
}

// Info validates and resolves rawURL, consulting the cache when enabled.
func (s *Service) Info(ctx context.Context, rawURL string) (*Metadata, error) {
	normalized, err := tiktok.Normalize(rawURL)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if meta, err := s.cache.Get(ctx, normalized); err == nil {
			s.logger.Debug("cache hit", zap.String("url", normalized))
			return meta, nil
		}
	}

	meta, err := s.resolve(ctx, rawURL, normalized)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, normalized, meta); err != nil {
			s.logger.Warn("cache write failed", zap.Error(err))
		}
	}
	return meta, nil
}

// Resolve validates and resolves rawURL without touching the cache.
func (s *Service) Resolve(ctx context.Context, rawURL string) (*Metadata, error) {
	normalized, err := tiktok.Normalize(rawURL)
	if err != nil {
		return nil, err
	}
	return s.resolve(ctx, rawURL, normalized)
}

func (s *Service) resolve(ctx context.Context, originalURL, normalized string) (*Metadata, error) {
	raw, err := s.adapter.Resolve(ctx, normalized)
	if err != nil {
		return nil, err
	}

	formats := format.Resolve(raw.Formats)

	meta := &Metadata{
		ID:               raw.ID,
		Title:            raw.Title,
		Author:           raw.Author,
		Description:      raw.Description,
		Duration:         clampDuration(raw.Duration),
		ViewCount:        clampCount(raw.ViewCount),
		LikeCount:        clampCount(raw.LikeCount),
		ShareCount:       clampCount(raw.ShareCount),
		CommentCount:     clampCount(raw.CommentCount),
		ThumbnailURL:     raw.Thumbnail,
		VideoURL:         formats[0].SourceURL,
		OriginalURL:      originalURL,
		AvailableFormats: formats,
		CreatedAt:        time.Now().UTC(),
	}
	if meta.Title == "" {
		meta.Title = "Untitled"
	}
	if meta.Author == "" {
		meta.Author = "unknown"
	}
	return meta, nil
}

func clampCount(n int64) int64 {
	if n < 0 {
		return 0
	}
	return n
}

func clampDuration(seconds float64) int {
	if seconds < 0 {
		return 0
	}
	return int(seconds)
}
