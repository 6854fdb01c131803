// Package extractor wraps the opaque content-extraction engine behind a
// small interface and normalizes its failures.
package extractor

import (
	"context"
	"errors"
)

// Engine errors. Engine implementations wrap one of these so the Adapter
// can classify failures; anything else is normalized to ErrExtraction.
var (
	// ErrContentUnavailable means the engine reports the content as
	// missing, private or removed.
	ErrContentUnavailable = errors.New("content unavailable")

	// ErrExtractionTimeout means the engine did not respond within the
	// adapter's deadline. Retryable by the caller; never retried here.
	ErrExtractionTimeout = errors.New("extraction timeout")

	// ErrExtraction means the engine returned malformed or empty data.
	ErrExtraction = errors.New("extraction failed")
)

// Engine turns a normalized platform URL into raw metadata plus candidate
// streams. Implementations: the yt-dlp subprocess engine, test stubs.
type Engine interface {
	Resolve(ctx context.Context, url string) (*RawInfo, error)
}

// RawInfo is the engine's unprocessed view of one video.
type RawInfo struct {
	ID           string
	Title        string
	Author       string
	Description  string
	Duration     float64 // seconds
	ViewCount    int64
	LikeCount    int64
	ShareCount   int64
	CommentCount int64
	Thumbnail    string
	Formats      []RawFormat
}

// RawFormat is one candidate rendition as reported by the engine.
type RawFormat struct {
	URL      string
	Protocol string // transport hint, e.g. "http", "m3u8"
	Ext      string
	Height   int
	Width    int
	Filesize int64 // 0 when the engine does not report it
}
