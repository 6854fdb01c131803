package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os/exec"
	"strings"
)

// YTDLPEngine resolves metadata by invoking the yt-dlp binary with
// --dump-json. It is the default Engine in production.
type YTDLPEngine struct {
	binary string
}

// NewYTDLPEngine creates an engine using the given binary path ("yt-dlp"
// when empty).
func NewYTDLPEngine(binary string) *YTDLPEngine {
	if binary == "" {
		binary = "yt-dlp"
	}
	return &YTDLPEngine{binary: binary}
}

type ytdlpInfo struct {
	ID           string           `json:"id"`
	Title        string           `json:"title"`
	Description  string           `json:"description"`
	Uploader     string           `json:"uploader"`
	UploaderID   string           `json:"uploader_id"`
	Duration     float64          `json:"duration"`
	ViewCount    int64            `json:"view_count"`
	LikeCount    int64            `json:"like_count"`
	RepostCount  int64            `json:"repost_count"`
	CommentCount int64            `json:"comment_count"`
	Thumbnail    string           `json:"thumbnail"`
	Thumbnails   []ytdlpThumbnail `json:"thumbnails"`
	Formats      []ytdlpFormat    `json:"formats"`
}

type ytdlpThumbnail struct {
	ID     string `json:"id"`
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

type ytdlpFormat struct {
	FormatID string `json:"format_id"`
	URL      string `json:"url"`
	Ext      string `json:"ext"`
	Protocol string `json:"protocol"`
	VCodec   string `json:"vcodec"`
	Height   int    `json:"height"`
	Width    int    `json:"width"`
	Filesize int64  `json:"filesize"`
}

// Resolve runs yt-dlp and maps its JSON output into a RawInfo. Errors
// are wrapped in the package taxonomy based on yt-dlp's stderr.
func (e *YTDLPEngine) Resolve(ctx context.Context, rawURL string) (*RawInfo, error) {
	cmd := exec.CommandContext(ctx, e.binary, "--dump-json", "--no-download", "--no-warnings", rawURL)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, classifyStderr(stderr.String(), err)
	}

	var info ytdlpInfo
	if err := json.Unmarshal(stdout.Bytes(), &info); err != nil {
		return nil, fmt.Errorf("%w: parse yt-dlp output: %v", ErrExtraction, err)
	}

	return e.convert(&info), nil
}

func (e *YTDLPEngine) convert(info *ytdlpInfo) *RawInfo {
	author := info.UploaderID
	if author == "" {
		author = info.Uploader
	}

	raw := &RawInfo{
		ID:           info.ID,
		Title:        info.Title,
		Author:       author,
		Description:  info.Description,
		Duration:     info.Duration,
		ViewCount:    info.ViewCount,
		LikeCount:    info.LikeCount,
		ShareCount:   info.RepostCount,
		CommentCount: info.CommentCount,
		Thumbnail:    bestThumbnail(info.Thumbnails, info.Thumbnail),
	}

	for _, f := range info.Formats {
		if f.VCodec == "none" {
			continue // audio-only
		}
		raw.Formats = append(raw.Formats, RawFormat{
			URL:      f.URL,
			Protocol: normalizeProtocol(f.Protocol, f.URL),
			Ext:      f.Ext,
			Height:   f.Height,
			Width:    f.Width,
			Filesize: f.Filesize,
		})
	}
	return raw
}

// bestThumbnail prefers the "cover" thumbnail, then the largest, then the
// legacy single-thumbnail field.
func bestThumbnail(thumbs []ytdlpThumbnail, fallback string) string {
	best := ""
	bestArea := -1
	for _, t := range thumbs {
		if strings.Contains(t.ID, "cover") {
			return t.URL
		}
		if area := t.Height * t.Width; area > bestArea {
			best, bestArea = t.URL, area
		}
	}
	if best != "" {
		return best
	}
	return fallback
}

func normalizeProtocol(protocol, rawURL string) string {
	switch {
	case strings.HasPrefix(protocol, "m3u8"):
		return "m3u8"
	case protocol == "http" || protocol == "https":
		return "http"
	}
	if u, err := url.Parse(rawURL); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return "http"
	}
	return protocol
}

// classifyStderr maps yt-dlp stderr text onto the package taxonomy.
func classifyStderr(stderr string, execErr error) error {
	lower := strings.ToLower(stderr)
	switch {
	case strings.Contains(lower, "video unavailable"),
		strings.Contains(lower, "private video"),
		strings.Contains(lower, "has been deleted"),
		strings.Contains(lower, "unable to find video"),
		strings.Contains(lower, "404"):
		return fmt.Errorf("%w: %s", ErrContentUnavailable, firstLine(stderr))
	case strings.Contains(lower, "timed out"), strings.Contains(lower, "timeout"):
		return fmt.Errorf("%w: %s", ErrExtractionTimeout, firstLine(stderr))
	default:
		return fmt.Errorf("%w: yt-dlp: %v", ErrExtraction, execErr)
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
