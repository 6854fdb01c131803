package extractor

import (
	"errors"
	"testing"
)

func TestClassifyStderr(t *testing.T) {
	execErr := errors.New("exit status 1")

	tests := []struct {
		name   string
		stderr string
		want   error
	}{
		{
			name:   "removed content",
			stderr: "ERROR: [TikTok] 123: Video unavailable",
			want:   ErrContentUnavailable,
		},
		{
			name:   "private content",
			stderr: "ERROR: Private video. Log in to access it.",
			want:   ErrContentUnavailable,
		},
		{
			name:   "network timeout",
			stderr: "ERROR: Unable to download webpage: timed out",
			want:   ErrExtractionTimeout,
		},
		{
			name:   "anything else",
			stderr: "ERROR: Unsupported URL",
			want:   ErrExtraction,
		},
		{
			name:   "empty stderr",
			stderr: "",
			want:   ErrExtraction,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classifyStderr(tt.stderr, execErr)
			if !errors.Is(err, tt.want) {
				t.Errorf("classifyStderr(%q) = %v, want %v", tt.stderr, err, tt.want)
			}
		})
	}
}

func TestBestThumbnail(t *testing.T) {
	thumbs := []ytdlpThumbnail{
		{ID: "dynamic", URL: "https://cdn/dynamic.jpg", Height: 100, Width: 100},
		{ID: "cover", URL: "https://cdn/cover.jpg", Height: 50, Width: 50},
		{ID: "big", URL: "https://cdn/big.jpg", Height: 1000, Width: 1000},
	}

	if got := bestThumbnail(thumbs, "fallback"); got != "https://cdn/cover.jpg" {
		t.Errorf("bestThumbnail = %q, want the cover thumbnail", got)
	}

	noCover := []ytdlpThumbnail{
		{ID: "a", URL: "https://cdn/small.jpg", Height: 10, Width: 10},
		{ID: "b", URL: "https://cdn/large.jpg", Height: 500, Width: 500},
	}
	if got := bestThumbnail(noCover, "fallback"); got != "https://cdn/large.jpg" {
		t.Errorf("bestThumbnail = %q, want the largest thumbnail", got)
	}

	if got := bestThumbnail(nil, "https://cdn/legacy.jpg"); got != "https://cdn/legacy.jpg" {
		t.Errorf("bestThumbnail = %q, want the legacy fallback", got)
	}
}

func TestConvertSkipsAudioOnly(t *testing.T) {
	e := NewYTDLPEngine("")
	info := &ytdlpInfo{
		ID:    "123",
		Title: "t",
		Formats: []ytdlpFormat{
			{URL: "https://cdn/audio", VCodec: "none", Ext: "mp3"},
			{URL: "https://cdn/video", VCodec: "h264", Ext: "mp4", Height: 720},
		},
	}

	raw := e.convert(info)
	if len(raw.Formats) != 1 {
		t.Fatalf("formats = %d, want 1 (audio-only dropped)", len(raw.Formats))
	}
	if raw.Formats[0].URL != "https://cdn/video" {
		t.Errorf("kept format = %q, want the video rendition", raw.Formats[0].URL)
	}
}

func TestNormalizeProtocol(t *testing.T) {
	tests := []struct {
		protocol string
		url      string
		want     string
	}{
		{"m3u8_native", "https://cdn/playlist.m3u8", "m3u8"},
		{"https", "https://cdn/v.mp4", "http"},
		{"", "https://cdn/v.mp4", "http"},
		{"rtmp", "rtmp://cdn/stream", "rtmp"},
	}

	for _, tt := range tests {
		if got := normalizeProtocol(tt.protocol, tt.url); got != tt.want {
			t.Errorf("normalizeProtocol(%q, %q) = %q, want %q", tt.protocol, tt.url, got, tt.want)
		}
	}
}
