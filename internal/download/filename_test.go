package download

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestBuildFilename(t *testing.T) {
	tests := []struct {
		name    string
		author  string
		title   string
		videoID string
		quality string
		ext     string
		want    string
	}{
		{
			name:    "plain fields",
			author:  "tester",
			title:   "My Video",
			videoID: "123",
			quality: "720p",
			ext:     "mp4",
			want:    "tester_My_Video_123_720p.mp4",
		},
		{
			name:    "path separators stripped",
			author:  "a/b",
			title:   "c\\d",
			videoID: "123",
			quality: "auto",
			ext:     "mp4",
			want:    "a_b_c_d_123_auto.mp4",
		},
		{
			name:    "control characters dropped",
			author:  "us\x00er",
			title:   "ti\x1ftle",
			videoID: "123",
			quality: "720p",
			ext:     "mp4",
			want:    "user_title_123_720p.mp4",
		},
		{
			name:    "reserved characters replaced",
			author:  "a:b",
			title:   `what?"really"`,
			videoID: "123",
			quality: "720p",
			ext:     "mp4",
			want:    "a_b_what__really_123_720p.mp4",
		},
		{
			name:    "empty component gets placeholder",
			author:  "",
			title:   "t",
			videoID: "123",
			quality: "720p",
			ext:     "mp4",
			want:    "video_t_123_720p.mp4",
		},
		{
			name:    "missing extension defaults to mp4",
			author:  "a",
			title:   "t",
			videoID: "123",
			quality: "auto",
			ext:     "",
			want:    "a_t_123_auto.mp4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildFilename(tt.author, tt.title, tt.videoID, tt.quality, tt.ext)
			if got != tt.want {
				t.Errorf("buildFilename = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildFilenameCapsLength(t *testing.T) {
	got := buildFilename("a", strings.Repeat("x", 500), "123", "720p", "mp4")
	if len(got) > maxFilenameBase+len(".mp4") {
		t.Errorf("filename length = %d, want <= %d", len(got), maxFilenameBase+4)
	}
	if !strings.HasSuffix(got, ".mp4") {
		t.Errorf("extension lost: %q", got)
	}
}

func TestBuildFilenameTruncatesOnRuneBoundary(t *testing.T) {
	// Three-byte runes that do not divide the cap evenly force the cut to
	// land mid-rune unless the truncation backs up to a boundary.
	got := buildFilename("a", strings.Repeat("视", 200), "123", "720p", "mp4")
	if !utf8.ValidString(got) {
		t.Errorf("filename is not valid UTF-8: %q", got)
	}
	if len(got) > maxFilenameBase+len(".mp4") {
		t.Errorf("filename length = %d, want <= %d", len(got), maxFilenameBase+4)
	}
	if !strings.HasSuffix(got, ".mp4") {
		t.Errorf("extension lost: %q", got)
	}
}
