package tiktok

import "testing"

func TestIsVideoURL(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{
			name:  "canonical video URL",
			input: "https://www.tiktok.com/@username/video/1234567890123456789",
			want:  true,
		},
		{
			name:  "canonical without www",
			input: "https://tiktok.com/@user.name/video/7123456789012345678",
			want:  true,
		},
		{
			name:  "short link",
			input: "https://vm.tiktok.com/ZMabcdef/",
			want:  true,
		},
		{
			name:  "t redirect",
			input: "https://www.tiktok.com/t/ZTabcdef/",
			want:  true,
		},
		{
			name:  "legacy mobile",
			input: "http://m.tiktok.com/v/1234567890.html",
			want:  true,
		},
		{
			name:  "not a url",
			input: "not a url",
			want:  false,
		},
		{
			name:  "empty string",
			input: "",
			want:  false,
		},
		{
			name:  "wrong host",
			input: "https://example.com/@user/video/123",
			want:  false,
		},
		{
			name:  "profile page",
			input: "https://www.tiktok.com/@username",
			want:  false,
		},
		{
			name:  "non-numeric video id",
			input: "https://www.tiktok.com/@username/video/abc",
			want:  false,
		},
		{
			name:  "missing scheme",
			input: "www.tiktok.com/@username/video/1234567890",
			want:  false,
		},
		{
			name:  "ftp scheme",
			input: "ftp://www.tiktok.com/@username/video/1234567890",
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsVideoURL(tt.input); got != tt.want {
				t.Errorf("IsVideoURL(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{
			name:  "strips tracking params",
			input: "https://www.tiktok.com/@user/video/123?utm_source=share&_r=1",
			want:  "https://www.tiktok.com/@user/video/123",
		},
		{
			name:  "keeps unrelated params",
			input: "https://www.tiktok.com/@user/video/123?lang=en",
			want:  "https://www.tiktok.com/@user/video/123?lang=en",
		},
		{
			name:  "drops fragment",
			input: "https://www.tiktok.com/@user/video/123#comments",
			want:  "https://www.tiktok.com/@user/video/123",
		},
		{
			name:  "trims whitespace",
			input: "  https://vm.tiktok.com/ZMabcdef/  ",
			want:  "https://vm.tiktok.com/ZMabcdef/",
		},
		{
			name:    "rejects invalid",
			input:   "not a url",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.input)
			if tt.wantErr {
				if err != ErrInvalidURL {
					t.Fatalf("Normalize(%q) error = %v, want ErrInvalidURL", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Normalize(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"https://www.tiktok.com/@user/video/7123456789012345678", "7123456789012345678"},
		{"https://m.tiktok.com/v/1234567890.html", "1234567890"},
		{"https://vm.tiktok.com/ZMabcdef/", ""},
	}

	for _, tt := range tests {
		if got := ExtractVideoID(tt.input); got != tt.want {
			t.Errorf("ExtractVideoID(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
