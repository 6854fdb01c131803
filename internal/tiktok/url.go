// Package tiktok validates and normalizes TikTok video URLs.
//
// Validation is purely syntactic and runs before any network call: a URL
// either matches one of the known video URL shapes or it is rejected.
package tiktok

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
)

// ErrInvalidURL is returned for strings that match none of the accepted
// TikTok video URL shapes.
var ErrInvalidURL = errors.New("invalid TikTok URL")

// Accepted video URL shapes: canonical, short-link, /t/ redirect, legacy mobile.
var videoURLPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^https?://(www\.)?tiktok\.com/@[^/]+/video/\d+`),
	regexp.MustCompile(`^https?://vm\.tiktok\.com/[A-Za-z0-9]+/?`),
	regexp.MustCompile(`^https?://(www\.)?tiktok\.com/t/[A-Za-z0-9]+/?`),
	regexp.MustCompile(`^https?://m\.tiktok\.com/v/\d+\.html`),
}

var videoIDPattern = regexp.MustCompile(`/video/(\d+)|/v/(\d+)\.html`)

// IsVideoURL reports whether raw matches one of the accepted TikTok video
// URL shapes.
func IsVideoURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return false
	}

	for _, re := range videoURLPatterns {
		if re.MatchString(raw) {
			return true
		}
	}
	return false
}

// Normalize validates raw and returns a normalized form: tracking query
// parameters stripped, fragment dropped. Short-link forms are returned
// as-is; the extractor follows their redirect.
func Normalize(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if !IsVideoURL(raw) {
		return "", ErrInvalidURL
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", ErrInvalidURL
	}

	q := u.Query()
	for _, param := range []string{"utm_source", "utm_medium", "utm_campaign", "fbclid", "gclid", "_r", "_t"} {
		q.Del(param)
	}
	u.RawQuery = q.Encode()
	u.Fragment = ""

	return u.String(), nil
}

// ExtractVideoID returns the numeric video ID embedded in the URL, or ""
// for short-link forms where the ID is only known after the extractor
// follows the redirect.
func ExtractVideoID(raw string) string {
	m := videoIDPattern.FindStringSubmatch(raw)
	if m == nil {
		return ""
	}
	if m[1] != "" {
		return m[1]
	}
	return m[2]
}
