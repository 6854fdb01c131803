package download

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const maxFilenameBase = 180

// buildFilename derives the artifact filename from video identity and
// the chosen rendition: <author>_<title>_<id>_<quality>.<ext>.
func buildFilename(author, title, videoID, quality, ext string) string {
	if ext == "" {
		ext = "mp4"
	}
	base := fmt.Sprintf("%s_%s_%s_%s",
		sanitizePart(author), sanitizePart(title), sanitizePart(videoID), sanitizePart(quality))
	if len(base) > maxFilenameBase {
		// Cut on a rune boundary so long non-ASCII titles stay valid UTF-8.
		cut := maxFilenameBase
		for cut > 0 && !utf8.RuneStart(base[cut]) {
			cut--
		}
		base = base[:cut]
	}
	return base + "." + ext
}

// sanitizePart strips path separators, control characters and other
// filesystem-hostile characters from one filename component.
func sanitizePart(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r < 0x20 || r == 0x7f:
			// control characters dropped entirely
		case strings.ContainsRune(`/\:*?"<>|`, r):
			b.WriteRune('_')
		case r == ' ':
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}
	out := strings.Trim(b.String(), "._")
	if out == "" {
		out = "video"
	}
	return out
}
