// Package format turns raw extractor candidates into a stable, ranked
// list of downloadable renditions.
package format

import (
	"fmt"
	"sort"

	"github.com/topclip/tikfetch/internal/extractor"
)

// MaxFormats caps the number of renditions offered per video.
const MaxFormats = 5

// Format is one downloadable rendition.
type Format struct {
	FormatID string `json:"format_id"`
	Label    string `json:"label"`
	Quality  string `json:"quality"`
	Ext      string `json:"ext"`
	Filesize *int64 `json:"filesize"`
	Height   *int   `json:"height"`
	Width    *int   `json:"width"`

	// SourceURL is the stream location; internal only.
	SourceURL string `json:"-"`
}

// Resolve deduplicates, ranks and labels raw candidates. The output is
// deterministic: identical input (in any order of duplicates) yields an
// identical list with identical format_id assignment.
func Resolve(raw []extractor.RawFormat) []Format {
	type candidate struct {
		extractor.RawFormat
		order int // insertion order, final tiebreak
	}

	// Drop unusable candidates, dedupe by (height, width, ext) keeping
	// the largest reported filesize.
	type key struct {
		height, width int
		ext           string
	}
	seen := make(map[key]int)
	var kept []candidate
	for i, f := range raw {
		if f.URL == "" {
			continue
		}
		k := key{f.Height, f.Width, f.Ext}
		if j, ok := seen[k]; ok {
			if f.Filesize > kept[j].Filesize {
				kept[j] = candidate{RawFormat: f, order: kept[j].order}
			}
			continue
		}
		seen[k] = len(kept)
		kept = append(kept, candidate{RawFormat: f, order: i})
	}

	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].Height != kept[j].Height {
			return kept[i].Height > kept[j].Height
		}
		if kept[i].Filesize != kept[j].Filesize {
			return kept[i].Filesize > kept[j].Filesize
		}
		return kept[i].order < kept[j].order
	})

	if len(kept) > MaxFormats {
		kept = kept[:MaxFormats]
	}

	if len(kept) == 0 {
		// No usable rendition survived; offer the extractor's default.
		return []Format{{
			FormatID: "best",
			Label:    "Best Available",
			Quality:  "auto",
			Ext:      "mp4",
		}}
	}

	idCount := make(map[string]int)
	out := make([]Format, 0, len(kept))
	for i, c := range kept {
		transport := c.Protocol
		if transport == "" {
			transport = "http"
		}

		id := fmt.Sprintf("%s-%d", transport, c.Height)
		idCount[id]++
		if n := idCount[id]; n > 1 {
			id = fmt.Sprintf("%s-%d", id, n)
		}

		f := Format{
			FormatID:  id,
			Label:     fmt.Sprintf("%s (%s)", tierName(c.Height), rankWord(i, len(kept))),
			Quality:   fmt.Sprintf("%dp", c.Height),
			Ext:       c.Ext,
			SourceURL: c.URL,
		}
		if c.Filesize > 0 {
			size := c.Filesize
			f.Filesize = &size
		}
		if c.Height > 0 {
			h := c.Height
			f.Height = &h
		}
		if c.Width > 0 {
			w := c.Width
			f.Width = &w
		}
		out = append(out, f)
	}
	return out
}

// Find returns the format with the given id, or nil.
func Find(formats []Format, formatID string) *Format {
	for i := range formats {
		if formats[i].FormatID == formatID {
			return &formats[i]
		}
	}
	return nil
}

func tierName(height int) string {
	switch {
	case height >= 720:
		return "HD"
	case height >= 480:
		return "SD"
	default:
		return "LD"
	}
}

// rankWord maps a position in the sorted list to a relative quality word.
func rankWord(i, n int) string {
	switch {
	case i == 0:
		return "high"
	case i == n-1:
		return "low"
	default:
		return "medium"
	}
}
