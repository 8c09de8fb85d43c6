// Package media rewrites upstream image URLs.
package media

import (
	"strings"

	"github.com/ryanm101/gamehub/internal/option"
)

// PlaceholderImage is served when a game has no background image.
const PlaceholderImage = "/static/no-image-placeholder.svg"

const (
	mediaSegment = "media/"
	cropSegment  = "crop/600/400/"
)

// CroppedImageURL returns the 600x400 crop of a CDN image URL.
//
// The CDN serves crops when "crop/W/H/" follows the "media/" path segment.
// URLs without that segment are returned unchanged.
func CroppedImageURL(url option.Value[string]) string {
	raw, ok := url.Get()
	if !ok || strings.TrimSpace(raw) == "" {
		return PlaceholderImage
	}

	idx := strings.Index(raw, mediaSegment)
	if idx < 0 {
		return raw
	}
	idx += len(mediaSegment)
	if strings.HasPrefix(raw[idx:], "crop/") {
		return raw
	}
	return raw[:idx] + cropSegment + raw[idx:]
}
