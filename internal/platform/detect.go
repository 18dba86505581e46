// Package platform classifies source URLs into platform tags.
package platform

import (
	"strings"

	"github.com/tunegrab/tunegrab-api/internal/domain"
)

// Detect classifies a URL by case-insensitive substring matching against
// known host fragments. The first match wins; unknown hosts map to "other".
func Detect(rawURL string) domain.Platform {
	u := strings.ToLower(rawURL)

	switch {
	case strings.Contains(u, "youtube.com"), strings.Contains(u, "youtu.be"):
		return domain.PlatformYouTube
	case strings.Contains(u, "soundcloud.com"):
		return domain.PlatformSoundCloud
	case strings.Contains(u, "music.apple.com"):
		return domain.PlatformAppleMusic
	case strings.Contains(u, "spotify.com"):
		return domain.PlatformSpotify
	default:
		return domain.PlatformOther
	}
}
