// Package classify maps inbound URLs to the platform that serves them.
package classify

import "strings"

// Platform is the category a URL was classified into.
type Platform int

const (
	// Unsupported URLs are rejected without any further work.
	Unsupported Platform = iota
	// YouTube links get a format menu before anything is downloaded.
	YouTube
	// ShortForm links (TikTok, Facebook, Instagram) download immediately
	// as video.
	ShortForm
)

func (p Platform) String() string {
	switch p {
	case YouTube:
		return "youtube"
	case ShortForm:
		return "shortform"
	default:
		return "unsupported"
	}
}

// Host fragments matched against the raw URL. Matching is case-sensitive
// substring search; YouTube fragments take priority over short-form ones, so
// a URL containing both is classified YouTube.
var (
	youtubeFragments   = []string{"youtube.com", "youtu.be"}
	shortFormFragments = []string{"tiktok.com", "facebook.com", "fb.watch", "instagram.com", "reel"}
)

// Classify returns the platform category for a raw URL string.
func Classify(url string) Platform {
	for _, fragment := range youtubeFragments {
		if strings.Contains(url, fragment) {
			return YouTube
		}
	}
	for _, fragment := range shortFormFragments {
		if strings.Contains(url, fragment) {
			return ShortForm
		}
	}
	return Unsupported
}
