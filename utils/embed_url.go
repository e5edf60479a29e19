package utils

import (
	"net/url"
	"regexp"
	"strings"

	"djanselme/internal/status"
	"djanselme/models"
)

var (
	iframeSrcRe      = regexp.MustCompile(`src=["']([^"']+)["']`)
	youtubePublicRe  = regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/)([a-zA-Z0-9_-]+)`)
	mixcloudPublicRe = regexp.MustCompile(`mixcloud\.com/([^/]+/[^/?]+)`)
)

// ResolveEmbedURL turns raw admin input (an iframe snippet or a public
// platform URL) into a canonical, directly embeddable URL. Resolving an
// already-canonical URL returns it unchanged. Inputs that cannot be
// resolved fail with status.ErrUnresolvable rather than a guessed URL.
func ResolveEmbedURL(input string, platform models.Platform) (string, error) {
	trimmed := strings.TrimSpace(input)

	// iframe snippets win regardless of platform: take the src verbatim
	if strings.Contains(trimmed, "<iframe") {
		m := iframeSrcRe.FindStringSubmatch(trimmed)
		if m == nil {
			return "", status.ErrUnresolvable
		}
		return m[1], nil
	}

	switch platform {
	case models.PlatformHearthis:
		// only embed URLs can be accepted; the track id of a public
		// profile page is not derivable without API access
		if strings.Contains(trimmed, "app.hearthis.at/embed/") {
			return strings.SplitN(trimmed, "?", 2)[0], nil
		}
		return "", status.ErrUnresolvable

	case models.PlatformYoutube:
		if strings.Contains(trimmed, "youtube.com/embed/") {
			return strings.SplitN(trimmed, "?", 2)[0], nil
		}
		if m := youtubePublicRe.FindStringSubmatch(trimmed); m != nil {
			return "https://www.youtube.com/embed/" + m[1], nil
		}
		return "", status.ErrUnresolvable

	case models.PlatformMixcloud:
		if strings.Contains(trimmed, "mixcloud.com/widget/iframe") {
			return strings.SplitN(trimmed, "&", 2)[0], nil
		}
		if m := mixcloudPublicRe.FindStringSubmatch(trimmed); m != nil {
			return "https://www.mixcloud.com/widget/iframe/?hide_cover=1&feed=%2F" +
				url.QueryEscape(m[1]) + "%2F", nil
		}
		return "", status.ErrUnresolvable

	default:
		return "", status.ErrUnresolvable
	}
}

// IsValidEmbedURL checks a resolved URL against the platform's embed
// predicate. A URL that fails here is rejected even if it resolved.
func IsValidEmbedURL(embedURL string, platform models.Platform) bool {
	switch platform {
	case models.PlatformHearthis:
		return strings.Contains(embedURL, "app.hearthis.at/embed/")
	case models.PlatformYoutube:
		return strings.Contains(embedURL, "youtube.com/embed/")
	case models.PlatformMixcloud:
		return strings.Contains(embedURL, "mixcloud.com/widget/iframe")
	default:
		return false
	}
}
