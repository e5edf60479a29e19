package models

import (
	"time"
)

type Platform string

const (
	PlatformHearthis Platform = "hearthis"
	PlatformYoutube  Platform = "youtube"
	PlatformMixcloud Platform = "mixcloud"
)

var Platforms = []Platform{PlatformHearthis, PlatformYoutube, PlatformMixcloud}

func IsValidPlatform(v string) bool {
	for _, p := range Platforms {
		if string(p) == v {
			return true
		}
	}
	return false
}

// MixSession is an embedded third-party player shown on the public site.
// EmbedURL is always the canonical embed URL produced by the resolver,
// never the raw admin input.
type MixSession struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	Platform     Platform  `json:"platform"`
	EmbedURL     string    `json:"embed_url"`
	DisplayOrder int       `json:"display_order"`
	IsActive     bool      `json:"is_active"`
	Created      time.Time `json:"created"`
	Updated      time.Time `json:"updated"`
}
