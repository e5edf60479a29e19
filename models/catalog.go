package models

import (
	"time"
)

// Event is an upcoming or past public appearance shown on the site.
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	Venue       string    `json:"venue"`
	Location    string    `json:"location"`
	Description string    `json:"description,omitempty"`
	Price       string    `json:"price"`
	Status      string    `json:"status"` // upcoming, past, cancelled
	Created     time.Time `json:"created"`
	Updated     time.Time `json:"updated"`
}

// GalleryPhoto is an admin-managed photo with its stored image asset.
type GalleryPhoto struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	ImageURL     string    `json:"image_url"`
	EventType    string    `json:"event_type,omitempty"`
	EventDate    string    `json:"event_date,omitempty"`
	Location     string    `json:"location,omitempty"`
	Featured     bool      `json:"featured"`
	DisplayOrder int       `json:"display_order"`
	Created      time.Time `json:"created"`
	Updated      time.Time `json:"updated"`
}

type MixType string

const (
	MixTypeOriginalTrack MixType = "original_track"
	MixTypeMix           MixType = "mix"
	MixTypePodcast       MixType = "podcast"
	MixTypeLiveSet       MixType = "live_set"
)

var MixTypes = []MixType{MixTypeOriginalTrack, MixTypeMix, MixTypePodcast, MixTypeLiveSet}

func IsValidMixType(v string) bool {
	for _, t := range MixTypes {
		if string(t) == v {
			return true
		}
	}
	return false
}

// AudioContent is an uploaded audio file playable on the public site.
type AudioContent struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	Genre           string    `json:"genre,omitempty"`
	MixType         MixType   `json:"mix_type"`
	ReleaseDate     string    `json:"release_date,omitempty"`
	FileURL         string    `json:"file_url"`
	FileSize        int64     `json:"file_size"`
	DurationSeconds int       `json:"duration_seconds,omitempty"`
	Featured        bool      `json:"featured"`
	PlayCount       int       `json:"play_count"`
	Created         time.Time `json:"created"`
	Updated         time.Time `json:"updated"`
}
