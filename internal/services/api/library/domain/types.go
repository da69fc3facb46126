// Package domain holds the library track model and the query contracts
package domain

import (
	"strings"
	"time"

	ptime "mixtape/internal/platform/time"
)

// Platform is the closed set of media sources a track can come from
type Platform string

const (
	PlatformYouTube    Platform = "youtube"
	PlatformSpotify    Platform = "spotify"
	PlatformSoundCloud Platform = "soundcloud"
	PlatformAppleMusic Platform = "apple_music"
	PlatformTidal      Platform = "tidal"
	PlatformBandcamp   Platform = "bandcamp"
	PlatformOther      Platform = "other"
)

// Platforms lists every valid platform in display order
var Platforms = []Platform{
	PlatformYouTube, PlatformSpotify, PlatformSoundCloud,
	PlatformAppleMusic, PlatformTidal, PlatformBandcamp, PlatformOther,
}

// ParsePlatform maps a stored platform string onto the closed set
// anything unrecognised is PlatformOther
func ParsePlatform(s string) Platform {
	p := Platform(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Platforms {
		if p == known {
			return p
		}
	}
	return PlatformOther
}

// Sentinels used when a side lookup has no record
const (
	UnknownArtist      = "Unknown Artist"
	UnknownUsername    = "unknown"
	UnknownDisplayName = "Unknown User"
)

// InteractionShare is the only interaction type the library emits today
const InteractionShare = "share"

// Track is the self contained record the library returns
type Track struct {
	ID          string      `json:"id" example:"6f1c2c8e-8a7a-5d0e-9d62-3e8d0c1f2b11"`
	Title       string      `json:"title" example:"Smells Like Teen Spirit"`
	Artist      string      `json:"artist" example:"Nirvana"`
	Platform    Platform    `json:"platform" example:"youtube"`
	PlatformID  string      `json:"platformId" example:"hTWKbfoikeg"`
	URL         string      `json:"url" example:"https://www.youtube.com/watch?v=hTWKbfoikeg"`
	SharedBy    Author      `json:"sharedBy"`
	Interaction Interaction `json:"interaction"`
	SocialStats SocialStats `json:"socialStats"`
	Tags        []string    `json:"tags"`
	CreatedAt   time.Time   `json:"createdAt" example:"2025-03-01T12:00:00Z"`
}

// Author is the embedded summary of who shared a track
type Author struct {
	Username    string `json:"username" example:"alice"`
	DisplayName string `json:"displayName" example:"Alice"`
	Avatar      string `json:"avatar,omitempty" example:"https://example.com/a.png"`
}

// Interaction describes how a track entered the library
type Interaction struct {
	Type      string    `json:"type" example:"share"`
	Timestamp time.Time `json:"timestamp" example:"2025-03-01T12:00:00Z"`
	Context   string    `json:"context,omitempty" example:"this one slaps"`
}

// SocialStats is always zero until engagement is joined per track
type SocialStats struct {
	Likes   int `json:"likes"`
	Replies int `json:"replies"`
	Recasts int `json:"recasts"`
}

// SortKey is a column the library can order by
type SortKey string

const (
	SortTimestamp SortKey = "timestamp"
	SortLikes     SortKey = "likes"
	SortReplies   SortKey = "replies"
	SortRecasts   SortKey = "recasts"
	SortArtist    SortKey = "artist"
	SortTitle     SortKey = "title"
)

// ParseSortKey falls back to SortTimestamp for empty or unknown columns
func ParseSortKey(s string) SortKey {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case SortTimestamp, SortLikes, SortReplies, SortRecasts, SortArtist, SortTitle:
		return k
	}
	return SortTimestamp
}

// DateRange is a relative lower bound on creation time
type DateRange string

const (
	RangeAll   DateRange = "all"
	RangeToday DateRange = "today"
	RangeWeek  DateRange = "week"
	RangeMonth DateRange = "month"
)

// Floor returns the lower bound for r relative to now, ok is false when r has no bound
func (r DateRange) Floor(now time.Time) (time.Time, bool) {
	now = now.UTC()
	switch r {
	case RangeToday:
		return ptime.StartOfDay(now), true
	case RangeWeek:
		return now.AddDate(0, 0, -7), true
	case RangeMonth:
		return now.AddDate(0, 0, -30), true
	}
	return time.Time{}, false
}

// Bucket is one row of a frequency table
type Bucket struct {
	Name  string `json:"name" example:"grunge"`
	Count int    `json:"count" example:"2"`
}
