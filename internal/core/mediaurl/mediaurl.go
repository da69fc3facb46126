// Package mediaurl extracts platform native identifiers from shared media links
package mediaurl

import (
	"net/url"
	"regexp"
	"strings"
)

// youtube ids are 11 chars of base64url
var ytID = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// spotify ids are 22 chars of base62
var spotifyID = regexp.MustCompile(`^[A-Za-z0-9]{22}$`)

// YouTube returns the video id from watch, shorts, embed, live and youtu.be links
func YouTube(raw string) (string, bool) {
	u, ok := parse(raw)
	if !ok {
		return "", false
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	host = strings.TrimPrefix(host, "m.")
	host = strings.TrimPrefix(host, "music.")

	var id string
	switch host {
	case "youtu.be":
		id = firstSegment(u.Path)
	case "youtube.com", "youtube-nocookie.com":
		segs := segments(u.Path)
		switch {
		case len(segs) == 1 && segs[0] == "watch":
			id = u.Query().Get("v")
		case len(segs) >= 2 && (segs[0] == "shorts" || segs[0] == "embed" || segs[0] == "live" || segs[0] == "v"):
			id = segs[1]
		}
	}
	if !ytID.MatchString(id) {
		return "", false
	}
	return id, true
}

// Spotify returns the track id from open.spotify.com/track/{id} links and spotify:track:{id} uris
func Spotify(raw string) (string, bool) {
	if rest, ok := strings.CutPrefix(strings.TrimSpace(raw), "spotify:track:"); ok {
		if spotifyID.MatchString(rest) {
			return rest, true
		}
		return "", false
	}
	u, ok := parse(raw)
	if !ok || !strings.HasSuffix(strings.ToLower(u.Hostname()), "spotify.com") {
		return "", false
	}
	segs := segments(u.Path)
	for i := 0; i+1 < len(segs); i++ {
		// locale prefixed paths look like /intl-de/track/{id}
		if segs[i] == "track" && spotifyID.MatchString(segs[i+1]) {
			return segs[i+1], true
		}
	}
	return "", false
}

func parse(raw string) (*url.URL, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, false
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return nil, false
	}
	return u, true
}

func segments(p string) []string {
	parts := strings.Split(strings.Trim(p, "/"), "/")
	out := parts[:0]
	for _, s := range parts {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func firstSegment(p string) string {
	if segs := segments(p); len(segs) > 0 {
		return segs[0]
	}
	return ""
}
