package service

import (
	"context"
	"fmt"
	"testing"

	"mixtape/internal/services/api/library/domain"
	"mixtape/internal/services/api/library/repo"
)

func TestTrackID_Deterministic(t *testing.T) {
	if TrackID("p", 0) != TrackID("p", 0) {
		t.Fatalf("same input gave different ids")
	}
	if TrackID("p", 0) == TrackID("p", 1) || TrackID("p1", 0) == TrackID("p", 10) {
		t.Fatalf("distinct inputs collided")
	}
}

func TestSkeleton(t *testing.T) {
	r := row("p", 5, "  ", "rock")
	r.Platform = "SoundCloud"
	tr := Skeleton(r)
	if tr.Artist != domain.UnknownArtist || tr.Platform != domain.PlatformSoundCloud || tr.PlatformID != "p" {
		t.Fatalf("skeleton = %+v", tr)
	}
	if tr.Interaction.Type != domain.InteractionShare || !tr.Interaction.Timestamp.Equal(r.CreatedAt) {
		t.Fatalf("interaction = %+v", tr.Interaction)
	}

	r.Platform = "myspace"
	r.Tags = nil
	tr = Skeleton(r)
	if tr.Platform != domain.PlatformOther || tr.Tags == nil {
		t.Fatalf("skeleton = %+v", tr)
	}
}

func TestHydrate_JoinsAndSentinels(t *testing.T) {
	yt := row("yt", 1, "Nirvana")
	sp := row("sp", 2, "Daft Punk")
	sp.Platform, sp.AuthorID = "spotify", 2
	bad := row("bad", 3, "x")
	bad.AuthorID = 99
	second := row("yt", 1, "Nirvana")
	second.SubIndex = 1

	m := newMemRepo(yt, sp, bad, second)
	m.authors[1] = repo.AuthorRow{ID: 1, Username: "alice", DisplayName: "Alice", AvatarURL: "https://x/a.png"}
	m.authors[2] = repo.AuthorRow{ID: 2}
	m.texts["yt"] = "this one slaps"
	m.media["yt"] = []repo.MediaRow{
		{SubIndex: 0, URL: "https://youtu.be/hTWKbfoikeg"},
		{SubIndex: 1, URL: "https://example.com/not-youtube"},
	}
	m.media["sp"] = []repo.MediaRow{{SubIndex: 0, URL: "https://open.spotify.com/track/4uLU6hMCjMI75M1A2tKUQC?si=x"}}

	out, err := newSvc(t, m).Hydrate(context.Background(), []repo.FactRow{yt, sp, bad, second})
	if err != nil {
		t.Fatalf("err = %v", err)
	}
	if len(out) != 4 {
		t.Fatalf("rows dropped: %d", len(out))
	}

	if out[0].SharedBy.Username != "alice" || out[0].SharedBy.Avatar == "" || out[0].Interaction.Context != "this one slaps" {
		t.Fatalf("youtube track = %+v", out[0])
	}
	if out[0].PlatformID != "hTWKbfoikeg" || out[0].URL != "https://youtu.be/hTWKbfoikeg" {
		t.Fatalf("youtube id = %q url = %q", out[0].PlatformID, out[0].URL)
	}
	if out[1].PlatformID != "4uLU6hMCjMI75M1A2tKUQC" {
		t.Fatalf("spotify id = %q", out[1].PlatformID)
	}
	if out[1].SharedBy.Username != domain.UnknownUsername || out[1].SharedBy.DisplayName != domain.UnknownDisplayName {
		t.Fatalf("blank profile should fall back, got %+v", out[1].SharedBy)
	}

	// no author, no text and no media for this one
	if out[2].SharedBy.Username != "unknown" || out[2].SharedBy.DisplayName != "Unknown User" {
		t.Fatalf("missing author = %+v", out[2].SharedBy)
	}
	if out[2].Interaction.Context != "" || out[2].URL != "" || out[2].PlatformID != "bad" {
		t.Fatalf("missing side rows = %+v", out[2])
	}

	// media is keyed by post and embed index
	if out[3].URL != "https://example.com/not-youtube" || out[3].PlatformID != "yt" {
		t.Fatalf("second embed = %+v", out[3])
	}
	if out[3].ID == out[0].ID {
		t.Fatalf("embeds of one post share an id")
	}
}

func TestHydrate_ChunksLookups(t *testing.T) {
	var rows []repo.FactRow
	for i := range 250 {
		r := row(fmt.Sprintf("p%d", i), i, "x")
		r.AuthorID = int64(i % 230)
		rows = append(rows, r)
	}
	m := newMemRepo(rows...)
	if _, err := newSvc(t, m).Hydrate(context.Background(), rows); err != nil {
		t.Fatalf("err = %v", err)
	}
	// 230 distinct authors in chunks of 100
	if len(m.authorCalls) != 3 {
		t.Fatalf("author lookups = %d", len(m.authorCalls))
	}
	total := 0
	for _, c := range m.authorCalls {
		if len(c) > 100 {
			t.Fatalf("chunk of %d keys exceeds the ceiling", len(c))
		}
		total += len(c)
	}
	if total != 230 {
		t.Fatalf("looked up %d authors, want 230", total)
	}

	m.authorCalls = nil
	if _, err := newSvc(t, m, WithConfig(Config{LookupChunk: 50})).Hydrate(context.Background(), rows); err != nil {
		t.Fatalf("err = %v", err)
	}
	if len(m.authorCalls) != 5 {
		t.Fatalf("author lookups with chunk 50 = %d", len(m.authorCalls))
	}
}

func TestHydrate_Empty(t *testing.T) {
	out, err := newSvc(t, newMemRepo()).Hydrate(context.Background(), nil)
	if err != nil || out == nil || len(out) != 0 {
		t.Fatalf("out = %v err = %v", out, err)
	}
}
