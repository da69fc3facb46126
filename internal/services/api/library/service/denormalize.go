package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"mixtape/internal/core/batch"
	"mixtape/internal/core/mediaurl"
	"mixtape/internal/platform/logger"
	"mixtape/internal/services/api/library/domain"
	"mixtape/internal/services/api/library/repo"
)

// trackNamespace scopes track ids so they never collide with other name based uuids
var trackNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("mixtape:track"))

// TrackID derives the stable id of the media at sub within post
func TrackID(postID string, sub int) string {
	return uuid.NewSHA1(trackNamespace, []byte(postID+":"+strconv.Itoa(sub))).String()
}

// item pairs a fact row with its track so a sorted page can be hydrated later
type item struct {
	row   repo.FactRow
	track domain.Track
}

// Skeleton maps a fact row onto a track without any side lookups
func Skeleton(r repo.FactRow) domain.Track {
	artist := strings.TrimSpace(r.Artist)
	if artist == "" {
		artist = domain.UnknownArtist
	}
	tags := r.Tags
	if tags == nil {
		tags = []string{}
	}
	created := r.CreatedAt.UTC()
	return domain.Track{
		ID:          TrackID(r.ID, r.SubIndex),
		Title:       strings.TrimSpace(r.Title),
		Artist:      artist,
		Platform:    domain.ParsePlatform(r.Platform),
		PlatformID:  r.ID,
		Tags:        tags,
		CreatedAt:   created,
		Interaction: domain.Interaction{Type: domain.InteractionShare, Timestamp: created},
		SharedBy:    domain.Author{Username: domain.UnknownUsername, DisplayName: domain.UnknownDisplayName},
	}
}

func skeletons(rows []repo.FactRow) []item {
	out := make([]item, len(rows))
	for i, r := range rows {
		out[i] = item{row: r, track: Skeleton(r)}
	}
	return out
}

type mediaKey struct {
	post string
	sub  int
}

// Hydrate builds full tracks for rows, side lookups run concurrently in bounded chunks
// a missing author, post or embed degrades to sentinels and never drops the row
func (s *Svc) Hydrate(ctx context.Context, rows []repo.FactRow) ([]domain.Track, error) {
	if len(rows) == 0 {
		return []domain.Track{}, nil
	}
	authorIDs := make([]int64, len(rows))
	postIDs := make([]string, len(rows))
	for i, r := range rows {
		authorIDs[i] = r.AuthorID
		postIDs[i] = r.ID
	}

	var (
		authors map[int64]repo.AuthorRow
		texts   map[string]string
		embeds  map[string][]repo.MediaRow
	)
	chunk := s.cfg.LookupChunk
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		authors, err = batch.Lookup(gctx, authorIDs, chunk, s.Repo.AuthorsByID)
		return err
	})
	g.Go(func() (err error) {
		texts, err = batch.Lookup(gctx, postIDs, chunk, s.Repo.PostTextByID)
		return err
	})
	g.Go(func() (err error) {
		embeds, err = batch.Lookup(gctx, postIDs, chunk, s.Repo.MediaByPostID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	media := make(map[mediaKey]string, len(rows))
	for post, list := range embeds {
		for _, m := range list {
			media[mediaKey{post, m.SubIndex}] = m.URL
		}
	}

	var missAuthor, missText, missMedia int
	out := make([]domain.Track, len(rows))
	for i, r := range rows {
		t := Skeleton(r)
		if a, ok := authors[r.AuthorID]; ok {
			t.SharedBy = author(a)
		} else {
			missAuthor++
		}
		if body, ok := texts[r.ID]; ok {
			t.Interaction.Context = body
		} else {
			missText++
		}
		if u, ok := media[mediaKey{r.ID, r.SubIndex}]; ok {
			t.URL = u
		} else {
			missMedia++
		}
		t.PlatformID = platformID(t.Platform, t.URL, r.ID)
		out[i] = t
	}
	if missAuthor+missText+missMedia > 0 {
		logger.C(ctx).Debug().
			Int("rows", len(rows)).
			Int("missing_authors", missAuthor).
			Int("missing_texts", missText).
			Int("missing_media", missMedia).
			Msg("library: side lookups incomplete")
	}
	return out, nil
}

func author(a repo.AuthorRow) domain.Author {
	out := domain.Author{
		Username:    strings.TrimSpace(a.Username),
		DisplayName: strings.TrimSpace(a.DisplayName),
		Avatar:      a.AvatarURL,
	}
	if out.Username == "" {
		out.Username = domain.UnknownUsername
	}
	if out.DisplayName == "" {
		out.DisplayName = domain.UnknownDisplayName
	}
	return out
}

// platformID extracts the native media id from url, falling back to the fact row id
func platformID(p domain.Platform, url, fallback string) string {
	var (
		id string
		ok bool
	)
	switch p {
	case domain.PlatformYouTube:
		id, ok = mediaurl.YouTube(url)
	case domain.PlatformSpotify:
		id, ok = mediaurl.Spotify(url)
	}
	if !ok {
		return fallback
	}
	return id
}
