package service

import (
	"cmp"
	"slices"
	"strings"

	"mixtape/internal/services/api/library/domain"
	"mixtape/internal/services/api/library/repo"
)

// Aggregate builds artist and genre frequency tables over raw fact rows
// rows without an artist are skipped before any display sentinel is applied
// each table is sorted by count desc then name asc
func Aggregate(rows []repo.FactRow) (artists, genres []domain.Bucket) {
	byArtist := make(map[string]int)
	byTag := make(map[string]int)
	for i := range rows {
		t := &rows[i]
		if a := strings.TrimSpace(t.Artist); a != "" {
			byArtist[a]++
		}
		// a tag repeated on one track still counts that track once
		seen := make(map[string]struct{}, len(t.Tags))
		for _, tag := range t.Tags {
			tag = strings.TrimSpace(tag)
			if tag == "" {
				continue
			}
			if _, dup := seen[tag]; dup {
				continue
			}
			seen[tag] = struct{}{}
			byTag[tag]++
		}
	}
	return buckets(byArtist), buckets(byTag)
}

func buckets(counts map[string]int) []domain.Bucket {
	out := make([]domain.Bucket, 0, len(counts))
	for name, n := range counts {
		out = append(out, domain.Bucket{Name: name, Count: n})
	}
	slices.SortFunc(out, func(a, b domain.Bucket) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
	return out
}
