package service

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"mixtape/internal/core/pagecursor"
	"mixtape/internal/services/api/library/domain"
	"mixtape/internal/services/api/library/repo"
)

// pageDB trims an over fetched storage page and mints the keyset cursor of its last row
func pageDB(rows []repo.FactRow, limit int) (page []repo.FactRow, hasMore bool, next string) {
	if len(rows) > limit {
		rows, hasMore = rows[:limit], true
	}
	if hasMore && len(rows) > 0 {
		last := rows[len(rows)-1]
		next = pagecursor.EncodeDB(pagecursor.DB{
			CreatedAt: last.CreatedAt,
			FactRowID: last.ID,
			SubIndex:  last.SubIndex,
		})
	}
	return rows, hasMore, next
}

// sortItems orders the whole set by key, desc flips the sign of the whole comparison
// ties fall back to creation time then id so the order is total
func sortItems(items []item, key domain.SortKey, desc bool) {
	var col *collate.Collator
	if key == domain.SortArtist || key == domain.SortTitle {
		// a collator is not safe for concurrent use, one per call
		col = collate.New(language.English, collate.Loose)
	}
	primary := func(a, b *domain.Track) int {
		switch key {
		case domain.SortArtist:
			return col.CompareString(a.Artist, b.Artist)
		case domain.SortTitle:
			return col.CompareString(a.Title, b.Title)
		case domain.SortLikes:
			return cmp.Compare(a.SocialStats.Likes, b.SocialStats.Likes)
		case domain.SortReplies:
			return cmp.Compare(a.SocialStats.Replies, b.SocialStats.Replies)
		case domain.SortRecasts:
			return cmp.Compare(a.SocialStats.Recasts, b.SocialStats.Recasts)
		}
		return 0
	}
	slices.SortStableFunc(items, func(x, y item) int {
		a, b := &x.track, &y.track
		c := primary(a, b)
		if c == 0 {
			c = a.CreatedAt.Compare(b.CreatedAt)
		}
		if c == 0 {
			c = strings.Compare(a.ID, b.ID)
		}
		if desc {
			return -c
		}
		return c
	})
}

// pageGlobal slices one page out of a sorted set, resuming right after the cursor track
// stale reports a cursor whose track is no longer in the set, the page then starts at 0
func pageGlobal(items []item, cur *pagecursor.Global, limit int) (page []item, hasMore bool, next string, stale bool) {
	start := 0
	if cur != nil {
		stale = true
		for i := range items {
			if items[i].track.ID == cur.TrackID {
				start, stale = i+1, false
				break
			}
		}
	}
	end := min(start+limit, len(items))
	page = items[start:end]
	hasMore = end < len(items)
	if hasMore && len(page) > 0 {
		last := page[len(page)-1].track
		next = pagecursor.EncodeGlobal(pagecursor.Global{TrackID: last.ID, CreatedAt: last.CreatedAt})
	}
	return page, hasMore, next, stale
}
