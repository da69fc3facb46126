// Package repo provides postgres access for the library
package repo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"mixtape/internal/modkit/repokit"
	perr "mixtape/internal/platform/errors"
	"mixtape/internal/platform/store"
)

// Repo is the persistence surface the library engine needs
type Repo interface {
	// ResolveAuthors maps usernames to author ids, unknown names are dropped
	ResolveAuthors(ctx context.Context, usernames []string) ([]int64, error)
	// FetchRows returns fact rows ordered by (created_at, post_hash, embed_index)
	FetchRows(ctx context.Context, q RowQuery) ([]FactRow, error)

	// AuthorsByID looks up author summaries for one chunk of ids
	AuthorsByID(ctx context.Context, ids []int64) (map[int64]AuthorRow, error)
	// PostTextByID looks up the body of the originating posts for one chunk of ids
	PostTextByID(ctx context.Context, ids []string) (map[string]string, error)
	// MediaByPostID looks up every embedded media url for one chunk of post ids
	MediaByPostID(ctx context.Context, ids []string) (map[string][]MediaRow, error)
}

// FactRow links one post to one piece of shared media
type FactRow struct {
	ID         string // post hash
	SubIndex   int    // embed position within the post
	AuthorID   int64
	Title      string
	Artist     string
	Platform   string
	Tags       []string
	Engagement int
	CreatedAt  time.Time
}

// AuthorRow is an author profile record
type AuthorRow struct {
	ID          int64
	Username    string
	DisplayName string
	AvatarURL   string
}

// MediaRow is one embed of a post
type MediaRow struct {
	SubIndex int
	URL      string
}

// Keyset is the last row seen by a storage ordered scan
type Keyset struct {
	CreatedAt time.Time
	ID        string
	SubIndex  int
}

// RowQuery is a compiled plan reduced to the predicates the fact table understands
// zero values mean the predicate is absent
type RowQuery struct {
	AuthorIDs     []int64
	Platforms     []string
	SearchPattern string // ILIKE pattern with metacharacters already escaped
	Tags          []string // lowered, matched any-of against lowered stored tags
	MinEngagement int
	Since         *time.Time // inclusive
	Until         *time.Time // exclusive
	Asc           bool
	After         *Keyset
	Limit         int // 0 fetches the whole filtered set
}

type (
	// PG is a binder that can bind the repo to a Queryer or TxRunner
	PG struct{}
	// queries implements the Repo interface
	queries struct{ q repokit.Queryer }
)

// NewPG returns a binder that can bind the repo to a Queryer or TxRunner
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind wires a Queryer to the repo
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

// direction is picked from a fixed table so no caller text reaches ORDER BY
var directions = map[bool]struct{ cmp, order string }{
	false: {cmp: "<", order: "DESC"},
	true:  {cmp: ">", order: "ASC"},
}

func (r *queries) ResolveAuthors(ctx context.Context, usernames []string) ([]int64, error) {
	if len(usernames) == 0 {
		return nil, nil
	}
	const sql = `
SELECT fid
FROM profiles
WHERE lower(username) = ANY($1::text[])
ORDER BY fid
`
	ids, err := store.Many(ctx, r.q, func(row store.Row) (int64, error) {
		var id int64
		err := row.Scan(&id)
		return id, err
	}, sql, usernames)
	if err != nil {
		return nil, queryFailed(err, "resolve authors")
	}
	return ids, nil
}

// buildFetch renders the fact row query for q
// predicates are appended only when set and every value travels as a bind parameter
func buildFetch(q RowQuery) (string, []any) {
	var sb strings.Builder
	var args []any
	arg := func(v any) string { args = append(args, v); return fmt.Sprintf("$%d", len(args)) }
	dir := directions[q.Asc]

	sb.WriteString(`
SELECT f.post_hash, f.embed_index, f.author_fid, coalesce(f.title, ''), coalesce(f.artist, ''),
	f.platform, coalesce(f.tags, '{}'::text[]), f.engagement, f.created_at
FROM library_shares f
WHERE true
`)
	if len(q.AuthorIDs) > 0 {
		sb.WriteString("  AND f.author_fid = ANY(" + arg(q.AuthorIDs) + "::bigint[])\n")
	}
	if len(q.Platforms) > 0 {
		sb.WriteString("  AND f.platform = ANY(" + arg(q.Platforms) + "::text[])\n")
	}
	if q.SearchPattern != "" {
		p := arg(q.SearchPattern)
		sb.WriteString("  AND (f.title ILIKE " + p + " ESCAPE '\\' OR f.artist ILIKE " + p + " ESCAPE '\\')\n")
	}
	if len(q.Tags) > 0 {
		// callers send lowered tags, the stored spelling is lowered here so either case matches
		sb.WriteString("  AND EXISTS (SELECT 1 FROM unnest(f.tags) AS t(tag) WHERE lower(t.tag) = ANY(" + arg(q.Tags) + "::text[]))\n")
	}
	if q.MinEngagement > 0 {
		sb.WriteString("  AND f.engagement >= " + arg(q.MinEngagement) + "\n")
	}
	if q.Since != nil {
		sb.WriteString("  AND f.created_at >= " + arg(*q.Since) + "\n")
	}
	if q.Until != nil {
		sb.WriteString("  AND f.created_at < " + arg(*q.Until) + "\n")
	}
	// keyset only in page mode, a full scan never resumes
	if q.After != nil && q.Limit > 0 {
		sb.WriteString("  AND (f.created_at, f.post_hash, f.embed_index) " + dir.cmp + " (" +
			arg(q.After.CreatedAt) + ", " + arg(q.After.ID) + ", " + arg(q.After.SubIndex) + ")\n")
	}
	fmt.Fprintf(&sb, "ORDER BY f.created_at %[1]s, f.post_hash %[1]s, f.embed_index %[1]s\n", dir.order)
	if q.Limit > 0 {
		// over fetch by one so the caller can tell whether another page exists
		sb.WriteString("LIMIT " + arg(q.Limit+1) + "\n")
	}
	return sb.String(), args
}

func (r *queries) FetchRows(ctx context.Context, q RowQuery) ([]FactRow, error) {
	sql, args := buildFetch(q)
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, queryFailed(err, "fetch library rows")
	}
	defer rows.Close()

	capHint := q.Limit + 1
	if q.Limit <= 0 {
		capHint = 64
	}
	out := make([]FactRow, 0, capHint)
	for rows.Next() {
		var fr FactRow
		if err := rows.Scan(
			&fr.ID, &fr.SubIndex, &fr.AuthorID, &fr.Title, &fr.Artist,
			&fr.Platform, &fr.Tags, &fr.Engagement, &fr.CreatedAt,
		); err != nil {
			return nil, queryFailed(err, "scan library row")
		}
		out = append(out, fr)
	}
	if err := rows.Err(); err != nil {
		return nil, queryFailed(err, "iterate library rows")
	}
	return out, nil
}

func (r *queries) AuthorsByID(ctx context.Context, ids []int64) (map[int64]AuthorRow, error) {
	const sql = `
SELECT fid, coalesce(username, ''), coalesce(display_name, ''), coalesce(avatar_url, '')
FROM profiles
WHERE fid = ANY($1::bigint[])
`
	out, err := store.Index(ctx, r.q, func(row store.Row) (AuthorRow, error) {
		var a AuthorRow
		err := row.Scan(&a.ID, &a.Username, &a.DisplayName, &a.AvatarURL)
		return a, err
	}, func(a AuthorRow) int64 { return a.ID }, sql, ids)
	if err != nil {
		return nil, queryFailed(err, "lookup authors")
	}
	return out, nil
}

func (r *queries) PostTextByID(ctx context.Context, ids []string) (map[string]string, error) {
	const sql = `
SELECT hash, coalesce(text, '')
FROM posts
WHERE hash = ANY($1::text[])
`
	type post struct{ id, body string }
	posts, err := store.Many(ctx, r.q, func(row store.Row) (post, error) {
		var p post
		err := row.Scan(&p.id, &p.body)
		return p, err
	}, sql, ids)
	if err != nil {
		return nil, queryFailed(err, "lookup post text")
	}
	out := make(map[string]string, len(posts))
	for _, p := range posts {
		out[p.id] = p.body
	}
	return out, nil
}

func (r *queries) MediaByPostID(ctx context.Context, ids []string) (map[string][]MediaRow, error) {
	const sql = `
SELECT post_hash, embed_index, url
FROM post_embeds
WHERE post_hash = ANY($1::text[])
ORDER BY post_hash, embed_index
`
	type embed struct {
		id string
		m  MediaRow
	}
	embeds, err := store.Many(ctx, r.q, func(row store.Row) (embed, error) {
		var e embed
		err := row.Scan(&e.id, &e.m.SubIndex, &e.m.URL)
		return e, err
	}, sql, ids)
	if err != nil {
		return nil, queryFailed(err, "lookup media")
	}
	out := make(map[string][]MediaRow, len(ids))
	for _, e := range embeds {
		out[e.id] = append(out[e.id], e.m)
	}
	return out, nil
}

// queryFailed folds any backend failure into QUERY_FAILED, the cause stays wrapped for logs
func queryFailed(err error, msg string) error {
	return perr.Wrap(err, perr.ErrorCodeQueryFailed, msg)
}
