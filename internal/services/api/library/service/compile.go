package service

import (
	"context"
	"strings"
	"time"

	"mixtape/internal/core/normalize"
	"mixtape/internal/core/pagecursor"
	perr "mixtape/internal/platform/errors"
	"mixtape/internal/platform/logger"
	ptime "mixtape/internal/platform/time"
	"mixtape/internal/services/api/library/domain"
	"mixtape/internal/services/api/library/repo"
)

// Mode is the pagination strategy a plan runs under
type Mode string

const (
	// ModeDB lets storage order and cut the page with a keyset
	ModeDB Mode = "db"
	// ModeGlobal sorts the whole filtered set in memory before slicing
	ModeGlobal Mode = "global"
	// ModeFull skips pagination, used by aggregations
	ModeFull Mode = "full"
)

// Plan is a fully resolved library query
type Plan struct {
	Mode    Mode
	Empty   bool // author filter resolved to nobody, no rows are fetched
	Sort    domain.SortKey
	Desc    bool
	Limit   int
	Query   repo.RowQuery
	Global  *pagecursor.Global // resume marker in ModeGlobal
	Applied domain.AppliedFilters
}

// FullDataset drops pagination from p
func (p Plan) FullDataset() Plan {
	p.Mode = ModeFull
	p.Global = nil
	p.Query.After = nil
	p.Query.Limit = 0
	return p
}

// Compile resolves in against defaults and now into a Plan
// a cursor that fails to decode is logged and dropped, it never fails the request
func (s *Svc) Compile(ctx context.Context, in domain.LibraryInput, now time.Time) (Plan, error) {
	var p Plan
	a := &p.Applied

	a.SortBy = domain.ParseSortKey(in.SortBy)
	if in.SortBy != "" && string(a.SortBy) != strings.ToLower(strings.TrimSpace(in.SortBy)) {
		logger.C(ctx).Debug().Str("sort_by", in.SortBy).Msg("library: unknown sort column, using timestamp")
	}
	p.Sort = a.SortBy

	switch dir := strings.ToLower(strings.TrimSpace(in.SortDirection)); dir {
	case "", "desc":
		a.SortDirection, p.Desc = "desc", true
	case "asc":
		a.SortDirection = "asc"
	default:
		return p, perr.WithField(perr.InvalidInputf("sortDirection must be asc or desc"), "sortDirection")
	}

	p.Limit = in.Limit
	if p.Limit < 1 {
		p.Limit = s.cfg.DefaultLimit
	}
	p.Limit = min(p.Limit, s.cfg.MaxLimit)
	a.Limit = p.Limit

	rng := domain.DateRange(strings.ToLower(strings.TrimSpace(in.DateRange)))
	switch rng {
	case "":
		rng = domain.RangeAll
	case domain.RangeAll, domain.RangeToday, domain.RangeWeek, domain.RangeMonth:
	default:
		return p, perr.WithField(perr.InvalidInputf("dateRange must be one of all today week month"), "dateRange")
	}
	a.DateRange = string(rng)

	q := &p.Query
	if floor, ok := rng.Floor(now); ok {
		q.Since = ptime.Ptr(floor)
	}
	if in.After != "" {
		t, ok := ptime.ParseISO(in.After)
		if !ok {
			return p, perr.WithField(perr.InvalidInputf("after must be an ISO date"), "after")
		}
		// both lower bounds hold, so the later one wins
		if q.Since == nil || t.After(*q.Since) {
			q.Since = ptime.Ptr(t)
		}
		a.After = in.After
	}
	if in.Before != "" {
		t, ok := ptime.ParseISO(in.Before)
		if !ok {
			return p, perr.WithField(perr.InvalidInputf("before must be an ISO date"), "before")
		}
		q.Until = ptime.Ptr(t)
		a.Before = in.Before
	}

	if in.MinEngagement < 0 {
		return p, perr.WithField(perr.InvalidInputf("minEngagement must not be negative"), "minEngagement")
	}
	q.MinEngagement = in.MinEngagement
	a.MinEngagement = in.MinEngagement

	sources, err := compileSources(in.Sources)
	if err != nil {
		return p, err
	}
	q.Platforms, a.Sources = sources, sources

	if term := normalize.Term(in.Search); term != "" {
		q.SearchPattern = "%" + escapeLike(term) + "%"
		a.Search = term
	}

	q.Tags = normalize.Tags(in.Tags)
	a.Tags = q.Tags

	p.Mode = ModeDB
	// only creation time has a storage keyset, every other column needs the whole set
	if in.GlobalSort || p.Sort != domain.SortTimestamp {
		p.Mode = ModeGlobal
	}
	a.GlobalSort = p.Mode == ModeGlobal
	q.Asc = !p.Desc
	if p.Mode == ModeDB {
		q.Limit = p.Limit
	}

	if in.Cursor != "" {
		s.compileCursor(ctx, &p, in.Cursor)
	}

	if users := normalize.Names(in.Users); len(users) > 0 {
		a.Users = users
		ids, err := s.Repo.ResolveAuthors(ctx, users)
		if err != nil {
			return p, err
		}
		if len(ids) == 0 {
			p.Empty = true
			return p, nil
		}
		q.AuthorIDs = ids
	}
	return p, nil
}

func (s *Svc) compileCursor(ctx context.Context, p *Plan, raw string) {
	if p.Mode == ModeGlobal {
		c, err := pagecursor.DecodeGlobal(raw)
		if err != nil {
			ignoreCursor(ctx, p.Mode, raw, err)
			return
		}
		p.Global = &c
		return
	}
	c, err := pagecursor.DecodeDB(raw)
	if err != nil {
		ignoreCursor(ctx, p.Mode, raw, err)
		return
	}
	p.Query.After = &repo.Keyset{CreatedAt: c.CreatedAt, ID: c.FactRowID, SubIndex: c.SubIndex}
}

// ignoreCursor logs a cursor that restarts the scan, with the kind it was minted for when readable
func ignoreCursor(ctx context.Context, mode Mode, raw string, err error) {
	ev := logger.C(ctx).Warn().Err(err).Str("mode", string(mode))
	if kind, peekErr := pagecursor.Peek(raw); peekErr == nil {
		ev = ev.Str("cursor_kind", string(kind))
	}
	ev.Msg("library: ignoring cursor")
}

func compileSources(in []string) ([]string, error) {
	if len(in) == 0 {
		return nil, nil
	}
	seen := make(map[domain.Platform]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, raw := range in {
		v := strings.ToLower(strings.TrimSpace(raw))
		if v == "" {
			continue
		}
		p := domain.ParsePlatform(v)
		if string(p) != v {
			return nil, perr.WithField(perr.InvalidInputf("unknown source %q", raw), "sources")
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside an ILIKE pattern
func escapeLike(s string) string { return likeEscaper.Replace(s) }
