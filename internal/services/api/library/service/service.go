// Package service contains the library query workflows
package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"mixtape/internal/core/batch"
	"mixtape/internal/modkit/repokit"
	perr "mixtape/internal/platform/errors"
	"mixtape/internal/platform/logger"
	pnet "mixtape/internal/platform/net"
	"mixtape/internal/services/api/library/domain"
	"mixtape/internal/services/api/library/repo"
	"mixtape/internal/services/querylog"
)

// Service defines the service contract for the library
type Service interface{ domain.ServicePort }

// Config holds the library knobs
type Config struct {
	DefaultLimit   int           // page size when the caller sends none
	MaxLimit       int           // hard ceiling on page size
	LookupChunk    int           // keys per side lookup round trip
	TotalThreshold int           // total is reported only below this
	Timeout        time.Duration // per request deadline, zero disables
	StrictCursors  bool          // stale global cursors fail with STALE_CURSOR instead of restarting
}

// DefaultConfig returns the production defaults
func DefaultConfig() Config {
	return Config{
		DefaultLimit:   50,
		MaxLimit:       250,
		LookupChunk:    batch.DefaultChunk,
		TotalThreshold: 50,
		Timeout:        10 * time.Second,
	}
}

// Option customizes a Svc
type Option func(*Svc)

// WithConfig replaces the config, zero fields keep their defaults
func WithConfig(c Config) Option {
	return func(s *Svc) {
		d := DefaultConfig()
		if c.DefaultLimit <= 0 {
			c.DefaultLimit = d.DefaultLimit
		}
		if c.MaxLimit <= 0 {
			c.MaxLimit = d.MaxLimit
		}
		if c.DefaultLimit > c.MaxLimit {
			c.DefaultLimit = c.MaxLimit
		}
		if c.LookupChunk <= 0 {
			c.LookupChunk = d.LookupChunk
		}
		if c.TotalThreshold <= 0 {
			c.TotalThreshold = d.TotalThreshold
		}
		s.cfg = c
	}
}

// WithSink sets the query telemetry sink
func WithSink(sink querylog.Sink) Option {
	return func(s *Svc) {
		if sink != nil {
			s.sink = sink
		}
	}
}

// WithClock overrides the time source, used by tests
func WithClock(now func() time.Time) Option {
	return func(s *Svc) {
		if now != nil {
			s.now = now
		}
	}
}

// Svc implements the Service interface
// lookups run concurrently on the pool so the repo is never bound to a transaction
type Svc struct {
	Repo repo.Repo

	cfg  Config
	sink querylog.Sink
	now  func() time.Time
}

// New creates a new library service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], opts ...Option) *Svc {
	if db == nil {
		panic("library.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("library.Service requires a non nil Repo binder")
	}
	s := &Svc{
		Repo: repokit.MustBind(binder, repokit.Queryer(db)),
		cfg:  DefaultConfig(),
		sink: querylog.Nop{},
		now:  time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Config returns the effective config
func (s *Svc) Config() Config { return s.cfg }

// Library returns one page of tracks for in
func (s *Svc) Library(ctx context.Context, in domain.LibraryInput) (domain.LibraryPage, error) {
	start := s.now()
	ctx, cancel := s.deadline(ctx)
	defer cancel()

	ev := querylog.NewEvent(querylog.OpLibrary, pnet.RequestID(ctx))
	out, plan, err := s.library(ctx, in)
	err = s.classify(ctx, err)

	elapsed := s.now().Sub(start)
	out.Meta = domain.Meta{QueryTimeMs: elapsed.Milliseconds()}

	ev.Mode, ev.Empty, ev.Elapsed = string(plan.Mode), plan.Empty, elapsed
	ev.Filters = filtersJSON(plan.Applied)
	ev.Returned, ev.HasMore = len(out.Tracks), out.Pagination.HasMore
	if err != nil {
		ev.Code = perr.CodeOf(err).String()
	}
	s.sink.Record(ctx, ev)

	if err != nil {
		return domain.LibraryPage{}, err
	}
	return out, nil
}

func (s *Svc) library(ctx context.Context, in domain.LibraryInput) (domain.LibraryPage, Plan, error) {
	plan, err := s.Compile(ctx, in, s.now())
	if err != nil {
		return domain.LibraryPage{}, plan, err
	}
	out := domain.LibraryPage{Tracks: []domain.Track{}, AppliedFilters: plan.Applied}

	if plan.Empty {
		zero := 0
		out.Pagination.Total = &zero
		return out, plan, nil
	}

	rows, err := s.Repo.FetchRows(ctx, plan.Query)
	if err != nil {
		return out, plan, err
	}

	switch plan.Mode {
	case ModeGlobal:
		return s.globalPage(ctx, plan, rows, out)
	default:
		page, hasMore, next := pageDB(rows, plan.Limit)
		tracks, err := s.Hydrate(ctx, page)
		if err != nil {
			return out, plan, err
		}
		out.Tracks = tracks
		out.Pagination = domain.Pagination{HasMore: hasMore, NextCursor: next}
		// the whole set is known only on a first page with nothing after it
		if plan.Query.After == nil && !hasMore && len(tracks) < s.cfg.TotalThreshold {
			n := len(tracks)
			out.Pagination.Total = &n
		}
		return out, plan, nil
	}
}

func (s *Svc) globalPage(ctx context.Context, plan Plan, rows []repo.FactRow, out domain.LibraryPage) (domain.LibraryPage, Plan, error) {
	items := skeletons(rows)
	sortItems(items, plan.Sort, plan.Desc)

	page, hasMore, next, stale := pageGlobal(items, plan.Global, plan.Limit)
	if stale {
		if s.cfg.StrictCursors {
			return out, plan, perr.WithField(perr.StaleCursorf("cursor no longer matches the result set"), "cursor")
		}
		logger.C(ctx).Warn().Str("track_id", plan.Global.TrackID).Msg("library: cursor track not in result set, restarting at first page")
	}

	pageRows := make([]repo.FactRow, len(page))
	for i, it := range page {
		pageRows[i] = it.row
	}
	tracks, err := s.Hydrate(ctx, pageRows)
	if err != nil {
		return out, plan, err
	}
	out.Tracks = tracks
	out.Pagination = domain.Pagination{HasMore: hasMore, NextCursor: next}
	if len(items) < s.cfg.TotalThreshold {
		n := len(items)
		out.Pagination.Total = &n
	}
	return out, plan, nil
}

// Aggregations returns artist and genre frequency tables over the whole filtered set
func (s *Svc) Aggregations(ctx context.Context, in domain.LibraryInput) (domain.Aggregations, error) {
	start := s.now()
	ctx, cancel := s.deadline(ctx)
	defer cancel()

	ev := querylog.NewEvent(querylog.OpAggregations, pnet.RequestID(ctx))
	out, plan, err := s.aggregations(ctx, in)
	err = s.classify(ctx, err)

	elapsed := s.now().Sub(start)
	out.Meta = domain.Meta{QueryTimeMs: elapsed.Milliseconds()}

	ev.Mode, ev.Empty, ev.Elapsed = string(plan.Mode), plan.Empty, elapsed
	ev.Filters = filtersJSON(plan.Applied)
	ev.Returned = out.TotalTracks
	if err != nil {
		ev.Code = perr.CodeOf(err).String()
	}
	s.sink.Record(ctx, ev)

	if err != nil {
		return domain.Aggregations{}, err
	}
	return out, nil
}

func (s *Svc) aggregations(ctx context.Context, in domain.LibraryInput) (domain.Aggregations, Plan, error) {
	// pagination never applies to a frequency table
	in.Cursor = ""
	plan, err := s.Compile(ctx, in, s.now())
	if err != nil {
		return domain.Aggregations{}, plan, err
	}
	plan = plan.FullDataset()
	out := domain.Aggregations{Artists: []domain.Bucket{}, Genres: []domain.Bucket{}, AppliedFilters: plan.Applied}
	if plan.Empty {
		return out, plan, nil
	}

	rows, err := s.Repo.FetchRows(ctx, plan.Query)
	if err != nil {
		return out, plan, err
	}
	out.Artists, out.Genres = Aggregate(rows)
	out.TotalTracks = len(rows)
	return out, plan, nil
}

func (s *Svc) deadline(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.cfg.Timeout)
}

// classify reports a blown request deadline as TIMEOUT and an abandoned request as CANCELED
// whatever layer noticed it first
func (s *Svc) classify(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		logger.C(ctx).Warn().Err(err).Dur("timeout", s.cfg.Timeout).Msg("library: request deadline exceeded")
		return perr.Wrap(err, perr.ErrorCodeTimeout, "library query timed out")
	case errors.Is(ctx.Err(), context.Canceled):
		logger.C(ctx).Debug().Err(err).Msg("library: request canceled by client")
		return perr.Wrap(err, perr.ErrorCodeCanceled, "library query canceled")
	}
	if _, ok := perr.As(err); !ok {
		logger.C(ctx).Error().Err(err).Msg("library: unclassified error")
		return err
	}
	if perr.IsCode(err, perr.ErrorCodeQueryFailed) {
		logger.C(ctx).Error().Err(err).Str("sqlstate", perr.SQLState(err)).Msg("library: backend query failed")
	}
	return err
}

func filtersJSON(f domain.AppliedFilters) string {
	b, err := json.Marshal(f)
	if err != nil {
		return ""
	}
	return string(b)
}
