// Package http provides http transport for the library
package http

import (
	stdhttp "net/http"
	"net/url"

	"mixtape/internal/modkit/httpkit"
	"mixtape/internal/services/api/library/domain"
	svc "mixtape/internal/services/api/library/service"
)

// Register mounts library endpoints on the given router
// GET and POST accept the same filter and normalize to one LibraryInput
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.Get(r, "/", h.libraryQuery)
	httpkit.PostJSON[domain.LibraryInput](r, "/", h.library)
	httpkit.Get(r, "/aggregations", h.aggregationsQuery)
	httpkit.PostJSON[domain.LibraryInput](r, "/aggregations", h.aggregations)
}

type handlers struct{ svc svc.Service }

// FromQuery builds a LibraryInput from GET params and validates it
// list params may be comma separated or repeated with a [] suffix
func FromQuery(q url.Values) (domain.LibraryInput, error) {
	in := domain.LibraryInput{
		Users:         httpkit.QueryStrings(q, "users"),
		Sources:       httpkit.QueryStrings(q, "sources"),
		Tags:          httpkit.QueryStrings(q, "tags"),
		Search:        q.Get("search"),
		DateRange:     q.Get("dateRange"),
		After:         q.Get("after"),
		Before:        q.Get("before"),
		SortBy:        q.Get("sortBy"),
		SortDirection: q.Get("sortDirection"),
		Cursor:        q.Get("cursor"),
	}
	var err error
	if in.MinEngagement, err = httpkit.QueryInt(q, "minEngagement"); err != nil {
		return in, err
	}
	if in.Limit, err = httpkit.QueryInt(q, "limit"); err != nil {
		return in, err
	}
	if in.GlobalSort, err = httpkit.QueryBool(q, "globalSort"); err != nil {
		return in, err
	}
	if err := httpkit.Validate(in); err != nil {
		return in, err
	}
	return in, nil
}

// swagger:route GET /library Library libraryQuery
// @Summary Page through the shared track library
// @Description Lists are comma separated or repeated as users[]. A cursor from a previous page resumes after its last track; a malformed cursor restarts at the first page.
// @Tags Library
// @Produce json
// @Param users query string false "author usernames"
// @Param sources query string false "platforms" Enums(youtube, spotify, soundcloud, apple_music, tidal, bandcamp, other)
// @Param search query string false "substring of title or artist"
// @Param tags query string false "genre tags, any of"
// @Param minEngagement query int false "minimum engagement"
// @Param dateRange query string false "relative window" Enums(all, today, week, month)
// @Param after query string false "inclusive lower bound, 2006-01-02 or RFC3339"
// @Param before query string false "exclusive upper bound, 2006-01-02 or RFC3339"
// @Param sortBy query string false "sort column" Enums(timestamp, likes, replies, recasts, artist, title)
// @Param sortDirection query string false "sort direction" Enums(asc, desc)
// @Param limit query int false "page size, clamped to 250"
// @Param cursor query string false "nextCursor of the previous page"
// @Param globalSort query bool false "sort the whole set before paginating"
// @Success 200 {object} domain.LibraryPage "ok"
// @Failure 400 {object} httpkit.Envelope "invalid input"
// @Failure 502 {object} httpkit.Envelope "query failed"
// @Router /library [get]
func (h *handlers) libraryQuery(r *stdhttp.Request) (any, error) {
	in, err := FromQuery(r.URL.Query())
	if err != nil {
		return nil, err
	}
	return h.svc.Library(r.Context(), in)
}

// swagger:route POST /library Library libraryBody
// @Summary Page through the shared track library with a JSON filter
// @Tags Library
// @Accept json
// @Produce json
// @Param payload body domain.LibraryInput true "Filter"
// @Success 200 {object} domain.LibraryPage "ok"
// @Failure 400 {object} httpkit.Envelope "invalid input"
// @Failure 502 {object} httpkit.Envelope "query failed"
// @Router /library [post]
func (h *handlers) library(r *stdhttp.Request, in domain.LibraryInput) (any, error) {
	return h.svc.Library(r.Context(), in)
}

// swagger:route GET /library/aggregations Library libraryAggregationsQuery
// @Summary Artist and genre counts over the whole filtered library
// @Description Accepts the same filter params as GET /library. sortBy, sortDirection, globalSort, limit and cursor are validated and otherwise ignored.
// @Tags Library
// @Produce json
// @Param users query string false "author usernames"
// @Param sources query string false "platforms" Enums(youtube, spotify, soundcloud, apple_music, tidal, bandcamp, other)
// @Param search query string false "substring of title or artist"
// @Param tags query string false "genre tags, any of"
// @Param minEngagement query int false "minimum engagement"
// @Param dateRange query string false "relative window" Enums(all, today, week, month)
// @Param after query string false "inclusive lower bound, 2006-01-02 or RFC3339"
// @Param before query string false "exclusive upper bound, 2006-01-02 or RFC3339"
// @Param globalSort query bool false "accepted for parity with GET /library, has no effect"
// @Success 200 {object} domain.Aggregations "ok"
// @Failure 400 {object} httpkit.Envelope "invalid input"
// @Failure 502 {object} httpkit.Envelope "query failed"
// @Router /library/aggregations [get]
func (h *handlers) aggregationsQuery(r *stdhttp.Request) (any, error) {
	in, err := FromQuery(r.URL.Query())
	if err != nil {
		return nil, err
	}
	return h.svc.Aggregations(r.Context(), in)
}

// swagger:route POST /library/aggregations Library libraryAggregationsBody
// @Summary Artist and genre counts with a JSON filter
// @Tags Library
// @Accept json
// @Produce json
// @Param payload body domain.LibraryInput true "Filter"
// @Success 200 {object} domain.Aggregations "ok"
// @Failure 400 {object} httpkit.Envelope "invalid input"
// @Router /library/aggregations [post]
func (h *handlers) aggregations(r *stdhttp.Request, in domain.LibraryInput) (any, error) {
	return h.svc.Aggregations(r.Context(), in)
}
