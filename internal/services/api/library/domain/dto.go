package domain

// LibraryInput is the sparse filter accepted from GET query params or a POST body
// every field is optional
type LibraryInput struct {
	Users         []string `json:"users,omitempty" validate:"omitempty,max=100,dive,max=64" example:"alice,bob"`
	Sources       []string `json:"sources,omitempty" validate:"omitempty,dive,oneof=youtube spotify soundcloud apple_music tidal bandcamp other" example:"youtube"`
	Search        string   `json:"search,omitempty" validate:"omitempty,max=200" example:"teen spirit"`
	Tags          []string `json:"tags,omitempty" validate:"omitempty,max=50,dive,max=64" example:"grunge"`
	MinEngagement int      `json:"minEngagement,omitempty" validate:"omitempty,min=0" example:"5"`
	DateRange     string   `json:"dateRange,omitempty" validate:"omitempty,oneof=all today week month" example:"week"`
	After         string   `json:"after,omitempty" validate:"omitempty,isodate" example:"2025-01-01"`
	Before        string   `json:"before,omitempty" validate:"omitempty,isodate" example:"2025-02-01"`
	SortBy        string   `json:"sortBy,omitempty" validate:"omitempty,max=32" example:"timestamp"`
	SortDirection string   `json:"sortDirection,omitempty" validate:"omitempty,oneof=asc desc" example:"desc"`
	Limit         int      `json:"limit,omitempty" example:"50"`
	Cursor        string   `json:"cursor,omitempty" validate:"omitempty,max=2048" example:"eyJrIjoiZGIifQ"`
	GlobalSort    bool     `json:"globalSort,omitempty" example:"false"`
}

// AppliedFilters echoes the filter after defaults and normalization
type AppliedFilters struct {
	Users         []string `json:"users,omitempty"`
	Sources       []string `json:"sources,omitempty"`
	Search        string   `json:"search,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	MinEngagement int      `json:"minEngagement,omitempty"`
	DateRange     string   `json:"dateRange"`
	After         string   `json:"after,omitempty"`
	Before        string   `json:"before,omitempty"`
	SortBy        SortKey  `json:"sortBy"`
	SortDirection string   `json:"sortDirection"`
	Limit         int      `json:"limit"`
	GlobalSort    bool     `json:"globalSort"`
}

// Pagination describes where the next page starts
type Pagination struct {
	HasMore    bool   `json:"hasMore"`
	NextCursor string `json:"nextCursor,omitempty"`
	Total      *int   `json:"total,omitempty"`
}

// Meta carries per response timing
type Meta struct {
	QueryTimeMs int64 `json:"queryTime_ms" example:"12"`
	Cached      bool  `json:"cached"`
}

// LibraryPage is one page of tracks
type LibraryPage struct {
	Tracks         []Track        `json:"tracks"`
	Pagination     Pagination     `json:"pagination"`
	AppliedFilters AppliedFilters `json:"appliedFilters"`
	Meta           Meta           `json:"meta"`
}

// Aggregations are frequency tables over the whole filtered set
type Aggregations struct {
	Artists        []Bucket       `json:"artists"`
	Genres         []Bucket       `json:"genres"`
	TotalTracks    int            `json:"totalTracks"`
	AppliedFilters AppliedFilters `json:"appliedFilters"`
	Meta           Meta           `json:"meta"`
}
