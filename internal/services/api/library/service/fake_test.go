package service

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"mixtape/internal/modkit/repokit"
	"mixtape/internal/platform/store"
	"mixtape/internal/services/api/library/repo"
)

// memRepo serves fact rows from memory with the same ordering and keyset rules as postgres
type memRepo struct {
	mu sync.Mutex

	rows    []repo.FactRow
	users   map[string]int64
	authors map[int64]repo.AuthorRow
	texts   map[string]string
	media   map[string][]repo.MediaRow

	fetchErr  error
	lookupErr error
	block     bool // FetchRows waits for ctx to end

	fetches     int
	lastQuery   repo.RowQuery
	authorCalls [][]int64
}

func newMemRepo(rows ...repo.FactRow) *memRepo {
	return &memRepo{
		rows:    rows,
		users:   map[string]int64{},
		authors: map[int64]repo.AuthorRow{},
		texts:   map[string]string{},
		media:   map[string][]repo.MediaRow{},
	}
}

func (m *memRepo) ResolveAuthors(_ context.Context, names []string) ([]int64, error) {
	var out []int64
	for _, n := range names {
		if id, ok := m.users[n]; ok {
			out = append(out, id)
		}
	}
	return out, nil
}

func keysetCmp(r repo.FactRow, k repo.Keyset) int {
	if c := r.CreatedAt.Compare(k.CreatedAt); c != 0 {
		return c
	}
	if c := strings.Compare(r.ID, k.ID); c != 0 {
		return c
	}
	return cmp.Compare(r.SubIndex, k.SubIndex)
}

func (m *memRepo) FetchRows(ctx context.Context, q repo.RowQuery) ([]repo.FactRow, error) {
	m.mu.Lock()
	m.fetches++
	m.lastQuery = q
	block, fetchErr := m.block, m.fetchErr
	m.mu.Unlock()

	if block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if fetchErr != nil {
		return nil, fetchErr
	}

	// ILIKE lowers both sides, the tag predicate lowers the stored side only
	search := strings.ToLower(strings.NewReplacer(`\%`, "%", `\_`, "_", `\\`, `\`).Replace(strings.Trim(q.SearchPattern, "%")))
	var out []repo.FactRow
	for _, r := range m.rows {
		if len(q.AuthorIDs) > 0 && !slices.Contains(q.AuthorIDs, r.AuthorID) {
			continue
		}
		if len(q.Platforms) > 0 && !slices.Contains(q.Platforms, r.Platform) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(r.Title), search) && !strings.Contains(strings.ToLower(r.Artist), search) {
			continue
		}
		if len(q.Tags) > 0 && !slices.ContainsFunc(r.Tags, func(t string) bool { return slices.Contains(q.Tags, strings.ToLower(t)) }) {
			continue
		}
		if r.Engagement < q.MinEngagement {
			continue
		}
		if q.Since != nil && r.CreatedAt.Before(*q.Since) {
			continue
		}
		if q.Until != nil && !r.CreatedAt.Before(*q.Until) {
			continue
		}
		if q.After != nil && q.Limit > 0 {
			c := keysetCmp(r, *q.After)
			if (q.Asc && c <= 0) || (!q.Asc && c >= 0) {
				continue
			}
		}
		out = append(out, r)
	}
	slices.SortFunc(out, func(a, b repo.FactRow) int {
		c := keysetCmp(a, repo.Keyset{CreatedAt: b.CreatedAt, ID: b.ID, SubIndex: b.SubIndex})
		if q.Asc {
			return c
		}
		return -c
	})
	if q.Limit > 0 && len(out) > q.Limit+1 {
		out = out[:q.Limit+1]
	}
	return out, nil
}

func (m *memRepo) AuthorsByID(_ context.Context, ids []int64) (map[int64]repo.AuthorRow, error) {
	m.mu.Lock()
	m.authorCalls = append(m.authorCalls, ids)
	m.mu.Unlock()
	if m.lookupErr != nil {
		return nil, m.lookupErr
	}
	out := map[int64]repo.AuthorRow{}
	for _, id := range ids {
		if a, ok := m.authors[id]; ok {
			out[id] = a
		}
	}
	return out, nil
}

func (m *memRepo) PostTextByID(_ context.Context, ids []string) (map[string]string, error) {
	out := map[string]string{}
	for _, id := range ids {
		if t, ok := m.texts[id]; ok {
			out[id] = t
		}
	}
	return out, nil
}

func (m *memRepo) MediaByPostID(_ context.Context, ids []string) (map[string][]repo.MediaRow, error) {
	out := map[string][]repo.MediaRow{}
	for _, id := range ids {
		if list, ok := m.media[id]; ok {
			out[id] = list
		}
	}
	return out, nil
}

// nopTx satisfies the TxRunner the service is constructed with, the mem repo never touches it
type nopTx struct{}

func (nopTx) Exec(context.Context, string, ...any) (store.CommandTag, error) { return nil, nil }
func (nopTx) Query(context.Context, string, ...any) (store.Rows, error)      { return nil, nil }
func (nopTx) QueryRow(context.Context, string, ...any) store.Row             { return nil }
func (nopTx) Tx(ctx context.Context, fn func(q store.RowQuerier) error) error {
	return fn(nopTx{})
}

var testNow = time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)

func newSvc(t *testing.T, m *memRepo, opts ...Option) *Svc {
	t.Helper()
	binder := repokit.BindFunc[repo.Repo](func(repokit.Queryer) repo.Repo { return m })
	opts = append([]Option{WithClock(func() time.Time { return testNow })}, opts...)
	return New(nopTx{}, binder, opts...)
}

// row builds a fact row created mins minutes before testNow
func row(id string, mins int, artist string, tags ...string) repo.FactRow {
	return repo.FactRow{
		ID:        id,
		AuthorID:  1,
		Title:     "title " + id,
		Artist:    artist,
		Platform:  "youtube",
		Tags:      tags,
		CreatedAt: testNow.Add(-time.Duration(mins) * time.Minute),
	}
}

func trackIDs(ts []item) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.track.ID
	}
	return out
}
