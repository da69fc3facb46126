package querylog

import (
	"context"
	"fmt"
	"regexp"
	"sync"
	"sync/atomic"
	"time"

	"mixtape/internal/platform/logger"
	"mixtape/internal/platform/store"
)

// DefaultTable is used when no table is configured
const DefaultTable = "mixtape.library_queries"

// tableDDL creates the events table, %s is the validated table name
const tableDDL = `
CREATE TABLE IF NOT EXISTS %s
(
	query_id    UUID,
	request_id  String,
	at          DateTime64(3, 'UTC'),
	op          LowCardinality(String),
	mode        LowCardinality(String),
	filters     String,
	returned    UInt32,
	has_more    Bool,
	empty       Bool,
	elapsed_ms  UInt32,
	code        LowCardinality(String)
)
ENGINE = MergeTree
PARTITION BY toYYYYMM(at)
ORDER BY (op, at)
TTL toDateTime(at) + INTERVAL 90 DAY
`

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// CH writes events to a ClickHouse table from a background flusher
// Record only enqueues, so a slow or hung server never holds up a response.
// When the buffer is full the event is dropped.
type CH struct {
	ch      store.Clickhouse
	table   string
	timeout time.Duration // per insert
	batch   int           // rows per insert
	every   time.Duration // flush interval for a partial batch

	mu      sync.RWMutex
	closed  bool
	events  chan Event
	done    chan struct{}
	start   sync.Once
	dropped atomic.Int64
}

// NewCH returns a ClickHouse sink, the table name must be a plain or db qualified identifier
func NewCH(ch store.Clickhouse, table string) (*CH, error) {
	if ch == nil {
		return nil, fmt.Errorf("querylog: nil clickhouse")
	}
	if table == "" {
		table = DefaultTable
	}
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("querylog: invalid table name %q", table)
	}
	return &CH{
		ch:      ch,
		table:   table,
		timeout: 2 * time.Second,
		batch:   100,
		every:   time.Second,
		events:  make(chan Event, 1024),
		done:    make(chan struct{}),
	}, nil
}

// EnsureTable creates the events table when missing
func (s *CH) EnsureTable(ctx context.Context) error {
	return s.ch.Exec(ctx, fmt.Sprintf(tableDDL, s.table))
}

// Record implements Sink
func (s *CH) Record(ctx context.Context, ev Event) {
	s.start.Do(func() { go s.run() })

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return
	}
	select {
	case s.events <- ev:
	default:
		n := s.dropped.Add(1)
		logger.C(ctx).Debug().Int64("dropped", n).Str("query_id", ev.QueryID.String()).
			Msg("querylog buffer full, event dropped")
	}
}

// Dropped counts events lost to a full buffer
func (s *CH) Dropped() int64 { return s.dropped.Load() }

// Close stops accepting events and waits for the buffered ones to be written
func (s *CH) Close(ctx context.Context) error {
	s.start.Do(func() { go s.run() })

	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.events)
	}
	s.mu.Unlock()

	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *CH) run() {
	defer close(s.done)
	tick := time.NewTicker(s.every)
	defer tick.Stop()

	var rows [][]any
	for {
		select {
		case ev, ok := <-s.events:
			if !ok {
				s.flush(rows)
				return
			}
			rows = append(rows, eventRow(ev))
			if len(rows) >= s.batch {
				s.flush(rows)
				rows = nil
			}
		case <-tick.C:
			s.flush(rows)
			rows = nil
		}
	}
}

func (s *CH) flush(rows [][]any) {
	if len(rows) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := s.ch.Insert(ctx, s.table, rows); err != nil {
		logger.Named("querylog").Warn().Err(err).Str("table", s.table).Int("rows", len(rows)).
			Msg("querylog insert failed")
	}
}

func eventRow(ev Event) []any {
	return []any{
		ev.QueryID, ev.RequestID, ev.At, string(ev.Op), ev.Mode, ev.Filters,
		uint32(max(ev.Returned, 0)), ev.HasMore, ev.Empty,
		uint32(ev.Elapsed.Milliseconds()), ev.Code,
	}
}
