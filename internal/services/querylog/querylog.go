// Package querylog records one telemetry event per library query
// Recording is best effort: sink failures are logged and never reach the caller
package querylog

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Op names the library operation that produced an event
type Op string

const (
	// OpLibrary is a page request
	OpLibrary Op = "library"
	// OpAggregations is a frequency table request
	OpAggregations Op = "aggregations"
)

// Event is one executed library query
type Event struct {
	QueryID   uuid.UUID
	RequestID string
	At        time.Time
	Op        Op
	Mode      string // db, global or full
	Filters   string // compact JSON of the applied filters
	Returned  int
	HasMore   bool
	Empty     bool // author filter resolved to nobody
	Elapsed   time.Duration
	Code      string // empty on success
}

// NewEvent stamps a fresh query id and time
func NewEvent(op Op, requestID string) Event {
	return Event{QueryID: uuid.New(), RequestID: requestID, At: time.Now().UTC(), Op: op}
}

// Sink receives events
type Sink interface {
	Record(ctx context.Context, ev Event)
}

// Nop drops every event
type Nop struct{}

// Record implements Sink
func (Nop) Record(context.Context, Event) {}

// Func adapts a function to Sink
type Func func(ctx context.Context, ev Event)

// Record implements Sink
func (f Func) Record(ctx context.Context, ev Event) { f(ctx, ev) }
