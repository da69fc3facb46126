package pg

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// Tracer logs statements through pgx's tracing hooks
// slow statements log at warn, the rest at info only when all is set
type Tracer struct {
	log  zerolog.Logger
	slow time.Duration
	all  bool
	now  func() time.Time
}

var _ pgx.QueryTracer = (*Tracer)(nil)

// NewTracer returns a tracer writing to log
func NewTracer(log zerolog.Logger, slow time.Duration, all bool) *Tracer {
	return &Tracer{log: log, slow: slow, all: all, now: time.Now}
}

type startKey struct{}

type started struct {
	sql  string
	args []any
	at   time.Time
}

// TraceQueryStart stashes the statement on the query context
func (t *Tracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, d pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, startKey{}, started{sql: d.SQL, args: d.Args, at: t.now()})
}

// TraceQueryEnd logs the statement once pgx reports its outcome
func (t *Tracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, d pgx.TraceQueryEndData) {
	st, ok := ctx.Value(startKey{}).(started)
	if !ok {
		return
	}
	elapsed := t.now().Sub(st.at)
	slow := t.slow > 0 && elapsed >= t.slow
	if !slow && !t.all {
		return
	}

	log := t.scoped(ctx)
	ev := log.Info()
	if slow {
		ev = log.Warn()
	}
	if t.all {
		ev = ev.Interface("args", st.args)
	}
	ev.Str("component", "pg").
		Dur("elapsed", elapsed).
		Bool("slow", slow).
		Str("sql", Compact(st.sql)).
		Int64("rows", d.CommandTag.RowsAffected()).
		Err(d.Err).
		Msg("pg query")
}

// scoped prefers the request logger so statements carry the request id
func (t *Tracer) scoped(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &t.log
}

// Compact folds every whitespace run in sql into one space
func Compact(sql string) string { return strings.Join(strings.Fields(sql), " ") }
