// Package store opens the optional storage backends and hides them behind small seams
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"mixtape/internal/platform/store/ch"
	"mixtape/internal/platform/store/pg"
)

// Row is one scannable result row
type Row interface {
	Scan(dest ...any) error
}

// Rows is a forward only result set
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
	Columns() []string
}

// CommandTag reports what a statement did
type CommandTag interface {
	String() string
	RowsAffected() int64
}

// RowQuerier is the sql surface repos are written against
type RowQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) Row
}

// TxRunner is a RowQuerier that can also run fn inside one transaction
type TxRunner interface {
	RowQuerier
	Tx(ctx context.Context, fn func(q RowQuerier) error) error
}

// Clickhouse is the columnar write seam used by query telemetry
type Clickhouse interface {
	Insert(ctx context.Context, table string, rows [][]any) error
	Exec(ctx context.Context, sql string, args ...any) error
	Close() error
}

var _ Clickhouse = (*ch.CH)(nil)

// Store holds whichever backends were enabled, the rest stay nil
type Store struct {
	Log zerolog.Logger
	PG  TxRunner
	CH  Clickhouse
}

// Option adjusts the Store before any backend is opened
type Option func(*Store)

// WithLogger routes backend logs, including SQL traces, to log
func WithLogger(log zerolog.Logger) Option {
	return func(s *Store) { s.Log = log }
}

// Open brings up the enabled backends
// a failure closes whatever was already opened
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	s := &Store{Log: zerolog.Nop()}
	for _, o := range opts {
		o(s)
	}

	if cfg.PG.Enabled {
		pool, err := pg.Open(ctx, pg.Config{
			URL:         cfg.PG.URL,
			MaxConns:    cfg.PG.MaxConns,
			Slow:        time.Duration(cfg.PG.SlowQueryMs) * time.Millisecond,
			LogSQL:      cfg.PG.LogSQL,
			Retries:     cfg.PG.ConnectRetries,
			PingTimeout: cfg.PG.PingTimeout,
		}, s.Log)
		if err != nil {
			return nil, err
		}
		s.PG = newPGAdapter(pool)
	}

	if cfg.CH.Enabled {
		c, err := ch.Open(ctx, ch.Config{URL: cfg.CH.URL, Role: cfg.AppName, DialTimeout: cfg.CH.DialTimeout})
		if err != nil {
			_ = s.Close(ctx)
			return nil, fmt.Errorf("clickhouse open: %w", err)
		}
		s.CH = c
	}
	return s, nil
}

// Close releases every opened backend, nil backends are skipped
func (s *Store) Close(context.Context) error {
	var errs []error
	if s.CH != nil {
		errs = append(errs, s.CH.Close())
	}
	if c, ok := s.PG.(interface{ Close() error }); ok {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
