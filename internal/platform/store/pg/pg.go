// Package pg opens the postgres pool and waits for it to answer
package pg

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Config configures the pool
type Config struct {
	URL      string
	MaxConns int32

	// Slow marks queries at or over this duration, zero disables
	Slow time.Duration
	// LogSQL logs every statement, not just slow ones
	LogSQL bool

	// Retries and PingTimeout bound the boot wait, zero picks the defaults
	Retries     int
	PingTimeout time.Duration
}

const (
	defaultRetries     = 20
	defaultPingTimeout = 3 * time.Second
	maxBackoff         = 2 * time.Second
)

var (
	newPool   = pgxpool.NewWithConfig
	firstWait = 150 * time.Millisecond
)

// Open builds the pool, installs the query tracer and blocks until postgres answers a ping
func Open(ctx context.Context, cfg Config, log zerolog.Logger) (*pgxpool.Pool, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("pg: parse url: %w", err)
	}
	if cfg.MaxConns > 0 {
		pcfg.MaxConns = cfg.MaxConns
	}
	if cfg.LogSQL || cfg.Slow > 0 {
		pcfg.ConnConfig.Tracer = NewTracer(log, cfg.Slow, cfg.LogSQL)
	}

	pool, err := newPool(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("pg: new pool: %w", err)
	}
	if err := waitReady(ctx, pool, cfg, log); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

type pinger interface{ Ping(context.Context) error }

// waitReady pings with a doubling backoff capped at maxBackoff
// pool pings skip the query tracer so boot noise stays out of the SQL log
func waitReady(ctx context.Context, p pinger, cfg Config, log zerolog.Logger) error {
	tries := cfg.Retries
	if tries <= 0 {
		tries = defaultRetries
	}
	timeout := cfg.PingTimeout
	if timeout <= 0 {
		timeout = defaultPingTimeout
	}

	wait := firstWait
	var err error
	for attempt := 1; ; attempt++ {
		pctx, cancel := context.WithTimeout(ctx, timeout)
		err = p.Ping(pctx)
		cancel()
		if err == nil {
			return nil
		}
		if attempt == tries {
			return fmt.Errorf("pg: no answer after %d pings: %w", tries, err)
		}
		log.Warn().Err(err).Int("attempt", attempt).Int("of", tries).Dur("retry_in", wait).Msg("postgres not ready")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		wait = min(wait*2, maxBackoff)
	}
}
