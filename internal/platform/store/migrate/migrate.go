// Package migrate applies embedded postgres migrations with goose
package migrate

import (
	"context"
	"database/sql"
	"io/fs"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the pgx database/sql driver
	"github.com/pressly/goose/v3"

	perr "mixtape/internal/platform/errors"
	"mixtape/internal/platform/logger"
)

// Up applies every pending migration in fsys and returns how many ran
// goose keeps its own version table so reruns are no-ops
func Up(ctx context.Context, dsn string, fsys fs.FS) (int, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return 0, perr.Wrap(err, perr.ErrorCodeUnavailable, "open migration connection")
	}
	defer func() { _ = db.Close() }()

	p, err := goose.NewProvider(goose.DialectPostgres, db, fsys)
	if err != nil {
		return 0, perr.Wrap(err, perr.ErrorCodeUnknown, "load migrations")
	}
	res, err := p.Up(ctx)
	if err != nil {
		return 0, perr.Wrap(err, perr.ErrorCodeUnavailable, "apply migrations")
	}

	log := logger.Named("migrate")
	for _, r := range res {
		log.Info().Str("source", r.Source.Path).Int64("version", r.Source.Version).Dur("took", r.Duration).Msg("migration applied")
	}
	if len(res) == 0 {
		log.Debug().Msg("schema up to date")
	}
	return len(res), nil
}
