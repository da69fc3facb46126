// @title         mixtape API
// @version       0.1.0
// @description   Read only library of tracks shared in posts, with filtering, pagination and aggregations
// @BasePath      /api/v1

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mixtape/internal/modkit/httpkit"
	"mixtape/internal/platform/config"
	"mixtape/internal/platform/logger"
	phttp "mixtape/internal/platform/net/http"
	"mixtape/internal/platform/store"
	"mixtape/internal/platform/store/migrate"
	libraryrepo "mixtape/internal/services/api/library/repo"
	"mixtape/internal/services/querylog"

	"mixtape/internal/services/api"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// service-scoped config for HTTP etc (CORE_API_*)
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")

	pgCfg := root.Prefix("SERVICE_PGSQL_")      // pgCfg lives under SERVICE_PGSQL_*
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_") // chCfg lives under SERVICE_CLICKHOUSE_*
	chOn := chCfg.MayBool("ENABLED", false)

	// bring up logging early
	l := logger.Get()

	pgURL := pgCfg.MustString("DBURL")
	chURL := ""
	if chOn {
		chURL = chCfg.MustString("DBURL")
	}

	// schema migrations are opt in so a read replica DSN is never written to
	if pgCfg.MayBool("MIGRATE", false) {
		n, err := migrate.Up(ctx, pgURL, libraryrepo.Migrations())
		if err != nil {
			l.Panic().Err(err).Msg("migrations failed")
		}
		l.Info().Int("applied", n).Msg("migrations done")
	}

	// open the platform store (postgres + optional CH for query telemetry)
	st, err := store.Open(
		ctx,
		store.Config{
			AppName: "mixtape-api",
			PG: store.PGConfig{
				Enabled:     true,
				URL:         pgURL,
				MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 8)),
				SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
				LogSQL:      pgCfg.MayBool("LOG_SQL", false),
			},
			CH: store.CHConfig{
				Enabled: chOn,
				URL:     chURL,
			},
		},
		store.WithLogger(*l),
	)
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	if st.CH != nil {
		ensureQueryLog(ctx, st.CH, chCfg.MayString("TABLE", querylog.DefaultTable), l)
	}

	// http server (reads CORE_API_PORT)
	srv := phttp.NewServer(apiCfg)

	// mount our API
	closeModules := api.Mount(
		srv.Router(),
		api.Options{
			Config: root,
			Store:  st,
			Logger: l,
			Stack: httpkit.StackOptions{
				Timeout:        apiCfg.MayDuration("REQUEST_TIMEOUT", 15*time.Second),
				SlowRequest:    apiCfg.MayDuration("SLOW_REQUEST", time.Second),
				AllowedOrigins: apiCfg.MayCSV("CORS_ORIGINS", nil),
			},
			EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
			EnableProfiler: apiCfg.MayBool("PROFILER", false),
		},
	)

	// run until SIGINT or SIGTERM
	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
	l.Info().Msg("http server stopped")

	// flush module buffers before the deferred store close drops the connections
	cctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := closeModules(cctx); err != nil {
		l.Warn().Err(err).Msg("module shutdown incomplete")
	}
}

// ensureQueryLog creates the telemetry table, failures leave the API serving without it
func ensureQueryLog(ctx context.Context, ch store.Clickhouse, table string, l *logger.Logger) {
	sink, err := querylog.NewCH(ch, table)
	if err != nil {
		l.Warn().Err(err).Str("table", table).Msg("query telemetry table name rejected")
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := sink.EnsureTable(ctx); err != nil {
		l.Warn().Err(err).Str("table", table).Msg("query telemetry table not ensured")
	}
}
