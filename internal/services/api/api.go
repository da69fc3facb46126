// Package api assembles the HTTP surface
// modules live under /api/v1, docs, profiler and heartbeat sit beside them
package api

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"mixtape/internal/modkit"
	"mixtape/internal/modkit/httpkit"
	"mixtape/internal/modkit/swaggerkit"
	"mixtape/internal/platform/config"
	"mixtape/internal/platform/logger"
	phttp "mixtape/internal/platform/net/http"
	"mixtape/internal/platform/store"
	librarymod "mixtape/internal/services/api/library/module"
	metamod "mixtape/internal/services/api/meta/module"
)

// Options configure Mount
type Options struct {
	// Config is the root config, modules read their own prefixes from it
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	Stack          httpkit.StackOptions
	EnableSwagger  bool
	EnableProfiler bool
}

func (o Options) deps() modkit.Deps {
	d := modkit.Deps{Cfg: o.Config, Log: zerolog.Nop()}
	if o.Logger != nil {
		d.Log = *o.Logger
	}
	if o.Store != nil {
		d.PG, d.CH = o.Store.PG, o.Store.CH
	}
	return d
}

// Mount wires every module onto r
// the returned func releases what the modules hold and runs after the server stops
func Mount(r phttp.Router, opt Options) func(context.Context) error {
	deps := opt.deps()
	mods := []modkit.Module{
		metamod.New(deps),
		// POST bodies must be JSON, bodiless GETs pass through
		librarymod.New(deps, modkit.WithMiddlewares(httpkit.JSONBodies())),
	}

	httpkit.MountHeartbeat(r, "/health")
	swaggerkit.Mount(r, opt.EnableSwagger)
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

	httpkit.MountAPIV1(r, httpkit.CommonStack(opt.Stack), func(v1 httpkit.Router) {
		for _, m := range mods {
			m.MountRoutes(v1)
			deps.Log.Debug().Str("module", m.Name()).Msg("module mounted")
		}
	})

	return func(ctx context.Context) error {
		var errs []error
		for _, m := range mods {
			if c, ok := m.(interface{ Close(context.Context) error }); ok {
				errs = append(errs, c.Close(ctx))
			}
		}
		return errors.Join(errs...)
	}
}
