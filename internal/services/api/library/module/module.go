// Package module wires the library into the API using modkit
package module

import (
	"context"

	modkit "mixtape/internal/modkit"
	"mixtape/internal/modkit/httpkit"
	"mixtape/internal/platform/logger"
	libraryhttp "mixtape/internal/services/api/library/http"
	libraryrepo "mixtape/internal/services/api/library/repo"
	librarysvc "mixtape/internal/services/api/library/service"
	"mixtape/internal/services/querylog"
)

// Module mounts the library engine under /library
type Module struct {
	b    modkit.Built
	svc  librarysvc.Service
	sink querylog.Sink
}

// New constructs a library module with the provided dependencies and options
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("library"), modkit.WithPrefix("/library")}, opts...)...)
	o := FromConfig(deps.Cfg)

	sink := sinkFor(deps, o.LogTable)
	svc := librarysvc.New(deps.PG, libraryrepo.NewPG(),
		librarysvc.WithConfig(o.Service),
		librarysvc.WithSink(sink),
	)
	return &Module{b: b, svc: svc, sink: sink}
}

// sinkFor returns the clickhouse telemetry sink or a no-op when clickhouse is off
func sinkFor(deps modkit.Deps, table string) querylog.Sink {
	if deps.CH == nil {
		return querylog.Nop{}
	}
	sink, err := querylog.NewCH(deps.CH, table)
	if err != nil {
		logger.Named("library").Warn().Err(err).Str("table", table).Msg("query telemetry disabled")
		return querylog.Nop{}
	}
	return sink
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) { libraryhttp.Register(rr, m.svc) })
}

// Name implements the modkit.Module interface
func (m *Module) Name() string { return m.b.Name }

// Close flushes buffered query telemetry
func (m *Module) Close(ctx context.Context) error {
	if c, ok := m.sink.(interface{ Close(context.Context) error }); ok {
		return c.Close(ctx)
	}
	return nil
}
