// Package module mounts the meta endpoints
package module

import (
	"time"

	"mixtape/internal/core/version"
	modkit "mixtape/internal/modkit"
	"mixtape/internal/modkit/httpkit"
	metahttp "mixtape/internal/services/api/meta/http"
)

// Module serves health, readiness and build info under /meta
type Module struct {
	b    modkit.Built
	deps metahttp.Deps
}

// New constructs the meta module, StartedAt is taken at construction
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("meta"), modkit.WithPrefix("/meta")}, opts...)...)
	return &Module{b: b, deps: metahttp.Deps{
		ServiceName: version.ServiceName,
		StartedAt:   time.Now(),
		PG:          deps.PG,
		CH:          deps.CH,
	}}
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) { metahttp.Register(rr, m.deps) })
}

// Name implements the modkit.Module interface
func (m *Module) Name() string { return m.b.Name }
