package modkit

import (
	"net/http"

	"mixtape/internal/modkit/httpkit"
	str "mixtape/internal/platform/strings"
)

// Option adjusts how a module is named and mounted
type Option func(*Built)

// WithName sets the module name used in logs
func WithName(name string) Option {
	return func(b *Built) { b.Name = name }
}

// WithPrefix sets the path the module is mounted under
func WithPrefix(prefix string) Option {
	return func(b *Built) { b.Prefix = prefix }
}

// WithMiddlewares appends module scoped middleware, applied in order
func WithMiddlewares(mw ...func(http.Handler) http.Handler) Option {
	return func(b *Built) { b.Mw = append(b.Mw, mw...) }
}

// Built is the resolved wiring of one module
type Built struct {
	Name   string
	Prefix string
	Mw     []func(http.Handler) http.Handler
}

// Build applies opts in order, later options win
func Build(opts ...Option) Built {
	var b Built
	for _, o := range opts {
		o(&b)
	}
	b.Mw = append([]func(http.Handler) http.Handler(nil), b.Mw...)
	return b
}

// Mount opens the module prefix on r and lets register attach routes to it
// panics on an empty name or prefix so miswiring fails at boot
func (b Built) Mount(r httpkit.Router, register func(httpkit.Router)) {
	str.MustString(b.Name, "module name")
	httpkit.MountUnder(r, str.MustPrefix(b.Prefix), b.Mw, register)
}
