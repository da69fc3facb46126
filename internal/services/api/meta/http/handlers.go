// Package http serves the meta endpoints: liveness, readiness and build info
package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"mixtape/internal/core/version"
	"mixtape/internal/modkit/httpkit"
	"mixtape/internal/platform/logger"
	phttp "mixtape/internal/platform/net/http"
)

// readyTimeout bounds one readiness probe, dependencies are pinged in parallel
const readyTimeout = 2 * time.Second

// Pinger is satisfied by backends that can report liveness
type Pinger interface {
	Ping(context.Context) error
}

// Deps are the handler dependencies
// PG is required for readiness, CH is optional and nil when telemetry is off
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	PG          any
	CH          any
}

type handlers struct {
	deps Deps
	now  func() time.Time
}

// Register mounts the meta routes
func Register(r httpkit.Router, d Deps) {
	h := &handlers{deps: d, now: time.Now}
	httpkit.Get(r, "/health", h.health)
	httpkit.Get(r, "/ready", h.ready)
	httpkit.Get(r, "/version", h.version)
	httpkit.Get(r, "/service", h.service)
}

// HealthResponse is the liveness payload
type HealthResponse struct {
	OK      bool      `json:"ok" example:"true"`
	Service string    `json:"service" example:"mixtape-api"`
	Now     time.Time `json:"now" example:"2025-09-03T13:05:00Z"`
}

// check outcomes
const (
	checkOK      = "ok"
	checkFail    = "fail"
	checkSkipped = "skipped"
	checkUnknown = "unknown"
)

// ReadyCheck is the outcome of one dependency ping
// Error is coarse on purpose, the driver error only goes to the log
type ReadyCheck struct {
	Name     string `json:"name" example:"pg"`
	Status   string `json:"status" example:"ok"`
	Required bool   `json:"required" example:"true"`
	Error    string `json:"error,omitempty" example:"unreachable"`
}

// ReadyResponse summarizes readiness
// fail means a required check is not ok, degraded means an optional one failed
type ReadyResponse struct {
	Status string       `json:"status" example:"ok"`
	Checks []ReadyCheck `json:"checks"`
	Now    time.Time    `json:"now" example:"2025-09-03T13:05:00Z"`
}

// ServiceResponse describes the running process
type ServiceResponse struct {
	Name    string    `json:"name" example:"mixtape-api"`
	Started time.Time `json:"started" example:"2025-09-03T13:00:00Z"`
	Uptime  int64     `json:"uptime" example:"300"`
}

// @Summary Liveness
// @Tags Meta
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /meta/health [get]
func (h *handlers) health(_ *http.Request) (any, error) {
	return HealthResponse{OK: true, Service: h.deps.ServiceName, Now: h.now().UTC()}, nil
}

// @Summary Readiness with dependency checks, 503 when postgres is unreachable
// @Tags Meta
// @Produce json
// @Success 200 {object} ReadyResponse
// @Failure 503 {object} ReadyResponse
// @Router /meta/ready [get]
func (h *handlers) ready(r *http.Request) (any, error) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	probes := []struct {
		name     string
		dep      any
		required bool
	}{
		{"pg", h.deps.PG, true},
		{"ch", h.deps.CH, false},
	}
	checks := make([]ReadyCheck, len(probes))
	var g errgroup.Group
	for i, p := range probes {
		g.Go(func() error {
			checks[i] = ping(ctx, p.name, p.dep, p.required)
			return nil
		})
	}
	_ = g.Wait()

	out := ReadyResponse{Status: checkOK, Checks: checks, Now: h.now().UTC()}
	for _, c := range checks {
		switch {
		case c.Required && c.Status != checkOK:
			out.Status = checkFail
		case !c.Required && (c.Status == checkFail || c.Status == checkUnknown) && out.Status == checkOK:
			out.Status = "degraded"
		}
	}
	if out.Status == checkFail {
		return phttp.Response{Status: http.StatusServiceUnavailable, Body: out}, nil
	}
	return out, nil
}

func ping(ctx context.Context, name string, dep any, required bool) ReadyCheck {
	c := ReadyCheck{Name: name, Required: required, Status: checkOK}
	p, ok := dep.(Pinger)
	switch {
	case dep == nil:
		c.Status = checkSkipped
	case !ok:
		c.Status = checkUnknown
	default:
		if err := p.Ping(ctx); err != nil {
			c.Status, c.Error = checkFail, "unreachable"
			if errors.Is(err, context.DeadlineExceeded) {
				c.Error = "timeout"
			}
			logger.C(ctx).Warn().Err(err).Str("dep", name).Bool("required", required).Msg("readiness ping failed")
		}
	}
	return c
}

// @Summary Build and version info
// @Tags Meta
// @Produce json
// @Success 200 {object} version.BuildInfo
// @Router /meta/version [get]
func (h *handlers) version(_ *http.Request) (any, error) {
	return version.Info(), nil
}

// @Summary Service name and uptime in seconds
// @Tags Meta
// @Produce json
// @Success 200 {object} ServiceResponse
// @Router /meta/service [get]
func (h *handlers) service(_ *http.Request) (any, error) {
	return ServiceResponse{
		Name:    h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC(),
		Uptime:  int64(h.now().Sub(h.deps.StartedAt) / time.Second),
	}, nil
}
