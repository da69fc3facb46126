package httpkit

import (
	"net/http"
	"strings"

	"mixtape/internal/platform/net/middleware"
)

// MountHeartbeat answers GET path with 200 at the root, outside any versioned stack
func MountHeartbeat(r Router, path string) {
	r.Handle(path, middleware.Heartbeat(path)(http.NotFoundHandler()))
}

// MountUnder opens prefix on r, applies mw to everything below it, then calls mount
func MountUnder(r Router, prefix string, mw []func(http.Handler) http.Handler, mount func(Router)) {
	r.Route(prefix, func(sub Router) {
		if len(mw) > 0 {
			sub.Use(mw...)
		}
		mount(sub)
	})
}

// MountAPIV1 mounts the versioned API root at /api/v1
//
//	httpkit.MountAPIV1(r, httpkit.CommonStack(opts), func(api httpkit.Router) {
//	  library.MountRoutes(api)
//	})
func MountAPIV1(r Router, mw []func(http.Handler) http.Handler, mount func(Router)) {
	MountAPI(r, "v1", mw, mount)
}

// MountAPI mounts under /api/{version}, a leading slash on version is ignored
func MountAPI(r Router, version string, mw []func(http.Handler) http.Handler, mount func(Router)) {
	MountUnder(r, "/api/"+strings.TrimPrefix(version, "/"), mw, mount)
}
