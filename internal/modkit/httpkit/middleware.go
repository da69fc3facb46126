package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	"mixtape/internal/platform/net/middleware"
)

// StackOptions tunes the middleware stack in front of /api/v1
type StackOptions struct {
	Timeout        time.Duration // backstop deadline, default 30s
	SlowRequest    time.Duration // access log marks slower requests at warn, 0 disables
	AllowedOrigins []string      // CORS origins, empty allows none cross origin
}

// CommonStack returns the middleware every API request passes through, outermost first
func CommonStack(o StackOptions) []func(http.Handler) http.Handler {
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	return []func(http.Handler) http.Handler{
		middleware.RequestID(),
		middleware.RealIP(),
		middleware.LogContext(),
		middleware.RecoverJSON,
		middleware.NoCache(),
		middleware.AccessLogZerolog(middleware.AccessLogOptions{Slow: o.SlowRequest}),
		middleware.CORS(middleware.CORSOptions{
			AllowedOrigins: o.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		}),
		middleware.Compress(flate.BestSpeed),
		middleware.StripSlashes(),
		middleware.Timeout(o.Timeout),
	}
}

// JSONBodies rejects request bodies that are not application/json with 415
func JSONBodies() func(http.Handler) http.Handler {
	return middleware.AllowContentType("application/json")
}
