package middleware

import (
	"net/http"

	pnet "mixtape/internal/platform/net"
)

// LogContext copies the router request id into the request logger context
// mount it after RequestID so logger.C lines carry request_id
func LogContext() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			next.ServeHTTP(w, r.WithContext(pnet.WithRequest(ctx, pnet.RequestID(ctx))))
		})
	}
}
