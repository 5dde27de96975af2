package middleware

import (
	"net"
	"net/http"

	"github.com/gestio-app/gestio-backend-go/internal/handler/http/response"
	"github.com/gestio-app/gestio-backend-go/internal/pkg/ratelimit"
)

// RateLimit throttles by caller address. Meant for the unauthenticated
// auth endpoints; authenticated traffic is already accountable.
func RateLimit(tracker *ratelimit.Tracker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			addr, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				addr = r.RemoteAddr
			}
			if !tracker.Allow(addr) {
				response.TooManyRequests(w, "Too many requests, slow down")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
