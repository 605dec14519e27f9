// Package origin restricts the API to callers on the local host. This is
// the only access control the service carries.
package origin

import (
	"encoding/json"
	"net"
	"net/http"
)

// Skipper exempts specific requests from the origin check.
type Skipper func(r *http.Request) bool

// Middleware rejects any request whose peer address is not a loopback
// address before it reaches a handler.
type Middleware struct {
	Skipper Skipper
}

// NewMiddleware constructs a middleware with optional skipper.
func NewMiddleware(skipper Skipper) Middleware {
	return Middleware{Skipper: skipper}
}

// Wrap wraps an http.Handler with the origin check.
func (m Middleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.Skipper != nil && m.Skipper(r) {
			next.ServeHTTP(w, r)
			return
		}

		if !isLoopback(r.RemoteAddr) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"type":   "forbidden",
				"detail": "requests are only accepted from the local host",
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

func isLoopback(remoteAddr string) bool {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		host = remoteAddr
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
