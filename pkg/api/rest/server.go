package rest

import (
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	v0_rest "github.com/meower-media/notifications/pkg/api/rest/v0"
	"github.com/meower-media/notifications/pkg/notifications"
	"github.com/rs/cors"
)

// Router builds the HTTP API. When realIPHeader is set the caller's address
// is taken from that header instead of the connection.
func Router(e *notifications.Engine, realIPHeader string) *chi.Mux {
	r := chi.NewRouter()

	// CORS middleware
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"OPTIONS", "GET", "POST", "PATCH", "PUT", "DELETE"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}).Handler)

	// IP address middleware
	r.Use(func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if realIPHeader != "" {
				r.RemoteAddr = r.Header.Get(realIPHeader)
			} else if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
				r.RemoteAddr = host
			}
			h.ServeHTTP(w, r)
		})
	})

	// Mount routers
	v0 := v0_rest.Router(e)
	r.Mount("/", v0) // default
	r.Mount("/v0", v0)

	return r
}
