package v0_rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/meower-media/notifications/pkg/notifications"
	"github.com/meower-media/notifications/pkg/networks"
)

var engine *notifications.Engine

func Router(e *notifications.Engine) *chi.Mux {
	engine = e

	r := chi.NewRouter()

	// Only the gateway and other internal services may call us
	r.Use(func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !networks.IsTrusted(r.RemoteAddr) {
				returnErr(w, http.StatusForbidden, ErrUntrustedNetwork, nil)
				return
			}
			h.ServeHTTP(w, r)
		})
	})

	r.Mount("/", RootRouter())
	r.Mount("/me/notifications", MeNotificationsRouter())
	r.Mount("/notifications", NotificationsRouter())

	return r
}
