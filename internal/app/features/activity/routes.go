// internal/app/features/activity/routes.go
package activity

import (
	"github.com/dalemusser/kairo/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns the router for the activity feed. Every route needs an
// identity.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireIdentity)
	r.Get("/", h.ServeRecent)
	return r
}
