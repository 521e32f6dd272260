// internal/app/features/profile/routes.go
package profile

import (
	"github.com/dalemusser/kairo/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns the router mounted at /api/user.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireIdentity)
	r.Post("/location", h.HandleLocation)
	return r
}
