// internal/app/features/petitions/routes.go
package petitions

import (
	"github.com/dalemusser/kairo/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns the router for /api/petitions. Listing and detail are
// open to anonymous callers; the caller's identity, when present, only
// changes what they see.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	r.Get("/{id}", h.ServeDetail)

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireIdentity)
		pr.Post("/", h.HandleCreate)
		pr.Post("/{id}/sign", h.HandleSign)
	})
	return r
}
