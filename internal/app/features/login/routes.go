// internal/app/features/login/routes.go
package login

import (
	"github.com/dalemusser/kairo/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/signup", h.HandleSignup)
	r.Post("/login", h.HandleLogin)
	r.Post("/verify-otp", h.HandleVerifyOTP)
	r.With(auth.RequireIdentity).Get("/me", h.ServeMe)
	return r
}
