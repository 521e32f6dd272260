// internal/app/features/assistant/routes.go
package assistant

import (
	"net/http"
	"time"

	"github.com/dalemusser/kairo/internal/app/system/apierr"
	"github.com/dalemusser/kairo/internal/app/system/httpx"
	"github.com/dalemusser/kairo/internal/app/system/ratelimit"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
)

// Routes returns the router mounted at /api/ai. perMinute caps calls per
// client IP across both endpoints; zero or less disables the cap.
func Routes(h *Handler, perMinute int) chi.Router {
	r := chi.NewRouter()
	if perMinute > 0 {
		r.Use(httprate.Limit(perMinute, time.Minute,
			httprate.WithKeyFuncs(func(r *http.Request) (string, error) {
				return ratelimit.ClientIP(r), nil
			}),
			httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
				httpx.WriteError(w, r, h.Log, apierr.RateLimited("Too many AI requests. Please wait a minute and try again."))
			}),
		))
	}
	r.Post("/ask", h.HandleAsk)
	r.Post("/generate-petition", h.HandleGeneratePetition)
	return r
}
