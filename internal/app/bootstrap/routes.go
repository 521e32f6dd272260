// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	activityfeature "github.com/dalemusser/kairo/internal/app/features/activity"
	assistantfeature "github.com/dalemusser/kairo/internal/app/features/assistant"
	healthfeature "github.com/dalemusser/kairo/internal/app/features/health"
	loginfeature "github.com/dalemusser/kairo/internal/app/features/login"
	petitionsfeature "github.com/dalemusser/kairo/internal/app/features/petitions"
	profilefeature "github.com/dalemusser/kairo/internal/app/features/profile"
	activitystore "github.com/dalemusser/kairo/internal/app/store/activity"
	"github.com/dalemusser/kairo/internal/app/system/activitylog"
	"github.com/dalemusser/kairo/internal/app/system/apierr"
	"github.com/dalemusser/kairo/internal/app/system/auth"
	"github.com/dalemusser/kairo/internal/app/system/drafter"
	"github.com/dalemusser/kairo/internal/app/system/httpx"
	"github.com/dalemusser/kairo/internal/app/system/metrics"
	"github.com/dalemusser/kairo/internal/app/system/ragclient"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. At this point you have access to:
//   - coreCfg: WAFFLE core configuration (ports, env, timeouts, etc.)
//   - appCfg: app-specific configuration defined in AppConfig
//   - deps: any DB or backend clients bundled in DBDeps
//   - logger: the fully configured zap.Logger for this app
//
// Kairo serves JSON only. Every request passes through panic recovery,
// CORS, request metrics and bearer-token identity loading; the feature
// routers then decide which endpoints require a signed-in user.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	tokens, err := auth.NewTokenService(appCfg.JWTSecret, appCfg.TokenTTL)
	if err != nil {
		logger.Error("token service init failed", zap.Error(err))
		return nil, err
	}

	db := deps.KairoMongoDatabase
	m := metrics.New("kairo")
	act := activitylog.New(activitystore.New(db), logger)

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	if len(appCfg.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   appCfg.CORSOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders:   []string{"Authorization", "Content-Type"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}
	r.Use(m.Middleware)

	// Global auth middleware: loads the bearer token's identity into
	// context if present. Endpoints that need one use auth.RequireIdentity.
	r.Use(auth.LoadIdentity(tokens, logger))

	// Operational endpoints
	healthHandler := healthfeature.NewHandler(deps.KairoMongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	r.Method(http.MethodGet, "/metrics", m.Handler())

	r.Route("/api", func(api chi.Router) {
		loginHandler := loginfeature.NewHandler(db, tokens, appCfg.OTPCode, deps.LoginLimiter, act, m, logger)
		api.Mount("/auth", loginfeature.Routes(loginHandler))

		profileHandler := profilefeature.NewHandler(db, logger)
		api.Mount("/user", profilefeature.Routes(profileHandler))

		petitionsHandler := petitionsfeature.NewHandler(db, act, m, logger)
		api.Mount("/petitions", petitionsfeature.Routes(petitionsHandler))

		activityHandler := activityfeature.NewHandler(db, logger)
		api.Mount("/activity", activityfeature.Routes(activityHandler))

		rag := ragclient.New(appCfg.RAGBaseURL, appCfg.AITimeout)
		draft := drafter.New(drafter.Config{
			APIKey:  appCfg.GroqAPIKey,
			BaseURL: appCfg.GroqBaseURL,
			Model:   appCfg.GroqModel,
			Timeout: appCfg.AITimeout,
		})
		assistantHandler := assistantfeature.NewHandler(rag, draft, m, logger)
		api.Mount("/ai", assistantfeature.Routes(assistantHandler, appCfg.AIRateLimit))
	})

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		httpx.WriteError(w, req, nil, apierr.NotFound("Not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		httpx.WriteJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "Method not allowed"})
	})

	return r, nil
}
