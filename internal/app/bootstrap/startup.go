// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/kairo/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{External: appCfg.AITimeout})

	logger.Info("kairo starting",
		zap.String("env", coreCfg.Env),
		zap.Duration("token_ttl", appCfg.TokenTTL),
		zap.Bool("rag_configured", appCfg.RAGBaseURL != ""),
		zap.Bool("drafter_configured", appCfg.GroqAPIKey != ""),
		zap.Duration("ai_timeout", timeouts.External()),
		zap.Int("ai_rate_limit", appCfg.AIRateLimit),
		zap.Strings("cors_origins", appCfg.CORSOrigins),
	)
	return nil
}
