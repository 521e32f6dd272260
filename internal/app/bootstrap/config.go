// internal/app/bootstrap/config.go
package bootstrap

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/kairo/internal/app/features/login"
	"github.com/dalemusser/kairo/internal/app/system/auth"
	"github.com/dalemusser/kairo/internal/app/system/drafter"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// minProdSecretLen is the shortest JWT secret accepted in prod.
const minProdSecretLen = 32

// appConfigKeys defines the configuration keys for Kairo.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, jwt_secret, etc.
//   - Environment variables: KAIRO_MONGO_URI, KAIRO_JWT_SECRET, etc.
//   - Command-line flags: --mongo_uri, --jwt_secret, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "kairo", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 5, Desc: "MongoDB min connection pool size (default: 5)"},

	// Bearer tokens
	{Name: "jwt_secret", Default: "", Desc: "HS256 secret for signing bearer tokens (required)"},
	{Name: "token_ttl", Default: "168h", Desc: "Bearer token lifetime (e.g., 168h, 24h)"},

	// Phone verification
	{Name: "otp_code", Default: login.DefaultOTPCode, Desc: "OTP accepted by verify-otp"},

	// AI backends
	{Name: "rag_api_base_url", Default: "", Desc: "Base URL of the legal Q&A (RAG) service"},
	{Name: "groq_api_key", Default: "", Desc: "API key for the petition drafting model"},
	{Name: "groq_base_url", Default: drafter.DefaultBaseURL, Desc: "OpenAI-compatible base URL for petition drafting"},
	{Name: "groq_model", Default: drafter.DefaultModel, Desc: "Chat model used for petition drafting"},
	{Name: "ai_timeout", Default: "20s", Desc: "Timeout for each outbound AI call"},

	// Abuse limits
	{Name: "ai_rate_limit", Default: 20, Desc: "AI requests per client IP per minute (0 disables)"},
	{Name: "login_ip_rate_limit", Default: 10, Desc: "Login attempts per client IP per minute (0 disables)"},
	{Name: "login_identifier_rate_limit", Default: 5, Desc: "Login attempts per email/phone per five minutes (0 disables)"},

	// Browser access
	{Name: "cors_origins", Default: "", Desc: "Comma-separated browser origins allowed to call the API"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, KAIRO_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "KAIRO", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		JWTSecret: appValues.String("jwt_secret"),
		TokenTTL:  appValues.Duration("token_ttl", auth.DefaultTokenTTL),

		OTPCode: appValues.String("otp_code"),

		RAGBaseURL:  appValues.String("rag_api_base_url"),
		GroqAPIKey:  appValues.String("groq_api_key"),
		GroqBaseURL: appValues.String("groq_base_url"),
		GroqModel:   appValues.String("groq_model"),
		AITimeout:   appValues.Duration("ai_timeout", 20*time.Second),

		AIRateLimit:          appValues.Int("ai_rate_limit"),
		LoginIPLimit:         appValues.Int("login_ip_rate_limit"),
		LoginIdentifierLimit: appValues.Int("login_identifier_rate_limit"),

		CORSOrigins: splitList(appValues.String("cors_origins")),
	}

	return coreCfg, appCfg, nil
}

// splitList splits a comma-separated value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// A missing JWT secret is fatal in every environment; prod additionally
// requires a long secret and refuses the default OTP.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if appCfg.MongoMinPoolSize > appCfg.MongoMaxPoolSize {
		return fmt.Errorf("mongo_min_pool_size (%d) exceeds mongo_max_pool_size (%d)",
			appCfg.MongoMinPoolSize, appCfg.MongoMaxPoolSize)
	}

	if appCfg.JWTSecret == "" {
		return errors.New("jwt_secret is required (set KAIRO_JWT_SECRET)")
	}

	if coreCfg != nil && coreCfg.Env == "prod" {
		if len(appCfg.JWTSecret) < minProdSecretLen {
			return fmt.Errorf("jwt_secret must be at least %d characters in prod", minProdSecretLen)
		}
		if appCfg.OTPCode == login.DefaultOTPCode {
			return errors.New("otp_code must be changed from the default in prod")
		}
	}

	if appCfg.RAGBaseURL == "" {
		logger.Warn("rag_api_base_url not set; /api/ai/ask will answer 500")
	}
	if appCfg.GroqAPIKey == "" {
		logger.Warn("groq_api_key not set; /api/ai/generate-petition will answer 500")
	}
	return nil
}
