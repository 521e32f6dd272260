// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like:
//   - HTTP/HTTPS ports and TLS configuration
//   - Logging level and format
//   - Request body size limits
//
// AppConfig carries everything specific to Kairo: the MongoDB
// connection, token signing, the OTP stand-in, the two AI backends and
// the abuse limits.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Bearer token configuration
	JWTSecret string        // HS256 signing secret (required)
	TokenTTL  time.Duration // lifetime of issued tokens

	// Phone verification. There is no SMS provider; this one code is accepted.
	OTPCode string

	// AI backends
	RAGBaseURL  string        // legal Q&A service; blank disables /api/ai/ask
	GroqAPIKey  string        // blank disables /api/ai/generate-petition
	GroqBaseURL string        // OpenAI-compatible endpoint
	GroqModel   string        // chat model name
	AITimeout   time.Duration // bound on each outbound AI call

	// Abuse limits (0 disables)
	AIRateLimit          int // AI calls per client IP per minute
	LoginIPLimit         int // login attempts per client IP per minute
	LoginIdentifierLimit int // login attempts per email/phone per five minutes

	// Browser origins allowed to call the API. Empty disables CORS.
	CORSOrigins []string
}
