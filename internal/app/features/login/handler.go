// internal/app/features/login/handler.go
package login

// Terminology: User Identifiers
//   - UserID / userID / user_id: The MongoDB ObjectID (_id) that uniquely identifies a user record
//   - Identifier: the email or phone number a user types to log in

import (
	"net/http"

	userstore "github.com/dalemusser/kairo/internal/app/store/users"
	"github.com/dalemusser/kairo/internal/app/system/activitylog"
	"github.com/dalemusser/kairo/internal/app/system/apierr"
	"github.com/dalemusser/kairo/internal/app/system/auth"
	"github.com/dalemusser/kairo/internal/app/system/httpx"
	"github.com/dalemusser/kairo/internal/app/system/metrics"
	"github.com/dalemusser/kairo/internal/app/system/ratelimit"
	"github.com/dalemusser/kairo/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// DefaultOTPCode is accepted by verify-otp when no code is configured.
const DefaultOTPCode = "123456"

// Handler serves signup, login, OTP verification and the current
// identity under /api/auth.
type Handler struct {
	Users   *userstore.Store
	Tokens  *auth.TokenService
	Limiter *ratelimit.LoginLimiter // nil disables login rate limiting
	Audit   *activitylog.Logger
	Metrics *metrics.Metrics
	OTPCode string
	Log     *zap.Logger
}

// NewHandler creates a login Handler. An empty otpCode falls back to
// DefaultOTPCode.
func NewHandler(db *mongo.Database, tokens *auth.TokenService, otpCode string, limiter *ratelimit.LoginLimiter, audit *activitylog.Logger, m *metrics.Metrics, logger *zap.Logger) *Handler {
	if otpCode == "" {
		otpCode = DefaultOTPCode
	}
	return &Handler{
		Users:   userstore.New(db),
		Tokens:  tokens,
		Limiter: limiter,
		Audit:   audit,
		Metrics: m,
		OTPCode: otpCode,
		Log:     logger,
	}
}

// sessionResponse is returned by login and verify-otp.
type sessionResponse struct {
	Message string        `json:"message"`
	Token   string        `json:"token"`
	User    auth.Identity `json:"user"`
}

// issue signs a token for u and writes the session response.
func (h *Handler) issue(w http.ResponseWriter, r *http.Request, u models.User, msg string) {
	ident := auth.FromUser(u)
	token, err := h.Tokens.Issue(ident)
	if err != nil {
		httpx.WriteError(w, r, h.Log, apierr.Internal(err))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, sessionResponse{Message: msg, Token: token, User: ident})
}

// ServeMe handles GET /api/auth/me. It echoes the identity carried by the
// caller's token.
func (h *Handler) ServeMe(w http.ResponseWriter, r *http.Request) {
	ident, ok := auth.CurrentIdentity(r)
	if !ok {
		httpx.WriteError(w, r, h.Log, apierr.Unauthorized())
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"user": ident})
}
