package login

import (
	"context"
	"errors"
	"net/http"
	"strings"

	userstore "github.com/dalemusser/kairo/internal/app/store/users"
	"github.com/dalemusser/kairo/internal/app/system/apierr"
	"github.com/dalemusser/kairo/internal/app/system/authutil"
	"github.com/dalemusser/kairo/internal/app/system/httpx"
	"github.com/dalemusser/kairo/internal/app/system/normalize"
	"github.com/dalemusser/kairo/internal/app/system/timeouts"
	"github.com/dalemusser/kairo/internal/domain/models"
)

const (
	flowPassword = "password"
	flowOTP      = "otp"

	msgBadCredentials = "Invalid email/phone or password"
)

var errBadCredentials = apierr.InvalidCredentials(msgBadCredentials)

type loginRequest struct {
	EmailOrPhone string `json:"emailOrPhone"`
	Password     string `json:"password"`
}

// HandleLogin handles POST /api/auth/login. The identifier is treated as
// an email when it parses as one, otherwise as a phone number. Unknown
// identifiers and wrong passwords get the same 401.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.ReadJSON(w, r, &req); err != nil {
		httpx.WriteError(w, r, h.Log, apierr.Validation("Invalid request body"))
		return
	}
	identifier := strings.TrimSpace(req.EmailOrPhone)
	if identifier == "" || req.Password == "" {
		httpx.WriteError(w, r, h.Log, apierr.Validation("Email/phone and password are required"))
		return
	}

	if allowed, reason := h.Limiter.Check(r, identifier); !allowed {
		h.Audit.LoginFailed(r, "rate_limit")
		httpx.WriteError(w, r, h.Log, apierr.RateLimited(reason))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var (
		u   *models.User
		err error
	)
	if normalize.IsEmail(identifier) {
		u, err = h.Users.GetByEmail(ctx, identifier)
	} else {
		u, err = h.Users.GetByPhone(ctx, identifier)
	}
	if errors.Is(err, userstore.ErrNotFound) {
		h.Metrics.Login(flowPassword, err)
		h.Audit.LoginFailed(r, "user_not_found")
		httpx.WriteError(w, r, h.Log, errBadCredentials)
		return
	}
	if err != nil {
		h.Metrics.Login(flowPassword, err)
		httpx.WriteError(w, r, h.Log, apierr.Internal(err))
		return
	}

	if !authutil.CheckPassword(req.Password, u.PasswordHash) {
		h.Metrics.Login(flowPassword, errBadCredentials)
		h.Audit.LoginFailed(r, "wrong_password")
		httpx.WriteError(w, r, h.Log, errBadCredentials)
		return
	}

	updated, err := h.Users.TouchLastLogin(ctx, u.ID)
	if err != nil {
		h.Metrics.Login(flowPassword, err)
		httpx.WriteError(w, r, h.Log, apierr.Internal(err))
		return
	}

	h.Limiter.ResetIdentifier(identifier)
	h.Metrics.Login(flowPassword, nil)
	h.Audit.LoginSucceeded(r, updated.ID)
	h.issue(w, r, *updated, "Login successful!")
}
