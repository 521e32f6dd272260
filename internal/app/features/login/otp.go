package login

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	userstore "github.com/dalemusser/kairo/internal/app/store/users"
	"github.com/dalemusser/kairo/internal/app/system/apierr"
	"github.com/dalemusser/kairo/internal/app/system/httpx"
	"github.com/dalemusser/kairo/internal/app/system/timeouts"
)

type verifyOTPRequest struct {
	PhoneNumber string `json:"phoneNumber"`
	OTP         string `json:"otp"`
}

// HandleVerifyOTP handles POST /api/auth/verify-otp. There is no SMS
// provider: the code is the single configured OTP.
func (h *Handler) HandleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyOTPRequest
	if err := httpx.ReadJSON(w, r, &req); err != nil {
		httpx.WriteError(w, r, h.Log, apierr.Validation("Invalid request body"))
		return
	}
	phone := strings.TrimSpace(req.PhoneNumber)
	if phone == "" || req.OTP == "" {
		httpx.WriteError(w, r, h.Log, apierr.Validation("Phone number and OTP are required"))
		return
	}

	if subtle.ConstantTimeCompare([]byte(req.OTP), []byte(h.OTPCode)) != 1 {
		h.Metrics.Login(flowOTP, errors.New("otp mismatch"))
		h.Audit.PhoneVerificationFailed(r, "otp_mismatch")
		httpx.WriteError(w, r, h.Log, apierr.Validation("Invalid OTP. Please try again."))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.MarkPhoneVerified(ctx, phone)
	h.Metrics.Login(flowOTP, err)
	if errors.Is(err, userstore.ErrNotFound) {
		h.Audit.PhoneVerificationFailed(r, "user_not_found")
		httpx.WriteError(w, r, h.Log, apierr.NotFound("User not found"))
		return
	}
	if err != nil {
		httpx.WriteError(w, r, h.Log, apierr.Internal(err))
		return
	}

	h.Audit.PhoneVerified(r, u.ID)
	h.issue(w, r, *u, "Phone number verified successfully!")
}
