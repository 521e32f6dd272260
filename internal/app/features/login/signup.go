package login

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	userstore "github.com/dalemusser/kairo/internal/app/store/users"
	"github.com/dalemusser/kairo/internal/app/system/apierr"
	"github.com/dalemusser/kairo/internal/app/system/auth"
	"github.com/dalemusser/kairo/internal/app/system/authutil"
	"github.com/dalemusser/kairo/internal/app/system/httpx"
	"github.com/dalemusser/kairo/internal/app/system/normalize"
	"github.com/dalemusser/kairo/internal/app/system/timeouts"
	"github.com/dalemusser/kairo/internal/domain/models"
	"go.uber.org/zap"
)

const msgUserExists = "User with this email or phone number already exists"

type signupRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password"`
	Role        string `json:"role"`
	Language    string `json:"language"`
}

type signupResponse struct {
	Message     string        `json:"message"`
	User        auth.Identity `json:"user"`
	RequiresOTP bool          `json:"requiresOTP"`
}

// validate checks req in the order the client reports problems and
// returns the first failure.
func (req *signupRequest) validate() error {
	req.Name = normalize.Name(req.Name)
	req.Email = normalize.Email(req.Email)
	req.PhoneNumber = normalize.Phone(req.PhoneNumber)

	switch {
	case req.Name == "" || req.Email == "" || req.PhoneNumber == "" || req.Password == "":
		return apierr.Validation("All fields are required")
	case !normalize.IsEmail(req.Email):
		return apierr.Validation("Please provide a valid email address")
	case utf8.RuneCountInString(req.Password) < authutil.MinPasswordLength:
		return apierr.Validation("Password must be at least 6 characters long")
	case !normalize.IsIndianMobile(req.PhoneNumber):
		return apierr.Validation("Please provide a valid Indian mobile number")
	}

	if req.Language == "" {
		req.Language = models.LanguageEnglish
	}
	if req.Language != models.LanguageEnglish && req.Language != models.LanguageHindi {
		return apierr.Validation("Please select a valid language preference")
	}
	if req.Role = strings.TrimSpace(req.Role); req.Role == "" {
		req.Role = models.RoleCitizen
	}
	if !models.IsProfileRole(req.Role) {
		return apierr.Validation("Please select a valid role")
	}
	return nil
}

// HandleSignup handles POST /api/auth/signup. The new account must verify
// its phone before it is handed a token.
func (h *Handler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := httpx.ReadJSON(w, r, &req); err != nil {
		httpx.WriteError(w, r, h.Log, apierr.Validation("Invalid request body"))
		return
	}
	if err := req.validate(); err != nil {
		h.Metrics.Signup(err)
		httpx.WriteError(w, r, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	exists, err := h.Users.ExistsByEmailOrPhone(ctx, req.Email, req.PhoneNumber)
	if err != nil {
		h.Metrics.Signup(err)
		httpx.WriteError(w, r, h.Log, apierr.Internal(err))
		return
	}
	if exists {
		h.Metrics.Signup(userstore.ErrDuplicate)
		httpx.WriteError(w, r, h.Log, apierr.Validation(msgUserExists))
		return
	}

	hash, err := authutil.HashPassword(req.Password)
	if err != nil {
		h.Metrics.Signup(err)
		httpx.WriteError(w, r, h.Log, apierr.Internal(err))
		return
	}

	u, err := h.Users.Create(ctx, models.User{
		Email:        req.Email,
		PhoneNumber:  req.PhoneNumber,
		PasswordHash: hash,
		Profile: models.Profile{
			Name:     req.Name,
			Role:     req.Role,
			Language: req.Language,
		},
	})
	h.Metrics.Signup(err)
	if errors.Is(err, userstore.ErrDuplicate) {
		// Lost a race with a concurrent signup; the unique index decided.
		httpx.WriteError(w, r, h.Log, apierr.Validation(msgUserExists))
		return
	}
	if err != nil {
		httpx.WriteError(w, r, h.Log, apierr.Internal(err))
		return
	}

	h.Audit.SignupSucceeded(r, u.ID)
	h.Log.Info("user signed up", zap.String("user_id", u.ID.Hex()), zap.String("role", u.Profile.Role))

	httpx.WriteJSON(w, http.StatusCreated, signupResponse{
		Message:     "User created successfully. Please verify your phone number.",
		User:        auth.FromUser(u),
		RequiresOTP: true,
	})
}
