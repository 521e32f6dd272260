// Package auth issues and verifies bearer tokens and carries the caller's
// identity through the request context.
package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/kairo/internal/app/system/apierr"
	"github.com/dalemusser/kairo/internal/app/system/httpx"
	"github.com/dalemusser/kairo/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Identity                                                                   |
*─────────────────────────────────────────────────────────────────────────────*/

// Identity is the denormalized user snapshot carried inside a token.
// It is only as fresh as the token that carries it.
type Identity struct {
	ID              string         `json:"id"`
	Email           string         `json:"email"`
	PhoneNumber     string         `json:"phoneNumber"`
	Name            string         `json:"name"`
	Role            string         `json:"role"`
	IsPhoneVerified bool           `json:"isPhoneVerified"`
	IsEmailVerified bool           `json:"isEmailVerified"`
	Profile         models.Profile `json:"profile"`
}

// FromUser builds the identity payload for u.
func FromUser(u models.User) Identity {
	return Identity{
		ID:              u.ID.Hex(),
		Email:           u.Email,
		PhoneNumber:     u.PhoneNumber,
		Name:            u.Profile.Name,
		Role:            u.Profile.Role,
		IsPhoneVerified: u.Profile.IsPhoneVerified,
		IsEmailVerified: u.Profile.IsEmailVerified,
		Profile:         u.Profile,
	}
}

// UserID parses the identity's id as an ObjectID.
func (id Identity) UserID() (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(id.ID)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Context                                                                    |
*─────────────────────────────────────────────────────────────────────────────*/

type ctxKey string

const identityKey ctxKey = "identity"

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// FromContext returns the identity stored in ctx, if any.
func FromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityKey).(*Identity)
	return id, ok && id != nil
}

// CurrentIdentity returns the caller's identity and whether one was found.
func CurrentIdentity(r *http.Request) (*Identity, bool) {
	return FromContext(r.Context())
}

// WithTestIdentity injects id into the request context. Tests use it to
// bypass token verification.
func WithTestIdentity(r *http.Request, id *Identity) *http.Request {
	return r.WithContext(WithIdentity(r.Context(), id))
}

/*─────────────────────────────────────────────────────────────────────────────*
| Middleware                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

// ExtractBearer returns the token from an "Authorization: Bearer <token>"
// header value, or "" for any other form.
func ExtractBearer(header string) string {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

// LoadIdentity resolves the optional caller identity for every request.
// A missing, malformed or expired token leaves the request anonymous.
func LoadIdentity(tokens *TokenService, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := ExtractBearer(r.Header.Get("Authorization"))
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}
			id, err := tokens.Verify(raw)
			if err != nil {
				log.Debug("ignoring invalid bearer token", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// RequireIdentity answers 401 {"error":"Unauthorized"} when LoadIdentity
// found no caller.
func RequireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentIdentity(r); !ok {
			httpx.WriteError(w, r, nil, apierr.Unauthorized())
			return
		}
		next.ServeHTTP(w, r)
	})
}
