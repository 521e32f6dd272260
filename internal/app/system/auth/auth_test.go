package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/kairo/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func testUser() models.User {
	return models.User{
		ID:          primitive.NewObjectID(),
		Email:       "asha@example.com",
		PhoneNumber: "9876543210",
		Profile: models.Profile{
			Name:            "Asha",
			Role:            models.RoleCitizen,
			Language:        models.LanguageHindi,
			City:            "Pune",
			IsPhoneVerified: true,
		},
	}
}

func newService(t *testing.T) *TokenService {
	t.Helper()
	s, err := NewTokenService("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService failed: %v", err)
	}
	return s
}

func TestNewTokenService_RequiresSecret(t *testing.T) {
	if _, err := NewTokenService("", time.Hour); !errors.Is(err, ErrNoSecret) {
		t.Errorf("expected ErrNoSecret, got %v", err)
	}
}

func TestNewTokenService_DefaultTTL(t *testing.T) {
	s, err := NewTokenService("x", 0)
	if err != nil {
		t.Fatalf("NewTokenService failed: %v", err)
	}
	if s.TTL() != DefaultTokenTTL {
		t.Errorf("TTL = %v, want %v", s.TTL(), DefaultTokenTTL)
	}
}

func TestIssueVerify_RoundTrip(t *testing.T) {
	s := newService(t)
	u := testUser()

	tok, err := s.Issue(FromUser(u))
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	id, err := s.Verify(tok)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}

	if id.ID != u.ID.Hex() {
		t.Errorf("ID: got %q, want %q", id.ID, u.ID.Hex())
	}
	if id.Name != "Asha" || id.Profile.City != "Pune" || id.Profile.Language != models.LanguageHindi {
		t.Errorf("unexpected identity %+v", id)
	}
	if !id.IsPhoneVerified {
		t.Error("expected isPhoneVerified to survive the round trip")
	}
	uid, err := id.UserID()
	if err != nil || uid != u.ID {
		t.Errorf("UserID() = %v, %v; want %v", uid, err, u.ID)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	tok, err := newService(t).Issue(FromUser(testUser()))
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	other, _ := NewTokenService("other-secret", time.Hour)
	if _, err := other.Verify(tok); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerify_Expired(t *testing.T) {
	s := newService(t)
	issued := time.Now().Add(-2 * time.Hour)
	s.now = func() time.Time { return issued }
	tok, err := s.Issue(FromUser(testUser()))
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	s.now = time.Now
	if _, err := s.Verify(tok); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestVerify_Garbage(t *testing.T) {
	if _, err := newService(t).Verify("not.a.token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestExtractBearer(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi"},
		{"Bearer ", ""},
		{"", ""},
		{"bearer abc", ""},
		{"Basic dXNlcjpwYXNz", ""},
		{"abc.def.ghi", ""},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			if got := ExtractBearer(tt.header); got != tt.want {
				t.Errorf("ExtractBearer(%q) = %q, want %q", tt.header, got, tt.want)
			}
		})
	}
}

func identityProbe(found *bool, got **Identity) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got, *found = CurrentIdentity(r)
		w.WriteHeader(http.StatusOK)
	})
}

func TestLoadIdentity(t *testing.T) {
	s := newService(t)
	u := testUser()
	tok, _ := s.Issue(FromUser(u))

	tests := []struct {
		name      string
		header    string
		wantFound bool
	}{
		{"valid token", "Bearer " + tok, true},
		{"no header", "", false},
		{"invalid token", "Bearer nope", false},
		{"wrong scheme", "Token " + tok, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var found bool
			var got *Identity
			h := LoadIdentity(s, zap.NewNop())(identityProbe(&found, &got))

			r := httptest.NewRequest("GET", "/api/petitions", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, r)

			if rec.Code != http.StatusOK {
				t.Errorf("status = %d, invalid tokens must not reject the request", rec.Code)
			}
			if found != tt.wantFound {
				t.Errorf("found = %v, want %v", found, tt.wantFound)
			}
			if found && got.ID != u.ID.Hex() {
				t.Errorf("identity ID: got %q, want %q", got.ID, u.ID.Hex())
			}
		})
	}
}

func TestRequireIdentity(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	h := RequireIdentity(ok)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/api/activity", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous: status = %d, want 401", rec.Code)
	}

	id := FromUser(testUser())
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, WithTestIdentity(httptest.NewRequest("GET", "/api/activity", nil), &id))
	if rec.Code != http.StatusNoContent {
		t.Errorf("authenticated: status = %d, want 204", rec.Code)
	}
}
