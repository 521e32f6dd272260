package testutil

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dalemusser/kairo/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that call a handler method directly.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// UserOpts customizes CreateUser. Zero values get test defaults.
type UserOpts struct {
	Email        string
	Phone        string
	City         string
	State        string
	Language     string
	PasswordHash string
}

// CreateUser inserts a verified citizen. Email and phone are made unique
// from the generated ID unless supplied.
func (f *Fixtures) CreateUser(ctx context.Context, name string, opts UserOpts) models.User {
	f.t.Helper()

	id := primitive.NewObjectID()
	if opts.Email == "" {
		opts.Email = id.Hex() + "@test.example.com"
	}
	if opts.Phone == "" {
		opts.Phone = fmt.Sprintf("9%09d", phoneSeq.Add(1))
	}
	if opts.Language == "" {
		opts.Language = models.LanguageEnglish
	}

	now := time.Now().UTC()
	u := models.User{
		ID:           id,
		Email:        opts.Email,
		PhoneNumber:  opts.Phone,
		PasswordHash: opts.PasswordHash,
		Profile: models.Profile{
			Name:            name,
			Role:            models.RoleCitizen,
			Language:        opts.Language,
			City:            opts.City,
			State:           opts.State,
			IsPhoneVerified: true,
		},
		Status:    models.UserStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// PetitionOpts customizes CreatePetition.
type PetitionOpts struct {
	Lang   string
	City   string
	State  string
	Status string
}

// CreatePetition inserts an active petition authored by author with the
// given title in the chosen slot.
func (f *Fixtures) CreatePetition(ctx context.Context, author models.User, title string, opts PetitionOpts) models.Petition {
	f.t.Helper()

	if opts.Status == "" {
		opts.Status = models.PetitionStatusActive
	}
	content := models.PetitionContent{Title: title, Description: title + " description"}

	now := time.Now().UTC()
	p := models.Petition{
		ID:         primitive.NewObjectID(),
		Category:   models.DefaultCategory,
		City:       opts.City,
		State:      opts.State,
		Target:     models.DefaultTarget,
		AuthorID:   author.ID,
		AuthorName: author.Profile.Name,
		Status:     opts.Status,
		Signatures: []models.Signature{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if models.ResolveLanguage(opts.Lang) == models.LangHI {
		p.Content.HI = content
	} else {
		p.Content.EN = content
	}

	if _, err := f.db.Collection("petitions").InsertOne(ctx, p); err != nil {
		f.t.Fatalf("failed to create test petition: %v", err)
	}
	return p
}

var phoneSeq atomic.Int64
