package userstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/kairo/internal/app/system/normalize"
	"github.com/dalemusser/kairo/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound is returned when no user matches.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicate is returned when the email or phone number is taken.
	ErrDuplicate = errors.New("a user with this email or phone number already exists")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

func (s *Store) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, filter).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

// GetByEmail looks up a user by email, case-insensitively.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"email": normalize.Email(email)})
}

// GetByPhone looks up a user by phone number exactly as stored.
func (s *Store) GetByPhone(ctx context.Context, phone string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"phone_number": normalize.Phone(phone)})
}

// ExistsByEmailOrPhone reports whether either identifier is taken.
func (s *Store) ExistsByEmailOrPhone(ctx context.Context, email, phone string) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"$or": bson.A{
		bson.M{"email": normalize.Email(email)},
		bson.M{"phone_number": normalize.Phone(phone)},
	}}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Create inserts a new user after normalizing identifiers and applying
// profile defaults. The unique indexes are the final word on duplicates.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.Email = normalize.Email(u.Email)
	u.PhoneNumber = normalize.Phone(u.PhoneNumber)
	u.Profile.Name = normalize.Name(u.Profile.Name)
	if u.Profile.Role == "" {
		u.Profile.Role = models.RoleCitizen
	}
	if u.Profile.Language == "" {
		u.Profile.Language = models.LanguageEnglish
	}
	if u.Status == "" {
		u.Status = models.UserStatusActive
	}

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicate
		}
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

func (s *Store) updateAndReturn(ctx context.Context, filter bson.M, set bson.M) (*models.User, error) {
	set["updated_at"] = time.Now().UTC()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var u models.User
	err := s.c.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// MarkPhoneVerified flags the phone as verified and records the login.
func (s *Store) MarkPhoneVerified(ctx context.Context, phone string) (*models.User, error) {
	now := time.Now().UTC()
	return s.updateAndReturn(ctx,
		bson.M{"phone_number": normalize.Phone(phone)},
		bson.M{"profile.is_phone_verified": true, "last_login_at": now})
}

// TouchLastLogin records a successful login.
func (s *Store) TouchLastLogin(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.updateAndReturn(ctx, bson.M{"_id": id}, bson.M{"last_login_at": time.Now().UTC()})
}

// LocationUpdate is a location change submitted by the user. Empty
// strings and nil coordinates mean "keep the current value".
type LocationUpdate struct {
	Latitude          *float64
	Longitude         *float64
	Address           string
	Accuracy          *float64
	City              string
	State             string
	District          string
	Pincode           string
	IsManuallyEntered bool
}

// MergeLocation applies upd to p in place.
func MergeLocation(p *models.Profile, upd LocationUpdate, now time.Time) {
	if upd.City != "" {
		p.City = upd.City
	}
	if upd.State != "" {
		p.State = upd.State
	}
	if upd.District != "" {
		p.District = upd.District
	}
	if upd.Pincode != "" {
		p.Pincode = upd.Pincode
	}

	prev := models.GeoSnapshot{}
	if p.Location != nil {
		prev = *p.Location
	}
	loc := models.GeoSnapshot{
		Latitude:          firstFloat(upd.Latitude, prev.Latitude),
		Longitude:         firstFloat(upd.Longitude, prev.Longitude),
		Address:           firstString(upd.Address, prev.Address),
		Accuracy:          firstFloat(upd.Accuracy, prev.Accuracy),
		LastUpdated:       &now,
		IsManuallyEntered: upd.IsManuallyEntered,
	}
	p.Location = &loc

	p.IsLocationEnabled = nonZero(loc.Latitude) || nonZero(loc.Longitude) ||
		p.City != "" || p.State != ""
}

// UpdateLocation merges upd into the stored profile and returns the
// updated user.
func (s *Store) UpdateLocation(ctx context.Context, id primitive.ObjectID, upd LocationUpdate) (*models.User, error) {
	u, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	MergeLocation(&u.Profile, upd, time.Now().UTC())

	return s.updateAndReturn(ctx, bson.M{"_id": id}, bson.M{
		"profile.city":                u.Profile.City,
		"profile.state":               u.Profile.State,
		"profile.district":            u.Profile.District,
		"profile.pincode":             u.Profile.Pincode,
		"profile.location":            u.Profile.Location,
		"profile.is_location_enabled": u.Profile.IsLocationEnabled,
	})
}

func firstFloat(a, b *float64) *float64 {
	if a != nil {
		return a
	}
	return b
}

func nonZero(f *float64) bool {
	return f != nil && *f != 0
}

func firstString(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
