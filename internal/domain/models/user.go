// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Profile roles. A user picks one civic persona at signup.
const (
	RoleCitizen    = "citizen"
	RoleWorker     = "worker"
	RoleStudent    = "student"
	RoleWoman      = "woman"
	RoleSenior     = "senior"
	RoleBusiness   = "business"
	RoleGovernment = "government"
	RoleNGO        = "ngo"
	RoleActivist   = "activist"
	RoleLawyer     = "lawyer"
	RoleJournalist = "journalist"
	RoleResearcher = "researcher"
	RoleVolunteer  = "volunteer"
)

var profileRoles = map[string]bool{
	RoleCitizen: true, RoleWorker: true, RoleStudent: true, RoleWoman: true,
	RoleSenior: true, RoleBusiness: true, RoleGovernment: true, RoleNGO: true,
	RoleActivist: true, RoleLawyer: true, RoleJournalist: true,
	RoleResearcher: true, RoleVolunteer: true,
}

// IsProfileRole reports whether role is one of the enumerated personas.
func IsProfileRole(role string) bool {
	return profileRoles[role]
}

// Preferred languages as stored on the profile.
const (
	LanguageEnglish = "English"
	LanguageHindi   = "Hindi"
)

// User account statuses.
const (
	UserStatusActive    = "active"
	UserStatusInactive  = "inactive"
	UserStatusSuspended = "suspended"
)

// User is a Kairo account. Email is stored lower-cased; email and
// phone number are each unique across the collection.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"`
	PhoneNumber  string             `bson:"phone_number" json:"phoneNumber"`
	PasswordHash string             `bson:"password_hash" json:"-"`
	Profile      Profile            `bson:"profile" json:"profile"`
	Status       string             `bson:"status" json:"status"`
	LastLoginAt  *time.Time         `bson:"last_login_at,omitempty" json:"lastLoginAt,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// Profile holds the user-editable part of an account.
type Profile struct {
	Name     string `bson:"name" json:"name"`
	Role     string `bson:"role" json:"role"`
	Language string `bson:"language" json:"language"`

	City     string       `bson:"city,omitempty" json:"city,omitempty"`
	State    string       `bson:"state,omitempty" json:"state,omitempty"`
	District string       `bson:"district,omitempty" json:"district,omitempty"`
	Pincode  string       `bson:"pincode,omitempty" json:"pincode,omitempty"`
	Location *GeoSnapshot `bson:"location,omitempty" json:"location,omitempty"`

	IsPhoneVerified   bool `bson:"is_phone_verified" json:"isPhoneVerified"`
	IsEmailVerified   bool `bson:"is_email_verified" json:"isEmailVerified"`
	IsLocationEnabled bool `bson:"is_location_enabled" json:"isLocationEnabled"`
}

// GeoSnapshot is the last location the user shared, either from the
// browser or typed in by hand.
type GeoSnapshot struct {
	Latitude          *float64   `bson:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude         *float64   `bson:"longitude,omitempty" json:"longitude,omitempty"`
	Address           string     `bson:"address,omitempty" json:"address,omitempty"`
	Accuracy          *float64   `bson:"accuracy,omitempty" json:"accuracy,omitempty"` // meters
	LastUpdated       *time.Time `bson:"last_updated,omitempty" json:"lastUpdated,omitempty"`
	IsManuallyEntered bool       `bson:"is_manually_entered" json:"isManuallyEntered"`
}
