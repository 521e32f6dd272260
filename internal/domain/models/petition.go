// internal/domain/models/petition.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Petition statuses. Petitions are created active; draft and closed are
// reserved.
const (
	PetitionStatusDraft  = "draft"
	PetitionStatusActive = "active"
	PetitionStatusClosed = "closed"
)

// Content slot language codes.
const (
	LangEN = "en"
	LangHI = "hi"
)

// Defaults applied when the author leaves a field blank.
const (
	DefaultCategory   = "general"
	DefaultTarget     = "Local Authority"
	DefaultAuthorName = "Citizen"
	DefaultSignerName = "Supporter"
	UntitledPetition  = "Untitled Petition"
)

// ResolveLanguage maps an authoring language to a content slot code.
// Only "hi" selects the Hindi slot; anything else is English.
func ResolveLanguage(lang string) string {
	if lang == LangHI {
		return LangHI
	}
	return LangEN
}

// PetitionContent is one title/description pair.
type PetitionContent struct {
	Title       string `bson:"title" json:"title"`
	Description string `bson:"description" json:"description"`
}

// IsEmpty reports whether neither title nor description is set.
func (c PetitionContent) IsEmpty() bool {
	return c.Title == "" && c.Description == ""
}

// PetitionContents holds the two independent language slots. They are
// not translations of each other; normally only one is populated.
type PetitionContents struct {
	EN PetitionContent `bson:"en" json:"en"`
	HI PetitionContent `bson:"hi" json:"hi"`
}

// Slot returns the slot for a language code (anything but "hi" is en).
func (c PetitionContents) Slot(lang string) PetitionContent {
	if ResolveLanguage(lang) == LangHI {
		return c.HI
	}
	return c.EN
}

// Title returns the first non-empty title, English first.
func (c PetitionContents) Title() string {
	if c.EN.Title != "" {
		return c.EN.Title
	}
	return c.HI.Title
}

// Signature is embedded in a Petition and never edited after append.
type Signature struct {
	UserID   primitive.ObjectID `bson:"user_id" json:"userId"`
	Name     string             `bson:"name" json:"name"`
	Email    string             `bson:"email" json:"email"`
	SignedAt time.Time          `bson:"signed_at" json:"signedAt"`
}

// Petition is the aggregate root for a civic petition and its ledger of
// signatures.
type Petition struct {
	ID         primitive.ObjectID `bson:"_id" json:"_id"`
	Content    PetitionContents   `bson:"content" json:"content"`
	Category   string             `bson:"category" json:"category"`
	City       string             `bson:"city" json:"city"`
	State      string             `bson:"state" json:"state"`
	Target     string             `bson:"target" json:"target"`
	AuthorID   primitive.ObjectID `bson:"author" json:"author"`
	AuthorName string             `bson:"author_name" json:"authorName"` // snapshot at creation
	Status     string             `bson:"status" json:"status"`
	Signatures []Signature        `bson:"signatures" json:"signatures"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// HasSigned reports whether userID already appears in the ledger.
func (p Petition) HasSigned(userID primitive.ObjectID) bool {
	for _, s := range p.Signatures {
		if s.UserID == userID {
			return true
		}
	}
	return false
}
