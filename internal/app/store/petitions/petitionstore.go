// internal/app/store/petitions/petitionstore.go
package petitionstore

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/dalemusser/kairo/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound is returned when no petition matches.
	ErrNotFound = errors.New("petition not found")
	// ErrSelfSign is returned when the author tries to sign.
	ErrSelfSign = errors.New("author cannot sign own petition")
	// ErrAlreadySigned is returned when the signer is already in the ledger.
	ErrAlreadySigned = errors.New("petition already signed by user")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("petitions")}
}

// Create inserts p. The ID, timestamps and an empty (non-nil) signature
// ledger are set here; status defaults to active.
func (s *Store) Create(ctx context.Context, p models.Petition) (models.Petition, error) {
	p.ID = primitive.NewObjectID()
	if p.Status == "" {
		p.Status = models.PetitionStatusActive
	}
	if p.Signatures == nil {
		p.Signatures = []models.Signature{}
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.Petition{}, fmt.Errorf("insert petition: %w", err)
	}
	return p, nil
}

// GetByID loads a petition.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Petition, error) {
	var p models.Petition
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// ListFilter narrows the public list. Empty fields are ignored.
type ListFilter struct {
	City  string
	State string
}

// exactFold matches v exactly, ignoring case. Regex metacharacters in v
// are escaped.
func exactFold(v string) bson.M {
	return bson.M{"$regex": "^" + regexp.QuoteMeta(v) + "$", "$options": "i"}
}

// PublicFilter builds the Mongo filter for ListActive. A petition with no
// state is included whatever state is requested.
func PublicFilter(f ListFilter) bson.M {
	filter := bson.M{"status": models.PetitionStatusActive}
	if f.City != "" {
		filter["city"] = exactFold(f.City)
	}
	if f.State != "" {
		filter["$or"] = bson.A{
			bson.M{"state": exactFold(f.State)},
			bson.M{"state": bson.M{"$exists": false}},
			bson.M{"state": ""},
			bson.M{"state": nil},
		}
	}
	return filter
}

var newestFirst = options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.Petition, error) {
	cur, err := s.c.Find(ctx, filter, newestFirst)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Petition{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListActive returns active petitions matching f, newest first.
func (s *Store) ListActive(ctx context.Context, f ListFilter) ([]models.Petition, error) {
	return s.find(ctx, PublicFilter(f))
}

// ListByAuthor returns every petition authored by author, newest first,
// regardless of status.
func (s *Store) ListByAuthor(ctx context.Context, author primitive.ObjectID) ([]models.Petition, error) {
	return s.find(ctx, bson.M{"author": author})
}

// classify explains why sig could not be appended to p.
func classify(p *models.Petition, signer primitive.ObjectID) error {
	if p.AuthorID == signer {
		return ErrSelfSign
	}
	if p.HasSigned(signer) {
		return ErrAlreadySigned
	}
	return nil
}

// AppendSignature adds sig to petition id and returns the updated
// petition.
//
// The ledger is checked first so the error is precise, then the push is
// made conditional on the signer still being absent (and not the author).
// If a concurrent request wins the race the petition is re-read and the
// failure classified again, so a user is never recorded twice.
func (s *Store) AppendSignature(ctx context.Context, id primitive.ObjectID, sig models.Signature) (*models.Petition, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := classify(p, sig.UserID); err != nil {
		return nil, err
	}

	filter := bson.M{
		"_id":                id,
		"author":             bson.M{"$ne": sig.UserID},
		"signatures.user_id": bson.M{"$ne": sig.UserID},
	}
	update := bson.M{
		"$push": bson.M{"signatures": sig},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Petition
	err = s.c.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated)
	if err == nil {
		return &updated, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("append signature: %w", err)
	}

	p, err = s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := classify(p, sig.UserID); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("append signature: petition %s changed concurrently", id.Hex())
}
