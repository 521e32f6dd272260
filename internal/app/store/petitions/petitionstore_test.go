package petitionstore_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	petitionstore "github.com/dalemusser/kairo/internal/app/store/petitions"
	"github.com/dalemusser/kairo/internal/domain/models"
	"github.com/dalemusser/kairo/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreate_SetsDefaults(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := petitionstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	p, err := store.Create(ctx, models.Petition{
		Content:  models.PetitionContents{EN: models.PetitionContent{Title: "Fix", Description: "Drain"}},
		AuthorID: primitive.NewObjectID(),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if p.ID.IsZero() {
		t.Error("expected ID to be generated")
	}
	if p.Status != models.PetitionStatusActive {
		t.Errorf("Status: got %q, want %q", p.Status, models.PetitionStatusActive)
	}

	got, err := store.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Signatures == nil || len(got.Signatures) != 0 {
		t.Errorf("expected empty signature ledger, got %#v", got.Signatures)
	}
	if got.Content.EN.Title != "Fix" {
		t.Errorf("Title: got %q, want %q", got.Content.EN.Title, "Fix")
	}
}

func TestGetByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := petitionstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.GetByID(ctx, primitive.NewObjectID()); !errors.Is(err, petitionstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func titles(ps []models.Petition) map[string]bool {
	out := map[string]bool{}
	for _, p := range ps {
		out[p.Content.Title()] = true
	}
	return out
}

func TestListActive_CityFilter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := petitionstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	author := fx.CreateUser(ctx, "Author", testutil.UserOpts{})
	fx.CreatePetition(ctx, author, "mumbai", testutil.PetitionOpts{City: "Mumbai"})
	fx.CreatePetition(ctx, author, "suburbs", testutil.PetitionOpts{City: "Mumbai Suburbs"})
	fx.CreatePetition(ctx, author, "regex", testutil.PetitionOpts{City: "M.mbai"})

	got, err := store.ListActive(ctx, petitionstore.ListFilter{City: "mumbai"})
	if err != nil {
		t.Fatalf("ListActive failed: %v", err)
	}
	ts := titles(got)
	if !ts["mumbai"] {
		t.Error("expected case-insensitive match on Mumbai")
	}
	if ts["suburbs"] {
		t.Error("city filter must be exact, not prefix")
	}

	got, err = store.ListActive(ctx, petitionstore.ListFilter{City: "M.mbai"})
	if err != nil {
		t.Fatalf("ListActive failed: %v", err)
	}
	ts = titles(got)
	if len(got) != 1 || !ts["regex"] {
		t.Errorf("metacharacters must be literal, got %v", ts)
	}
}

func TestListActive_StateFilterIncludesStateless(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := petitionstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	author := fx.CreateUser(ctx, "Author", testutil.UserOpts{})
	fx.CreatePetition(ctx, author, "kerala", testutil.PetitionOpts{State: "Kerala"})
	fx.CreatePetition(ctx, author, "goa", testutil.PetitionOpts{State: "goa"})
	fx.CreatePetition(ctx, author, "empty", testutil.PetitionOpts{})

	// A document with the state field absent entirely.
	missing := primitive.NewObjectID()
	_, err := db.Collection("petitions").InsertOne(ctx, bson.M{
		"_id":        missing,
		"content":    bson.M{"en": bson.M{"title": "missing", "description": "d"}},
		"status":     models.PetitionStatusActive,
		"author":     author.ID,
		"signatures": bson.A{},
		"created_at": time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	got, err := store.ListActive(ctx, petitionstore.ListFilter{State: "Goa"})
	if err != nil {
		t.Fatalf("ListActive failed: %v", err)
	}
	ts := titles(got)
	for _, want := range []string{"goa", "empty", "missing"} {
		if !ts[want] {
			t.Errorf("expected %q in state=Goa results", want)
		}
	}
	if ts["kerala"] {
		t.Error("Kerala petition must not appear for state=Goa")
	}
}

func TestListActive_OnlyActiveNewestFirst(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := petitionstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	author := fx.CreateUser(ctx, "Author", testutil.UserOpts{})
	fx.CreatePetition(ctx, author, "first", testutil.PetitionOpts{})
	time.Sleep(5 * time.Millisecond)
	fx.CreatePetition(ctx, author, "closed", testutil.PetitionOpts{Status: models.PetitionStatusClosed})
	time.Sleep(5 * time.Millisecond)
	fx.CreatePetition(ctx, author, "second", testutil.PetitionOpts{})

	got, err := store.ListActive(ctx, petitionstore.ListFilter{})
	if err != nil {
		t.Fatalf("ListActive failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 active petitions, got %d", len(got))
	}
	if got[0].Content.Title() != "second" || got[1].Content.Title() != "first" {
		t.Errorf("expected newest first, got %q then %q", got[0].Content.Title(), got[1].Content.Title())
	}
}

func TestListByAuthor_AnyStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := petitionstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a := fx.CreateUser(ctx, "A", testutil.UserOpts{})
	b := fx.CreateUser(ctx, "B", testutil.UserOpts{})
	fx.CreatePetition(ctx, a, "a-active", testutil.PetitionOpts{})
	fx.CreatePetition(ctx, a, "a-draft", testutil.PetitionOpts{Status: models.PetitionStatusDraft})
	fx.CreatePetition(ctx, b, "b-active", testutil.PetitionOpts{})

	got, err := store.ListByAuthor(ctx, a.ID)
	if err != nil {
		t.Fatalf("ListByAuthor failed: %v", err)
	}
	ts := titles(got)
	if len(got) != 2 || !ts["a-active"] || !ts["a-draft"] {
		t.Errorf("unexpected petitions %v", ts)
	}

	none, err := store.ListByAuthor(ctx, primitive.NewObjectID())
	if err != nil {
		t.Fatalf("ListByAuthor failed: %v", err)
	}
	if none == nil || len(none) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", none)
	}
}

func signature(u models.User) models.Signature {
	return models.Signature{UserID: u.ID, Name: u.Profile.Name, Email: u.Email, SignedAt: time.Now().UTC()}
}

func TestAppendSignature(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := petitionstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	author := fx.CreateUser(ctx, "Author", testutil.UserOpts{})
	signer := fx.CreateUser(ctx, "Signer", testutil.UserOpts{})
	p := fx.CreatePetition(ctx, author, "Fix the drain", testutil.PetitionOpts{})

	updated, err := store.AppendSignature(ctx, p.ID, signature(signer))
	if err != nil {
		t.Fatalf("AppendSignature failed: %v", err)
	}
	if len(updated.Signatures) != 1 || updated.Signatures[0].UserID != signer.ID {
		t.Fatalf("unexpected ledger %+v", updated.Signatures)
	}

	if _, err := store.AppendSignature(ctx, p.ID, signature(signer)); !errors.Is(err, petitionstore.ErrAlreadySigned) {
		t.Errorf("second sign: expected ErrAlreadySigned, got %v", err)
	}
	if _, err := store.AppendSignature(ctx, p.ID, signature(author)); !errors.Is(err, petitionstore.ErrSelfSign) {
		t.Errorf("author sign: expected ErrSelfSign, got %v", err)
	}
	if _, err := store.AppendSignature(ctx, primitive.NewObjectID(), signature(signer)); !errors.Is(err, petitionstore.ErrNotFound) {
		t.Errorf("unknown petition: expected ErrNotFound, got %v", err)
	}

	got, _ := store.GetByID(ctx, p.ID)
	if len(got.Signatures) != 1 {
		t.Errorf("ledger changed by failed signs: %d signatures", len(got.Signatures))
	}
}

func TestAppendSignature_ConcurrentDuplicate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := petitionstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	author := fx.CreateUser(ctx, "Author", testutil.UserOpts{})
	signer := fx.CreateUser(ctx, "Signer", testutil.UserOpts{})
	p := fx.CreatePetition(ctx, author, "Race", testutil.PetitionOpts{})

	const n = 8
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.AppendSignature(ctx, p.ID, signature(signer))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, petitionstore.ErrAlreadySigned):
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Errorf("expected exactly one successful sign, got %d", succeeded)
	}

	got, _ := store.GetByID(ctx, p.ID)
	if len(got.Signatures) != 1 {
		t.Errorf("expected 1 signature, got %d", len(got.Signatures))
	}
}
