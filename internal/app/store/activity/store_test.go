package activity_test

import (
	"testing"
	"time"

	"github.com/dalemusser/kairo/internal/app/store/activity"
	"github.com/dalemusser/kairo/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Create_AutoGeneratesIDAndTime(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := activity.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	err := store.Create(ctx, activity.Event{
		UserID:        userID,
		Type:          activity.EventPetitionCreated,
		PetitionID:    primitive.NewObjectID(),
		PetitionTitle: "Fix the drain",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	events, err := store.ListRecent(ctx, userID, 10)
	if err != nil {
		t.Fatalf("ListRecent failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].ID.IsZero() {
		t.Error("expected ID to be auto-generated")
	}
	if events[0].CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
	if events[0].PetitionTitle != "Fix the drain" {
		t.Errorf("PetitionTitle: got %q, want %q", events[0].PetitionTitle, "Fix the drain")
	}
}

func TestStore_ListRecent_NewestFirstWithLimit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := activity.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		err := store.Create(ctx, activity.Event{
			UserID:        userID,
			Type:          activity.EventPetitionSigned,
			PetitionID:    primitive.NewObjectID(),
			PetitionTitle: string(rune('a' + i)),
			CreatedAt:     base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}
	// Another user's event must not leak in.
	_ = store.Create(ctx, activity.Event{UserID: primitive.NewObjectID(), Type: activity.EventPetitionSigned})

	events, err := store.ListRecent(ctx, userID, 3)
	if err != nil {
		t.Fatalf("ListRecent failed: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	want := []string{"e", "d", "c"}
	for i, e := range events {
		if e.PetitionTitle != want[i] {
			t.Errorf("events[%d]: got %q, want %q", i, e.PetitionTitle, want[i])
		}
	}
}

func TestStore_ListRecent_Empty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := activity.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	events, err := store.ListRecent(ctx, primitive.NewObjectID(), 10)
	if err != nil {
		t.Fatalf("ListRecent failed: %v", err)
	}
	if events == nil || len(events) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", events)
	}
}
