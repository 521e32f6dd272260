package activity_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	featureactivity "github.com/dalemusser/kairo/internal/app/features/activity"
	"github.com/dalemusser/kairo/internal/app/store/activity"
	"github.com/dalemusser/kairo/internal/domain/models"
	"github.com/dalemusser/kairo/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*featureactivity.Handler, *mongo.Database, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return featureactivity.NewHandler(db, zap.NewNop()), db, testutil.NewFixtures(t, db)
}

func seedEvents(t *testing.T, db *mongo.Database, userID primitive.ObjectID, n int) {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := activity.New(db)
	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < n; i++ {
		err := store.Create(ctx, activity.Event{
			UserID:        userID,
			Type:          activity.EventPetitionSigned,
			PetitionID:    primitive.NewObjectID(),
			PetitionTitle: fmt.Sprintf("Petition %02d", i),
			CreatedAt:     base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("seed event: %v", err)
		}
	}
}

func serveRecent(t *testing.T, h *featureactivity.Handler, target string, u models.User) []activity.Event {
	t.Helper()
	rec := testutil.NewRecorder()
	h.ServeRecent(rec, testutil.NewAuthenticatedRequest(t, http.MethodGet, target, nil, u))
	rec.AssertStatus(t, http.StatusOK)

	var out struct {
		Activity []activity.Event `json:"activity"`
	}
	rec.DecodeJSON(t, &out)
	return out.Activity
}

func TestServeRecent_LimitClamping(t *testing.T) {
	h, db, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fx.CreateUser(ctx, "Asha", testutil.UserOpts{})
	seedEvents(t, db, u.ID, 25)

	tests := []struct {
		query string
		want  int
	}{
		{"", 10},
		{"?limit=5", 5},
		{"?limit=9999", 20},
		{"?limit=0", 10},
		{"?limit=-5", 10},
		{"?limit=abc", 10},
	}
	for _, tt := range tests {
		t.Run("limit"+tt.query, func(t *testing.T) {
			got := serveRecent(t, h, "/api/activity"+tt.query, u)
			if len(got) != tt.want {
				t.Errorf("got %d events, want %d", len(got), tt.want)
			}
		})
	}
}

func TestServeRecent_NewestFirstAndScoped(t *testing.T) {
	h, db, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	me := fx.CreateUser(ctx, "Me", testutil.UserOpts{})
	other := fx.CreateUser(ctx, "Other", testutil.UserOpts{})
	seedEvents(t, db, me.ID, 3)
	seedEvents(t, db, other.ID, 4)

	got := serveRecent(t, h, "/api/activity", me)
	if len(got) != 3 {
		t.Fatalf("got %d events, want 3", len(got))
	}
	if got[0].PetitionTitle != "Petition 02" || got[2].PetitionTitle != "Petition 00" {
		t.Errorf("order: got %q .. %q", got[0].PetitionTitle, got[2].PetitionTitle)
	}
	for _, ev := range got {
		if ev.UserID != me.ID {
			t.Errorf("event for another user leaked: %+v", ev)
		}
	}
}

func TestServeRecent_EmptyIsArray(t *testing.T) {
	h, _, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fx.CreateUser(ctx, "Asha", testutil.UserOpts{})
	rec := testutil.NewRecorder()
	h.ServeRecent(rec, testutil.NewAuthenticatedRequest(t, http.MethodGet, "/api/activity", nil, u))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"activity":[]`)
}

func TestRoutes_RequireIdentity(t *testing.T) {
	h, _, _ := newTestHandler(t)

	rec := testutil.NewRecorder()
	featureactivity.Routes(h).ServeHTTP(rec, testutil.NewRequest(http.MethodGet, "/"))
	rec.AssertStatus(t, http.StatusUnauthorized)
	rec.AssertContains(t, `"error":"Unauthorized"`)
}
