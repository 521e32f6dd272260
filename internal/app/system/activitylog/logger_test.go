package activitylog_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/kairo/internal/app/store/activity"
	"github.com/dalemusser/kairo/internal/app/system/activitylog"
	"github.com/dalemusser/kairo/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger_NilLogger(t *testing.T) {
	// nil logger should be a no-op (not panic)
	var logger *activitylog.Logger
	ctx, cancel := testutil.TestContext()
	defer cancel()
	req := httptest.NewRequest("POST", "/api/auth/login", nil)

	logger.PetitionCreated(ctx, primitive.NewObjectID(), primitive.NewObjectID(), "t")
	logger.LoginSucceeded(req, primitive.NewObjectID())
	logger.LoginFailed(req, "wrong_password")
}

func TestLogger_PetitionEvents(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := activity.New(db)
	logger := activitylog.New(store, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	petitionID := primitive.NewObjectID()
	logger.PetitionCreated(ctx, userID, petitionID, "Fix the drain")
	logger.PetitionSigned(ctx, userID, petitionID, "Fix the drain")

	events, err := store.ListRecent(ctx, userID, 10)
	if err != nil {
		t.Fatalf("ListRecent failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	kinds := map[string]bool{}
	for _, e := range events {
		kinds[e.Type] = true
		if e.PetitionID != petitionID {
			t.Errorf("PetitionID: got %v, want %v", e.PetitionID, petitionID)
		}
	}
	if !kinds[activity.EventPetitionCreated] || !kinds[activity.EventPetitionSigned] {
		t.Errorf("unexpected kinds %v", kinds)
	}
}

func TestLogger_Record_SurvivesCanceledContext(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := activity.New(db)
	logger := activitylog.New(store, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	userID := primitive.NewObjectID()
	logger.PetitionSigned(ctx, userID, primitive.NewObjectID(), "t")

	rctx, rcancel := testutil.TestContext()
	defer rcancel()
	events, err := store.ListRecent(rctx, userID, 10)
	if err != nil {
		t.Fatalf("ListRecent failed: %v", err)
	}
	if len(events) != 1 {
		t.Errorf("expected the record to be written despite cancellation, got %d", len(events))
	}
}

func TestLogger_AuthAudit(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := activitylog.New(nil, zap.New(core))

	req := httptest.NewRequest("POST", "/api/auth/login", nil)
	req.Header.Set("X-Real-IP", "198.51.100.7")

	logger.LoginSucceeded(req, primitive.NewObjectID())
	logger.LoginFailed(req, "wrong_password")

	entries := logs.FilterMessage("audit event").All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 audit entries, got %d", len(entries))
	}
	if entries[0].Level != zapcore.InfoLevel || entries[1].Level != zapcore.WarnLevel {
		t.Errorf("levels: got %v, %v", entries[0].Level, entries[1].Level)
	}
	fields := entries[1].ContextMap()
	if fields["failure_reason"] != "wrong_password" {
		t.Errorf("failure_reason: got %v", fields["failure_reason"])
	}
	if fields["ip"] != "198.51.100.7" {
		t.Errorf("ip: got %v", fields["ip"])
	}
}
