// internal/app/system/activitylog/logger.go
package activitylog

// Terminology: User Identifiers
//   - UserID / userID / user_id: The MongoDB ObjectID (_id) that uniquely identifies a user record
//   - Identifier: the email or phone number a user types to log in

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/kairo/internal/app/store/activity"
	"github.com/dalemusser/kairo/internal/app/system/ratelimit"
	"github.com/dalemusser/kairo/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Logger records petition lifecycle activity in MongoDB and writes auth
// audit lines to zap. Recording never fails the caller: a write error is
// logged and dropped.
type Logger struct {
	store  *activity.Store
	zapLog *zap.Logger
}

// New creates a new activity Logger.
func New(store *activity.Store, zapLog *zap.Logger) *Logger {
	return &Logger{store: store, zapLog: zapLog}
}

// Record appends one activity event. The write gets its own deadline and
// survives cancellation of ctx, so a client hanging up after a successful
// mutation does not lose the record.
// If the logger is nil, this is a no-op (allows tests to pass a nil logger).
func (l *Logger) Record(ctx context.Context, userID primitive.ObjectID, kind string, petitionID primitive.ObjectID, title string) {
	if l == nil || l.store == nil {
		return
	}

	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeouts.Short())
	defer cancel()

	err := l.store.Create(wctx, activity.Event{
		UserID:        userID,
		Type:          kind,
		PetitionID:    petitionID,
		PetitionTitle: title,
		CreatedAt:     time.Now().UTC(),
	})
	if err != nil {
		l.zapLog.Warn("activity record failed",
			zap.String("user_id", userID.Hex()),
			zap.String("type", kind),
			zap.String("petition_id", petitionID.Hex()),
			zap.Error(err))
	}
}

// PetitionCreated records that userID authored a petition.
func (l *Logger) PetitionCreated(ctx context.Context, userID, petitionID primitive.ObjectID, title string) {
	l.Record(ctx, userID, activity.EventPetitionCreated, petitionID, title)
}

// PetitionSigned records that userID signed a petition.
func (l *Logger) PetitionSigned(ctx context.Context, userID, petitionID primitive.ObjectID, title string) {
	l.Record(ctx, userID, activity.EventPetitionSigned, petitionID, title)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Auth audit (zap only)                                                      |
*─────────────────────────────────────────────────────────────────────────────*/

func (l *Logger) audit(r *http.Request, event string, success bool, fields ...zap.Field) {
	if l == nil || l.zapLog == nil {
		return
	}
	fields = append([]zap.Field{
		zap.Bool("audit", true),
		zap.String("event_type", event),
		zap.Bool("success", success),
		zap.String("ip", ratelimit.ClientIP(r)),
	}, fields...)
	if success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// SignupSucceeded logs a new account.
func (l *Logger) SignupSucceeded(r *http.Request, userID primitive.ObjectID) {
	l.audit(r, "signup", true, zap.String("user_id", userID.Hex()))
}

// LoginSucceeded logs a successful password login.
func (l *Logger) LoginSucceeded(r *http.Request, userID primitive.ObjectID) {
	l.audit(r, "login_success", true, zap.String("user_id", userID.Hex()))
}

// LoginFailed logs a rejected login. reason is one of "user_not_found",
// "wrong_password" or "rate_limit".
func (l *Logger) LoginFailed(r *http.Request, reason string) {
	l.audit(r, "login_failed", false, zap.String("failure_reason", reason))
}

// PhoneVerified logs a successful OTP verification.
func (l *Logger) PhoneVerified(r *http.Request, userID primitive.ObjectID) {
	l.audit(r, "phone_verified", true, zap.String("user_id", userID.Hex()))
}

// PhoneVerificationFailed logs a rejected OTP.
func (l *Logger) PhoneVerificationFailed(r *http.Request, reason string) {
	l.audit(r, "phone_verification_failed", false, zap.String("failure_reason", reason))
}
