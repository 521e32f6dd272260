// internal/app/features/activity/handler.go
package activity

import (
	"context"
	"net/http"

	"github.com/dalemusser/kairo/internal/app/store/activity"
	"github.com/dalemusser/kairo/internal/app/system/apierr"
	"github.com/dalemusser/kairo/internal/app/system/auth"
	"github.com/dalemusser/kairo/internal/app/system/httpx"
	"github.com/dalemusser/kairo/internal/app/system/paging"
	"github.com/dalemusser/kairo/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the caller's own activity feed.
type Handler struct {
	Activity *activity.Store
	Log      *zap.Logger
}

// NewHandler creates a new activity Handler.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Activity: activity.New(db),
		Log:      logger,
	}
}

// ServeRecent handles GET /api/activity?limit=N.
func (h *Handler) ServeRecent(w http.ResponseWriter, r *http.Request) {
	ident, ok := auth.CurrentIdentity(r)
	if !ok {
		httpx.WriteError(w, r, h.Log, apierr.Unauthorized())
		return
	}
	userID, err := ident.UserID()
	if err != nil {
		httpx.WriteError(w, r, h.Log, apierr.Unauthorized())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	events, err := h.Activity.ListRecent(ctx, userID, int64(paging.ParseLimit(r, "limit")))
	if err != nil {
		httpx.WriteError(w, r, h.Log, apierr.Internal(err))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"activity": events})
}
