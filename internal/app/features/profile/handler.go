// internal/app/features/profile/handler.go
package profile

import (
	"context"
	"errors"
	"net/http"
	"strings"

	userstore "github.com/dalemusser/kairo/internal/app/store/users"
	"github.com/dalemusser/kairo/internal/app/system/apierr"
	"github.com/dalemusser/kairo/internal/app/system/auth"
	"github.com/dalemusser/kairo/internal/app/system/httpx"
	"github.com/dalemusser/kairo/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the signed-in user's own profile updates.
type Handler struct {
	Users *userstore.Store
	Log   *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{Users: userstore.New(db), Log: logger}
}

type geoPoint struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Address   string   `json:"address"`
	Accuracy  *float64 `json:"accuracy"`
}

type locationRequest struct {
	Location          *geoPoint `json:"location"`
	City              string    `json:"city"`
	State             string    `json:"state"`
	District          string    `json:"district"`
	Pincode           string    `json:"pincode"`
	Address           string    `json:"address"`
	IsManuallyEntered bool      `json:"isManuallyEntered"`
}

// toUpdate flattens the request. A top-level address wins over the one
// inside location.
func (req locationRequest) toUpdate() userstore.LocationUpdate {
	upd := userstore.LocationUpdate{
		City:              strings.TrimSpace(req.City),
		State:             strings.TrimSpace(req.State),
		District:          strings.TrimSpace(req.District),
		Pincode:           strings.TrimSpace(req.Pincode),
		Address:           strings.TrimSpace(req.Address),
		IsManuallyEntered: req.IsManuallyEntered,
	}
	if loc := req.Location; loc != nil {
		upd.Latitude = loc.Latitude
		upd.Longitude = loc.Longitude
		upd.Accuracy = loc.Accuracy
		if upd.Address == "" {
			upd.Address = strings.TrimSpace(loc.Address)
		}
	}
	return upd
}

// HandleLocation handles POST /api/user/location and returns the
// refreshed identity payload. The caller's token is not reissued, so
// the client should keep the returned user rather than the token claims.
func (h *Handler) HandleLocation(w http.ResponseWriter, r *http.Request) {
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

	var req locationRequest
	if err := httpx.ReadJSON(w, r, &req); err != nil {
		httpx.WriteError(w, r, h.Log, apierr.Validation("Invalid request body"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.UpdateLocation(ctx, userID, req.toUpdate())
	if errors.Is(err, userstore.ErrNotFound) {
		httpx.WriteError(w, r, h.Log, apierr.NotFound("User not found"))
		return
	}
	if err != nil {
		httpx.WriteError(w, r, h.Log, apierr.Internal(err))
		return
	}

	h.Log.Debug("location updated",
		zap.String("user_id", userID.Hex()),
		zap.Bool("location_enabled", u.Profile.IsLocationEnabled))
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"user": auth.FromUser(*u)})
}
