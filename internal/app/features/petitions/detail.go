package petitions

import (
	"context"
	"errors"
	"net/http"

	petitionstore "github.com/dalemusser/kairo/internal/app/store/petitions"
	"github.com/dalemusser/kairo/internal/app/system/apierr"
	"github.com/dalemusser/kairo/internal/app/system/httpx"
	"github.com/dalemusser/kairo/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const msgNotFound = "Petition not found"

// petitionID parses the {id} route parameter. A malformed id is reported
// as not found, the same as a missing petition.
func petitionID(r *http.Request) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		return primitive.NilObjectID, apierr.NotFound(msgNotFound)
	}
	return id, nil
}

// ServeDetail handles GET /api/petitions/{id}.
func (h *Handler) ServeDetail(w http.ResponseWriter, r *http.Request) {
	id, err := petitionID(r)
	if err != nil {
		httpx.WriteError(w, r, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, err := h.Petitions.GetByID(ctx, id)
	if errors.Is(err, petitionstore.ErrNotFound) {
		httpx.WriteError(w, r, h.Log, apierr.NotFound(msgNotFound))
		return
	}
	if err != nil {
		httpx.WriteError(w, r, h.Log, apierr.Internal(err))
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{"petition": newViewer(r).view(*p)})
}
