package petitions

import (
	"context"
	"net/http"
	"strings"

	petitionstore "github.com/dalemusser/kairo/internal/app/store/petitions"
	"github.com/dalemusser/kairo/internal/app/system/apierr"
	"github.com/dalemusser/kairo/internal/app/system/auth"
	"github.com/dalemusser/kairo/internal/app/system/httpx"
	"github.com/dalemusser/kairo/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
)

// ServeList handles GET /api/petitions.
//
// With ?mine=<anything> it returns every petition the caller authored
// (auth required). Otherwise it returns active petitions, optionally
// narrowed by ?city= and ?state=.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	v := newViewer(r)

	if query.Get(r, "mine") != "" {
		ident, ok := auth.CurrentIdentity(r)
		if !ok {
			httpx.WriteError(w, r, h.Log, apierr.Unauthorized())
			return
		}
		authorID, err := ident.UserID()
		if err != nil {
			httpx.WriteError(w, r, h.Log, apierr.Unauthorized())
			return
		}
		ps, err := h.Petitions.ListByAuthor(ctx, authorID)
		if err != nil {
			httpx.WriteError(w, r, h.Log, apierr.Internal(err))
			return
		}
		httpx.WriteJSON(w, http.StatusOK, map[string]any{"petitions": v.viewAll(ps)})
		return
	}

	ps, err := h.Petitions.ListActive(ctx, petitionstore.ListFilter{
		City:  strings.TrimSpace(query.Get(r, "city")),
		State: strings.TrimSpace(query.Get(r, "state")),
	})
	if err != nil {
		httpx.WriteError(w, r, h.Log, apierr.Internal(err))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"petitions": v.viewAll(ps)})
}
