package petitions

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/kairo/internal/app/system/apierr"
	"github.com/dalemusser/kairo/internal/app/system/auth"
	"github.com/dalemusser/kairo/internal/app/system/htmlsanitize"
	"github.com/dalemusser/kairo/internal/app/system/httpx"
	"github.com/dalemusser/kairo/internal/app/system/timeouts"
	"github.com/dalemusser/kairo/internal/domain/models"
	"go.uber.org/zap"
)

const msgMarkup = "Title and description must be plain text without HTML tags"

type createRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Target      string `json:"target"`
	Language    string `json:"language"`
	City        string `json:"city"`
	State       string `json:"state"`
}

// HandleCreate handles POST /api/petitions.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
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

	var req createRequest
	if err := httpx.ReadJSON(w, r, &req); err != nil {
		httpx.WriteError(w, r, h.Log, apierr.Validation("Invalid request body"))
		return
	}

	title := strings.TrimSpace(req.Title)
	description := strings.TrimSpace(req.Description)
	if title == "" || description == "" {
		httpx.WriteError(w, r, h.Log, apierr.Validation("Title and description are required"))
		return
	}
	if !htmlsanitize.IsPlainText(title) || !htmlsanitize.IsPlainText(description) {
		httpx.WriteError(w, r, h.Log, apierr.Validation(msgMarkup))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	city := strings.TrimSpace(req.City)
	state := strings.TrimSpace(req.State)
	if city == "" && state == "" {
		// Point-in-time read; later profile edits do not move the petition.
		if u, err := h.Users.GetByID(ctx, authorID); err == nil {
			city = strings.TrimSpace(u.Profile.City)
			state = strings.TrimSpace(u.Profile.State)
		} else {
			h.Log.Debug("petition create: author profile unavailable",
				zap.String("user_id", authorID.Hex()), zap.Error(err))
		}
	}

	content := models.PetitionContent{Title: title, Description: description}
	p := models.Petition{
		Category:   orDefault(req.Category, models.DefaultCategory),
		City:       city,
		State:      state,
		Target:     orDefault(req.Target, models.DefaultTarget),
		AuthorID:   authorID,
		AuthorName: firstNonEmpty(ident.Name, ident.Profile.Name, models.DefaultAuthorName),
		Status:     models.PetitionStatusActive,
	}
	if models.ResolveLanguage(req.Language) == models.LangHI {
		p.Content.HI = content
	} else {
		p.Content.EN = content
	}

	p, err = h.Petitions.Create(ctx, p)
	if err != nil {
		httpx.WriteError(w, r, h.Log, apierr.Internal(err))
		return
	}

	h.Metrics.PetitionCreated()
	h.Activity.PetitionCreated(ctx, authorID, p.ID, title)
	h.Log.Info("petition created",
		zap.String("petition_id", p.ID.Hex()),
		zap.String("author_id", authorID.Hex()))

	httpx.WriteJSON(w, http.StatusCreated, map[string]any{"petition": newViewer(r).view(p)})
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v == "" {
		return def
	}
	return v
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
