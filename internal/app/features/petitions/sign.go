package petitions

import (
	"context"
	"errors"
	"net/http"
	"time"

	petitionstore "github.com/dalemusser/kairo/internal/app/store/petitions"
	"github.com/dalemusser/kairo/internal/app/system/apierr"
	"github.com/dalemusser/kairo/internal/app/system/auth"
	"github.com/dalemusser/kairo/internal/app/system/httpx"
	"github.com/dalemusser/kairo/internal/app/system/timeouts"
	"github.com/dalemusser/kairo/internal/domain/models"
	"go.uber.org/zap"
)

// Sign attempt outcomes, used as metric labels.
const (
	signSuccess       = "success"
	signSelf          = "self_sign"
	signAlreadySigned = "already_signed"
	signNotFound      = "not_found"
	signError         = "error"
)

type signResponse struct {
	Message        string `json:"message"`
	SignatureCount int    `json:"signatureCount"`
}

// HandleSign handles POST /api/petitions/{id}/sign.
func (h *Handler) HandleSign(w http.ResponseWriter, r *http.Request) {
	ident, ok := auth.CurrentIdentity(r)
	if !ok {
		httpx.WriteError(w, r, h.Log, apierr.Unauthorized())
		return
	}
	signerID, err := ident.UserID()
	if err != nil {
		httpx.WriteError(w, r, h.Log, apierr.Unauthorized())
		return
	}
	id, err := petitionID(r)
	if err != nil {
		h.Metrics.SignAttempt(signNotFound)
		httpx.WriteError(w, r, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p, err := h.Petitions.AppendSignature(ctx, id, models.Signature{
		UserID:   signerID,
		Name:     firstNonEmpty(ident.Name, ident.Profile.Name, models.DefaultSignerName),
		Email:    ident.Email,
		SignedAt: time.Now().UTC(),
	})
	switch {
	case err == nil:
	case errors.Is(err, petitionstore.ErrNotFound):
		h.Metrics.SignAttempt(signNotFound)
		httpx.WriteError(w, r, h.Log, apierr.NotFound(msgNotFound))
		return
	case errors.Is(err, petitionstore.ErrSelfSign):
		h.Metrics.SignAttempt(signSelf)
		httpx.WriteError(w, r, h.Log, apierr.ValidationReason(apierr.ReasonSelfSign, "You cannot sign your own petition"))
		return
	case errors.Is(err, petitionstore.ErrAlreadySigned):
		h.Metrics.SignAttempt(signAlreadySigned)
		httpx.WriteError(w, r, h.Log, apierr.ValidationReason(apierr.ReasonAlreadySigned, "You have already signed this petition"))
		return
	default:
		h.Metrics.SignAttempt(signError)
		httpx.WriteError(w, r, h.Log, apierr.Internal(err))
		return
	}

	h.Metrics.SignAttempt(signSuccess)
	title := p.Content.Title()
	if title == "" {
		title = models.UntitledPetition
	}
	h.Activity.PetitionSigned(ctx, signerID, p.ID, title)
	h.Log.Info("petition signed",
		zap.String("petition_id", p.ID.Hex()),
		zap.String("signer_id", signerID.Hex()))

	httpx.WriteJSON(w, http.StatusOK, signResponse{
		Message:        "Signature added",
		SignatureCount: len(p.Signatures),
	})
}
