// internal/app/features/assistant/handler.go
package assistant

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/kairo/internal/app/system/apierr"
	"github.com/dalemusser/kairo/internal/app/system/drafter"
	"github.com/dalemusser/kairo/internal/app/system/httpx"
	"github.com/dalemusser/kairo/internal/app/system/metrics"
	"github.com/dalemusser/kairo/internal/app/system/ragclient"
	"github.com/dalemusser/kairo/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Metric endpoint labels.
const (
	endpointAsk      = "ask"
	endpointGenerate = "generate_petition"
)

// Handler proxies the AI endpoints: legal Q&A through the RAG service and
// petition drafting through the chat model. Neither needs an identity.
type Handler struct {
	RAG     *ragclient.Client
	Drafter *drafter.Drafter // nil when no API key is configured
	Metrics *metrics.Metrics
	Log     *zap.Logger
}

func NewHandler(rag *ragclient.Client, d *drafter.Drafter, m *metrics.Metrics, logger *zap.Logger) *Handler {
	return &Handler{RAG: rag, Drafter: d, Metrics: m, Log: logger}
}

type askRequest struct {
	Question any `json:"question"`
}

// HandleAsk handles POST /api/ai/ask.
func (h *Handler) HandleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := httpx.ReadJSON(w, r, &req); err != nil {
		httpx.WriteError(w, r, h.Log, apierr.Validation("Please provide a question."))
		return
	}
	question, _ := req.Question.(string)
	if question = strings.TrimSpace(question); question == "" {
		httpx.WriteError(w, r, h.Log, apierr.Validation("Please provide a question."))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.External())
	defer cancel()

	start := time.Now()
	answer, err := h.RAG.Ask(ctx, question)
	h.Metrics.AICall(endpointAsk, start, err)
	if err != nil {
		httpx.WriteError(w, r, h.Log, askError(err))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"result": answer})
}

func askError(err error) *apierr.Error {
	var upstream *ragclient.UpstreamError
	switch {
	case errors.Is(err, ragclient.ErrNotConfigured):
		return apierr.Misconfigured("RAG API base URL is not configured.", err)
	case errors.Is(err, ragclient.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return apierr.Timeout("RAG service timed out. Please try again.", err)
	case errors.As(err, &upstream):
		return apierr.Upstream(upstream.Message, err)
	case errors.Is(err, ragclient.ErrBadResponse):
		return apierr.Upstream("Unexpected RAG response format.", err)
	default:
		return &apierr.Error{Kind: apierr.KindInternal, Message: "Internal server error.", Err: err}
	}
}

type generateRequest struct {
	WhatAbout     string `json:"whatAbout"`
	WhyImportant  string `json:"whyImportant"`
	PersonalStory string `json:"personalStory"`
	Category      string `json:"category"`
	Target        string `json:"target"`
	Language      string `json:"language"`
}

// HandleGeneratePetition handles POST /api/ai/generate-petition. The
// draft is returned to the client for editing; nothing is stored.
func (h *Handler) HandleGeneratePetition(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := httpx.ReadJSON(w, r, &req); err != nil {
		httpx.WriteError(w, r, h.Log, apierr.Validation("Please provide the petition details"))
		return
	}
	if strings.TrimSpace(req.WhatAbout) == "" || strings.TrimSpace(req.WhyImportant) == "" {
		httpx.WriteError(w, r, h.Log, apierr.Validation("Please provide the petition details"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.External())
	defer cancel()

	start := time.Now()
	draft, err := h.Drafter.Draft(ctx, drafter.Request{
		WhatAbout:     req.WhatAbout,
		WhyImportant:  req.WhyImportant,
		PersonalStory: req.PersonalStory,
		Category:      req.Category,
		Target:        req.Target,
		Language:      req.Language,
	})
	h.Metrics.AICall(endpointGenerate, start, err)
	if err != nil {
		httpx.WriteError(w, r, h.Log, generateError(err))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, draft)
}

func generateError(err error) *apierr.Error {
	switch {
	case errors.Is(err, drafter.ErrNotConfigured):
		return apierr.Misconfigured("GROQ API key not configured", err)
	case errors.Is(err, drafter.ErrUnparsable):
		return &apierr.Error{Kind: apierr.KindInternal, Message: "AI response could not be parsed. Please try again.", Err: err}
	case errors.Is(err, drafter.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return apierr.Timeout("AI service timed out. Please try again.", err)
	default:
		return apierr.Internal(err)
	}
}
