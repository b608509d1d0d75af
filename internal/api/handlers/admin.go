package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/nikhilbhutani/ttsthrowdown/internal/auth"
	"github.com/nikhilbhutani/ttsthrowdown/internal/catalog"
	"github.com/nikhilbhutani/ttsthrowdown/internal/queue"
)

// WarmEnqueuer is satisfied by *queue.Client.
type WarmEnqueuer interface {
	EnqueueAudioWarm(ctx context.Context, payload queue.AudioWarmPayload) (bool, error)
}

type AdminHandler struct {
	queue   WarmEnqueuer
	catalog *catalog.Catalog
}

func NewAdminHandler(q WarmEnqueuer, cat *catalog.Catalog) *AdminHandler {
	return &AdminHandler{queue: q, catalog: cat}
}

// Warm queues a cache warm-up for every enabled provider and prompt.
func (h *AdminHandler) Warm(w http.ResponseWriter, r *http.Request) {
	if h.queue == nil {
		writeError(w, http.StatusServiceUnavailable, "warm-up queue unavailable")
		return
	}

	var queued, skipped int
	for _, p := range h.catalog.EnabledProviders() {
		for _, pr := range h.catalog.Prompts {
			ok, err := h.queue.EnqueueAudioWarm(r.Context(), queue.AudioWarmPayload{ProviderID: p.ID, PromptID: pr.ID})
			if err != nil {
				slog.Error("enqueue warm-up failed", "provider", p.ID, "prompt", pr.ID, "error", err)
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
			if ok {
				queued++
			} else {
				skipped++
			}
		}
	}

	var by string
	if c := auth.ClaimsFromContext(r.Context()); c != nil {
		by = c.Subject
	}
	slog.Info("cache warm-up requested", "queued", queued, "already_pending", skipped, "by", by)

	writeJSON(w, http.StatusAccepted, map[string]int{"queued": queued, "alreadyPending": skipped})
}
