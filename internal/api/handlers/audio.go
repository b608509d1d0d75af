package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/nikhilbhutani/ttsthrowdown/internal/catalog"
	"github.com/nikhilbhutani/ttsthrowdown/internal/generation"
)

const (
	cacheControlHit  = "public, max-age=31536000, immutable"
	cacheControlMiss = "public, max-age=86400"
)

// AudioService is satisfied by *generation.Orchestrator.
type AudioService interface {
	GetOrCreate(ctx context.Context, req generation.Request) (*generation.Audio, error)
}

type AudioHandler struct {
	audio   AudioService
	catalog *catalog.Catalog
}

func NewAudioHandler(audio AudioService, cat *catalog.Catalog) *AudioHandler {
	return &AudioHandler{audio: audio, catalog: cat}
}

// Get serves the clip for ?provider=&prompt=, generating it on first request.
func (h *AudioHandler) Get(w http.ResponseWriter, r *http.Request) {
	providerID := r.URL.Query().Get("provider")
	promptID := r.URL.Query().Get("prompt")
	if providerID == "" || promptID == "" {
		writeError(w, http.StatusBadRequest, "missing provider or prompt")
		return
	}

	_, providerOK := h.catalog.Provider(providerID)
	prompt, promptOK := h.catalog.Prompt(promptID)
	if !providerOK || !promptOK {
		writeError(w, http.StatusBadRequest, "unknown provider or prompt")
		return
	}

	res, err := h.audio.GetOrCreate(r.Context(), generation.Request{
		ProviderID: providerID,
		PromptID:   prompt.ID,
		PromptText: prompt.Text,
	})
	if errors.Is(err, generation.ErrUnsupportedProvider) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		slog.Error("audio generation failed", "provider", providerID, "prompt", promptID, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	hdr := w.Header()
	hdr.Set("Content-Type", res.Format.ContentType())
	hdr.Set("Content-Length", strconv.Itoa(len(res.Data)))
	hdr.Set("X-TTS-Provider", providerID)
	hdr.Set("X-TTS-Voice", res.Voice)
	hdr.Set("X-TTS-Model", res.Model)
	if res.Cached {
		hdr.Set("Cache-Control", cacheControlHit)
		hdr.Set("X-Cache", "HIT")
	} else {
		hdr.Set("Cache-Control", cacheControlMiss)
		hdr.Set("X-Cache", "MISS")
	}

	w.WriteHeader(http.StatusOK)
	w.Write(res.Data)
}
