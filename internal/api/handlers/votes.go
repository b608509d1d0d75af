package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/nikhilbhutani/ttsthrowdown/internal/models"
	"github.com/nikhilbhutani/ttsthrowdown/internal/vote"
)

type VoteHandler struct {
	svc *vote.Service
}

func NewVoteHandler(svc *vote.Service) *VoteHandler {
	return &VoteHandler{svc: svc}
}

func (h *VoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.VoteInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	v, err := h.svc.Record(r.Context(), req)
	switch {
	case errors.Is(err, vote.ErrMissingFields),
		errors.Is(err, vote.ErrUnknownPrompt),
		errors.Is(err, vote.ErrUnknownProvider),
		errors.Is(err, vote.ErrInvalidMatchup):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		slog.Error("record vote failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"ok": true, "id": v.ID})
}

func (h *VoteHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	lb, err := h.svc.Leaderboard(r.Context())
	if err != nil {
		slog.Error("leaderboard query failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, lb)
}
