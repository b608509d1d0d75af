package handlers

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/nikhilbhutani/ttsthrowdown/internal/catalog"
)

type CatalogHandler struct {
	catalog *catalog.Catalog
	rng     catalog.Intn
}

func NewCatalogHandler(cat *catalog.Catalog, rng catalog.Intn) *CatalogHandler {
	if rng == nil {
		rng = catalog.GlobalRand{}
	}
	return &CatalogHandler{catalog: cat, rng: rng}
}

func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog)
}

type matchupClip struct {
	Label    string `json:"label"`
	Provider string `json:"provider"`
	AudioURL string `json:"audioUrl"`
}

type matchupResponse struct {
	Prompt catalog.Prompt `json:"prompt"`
	Clips  []matchupClip  `json:"clips"`
}

// Matchup draws a blind round: one prompt and two distinct enabled providers
// labelled A and B. ?prompt= pins the prompt, otherwise one is drawn.
func (h *CatalogHandler) Matchup(w http.ResponseWriter, r *http.Request) {
	var prompt catalog.Prompt
	if id := r.URL.Query().Get("prompt"); id != "" {
		p, ok := h.catalog.Prompt(id)
		if !ok {
			writeError(w, http.StatusBadRequest, "unknown prompt")
			return
		}
		prompt = p
	} else {
		if len(h.catalog.Prompts) == 0 {
			writeError(w, http.StatusConflict, "no prompts configured")
			return
		}
		prompt = h.catalog.Prompts[h.rng.IntN(len(h.catalog.Prompts))]
	}

	a, b, err := h.catalog.PickPair(h.rng)
	if errors.Is(err, catalog.ErrNotEnoughProviders) {
		writeError(w, http.StatusConflict, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, matchupResponse{
		Prompt: prompt,
		Clips: []matchupClip{
			{Label: "A", Provider: a.ID, AudioURL: audioURL(a.ID, prompt.ID)},
			{Label: "B", Provider: b.ID, AudioURL: audioURL(b.ID, prompt.ID)},
		},
	})
}

func audioURL(providerID, promptID string) string {
	q := url.Values{}
	q.Set("provider", providerID)
	q.Set("prompt", promptID)
	return "/api/v1/audio?" + q.Encode()
}
