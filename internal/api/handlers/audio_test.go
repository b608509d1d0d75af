package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikhilbhutani/ttsthrowdown/internal/audio"
	"github.com/nikhilbhutani/ttsthrowdown/internal/catalog"
	"github.com/nikhilbhutani/ttsthrowdown/internal/generation"
	"github.com/nikhilbhutani/ttsthrowdown/internal/tts"
)

type stubAudio struct {
	res  *generation.Audio
	err  error
	last generation.Request
	n    int
}

func (s *stubAudio) GetOrCreate(_ context.Context, req generation.Request) (*generation.Audio, error) {
	s.n++
	s.last = req
	return s.res, s.err
}

func defaultCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Default()
	require.NoError(t, err)
	return c
}

func getAudio(t *testing.T, h *AudioHandler, query string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.Get(rec, httptest.NewRequest(http.MethodGet, "/api/v1/audio?"+query, nil))
	return rec
}

func TestAudioGetMissAndHit(t *testing.T) {
	t.Parallel()

	svc := &stubAudio{res: &generation.Audio{Data: []byte("RIFFdata"), Format: audio.WAV, Model: "inworld-tts-1", Voice: "Dennis"}}
	h := NewAudioHandler(svc, defaultCatalog(t))

	rec := getAudio(t, h, "provider=inworld&prompt=short")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "audio/wav", rec.Header().Get("Content-Type"))
	assert.Equal(t, "public, max-age=86400", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.Equal(t, "inworld", rec.Header().Get("X-TTS-Provider"))
	assert.Equal(t, "Dennis", rec.Header().Get("X-TTS-Voice"))
	assert.Equal(t, "RIFFdata", rec.Body.String())
	assert.Equal(t, "Clear speech is a craft. Every syllable matters.", svc.last.PromptText)

	svc.res.Cached = true
	rec = getAudio(t, h, "provider=inworld&prompt=short")
	assert.Equal(t, "public, max-age=31536000, immutable", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
}

func TestAudioGetClientErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"missing provider", "prompt=short", "missing provider or prompt"},
		{"missing prompt", "provider=openai", "missing provider or prompt"},
		{"unknown provider", "provider=polly&prompt=short", "unknown provider or prompt"},
		{"unknown prompt", "provider=openai&prompt=long", "unknown provider or prompt"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubAudio{}
			rec := getAudio(t, NewAudioHandler(svc, defaultCatalog(t)), tc.query)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.JSONEq(t, fmt.Sprintf(`{"error":%q}`, tc.want), rec.Body.String())
			assert.Zero(t, svc.n)
		})
	}
}

func TestAudioGetGenerationErrors(t *testing.T) {
	t.Parallel()

	svc := &stubAudio{err: fmt.Errorf("%w: cartesia", generation.ErrUnsupportedProvider)}
	rec := getAudio(t, NewAudioHandler(svc, defaultCatalog(t)), "provider=cartesia&prompt=short")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	svc = &stubAudio{err: fmt.Errorf("openai: %w (status 429): rate limited", tts.ErrSynthesisFailed)}
	rec = getAudio(t, NewAudioHandler(svc, defaultCatalog(t)), "provider=openai&prompt=short")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "rate limited")

	svc = &stubAudio{err: errors.New("openai: missing credential: OPENAI_API_KEY is not set")}
	rec = getAudio(t, NewAudioHandler(svc, defaultCatalog(t)), "provider=openai&prompt=short")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "OPENAI_API_KEY")
}
