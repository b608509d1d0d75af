package tts

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/nikhilbhutani/ttsthrowdown/internal/audio"
	"github.com/nikhilbhutani/ttsthrowdown/internal/config"
)

// ElevenLabs synthesizes speech with the ElevenLabs text-to-speech endpoint,
// which answers with MP3 bytes.
type ElevenLabs struct {
	cfg    config.ElevenLabsConfig
	client *http.Client
}

func NewElevenLabs(cfg config.ElevenLabsConfig, timeout time.Duration) *ElevenLabs {
	return &ElevenLabs{cfg: cfg, client: newHTTPClient(timeout)}
}

func (e *ElevenLabs) Name() string { return "elevenlabs" }

func (e *ElevenLabs) Settings() Settings {
	return Settings{
		Model: e.cfg.Model,
		Voice: e.cfg.Voice,
		Variant: []string{
			strconv.FormatFloat(e.cfg.Stability, 'f', -1, 64),
			strconv.FormatFloat(e.cfg.Similarity, 'f', -1, 64),
		},
	}
}

type elevenLabsRequest struct {
	Text          string             `json:"text"`
	ModelID       string             `json:"model_id"`
	VoiceSettings elevenLabsSettings `json:"voice_settings"`
}

type elevenLabsSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

func (e *ElevenLabs) Synthesize(ctx context.Context, text string) (*Result, error) {
	if e.cfg.APIKey == "" {
		return nil, missingCredential(e.Name(), "ELEVENLABS_API_KEY")
	}

	header := http.Header{}
	header.Set("xi-api-key", e.cfg.APIKey)
	header.Set("Accept", "audio/mpeg")

	endpoint := joinURL(e.cfg.BaseURL, "/v1/text-to-speech/"+url.PathEscape(e.cfg.Voice))
	data, err := postJSON(ctx, e.client, e.Name(), endpoint, header, elevenLabsRequest{
		Text:    text,
		ModelID: e.cfg.Model,
		VoiceSettings: elevenLabsSettings{
			Stability:       e.cfg.Stability,
			SimilarityBoost: e.cfg.Similarity,
		},
	})
	if err != nil {
		return nil, err
	}

	return &Result{
		Audio: audio.Raw{Data: data, Format: audio.MP3},
		Model: e.cfg.Model,
		Voice: e.cfg.Voice,
	}, nil
}
