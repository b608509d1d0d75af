package tts

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/tidwall/gjson"

	"github.com/nikhilbhutani/ttsthrowdown/internal/audio"
	"github.com/nikhilbhutani/ttsthrowdown/internal/config"
)

const geminiAudioPath = "candidates.0.content.parts.0.inlineData.data"

// Gemini synthesizes speech with a Gemini TTS model. The API returns base64
// 16-bit mono PCM which is wrapped as WAV at the configured sample rate.
type Gemini struct {
	cfg    config.GeminiConfig
	client *http.Client
}

// NewGemini fails when the sample rate cannot describe a WAV stream, so the
// mistake shows at startup instead of after a paid call.
func NewGemini(cfg config.GeminiConfig, timeout time.Duration) (*Gemini, error) {
	if cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("GEMINI_TTS_SAMPLE_RATE must be positive, got %d", cfg.SampleRate)
	}
	return &Gemini{cfg: cfg, client: newHTTPClient(timeout)}, nil
}

func (g *Gemini) Name() string { return "gemini" }

func (g *Gemini) Settings() Settings {
	return Settings{
		Model:   g.cfg.Model,
		Voice:   g.cfg.Voice,
		Variant: []string{strconv.Itoa(g.cfg.SampleRate)},
	}
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
	Model            string                 `json:"model"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	ResponseModalities []string           `json:"responseModalities"`
	SpeechConfig       geminiSpeechConfig `json:"speechConfig"`
}

type geminiSpeechConfig struct {
	VoiceConfig struct {
		PrebuiltVoiceConfig struct {
			VoiceName string `json:"voiceName"`
		} `json:"prebuiltVoiceConfig"`
	} `json:"voiceConfig"`
}

func (g *Gemini) Synthesize(ctx context.Context, text string) (*Result, error) {
	if g.cfg.APIKey == "" {
		return nil, missingCredential(g.Name(), "GEMINI_API_KEY")
	}

	body := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: text}}}},
		GenerationConfig: geminiGenerationConfig{
			ResponseModalities: []string{"AUDIO"},
		},
		Model: g.cfg.Model,
	}
	body.GenerationConfig.SpeechConfig.VoiceConfig.PrebuiltVoiceConfig.VoiceName = g.cfg.Voice

	header := http.Header{}
	header.Set("x-goog-api-key", g.cfg.APIKey)

	endpoint := joinURL(g.cfg.BaseURL, "/v1beta/models/"+url.PathEscape(g.cfg.Model)+":generateContent")
	data, err := postJSON(ctx, g.client, g.Name(), endpoint, header, body)
	if err != nil {
		return nil, err
	}

	encoded := gjson.GetBytes(data, geminiAudioPath).String()
	if encoded == "" {
		return nil, fmt.Errorf("%s: %w: missing audio data", g.Name(), ErrMalformedResponse)
	}
	pcm, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: decode audio: %w", g.Name(), ErrMalformedResponse, err)
	}

	layout := audio.Mono16(g.cfg.SampleRate)
	return &Result{
		Audio: audio.Raw{Data: pcm, Format: audio.WAV, PCM: &layout},
		Model: g.cfg.Model,
		Voice: g.cfg.Voice,
	}, nil
}
