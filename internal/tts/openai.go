package tts

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/nikhilbhutani/ttsthrowdown/internal/audio"
	"github.com/nikhilbhutani/ttsthrowdown/internal/config"
)

// OpenAI synthesizes speech with the OpenAI audio/speech endpoint. Output is
// always MP3.
type OpenAI struct {
	cfg     config.OpenAIConfig
	timeout time.Duration
}

func NewOpenAI(cfg config.OpenAIConfig, timeout time.Duration) *OpenAI {
	return &OpenAI{cfg: cfg, timeout: timeout}
}

func (o *OpenAI) Name() string { return "openai" }

func (o *OpenAI) Settings() Settings {
	return Settings{Model: o.cfg.Model, Voice: o.cfg.Voice}
}

func (o *OpenAI) Synthesize(ctx context.Context, text string) (*Result, error) {
	if o.cfg.APIKey == "" {
		return nil, missingCredential(o.Name(), "OPENAI_API_KEY")
	}

	clientCfg := openai.DefaultConfig(o.cfg.APIKey)
	if o.cfg.BaseURL != "" {
		clientCfg.BaseURL = o.cfg.BaseURL
	}
	clientCfg.HTTPClient = newHTTPClient(o.timeout)
	client := openai.NewClientWithConfig(clientCfg)

	resp, err := client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(o.cfg.Model),
		Input:          text,
		Voice:          openai.SpeechVoice(o.cfg.Voice),
		ResponseFormat: openai.SpeechResponseFormatMp3,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", o.Name(), ErrSynthesisFailed, err)
	}
	defer resp.Close()

	data, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("%s: read audio: %w", o.Name(), err)
	}

	return &Result{
		Audio: audio.Raw{Data: data, Format: audio.MP3},
		Model: o.cfg.Model,
		Voice: o.cfg.Voice,
	}, nil
}
