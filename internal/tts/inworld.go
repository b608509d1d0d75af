package tts

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/nikhilbhutani/ttsthrowdown/internal/audio"
	"github.com/nikhilbhutani/ttsthrowdown/internal/config"
)

const unsetParam = "default"

// Inworld synthesizes speech with the Inworld TTS API. The audio encoding is
// configurable and decides the canonical format of the result.
type Inworld struct {
	cfg    config.InworldConfig
	client *http.Client

	encoding     string
	speakingRate *float64
	sampleRate   *int
	bitRate      *int
	temperature  *float64
}

// NewInworld parses the optional tuning values and fails on any that are set
// but not numeric.
func NewInworld(cfg config.InworldConfig, timeout time.Duration) (*Inworld, error) {
	in := &Inworld{cfg: cfg, client: newHTTPClient(timeout)}

	in.encoding = strings.ToUpper(strings.TrimSpace(cfg.Encoding))
	if in.encoding == "" {
		in.encoding = "MP3"
	}

	var err error
	if in.speakingRate, err = optionalFloat("INWORLD_TTS_SPEAKING_RATE", cfg.SpeakingRate); err != nil {
		return nil, err
	}
	if in.sampleRate, err = optionalInt("INWORLD_TTS_SAMPLE_RATE", cfg.SampleRate); err != nil {
		return nil, err
	}
	if in.bitRate, err = optionalInt("INWORLD_TTS_BIT_RATE", cfg.BitRate); err != nil {
		return nil, err
	}
	if in.temperature, err = optionalFloat("INWORLD_TTS_TEMPERATURE", cfg.Temperature); err != nil {
		return nil, err
	}
	return in, nil
}

func (in *Inworld) Name() string { return "inworld" }

// Settings folds every output parameter into the key in a fixed order:
// encoding, speaking rate, sample rate, bit rate, temperature.
func (in *Inworld) Settings() Settings {
	return Settings{
		Model: in.cfg.Model,
		Voice: in.cfg.Voice,
		Variant: []string{
			in.encoding,
			formatFloat(in.speakingRate),
			formatInt(in.sampleRate),
			formatInt(in.bitRate),
			formatFloat(in.temperature),
		},
	}
}

type inworldRequest struct {
	Text        string             `json:"text"`
	VoiceID     string             `json:"voiceId"`
	ModelID     string             `json:"modelId"`
	AudioConfig inworldAudioConfig `json:"audioConfig"`
	Temperature *float64           `json:"temperature,omitempty"`
}

type inworldAudioConfig struct {
	AudioEncoding   string   `json:"audioEncoding"`
	SpeakingRate    *float64 `json:"speakingRate,omitempty"`
	SampleRateHertz *int     `json:"sampleRateHertz,omitempty"`
	BitRate         *int     `json:"bitRate,omitempty"`
}

func (in *Inworld) Synthesize(ctx context.Context, text string) (*Result, error) {
	if in.cfg.BasicAuth == "" {
		return nil, missingCredential(in.Name(), "INWORLD_BASIC_AUTH")
	}

	auth := in.cfg.BasicAuth
	if !strings.HasPrefix(auth, "Basic ") {
		auth = "Basic " + auth
	}
	header := http.Header{}
	header.Set("Authorization", auth)

	data, err := postJSON(ctx, in.client, in.Name(), joinURL(in.cfg.BaseURL, "/tts/v1/voice"), header, inworldRequest{
		Text:    text,
		VoiceID: in.cfg.Voice,
		ModelID: in.cfg.Model,
		AudioConfig: inworldAudioConfig{
			AudioEncoding:   in.encoding,
			SpeakingRate:    in.speakingRate,
			SampleRateHertz: in.sampleRate,
			BitRate:         in.bitRate,
		},
		Temperature: in.temperature,
	})
	if err != nil {
		return nil, err
	}

	encoded := gjson.GetBytes(data, "audioContent").String()
	if encoded == "" {
		return nil, fmt.Errorf("%s: %w: missing audioContent", in.Name(), ErrMalformedResponse)
	}
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: decode audioContent: %w", in.Name(), ErrMalformedResponse, err)
	}

	return &Result{
		Audio: audio.Raw{Data: decoded, Format: audio.FormatForEncoding(in.encoding)},
		Model: in.cfg.Model,
		Voice: in.cfg.Voice,
	}, nil
}

func optionalFloat(key, raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", key, err)
	}
	return &v, nil
}

func optionalInt(key, raw string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", key, err)
	}
	return &v, nil
}

func formatFloat(v *float64) string {
	if v == nil {
		return unsetParam
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatInt(v *int) string {
	if v == nil {
		return unsetParam
	}
	return strconv.Itoa(*v)
}
