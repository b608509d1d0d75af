package tts

import (
	"context"
	"fmt"
	"strconv"

	gctts "cloud.google.com/go/texttospeech/apiv1"
	ttspb "cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"google.golang.org/api/option"

	"github.com/nikhilbhutani/ttsthrowdown/internal/audio"
	"github.com/nikhilbhutani/ttsthrowdown/internal/config"
)

var googleEncodings = map[string]ttspb.AudioEncoding{
	"MP3":      ttspb.AudioEncoding_MP3,
	"LINEAR16": ttspb.AudioEncoding_LINEAR16,
	"OGG_OPUS": ttspb.AudioEncoding_OGG_OPUS,
	"MULAW":    ttspb.AudioEncoding_MULAW,
	"ALAW":     ttspb.AudioEncoding_ALAW,
}

type googleSynthesizeFunc func(ctx context.Context, req *ttspb.SynthesizeSpeechRequest) (*ttspb.SynthesizeSpeechResponse, error)

// Google synthesizes speech with Google Cloud Text-to-Speech. Encodings the
// format table cannot describe are requested as MP3.
type Google struct {
	cfg        config.GoogleConfig
	encoding   string
	synthesize googleSynthesizeFunc
}

func NewGoogle(cfg config.GoogleConfig) *Google {
	g := &Google{cfg: cfg, encoding: "MP3"}
	if _, ok := googleEncodings[cfg.Encoding]; ok {
		g.encoding = cfg.Encoding
	}
	g.synthesize = g.callAPI
	return g
}

func (g *Google) Name() string { return "google" }

func (g *Google) Settings() Settings {
	return Settings{
		Model: g.cfg.Language,
		Voice: g.cfg.Voice,
		Variant: []string{
			g.encoding,
			strconv.FormatFloat(g.cfg.SpeakingRate, 'f', -1, 64),
		},
	}
}

func (g *Google) Synthesize(ctx context.Context, text string) (*Result, error) {
	if g.cfg.APIKey == "" && g.cfg.CredentialsFile == "" {
		return nil, missingCredential(g.Name(), "GOOGLE_TTS_API_KEY or GOOGLE_APPLICATION_CREDENTIALS")
	}

	resp, err := g.synthesize(ctx, &ttspb.SynthesizeSpeechRequest{
		Input: &ttspb.SynthesisInput{InputSource: &ttspb.SynthesisInput_Text{Text: text}},
		Voice: &ttspb.VoiceSelectionParams{
			LanguageCode: g.cfg.Language,
			Name:         g.cfg.Voice,
		},
		AudioConfig: &ttspb.AudioConfig{
			AudioEncoding: googleEncodings[g.encoding],
			SpeakingRate:  g.cfg.SpeakingRate,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", g.Name(), ErrSynthesisFailed, err)
	}
	if len(resp.GetAudioContent()) == 0 {
		return nil, fmt.Errorf("%s: %w: empty audio content", g.Name(), ErrMalformedResponse)
	}

	return &Result{
		Audio: audio.Raw{Data: resp.GetAudioContent(), Format: audio.FormatForEncoding(g.encoding)},
		Model: g.cfg.Language,
		Voice: g.cfg.Voice,
	}, nil
}

func (g *Google) callAPI(ctx context.Context, req *ttspb.SynthesizeSpeechRequest) (*ttspb.SynthesizeSpeechResponse, error) {
	var opts []option.ClientOption
	if g.cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(g.cfg.APIKey))
	} else {
		opts = append(opts, option.WithCredentialsFile(g.cfg.CredentialsFile))
	}
	if g.cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(g.cfg.Endpoint))
	}

	client, err := gctts.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	defer client.Close()

	return client.SynthesizeSpeech(ctx, req)
}
