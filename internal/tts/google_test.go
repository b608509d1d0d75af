package tts

import (
	"context"
	"errors"
	"testing"

	ttspb "cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikhilbhutani/ttsthrowdown/internal/audio"
	"github.com/nikhilbhutani/ttsthrowdown/internal/config"
)

func googleConfig() config.GoogleConfig {
	return config.GoogleConfig{
		APIKey:       "goog-test",
		Language:     "en-US",
		Voice:        "en-US-Neural2-D",
		Encoding:     "OGG_OPUS",
		SpeakingRate: 1,
	}
}

func TestGoogleSynthesize(t *testing.T) {
	t.Parallel()

	g := NewGoogle(googleConfig())
	var got *ttspb.SynthesizeSpeechRequest
	g.synthesize = func(_ context.Context, req *ttspb.SynthesizeSpeechRequest) (*ttspb.SynthesizeSpeechResponse, error) {
		got = req
		return &ttspb.SynthesizeSpeechResponse{AudioContent: []byte("OggS")}, nil
	}

	res, err := g.Synthesize(context.Background(), "Clear speech is a craft.")
	require.NoError(t, err)

	assert.Equal(t, audio.OGG, res.Audio.Format)
	assert.Equal(t, []byte("OggS"), res.Audio.Data)
	assert.Equal(t, "en-US-Neural2-D", res.Voice)

	require.NotNil(t, got)
	assert.Equal(t, "Clear speech is a craft.", got.GetInput().GetText())
	assert.Equal(t, "en-US", got.GetVoice().GetLanguageCode())
	assert.Equal(t, ttspb.AudioEncoding_OGG_OPUS, got.GetAudioConfig().GetAudioEncoding())
}

func TestGoogleUnsupportedEncodingFallsBackToMP3(t *testing.T) {
	t.Parallel()

	cfg := googleConfig()
	cfg.Encoding = "PCM"
	g := NewGoogle(cfg)
	g.synthesize = func(_ context.Context, req *ttspb.SynthesizeSpeechRequest) (*ttspb.SynthesizeSpeechResponse, error) {
		assert.Equal(t, ttspb.AudioEncoding_MP3, req.GetAudioConfig().GetAudioEncoding())
		return &ttspb.SynthesizeSpeechResponse{AudioContent: []byte("ID3")}, nil
	}

	res, err := g.Synthesize(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, audio.MP3, res.Audio.Format)
	assert.Equal(t, "en-US|MP3|1", g.Settings().CacheModel())
}

func TestGoogleErrors(t *testing.T) {
	t.Parallel()

	cfg := googleConfig()
	cfg.APIKey = ""
	g := NewGoogle(cfg)
	called := false
	g.synthesize = func(context.Context, *ttspb.SynthesizeSpeechRequest) (*ttspb.SynthesizeSpeechResponse, error) {
		called = true
		return nil, nil
	}
	_, err := g.Synthesize(context.Background(), "hi")
	require.ErrorIs(t, err, ErrMissingCredential)
	assert.False(t, called)

	g = NewGoogle(googleConfig())
	g.synthesize = func(context.Context, *ttspb.SynthesizeSpeechRequest) (*ttspb.SynthesizeSpeechResponse, error) {
		return nil, errors.New("rpc error: code = PermissionDenied")
	}
	_, err = g.Synthesize(context.Background(), "hi")
	require.ErrorIs(t, err, ErrSynthesisFailed)
	assert.Contains(t, err.Error(), "PermissionDenied")

	g.synthesize = func(context.Context, *ttspb.SynthesizeSpeechRequest) (*ttspb.SynthesizeSpeechResponse, error) {
		return &ttspb.SynthesizeSpeechResponse{}, nil
	}
	_, err = g.Synthesize(context.Background(), "hi")
	require.ErrorIs(t, err, ErrMalformedResponse)
}
