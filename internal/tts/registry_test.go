package tts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikhilbhutani/ttsthrowdown/internal/config"
)

func TestRegistryFromConfig(t *testing.T) {
	t.Parallel()

	r, err := NewRegistryFromConfig(config.TTSConfig{
		HTTPTimeout: time.Second,
		Gemini:      config.GeminiConfig{SampleRate: 24000},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"elevenlabs", "gemini", "google", "inworld", "openai"}, r.Names())

	s, ok := r.Lookup("openai")
	require.True(t, ok)
	assert.Equal(t, "openai", s.Name())

	_, ok = r.Lookup("cartesia")
	assert.False(t, ok)
}

func TestRegistryFromConfigInvalidInworld(t *testing.T) {
	t.Parallel()

	_, err := NewRegistryFromConfig(config.TTSConfig{
		Gemini:  config.GeminiConfig{SampleRate: 24000},
		Inworld: config.InworldConfig{BitRate: "high"},
	})
	require.ErrorContains(t, err, "inworld config")
}

func TestRegistryFromConfigInvalidGemini(t *testing.T) {
	t.Parallel()

	_, err := NewRegistryFromConfig(config.TTSConfig{Gemini: config.GeminiConfig{SampleRate: 0}})
	require.ErrorContains(t, err, "gemini config")
}

func TestSettingsCacheModel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "m", Settings{Model: "m"}.CacheModel())
	assert.Equal(t, "m|a|b", Settings{Model: "m", Variant: []string{"a", "b"}}.CacheModel())
}
