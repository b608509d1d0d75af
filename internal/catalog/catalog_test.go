package catalog

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	c, err := Default()
	require.NoError(t, err)

	var enabled []string
	for _, p := range c.EnabledProviders() {
		enabled = append(enabled, p.ID)
	}
	assert.Equal(t, []string{"elevenlabs", "openai", "inworld"}, enabled)

	openai, ok := c.Provider("openai")
	require.True(t, ok)
	assert.Equal(t, "OpenAI", openai.LogoAlt)
	assert.Equal(t, 1180, openai.LogoWidth)
	assert.Equal(t, 320, openai.LogoHeight)
	assert.Equal(t, "Yes", openai.Streaming)

	short, ok := c.Prompt("short")
	require.True(t, ok)
	assert.Equal(t, "Clear speech is a craft. Every syllable matters.", short.Text)

	numbers, ok := c.Prompt("numbers")
	require.True(t, ok)
	assert.Equal(t, "Order 4821 ships on 02/15/2026 at 7:45 PM. ETA: 3 days.", numbers.Text)

	cartesia, ok := c.Provider("cartesia")
	require.True(t, ok)
	assert.False(t, cartesia.Enabled)

	_, ok = c.Provider("nope")
	assert.False(t, ok)
}

func TestLoadFromFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "catalog.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[[providers]]
id = "openai"
name = "OpenAI"
enabled = true

[[prompts]]
id = "hello"
label = "Hello"
text = "Hello there."
`), 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	require.Len(t, c.Providers, 1)
	assert.Equal(t, "Hello there.", c.Prompts[0].Text)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}

func TestParseRejectsInvalid(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"duplicate provider":  "[[providers]]\nid = \"a\"\n[[providers]]\nid = \"a\"\n",
		"prompt without text": "[[prompts]]\nid = \"p\"\n",
		"bad toml":            "[[providers]\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			require.Error(t, err)
		})
	}
}

func TestPickPair(t *testing.T) {
	t.Parallel()

	c, err := Default()
	require.NoError(t, err)

	rng := rand.New(rand.NewPCG(1, 2))
	for range 200 {
		a, b, err := c.PickPair(rng)
		require.NoError(t, err)
		assert.NotEqual(t, a.ID, b.ID)
		assert.True(t, a.Enabled)
		assert.True(t, b.Enabled)
	}

	single := &Catalog{Providers: []Provider{{ID: "openai", Enabled: true}, {ID: "gemini"}}}
	_, _, err = single.PickPair(rng)
	require.ErrorIs(t, err, ErrNotEnoughProviders)
}
