// Package catalog holds the static provider and prompt reference data shown to
// voters. It is read from TOML and never stored in the database.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"

	"github.com/pelletier/go-toml/v2"
)

//go:embed catalog.toml
var defaultCatalog []byte

var ErrNotEnoughProviders = errors.New("at least two enabled providers are required")

// Provider is a catalogue card. Logo dimensions are the intrinsic size of the
// logo asset, used by clients to keep its aspect ratio.
type Provider struct {
	ID         string `toml:"id" json:"id"`
	Name       string `toml:"name" json:"name"`
	Logo       string `toml:"logo" json:"logo,omitempty"`
	LogoAlt    string `toml:"logo_alt" json:"logoAlt,omitempty"`
	LogoWidth  int    `toml:"logo_width" json:"logoWidth,omitempty"`
	LogoHeight int    `toml:"logo_height" json:"logoHeight,omitempty"`
	Tagline    string `toml:"tagline" json:"tagline"`
	Price      string `toml:"price" json:"price"`
	Latency    string `toml:"latency" json:"latency"`
	Streaming  string `toml:"streaming" json:"streaming"`
	URL        string `toml:"url" json:"url"`
	Accent     string `toml:"accent" json:"accent"`
	Enabled    bool   `toml:"enabled" json:"enabled"`
}

type Prompt struct {
	ID    string `toml:"id" json:"id"`
	Label string `toml:"label" json:"label"`
	Text  string `toml:"text" json:"text"`
}

type Catalog struct {
	Providers []Provider `toml:"providers" json:"providers"`
	Prompts   []Prompt   `toml:"prompts" json:"prompts"`
}

// Default returns the built-in catalogue.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Load reads the catalogue at path, or the built-in one when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := toml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	seen := map[string]bool{}
	for _, p := range c.Providers {
		if p.ID == "" {
			return errors.New("catalog: provider without id")
		}
		if seen[p.ID] {
			return fmt.Errorf("catalog: duplicate provider %q", p.ID)
		}
		seen[p.ID] = true
	}

	seen = map[string]bool{}
	for _, p := range c.Prompts {
		if p.ID == "" || p.Text == "" {
			return fmt.Errorf("catalog: prompt %q needs an id and text", p.ID)
		}
		if seen[p.ID] {
			return fmt.Errorf("catalog: duplicate prompt %q", p.ID)
		}
		seen[p.ID] = true
	}
	return nil
}

func (c *Catalog) Provider(id string) (Provider, bool) {
	for _, p := range c.Providers {
		if p.ID == id {
			return p, true
		}
	}
	return Provider{}, false
}

func (c *Catalog) Prompt(id string) (Prompt, bool) {
	for _, p := range c.Prompts {
		if p.ID == id {
			return p, true
		}
	}
	return Prompt{}, false
}

// EnabledProviders returns the enabled providers in catalogue order.
func (c *Catalog) EnabledProviders() []Provider {
	var out []Provider
	for _, p := range c.Providers {
		if p.Enabled {
			out = append(out, p)
		}
	}
	return out
}

// Intn is satisfied by *rand.Rand.
type Intn interface {
	IntN(n int) int
}

// GlobalRand draws from the math/rand/v2 global source, which is safe for
// concurrent use.
type GlobalRand struct{}

func (GlobalRand) IntN(n int) int { return rand.IntN(n) }

// PickPair draws two distinct enabled providers in random order.
func (c *Catalog) PickPair(rng Intn) (Provider, Provider, error) {
	enabled := c.EnabledProviders()
	if len(enabled) < 2 {
		return Provider{}, Provider{}, ErrNotEnoughProviders
	}

	i := rng.IntN(len(enabled))
	j := rng.IntN(len(enabled) - 1)
	if j >= i {
		j++
	}
	return enabled[i], enabled[j], nil
}
