package tts

import (
	"fmt"
	"sort"

	"github.com/nikhilbhutani/ttsthrowdown/internal/config"
)

// Registry maps provider ids to adapters.
type Registry struct {
	adapters map[string]Synthesizer
}

func NewRegistry(adapters ...Synthesizer) *Registry {
	r := &Registry{adapters: make(map[string]Synthesizer, len(adapters))}
	for _, a := range adapters {
		r.Register(a)
	}
	return r
}

// NewRegistryFromConfig registers every built-in adapter. Adapters are
// registered even without credentials; the missing credential surfaces on the
// first synthesis for that provider.
func NewRegistryFromConfig(cfg config.TTSConfig) (*Registry, error) {
	inworld, err := NewInworld(cfg.Inworld, cfg.HTTPTimeout)
	if err != nil {
		return nil, fmt.Errorf("inworld config: %w", err)
	}

	gemini, err := NewGemini(cfg.Gemini, cfg.HTTPTimeout)
	if err != nil {
		return nil, fmt.Errorf("gemini config: %w", err)
	}

	return NewRegistry(
		NewOpenAI(cfg.OpenAI, cfg.HTTPTimeout),
		NewElevenLabs(cfg.ElevenLabs, cfg.HTTPTimeout),
		gemini,
		inworld,
		NewGoogle(cfg.Google),
	), nil
}

func (r *Registry) Register(s Synthesizer) {
	r.adapters[s.Name()] = s
}

func (r *Registry) Lookup(id string) (Synthesizer, bool) {
	s, ok := r.adapters[id]
	return s, ok
}

// Names returns the registered provider ids in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.adapters))
	for name := range r.adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
