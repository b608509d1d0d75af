// Package generation returns prompt audio for a provider, serving it from the
// cache when possible and synthesizing it otherwise.
package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nikhilbhutani/ttsthrowdown/internal/audio"
	"github.com/nikhilbhutani/ttsthrowdown/internal/audiocache"
	"github.com/nikhilbhutani/ttsthrowdown/internal/tts"
)

var ErrUnsupportedProvider = errors.New("unsupported provider")

// Providers resolves a provider id to its adapter.
type Providers interface {
	Lookup(id string) (tts.Synthesizer, bool)
}

// Recorder receives generation measurements. *metrics.Metrics implements it.
type Recorder interface {
	CacheLookup(provider string, hit bool)
	Synthesis(provider string, took time.Duration, err error)
}

type Request struct {
	ProviderID string
	PromptID   string
	PromptText string
}

type Audio struct {
	Data   []byte
	Format audio.Format
	Cached bool
	Model  string
	Voice  string
}

type Orchestrator struct {
	providers Providers
	store     audiocache.Store
	recorder  Recorder
}

func NewOrchestrator(providers Providers, store audiocache.Store, recorder Recorder) *Orchestrator {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Orchestrator{providers: providers, store: store, recorder: recorder}
}

// GetOrCreate returns the cached audio for the request, or synthesizes it,
// stores it and returns it. Concurrent misses for the same key each call the
// provider; the store keeps whichever insert lands first.
func (o *Orchestrator) GetOrCreate(ctx context.Context, req Request) (*Audio, error) {
	synth, ok := o.providers.Lookup(req.ProviderID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, req.ProviderID)
	}

	settings := synth.Settings()
	key := audiocache.Key{
		ProviderID: req.ProviderID,
		PromptID:   req.PromptID,
		Model:      settings.CacheModel(),
		Voice:      settings.Voice,
	}

	entry, found, err := o.store.Probe(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("probe audio cache: %w", err)
	}
	o.recorder.CacheLookup(req.ProviderID, found)
	if found {
		return &Audio{
			Data:   entry.Audio,
			Format: entry.Format,
			Cached: true,
			Model:  settings.Model,
			Voice:  settings.Voice,
		}, nil
	}

	slog.Info("audio cache miss, synthesizing",
		"provider", req.ProviderID,
		"prompt", req.PromptID,
		"model", key.Model,
		"voice", key.Voice,
	)

	started := time.Now()
	res, err := synth.Synthesize(ctx, req.PromptText)
	o.recorder.Synthesis(req.ProviderID, time.Since(started), err)
	if err != nil {
		return nil, err
	}

	clip, err := audio.Normalize(res.Audio)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", req.ProviderID, tts.ErrMalformedResponse, err)
	}

	if err := o.store.InsertIfAbsent(ctx, audiocache.Entry{Key: key, Format: clip.Format, Audio: clip.Data}); err != nil {
		return nil, fmt.Errorf("store audio: %w", err)
	}

	slog.Info("audio synthesized",
		"provider", req.ProviderID,
		"prompt", req.PromptID,
		"format", clip.Format,
		"bytes", len(clip.Data),
		"took_ms", time.Since(started).Milliseconds(),
	)

	return &Audio{
		Data:   clip.Data,
		Format: clip.Format,
		Cached: false,
		Model:  res.Model,
		Voice:  res.Voice,
	}, nil
}

type nopRecorder struct{}

func (nopRecorder) CacheLookup(string, bool) {}

func (nopRecorder) Synthesis(string, time.Duration, error) {}
