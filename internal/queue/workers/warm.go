package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/nikhilbhutani/ttsthrowdown/internal/catalog"
	"github.com/nikhilbhutani/ttsthrowdown/internal/generation"
	"github.com/nikhilbhutani/ttsthrowdown/internal/queue"
)

// AudioSource is satisfied by *generation.Orchestrator.
type AudioSource interface {
	GetOrCreate(ctx context.Context, req generation.Request) (*generation.Audio, error)
}

// WarmWorker fills the audio cache ahead of voters.
type WarmWorker struct {
	audio   AudioSource
	catalog *catalog.Catalog
}

func NewWarmWorker(audio AudioSource, cat *catalog.Catalog) *WarmWorker {
	return &WarmWorker{audio: audio, catalog: cat}
}

func (w *WarmWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload queue.AudioWarmPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w: %w", err, asynq.SkipRetry)
	}

	prompt, ok := w.catalog.Prompt(payload.PromptID)
	if !ok {
		return fmt.Errorf("unknown prompt %q: %w", payload.PromptID, asynq.SkipRetry)
	}
	if _, ok := w.catalog.Provider(payload.ProviderID); !ok {
		return fmt.Errorf("unknown provider %q: %w", payload.ProviderID, asynq.SkipRetry)
	}

	res, err := w.audio.GetOrCreate(ctx, generation.Request{
		ProviderID: payload.ProviderID,
		PromptID:   prompt.ID,
		PromptText: prompt.Text,
	})
	if err != nil {
		slog.Error("audio warm-up failed", "provider", payload.ProviderID, "prompt", payload.PromptID, "error", err)
		return fmt.Errorf("warm %s/%s: %w", payload.ProviderID, payload.PromptID, err)
	}

	slog.Info("audio warm-up done",
		"provider", payload.ProviderID,
		"prompt", payload.PromptID,
		"cached", res.Cached,
		"format", res.Format,
	)
	return nil
}
