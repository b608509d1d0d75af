package workers

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikhilbhutani/ttsthrowdown/internal/audio"
	"github.com/nikhilbhutani/ttsthrowdown/internal/catalog"
	"github.com/nikhilbhutani/ttsthrowdown/internal/generation"
	"github.com/nikhilbhutani/ttsthrowdown/internal/queue"
)

type recordingSource struct {
	requests []generation.Request
	err      error
}

func (r *recordingSource) GetOrCreate(_ context.Context, req generation.Request) (*generation.Audio, error) {
	r.requests = append(r.requests, req)
	if r.err != nil {
		return nil, r.err
	}
	return &generation.Audio{Data: []byte("mp3"), Format: audio.MP3}, nil
}

func warmTask(t *testing.T, providerID, promptID string) *asynq.Task {
	t.Helper()
	data, err := json.Marshal(queue.AudioWarmPayload{ProviderID: providerID, PromptID: promptID})
	require.NoError(t, err)
	return asynq.NewTask(queue.TypeAudioWarm, data)
}

func TestWarmWorker(t *testing.T) {
	t.Parallel()

	cat, err := catalog.Default()
	require.NoError(t, err)
	src := &recordingSource{}
	w := NewWarmWorker(src, cat)

	require.NoError(t, w.ProcessTask(context.Background(), warmTask(t, "openai", "emotion")))
	require.Len(t, src.requests, 1)
	assert.Equal(t, generation.Request{
		ProviderID: "openai",
		PromptID:   "emotion",
		PromptText: "I waited all week for this call, and now I finally get to say thank you.",
	}, src.requests[0])
}

func TestWarmWorkerErrors(t *testing.T) {
	t.Parallel()

	cat, err := catalog.Default()
	require.NoError(t, err)

	t.Run("unknown prompt skips retry", func(t *testing.T) {
		src := &recordingSource{}
		err := NewWarmWorker(src, cat).ProcessTask(context.Background(), warmTask(t, "openai", "long"))
		require.ErrorIs(t, err, asynq.SkipRetry)
		assert.Empty(t, src.requests)
	})

	t.Run("bad payload skips retry", func(t *testing.T) {
		err := NewWarmWorker(&recordingSource{}, cat).ProcessTask(context.Background(), asynq.NewTask(queue.TypeAudioWarm, []byte("{")))
		require.ErrorIs(t, err, asynq.SkipRetry)
	})

	t.Run("generation failure propagates", func(t *testing.T) {
		boom := errors.New("upstream down")
		err := NewWarmWorker(&recordingSource{err: boom}, cat).ProcessTask(context.Background(), warmTask(t, "inworld", "short"))
		require.ErrorIs(t, err, boom)
	})
}
