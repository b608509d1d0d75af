package queue

import (
	"context"
	"encoding/json"
	"os"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikhilbhutani/ttsthrowdown/internal/config"
)

func TestNewAudioWarmTask(t *testing.T) {
	t.Parallel()

	payload := AudioWarmPayload{ProviderID: "openai", PromptID: "short"}
	task, opts, err := newAudioWarmTask(payload)
	require.NoError(t, err)

	assert.Equal(t, TypeAudioWarm, task.Type())
	var got AudioWarmPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &got))
	assert.Equal(t, payload, got)
	assert.Len(t, opts, 4)
	assert.Equal(t, "audio:warm:openai:short", payload.TaskID())
}

func testClient(t *testing.T, payload AudioWarmPayload) (*Client, *asynq.Inspector) {
	t.Helper()

	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}

	cfg := config.RedisConfig{Addr: addr, DB: 14}
	c := NewClient(cfg)
	insp := asynq.NewInspector(RedisOpt(cfg))

	drop := func() { _ = insp.DeleteTask(QueueLow, payload.TaskID()) }
	drop()
	t.Cleanup(func() {
		drop()
		insp.Close()
		c.Close()
	})
	return c, insp
}

func TestEnqueueAudioWarmDeduplicates(t *testing.T) {
	payload := AudioWarmPayload{ProviderID: "inworld", PromptID: "numbers"}
	c, _ := testClient(t, payload)

	queued, err := c.EnqueueAudioWarm(context.Background(), payload)
	require.NoError(t, err)
	assert.True(t, queued)

	queued, err = c.EnqueueAudioWarm(context.Background(), payload)
	require.NoError(t, err)
	assert.False(t, queued)
}

func TestEnqueueAudioWarmRequeuesArchived(t *testing.T) {
	payload := AudioWarmPayload{ProviderID: "elevenlabs", PromptID: "emotion"}
	c, insp := testClient(t, payload)

	queued, err := c.EnqueueAudioWarm(context.Background(), payload)
	require.NoError(t, err)
	require.True(t, queued)

	// what the worker leaves behind after a failed run with no retries
	require.NoError(t, insp.ArchiveTask(QueueLow, payload.TaskID()))

	queued, err = c.EnqueueAudioWarm(context.Background(), payload)
	require.NoError(t, err)
	assert.True(t, queued)

	info, err := insp.GetTaskInfo(QueueLow, payload.TaskID())
	require.NoError(t, err)
	assert.Equal(t, asynq.TaskStatePending, info.State)
}
