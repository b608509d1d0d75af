package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/nikhilbhutani/ttsthrowdown/internal/config"
)

type Client struct {
	client    *asynq.Client
	inspector *asynq.Inspector
}

func NewClient(cfg config.RedisConfig) *Client {
	return &Client{
		client:    asynq.NewClient(RedisOpt(cfg)),
		inspector: asynq.NewInspector(RedisOpt(cfg)),
	}
}

// RedisOpt converts the redis settings into asynq connection options.
func RedisOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

func (c *Client) Close() error {
	return errors.Join(c.client.Close(), c.inspector.Close())
}

// EnqueueAudioWarm queues a warm-up. It reports false without error when the
// same warm-up is still waiting or running. Failed warm-ups are not retried by
// the worker, but a later call queues them again.
func (c *Client) EnqueueAudioWarm(ctx context.Context, payload AudioWarmPayload) (bool, error) {
	task, opts, err := newAudioWarmTask(payload)
	if err != nil {
		return false, err
	}

	_, err = c.client.EnqueueContext(ctx, task, opts...)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		var cleared bool
		cleared, err = c.clearFinished(payload.TaskID())
		if err != nil || !cleared {
			return false, err
		}
		_, err = c.client.EnqueueContext(ctx, task, opts...)
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			return false, nil
		}
	}
	if err != nil {
		return false, fmt.Errorf("enqueue %s: %w", TypeAudioWarm, err)
	}
	return true, nil
}

// clearFinished deletes an archived or completed task holding id so the id can
// be reused. It reports false when the task is still pending, active or
// scheduled.
func (c *Client) clearFinished(id string) (bool, error) {
	info, err := c.inspector.GetTaskInfo(QueueLow, id)
	if errors.Is(err, asynq.ErrTaskNotFound) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("inspect %s: %w", id, err)
	}

	switch info.State {
	case asynq.TaskStateArchived, asynq.TaskStateCompleted:
	default:
		return false, nil
	}

	if err := c.inspector.DeleteTask(QueueLow, id); err != nil && !errors.Is(err, asynq.ErrTaskNotFound) {
		return false, fmt.Errorf("delete finished %s: %w", id, err)
	}
	return true, nil
}

func newAudioWarmTask(payload AudioWarmPayload) (*asynq.Task, []asynq.Option, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal payload: %w", err)
	}
	opts := []asynq.Option{
		asynq.TaskID(payload.TaskID()),
		asynq.Queue(QueueLow),
		asynq.MaxRetry(0),
		asynq.Timeout(3 * time.Minute),
	}
	return asynq.NewTask(TypeAudioWarm, data), opts, nil
}
