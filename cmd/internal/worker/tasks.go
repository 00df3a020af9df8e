package worker

import (
	"context"
	"encoding/json"
	"time"

	"padelcourt/cmd/internal/integration/mail"

	"github.com/hibiken/asynq"
)

const TaskSendEmail = "email:send"

// Client enqueues email tasks on Redis for the asynq server to deliver.
type Client struct {
	client *asynq.Client
}

func NewClient(redisURL string) (*Client, error) {
	opt, err := asynq.ParseRedisURI(redisURL)
	if err != nil {
		return nil, err
	}
	return &Client{client: asynq.NewClient(opt)}, nil
}

// Enqueue schedules a single delivery attempt for msg.
func (c *Client) Enqueue(ctx context.Context, msg *mail.Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	task := asynq.NewTask(
		TaskSendEmail,
		payload,
		asynq.MaxRetry(0),
		asynq.Timeout(30*time.Second),
		asynq.Retention(24*time.Hour),
	)
	_, err = c.client.EnqueueContext(ctx, task)
	return err
}

func (c *Client) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}
