package worker

import (
	"context"
	"time"

	"padelcourt/cmd/internal/integration/mail"
	"padelcourt/cmd/internal/metrics"

	"github.com/labstack/gommon/log"
)

// InlineQueue delivers email on a goroutine in this process. Used when
// no Redis is configured.
type InlineQueue struct {
	Sender  mail.Sender
	Timeout time.Duration
}

func NewInlineQueue(sender mail.Sender) *InlineQueue {
	return &InlineQueue{Sender: sender, Timeout: 30 * time.Second}
}

func (q *InlineQueue) Enqueue(ctx context.Context, msg *mail.Message) error {
	go func() {
		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), q.Timeout)
		defer cancel()
		if err := q.Sender.Send(sendCtx, msg); err != nil {
			metrics.SideEffectFailures.WithLabelValues("email").Inc()
			log.Errorf("failed to send email to %s: %v", msg.To, err)
		}
	}()
	return nil
}
