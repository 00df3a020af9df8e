package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"padelcourt/cmd/internal/integration/mail"

	"github.com/hibiken/asynq"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []*mail.Message
	err  error
	done chan struct{}
}

func (r *recordingSender) Send(_ context.Context, msg *mail.Message) error {
	r.mu.Lock()
	r.sent = append(r.sent, msg)
	r.mu.Unlock()
	if r.done != nil {
		r.done <- struct{}{}
	}
	return r.err
}

func TestHandleSendEmail(t *testing.T) {
	sender := &recordingSender{}
	payload, _ := json.Marshal(&mail.Message{To: "p@test.com", Subject: "hi", Text: "body"})

	err := HandleSendEmail(sender)(context.Background(), asynq.NewTask(TaskSendEmail, payload))
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if len(sender.sent) != 1 || sender.sent[0].To != "p@test.com" {
		t.Errorf("sent = %+v", sender.sent)
	}
}

func TestHandleSendEmailBadPayload(t *testing.T) {
	err := HandleSendEmail(&recordingSender{})(context.Background(), asynq.NewTask(TaskSendEmail, []byte("{")))
	if !errors.Is(err, asynq.SkipRetry) {
		t.Errorf("err = %v, want SkipRetry", err)
	}
}

func TestInlineQueueSwallowsFailures(t *testing.T) {
	sender := &recordingSender{err: errors.New("smtp down"), done: make(chan struct{}, 1)}
	q := NewInlineQueue(sender)

	if err := q.Enqueue(context.Background(), &mail.Message{To: "p@test.com"}); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	select {
	case <-sender.done:
	case <-time.After(2 * time.Second):
		t.Fatal("message was not delivered")
	}
}
