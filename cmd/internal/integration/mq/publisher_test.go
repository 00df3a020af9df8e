package mq

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"
)

func TestNopPublisher(t *testing.T) {
	if err := (NopPublisher{}).Publish(context.Background(), "booking.created", map[string]string{"id": "b1"}); err != nil {
		t.Fatal(err)
	}
}

func TestPublishReachesBoundQueue(t *testing.T) {
	url := os.Getenv("AMQP_URL")
	if url == "" {
		t.Skip("AMQP_URL not set")
	}
	const exchange = "padel.events.test"

	pub, err := NewPublisher(url, exchange)
	if err != nil {
		t.Fatal(err)
	}
	defer pub.Close()

	q, err := pub.ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err = pub.ch.QueueBind(q.Name, "booking.*", exchange, false, nil); err != nil {
		t.Fatal(err)
	}
	deliveries, err := pub.ch.Consume(q.Name, "", true, true, false, false, nil)
	if err != nil {
		t.Fatal(err)
	}

	if err = pub.Publish(context.Background(), "booking.cancelled", map[string]string{"id": "b1"}); err != nil {
		t.Fatal(err)
	}

	select {
	case d := <-deliveries:
		var got map[string]string
		json.Unmarshal(d.Body, &got)
		if d.RoutingKey != "booking.cancelled" || got["id"] != "b1" {
			t.Errorf("delivery = %s %s", d.RoutingKey, d.Body)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no delivery")
	}
}
