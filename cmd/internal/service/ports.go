package service

import (
	"context"
	"io"

	"padelcourt/cmd/internal/integration/mail"
	"padelcourt/cmd/internal/metrics"

	"github.com/labstack/gommon/log"
)

// Socket events pushed to clients.
const (
	EventUsersOnline      = "users:online"
	EventUserTyping       = "user:typing"
	EventMessageReceive   = "message:receive"
	EventMessageSent      = "message:sent"
	EventMessageError     = "message:error"
	EventNotificationNew  = "notification:new"
	EventBookingCreated   = "booking:created"
	EventBookingCancelled = "booking:cancelled"
)

// Routing keys of the domain events published to the message broker.
const (
	TopicBookingCreated   = "booking.created"
	TopicBookingCancelled = "booking.cancelled"
	TopicMessageSent      = "message.sent"
)

// Broadcaster pushes events to connected sessions. Delivery is best effort.
type Broadcaster interface {
	EmitToUser(ctx context.Context, userID, event string, payload any) error
	EmitAll(ctx context.Context, event string, payload any) error
}

type EmailQueue interface {
	Enqueue(ctx context.Context, msg *mail.Message) error
}

type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

// ImageStore keeps gallery files and returns the public URL of a stored object.
type ImageStore interface {
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
	Delete(ctx context.Context, key string) error
}

type PresenceLister interface {
	OnlineUserIDs(ctx context.Context) ([]string, error)
}

// SideEffects runs the after-commit work of a request. Every call logs
// and swallows its failure; a nil port is skipped.
type SideEffects struct {
	Broadcaster Broadcaster
	Mail        EmailQueue
	Events      EventPublisher
}

func (s *SideEffects) emitToUser(ctx context.Context, userID, event string, payload any) {
	if s == nil || s.Broadcaster == nil {
		return
	}
	if err := s.Broadcaster.EmitToUser(ctx, userID, event, payload); err != nil {
		metrics.SideEffectFailures.WithLabelValues("realtime").Inc()
		log.Warnf("failed to emit %s to user %s: %v", event, userID, err)
	}
}

func (s *SideEffects) emitAll(ctx context.Context, event string, payload any) {
	if s == nil || s.Broadcaster == nil {
		return
	}
	if err := s.Broadcaster.EmitAll(ctx, event, payload); err != nil {
		metrics.SideEffectFailures.WithLabelValues("realtime").Inc()
		log.Warnf("failed to broadcast %s: %v", event, err)
	}
}

func (s *SideEffects) sendMail(ctx context.Context, msg *mail.Message) {
	if s == nil || s.Mail == nil || msg.To == "" {
		return
	}
	if err := s.Mail.Enqueue(ctx, msg); err != nil {
		metrics.SideEffectFailures.WithLabelValues("email").Inc()
		log.Errorf("failed to queue email to %s: %v", msg.To, err)
	}
}

func (s *SideEffects) publish(ctx context.Context, key string, payload any) {
	if s == nil || s.Events == nil {
		return
	}
	if err := s.Events.Publish(ctx, key, payload); err != nil {
		metrics.SideEffectFailures.WithLabelValues("events").Inc()
		log.Errorf("failed to publish %s: %v", key, err)
	}
}
