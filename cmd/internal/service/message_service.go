package service

import (
	"context"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"padelcourt/cmd/internal/domain/entity"
	"padelcourt/cmd/internal/metrics"
	"padelcourt/cmd/internal/utils"
	"padelcourt/cmd/internal/utils/apierror"

	"github.com/labstack/gommon/log"
)

const (
	defaultConversationLimit = 50
	maxConversationLimit     = 100
)

type MessageRepository interface {
	FindByID(ctx context.Context, id string) (*entity.Message, error)
	Create(ctx context.Context, msg *entity.Message) error
	FindConversation(ctx context.Context, a, b string, limit, offset int) ([]*entity.Message, error)
	MarkRead(ctx context.Context, from, to string) (int64, error)
	Correspondents(ctx context.Context, userID string) ([]string, error)
	UnreadBySender(ctx context.Context, userID string) (map[string]int64, error)
	LastBetween(ctx context.Context, a, b string) (*entity.Message, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
	Delete(ctx context.Context, msg *entity.Message) error
}

type SendMessageRequest struct {
	ToUserID string `json:"toUserId"`
	Message  string `json:"message"`
}

type DefaultMessageService struct {
	MessageRepo MessageRepository
	UserRepo    UserRepository
	Effects     *SideEffects
}

func NewMessageService(messageRepo MessageRepository, userRepo UserRepository, effects *SideEffects) *DefaultMessageService {
	return &DefaultMessageService{MessageRepo: messageRepo, UserRepo: userRepo, Effects: effects}
}

// SendMessage stores a direct message and pushes it to both parties.
// It serves both the HTTP endpoint and the message:send socket event.
func (m *DefaultMessageService) SendMessage(ctx context.Context, fromID string, req *SendMessageRequest) (*MessageResponse, apierror.ErrorResponse) {
	req.ToUserID = strings.TrimSpace(req.ToUserID)
	if req.ToUserID == "" || strings.TrimSpace(req.Message) == "" {
		return nil, apierror.MessageRequiredError
	}
	if utf8.RuneCountInString(req.Message) > entity.MaxMessageLength {
		return nil, apierror.MessageTooLongError
	}

	recipient, err := m.UserRepo.FindByID(ctx, req.ToUserID)
	if err != nil {
		log.Errorf("failed to fetch user %s: %v", req.ToUserID, err)
		return nil, apierror.InternalServerError
	}
	if recipient == nil {
		return nil, apierror.RecipientMissingError
	}

	msg := &entity.Message{FromUserID: fromID, ToUserID: recipient.ID, Body: req.Message}
	if err = m.MessageRepo.Create(ctx, msg); err != nil {
		log.Errorf("failed to store message from %s to %s: %v", fromID, recipient.ID, err)
		return nil, apierror.InternalServerError
	}
	metrics.MessagesSent.Inc()

	resp := toMessageResponse(msg)
	m.Effects.emitToUser(ctx, recipient.ID, EventMessageReceive, resp)
	m.Effects.emitToUser(ctx, fromID, EventMessageSent, resp)
	m.Effects.publish(ctx, TopicMessageSent, resp)
	return resp, nil
}

// GetConversation returns both directions between the caller and otherID,
// oldest first. Reading marks the other user's messages as read.
func (m *DefaultMessageService) GetConversation(ctx context.Context, callerID, otherID string, limit, offset int) (*ConversationResponse, apierror.ErrorResponse) {
	if limit == 0 {
		limit = defaultConversationLimit
	}
	if limit < 1 || limit > maxConversationLimit {
		return nil, apierror.NewInvalidParamError("limit", "must be between 1 and 100")
	}
	if offset < 0 {
		return nil, apierror.NewInvalidParamError("offset", "must not be negative")
	}

	if _, err := m.MessageRepo.MarkRead(ctx, otherID, callerID); err != nil {
		log.Errorf("failed to mark messages from %s to %s read: %v", otherID, callerID, err)
		return nil, apierror.InternalServerError
	}

	msgs, err := m.MessageRepo.FindConversation(ctx, callerID, otherID, limit, offset)
	if err != nil {
		log.Errorf("failed to fetch conversation %s/%s: %v", callerID, otherID, err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*MessageResponse, len(msgs))
	for i, msg := range msgs {
		resp[i] = toMessageResponse(msg)
	}
	return &ConversationResponse{Messages: resp, Total: len(resp)}, nil
}

// GetConversations summarizes every correspondent of the caller, most
// recent conversation first.
func (m *DefaultMessageService) GetConversations(ctx context.Context, callerID string) ([]*ConversationSummary, apierror.ErrorResponse) {
	ids, err := m.MessageRepo.Correspondents(ctx, callerID)
	if err != nil {
		log.Errorf("failed to fetch correspondents of user %s: %v", callerID, err)
		return nil, apierror.InternalServerError
	}

	users, err := m.UserRepo.FindByIDs(ctx, ids)
	if err != nil {
		log.Errorf("failed to fetch correspondents of user %s: %v", callerID, err)
		return nil, apierror.InternalServerError
	}

	unread, err := m.MessageRepo.UnreadBySender(ctx, callerID)
	if err != nil {
		log.Errorf("failed to count unread messages of user %s: %v", callerID, err)
		return nil, apierror.InternalServerError
	}

	convs := make([]*ConversationSummary, 0, len(users))
	for _, user := range users {
		last, err := m.MessageRepo.LastBetween(ctx, callerID, user.ID)
		if err != nil {
			log.Errorf("failed to fetch last message %s/%s: %v", callerID, user.ID, err)
			return nil, apierror.InternalServerError
		}

		conv := &ConversationSummary{
			User:        toUserSummary(user),
			UnreadCount: unread[user.ID],
			lastAt:      time.Unix(0, 0).UTC(),
		}
		if last != nil {
			conv.lastAt = last.CreatedAt
			conv.LastMessage = &LastMessage{
				Message:   last.Body,
				Timestamp: utils.FormatTime(last.CreatedAt),
				FromMe:    last.FromUserID == callerID,
			}
		}
		convs = append(convs, conv)
	}

	sort.SliceStable(convs, func(i, j int) bool {
		return convs[i].lastAt.After(convs[j].lastAt)
	})
	return convs, nil
}

func (m *DefaultMessageService) GetUnreadCount(ctx context.Context, callerID string) (int64, apierror.ErrorResponse) {
	count, err := m.MessageRepo.CountUnread(ctx, callerID)
	if err != nil {
		log.Errorf("failed to count unread messages of user %s: %v", callerID, err)
		return 0, apierror.InternalServerError
	}
	return count, nil
}

func (m *DefaultMessageService) MarkConversationRead(ctx context.Context, callerID, otherID string) (*CountResponse, apierror.ErrorResponse) {
	updated, err := m.MessageRepo.MarkRead(ctx, otherID, callerID)
	if err != nil {
		log.Errorf("failed to mark messages from %s to %s read: %v", otherID, callerID, err)
		return nil, apierror.InternalServerError
	}
	return &CountResponse{Message: "Messages marked as read", Updated: updated}, nil
}

func (m *DefaultMessageService) DeleteMessage(ctx context.Context, callerID, id string) apierror.ErrorResponse {
	msg, err := m.MessageRepo.FindByID(ctx, id)
	if err != nil {
		log.Errorf("failed to fetch message %s: %v", id, err)
		return apierror.InternalServerError
	}
	if msg == nil {
		return apierror.MessageNotFoundError
	}
	if msg.FromUserID != callerID {
		return apierror.OwnMessagesOnlyError
	}

	if err = m.MessageRepo.Delete(ctx, msg); err != nil {
		log.Errorf("failed to delete message %s: %v", id, err)
		return apierror.InternalServerError
	}
	return nil
}
