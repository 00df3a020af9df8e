package service

import (
	"context"

	"padelcourt/cmd/internal/domain/entity"
	"padelcourt/cmd/internal/metrics"
	"padelcourt/cmd/internal/utils"
	"padelcourt/cmd/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

const recentNotificationsLimit = 50

type NotificationRepository interface {
	FindByID(ctx context.Context, id string) (*entity.Notification, error)
	FindRecent(ctx context.Context, userID string, limit int) ([]*entity.Notification, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, note *entity.Notification) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	Delete(ctx context.Context, note *entity.Notification) error
	CreateMany(ctx context.Context, notes []*entity.Notification, audit *entity.AuditLog) error
}

type BroadcastRequest struct {
	Title   string `json:"title" validate:"required,notblank,max=200"`
	Message string `json:"message" validate:"required,notblank,max=2000"`
}

type DefaultNotificationService struct {
	NotificationRepo NotificationRepository
	UserRepo         UserRepository
	Effects          *SideEffects
	Validate         *validator.Validate
}

func NewNotificationService(notificationRepo NotificationRepository, userRepo UserRepository, effects *SideEffects, validate *validator.Validate) *DefaultNotificationService {
	return &DefaultNotificationService{NotificationRepo: notificationRepo, UserRepo: userRepo, Effects: effects, Validate: validate}
}

// GetNotifications returns the caller's most recent notifications.
// UnreadCount covers all of them, not only the returned page.
func (n *DefaultNotificationService) GetNotifications(ctx context.Context, callerID string) (*NotificationListResponse, apierror.ErrorResponse) {
	notes, err := n.NotificationRepo.FindRecent(ctx, callerID, recentNotificationsLimit)
	if err != nil {
		log.Errorf("failed to fetch notifications of user %s: %v", callerID, err)
		return nil, apierror.InternalServerError
	}

	unread, apierr := n.GetUnreadCount(ctx, callerID)
	if apierr != nil {
		return nil, apierr
	}

	resp := make([]*NotificationResponse, len(notes))
	for i, note := range notes {
		resp[i] = toNotificationResponse(note)
	}
	return &NotificationListResponse{Notifications: resp, UnreadCount: unread, TotalCount: len(resp)}, nil
}

func (n *DefaultNotificationService) GetUnreadCount(ctx context.Context, callerID string) (int64, apierror.ErrorResponse) {
	count, err := n.NotificationRepo.CountUnread(ctx, callerID)
	if err != nil {
		log.Errorf("failed to count unread notifications of user %s: %v", callerID, err)
		return 0, apierror.InternalServerError
	}
	return count, nil
}

func (n *DefaultNotificationService) MarkAsRead(ctx context.Context, callerID, id string) (*NotificationResponse, apierror.ErrorResponse) {
	note, apierr := n.fetchOwned(ctx, callerID, id)
	if apierr != nil {
		return nil, apierr
	}

	if err := n.NotificationRepo.MarkRead(ctx, note); err != nil {
		log.Errorf("failed to mark notification %s read: %v", id, err)
		return nil, apierror.InternalServerError
	}
	return toNotificationResponse(note), nil
}

func (n *DefaultNotificationService) MarkAllAsRead(ctx context.Context, callerID string) (*CountResponse, apierror.ErrorResponse) {
	updated, err := n.NotificationRepo.MarkAllRead(ctx, callerID)
	if err != nil {
		log.Errorf("failed to mark notifications of user %s read: %v", callerID, err)
		return nil, apierror.InternalServerError
	}
	return &CountResponse{Message: "All notifications marked as read", Updated: updated}, nil
}

func (n *DefaultNotificationService) DeleteNotification(ctx context.Context, callerID, id string) apierror.ErrorResponse {
	note, apierr := n.fetchOwned(ctx, callerID, id)
	if apierr != nil {
		return apierr
	}

	if err := n.NotificationRepo.Delete(ctx, note); err != nil {
		log.Errorf("failed to delete notification %s: %v", id, err)
		return apierror.InternalServerError
	}
	return nil
}

// Broadcast sends an admin message to every active user.
func (n *DefaultNotificationService) Broadcast(ctx context.Context, actorID string, req *BroadcastRequest) (*CountResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := n.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	users, err := n.UserRepo.FindActive(ctx, "")
	if err != nil {
		log.Errorf("failed to fetch active users: %v", err)
		return nil, apierror.InternalServerError
	}

	notes := make([]*entity.Notification, len(users))
	for i, user := range users {
		notes[i] = &entity.Notification{
			UserID:  user.ID,
			Type:    entity.NotificationAdminMessage,
			Title:   req.Title,
			Message: req.Message,
		}
	}
	audit := newAudit(actorID, entity.AuditNotificationBroadcast, "Notification", "", map[string]any{
		"title":      req.Title,
		"recipients": len(notes),
	})

	if err = n.NotificationRepo.CreateMany(ctx, notes, audit); err != nil {
		log.Errorf("failed to broadcast notification: %v", err)
		return nil, apierror.InternalServerError
	}

	for _, note := range notes {
		metrics.NotificationsCreated.WithLabelValues(note.Type).Inc()
		n.Effects.emitToUser(ctx, note.UserID, EventNotificationNew, toNotificationResponse(note))
	}
	return &CountResponse{Message: "Notification sent", Updated: int64(len(notes))}, nil
}

func (n *DefaultNotificationService) fetchOwned(ctx context.Context, callerID, id string) (*entity.Notification, apierror.ErrorResponse) {
	note, err := n.NotificationRepo.FindByID(ctx, id)
	if err != nil {
		log.Errorf("failed to fetch notification %s: %v", id, err)
		return nil, apierror.InternalServerError
	}
	if note == nil {
		return nil, apierror.NotificationNotFoundError
	}
	if note.UserID != callerID {
		return nil, apierror.ForbiddenError
	}
	return note, nil
}
