package routes

import (
	"context"
	"net/http"

	"padelcourt/cmd/internal/service"
	"padelcourt/cmd/internal/utils"
	"padelcourt/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type NotificationService interface {
	GetNotifications(ctx context.Context, callerID string) (*service.NotificationListResponse, apierror.ErrorResponse)
	GetUnreadCount(ctx context.Context, callerID string) (int64, apierror.ErrorResponse)
	MarkAsRead(ctx context.Context, callerID, id string) (*service.NotificationResponse, apierror.ErrorResponse)
	MarkAllAsRead(ctx context.Context, callerID string) (*service.CountResponse, apierror.ErrorResponse)
	DeleteNotification(ctx context.Context, callerID, id string) apierror.ErrorResponse
	Broadcast(ctx context.Context, actorID string, req *service.BroadcastRequest) (*service.CountResponse, apierror.ErrorResponse)
}

type DefaultNotificationRoute struct {
	NotificationService NotificationService
}

func NewNotificationDefault(notificationService NotificationService) *DefaultNotificationRoute {
	return &DefaultNotificationRoute{NotificationService: notificationService}
}

func (n *DefaultNotificationRoute) GetNotifications(c echo.Context) error {
	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	list, apierr := n.NotificationService.GetNotifications(c.Request().Context(), data.UserID)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, list)
}

func (n *DefaultNotificationRoute) GetUnreadCount(c echo.Context) error {
	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	count, apierr := n.NotificationService.GetUnreadCount(c.Request().Context(), data.UserID)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, echo.Map{"unreadCount": count})
}

func (n *DefaultNotificationRoute) MarkAsRead(c echo.Context) error {
	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	note, apierr := n.NotificationService.MarkAsRead(c.Request().Context(), data.UserID, c.Param("id"))
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, echo.Map{"notification": note})
}

func (n *DefaultNotificationRoute) MarkAllAsRead(c echo.Context) error {
	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	resp, apierr := n.NotificationService.MarkAllAsRead(c.Request().Context(), data.UserID)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}

func (n *DefaultNotificationRoute) DeleteNotification(c echo.Context) error {
	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	if apierr := n.NotificationService.DeleteNotification(c.Request().Context(), data.UserID, c.Param("id")); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Notification deleted"})
}

func (n *DefaultNotificationRoute) Broadcast(c echo.Context) error {
	var req service.BroadcastRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	resp, apierr := n.NotificationService.Broadcast(c.Request().Context(), data.UserID, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, resp)
}
