package routes

import (
	"context"
	"net/http"
	"strconv"

	"padelcourt/cmd/internal/service"
	"padelcourt/cmd/internal/utils"
	"padelcourt/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type MessageService interface {
	SendMessage(ctx context.Context, fromID string, req *service.SendMessageRequest) (*service.MessageResponse, apierror.ErrorResponse)
	GetConversation(ctx context.Context, callerID, otherID string, limit, offset int) (*service.ConversationResponse, apierror.ErrorResponse)
	GetConversations(ctx context.Context, callerID string) ([]*service.ConversationSummary, apierror.ErrorResponse)
	GetUnreadCount(ctx context.Context, callerID string) (int64, apierror.ErrorResponse)
	MarkConversationRead(ctx context.Context, callerID, otherID string) (*service.CountResponse, apierror.ErrorResponse)
	DeleteMessage(ctx context.Context, callerID, id string) apierror.ErrorResponse
}

type DefaultMessageRoute struct {
	MessageService MessageService
}

func NewMessageDefault(messageService MessageService) *DefaultMessageRoute {
	return &DefaultMessageRoute{MessageService: messageService}
}

func (m *DefaultMessageRoute) SendMessage(c echo.Context) error {
	var req service.SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	msg, apierr := m.MessageService.SendMessage(c.Request().Context(), data.UserID, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "Message sent successfully", "data": msg})
}

func (m *DefaultMessageRoute) GetConversation(c echo.Context) error {
	limit, apierr := intQueryParam(c, "limit")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	offset, apierr := intQueryParam(c, "offset")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	conv, apierr := m.MessageService.GetConversation(c.Request().Context(), data.UserID, c.Param("userId"), limit, offset)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, conv)
}

func (m *DefaultMessageRoute) GetConversations(c echo.Context) error {
	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	convs, apierr := m.MessageService.GetConversations(c.Request().Context(), data.UserID)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, echo.Map{"conversations": convs})
}

func (m *DefaultMessageRoute) GetUnreadCount(c echo.Context) error {
	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	count, apierr := m.MessageService.GetUnreadCount(c.Request().Context(), data.UserID)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, echo.Map{"unreadCount": count})
}

func (m *DefaultMessageRoute) MarkConversationRead(c echo.Context) error {
	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	resp, apierr := m.MessageService.MarkConversationRead(c.Request().Context(), data.UserID, c.Param("userId"))
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}

func (m *DefaultMessageRoute) DeleteMessage(c echo.Context) error {
	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	if apierr := m.MessageService.DeleteMessage(c.Request().Context(), data.UserID, c.Param("messageId")); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Message deleted successfully"})
}

// intQueryParam returns 0 when the parameter is absent.
func intQueryParam(c echo.Context, name string) (int, apierror.ErrorResponse) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apierror.NewInvalidParamTypeError(name, "integer")
	}
	return v, nil
}
