package routes

import (
	"context"
	"net/http"

	"padelcourt/cmd/internal/service"
	"padelcourt/cmd/internal/utils"
	"padelcourt/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type WaitListService interface {
	JoinWaitList(ctx context.Context, callerID string, req *service.JoinWaitListRequest) (*service.WaitListResponse, bool, apierror.ErrorResponse)
	GetWaitList(ctx context.Context, callerID string) ([]*service.WaitListResponse, apierror.ErrorResponse)
	LeaveWaitList(ctx context.Context, callerID, id string) apierror.ErrorResponse
}

type DefaultWaitListRoute struct {
	WaitListService WaitListService
}

func NewWaitListDefault(waitListService WaitListService) *DefaultWaitListRoute {
	return &DefaultWaitListRoute{WaitListService: waitListService}
}

func (w *DefaultWaitListRoute) JoinWaitList(c echo.Context) error {
	var req service.JoinWaitListRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	entry, created, apierr := w.WaitListService.JoinWaitList(c.Request().Context(), data.UserID, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	return c.JSON(status, echo.Map{"entry": entry})
}

func (w *DefaultWaitListRoute) GetWaitList(c echo.Context) error {
	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	entries, apierr := w.WaitListService.GetWaitList(c.Request().Context(), data.UserID)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, echo.Map{"entries": entries})
}

func (w *DefaultWaitListRoute) LeaveWaitList(c echo.Context) error {
	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	if apierr := w.WaitListService.LeaveWaitList(c.Request().Context(), data.UserID, c.Param("id")); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Removed from wait-list"})
}
