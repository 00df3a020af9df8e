package routes

import (
	"context"
	"net/http"

	"padelcourt/cmd/internal/service"
	"padelcourt/cmd/internal/utils"
	"padelcourt/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type CourtService interface {
	GetCourts(ctx context.Context) ([]*service.CourtResponse, apierror.ErrorResponse)
	GetCourt(ctx context.Context, id string) (*service.CourtResponse, apierror.ErrorResponse)
	CreateCourt(ctx context.Context, actorID string, req *service.CreateCourtRequest) (*service.CourtResponse, apierror.ErrorResponse)
	UpdateCourt(ctx context.Context, actorID, id string, req *service.UpdateCourtRequest) (*service.CourtResponse, apierror.ErrorResponse)
	DeleteCourt(ctx context.Context, actorID, id string) apierror.ErrorResponse
}

type DefaultCourtRoute struct {
	CourtService CourtService
}

func NewCourtDefault(courtService CourtService) *DefaultCourtRoute {
	return &DefaultCourtRoute{CourtService: courtService}
}

func (r *DefaultCourtRoute) GetCourts(c echo.Context) error {
	courts, apierr := r.CourtService.GetCourts(c.Request().Context())
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, echo.Map{"courts": courts})
}

func (r *DefaultCourtRoute) GetCourt(c echo.Context) error {
	court, apierr := r.CourtService.GetCourt(c.Request().Context(), c.Param("id"))
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, echo.Map{"court": court})
}

func (r *DefaultCourtRoute) CreateCourt(c echo.Context) error {
	var req service.CreateCourtRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	court, apierr := r.CourtService.CreateCourt(c.Request().Context(), data.UserID, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "Court created successfully", "court": court})
}

func (r *DefaultCourtRoute) UpdateCourt(c echo.Context) error {
	var req service.UpdateCourtRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	court, apierr := r.CourtService.UpdateCourt(c.Request().Context(), data.UserID, c.Param("id"), &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Court updated successfully", "court": court})
}

func (r *DefaultCourtRoute) DeleteCourt(c echo.Context) error {
	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	if apierr := r.CourtService.DeleteCourt(c.Request().Context(), data.UserID, c.Param("id")); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Court deactivated successfully"})
}
