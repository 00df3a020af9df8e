package routes

import (
	"context"
	"net/http"

	"padelcourt/cmd/internal/service"
	"padelcourt/cmd/internal/utils"
	"padelcourt/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type AuthService interface {
	Authenticator
	Register(ctx context.Context, req *service.RegisterRequest) (*service.AuthResponse, apierror.ErrorResponse)
	Login(ctx context.Context, req *service.LoginRequest) (*service.AuthResponse, apierror.ErrorResponse)
	Refresh(ctx context.Context, req *service.RefreshRequest) (*service.TokenPairResponse, apierror.ErrorResponse)
	Logout(ctx context.Context, caller *utils.TokenData, req *service.RefreshRequest) apierror.ErrorResponse
}

type DefaultAuthRoute struct {
	AuthService AuthService
}

func NewAuthDefault(authService AuthService) *DefaultAuthRoute {
	return &DefaultAuthRoute{AuthService: authService}
}

func (a *DefaultAuthRoute) Register(c echo.Context) error {
	var req service.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	resp, apierr := a.AuthService.Register(c.Request().Context(), &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, resp)
}

func (a *DefaultAuthRoute) Login(c echo.Context) error {
	var req service.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	resp, apierr := a.AuthService.Login(c.Request().Context(), &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}

func (a *DefaultAuthRoute) Refresh(c echo.Context) error {
	var req service.RefreshRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	resp, apierr := a.AuthService.Refresh(c.Request().Context(), &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}

// Logout works with a bearer token, a refresh token in the body, or both.
func (a *DefaultAuthRoute) Logout(c echo.Context) error {
	var req service.RefreshRequest
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
		}
	}

	caller, _ := utils.ParseTokenDataCtx(c)
	if apierr := a.AuthService.Logout(c.Request().Context(), caller, &req); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Logout successful"})
}
