package routes

import (
	"context"
	"net/http"
	"strings"

	"padelcourt/cmd/internal/service"
	"padelcourt/cmd/internal/utils"
	"padelcourt/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type UserService interface {
	GetUsers(ctx context.Context, callerID string) ([]*service.UserResponse, apierror.ErrorResponse)
	GetOnlineUsers(ctx context.Context) ([]*service.UserResponse, apierror.ErrorResponse)
	GetUser(ctx context.Context, id string) (*service.UserResponse, apierror.ErrorResponse)
	UpdateProfile(ctx context.Context, callerID string, req *service.UpdateProfileRequest) (*service.UserResponse, apierror.ErrorResponse)
	ListUsers(ctx context.Context, q *service.UserListQuery) (*service.UserPageResponse, apierror.ErrorResponse)
	CreateAdmin(ctx context.Context, actorID string, req *service.CreateAdminRequest) (*service.UserResponse, apierror.ErrorResponse)
	UpdateAdmin(ctx context.Context, actorID, id string, req *service.UpdateAdminRequest) (*service.UserResponse, apierror.ErrorResponse)
	SetUserStatus(ctx context.Context, actorID, id string, req *service.UserStatusRequest) (*service.UserResponse, apierror.ErrorResponse)
}

type DefaultUserRoute struct {
	UserService UserService
}

func NewUserDefault(userService UserService) *DefaultUserRoute {
	return &DefaultUserRoute{UserService: userService}
}

func (u *DefaultUserRoute) GetUsers(c echo.Context) error {
	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	users, apierr := u.UserService.GetUsers(c.Request().Context(), data.UserID)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, echo.Map{"users": users})
}

func (u *DefaultUserRoute) GetOnlineUsers(c echo.Context) error {
	users, apierr := u.UserService.GetOnlineUsers(c.Request().Context())
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, echo.Map{"users": users})
}

func (u *DefaultUserRoute) GetUser(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return c.JSON(http.StatusBadRequest, apierror.NewMissingParamError("id"))
	}

	user, apierr := u.UserService.GetUser(c.Request().Context(), id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, echo.Map{"user": user})
}

func (u *DefaultUserRoute) GetProfile(c echo.Context) error {
	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	user, apierr := u.UserService.GetUser(c.Request().Context(), data.UserID)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, echo.Map{"user": user})
}

func (u *DefaultUserRoute) UpdateProfile(c echo.Context) error {
	var req service.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	user, apierr := u.UserService.UpdateProfile(c.Request().Context(), data.UserID, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Profile updated successfully", "user": user})
}

func (u *DefaultUserRoute) ListUsers(c echo.Context) error {
	var q service.UserListQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.NewInvalidParamTypeError("page/limit", "integer"))
	}

	page, apierr := u.UserService.ListUsers(c.Request().Context(), &q)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, page)
}

func (u *DefaultUserRoute) CreateAdmin(c echo.Context) error {
	var req service.CreateAdminRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	admin, apierr := u.UserService.CreateAdmin(c.Request().Context(), data.UserID, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "Admin created successfully", "user": admin})
}

func (u *DefaultUserRoute) UpdateAdmin(c echo.Context) error {
	var req service.UpdateAdminRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	admin, apierr := u.UserService.UpdateAdmin(c.Request().Context(), data.UserID, c.Param("id"), &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Admin updated successfully", "user": admin})
}

func (u *DefaultUserRoute) SetUserStatus(c echo.Context) error {
	var req service.UserStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	user, apierr := u.UserService.SetUserStatus(c.Request().Context(), data.UserID, c.Param("id"), &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "User status updated", "user": user})
}
