package routes

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"padelcourt/cmd/internal/service"
	"padelcourt/cmd/internal/utils"
	"padelcourt/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

type GalleryService interface {
	GetImages(ctx context.Context, isActive *bool) ([]*service.GalleryImageResponse, apierror.ErrorResponse)
	UploadImage(ctx context.Context, actorID string, req *service.UploadImageRequest, file *multipart.FileHeader) (*service.GalleryImageResponse, apierror.ErrorResponse)
	UpdateImage(ctx context.Context, id string, req *service.UpdateImageRequest) (*service.GalleryImageResponse, apierror.ErrorResponse)
	DeleteImage(ctx context.Context, actorID, id string) apierror.ErrorResponse
}

type DefaultGalleryRoute struct {
	GalleryService GalleryService
}

func NewGalleryDefault(galleryService GalleryService) *DefaultGalleryRoute {
	return &DefaultGalleryRoute{GalleryService: galleryService}
}

func (g *DefaultGalleryRoute) GetImages(c echo.Context) error {
	var isActive *bool
	if raw := c.QueryParam("isActive"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			errResp := apierror.NewInvalidParamTypeError("isActive", "boolean")
			return c.JSON(errResp.Code(), errResp)
		}
		isActive = &v
	}

	imgs, apierr := g.GalleryService.GetImages(c.Request().Context(), isActive)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, echo.Map{"images": imgs})
}

func (g *DefaultGalleryRoute) UploadImage(c echo.Context) error {
	var req service.UploadImageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	file, err := c.FormFile("image")
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		log.Debugf("failed to read uploaded image: %v", err)
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	img, apierr := g.GalleryService.UploadImage(c.Request().Context(), data.UserID, &req, file)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "Image uploaded successfully", "image": img})
}

func (g *DefaultGalleryRoute) UpdateImage(c echo.Context) error {
	var req service.UpdateImageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	img, apierr := g.GalleryService.UpdateImage(c.Request().Context(), c.Param("id"), &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Image updated successfully", "image": img})
}

func (g *DefaultGalleryRoute) DeleteImage(c echo.Context) error {
	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	if apierr := g.GalleryService.DeleteImage(c.Request().Context(), data.UserID, c.Param("id")); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Image deleted successfully"})
}
