package routes

import (
	"context"
	"fmt"
	"net/http"

	"padelcourt/cmd/internal/service"
	"padelcourt/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type ExportService interface {
	ExportBookings(ctx context.Context, q *service.ExportQuery) (*service.ExportResult, apierror.ErrorResponse)
}

type DefaultExportRoute struct {
	ExportService ExportService
}

func NewExportDefault(exportService ExportService) *DefaultExportRoute {
	return &DefaultExportRoute{ExportService: exportService}
}

func (e *DefaultExportRoute) ExportBookings(c echo.Context) error {
	var q service.ExportQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	res, apierr := e.ExportService.ExportBookings(c.Request().Context(), &q)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	if res.File == nil {
		return c.JSON(http.StatusOK, echo.Map{"bookings": res.Rows})
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", res.File.Filename))
	return c.Blob(http.StatusOK, res.File.ContentType, res.File.Body)
}
