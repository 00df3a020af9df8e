package routes

import (
	"context"
	"net/http"

	"padelcourt/cmd/internal/service"
	"padelcourt/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type ContactService interface {
	SubmitContact(ctx context.Context, req *service.ContactRequest) (*service.ContactResponse, apierror.ErrorResponse)
}

type AuditService interface {
	GetAuditLogs(ctx context.Context, q *service.AuditQuery) (*service.AuditLogPageResponse, apierror.ErrorResponse)
}

type DefaultContactRoute struct {
	ContactService ContactService
}

func NewContactDefault(contactService ContactService) *DefaultContactRoute {
	return &DefaultContactRoute{ContactService: contactService}
}

func (r *DefaultContactRoute) SubmitContact(c echo.Context) error {
	var req service.ContactRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	resp, apierr := r.ContactService.SubmitContact(c.Request().Context(), &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, resp)
}

type DefaultAuditRoute struct {
	AuditService AuditService
}

func NewAuditDefault(auditService AuditService) *DefaultAuditRoute {
	return &DefaultAuditRoute{AuditService: auditService}
}

func (a *DefaultAuditRoute) GetAuditLogs(c echo.Context) error {
	var q service.AuditQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.NewInvalidParamTypeError("limit/offset", "integer"))
	}

	page, apierr := a.AuditService.GetAuditLogs(c.Request().Context(), &q)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, page)
}
