package routes

import (
	"net/http"

	"padelcourt/cmd/internal/apidocs"
	"padelcourt/cmd/internal/utils"
	"padelcourt/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type DefaultServiceRoute struct {
	docs []byte
}

func NewServiceDefault() *DefaultServiceRoute {
	docs, err := apidocs.JSON()
	if err != nil {
		log.Errorf("failed to render api docs: %v", err)
	}
	return &DefaultServiceRoute{docs: docs}
}

func (s *DefaultServiceRoute) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "OK", "timestamp": utils.FormatTime(utils.NowUTC())})
}

func (s *DefaultServiceRoute) Docs(c echo.Context) error {
	if s.docs == nil {
		return c.JSON(http.StatusInternalServerError, apierror.InternalServerError)
	}
	return c.JSONBlob(http.StatusOK, s.docs)
}

func (s *DefaultServiceRoute) Metrics() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}
