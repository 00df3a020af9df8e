package routes

import (
	"context"
	"net/http"

	"padelcourt/cmd/internal/service"
	"padelcourt/cmd/internal/utils"
	"padelcourt/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type BookingService interface {
	CreateBooking(ctx context.Context, callerID string, req *service.CreateBookingRequest) (*service.BookingResponse, apierror.ErrorResponse)
	GetBookings(ctx context.Context, caller *utils.TokenData, q *service.BookingQuery) ([]*service.BookingResponse, apierror.ErrorResponse)
	GetBooking(ctx context.Context, caller *utils.TokenData, id string) (*service.BookingResponse, apierror.ErrorResponse)
	GetMyBookings(ctx context.Context, caller *utils.TokenData) ([]*service.BookingResponse, apierror.ErrorResponse)
	CancelBooking(ctx context.Context, caller *utils.TokenData, id string) (*service.BookingResponse, apierror.ErrorResponse)
}

type DefaultBookingRoute struct {
	BookingService BookingService
}

func NewBookingDefault(bookingService BookingService) *DefaultBookingRoute {
	return &DefaultBookingRoute{BookingService: bookingService}
}

func (b *DefaultBookingRoute) CreateBooking(c echo.Context) error {
	var req service.CreateBookingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	booking, apierr := b.BookingService.CreateBooking(c.Request().Context(), data.UserID, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "Booking created successfully", "booking": booking})
}

func (b *DefaultBookingRoute) GetBookings(c echo.Context) error {
	var q service.BookingQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	bookings, apierr := b.BookingService.GetBookings(c.Request().Context(), data, &q)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": bookings})
}

func (b *DefaultBookingRoute) GetMyBookings(c echo.Context) error {
	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	bookings, apierr := b.BookingService.GetMyBookings(c.Request().Context(), data)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": bookings})
}

func (b *DefaultBookingRoute) GetBooking(c echo.Context) error {
	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	booking, apierr := b.BookingService.GetBooking(c.Request().Context(), data, c.Param("id"))
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, echo.Map{"booking": booking})
}

func (b *DefaultBookingRoute) CancelBooking(c echo.Context) error {
	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	booking, apierr := b.BookingService.CancelBooking(c.Request().Context(), data, c.Param("id"))
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Booking cancelled successfully", "booking": booking})
}
