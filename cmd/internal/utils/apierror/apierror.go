package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrorResponse is the error contract between services and routes.
// It is rendered as-is in the response body with Code() as the status.
type ErrorResponse interface {
	error
	Code() int
}

type apiError struct {
	Status  int    `json:"-"`
	Message string `json:"error"`
	Details any    `json:"details,omitempty"`
}

func (e *apiError) Error() string {
	return e.Message
}

func (e *apiError) Code() int {
	return e.Status
}

type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

func New(code int, message string, details any) ErrorResponse {
	return &apiError{Status: code, Message: message, Details: details}
}

func NewSimple(code int, message string) ErrorResponse {
	return &apiError{Status: code, Message: message}
}

func NewMissingParamError(name string) ErrorResponse {
	return NewSimple(http.StatusBadRequest, fmt.Sprintf("Missing required parameter '%s'", name))
}

func NewInvalidParamTypeError(name, expected string) ErrorResponse {
	return NewSimple(http.StatusBadRequest, fmt.Sprintf("Parameter '%s' must be of type %s", name, expected))
}

func NewBookingWindowError(from, to string) ErrorResponse {
	return NewSimple(http.StatusBadRequest, fmt.Sprintf("Bookings must be between %s and %s", from, to))
}

func NewInvalidParamError(name, reason string) ErrorResponse {
	return New(http.StatusBadRequest, fmt.Sprintf("Invalid parameter '%s'", name), reason)
}

// FromValidationError converts validator failures into a 400 listing the
// offending fields by their json names.
func FromValidationError(err error) ErrorResponse {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return MalformedBodyError
	}

	fields := make([]FieldError, len(verrs))
	for i, fe := range verrs {
		fields[i] = FieldError{
			Field: jsonName(fe),
			Rule:  fe.Tag(),
			Param: fe.Param(),
		}
	}
	return New(http.StatusBadRequest, "Validation failed", fields)
}

func jsonName(fe validator.FieldError) string {
	name := fe.Field()
	if name == "" {
		return fe.StructField()
	}
	return strings.ToLower(name[:1]) + name[1:]
}

var (
	InternalServerError = NewSimple(http.StatusInternalServerError, "Internal server error")
	MalformedBodyError  = NewSimple(http.StatusBadRequest, "Malformed request body")
	NotFoundError       = NewSimple(http.StatusNotFound, "Resource not found")
	ForbiddenError      = NewSimple(http.StatusForbidden, "Access denied")
	RouteNotFoundError  = NewSimple(http.StatusNotFound, "Route not found")
	TooManyRequests     = NewSimple(http.StatusTooManyRequests, "Too many requests from this IP, please try again later")

	MissingAuthTokenError   = NewSimple(http.StatusUnauthorized, "No token provided")
	InvalidAuthTokenError   = NewSimple(http.StatusUnauthorized, "Invalid or expired token")
	InsufficientRoleError   = NewSimple(http.StatusForbidden, "Forbidden: Insufficient permissions")
	InvalidCredentialsError = NewSimple(http.StatusUnauthorized, "Invalid credentials")
	AccountDeactivatedError = NewSimple(http.StatusForbidden, "Account is deactivated")
	MissingRefreshToken     = NewSimple(http.StatusBadRequest, "Refresh token is required")
	InvalidRefreshToken     = NewSimple(http.StatusUnauthorized, "Invalid or expired refresh token")
	UserAlreadyExistsError  = NewSimple(http.StatusConflict, "User already exists")
	UserNotFoundError       = NewSimple(http.StatusNotFound, "User not found")
	SelfDeactivationError   = NewSimple(http.StatusBadRequest, "You cannot deactivate your own account")

	CourtNotFoundError      = NewSimple(http.StatusNotFound, "Court not found")
	CourtInactiveError      = NewSimple(http.StatusNotFound, "Court not found or inactive")
	CourtAlreadyExistsError = NewSimple(http.StatusConflict, "Court name already exists")
	CourtHoursError         = NewSimple(http.StatusBadRequest, "Opening time must be before closing time")

	BookingNotFoundError   = NewSimple(http.StatusNotFound, "Booking not found")
	SlotAlreadyBookedError = NewSimple(http.StatusConflict, "Time slot already booked")
	SlotOrderError         = NewSimple(http.StatusBadRequest, "Start time must be before end time")
	OwnBookingsOnlyError   = NewSimple(http.StatusForbidden, "You can only view your own bookings")
	SlotAvailableError     = NewSimple(http.StatusBadRequest, "Time slot is available, book it directly")
	WaitListNotFoundError  = NewSimple(http.StatusNotFound, "Wait-list entry not found")

	NotificationNotFoundError = NewSimple(http.StatusNotFound, "Notification not found")

	MessageNotFoundError  = NewSimple(http.StatusNotFound, "Message not found")
	MessageTooLongError   = NewSimple(http.StatusBadRequest, "Message must be 500 characters or less")
	MessageRequiredError  = NewSimple(http.StatusBadRequest, "Recipient and message are required")
	OwnMessagesOnlyError  = NewSimple(http.StatusForbidden, "You can only delete your own messages")
	RecipientMissingError = NewSimple(http.StatusNotFound, "Recipient not found")

	ExportFormatError    = NewSimple(http.StatusBadRequest, "Format must be one of json, excel or pdf")
	ExportDateRangeError = NewSimple(http.StatusBadRequest, "Start date must not be after end date")

	ImageRequiredError   = NewSimple(http.StatusBadRequest, "Image file is required")
	ImageTooLargeError   = NewSimple(http.StatusBadRequest, "Image size must be less than 5MB")
	ImageTypeError       = NewSimple(http.StatusBadRequest, "Only JPEG, PNG, and GIF images are allowed")
	GalleryNotFoundError = NewSimple(http.StatusNotFound, "Gallery image not found")
)
