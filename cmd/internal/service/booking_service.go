package service

import (
	"context"
	"errors"
	"fmt"

	"padelcourt/cmd/internal/domain/database/repository"
	"padelcourt/cmd/internal/domain/entity"
	"padelcourt/cmd/internal/integration/mail"
	"padelcourt/cmd/internal/metrics"
	"padelcourt/cmd/internal/utils"
	"padelcourt/cmd/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
)

type BookingRepository interface {
	FindByID(ctx context.Context, id string) (*entity.Booking, error)
	CreateIfSlotFree(ctx context.Context, booking *entity.Booking, note *entity.Notification, audit *entity.AuditLog) error
	Cancel(ctx context.Context, booking *entity.Booking, audit *entity.AuditLog, notify repository.WaitListNotifier) ([]*entity.Notification, error)
	Find(ctx context.Context, f repository.BookingFilter) ([]*entity.Booking, error)
	FindNewestFirst(ctx context.Context, f repository.BookingFilter) ([]*entity.Booking, error)
	IsSlotTaken(ctx context.Context, courtID, date string, startTime float64) (bool, error)
}

type CreateBookingRequest struct {
	CourtID           string  `json:"courtId" validate:"required"`
	Date              string  `json:"date" validate:"required,isodate"`
	StartTime         float64 `json:"startTime" validate:"required,min=0,max=24,quarterhour"`
	EndTime           float64 `json:"endTime" validate:"required,min=0,max=24,quarterhour"`
	RecurrenceType    string  `json:"recurrenceType" validate:"omitempty,oneof=NONE DAILY WEEKLY MONTHLY"`
	RecurrenceEndDate *string `json:"recurrenceEndDate" validate:"omitempty,isodate"`
	Notes             *string `json:"notes" validate:"omitempty,max=500"`
}

type BookingQuery struct {
	CourtID string `query:"courtId"`
	Date    string `query:"date" validate:"omitempty,isodate"`
	UserID  string `query:"userId"`
	Status  string `query:"status" validate:"omitempty,oneof=CONFIRMED CANCELLED"`
}

// BookingWindow is the range of decimal hours in which any court can be booked.
type BookingWindow struct {
	Open  float64
	Close float64
}

type DefaultBookingService struct {
	BookingRepo BookingRepository
	CourtRepo   CourtRepository
	UserRepo    UserRepository
	Window      BookingWindow
	Effects     *SideEffects
	Validate    *validator.Validate
}

func NewBookingService(bookingRepo BookingRepository, courtRepo CourtRepository, userRepo UserRepository, window BookingWindow, effects *SideEffects, validate *validator.Validate) *DefaultBookingService {
	return &DefaultBookingService{
		BookingRepo: bookingRepo,
		CourtRepo:   courtRepo,
		UserRepo:    userRepo,
		Window:      window,
		Effects:     effects,
		Validate:    validate,
	}
}

func (b *DefaultBookingService) CreateBooking(ctx context.Context, callerID string, req *CreateBookingRequest) (*BookingResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := b.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	// isodate has already accepted both forms
	date, _ := utils.ParseDate(req.Date)
	var recurrenceEnd *string
	if req.RecurrenceEndDate != nil {
		end, _ := utils.ParseDate(*req.RecurrenceEndDate)
		recurrenceEnd = &end
	}

	court, err := b.CourtRepo.FindByID(ctx, req.CourtID)
	if err != nil {
		log.Errorf("failed to fetch court %s: %v", req.CourtID, err)
		return nil, apierror.InternalServerError
	}
	if court == nil || !court.IsActive {
		return nil, apierror.CourtInactiveError
	}

	if req.StartTime >= req.EndTime {
		return nil, apierror.SlotOrderError
	}
	if req.StartTime < b.Window.Open || req.EndTime > b.Window.Close {
		return nil, apierror.NewBookingWindowError(utils.FormatHour(b.Window.Open), utils.FormatHour(b.Window.Close))
	}

	owner, err := b.UserRepo.FindByID(ctx, callerID)
	if err != nil {
		log.Errorf("failed to fetch user %s: %v", callerID, err)
		return nil, apierror.InternalServerError
	}
	if owner == nil {
		return nil, apierror.UserNotFoundError
	}

	recurrence := req.RecurrenceType
	if recurrence == "" {
		recurrence = entity.RecurrenceNone
	}

	booking := &entity.Booking{
		Base:              entity.Base{ID: uuid.NewString()},
		UserID:            owner.ID,
		CourtID:           court.ID,
		Date:              date,
		StartTime:         req.StartTime,
		EndTime:           req.EndTime,
		Status:            entity.BookingConfirmed,
		RecurrenceType:    recurrence,
		RecurrenceEndDate: recurrenceEnd,
		Notes:             req.Notes,
	}
	slot := slotOf(booking, court)
	note := &entity.Notification{
		UserID: owner.ID,
		Type:   entity.NotificationBookingConfirmation,
		Title:  "Booking Confirmed",
		Message: fmt.Sprintf("Your booking for %s on %s from %s to %s has been confirmed.",
			slot.Court, slot.Date, slot.Start, slot.End),
		Data: jsonData(map[string]any{"bookingId": booking.ID, "courtId": court.ID}),
	}
	audit := newAudit(owner.ID, entity.AuditBookingCreated, "Booking", booking.ID, map[string]any{
		"courtId":   court.ID,
		"date":      date,
		"startTime": req.StartTime,
		"endTime":   req.EndTime,
	})

	err = b.BookingRepo.CreateIfSlotFree(ctx, booking, note, audit)
	if errors.Is(err, repository.ErrSlotTaken) {
		metrics.BookingConflicts.Inc()
		return nil, apierror.SlotAlreadyBookedError
	}
	if err != nil {
		log.Errorf("failed to create booking on court %s: %v", court.ID, err)
		return nil, apierror.InternalServerError
	}
	metrics.BookingsCreated.Inc()
	metrics.NotificationsCreated.WithLabelValues(note.Type).Inc()

	booking.Court = *court
	booking.User = *owner
	resp := toBookingResponse(booking)
	b.afterCreate(ctx, owner, slot, note, resp)
	return resp, nil
}

func (b *DefaultBookingService) afterCreate(ctx context.Context, owner *entity.User, slot mail.Slot, note *entity.Notification, resp *BookingResponse) {
	b.Effects.emitToUser(ctx, owner.ID, EventNotificationNew, toNotificationResponse(note))
	b.Effects.emitAll(ctx, EventBookingCreated, resp)
	b.Effects.sendMail(ctx, mail.BookingConfirmation(owner.Email, owner.FullName(), slot))

	admins, err := b.UserRepo.FindActiveAdmins(ctx)
	if err != nil {
		log.Errorf("failed to fetch admins for booking %s: %v", resp.ID, err)
	}
	for _, admin := range admins {
		b.Effects.sendMail(ctx, mail.AdminBookingNotification(admin.Email, owner.FullName(), slot))
	}

	b.Effects.publish(ctx, TopicBookingCreated, resp)
}

// GetBookings lists bookings matching q. Players may only filter by their
// own user id; without a user filter every booking is visible so clients
// can render occupied slots.
func (b *DefaultBookingService) GetBookings(ctx context.Context, caller *utils.TokenData, q *BookingQuery) ([]*BookingResponse, apierror.ErrorResponse) {
	utils.Sanitize(q)
	if err := b.Validate.Struct(q); err != nil {
		return nil, apierror.FromValidationError(err)
	}
	if q.UserID != "" && q.UserID != caller.UserID && !caller.IsAdmin() {
		return nil, apierror.OwnBookingsOnlyError
	}

	filter := repository.BookingFilter{CourtID: q.CourtID, UserID: q.UserID, Status: q.Status}
	if q.Date != "" {
		filter.Date, _ = utils.ParseDate(q.Date)
	}

	bookings, err := b.BookingRepo.Find(ctx, filter)
	if err != nil {
		log.Errorf("failed to fetch bookings: %v", err)
		return nil, apierror.InternalServerError
	}
	return toBookingResponses(bookings), nil
}

func (b *DefaultBookingService) GetBooking(ctx context.Context, caller *utils.TokenData, id string) (*BookingResponse, apierror.ErrorResponse) {
	booking, apierr := b.fetchOwned(ctx, caller, id)
	if apierr != nil {
		return nil, apierr
	}
	return toBookingResponse(booking), nil
}

// GetMyBookings returns the caller's bookings newest first, or all of
// them for an admin.
func (b *DefaultBookingService) GetMyBookings(ctx context.Context, caller *utils.TokenData) ([]*BookingResponse, apierror.ErrorResponse) {
	filter := repository.BookingFilter{}
	if !caller.IsAdmin() {
		filter.UserID = caller.UserID
	}

	bookings, err := b.BookingRepo.FindNewestFirst(ctx, filter)
	if err != nil {
		log.Errorf("failed to fetch bookings of user %s: %v", caller.UserID, err)
		return nil, apierror.InternalServerError
	}
	return toBookingResponses(bookings), nil
}

// CancelBooking cancels a booking and tells everyone on the slot's
// wait-list that it is free. Cancelling twice is a no-op.
func (b *DefaultBookingService) CancelBooking(ctx context.Context, caller *utils.TokenData, id string) (*BookingResponse, apierror.ErrorResponse) {
	booking, apierr := b.fetchOwned(ctx, caller, id)
	if apierr != nil {
		return nil, apierr
	}
	if booking.IsCancelled() {
		return toBookingResponse(booking), nil
	}

	slot := slotOf(booking, &booking.Court)
	audit := newAudit(caller.UserID, entity.AuditBookingCancelled, "Booking", booking.ID, map[string]any{
		"courtId":   booking.CourtID,
		"date":      booking.Date,
		"startTime": booking.StartTime,
		"ownerId":   booking.UserID,
	})

	notes, err := b.BookingRepo.Cancel(ctx, booking, audit, func(waiting []*entity.WaitListEntry) []*entity.Notification {
		return cancellationNotes(booking, slot, waiting)
	})
	if errors.Is(err, repository.ErrAlreadyCancelled) {
		return b.GetBooking(ctx, caller, id)
	}
	if err != nil {
		log.Errorf("failed to cancel booking %s: %v", booking.ID, err)
		return nil, apierror.InternalServerError
	}
	metrics.BookingsCancelled.Inc()

	resp := toBookingResponse(booking)
	for _, note := range notes {
		metrics.NotificationsCreated.WithLabelValues(note.Type).Inc()
		b.Effects.emitToUser(ctx, note.UserID, EventNotificationNew, toNotificationResponse(note))
	}
	b.Effects.emitAll(ctx, EventBookingCancelled, resp)
	b.Effects.publish(ctx, TopicBookingCancelled, resp)
	return resp, nil
}

func (b *DefaultBookingService) fetchOwned(ctx context.Context, caller *utils.TokenData, id string) (*entity.Booking, apierror.ErrorResponse) {
	booking, err := b.BookingRepo.FindByID(ctx, id)
	if err != nil {
		log.Errorf("failed to fetch booking %s: %v", id, err)
		return nil, apierror.InternalServerError
	}
	if booking == nil {
		return nil, apierror.BookingNotFoundError
	}
	if booking.UserID != caller.UserID && !caller.IsAdmin() {
		return nil, apierror.ForbiddenError
	}
	return booking, nil
}

// cancellationNotes builds the owner's cancellation notice followed by one
// slot-available notice per waiting user.
func cancellationNotes(booking *entity.Booking, slot mail.Slot, waiting []*entity.WaitListEntry) []*entity.Notification {
	data := jsonData(map[string]any{
		"bookingId": booking.ID,
		"courtId":   booking.CourtID,
		"date":      booking.Date,
		"startTime": booking.StartTime,
	})

	notes := make([]*entity.Notification, 0, len(waiting)+1)
	notes = append(notes, &entity.Notification{
		UserID: booking.UserID,
		Type:   entity.NotificationBookingCancellation,
		Title:  "Booking Cancelled",
		Message: fmt.Sprintf("Your booking for %s on %s from %s to %s has been cancelled.",
			slot.Court, slot.Date, slot.Start, slot.End),
		Data: data,
	})
	for _, w := range waiting {
		notes = append(notes, &entity.Notification{
			UserID: w.UserID,
			Type:   entity.NotificationWaitList,
			Title:  "Slot Available",
			Message: fmt.Sprintf("%s on %s at %s is now available. Book it before someone else does.",
				slot.Court, slot.Date, slot.Start),
			Data: data,
		})
	}
	return notes
}

func slotOf(booking *entity.Booking, court *entity.Court) mail.Slot {
	return mail.Slot{
		Court: court.Name,
		Date:  utils.HumanDate(booking.Date),
		Start: utils.FormatHour(booking.StartTime),
		End:   utils.FormatHour(booking.EndTime),
	}
}
