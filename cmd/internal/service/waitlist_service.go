package service

import (
	"context"

	"padelcourt/cmd/internal/domain/database/repository"
	"padelcourt/cmd/internal/domain/entity"
	"padelcourt/cmd/internal/utils"
	"padelcourt/cmd/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

type WaitListRepository interface {
	FindByID(ctx context.Context, id string) (*entity.WaitListEntry, error)
	FindByUserSlot(ctx context.Context, userID, courtID, date string, startTime float64) (*entity.WaitListEntry, error)
	FindByUser(ctx context.Context, userID string) ([]*entity.WaitListEntry, error)
	Create(ctx context.Context, entry *entity.WaitListEntry) error
	Delete(ctx context.Context, entry *entity.WaitListEntry) error
}

type JoinWaitListRequest struct {
	CourtID   string  `json:"courtId" validate:"required"`
	Date      string  `json:"date" validate:"required,isodate"`
	StartTime float64 `json:"startTime" validate:"required,min=0,max=24,quarterhour"`
}

type DefaultWaitListService struct {
	WaitListRepo WaitListRepository
	BookingRepo  BookingRepository
	CourtRepo    CourtRepository
	Validate     *validator.Validate
}

func NewWaitListService(waitListRepo WaitListRepository, bookingRepo BookingRepository, courtRepo CourtRepository, validate *validator.Validate) *DefaultWaitListService {
	return &DefaultWaitListService{WaitListRepo: waitListRepo, BookingRepo: bookingRepo, CourtRepo: courtRepo, Validate: validate}
}

// JoinWaitList registers the caller for an occupied slot. The bool reports
// whether a new entry was created; a repeated registration returns the
// existing one.
func (w *DefaultWaitListService) JoinWaitList(ctx context.Context, callerID string, req *JoinWaitListRequest) (*WaitListResponse, bool, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := w.Validate.Struct(req); err != nil {
		return nil, false, apierror.FromValidationError(err)
	}
	date, _ := utils.ParseDate(req.Date)

	court, err := w.CourtRepo.FindByID(ctx, req.CourtID)
	if err != nil {
		log.Errorf("failed to fetch court %s: %v", req.CourtID, err)
		return nil, false, apierror.InternalServerError
	}
	if court == nil || !court.IsActive {
		return nil, false, apierror.CourtInactiveError
	}

	taken, err := w.BookingRepo.IsSlotTaken(ctx, court.ID, date, req.StartTime)
	if err != nil {
		log.Errorf("failed to check slot %s/%s/%v: %v", court.ID, date, req.StartTime, err)
		return nil, false, apierror.InternalServerError
	}
	if !taken {
		return nil, false, apierror.SlotAvailableError
	}

	existing, apierr := w.findExisting(ctx, callerID, court.ID, date, req.StartTime)
	if apierr != nil || existing != nil {
		return existing, false, apierr
	}

	entry := &entity.WaitListEntry{
		UserID:    callerID,
		CourtID:   court.ID,
		Date:      date,
		StartTime: req.StartTime,
	}
	err = w.WaitListRepo.Create(ctx, entry)
	if repository.IsDuplicate(err) {
		existing, apierr = w.findExisting(ctx, callerID, court.ID, date, req.StartTime)
		return existing, false, apierr
	}
	if err != nil {
		log.Errorf("failed to add user %s to wait-list: %v", callerID, err)
		return nil, false, apierror.InternalServerError
	}

	entry.Court = *court
	return toWaitListResponse(entry), true, nil
}

func (w *DefaultWaitListService) GetWaitList(ctx context.Context, callerID string) ([]*WaitListResponse, apierror.ErrorResponse) {
	entries, err := w.WaitListRepo.FindByUser(ctx, callerID)
	if err != nil {
		log.Errorf("failed to fetch wait-list of user %s: %v", callerID, err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*WaitListResponse, len(entries))
	for i, e := range entries {
		resp[i] = toWaitListResponse(e)
	}
	return resp, nil
}

func (w *DefaultWaitListService) LeaveWaitList(ctx context.Context, callerID, id string) apierror.ErrorResponse {
	entry, err := w.WaitListRepo.FindByID(ctx, id)
	if err != nil {
		log.Errorf("failed to fetch wait-list entry %s: %v", id, err)
		return apierror.InternalServerError
	}
	if entry == nil {
		return apierror.WaitListNotFoundError
	}
	if entry.UserID != callerID {
		return apierror.ForbiddenError
	}

	if err = w.WaitListRepo.Delete(ctx, entry); err != nil {
		log.Errorf("failed to delete wait-list entry %s: %v", id, err)
		return apierror.InternalServerError
	}
	return nil
}

func (w *DefaultWaitListService) findExisting(ctx context.Context, userID, courtID, date string, startTime float64) (*WaitListResponse, apierror.ErrorResponse) {
	existing, err := w.WaitListRepo.FindByUserSlot(ctx, userID, courtID, date, startTime)
	if err != nil {
		log.Errorf("failed to fetch wait-list entry of user %s: %v", userID, err)
		return nil, apierror.InternalServerError
	}
	if existing == nil {
		return nil, nil
	}
	return toWaitListResponse(existing), nil
}
