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

type CourtRepository interface {
	FindByID(ctx context.Context, id string) (*entity.Court, error)
	FindActive(ctx context.Context) ([]*entity.Court, error)
	ExistsByName(ctx context.Context, name, excludeID string) (bool, error)
	Create(ctx context.Context, court *entity.Court, audit *entity.AuditLog) error
	Update(ctx context.Context, court *entity.Court, audit *entity.AuditLog) error
}

type CreateCourtRequest struct {
	Name        string   `json:"name" validate:"required,notblank,max=100"`
	Color       string   `json:"color" validate:"required,notblank,max=32"`
	Description *string  `json:"description" validate:"omitempty,max=1000"`
	OpeningTime *float64 `json:"openingTime" validate:"omitempty,min=0,max=24,quarterhour"`
	ClosingTime *float64 `json:"closingTime" validate:"omitempty,min=0,max=24,quarterhour"`
}

type UpdateCourtRequest struct {
	Name        *string  `json:"name" validate:"omitempty,notblank,max=100"`
	Color       *string  `json:"color" validate:"omitempty,notblank,max=32"`
	Description *string  `json:"description" validate:"omitempty,max=1000"`
	OpeningTime *float64 `json:"openingTime" validate:"omitempty,min=0,max=24,quarterhour"`
	ClosingTime *float64 `json:"closingTime" validate:"omitempty,min=0,max=24,quarterhour"`
	IsActive    *bool    `json:"isActive"`
}

const (
	defaultOpeningTime = 8
	defaultClosingTime = 22
)

type DefaultCourtService struct {
	CourtRepo CourtRepository
	Validate  *validator.Validate
}

func NewCourtService(courtRepo CourtRepository, validate *validator.Validate) *DefaultCourtService {
	return &DefaultCourtService{CourtRepo: courtRepo, Validate: validate}
}

func (c *DefaultCourtService) GetCourts(ctx context.Context) ([]*CourtResponse, apierror.ErrorResponse) {
	courts, err := c.CourtRepo.FindActive(ctx)
	if err != nil {
		log.Errorf("failed to fetch courts: %v", err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*CourtResponse, len(courts))
	for i, court := range courts {
		resp[i] = toCourtResponse(court)
	}
	return resp, nil
}

func (c *DefaultCourtService) GetCourt(ctx context.Context, id string) (*CourtResponse, apierror.ErrorResponse) {
	court, apierr := c.fetchCourt(ctx, id)
	if apierr != nil {
		return nil, apierr
	}
	return toCourtResponse(court), nil
}

func (c *DefaultCourtService) CreateCourt(ctx context.Context, actorID string, req *CreateCourtRequest) (*CourtResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := c.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	court := &entity.Court{
		Name:        req.Name,
		Color:       req.Color,
		Description: req.Description,
		OpeningTime: defaultOpeningTime,
		ClosingTime: defaultClosingTime,
		IsActive:    true,
	}
	setIfPresent(&court.OpeningTime, req.OpeningTime)
	setIfPresent(&court.ClosingTime, req.ClosingTime)
	if court.OpeningTime >= court.ClosingTime {
		return nil, apierror.CourtHoursError
	}

	if apierr := c.checkNameFree(ctx, court.Name, ""); apierr != nil {
		return nil, apierr
	}

	audit := newAudit(actorID, entity.AuditCourtCreated, "Court", "", map[string]any{"name": court.Name})
	err := c.CourtRepo.Create(ctx, court, audit)
	if repository.IsDuplicate(err) {
		return nil, apierror.CourtAlreadyExistsError
	}
	if err != nil {
		log.Errorf("failed to create court %s: %v", court.Name, err)
		return nil, apierror.InternalServerError
	}
	return toCourtResponse(court), nil
}

func (c *DefaultCourtService) UpdateCourt(ctx context.Context, actorID, id string, req *UpdateCourtRequest) (*CourtResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := c.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	court, apierr := c.fetchCourt(ctx, id)
	if apierr != nil {
		return nil, apierr
	}

	if req.Name != nil && *req.Name != court.Name {
		if apierr = c.checkNameFree(ctx, *req.Name, court.ID); apierr != nil {
			return nil, apierr
		}
		court.Name = *req.Name
	}
	setIfPresent(&court.Color, req.Color)
	setIfPresent(&court.OpeningTime, req.OpeningTime)
	setIfPresent(&court.ClosingTime, req.ClosingTime)
	setIfPresent(&court.IsActive, req.IsActive)
	if req.Description != nil {
		court.Description = req.Description
	}
	if court.OpeningTime >= court.ClosingTime {
		return nil, apierror.CourtHoursError
	}

	audit := newAudit(actorID, entity.AuditCourtUpdated, "Court", court.ID, map[string]any{"name": court.Name})
	if apierr = c.save(ctx, court, audit); apierr != nil {
		return nil, apierr
	}
	return toCourtResponse(court), nil
}

// DeleteCourt deactivates the court. Its bookings are kept.
func (c *DefaultCourtService) DeleteCourt(ctx context.Context, actorID, id string) apierror.ErrorResponse {
	court, apierr := c.fetchCourt(ctx, id)
	if apierr != nil {
		return apierr
	}

	court.IsActive = false
	audit := newAudit(actorID, entity.AuditCourtDeleted, "Court", court.ID, map[string]any{"name": court.Name})
	return c.save(ctx, court, audit)
}

func (c *DefaultCourtService) fetchCourt(ctx context.Context, id string) (*entity.Court, apierror.ErrorResponse) {
	court, err := c.CourtRepo.FindByID(ctx, id)
	if err != nil {
		log.Errorf("failed to fetch court %s: %v", id, err)
		return nil, apierror.InternalServerError
	}
	if court == nil {
		return nil, apierror.CourtNotFoundError
	}
	return court, nil
}

func (c *DefaultCourtService) checkNameFree(ctx context.Context, name, excludeID string) apierror.ErrorResponse {
	taken, err := c.CourtRepo.ExistsByName(ctx, name, excludeID)
	if err != nil {
		log.Errorf("failed to check court name %s: %v", name, err)
		return apierror.InternalServerError
	}
	if taken {
		return apierror.CourtAlreadyExistsError
	}
	return nil
}

func (c *DefaultCourtService) save(ctx context.Context, court *entity.Court, audit *entity.AuditLog) apierror.ErrorResponse {
	err := c.CourtRepo.Update(ctx, court, audit)
	if repository.IsDuplicate(err) {
		return apierror.CourtAlreadyExistsError
	}
	if err != nil {
		log.Errorf("failed to update court %s: %v", court.ID, err)
		return apierror.InternalServerError
	}
	return nil
}
