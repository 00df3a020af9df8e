package service

import (
	"context"

	"padelcourt/cmd/internal/domain/entity"
	"padelcourt/cmd/internal/utils"
	"padelcourt/cmd/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

type AuditRepository interface {
	Find(ctx context.Context, action string, limit, offset int) ([]*entity.AuditLog, int64, error)
}

type AuditQuery struct {
	Limit  int    `query:"limit" validate:"omitempty,min=1,max=200"`
	Offset int    `query:"offset" validate:"min=0"`
	Action string `query:"action" validate:"max=64"`
}

type DefaultAuditService struct {
	AuditRepo AuditRepository
	Validate  *validator.Validate
}

func NewAuditService(auditRepo AuditRepository, validate *validator.Validate) *DefaultAuditService {
	return &DefaultAuditService{AuditRepo: auditRepo, Validate: validate}
}

func (a *DefaultAuditService) GetAuditLogs(ctx context.Context, q *AuditQuery) (*AuditLogPageResponse, apierror.ErrorResponse) {
	utils.Sanitize(q)
	if err := a.Validate.Struct(q); err != nil {
		return nil, apierror.FromValidationError(err)
	}
	if q.Limit == 0 {
		q.Limit = 50
	}

	logs, total, err := a.AuditRepo.Find(ctx, q.Action, q.Limit, q.Offset)
	if err != nil {
		log.Errorf("failed to fetch audit logs: %v", err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*AuditLogResponse, len(logs))
	for i, l := range logs {
		resp[i] = toAuditLogResponse(l)
	}
	return &AuditLogPageResponse{Logs: resp, Total: total, Limit: q.Limit, Offset: q.Offset}, nil
}
