package repository

import (
	"context"

	"padelcourt/cmd/internal/domain/entity"

	"gorm.io/gorm"
)

type DefaultAuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *DefaultAuditRepository {
	return &DefaultAuditRepository{db: db}
}

func (a *DefaultAuditRepository) Append(ctx context.Context, audit *entity.AuditLog) error {
	return appendAudit(a.db.WithContext(ctx), audit)
}

func (a *DefaultAuditRepository) Find(ctx context.Context, action string, limit, offset int) ([]*entity.AuditLog, int64, error) {
	q := a.db.WithContext(ctx).Model(&entity.AuditLog{})
	if action != "" {
		q = q.Where("action = ?", action)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []*entity.AuditLog
	err := q.Order("created_at desc").Limit(limit).Offset(offset).Find(&logs).Error
	return logs, total, err
}
