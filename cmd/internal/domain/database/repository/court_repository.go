package repository

import (
	"context"

	"padelcourt/cmd/internal/domain/entity"

	"gorm.io/gorm"
)

type DefaultCourtRepository struct {
	db *gorm.DB
}

func NewCourtRepository(db *gorm.DB) *DefaultCourtRepository {
	return &DefaultCourtRepository{db: db}
}

func (c *DefaultCourtRepository) FindByID(ctx context.Context, id string) (*entity.Court, error) {
	var court entity.Court
	err := c.db.WithContext(ctx).First(&court, "id = ?", id).Error
	return notFoundAsNil(&court, err)
}

func (c *DefaultCourtRepository) FindActive(ctx context.Context) ([]*entity.Court, error) {
	var courts []*entity.Court
	err := c.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name asc").
		Find(&courts).Error
	return courts, err
}

// ExistsByName checks for another court using name.
func (c *DefaultCourtRepository) ExistsByName(ctx context.Context, name, excludeID string) (bool, error) {
	var count int64
	q := c.db.WithContext(ctx).Model(&entity.Court{}).Where("name = ?", name)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

func (c *DefaultCourtRepository) Create(ctx context.Context, court *entity.Court, audit *entity.AuditLog) error {
	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(court).Error; err != nil {
			return err
		}
		audit.EntityID = court.ID
		return appendAudit(tx, audit)
	})
}

func (c *DefaultCourtRepository) Update(ctx context.Context, court *entity.Court, audit *entity.AuditLog) error {
	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(court).Error; err != nil {
			return err
		}
		return appendAudit(tx, audit)
	})
}
