package repository

import (
	"context"

	"padelcourt/cmd/internal/domain/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultGalleryRepository struct {
	db *gorm.DB
}

func NewGalleryRepository(db *gorm.DB) *DefaultGalleryRepository {
	return &DefaultGalleryRepository{db: db}
}

func (g *DefaultGalleryRepository) FindByID(ctx context.Context, id string) (*entity.GalleryImage, error) {
	var img entity.GalleryImage
	err := g.db.WithContext(ctx).Preload("User").First(&img, "id = ?", id).Error
	return notFoundAsNil(&img, err)
}

// Find lists images newest first; a nil isActive returns all of them.
func (g *DefaultGalleryRepository) Find(ctx context.Context, isActive *bool) ([]*entity.GalleryImage, error) {
	var imgs []*entity.GalleryImage
	q := g.db.WithContext(ctx).Preload("User")
	if isActive != nil {
		q = q.Where("is_active = ?", *isActive)
	}
	err := q.Order("created_at desc").Find(&imgs).Error
	return imgs, err
}

func (g *DefaultGalleryRepository) Create(ctx context.Context, img *entity.GalleryImage, audit *entity.AuditLog) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(img).Error; err != nil {
			return err
		}
		audit.EntityID = img.ID
		return appendAudit(tx, audit)
	})
}

func (g *DefaultGalleryRepository) Save(ctx context.Context, img *entity.GalleryImage) error {
	return g.db.WithContext(ctx).Omit(clause.Associations).Save(img).Error
}

func (g *DefaultGalleryRepository) Delete(ctx context.Context, img *entity.GalleryImage, audit *entity.AuditLog) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&entity.GalleryImage{}, "id = ?", img.ID).Error; err != nil {
			return err
		}
		return appendAudit(tx, audit)
	})
}

type DefaultContactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) *DefaultContactRepository {
	return &DefaultContactRepository{db: db}
}

func (c *DefaultContactRepository) Create(ctx context.Context, msg *entity.ContactMessage) error {
	return c.db.WithContext(ctx).Create(msg).Error
}
