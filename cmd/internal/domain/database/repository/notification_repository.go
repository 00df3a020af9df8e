package repository

import (
	"context"

	"padelcourt/cmd/internal/domain/entity"

	"gorm.io/gorm"
)

type DefaultNotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *DefaultNotificationRepository {
	return &DefaultNotificationRepository{db: db}
}

func (n *DefaultNotificationRepository) FindByID(ctx context.Context, id string) (*entity.Notification, error) {
	var note entity.Notification
	err := n.db.WithContext(ctx).First(&note, "id = ?", id).Error
	return notFoundAsNil(&note, err)
}

func (n *DefaultNotificationRepository) FindRecent(ctx context.Context, userID string, limit int) ([]*entity.Notification, error) {
	var notes []*entity.Notification
	err := n.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Limit(limit).
		Find(&notes).Error
	return notes, err
}

func (n *DefaultNotificationRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := n.db.WithContext(ctx).Model(&entity.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

func (n *DefaultNotificationRepository) MarkRead(ctx context.Context, note *entity.Notification) error {
	note.IsRead = true
	return n.db.WithContext(ctx).Model(note).Update("is_read", true).Error
}

func (n *DefaultNotificationRepository) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	res := n.db.WithContext(ctx).Model(&entity.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

func (n *DefaultNotificationRepository) Delete(ctx context.Context, note *entity.Notification) error {
	return n.db.WithContext(ctx).Delete(&entity.Notification{}, "id = ?", note.ID).Error
}

// CreateMany stores notes and the audit entry, if any, atomically.
func (n *DefaultNotificationRepository) CreateMany(ctx context.Context, notes []*entity.Notification, audit *entity.AuditLog) error {
	return n.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := createNotifications(tx, notes); err != nil {
			return err
		}
		return appendAudit(tx, audit)
	})
}
