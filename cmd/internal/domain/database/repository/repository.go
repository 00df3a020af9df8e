package repository

import (
	"errors"

	"padelcourt/cmd/internal/domain/entity"

	"gorm.io/gorm"
)

var (
	ErrSlotTaken        = errors.New("slot already booked")
	ErrAlreadyCancelled = errors.New("booking already cancelled")
	ErrTokenRevoked     = errors.New("refresh token already revoked")
)

// IsDuplicate reports whether err is a unique constraint violation.
func IsDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func appendAudit(tx *gorm.DB, audit *entity.AuditLog) error {
	if audit == nil {
		return nil
	}
	return tx.Create(audit).Error
}

func createNotifications(tx *gorm.DB, notes []*entity.Notification) error {
	if len(notes) == 0 {
		return nil
	}
	return tx.Create(&notes).Error
}

func notFoundAsNil[T any](v *T, err error) (*T, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}
