package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	AuditUserRegistered        = "USER_REGISTERED"
	AuditUserLogin             = "USER_LOGIN"
	AuditUserStatusChanged     = "USER_STATUS_CHANGED"
	AuditAdminCreated          = "ADMIN_CREATED"
	AuditAdminUpdated          = "ADMIN_UPDATED"
	AuditCourtCreated          = "COURT_CREATED"
	AuditCourtUpdated          = "COURT_UPDATED"
	AuditCourtDeleted          = "COURT_DELETED"
	AuditBookingCreated        = "BOOKING_CREATED"
	AuditBookingCancelled      = "BOOKING_CANCELLED"
	AuditNotificationBroadcast = "NOTIFICATION_BROADCAST"
	AuditGalleryImageAdded     = "GALLERY_IMAGE_ADDED"
	AuditGalleryImageDeleted   = "GALLERY_IMAGE_DELETED"
)

// AuditLog rows are append-only.
type AuditLog struct {
	ID        string  `gorm:"primaryKey;size:36"`
	UserID    *string `gorm:"size:36;index"`
	Action    string  `gorm:"size:64;not null;index"`
	Entity    string  `gorm:"size:64;not null"`
	EntityID  string  `gorm:"size:36"`
	Details   datatypes.JSON
	CreatedAt time.Time `gorm:"index"`
}

func (a *AuditLog) BeforeCreate(_ *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
