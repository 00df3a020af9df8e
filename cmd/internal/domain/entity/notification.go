package entity

import "gorm.io/datatypes"

const (
	NotificationBookingConfirmation = "BOOKING_CONFIRMATION"
	NotificationBookingCancellation = "BOOKING_CANCELLATION"
	NotificationWaitList            = "WAIT_LIST_NOTIFICATION"
	NotificationAdminMessage        = "ADMIN_MESSAGE"
)

type Notification struct {
	Base
	UserID  string `gorm:"size:36;not null;index"`
	Type    string `gorm:"size:32;not null"`
	Title   string `gorm:"size:200;not null"`
	Message string `gorm:"not null"`
	IsRead  bool   `gorm:"not null;default:false;index"`
	Data    datatypes.JSON
}
