package entity

import "time"

const (
	BookingConfirmed = "CONFIRMED"
	BookingCancelled = "CANCELLED"
)

const (
	RecurrenceNone    = "NONE"
	RecurrenceDaily   = "DAILY"
	RecurrenceWeekly  = "WEEKLY"
	RecurrenceMonthly = "MONTHLY"
)

// Booking reserves a slot, (CourtID, Date, StartTime), for a user.
// Date is a calendar date (YYYY-MM-DD); times are decimal hours.
type Booking struct {
	Base
	UserID            string  `gorm:"size:36;not null;index"`
	CourtID           string  `gorm:"size:36;not null;index:idx_bookings_court_date"`
	Date              string  `gorm:"size:10;not null;index:idx_bookings_court_date"`
	StartTime         float64 `gorm:"not null"`
	EndTime           float64 `gorm:"not null"`
	Status            string  `gorm:"size:16;not null;default:CONFIRMED;index"`
	RecurrenceType    string  `gorm:"size:16;not null;default:NONE"`
	RecurrenceEndDate *string `gorm:"size:10"`
	Notes             *string
	CancelledAt       *time.Time

	// Relations
	User  User  `gorm:"foreignKey:UserID;references:ID"`
	Court Court `gorm:"foreignKey:CourtID;references:ID"`
}

func (b *Booking) IsCancelled() bool {
	return b.Status == BookingCancelled
}

type WaitListEntry struct {
	Base
	UserID    string  `gorm:"size:36;not null;uniqueIndex:idx_waitlist_user_slot"`
	CourtID   string  `gorm:"size:36;not null;uniqueIndex:idx_waitlist_user_slot;index:idx_waitlist_slot"`
	Date      string  `gorm:"size:10;not null;uniqueIndex:idx_waitlist_user_slot;index:idx_waitlist_slot"`
	StartTime float64 `gorm:"not null;uniqueIndex:idx_waitlist_user_slot;index:idx_waitlist_slot"`

	// Relations
	User  User  `gorm:"foreignKey:UserID;references:ID"`
	Court Court `gorm:"foreignKey:CourtID;references:ID"`
}
