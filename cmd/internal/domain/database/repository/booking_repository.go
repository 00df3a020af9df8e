package repository

import (
	"context"
	"errors"
	"time"

	"padelcourt/cmd/internal/domain/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BookingFilter struct {
	CourtID string
	Date    string
	UserID  string
	Status  string
	// From and To bound Date inclusively for exports.
	From string
	To   string
}

// WaitListNotifier builds the notifications sent when a slot frees up.
type WaitListNotifier func(waiting []*entity.WaitListEntry) []*entity.Notification

type DefaultBookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *DefaultBookingRepository {
	return &DefaultBookingRepository{db: db}
}

func (b *DefaultBookingRepository) FindByID(ctx context.Context, id string) (*entity.Booking, error) {
	var booking entity.Booking
	err := b.db.WithContext(ctx).
		Preload("Court").
		Preload("User").
		First(&booking, "id = ?", id).Error
	return notFoundAsNil(&booking, err)
}

// CreateIfSlotFree inserts booking unless the slot already holds a
// non-cancelled booking. The owner notification and audit entry are
// written in the same transaction.
func (b *DefaultBookingRepository) CreateIfSlotFree(ctx context.Context, booking *entity.Booking, note *entity.Notification, audit *entity.AuditLog) error {
	err := b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Model(&entity.Booking{})
		if tx.Dialector.Name() == "postgres" {
			q = q.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var existing entity.Booking
		err := q.Where("court_id = ? AND date = ? AND start_time = ?", booking.CourtID, booking.Date, booking.StartTime).
			Where("status <> ?", entity.BookingCancelled).
			Take(&existing).Error
		if err == nil {
			return ErrSlotTaken
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err = tx.Omit(clause.Associations).Create(booking).Error; err != nil {
			return err
		}
		if err = createNotifications(tx, []*entity.Notification{note}); err != nil {
			return err
		}
		audit.EntityID = booking.ID
		return appendAudit(tx, audit)
	})

	if IsDuplicate(err) {
		return ErrSlotTaken
	}
	return err
}

// Cancel flips booking to cancelled and writes the owner and wait-list
// notifications built by notify along with the audit entry. It returns
// the notifications it created.
func (b *DefaultBookingRepository) Cancel(ctx context.Context, booking *entity.Booking, audit *entity.AuditLog, notify WaitListNotifier) ([]*entity.Notification, error) {
	var created []*entity.Notification
	now := time.Now().UTC()

	err := b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&entity.Booking{}).
			Where("id = ? AND status <> ?", booking.ID, entity.BookingCancelled).
			Updates(map[string]any{"status": entity.BookingCancelled, "cancelled_at": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyCancelled
		}

		var waiting []*entity.WaitListEntry
		err := tx.Where("court_id = ? AND date = ? AND start_time = ?", booking.CourtID, booking.Date, booking.StartTime).
			Order("created_at asc").
			Find(&waiting).Error
		if err != nil {
			return err
		}

		created = notify(waiting)
		if err = createNotifications(tx, created); err != nil {
			return err
		}
		return appendAudit(tx, audit)
	})
	if err != nil {
		return nil, err
	}

	booking.Status = entity.BookingCancelled
	booking.CancelledAt = &now
	return created, nil
}

// Find lists bookings matching f ordered by date and start time ascending.
func (b *DefaultBookingRepository) Find(ctx context.Context, f BookingFilter) ([]*entity.Booking, error) {
	var bookings []*entity.Booking
	err := b.filtered(ctx, f).
		Order("date asc").
		Order("start_time asc").
		Find(&bookings).Error
	return bookings, err
}

// FindNewestFirst lists bookings matching f, latest date first.
func (b *DefaultBookingRepository) FindNewestFirst(ctx context.Context, f BookingFilter) ([]*entity.Booking, error) {
	var bookings []*entity.Booking
	err := b.filtered(ctx, f).
		Order("date desc").
		Order("start_time desc").
		Find(&bookings).Error
	return bookings, err
}

func (b *DefaultBookingRepository) IsSlotTaken(ctx context.Context, courtID, date string, startTime float64) (bool, error) {
	var count int64
	err := b.db.WithContext(ctx).Model(&entity.Booking{}).
		Where("court_id = ? AND date = ? AND start_time = ?", courtID, date, startTime).
		Where("status <> ?", entity.BookingCancelled).
		Count(&count).Error
	return count > 0, err
}

func (b *DefaultBookingRepository) filtered(ctx context.Context, f BookingFilter) *gorm.DB {
	q := b.db.WithContext(ctx).Preload("Court").Preload("User")
	if f.CourtID != "" {
		q = q.Where("court_id = ?", f.CourtID)
	}
	if f.Date != "" {
		q = q.Where("date = ?", f.Date)
	}
	if f.UserID != "" {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.From != "" {
		q = q.Where("date >= ?", f.From)
	}
	if f.To != "" {
		q = q.Where("date <= ?", f.To)
	}
	return q
}

type DefaultWaitListRepository struct {
	db *gorm.DB
}

func NewWaitListRepository(db *gorm.DB) *DefaultWaitListRepository {
	return &DefaultWaitListRepository{db: db}
}

func (w *DefaultWaitListRepository) FindByID(ctx context.Context, id string) (*entity.WaitListEntry, error) {
	var entry entity.WaitListEntry
	err := w.db.WithContext(ctx).Preload("Court").First(&entry, "id = ?", id).Error
	return notFoundAsNil(&entry, err)
}

func (w *DefaultWaitListRepository) FindByUserSlot(ctx context.Context, userID, courtID, date string, startTime float64) (*entity.WaitListEntry, error) {
	var entry entity.WaitListEntry
	err := w.db.WithContext(ctx).
		Preload("Court").
		Where("user_id = ? AND court_id = ? AND date = ? AND start_time = ?", userID, courtID, date, startTime).
		First(&entry).Error
	return notFoundAsNil(&entry, err)
}

func (w *DefaultWaitListRepository) FindByUser(ctx context.Context, userID string) ([]*entity.WaitListEntry, error) {
	var entries []*entity.WaitListEntry
	err := w.db.WithContext(ctx).
		Preload("Court").
		Where("user_id = ?", userID).
		Order("date asc").
		Order("start_time asc").
		Find(&entries).Error
	return entries, err
}

func (w *DefaultWaitListRepository) Create(ctx context.Context, entry *entity.WaitListEntry) error {
	return w.db.WithContext(ctx).Omit(clause.Associations).Create(entry).Error
}

func (w *DefaultWaitListRepository) Delete(ctx context.Context, entry *entity.WaitListEntry) error {
	return w.db.WithContext(ctx).Delete(&entity.WaitListEntry{}, "id = ?", entry.ID).Error
}
