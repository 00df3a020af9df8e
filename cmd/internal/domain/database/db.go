package database

import (
	"time"

	"padelcourt/cmd/internal/domain/entity"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// activeSlotIndex keeps at most one non-cancelled booking per slot.
const activeSlotIndex = `CREATE UNIQUE INDEX IF NOT EXISTS idx_bookings_active_slot
	ON bookings (court_id, date, start_time) WHERE status <> 'CANCELLED'`

func Init(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case DriverPostgres:
		dialector = postgres.Open(dsn)
	default:
		dialector = sqlite.Open(dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	if err = Migrate(db); err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if driver == DriverPostgres {
		sqlDB.SetMaxOpenConns(20)
		sqlDB.SetMaxIdleConns(5)
	} else {
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&entity.User{},
		&entity.RefreshToken{},
		&entity.Court{},
		&entity.Booking{},
		&entity.WaitListEntry{},
		&entity.Notification{},
		&entity.Message{},
		&entity.AuditLog{},
		&entity.GalleryImage{},
		&entity.ContactMessage{},
	)
	if err != nil {
		return err
	}
	return db.Exec(activeSlotIndex).Error
}
