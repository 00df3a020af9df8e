package database

import (
	"fmt"
	"testing"

	"padelcourt/cmd/internal/domain/entity"

	"github.com/google/uuid"
)

func TestSeedIsIdempotent(t *testing.T) {
	db, err := Init(DriverSQLite, fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	if err != nil {
		t.Fatalf("Init: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := Seed(db); err != nil {
			t.Fatalf("Seed run %d: %v", i, err)
		}
	}

	var users, courts, admins int64
	db.Model(&entity.User{}).Count(&users)
	db.Model(&entity.Court{}).Count(&courts)
	db.Model(&entity.User{}).Where("role = ?", entity.RoleAdmin).Count(&admins)

	if users != 3 || courts != 3 || admins != 2 {
		t.Errorf("users=%d courts=%d admins=%d", users, courts, admins)
	}
}

func TestActiveSlotIndex(t *testing.T) {
	db, err := Init(DriverSQLite, fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	if err != nil {
		t.Fatalf("Init: %v", err)
	}

	user := &entity.User{Email: "p@test.com", PasswordHash: "x", FirstName: "P", LastName: "T", Role: entity.RolePlayer}
	court := &entity.Court{Name: "Blue", Color: "#00F", OpeningTime: 7, ClosingTime: 23}
	if err := db.Create(user).Error; err != nil {
		t.Fatal(err)
	}
	if err := db.Create(court).Error; err != nil {
		t.Fatal(err)
	}

	newBooking := func(status string) *entity.Booking {
		return &entity.Booking{UserID: user.ID, CourtID: court.ID, Date: "2025-06-01", StartTime: 14, EndTime: 15.5, Status: status, RecurrenceType: entity.RecurrenceNone}
	}

	first := newBooking(entity.BookingConfirmed)
	if err := db.Omit("User", "Court").Create(first).Error; err != nil {
		t.Fatalf("first booking: %v", err)
	}
	if err := db.Omit("User", "Court").Create(newBooking(entity.BookingConfirmed)).Error; err == nil {
		t.Fatal("expected unique violation for a second active booking")
	}

	if err := db.Model(first).Update("status", entity.BookingCancelled).Error; err != nil {
		t.Fatal(err)
	}
	if err := db.Omit("User", "Court").Create(newBooking(entity.BookingConfirmed)).Error; err != nil {
		t.Fatalf("slot should be free after cancellation: %v", err)
	}
}
