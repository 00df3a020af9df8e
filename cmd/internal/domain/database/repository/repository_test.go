package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"padelcourt/cmd/internal/domain/database"
	"padelcourt/cmd/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Init(database.DriverSQLite, fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	if err != nil {
		t.Fatalf("init db: %v", err)
	}
	return db
}

func mustUser(t *testing.T, db *gorm.DB, email string) *entity.User {
	t.Helper()
	u := &entity.User{Email: email, PasswordHash: "x", FirstName: "F", LastName: "L", Role: entity.RolePlayer, Language: "en", IsActive: true}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func mustCourt(t *testing.T, db *gorm.DB, name string) *entity.Court {
	t.Helper()
	c := &entity.Court{Name: name, Color: "#000", OpeningTime: 7, ClosingTime: 23, IsActive: true}
	if err := db.Create(c).Error; err != nil {
		t.Fatalf("create court: %v", err)
	}
	return c
}

func TestCreateIfSlotFree(t *testing.T) {
	db := newTestDB(t)
	repo := NewBookingRepository(db)
	ctx := context.Background()
	user := mustUser(t, db, "p@test.com")
	court := mustCourt(t, db, "Blue")

	create := func() error {
		b := &entity.Booking{UserID: user.ID, CourtID: court.ID, Date: "2025-06-01", StartTime: 14, EndTime: 15.5,
			Status: entity.BookingConfirmed, RecurrenceType: entity.RecurrenceNone}
		note := &entity.Notification{UserID: user.ID, Type: entity.NotificationBookingConfirmation, Title: "t", Message: "m"}
		audit := &entity.AuditLog{UserID: &user.ID, Action: entity.AuditBookingCreated, Entity: "Booking"}
		return repo.CreateIfSlotFree(ctx, b, note, audit)
	}

	if err := create(); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if err := create(); !errors.Is(err, ErrSlotTaken) {
		t.Fatalf("second create err = %v, want ErrSlotTaken", err)
	}

	var bookings, notes, audits int64
	db.Model(&entity.Booking{}).Count(&bookings)
	db.Model(&entity.Notification{}).Count(&notes)
	db.Model(&entity.AuditLog{}).Count(&audits)
	if bookings != 1 || notes != 1 || audits != 1 {
		t.Errorf("bookings=%d notes=%d audits=%d, want 1 each", bookings, notes, audits)
	}
}

func TestCancelNotifiesWaitList(t *testing.T) {
	db := newTestDB(t)
	repo := NewBookingRepository(db)
	waitRepo := NewWaitListRepository(db)
	ctx := context.Background()
	owner := mustUser(t, db, "owner@test.com")
	court := mustCourt(t, db, "Blue")

	booking := &entity.Booking{UserID: owner.ID, CourtID: court.ID, Date: "2025-06-01", StartTime: 9, EndTime: 10.5,
		Status: entity.BookingConfirmed, RecurrenceType: entity.RecurrenceNone}
	err := repo.CreateIfSlotFree(ctx, booking,
		&entity.Notification{UserID: owner.ID, Type: entity.NotificationBookingConfirmation, Title: "t", Message: "m"},
		&entity.AuditLog{Action: entity.AuditBookingCreated, Entity: "Booking"})
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		w := mustUser(t, db, fmt.Sprintf("w%d@test.com", i))
		if err := waitRepo.Create(ctx, &entity.WaitListEntry{UserID: w.ID, CourtID: court.ID, Date: "2025-06-01", StartTime: 9}); err != nil {
			t.Fatal(err)
		}
	}
	other := mustUser(t, db, "other@test.com")
	if err := waitRepo.Create(ctx, &entity.WaitListEntry{UserID: other.ID, CourtID: court.ID, Date: "2025-06-01", StartTime: 10}); err != nil {
		t.Fatal(err)
	}

	notify := func(waiting []*entity.WaitListEntry) []*entity.Notification {
		notes := []*entity.Notification{{UserID: owner.ID, Type: entity.NotificationBookingCancellation, Title: "c", Message: "c"}}
		for _, w := range waiting {
			notes = append(notes, &entity.Notification{UserID: w.UserID, Type: entity.NotificationWaitList, Title: "w", Message: "w"})
		}
		return notes
	}

	created, err := repo.Cancel(ctx, booking, &entity.AuditLog{Action: entity.AuditBookingCancelled, Entity: "Booking", EntityID: booking.ID}, notify)
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if len(created) != 4 {
		t.Fatalf("created %d notifications, want 4", len(created))
	}

	var waitNotes int64
	db.Model(&entity.Notification{}).Where("type = ?", entity.NotificationWaitList).Count(&waitNotes)
	if waitNotes != 3 {
		t.Errorf("wait-list notifications = %d, want 3", waitNotes)
	}

	if _, err := repo.Cancel(ctx, booking, &entity.AuditLog{Action: entity.AuditBookingCancelled, Entity: "Booking"}, notify); !errors.Is(err, ErrAlreadyCancelled) {
		t.Errorf("second cancel err = %v, want ErrAlreadyCancelled", err)
	}

	taken, err := repo.IsSlotTaken(ctx, court.ID, "2025-06-01", 9)
	if err != nil || taken {
		t.Errorf("IsSlotTaken = %v, %v", taken, err)
	}
}

func TestConversationAndCorrespondents(t *testing.T) {
	db := newTestDB(t)
	repo := NewMessageRepository(db)
	ctx := context.Background()
	a := mustUser(t, db, "a@test.com")
	b := mustUser(t, db, "b@test.com")
	c := mustUser(t, db, "c@test.com")

	send := func(from, to *entity.User, body string) {
		if err := repo.Create(ctx, &entity.Message{FromUserID: from.ID, ToUserID: to.ID, Body: body}); err != nil {
			t.Fatal(err)
		}
	}
	send(a, b, "hi b")
	send(b, a, "hi a")
	send(b, a, "still there?")
	send(c, a, "hello from c")

	msgs, err := repo.FindConversation(ctx, a.ID, b.ID, 50, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 3 || msgs[0].Body != "hi b" {
		t.Fatalf("unexpected conversation %+v", msgs)
	}

	counts, err := repo.UnreadBySender(ctx, a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if counts[b.ID] != 2 || counts[c.ID] != 1 {
		t.Errorf("unread counts = %v", counts)
	}

	changed, _ := repo.MarkRead(ctx, b.ID, a.ID)
	again, _ := repo.MarkRead(ctx, b.ID, a.ID)
	if changed != 2 || again != 0 {
		t.Errorf("MarkRead changed=%d again=%d", changed, again)
	}

	ids, err := repo.Correspondents(ctx, a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 2 {
		t.Errorf("correspondents = %v", ids)
	}
}

func TestRotateRefreshToken(t *testing.T) {
	db := newTestDB(t)
	repo := NewRefreshTokenRepository(db)
	ctx := context.Background()
	user := mustUser(t, db, "p@test.com")

	current := &entity.RefreshToken{UserID: user.ID, TokenHash: "h1"}
	if err := repo.Save(ctx, current); err != nil {
		t.Fatal(err)
	}
	if err := repo.Rotate(ctx, current, &entity.RefreshToken{UserID: user.ID, TokenHash: "h2"}); err != nil {
		t.Fatalf("Rotate: %v", err)
	}
	if err := repo.Rotate(ctx, current, &entity.RefreshToken{UserID: user.ID, TokenHash: "h3"}); !errors.Is(err, ErrTokenRevoked) {
		t.Errorf("second rotate err = %v", err)
	}

	if err := repo.RevokeAllForUser(ctx, user.ID); err != nil {
		t.Fatal(err)
	}
	tok, _ := repo.FindByHash(ctx, "h2")
	if tok == nil || tok.RevokedAt == nil {
		t.Errorf("expected h2 revoked, got %+v", tok)
	}
}
