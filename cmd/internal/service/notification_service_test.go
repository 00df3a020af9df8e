package service

import (
	"net/http"
	"testing"

	"padelcourt/cmd/internal/domain/entity"
)

func TestNotificationOwnership(t *testing.T) {
	env := newTestEnv(t)
	svc := env.notificationService()
	owner := env.user(t, "owner@test.com", entity.RolePlayer)
	other := env.user(t, "other@test.com", entity.RolePlayer)

	for i := 0; i < 3; i++ {
		env.db.Create(&entity.Notification{UserID: owner.UserID, Type: entity.NotificationAdminMessage, Title: "t", Message: "m"})
	}
	list, apierr := svc.GetNotifications(env.ctx, owner.UserID)
	wantCode(t, apierr, 0)
	if list.TotalCount != 3 || list.UnreadCount != 3 {
		t.Fatalf("list = %+v", list)
	}
	id := list.Notifications[0].ID

	_, apierr = svc.MarkAsRead(env.ctx, other.UserID, id)
	wantCode(t, apierr, http.StatusForbidden)
	_, apierr = svc.MarkAsRead(env.ctx, owner.UserID, "missing")
	wantCode(t, apierr, http.StatusNotFound)

	read, apierr := svc.MarkAsRead(env.ctx, owner.UserID, id)
	wantCode(t, apierr, 0)
	if !read.IsRead {
		t.Errorf("notification not marked read")
	}
	if n, _ := svc.GetUnreadCount(env.ctx, owner.UserID); n != 2 {
		t.Errorf("unread = %d, want 2", n)
	}

	all, apierr := svc.MarkAllAsRead(env.ctx, owner.UserID)
	wantCode(t, apierr, 0)
	if all.Updated != 2 {
		t.Errorf("mark all updated %d, want 2", all.Updated)
	}

	wantCode(t, svc.DeleteNotification(env.ctx, other.UserID, id), http.StatusForbidden)
	wantCode(t, svc.DeleteNotification(env.ctx, owner.UserID, id), 0)
	if n := env.count(t, &entity.Notification{}, "user_id = ?", owner.UserID); n != 2 {
		t.Errorf("%d notifications left, want 2", n)
	}
}

func TestUnreadCountCoversAllNotifications(t *testing.T) {
	env := newTestEnv(t)
	svc := env.notificationService()
	owner := env.user(t, "owner@test.com", entity.RolePlayer)

	for i := 0; i < recentNotificationsLimit+5; i++ {
		env.db.Create(&entity.Notification{UserID: owner.UserID, Type: entity.NotificationAdminMessage, Title: "t", Message: "m"})
	}

	list, apierr := svc.GetNotifications(env.ctx, owner.UserID)
	wantCode(t, apierr, 0)
	if list.TotalCount != recentNotificationsLimit {
		t.Errorf("returned %d, want %d", list.TotalCount, recentNotificationsLimit)
	}
	if list.UnreadCount != int64(recentNotificationsLimit+5) {
		t.Errorf("unread = %d", list.UnreadCount)
	}
}

func TestBroadcast(t *testing.T) {
	env := newTestEnv(t)
	svc := env.notificationService()
	admin := env.user(t, "admin@test.com", entity.RoleAdmin)
	player := env.user(t, "player@test.com", entity.RolePlayer)
	inactive := env.user(t, "gone@test.com", entity.RolePlayer)
	env.db.Model(&entity.User{}).Where("id = ?", inactive.UserID).Update("is_active", false)

	_, apierr := svc.Broadcast(env.ctx, admin.UserID, &BroadcastRequest{Title: " ", Message: "m"})
	wantCode(t, apierr, http.StatusBadRequest)

	resp, apierr := svc.Broadcast(env.ctx, admin.UserID, &BroadcastRequest{Title: "Courts closed", Message: "Maintenance on Monday"})
	wantCode(t, apierr, 0)
	if resp.Updated != 2 {
		t.Errorf("sent to %d users, want 2", resp.Updated)
	}
	if env.bus.count(player.UserID, EventNotificationNew) != 1 || env.bus.count(inactive.UserID, EventNotificationNew) != 0 {
		t.Errorf("events = %+v", env.bus.events)
	}
	if n := env.count(t, &entity.AuditLog{}, "action = ?", entity.AuditNotificationBroadcast); n != 1 {
		t.Errorf("%d broadcast audits, want 1", n)
	}
}
