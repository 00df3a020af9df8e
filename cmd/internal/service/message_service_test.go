package service

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"padelcourt/cmd/internal/domain/entity"

	"gorm.io/gorm/clause"
)

func TestSendMessageBoundaries(t *testing.T) {
	env := newTestEnv(t)
	svc := env.messageService()
	alice := env.user(t, "alice@test.com", entity.RolePlayer)
	bob := env.user(t, "bob@test.com", entity.RolePlayer)

	msg, apierr := svc.SendMessage(env.ctx, alice.UserID, &SendMessageRequest{ToUserID: bob.UserID, Message: strings.Repeat("a", 500)})
	wantCode(t, apierr, 0)
	if msg.Sender == nil || msg.Sender.ID != alice.UserID || msg.Receiver == nil || msg.Receiver.ID != bob.UserID {
		t.Errorf("message parties = %+v / %+v", msg.Sender, msg.Receiver)
	}

	_, apierr = svc.SendMessage(env.ctx, alice.UserID, &SendMessageRequest{ToUserID: bob.UserID, Message: strings.Repeat("a", 501)})
	wantCode(t, apierr, http.StatusBadRequest)

	// multi-byte characters count once
	_, apierr = svc.SendMessage(env.ctx, alice.UserID, &SendMessageRequest{ToUserID: bob.UserID, Message: strings.Repeat("ñ", 500)})
	wantCode(t, apierr, 0)

	_, apierr = svc.SendMessage(env.ctx, alice.UserID, &SendMessageRequest{ToUserID: bob.UserID, Message: "   "})
	wantCode(t, apierr, http.StatusBadRequest)
	_, apierr = svc.SendMessage(env.ctx, alice.UserID, &SendMessageRequest{Message: "hi"})
	wantCode(t, apierr, http.StatusBadRequest)
	_, apierr = svc.SendMessage(env.ctx, alice.UserID, &SendMessageRequest{ToUserID: "ghost", Message: "hi"})
	wantCode(t, apierr, http.StatusNotFound)

	if n := env.count(t, &entity.Message{}, ""); n != 2 {
		t.Errorf("%d messages stored, want 2", n)
	}
	if env.bus.count(bob.UserID, EventMessageReceive) != 2 || env.bus.count(alice.UserID, EventMessageSent) != 2 {
		t.Errorf("events = %+v", env.bus.events)
	}
}

func TestConversationMarksRead(t *testing.T) {
	env := newTestEnv(t)
	svc := env.messageService()
	alice := env.user(t, "alice@test.com", entity.RolePlayer)
	bob := env.user(t, "bob@test.com", entity.RolePlayer)

	for _, body := range []string{"one", "two"} {
		_, apierr := svc.SendMessage(env.ctx, bob.UserID, &SendMessageRequest{ToUserID: alice.UserID, Message: body})
		wantCode(t, apierr, 0)
	}
	_, apierr := svc.SendMessage(env.ctx, alice.UserID, &SendMessageRequest{ToUserID: bob.UserID, Message: "three"})
	wantCode(t, apierr, 0)

	unread, _ := svc.GetUnreadCount(env.ctx, alice.UserID)
	if unread != 2 {
		t.Fatalf("unread = %d, want 2", unread)
	}

	conv, apierr := svc.GetConversation(env.ctx, alice.UserID, bob.UserID, 0, 0)
	wantCode(t, apierr, 0)
	if conv.Total != 3 {
		t.Errorf("conversation has %d messages, want 3", conv.Total)
	}

	unread, _ = svc.GetUnreadCount(env.ctx, alice.UserID)
	if unread != 0 {
		t.Errorf("unread after reading = %d", unread)
	}
	if bobUnread, _ := svc.GetUnreadCount(env.ctx, bob.UserID); bobUnread != 1 {
		t.Errorf("bob's unread changed: %d", bobUnread)
	}

	_, apierr = svc.GetConversation(env.ctx, alice.UserID, bob.UserID, 101, 0)
	wantCode(t, apierr, http.StatusBadRequest)
	_, apierr = svc.GetConversation(env.ctx, alice.UserID, bob.UserID, 10, -1)
	wantCode(t, apierr, http.StatusBadRequest)

	marked, apierr := svc.MarkConversationRead(env.ctx, bob.UserID, alice.UserID)
	wantCode(t, apierr, 0)
	if marked.Updated != 1 {
		t.Errorf("marked %d, want 1", marked.Updated)
	}
}

func TestConversationsSortedByLastMessage(t *testing.T) {
	env := newTestEnv(t)
	svc := env.messageService()
	alice := env.user(t, "alice@test.com", entity.RolePlayer)
	bob := env.user(t, "bob@test.com", entity.RolePlayer)
	carol := env.user(t, "carol@test.com", entity.RolePlayer)

	old := &entity.Message{FromUserID: alice.UserID, ToUserID: bob.UserID, Body: "old"}
	env.db.Omit(clause.Associations).Create(old)
	env.db.Model(old).UpdateColumn("created_at", time.Now().Add(-time.Hour))

	_, apierr := svc.SendMessage(env.ctx, carol.UserID, &SendMessageRequest{ToUserID: alice.UserID, Message: "new"})
	wantCode(t, apierr, 0)

	convs, apierr := svc.GetConversations(env.ctx, alice.UserID)
	wantCode(t, apierr, 0)
	if len(convs) != 2 {
		t.Fatalf("got %d conversations, want 2", len(convs))
	}
	if convs[0].User.ID != carol.UserID || convs[0].UnreadCount != 1 || convs[0].LastMessage.FromMe {
		t.Errorf("first conversation = %+v", convs[0])
	}
	if convs[1].User.ID != bob.UserID || !convs[1].LastMessage.FromMe || convs[1].UnreadCount != 0 {
		t.Errorf("second conversation = %+v", convs[1])
	}
}

func TestDeleteMessageSenderOnly(t *testing.T) {
	env := newTestEnv(t)
	svc := env.messageService()
	alice := env.user(t, "alice@test.com", entity.RolePlayer)
	bob := env.user(t, "bob@test.com", entity.RolePlayer)

	msg, apierr := svc.SendMessage(env.ctx, alice.UserID, &SendMessageRequest{ToUserID: bob.UserID, Message: "hi"})
	wantCode(t, apierr, 0)

	wantCode(t, svc.DeleteMessage(env.ctx, bob.UserID, msg.ID), http.StatusForbidden)
	wantCode(t, svc.DeleteMessage(env.ctx, alice.UserID, msg.ID), 0)
	wantCode(t, svc.DeleteMessage(env.ctx, alice.UserID, msg.ID), http.StatusNotFound)
}
