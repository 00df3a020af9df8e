package service

import (
	"net/http"
	"testing"

	"padelcourt/cmd/internal/domain/entity"
)

func TestJoinWaitList(t *testing.T) {
	env := newTestEnv(t)
	svc := env.waitListService()
	owner := env.user(t, "owner@test.com", entity.RolePlayer)
	player := env.user(t, "player@test.com", entity.RolePlayer)
	court := env.court(t, "Blue", true)
	req := &JoinWaitListRequest{CourtID: court.ID, Date: "2025-06-01", StartTime: 14}

	_, _, apierr := svc.JoinWaitList(env.ctx, player.UserID, req)
	wantCode(t, apierr, http.StatusBadRequest)

	_, apierr = env.bookingService().CreateBooking(env.ctx, owner.UserID, bookingRequest(court.ID))
	wantCode(t, apierr, 0)

	first, created, apierr := svc.JoinWaitList(env.ctx, player.UserID, req)
	wantCode(t, apierr, 0)
	if !created {
		t.Errorf("first join did not create an entry")
	}

	second, created, apierr := svc.JoinWaitList(env.ctx, player.UserID, req)
	wantCode(t, apierr, 0)
	if created || second.ID != first.ID {
		t.Errorf("repeat join created=%v id=%s, want existing %s", created, second.ID, first.ID)
	}

	_, _, apierr = svc.JoinWaitList(env.ctx, player.UserID, &JoinWaitListRequest{CourtID: "missing", Date: "2025-06-01", StartTime: 14})
	wantCode(t, apierr, http.StatusNotFound)

	entries, apierr := svc.GetWaitList(env.ctx, player.UserID)
	wantCode(t, apierr, 0)
	if len(entries) != 1 || entries[0].Court == nil || entries[0].Court.Name != "Blue" {
		t.Errorf("entries = %+v", entries)
	}

	wantCode(t, svc.LeaveWaitList(env.ctx, owner.UserID, first.ID), http.StatusForbidden)
	wantCode(t, svc.LeaveWaitList(env.ctx, player.UserID, first.ID), 0)
	wantCode(t, svc.LeaveWaitList(env.ctx, player.UserID, first.ID), http.StatusNotFound)
}
