package service

import (
	"net/http"
	"testing"

	"padelcourt/cmd/internal/domain/entity"
)

func ptr[T any](v T) *T { return &v }

func TestCourtLifecycle(t *testing.T) {
	env := newTestEnv(t)
	svc := NewCourtService(env.courts, env.validate)
	admin := env.user(t, "admin@test.com", entity.RoleAdmin)

	court, apierr := svc.CreateCourt(env.ctx, admin.UserID, &CreateCourtRequest{Name: "Blue", Color: "#2563EB"})
	wantCode(t, apierr, 0)
	if court.OpeningTime != 8 || court.ClosingTime != 22 || !court.IsActive {
		t.Errorf("defaults not applied: %+v", court)
	}

	_, apierr = svc.CreateCourt(env.ctx, admin.UserID, &CreateCourtRequest{Name: "Blue", Color: "#000"})
	wantCode(t, apierr, http.StatusConflict)
	_, apierr = svc.CreateCourt(env.ctx, admin.UserID, &CreateCourtRequest{Name: "Green", Color: "#000", OpeningTime: ptr(20.0), ClosingTime: ptr(9.0)})
	wantCode(t, apierr, http.StatusBadRequest)
	_, apierr = svc.CreateCourt(env.ctx, admin.UserID, &CreateCourtRequest{Name: "Green"})
	wantCode(t, apierr, http.StatusBadRequest)

	green, apierr := svc.CreateCourt(env.ctx, admin.UserID, &CreateCourtRequest{Name: "Green", Color: "#16A34A"})
	wantCode(t, apierr, 0)

	_, apierr = svc.UpdateCourt(env.ctx, admin.UserID, green.ID, &UpdateCourtRequest{Name: ptr("Blue")})
	wantCode(t, apierr, http.StatusConflict)
	_, apierr = svc.UpdateCourt(env.ctx, admin.UserID, green.ID, &UpdateCourtRequest{ClosingTime: ptr(7.0)})
	wantCode(t, apierr, http.StatusBadRequest)

	updated, apierr := svc.UpdateCourt(env.ctx, admin.UserID, green.ID, &UpdateCourtRequest{Description: ptr("Outdoor"), ClosingTime: ptr(23.0)})
	wantCode(t, apierr, 0)
	if updated.ClosingTime != 23 || updated.Description == nil || *updated.Description != "Outdoor" || updated.Name != "Green" {
		t.Errorf("update = %+v", updated)
	}

	wantCode(t, svc.DeleteCourt(env.ctx, admin.UserID, green.ID), 0)
	wantCode(t, svc.DeleteCourt(env.ctx, admin.UserID, "missing"), http.StatusNotFound)

	courts, apierr := svc.GetCourts(env.ctx)
	wantCode(t, apierr, 0)
	if len(courts) != 1 || courts[0].Name != "Blue" {
		t.Errorf("active courts = %+v", courts)
	}

	// soft delete keeps the row
	deleted, apierr := svc.GetCourt(env.ctx, green.ID)
	wantCode(t, apierr, 0)
	if deleted.IsActive {
		t.Errorf("court still active")
	}

	for action, want := range map[string]int64{
		entity.AuditCourtCreated: 2,
		entity.AuditCourtUpdated: 1,
		entity.AuditCourtDeleted: 1,
	} {
		if n := env.count(t, &entity.AuditLog{}, "action = ?", action); n != want {
			t.Errorf("%s audits = %d, want %d", action, n, want)
		}
	}
}
