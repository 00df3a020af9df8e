package service

import (
	"net/http"
	"testing"

	"padelcourt/cmd/internal/domain/entity"
)

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	svc := env.authService()

	reg, apierr := svc.Register(env.ctx, &RegisterRequest{
		Email:     " Player@Test.com ",
		Password:  "secret1",
		FirstName: "Pat",
		LastName:  "Player",
	})
	wantCode(t, apierr, 0)
	if reg.User.Email != "player@test.com" || reg.User.Role != entity.RolePlayer || reg.User.Language != "en" {
		t.Errorf("registered user = %+v", reg.User)
	}
	if reg.AccessToken == "" || reg.RefreshToken == "" {
		t.Errorf("tokens missing: %+v", reg)
	}
	if n := env.count(t, &entity.Notification{}, "user_id = ?", reg.User.ID); n != 1 {
		t.Errorf("%d welcome notifications, want 1", n)
	}
	if n := env.count(t, &entity.AuditLog{}, "action = ?", entity.AuditUserRegistered); n != 1 {
		t.Errorf("%d registration audits, want 1", n)
	}

	_, apierr = svc.Register(env.ctx, &RegisterRequest{Email: "player@test.com", Password: "secret1", FirstName: "A", LastName: "B"})
	wantCode(t, apierr, http.StatusConflict)

	_, apierr = svc.Register(env.ctx, &RegisterRequest{Email: "short@test.com", Password: "12345", FirstName: "A", LastName: "B"})
	wantCode(t, apierr, http.StatusBadRequest)

	_, apierr = svc.Login(env.ctx, &LoginRequest{Email: "player@test.com", Password: "wrong"})
	wantCode(t, apierr, http.StatusUnauthorized)
	_, apierr = svc.Login(env.ctx, &LoginRequest{Email: "nobody@test.com", Password: "secret1"})
	wantCode(t, apierr, http.StatusUnauthorized)

	login, apierr := svc.Login(env.ctx, &LoginRequest{Email: "player@test.com", Password: "secret1"})
	wantCode(t, apierr, 0)
	if login.User.LastSeen == nil {
		t.Errorf("last seen not recorded on login")
	}

	data, apierr := svc.Authenticate(env.ctx, login.AccessToken)
	wantCode(t, apierr, 0)
	if data.UserID != reg.User.ID || data.Role != entity.RolePlayer {
		t.Errorf("token data = %+v", data)
	}

	_, apierr = svc.Authenticate(env.ctx, "not-a-jwt")
	wantCode(t, apierr, http.StatusUnauthorized)
}

func TestLoginDeactivatedAccount(t *testing.T) {
	env := newTestEnv(t)
	svc := env.authService()

	reg, apierr := svc.Register(env.ctx, &RegisterRequest{Email: "p@test.com", Password: "secret1", FirstName: "A", LastName: "B"})
	wantCode(t, apierr, 0)
	env.db.Model(&entity.User{}).Where("id = ?", reg.User.ID).Update("is_active", false)

	_, apierr = svc.Login(env.ctx, &LoginRequest{Email: "p@test.com", Password: "secret1"})
	wantCode(t, apierr, http.StatusForbidden)

	_, apierr = svc.Authenticate(env.ctx, reg.AccessToken)
	wantCode(t, apierr, http.StatusForbidden)
}

func TestRefreshRotatesAndLogoutRevokes(t *testing.T) {
	env := newTestEnv(t)
	svc := env.authService()

	reg, apierr := svc.Register(env.ctx, &RegisterRequest{Email: "p@test.com", Password: "secret1", FirstName: "A", LastName: "B"})
	wantCode(t, apierr, 0)

	_, apierr = svc.Refresh(env.ctx, &RefreshRequest{})
	wantCode(t, apierr, http.StatusBadRequest)

	pair, apierr := svc.Refresh(env.ctx, &RefreshRequest{RefreshToken: reg.RefreshToken})
	wantCode(t, apierr, 0)
	if pair.RefreshToken == reg.RefreshToken {
		t.Errorf("refresh token was not rotated")
	}

	_, apierr = svc.Refresh(env.ctx, &RefreshRequest{RefreshToken: reg.RefreshToken})
	wantCode(t, apierr, http.StatusUnauthorized)

	caller, _ := svc.Authenticate(env.ctx, pair.AccessToken)
	wantCode(t, svc.Logout(env.ctx, caller, &RefreshRequest{}), 0)

	_, apierr = svc.Refresh(env.ctx, &RefreshRequest{RefreshToken: pair.RefreshToken})
	wantCode(t, apierr, http.StatusUnauthorized)
}

func TestLogoutWithRefreshTokenOnly(t *testing.T) {
	env := newTestEnv(t)
	svc := env.authService()

	reg, apierr := svc.Register(env.ctx, &RegisterRequest{Email: "p@test.com", Password: "secret1", FirstName: "A", LastName: "B"})
	wantCode(t, apierr, 0)

	wantCode(t, svc.Logout(env.ctx, nil, &RefreshRequest{}), http.StatusBadRequest)
	wantCode(t, svc.Logout(env.ctx, nil, &RefreshRequest{RefreshToken: reg.RefreshToken}), 0)

	_, apierr = svc.Refresh(env.ctx, &RefreshRequest{RefreshToken: reg.RefreshToken})
	wantCode(t, apierr, http.StatusUnauthorized)
}
