package service

import (
	"context"
	"math"
	"strings"

	"padelcourt/cmd/internal/auth"
	"padelcourt/cmd/internal/domain/database/repository"
	"padelcourt/cmd/internal/domain/entity"
	"padelcourt/cmd/internal/utils"
	"padelcourt/cmd/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

type UpdateProfileRequest struct {
	FirstName *string `json:"firstName" validate:"omitempty,notblank,max=100"`
	LastName  *string `json:"lastName" validate:"omitempty,notblank,max=100"`
	Email     *string `json:"email" validate:"omitempty,email,max=255"`
	Phone     *string `json:"phone" validate:"omitempty,max=32"`
	Avatar    *string `json:"avatar" validate:"omitempty,url"`
	Language  *string `json:"language" validate:"omitempty,len=2"`
}

type UserListQuery struct {
	Page   int    `query:"page" validate:"omitempty,min=1"`
	Limit  int    `query:"limit" validate:"omitempty,min=1,max=100"`
	Role   string `query:"role" validate:"omitempty,oneof=ADMIN PLAYER"`
	Search string `query:"search" validate:"max=100"`
}

type CreateAdminRequest struct {
	Email     string  `json:"email" validate:"required,email,max=255"`
	Password  string  `json:"password" validate:"required,min=6,max=128"`
	FirstName string  `json:"firstName" validate:"required,notblank,max=100"`
	LastName  string  `json:"lastName" validate:"required,notblank,max=100"`
	Phone     *string `json:"phone" validate:"omitempty,max=32"`
}

type UpdateAdminRequest struct {
	FirstName *string `json:"firstName" validate:"omitempty,notblank,max=100"`
	LastName  *string `json:"lastName" validate:"omitempty,notblank,max=100"`
	Email     *string `json:"email" validate:"omitempty,email,max=255"`
	Phone     *string `json:"phone" validate:"omitempty,max=32"`
	Password  *string `json:"password" validate:"omitempty,min=6,max=128"`
}

type UserStatusRequest struct {
	IsActive *bool `json:"isActive" validate:"required"`
}

type DefaultUserService struct {
	UserRepo  UserRepository
	TokenRepo RefreshTokenRepository
	Presence  PresenceLister
	Validate  *validator.Validate
}

func NewUserService(userRepo UserRepository, tokenRepo RefreshTokenRepository, presence PresenceLister, validate *validator.Validate) *DefaultUserService {
	return &DefaultUserService{UserRepo: userRepo, TokenRepo: tokenRepo, Presence: presence, Validate: validate}
}

// GetUsers lists the active users a caller can talk to.
func (u *DefaultUserService) GetUsers(ctx context.Context, callerID string) ([]*UserResponse, apierror.ErrorResponse) {
	users, err := u.UserRepo.FindActive(ctx, callerID)
	if err != nil {
		log.Errorf("failed to fetch active users: %v", err)
		return nil, apierror.InternalServerError
	}
	return toUserResponses(users), nil
}

func (u *DefaultUserService) GetOnlineUsers(ctx context.Context) ([]*UserResponse, apierror.ErrorResponse) {
	if u.Presence == nil {
		return []*UserResponse{}, nil
	}

	ids, err := u.Presence.OnlineUserIDs(ctx)
	if err != nil {
		log.Errorf("failed to list online users: %v", err)
		return nil, apierror.InternalServerError
	}

	users, err := u.UserRepo.FindByIDs(ctx, ids)
	if err != nil {
		log.Errorf("failed to fetch online users: %v", err)
		return nil, apierror.InternalServerError
	}
	return toUserResponses(users), nil
}

func (u *DefaultUserService) GetUser(ctx context.Context, id string) (*UserResponse, apierror.ErrorResponse) {
	user, apierr := u.fetchUser(ctx, id)
	if apierr != nil {
		return nil, apierr
	}
	return toUserResponse(user), nil
}

func (u *DefaultUserService) UpdateProfile(ctx context.Context, callerID string, req *UpdateProfileRequest) (*UserResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := u.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	user, apierr := u.fetchUser(ctx, callerID)
	if apierr != nil {
		return nil, apierr
	}

	if apierr = u.changeEmail(ctx, user, req.Email); apierr != nil {
		return nil, apierr
	}
	setIfPresent(&user.FirstName, req.FirstName)
	setIfPresent(&user.LastName, req.LastName)
	setIfPresent(&user.Language, req.Language)
	if req.Phone != nil {
		user.Phone = req.Phone
	}
	if req.Avatar != nil {
		user.Avatar = req.Avatar
	}

	if apierr = u.update(ctx, user, nil); apierr != nil {
		return nil, apierr
	}
	return toUserResponse(user), nil
}

// TouchLastSeen records activity of a connected user.
func (u *DefaultUserService) TouchLastSeen(ctx context.Context, userID string) {
	if err := u.UserRepo.TouchLastSeen(ctx, userID, utils.NowUTC()); err != nil {
		log.Warnf("failed to update last seen of user %s: %v", userID, err)
	}
}

func (u *DefaultUserService) ListUsers(ctx context.Context, q *UserListQuery) (*UserPageResponse, apierror.ErrorResponse) {
	utils.Sanitize(q)
	if err := u.Validate.Struct(q); err != nil {
		return nil, apierror.FromValidationError(err)
	}
	if q.Page == 0 {
		q.Page = 1
	}
	if q.Limit == 0 {
		q.Limit = 20
	}

	users, total, err := u.UserRepo.FindPaged(ctx, repository.UserFilter{
		Role:   q.Role,
		Search: q.Search,
		Page:   q.Page,
		Limit:  q.Limit,
	})
	if err != nil {
		log.Errorf("failed to fetch users page: %v", err)
		return nil, apierror.InternalServerError
	}

	return &UserPageResponse{
		Users: toUserResponses(users),
		Pagination: Pagination{
			Total:      total,
			Page:       q.Page,
			Limit:      q.Limit,
			TotalPages: int(math.Ceil(float64(total) / float64(q.Limit))),
		},
	}, nil
}

func (u *DefaultUserService) CreateAdmin(ctx context.Context, actorID string, req *CreateAdminRequest) (*UserResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := u.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	found, err := u.UserRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		log.Errorf("failed to check if user %s exists: %v", req.Email, err)
		return nil, apierror.InternalServerError
	}
	if found {
		return nil, apierror.UserAlreadyExistsError
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		log.Errorf("failed to hash password: %v", err)
		return nil, apierror.InternalServerError
	}

	admin := &entity.User{
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		Language:     "en",
		Role:         entity.RoleAdmin,
		IsActive:     true,
	}
	audit := newAudit(actorID, entity.AuditAdminCreated, "User", "", map[string]any{"email": req.Email})

	err = u.UserRepo.Create(ctx, admin, audit)
	if repository.IsDuplicate(err) {
		return nil, apierror.UserAlreadyExistsError
	}
	if err != nil {
		log.Errorf("failed to create admin %s: %v", req.Email, err)
		return nil, apierror.InternalServerError
	}
	return toUserResponse(admin), nil
}

func (u *DefaultUserService) UpdateAdmin(ctx context.Context, actorID, id string, req *UpdateAdminRequest) (*UserResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := u.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	admin, apierr := u.fetchUser(ctx, id)
	if apierr != nil {
		return nil, apierr
	}
	if !admin.IsAdmin() {
		return nil, apierror.UserNotFoundError
	}

	if apierr = u.changeEmail(ctx, admin, req.Email); apierr != nil {
		return nil, apierr
	}
	setIfPresent(&admin.FirstName, req.FirstName)
	setIfPresent(&admin.LastName, req.LastName)
	if req.Phone != nil {
		admin.Phone = req.Phone
	}

	changed := []string{}
	if req.Password != nil {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			log.Errorf("failed to hash password: %v", err)
			return nil, apierror.InternalServerError
		}
		admin.PasswordHash = hash
		changed = append(changed, "password")
	}

	audit := newAudit(actorID, entity.AuditAdminUpdated, "User", admin.ID, map[string]any{
		"email":   admin.Email,
		"changed": changed,
	})
	if apierr = u.update(ctx, admin, audit); apierr != nil {
		return nil, apierr
	}
	return toUserResponse(admin), nil
}

// SetUserStatus activates or deactivates an account. Deactivation also
// revokes the user's refresh tokens.
func (u *DefaultUserService) SetUserStatus(ctx context.Context, actorID, id string, req *UserStatusRequest) (*UserResponse, apierror.ErrorResponse) {
	if err := u.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	user, apierr := u.fetchUser(ctx, id)
	if apierr != nil {
		return nil, apierr
	}
	if user.ID == actorID && !*req.IsActive {
		return nil, apierror.SelfDeactivationError
	}

	user.IsActive = *req.IsActive
	audit := newAudit(actorID, entity.AuditUserStatusChanged, "User", user.ID, map[string]any{"isActive": user.IsActive})
	if apierr = u.update(ctx, user, audit); apierr != nil {
		return nil, apierr
	}

	if !user.IsActive {
		if err := u.TokenRepo.RevokeAllForUser(ctx, user.ID); err != nil {
			log.Errorf("failed to revoke refresh tokens of user %s: %v", user.ID, err)
		}
	}
	return toUserResponse(user), nil
}

func (u *DefaultUserService) fetchUser(ctx context.Context, id string) (*entity.User, apierror.ErrorResponse) {
	user, err := u.UserRepo.FindByID(ctx, id)
	if err != nil {
		log.Errorf("failed to find user %s: %v", id, err)
		return nil, apierror.InternalServerError
	}
	if user == nil {
		return nil, apierror.UserNotFoundError
	}
	return user, nil
}

func (u *DefaultUserService) changeEmail(ctx context.Context, user *entity.User, email *string) apierror.ErrorResponse {
	if email == nil || strings.EqualFold(*email, user.Email) {
		return nil
	}
	found, err := u.UserRepo.ExistsByEmail(ctx, *email)
	if err != nil {
		log.Errorf("failed to check if user %s exists: %v", *email, err)
		return apierror.InternalServerError
	}
	if found {
		return apierror.UserAlreadyExistsError
	}
	user.Email = strings.ToLower(*email)
	return nil
}

func (u *DefaultUserService) update(ctx context.Context, user *entity.User, audit *entity.AuditLog) apierror.ErrorResponse {
	err := u.UserRepo.Update(ctx, user, audit)
	if repository.IsDuplicate(err) {
		return apierror.UserAlreadyExistsError
	}
	if err != nil {
		log.Errorf("failed to update user %s: %v", user.ID, err)
		return apierror.InternalServerError
	}
	return nil
}

func toUserResponses(users []*entity.User) []*UserResponse {
	resp := make([]*UserResponse, len(users))
	for i, user := range users {
		resp[i] = toUserResponse(user)
	}
	return resp
}

func setIfPresent[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
