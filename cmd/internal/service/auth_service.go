package service

import (
	"context"
	"errors"
	"time"

	"padelcourt/cmd/internal/auth"
	"padelcourt/cmd/internal/domain/database/repository"
	"padelcourt/cmd/internal/domain/entity"
	"padelcourt/cmd/internal/utils"
	"padelcourt/cmd/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

type UserRepository interface {
	FindByID(ctx context.Context, id string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByIDs(ctx context.Context, ids []string) ([]*entity.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	FindActive(ctx context.Context, excludeID string) ([]*entity.User, error)
	FindActiveAdmins(ctx context.Context) ([]*entity.User, error)
	FindPaged(ctx context.Context, f repository.UserFilter) ([]*entity.User, int64, error)
	Create(ctx context.Context, user *entity.User, audit *entity.AuditLog, notes ...*entity.Notification) error
	Update(ctx context.Context, user *entity.User, audit *entity.AuditLog) error
	TouchLastSeen(ctx context.Context, id string, at time.Time) error
}

type RefreshTokenRepository interface {
	Save(ctx context.Context, token *entity.RefreshToken) error
	FindByHash(ctx context.Context, hash string) (*entity.RefreshToken, error)
	Rotate(ctx context.Context, current *entity.RefreshToken, next *entity.RefreshToken) error
	RevokeAllForUser(ctx context.Context, userID string) error
}

type RegisterRequest struct {
	Email     string  `json:"email" validate:"required,email,max=255"`
	Password  string  `json:"password" validate:"required,min=6,max=128"`
	FirstName string  `json:"firstName" validate:"required,notblank,max=100"`
	LastName  string  `json:"lastName" validate:"required,notblank,max=100"`
	Phone     *string `json:"phone" validate:"omitempty,max=32"`
	Language  string  `json:"language" validate:"omitempty,len=2"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type DefaultAuthService struct {
	UserRepo  UserRepository
	TokenRepo RefreshTokenRepository
	Tokens    *auth.TokenIssuer
	Validate  *validator.Validate
}

func NewAuthService(userRepo UserRepository, tokenRepo RefreshTokenRepository, tokens *auth.TokenIssuer, validate *validator.Validate) *DefaultAuthService {
	return &DefaultAuthService{UserRepo: userRepo, TokenRepo: tokenRepo, Tokens: tokens, Validate: validate}
}

func (a *DefaultAuthService) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := a.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	found, err := a.UserRepo.ExistsByEmail(ctx, req.Email)
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

	language := req.Language
	if language == "" {
		language = "en"
	}

	user := &entity.User{
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		Language:     language,
		Role:         entity.RolePlayer,
		IsActive:     true,
	}
	welcome := &entity.Notification{
		Type:    entity.NotificationAdminMessage,
		Title:   "Welcome to Padel Court Booking!",
		Message: "Your account is ready. Book your first court whenever you like.",
	}
	audit := newAudit("", entity.AuditUserRegistered, "User", "", map[string]any{"email": req.Email})

	err = a.UserRepo.Create(ctx, user, audit, welcome)
	if repository.IsDuplicate(err) {
		return nil, apierror.UserAlreadyExistsError
	}
	if err != nil {
		log.Errorf("failed to create user %s: %v", req.Email, err)
		return nil, apierror.InternalServerError
	}

	pair, apierr := a.issueTokens(ctx, user)
	if apierr != nil {
		return nil, apierr
	}
	return &AuthResponse{
		Message:      "User registered successfully",
		User:         toUserResponse(user),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

func (a *DefaultAuthService) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := a.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	user, err := a.UserRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		log.Errorf("failed to fetch user %s: %v", req.Email, err)
		return nil, apierror.InternalServerError
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, apierror.InvalidCredentialsError
	}
	if !user.IsActive {
		return nil, apierror.AccountDeactivatedError
	}

	now := utils.NowUTC()
	user.LastSeen = &now
	audit := newAudit(user.ID, entity.AuditUserLogin, "User", user.ID, nil)
	if err = a.UserRepo.Update(ctx, user, audit); err != nil {
		log.Errorf("failed to record login of user %s: %v", user.ID, err)
		return nil, apierror.InternalServerError
	}

	pair, apierr := a.issueTokens(ctx, user)
	if apierr != nil {
		return nil, apierr
	}
	return &AuthResponse{
		Message:      "Login successful",
		User:         toUserResponse(user),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

// Refresh exchanges a refresh token for a new access token. The presented
// token is revoked and replaced.
func (a *DefaultAuthService) Refresh(ctx context.Context, req *RefreshRequest) (*TokenPairResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if req.RefreshToken == "" {
		return nil, apierror.MissingRefreshToken
	}

	current, err := a.TokenRepo.FindByHash(ctx, auth.HashRefreshToken(req.RefreshToken))
	if err != nil {
		log.Errorf("failed to fetch refresh token: %v", err)
		return nil, apierror.InternalServerError
	}
	if current == nil || current.RevokedAt != nil || utils.NowUTC().After(current.ExpiresAt) {
		return nil, apierror.InvalidRefreshToken
	}

	user, err := a.UserRepo.FindByID(ctx, current.UserID)
	if err != nil {
		log.Errorf("failed to fetch user %s: %v", current.UserID, err)
		return nil, apierror.InternalServerError
	}
	if user == nil {
		return nil, apierror.InvalidRefreshToken
	}
	if !user.IsActive {
		return nil, apierror.AccountDeactivatedError
	}

	raw, hash, expiresAt, err := a.Tokens.RefreshToken()
	if err != nil {
		log.Errorf("failed to generate refresh token: %v", err)
		return nil, apierror.InternalServerError
	}
	next := &entity.RefreshToken{UserID: user.ID, TokenHash: hash, ExpiresAt: expiresAt}

	err = a.TokenRepo.Rotate(ctx, current, next)
	if errors.Is(err, repository.ErrTokenRevoked) {
		return nil, apierror.InvalidRefreshToken
	}
	if err != nil {
		log.Errorf("failed to rotate refresh token of user %s: %v", user.ID, err)
		return nil, apierror.InternalServerError
	}

	access, err := a.Tokens.AccessToken(user.ID, user.Role, user.Email)
	if err != nil {
		log.Errorf("failed to sign access token: %v", err)
		return nil, apierror.InternalServerError
	}
	return &TokenPairResponse{AccessToken: access, RefreshToken: raw}, nil
}

// Logout revokes every refresh token of the caller. Without a bearer
// credential the owner of the presented refresh token is logged out.
func (a *DefaultAuthService) Logout(ctx context.Context, caller *utils.TokenData, req *RefreshRequest) apierror.ErrorResponse {
	userID := ""
	if caller != nil {
		userID = caller.UserID
	} else {
		utils.Sanitize(req)
		if req.RefreshToken == "" {
			return apierror.MissingRefreshToken
		}
		token, err := a.TokenRepo.FindByHash(ctx, auth.HashRefreshToken(req.RefreshToken))
		if err != nil {
			log.Errorf("failed to fetch refresh token: %v", err)
			return apierror.InternalServerError
		}
		if token == nil {
			return nil
		}
		userID = token.UserID
	}

	if err := a.TokenRepo.RevokeAllForUser(ctx, userID); err != nil {
		log.Errorf("failed to revoke refresh tokens of user %s: %v", userID, err)
		return apierror.InternalServerError
	}
	return nil
}

// Authenticate resolves a bearer access token to the caller. The user must
// still exist and be active.
func (a *DefaultAuthService) Authenticate(ctx context.Context, raw string) (*utils.TokenData, apierror.ErrorResponse) {
	claims, err := a.Tokens.Parse(raw)
	if err != nil {
		return nil, apierror.InvalidAuthTokenError
	}

	user, err := a.UserRepo.FindByID(ctx, claims.Subject)
	if err != nil {
		log.Errorf("failed to fetch user %s: %v", claims.Subject, err)
		return nil, apierror.InternalServerError
	}
	if user == nil {
		return nil, apierror.InvalidAuthTokenError
	}
	if !user.IsActive {
		return nil, apierror.AccountDeactivatedError
	}

	if err = a.UserRepo.TouchLastSeen(ctx, user.ID, utils.NowUTC()); err != nil {
		log.Debugf("failed to update last seen of user %s: %v", user.ID, err)
	}
	return &utils.TokenData{UserID: user.ID, Role: user.Role, Email: user.Email}, nil
}

func (a *DefaultAuthService) issueTokens(ctx context.Context, user *entity.User) (*TokenPairResponse, apierror.ErrorResponse) {
	access, err := a.Tokens.AccessToken(user.ID, user.Role, user.Email)
	if err != nil {
		log.Errorf("failed to sign access token: %v", err)
		return nil, apierror.InternalServerError
	}

	raw, hash, expiresAt, err := a.Tokens.RefreshToken()
	if err != nil {
		log.Errorf("failed to generate refresh token: %v", err)
		return nil, apierror.InternalServerError
	}
	token := &entity.RefreshToken{UserID: user.ID, TokenHash: hash, ExpiresAt: expiresAt}
	if err = a.TokenRepo.Save(ctx, token); err != nil {
		log.Errorf("failed to store refresh token of user %s: %v", user.ID, err)
		return nil, apierror.InternalServerError
	}
	return &TokenPairResponse{AccessToken: access, RefreshToken: raw}, nil
}
