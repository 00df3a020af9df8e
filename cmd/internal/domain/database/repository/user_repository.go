package repository

import (
	"context"
	"strings"
	"time"

	"padelcourt/cmd/internal/domain/entity"

	"gorm.io/gorm"
)

type UserFilter struct {
	Role   string
	Search string
	Page   int
	Limit  int
}

type DefaultUserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *DefaultUserRepository {
	return &DefaultUserRepository{db: db}
}

func (u *DefaultUserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	var user entity.User
	err := u.db.WithContext(ctx).First(&user, "id = ?", id).Error
	return notFoundAsNil(&user, err)
}

func (u *DefaultUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var user entity.User
	err := u.db.WithContext(ctx).Where("email = ?", strings.ToLower(email)).First(&user).Error
	return notFoundAsNil(&user, err)
}

func (u *DefaultUserRepository) FindByIDs(ctx context.Context, ids []string) ([]*entity.User, error) {
	var users []*entity.User
	if len(ids) == 0 {
		return users, nil
	}
	err := u.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error
	return users, err
}

func (u *DefaultUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := u.db.WithContext(ctx).Model(&entity.User{}).
		Where("email = ?", strings.ToLower(email)).
		Count(&count).Error
	return count > 0, err
}

// FindActive lists active users ordered by first name, leaving out excludeID.
func (u *DefaultUserRepository) FindActive(ctx context.Context, excludeID string) ([]*entity.User, error) {
	var users []*entity.User
	q := u.db.WithContext(ctx).Where("is_active = ?", true)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Order("first_name asc").Find(&users).Error
	return users, err
}

func (u *DefaultUserRepository) FindActiveAdmins(ctx context.Context) ([]*entity.User, error) {
	var users []*entity.User
	err := u.db.WithContext(ctx).
		Where("role = ? AND is_active = ?", entity.RoleAdmin, true).
		Find(&users).Error
	return users, err
}

func (u *DefaultUserRepository) FindPaged(ctx context.Context, f UserFilter) ([]*entity.User, int64, error) {
	q := u.db.WithContext(ctx).Model(&entity.User{})
	if f.Role != "" {
		q = q.Where("role = ?", f.Role)
	}
	if f.Search != "" {
		like := "%" + strings.ToLower(f.Search) + "%"
		q = q.Where("LOWER(email) LIKE ? OR LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?", like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []*entity.User
	err := q.Order("created_at desc").
		Limit(f.Limit).
		Offset((f.Page - 1) * f.Limit).
		Find(&users).Error
	return users, total, err
}

func (u *DefaultUserRepository) Save(ctx context.Context, user *entity.User) error {
	user.Email = strings.ToLower(user.Email)
	return u.db.WithContext(ctx).Save(user).Error
}

// Create inserts the user together with its audit entry and notifications.
func (u *DefaultUserRepository) Create(ctx context.Context, user *entity.User, audit *entity.AuditLog, notes ...*entity.Notification) error {
	user.Email = strings.ToLower(user.Email)
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		for _, n := range notes {
			n.UserID = user.ID
		}
		if err := createNotifications(tx, notes); err != nil {
			return err
		}
		if audit != nil && audit.EntityID == "" {
			audit.EntityID = user.ID
			if audit.UserID == nil {
				audit.UserID = &user.ID
			}
		}
		return appendAudit(tx, audit)
	})
}

// Update saves the user and records the audit entry in one transaction.
func (u *DefaultUserRepository) Update(ctx context.Context, user *entity.User, audit *entity.AuditLog) error {
	user.Email = strings.ToLower(user.Email)
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(user).Error; err != nil {
			return err
		}
		return appendAudit(tx, audit)
	})
}

func (u *DefaultUserRepository) TouchLastSeen(ctx context.Context, id string, at time.Time) error {
	return u.db.WithContext(ctx).Model(&entity.User{}).
		Where("id = ?", id).
		UpdateColumn("last_seen", at).Error
}

type DefaultRefreshTokenRepository struct {
	db *gorm.DB
}

func NewRefreshTokenRepository(db *gorm.DB) *DefaultRefreshTokenRepository {
	return &DefaultRefreshTokenRepository{db: db}
}

func (r *DefaultRefreshTokenRepository) Save(ctx context.Context, token *entity.RefreshToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

func (r *DefaultRefreshTokenRepository) FindByHash(ctx context.Context, hash string) (*entity.RefreshToken, error) {
	var token entity.RefreshToken
	err := r.db.WithContext(ctx).Where("token_hash = ?", hash).First(&token).Error
	return notFoundAsNil(&token, err)
}

// Rotate revokes current and stores next. A token can be rotated once;
// a concurrent second rotation gets ErrTokenRevoked.
func (r *DefaultRefreshTokenRepository) Rotate(ctx context.Context, current *entity.RefreshToken, next *entity.RefreshToken) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&entity.RefreshToken{}).
			Where("id = ? AND revoked_at IS NULL", current.ID).
			Update("revoked_at", time.Now().UTC())
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrTokenRevoked
		}
		return tx.Create(next).Error
	})
}

func (r *DefaultRefreshTokenRepository) RevokeAllForUser(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Model(&entity.RefreshToken{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Update("revoked_at", time.Now().UTC()).Error
}
