package entity

import "time"

const (
	RoleAdmin  = "ADMIN"
	RolePlayer = "PLAYER"
)

type User struct {
	Base
	Email        string  `gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string  `gorm:"not null"`
	FirstName    string  `gorm:"size:100;not null"`
	LastName     string  `gorm:"size:100;not null"`
	Phone        *string `gorm:"size:32"`
	Avatar       *string
	Language     string `gorm:"size:8;not null;default:en"`
	Role         string `gorm:"size:16;not null;default:PLAYER;index"`
	IsActive     bool   `gorm:"not null;default:true"`
	LastSeen     *time.Time
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

type RefreshToken struct {
	Base
	UserID    string    `gorm:"size:36;not null;index"`
	TokenHash string    `gorm:"size:64;not null;uniqueIndex"`
	ExpiresAt time.Time `gorm:"not null"`
	RevokedAt *time.Time
}
