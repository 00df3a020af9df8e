package entity

type Court struct {
	Base
	Name        string `gorm:"uniqueIndex;size:100;not null"`
	Color       string `gorm:"size:32;not null"`
	Description *string
	OpeningTime float64 `gorm:"not null;default:8"`
	ClosingTime float64 `gorm:"not null;default:22"`
	IsActive    bool    `gorm:"not null;default:true"`
}
