package entity

type GalleryImage struct {
	Base
	Title       string `gorm:"size:200;not null"`
	Description *string
	ImageURL    string `gorm:"not null"`
	ImageKey    string `gorm:"not null"`
	UserID      string `gorm:"size:36;not null"`
	IsActive    bool   `gorm:"not null;default:true"`

	// Relations
	User User `gorm:"foreignKey:UserID;references:ID"`
}

type ContactMessage struct {
	Base
	Name    string `gorm:"size:100;not null"`
	Email   string `gorm:"size:255;not null"`
	Subject string `gorm:"size:200;not null"`
	Message string `gorm:"not null"`
}
