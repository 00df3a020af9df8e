package entity

const MaxMessageLength = 500

type Message struct {
	Base
	FromUserID string `gorm:"size:36;not null;index"`
	ToUserID   string `gorm:"size:36;not null;index"`
	Body       string `gorm:"column:message;size:500;not null"`
	IsRead     bool   `gorm:"not null;default:false"`

	// Relations
	Sender   User `gorm:"foreignKey:FromUserID;references:ID"`
	Receiver User `gorm:"foreignKey:ToUserID;references:ID"`
}
