package models

import "gorm.io/gorm"

// Message is a direct message between two users. Sending and reading both
// require an accepted friendship between the pair.
type Message struct {
	gorm.Model
	SenderID   uint   `gorm:"not null;index"`
	ReceiverID uint   `gorm:"not null;index"`
	Body       string `gorm:"not null"`

	Sender   User `gorm:"foreignKey:SenderID;constraint:OnDelete:CASCADE;"`
	Receiver User `gorm:"foreignKey:ReceiverID;constraint:OnDelete:CASCADE;"`
}
