package models

import "gorm.io/gorm"

// Item is a single entry on a user's personal shopping list.
type Item struct {
	gorm.Model
	UserID   uint   `gorm:"not null;index"`
	Name     string `gorm:"size:255;not null"`
	Quantity int    `gorm:"not null;default:1"`
	Checked  bool   `gorm:"not null;default:false"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
}
