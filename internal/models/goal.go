package models

import "gorm.io/gorm"

// Goal is a personal goal. Publishing is one-way: a goal can go from
// private to public but never back, and publishing also emits a feed post.
// Public goals are visible to accepted friends on the owner's profile.
type Goal struct {
	gorm.Model
	UserID uint   `gorm:"not null;index"`
	Title  string `gorm:"size:255;not null"`
	Note   string
	Public bool `gorm:"not null;default:false"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
}
