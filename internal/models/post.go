package models

import (
	"time"

	"gorm.io/gorm"
)

// Post is an entry on the shared feed.
type Post struct {
	gorm.Model
	UserID  uint   `gorm:"not null;index"`
	Content string `gorm:"not null"`

	User     User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	Likes    []Like    `gorm:"foreignKey:PostID"`
	Comments []Comment `gorm:"foreignKey:PostID"`
}

// Like marks that a user liked a post. The composite primary key on
// (PostID, UserID) is what makes the like toggle idempotent per user.
type Like struct {
	PostID    uint `gorm:"primaryKey"`
	UserID    uint `gorm:"primaryKey"`
	CreatedAt time.Time
}

// Comment is an append-only reply on a post.
type Comment struct {
	gorm.Model
	PostID  uint   `gorm:"not null;index"`
	UserID  uint   `gorm:"not null"`
	Content string `gorm:"not null"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
}
