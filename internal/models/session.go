package models

import "time"

// Session binds an opaque bearer token to a user until ExpiresAt.
// A user may hold several live sessions at once (multi-device); expired
// rows are deleted lazily on first use, not proactively swept.
type Session struct {
	Token     string    `gorm:"primaryKey;size:36"`
	UserID    uint      `gorm:"not null;index"`
	CreatedAt time.Time
	ExpiresAt time.Time `gorm:"not null"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
}
