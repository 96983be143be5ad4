package models

import "time"

// FriendshipStatus defines the state of a relationship between two users.
type FriendshipStatus string

const (
	// StatusPending means an invite has been sent but not yet accepted.
	StatusPending FriendshipStatus = "pending"

	// StatusAccepted means the invite was accepted, and the users are now friends.
	StatusAccepted FriendshipStatus = "accepted"
)

// Friendship is one row per unordered user pair. The pair is stored in
// canonical order (UserAID < UserBID) so a relationship initiated by either
// party resolves to the same row, and the unique index on the pair is what
// makes two racing invites collapse to a single row.
//
// There is no rejected state: rejection, cancellation and unfriending are
// all deletion of the row.
type Friendship struct {
	ID          uint             `gorm:"primaryKey"`
	UserAID     uint             `gorm:"not null;uniqueIndex:idx_friendship_pair,priority:1"`
	UserBID     uint             `gorm:"not null;uniqueIndex:idx_friendship_pair,priority:2"`
	Status      FriendshipStatus `gorm:"type:varchar(20);not null"`
	RequestedBy uint             `gorm:"not null"`
	CreatedAt   time.Time

	UserA User `gorm:"foreignKey:UserAID;constraint:OnDelete:CASCADE;"`
	UserB User `gorm:"foreignKey:UserBID;constraint:OnDelete:CASCADE;"`
}

// OtherUserID returns the party on the row that is not userID.
func (f *Friendship) OtherUserID(userID uint) uint {
	if f.UserAID == userID {
		return f.UserBID
	}
	return f.UserAID
}

// HasParty reports whether userID is one of the two users on the row.
func (f *Friendship) HasParty(userID uint) bool {
	return f.UserAID == userID || f.UserBID == userID
}
