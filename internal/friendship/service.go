// Package friendship implements the relationship state machine between
// users: absent -> pending -> accepted, with both non-absent states
// returning to absent on removal.
//
// Every read and write routes through the canonical pair (smaller user id
// first), so there is at most one row per unordered pair no matter which
// side initiated. The unique index on (user_a_id, user_b_id) is the only
// serialization point: two racing invites for the same pair cannot create
// a duplicate, the loser surfaces Conflict.
package friendship

import (
	"context"
	"errors"
	"net/mail"
	"time"

	"cartshare/backend/internal/apperr"
	"cartshare/backend/internal/models"

	"gorm.io/gorm"
)

// Entry is one row of a user's friend list, annotated from that user's
// perspective. The list is deliberately undifferentiated: callers partition
// it into incoming / outgoing / accepted by inspecting RequestedBy.
type Entry struct {
	FriendshipID uint                    `json:"friendship_id"`
	OtherUserID  uint                    `json:"other_user_id"`
	OtherName    string                  `json:"other_name"`
	OtherEmail   string                  `json:"other_email"`
	Status       models.FriendshipStatus `json:"status"`
	RequestedBy  uint                    `json:"requested_by"`
	CanAccept    bool                    `json:"can_accept"`
	CreatedAt    time.Time               `json:"created_at"`
}

// Service holds the friendship state machine.
type Service struct {
	db *gorm.DB
}

// NewService creates a friendship service bound to the given DB connection.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// CanonicalPair orders two user ids ascending. CanonicalPair(u, v) and
// CanonicalPair(v, u) always agree.
func CanonicalPair(u, v uint) (uint, uint) {
	if u > v {
		return v, u
	}
	return u, v
}

// Invite resolves the target by email and creates a pending row for the
// canonical pair.
//
// Errors:
//   - InvalidOperation: malformed email, or the email resolves to the requester.
//   - NotFound: no user with that email.
//   - Conflict: a row already exists for the pair — already pending or
//     already friends, undistinguished by policy.
func (s *Service) Invite(ctx context.Context, requesterID uint, email string) (*models.Friendship, error) {
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperr.ErrInvalidOperation
	}

	var target models.User
	err := s.db.WithContext(ctx).First(&target, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if target.ID == requesterID {
		return nil, apperr.ErrInvalidOperation
	}

	a, b := CanonicalPair(requesterID, target.ID)

	var existing models.Friendship
	err = s.db.WithContext(ctx).First(&existing, "user_a_id = ? AND user_b_id = ?", a, b).Error
	if err == nil {
		return nil, apperr.ErrConflict
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	row := models.Friendship{
		UserAID:     a,
		UserBID:     b,
		Status:      models.StatusPending,
		RequestedBy: requesterID,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		// Lost a race against a simultaneous invite for the same pair.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.ErrConflict
		}
		return nil, err
	}
	return &row, nil
}

// Accept flips a pending row to accepted.
//
// Any party on the row may accept, including the original requester; the
// UI relies on the CanAccept annotation from ListForUser to only offer the
// action to the invitee.
//
// Errors:
//   - NotFound: no such friendship row.
//   - Forbidden: the actor is not one of the two parties.
func (s *Service) Accept(ctx context.Context, userID, friendshipID uint) error {
	row, err := s.byID(ctx, userID, friendshipID)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Model(row).Update("status", models.StatusAccepted).Error
}

// Remove deletes the row unconditionally, whatever its status. The one
// operation serves cancelling an outgoing invite, rejecting an incoming
// one and unfriending. A later invite between the same pair starts fresh.
//
// Errors: same as Accept.
func (s *Service) Remove(ctx context.Context, userID, friendshipID uint) error {
	row, err := s.byID(ctx, userID, friendshipID)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(row).Error
}

// ListForUser returns every row touching the user, newest first, annotated
// with the other party and a CanAccept flag.
func (s *Service) ListForUser(ctx context.Context, userID uint) ([]Entry, error) {
	var rows []models.Friendship
	err := s.db.WithContext(ctx).
		Preload("UserA").Preload("UserB").
		Where("user_a_id = ? OR user_b_id = ?", userID, userID).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(rows))
	for _, r := range rows {
		other := r.UserB
		if r.UserBID == userID {
			other = r.UserA
		}
		entries = append(entries, Entry{
			FriendshipID: r.ID,
			OtherUserID:  other.ID,
			OtherName:    other.Name,
			OtherEmail:   other.Email,
			Status:       r.Status,
			RequestedBy:  r.RequestedBy,
			CanAccept:    r.Status == models.StatusPending && r.RequestedBy != userID,
			CreatedAt:    r.CreatedAt,
		})
	}
	return entries, nil
}

// AreFriends reports whether an accepted row exists for the pair. Pending
// does not count.
func (s *Service) AreFriends(ctx context.Context, u, v uint) (bool, error) {
	a, b := CanonicalPair(u, v)
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Friendship{}).
		Where("user_a_id = ? AND user_b_id = ? AND status = ?", a, b, models.StatusAccepted).
		Count(&count).Error
	return count > 0, err
}

// byID loads a row and checks the actor is a party to it. Lookup failures
// are NotFound; a row the actor is not on is Forbidden, never NotFound, so
// existence of the row itself is the only thing a stranger learns.
func (s *Service) byID(ctx context.Context, userID, friendshipID uint) (*models.Friendship, error) {
	var row models.Friendship
	err := s.db.WithContext(ctx).First(&row, friendshipID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if !row.HasParty(userID) {
		return nil, apperr.ErrForbidden
	}
	return &row, nil
}
