// Package session implements the bearer-token session store. Tokens are
// opaque UUIDs persisted alongside the rest of the data; validity is
// checked per request with no caching beyond the store itself.
package session

import (
	"context"
	"errors"
	"time"

	"cartshare/backend/internal/apperr"
	"cartshare/backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Identity is what a resolved token yields.
type Identity struct {
	UserID    uint
	Email     string
	Name      string
	ExpiresAt time.Time
}

// Store persists sessions in the database.
type Store struct {
	db  *gorm.DB
	ttl time.Duration
}

// NewStore creates a session store with the given absolute token lifetime.
func NewStore(db *gorm.DB, ttl time.Duration) *Store {
	return &Store{db: db, ttl: ttl}
}

// Create issues a new session token for the user. Existing sessions are
// left alone so multiple devices can stay logged in concurrently.
func (s *Store) Create(ctx context.Context, userID uint) (*models.Session, error) {
	sess := models.Session{
		Token:     uuid.NewString(),
		UserID:    userID,
		ExpiresAt: time.Now().Add(s.ttl),
	}
	if err := s.db.WithContext(ctx).Create(&sess).Error; err != nil {
		return nil, err
	}
	return &sess, nil
}

// Resolve looks up a token and returns the identity behind it. An expired
// row is treated as absent and deleted on the spot.
func (s *Store) Resolve(ctx context.Context, token string) (*Identity, error) {
	var sess models.Session
	err := s.db.WithContext(ctx).Preload("User").First(&sess, "token = ?", token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if sess.ExpiresAt.Before(time.Now()) {
		_ = s.db.WithContext(ctx).Delete(&models.Session{}, "token = ?", token).Error
		return nil, apperr.ErrNotFound
	}

	return &Identity{
		UserID:    sess.UserID,
		Email:     sess.User.Email,
		Name:      sess.User.Name,
		ExpiresAt: sess.ExpiresAt,
	}, nil
}

// Delete removes a session, i.e. logs that device out.
func (s *Store) Delete(ctx context.Context, token string) error {
	return s.db.WithContext(ctx).Delete(&models.Session{}, "token = ?", token).Error
}

// DeleteExpired sweeps all expired sessions. Called once at process start.
func (s *Store) DeleteExpired(ctx context.Context) error {
	return s.db.WithContext(ctx).Where("expires_at < ?", time.Now()).Delete(&models.Session{}).Error
}
