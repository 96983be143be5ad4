package friendship_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"cartshare/backend/internal/apperr"
	"cartshare/backend/internal/database"
	"cartshare/backend/internal/friendship"
	"cartshare/backend/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.ConnectTest()
	require.NoError(t, err)
	return db
}

func createUser(t *testing.T, db *gorm.DB, name string) models.User {
	t.Helper()
	user := models.User{
		Name:         name,
		Email:        fmt.Sprintf("%s@example.com", name),
		PasswordHash: "x",
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func TestCanonicalPairSymmetry(t *testing.T) {
	a1, b1 := friendship.CanonicalPair(1, 2)
	a2, b2 := friendship.CanonicalPair(2, 1)
	assert.Equal(t, a1, a2)
	assert.Equal(t, b1, b2)
	assert.Less(t, a1, b1)

	a3, b3 := friendship.CanonicalPair(7, 7)
	assert.Equal(t, uint(7), a3)
	assert.Equal(t, uint(7), b3)
}

func TestInviteCreatesPendingRow(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := friendship.NewService(db)

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	row, err := svc.Invite(ctx, alice.ID, bob.Email)
	require.NoError(t, err)

	assert.Equal(t, models.StatusPending, row.Status)
	assert.Equal(t, alice.ID, row.RequestedBy)
	assert.Less(t, row.UserAID, row.UserBID)
}

func TestInviteValidation(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := friendship.NewService(db)

	alice := createUser(t, db, "alice")

	_, err := svc.Invite(ctx, alice.ID, "not-an-email")
	assert.ErrorIs(t, err, apperr.ErrInvalidOperation)

	_, err = svc.Invite(ctx, alice.ID, alice.Email)
	assert.ErrorIs(t, err, apperr.ErrInvalidOperation)

	_, err = svc.Invite(ctx, alice.ID, "nobody@example.com")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestInviteDuplicateEitherDirectionConflicts(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := friendship.NewService(db)

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	_, err := svc.Invite(ctx, alice.ID, bob.Email)
	require.NoError(t, err)

	// Same direction again.
	_, err = svc.Invite(ctx, alice.ID, bob.Email)
	assert.ErrorIs(t, err, apperr.ErrConflict)

	// Opposite direction resolves to the same canonical pair.
	_, err = svc.Invite(ctx, bob.ID, alice.Email)
	assert.ErrorIs(t, err, apperr.ErrConflict)

	var count int64
	require.NoError(t, db.Model(&models.Friendship{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestAcceptedPairConflictsOnReinvite(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := friendship.NewService(db)

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	row, err := svc.Invite(ctx, alice.ID, bob.Email)
	require.NoError(t, err)
	require.NoError(t, svc.Accept(ctx, bob.ID, row.ID))

	// Conflict is undifferentiated: already-friends looks the same as
	// already-pending at the API surface.
	_, err = svc.Invite(ctx, alice.ID, bob.Email)
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestAcceptVisibleFromBothSides(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := friendship.NewService(db)

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	row, err := svc.Invite(ctx, alice.ID, bob.Email)
	require.NoError(t, err)
	require.NoError(t, svc.Accept(ctx, bob.ID, row.ID))

	for _, u := range []models.User{alice, bob} {
		entries, err := svc.ListForUser(ctx, u.ID)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, models.StatusAccepted, entries[0].Status)
		assert.False(t, entries[0].CanAccept)
	}
}

func TestAcceptErrors(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := friendship.NewService(db)

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	carol := createUser(t, db, "carol")

	row, err := svc.Invite(ctx, alice.ID, bob.Email)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Accept(ctx, carol.ID, row.ID), apperr.ErrForbidden)
	assert.ErrorIs(t, svc.Accept(ctx, bob.ID, row.ID+100), apperr.ErrNotFound)
}

func TestRemoveErrors(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := friendship.NewService(db)

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	carol := createUser(t, db, "carol")

	row, err := svc.Invite(ctx, alice.ID, bob.Email)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Remove(ctx, carol.ID, row.ID), apperr.ErrForbidden)
	assert.ErrorIs(t, svc.Remove(ctx, bob.ID, row.ID+100), apperr.ErrNotFound)
}

func TestRemoveDeletesRegardlessOfStatus(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := friendship.NewService(db)

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	// Pending: requester cancels their own invite.
	row, err := svc.Invite(ctx, alice.ID, bob.Email)
	require.NoError(t, err)
	require.NoError(t, svc.Remove(ctx, alice.ID, row.ID))

	var count int64
	require.NoError(t, db.Model(&models.Friendship{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)

	// The pair is absent again, so a fresh invite succeeds.
	row, err = svc.Invite(ctx, bob.ID, alice.Email)
	require.NoError(t, err)
	require.NoError(t, svc.Accept(ctx, alice.ID, row.ID))

	// Accepted: either party unfriends.
	require.NoError(t, svc.Remove(ctx, bob.ID, row.ID))
	require.NoError(t, db.Model(&models.Friendship{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestAreFriendsLifecycle(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := friendship.NewService(db)

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	ok, err := svc.AreFriends(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, ok, "absent pair")

	row, err := svc.Invite(ctx, alice.ID, bob.Email)
	require.NoError(t, err)

	ok, err = svc.AreFriends(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, ok, "pending is not friends")

	require.NoError(t, svc.Accept(ctx, bob.ID, row.ID))

	// Symmetric in both argument orders.
	ok, err = svc.AreFriends(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = svc.AreFriends(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, svc.Remove(ctx, bob.ID, row.ID))

	ok, err = svc.AreFriends(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, ok, "removed pair")
}

func TestListForUserAnnotationsAndOrder(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := friendship.NewService(db)

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	carol := createUser(t, db, "carol")

	first, err := svc.Invite(ctx, bob.ID, alice.Email)
	require.NoError(t, err)
	// Make the ordering deterministic even at equal timestamps.
	require.NoError(t, db.Model(first).Update("created_at", time.Now().Add(-time.Minute)).Error)

	second, err := svc.Invite(ctx, alice.ID, carol.Email)
	require.NoError(t, err)

	entries, err := svc.ListForUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Newest first.
	assert.Equal(t, second.ID, entries[0].FriendshipID)
	assert.Equal(t, first.ID, entries[1].FriendshipID)

	// Outgoing invite to carol: alice cannot accept her own request.
	assert.Equal(t, carol.ID, entries[0].OtherUserID)
	assert.Equal(t, carol.Email, entries[0].OtherEmail)
	assert.Equal(t, alice.ID, entries[0].RequestedBy)
	assert.False(t, entries[0].CanAccept)

	// Incoming invite from bob: alice can accept.
	assert.Equal(t, bob.ID, entries[1].OtherUserID)
	assert.Equal(t, "bob", entries[1].OtherName)
	assert.Equal(t, bob.ID, entries[1].RequestedBy)
	assert.True(t, entries[1].CanAccept)

	// Bob's perspective of the same row: no accept for the requester.
	bobEntries, err := svc.ListForUser(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, bobEntries, 1)
	assert.False(t, bobEntries[0].CanAccept)
}

// End-to-end walk of the state machine exactly as a client would drive it.
func TestInviteAcceptRemoveReinviteScenario(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := friendship.NewService(db)

	a := createUser(t, db, "a")
	b := createUser(t, db, "b")

	row, err := svc.Invite(ctx, a.ID, b.Email)
	require.NoError(t, err)
	assert.Equal(t, a.ID, row.UserAID)
	assert.Equal(t, b.ID, row.UserBID)
	assert.Equal(t, models.StatusPending, row.Status)
	assert.Equal(t, a.ID, row.RequestedBy)

	require.NoError(t, svc.Accept(ctx, b.ID, row.ID))

	ok, err := svc.AreFriends(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, svc.Remove(ctx, b.ID, row.ID))

	ok, err = svc.AreFriends(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = svc.Invite(ctx, a.ID, b.Email)
	require.NoError(t, err)
}
