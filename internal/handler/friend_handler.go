package handler

import (
	"net/http"
	"strconv"

	"cartshare/backend/internal/auth"
	"cartshare/backend/internal/hub"

	"github.com/gin-gonic/gin"
)

// InviteInput defines the request body for sending a friend invite.
type InviteInput struct {
	Email string `json:"email" binding:"required"`
}

// InviteFriend sends a friend invite to the user behind the given email.
func InviteFriend(c *gin.Context) {
	viewerID, _ := c.Get(auth.ContextUserIDKey)

	var input InviteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	row, err := friends.Invite(c.Request.Context(), viewerID.(uint), input.Email)
	if err != nil {
		fail(c, err, "Failed to send invite")
		return
	}

	notifier.Notify(row.OtherUserID(viewerID.(uint)), hub.Event{
		Type:    hub.EventFriendInvite,
		Payload: gin.H{"friendship_id": row.ID, "from_user_id": viewerID},
	})

	c.JSON(http.StatusCreated, gin.H{"friendship_id": row.ID})
}

// ListFriends returns every relationship touching the viewer, newest
// first. The client partitions the single list into incoming, outgoing and
// accepted by comparing requested_by against its own id.
func ListFriends(c *gin.Context) {
	viewerID, _ := c.Get(auth.ContextUserIDKey)

	entries, err := friends.ListForUser(c.Request.Context(), viewerID.(uint))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch friends"})
		return
	}

	c.JSON(http.StatusOK, entries)
}

// AcceptFriend flips a pending invite to accepted.
func AcceptFriend(c *gin.Context) {
	viewerID, _ := c.Get(auth.ContextUserIDKey)
	friendshipID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid friendship ID"})
		return
	}

	if err := friends.Accept(c.Request.Context(), viewerID.(uint), uint(friendshipID)); err != nil {
		fail(c, err, "Failed to accept invite")
		return
	}

	// Tell every party's listeners; cheap enough not to look up the pair.
	entries, _ := friends.ListForUser(c.Request.Context(), viewerID.(uint))
	for _, e := range entries {
		if e.FriendshipID == uint(friendshipID) {
			notifier.Notify(e.OtherUserID, hub.Event{
				Type:    hub.EventFriendAccept,
				Payload: gin.H{"friendship_id": e.FriendshipID, "by_user_id": viewerID},
			})
			break
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Invite accepted"})
}

// RemoveFriend deletes the relationship whatever its state: it cancels an
// outgoing invite, rejects an incoming one, or unfriends.
func RemoveFriend(c *gin.Context) {
	viewerID, _ := c.Get(auth.ContextUserIDKey)
	friendshipID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid friendship ID"})
		return
	}

	if err := friends.Remove(c.Request.Context(), viewerID.(uint), uint(friendshipID)); err != nil {
		fail(c, err, "Failed to remove relationship")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Relationship removed"})
}
