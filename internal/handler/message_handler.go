package handler

import (
	"net/http"
	"strconv"
	"time"

	"cartshare/backend/internal/apperr"
	"cartshare/backend/internal/auth"
	"cartshare/backend/internal/database"
	"cartshare/backend/internal/hub"
	"cartshare/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

// MessageInput defines the request body for sending a direct message.
type MessageInput struct {
	Body string `json:"body" binding:"required"`
}

// MessageResponse defines the structure for a direct message.
type MessageResponse struct {
	ID         uint      `json:"id"`
	SenderID   uint      `json:"sender_id"`
	ReceiverID uint      `json:"receiver_id"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"created_at"`
}

func newMessageResponse(m models.Message) MessageResponse {
	return MessageResponse{
		ID:         m.ID,
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		Body:       m.Body,
		CreatedAt:  m.CreatedAt,
	}
}

// endregion

// gateConversation resolves the other party and checks the viewer holds an
// accepted friendship with them. 404 when the user id does not resolve,
// 403 when the user exists but no accepted relationship does — the codes
// stay distinct on purpose.
func gateConversation(c *gin.Context, viewerID uint) (*models.User, bool) {
	otherUserID, err := strconv.ParseUint(c.Param("userID"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return nil, false
	}

	var other models.User
	if err := database.DB.First(&other, uint(otherUserID)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return nil, false
	}

	ok, err := friends.AreFriends(c.Request.Context(), viewerID, other.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check friendship"})
		return nil, false
	}
	if !ok {
		fail(c, apperr.ErrForbidden, "Only friends can exchange messages")
		return nil, false
	}

	return &other, true
}

// ListMessages returns the conversation between the viewer and the given
// user, oldest first. Friends only.
func ListMessages(c *gin.Context) {
	viewerID, _ := c.Get(auth.ContextUserIDKey)

	other, ok := gateConversation(c, viewerID.(uint))
	if !ok {
		return
	}

	var messages []models.Message
	err := database.DB.
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			viewerID, other.ID, other.ID, viewerID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
		return
	}

	responses := make([]MessageResponse, 0, len(messages))
	for _, m := range messages {
		responses = append(responses, newMessageResponse(m))
	}

	c.JSON(http.StatusOK, responses)
}

// SendMessage sends a direct message to a friend and pushes a best-effort
// notification to the receiver's listeners.
func SendMessage(c *gin.Context) {
	viewerID, _ := c.Get(auth.ContextUserIDKey)

	var input MessageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	other, ok := gateConversation(c, viewerID.(uint))
	if !ok {
		return
	}

	message := models.Message{
		SenderID:   viewerID.(uint),
		ReceiverID: other.ID,
		Body:       input.Body,
	}
	if err := database.DB.Create(&message).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message"})
		return
	}

	notifier.Notify(other.ID, hub.Event{
		Type:    hub.EventDirectMessage,
		Payload: gin.H{"message_id": message.ID, "sender_id": viewerID},
	})

	c.JSON(http.StatusCreated, newMessageResponse(message))
}
