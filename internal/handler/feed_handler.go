package handler

import (
	"net/http"
	"strconv"
	"time"

	"cartshare/backend/internal/auth"
	"cartshare/backend/internal/database"
	"cartshare/backend/internal/hub"
	"cartshare/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

// PostInput defines the request body for creating a feed post.
type PostInput struct {
	Content string `json:"content" binding:"required"`
}

// CommentInput defines the request body for commenting on a post.
type CommentInput struct {
	Content string `json:"content" binding:"required"`
}

// PostResponse defines the structure for a feed post.
type PostResponse struct {
	ID           uint      `json:"id"`
	UserID       uint      `json:"user_id"`
	UserName     string    `json:"user_name"`
	Content      string    `json:"content"`
	LikeCount    int       `json:"like_count"`
	CommentCount int       `json:"comment_count"`
	LikedByMe    bool      `json:"liked_by_me"`
	CreatedAt    time.Time `json:"created_at"`
}

// CommentResponse defines the structure for a comment on a post.
type CommentResponse struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"user_id"`
	UserName  string    `json:"user_name"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func newPostResponse(post models.Post, viewerID uint) PostResponse {
	likedByMe := false
	for _, l := range post.Likes {
		if l.UserID == viewerID {
			likedByMe = true
			break
		}
	}
	return PostResponse{
		ID:           post.ID,
		UserID:       post.UserID,
		UserName:     post.User.Name,
		Content:      post.Content,
		LikeCount:    len(post.Likes),
		CommentCount: len(post.Comments),
		LikedByMe:    likedByMe,
		CreatedAt:    post.CreatedAt,
	}
}

// endregion

// ListFeed returns the shared feed, newest first, paginated.
func ListFeed(c *gin.Context) {
	viewerID, _ := c.Get(auth.ContextUserIDKey)

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	query := database.DB.Model(&models.Post{}).
		Preload("User").Preload("Likes").Preload("Comments").
		Order("created_at DESC, id DESC")

	result, err := Paginate[models.Post](query, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch feed"})
		return
	}

	responses := make([]PostResponse, 0, len(result.Data))
	for _, post := range result.Data {
		responses = append(responses, newPostResponse(post, viewerID.(uint)))
	}

	c.JSON(http.StatusOK, PaginatedResponse[PostResponse]{
		Data: responses,
		Meta: result.Meta,
	})
}

// CreatePost publishes a post to the shared feed and notifies the
// author's friends' listeners, best effort.
func CreatePost(c *gin.Context) {
	viewerID, _ := c.Get(auth.ContextUserIDKey)

	var input PostInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post := models.Post{
		UserID:  viewerID.(uint),
		Content: input.Content,
	}
	if err := database.DB.Create(&post).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create post"})
		return
	}
	database.DB.Preload("User").First(&post, post.ID)

	notifyFriends(c, viewerID.(uint), hub.Event{
		Type:    hub.EventFeedPost,
		Payload: gin.H{"post_id": post.ID, "user_id": viewerID},
	})

	c.JSON(http.StatusCreated, newPostResponse(post, viewerID.(uint)))
}

// ToggleLike flips the viewer's like on a post. The composite key on
// (post_id, user_id) makes this idempotent per user.
func ToggleLike(c *gin.Context) {
	viewerID, _ := c.Get(auth.ContextUserIDKey)
	postID, _ := strconv.Atoi(c.Param("id"))

	var post models.Post
	if err := database.DB.First(&post, postID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	var like models.Like
	err := database.DB.Where("post_id = ? AND user_id = ?", post.ID, viewerID).First(&like).Error
	if err == nil {
		if err := database.DB.Where("post_id = ? AND user_id = ?", post.ID, viewerID).
			Delete(&models.Like{}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unlike post"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"liked": false})
		return
	}

	like = models.Like{PostID: post.ID, UserID: viewerID.(uint)}
	if err := database.DB.Create(&like).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to like post"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"liked": true})
}

// ListComments returns a post's comments, oldest first.
func ListComments(c *gin.Context) {
	postID, _ := strconv.Atoi(c.Param("id"))

	var post models.Post
	if err := database.DB.First(&post, postID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	var comments []models.Comment
	if err := database.DB.Preload("User").Where("post_id = ?", post.ID).
		Order("created_at ASC, id ASC").Find(&comments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comments"})
		return
	}

	responses := make([]CommentResponse, 0, len(comments))
	for _, comment := range comments {
		responses = append(responses, CommentResponse{
			ID:        comment.ID,
			UserID:    comment.UserID,
			UserName:  comment.User.Name,
			Content:   comment.Content,
			CreatedAt: comment.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, responses)
}

// CreateComment appends a comment to a post. Comments are append-only;
// there is no edit or delete.
func CreateComment(c *gin.Context) {
	viewerID, _ := c.Get(auth.ContextUserIDKey)
	postID, _ := strconv.Atoi(c.Param("id"))

	var input CommentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var post models.Post
	if err := database.DB.First(&post, postID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	comment := models.Comment{
		PostID:  post.ID,
		UserID:  viewerID.(uint),
		Content: input.Content,
	}
	if err := database.DB.Create(&comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create comment"})
		return
	}
	database.DB.Preload("User").First(&comment, comment.ID)

	c.JSON(http.StatusCreated, CommentResponse{
		ID:        comment.ID,
		UserID:    comment.UserID,
		UserName:  comment.User.Name,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
	})
}

// notifyFriends pushes an event to all accepted friends of userID.
func notifyFriends(c *gin.Context, userID uint, event hub.Event) {
	entries, err := friends.ListForUser(c.Request.Context(), userID)
	if err != nil {
		return
	}
	var ids []uint
	for _, e := range entries {
		if e.Status == models.StatusAccepted {
			ids = append(ids, e.OtherUserID)
		}
	}
	notifier.NotifyAll(ids, event)
}
