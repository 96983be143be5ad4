package handler

import (
	"net/http"
	"strconv"

	"cartshare/backend/internal/apperr"
	"cartshare/backend/internal/auth"
	"cartshare/backend/internal/database"
	"cartshare/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

// PublicUserResponse defines the structure for a user in search results.
type PublicUserResponse struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ProfileResponse is a friend's view of a user: identity plus whatever
// that user chose to make visible (public goals, recent feed posts).
type ProfileResponse struct {
	ID          uint           `json:"id"`
	Name        string         `json:"name"`
	Email       string         `json:"email"`
	PublicGoals []GoalResponse `json:"public_goals"`
	RecentPosts []PostResponse `json:"recent_posts"`
}

// endregion

// SearchUsers searches for users by name or email, paginated.
func SearchUsers(c *gin.Context) {
	viewerID, _ := c.Get(auth.ContextUserIDKey)
	searchQuery := c.Query("q")

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100 // Max limit
	}

	query := database.DB.Model(&models.User{}).Where("id <> ?", viewerID)
	if searchQuery != "" {
		// LOWER/LIKE instead of ILIKE so the same query runs on sqlite.
		pattern := "%" + searchQuery + "%"
		query = query.Where("LOWER(name) LIKE LOWER(?) OR LOWER(email) LIKE LOWER(?)", pattern, pattern)
	}

	result, err := Paginate[models.User](query, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve users"})
		return
	}

	userResponses := make([]PublicUserResponse, 0, len(result.Data))
	for _, user := range result.Data {
		userResponses = append(userResponses, PublicUserResponse{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
		})
	}

	c.JSON(http.StatusOK, PaginatedResponse[PublicUserResponse]{
		Data: userResponses,
		Meta: result.Meta,
	})
}

// GetUserByID retrieves another user's profile. The target must exist
// (404 otherwise) and the viewer must hold an accepted friendship with
// them (403 otherwise); the two cases are deliberately distinct codes.
func GetUserByID(c *gin.Context) {
	viewerID, _ := c.Get(auth.ContextUserIDKey)
	targetUserID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	// Viewing yourself is the private profile.
	if viewerID.(uint) == uint(targetUserID) {
		GetMe(c)
		return
	}

	var targetUser models.User
	if err := database.DB.First(&targetUser, uint(targetUserID)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	ok, err := friends.AreFriends(c.Request.Context(), viewerID.(uint), targetUser.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check friendship"})
		return
	}
	if !ok {
		fail(c, apperr.ErrForbidden, "Only friends can view this profile")
		return
	}

	var goals []models.Goal
	database.DB.Where("user_id = ? AND public = ?", targetUser.ID, true).
		Order("created_at DESC").Find(&goals)

	var posts []models.Post
	database.DB.Preload("Likes").Preload("Comments").
		Where("user_id = ?", targetUser.ID).
		Order("created_at DESC").Limit(10).Find(&posts)

	resp := ProfileResponse{
		ID:          targetUser.ID,
		Name:        targetUser.Name,
		Email:       targetUser.Email,
		PublicGoals: make([]GoalResponse, 0, len(goals)),
		RecentPosts: make([]PostResponse, 0, len(posts)),
	}
	for _, g := range goals {
		resp.PublicGoals = append(resp.PublicGoals, newGoalResponse(g))
	}
	for _, p := range posts {
		resp.RecentPosts = append(resp.RecentPosts, newPostResponse(p, viewerID.(uint)))
	}

	c.JSON(http.StatusOK, resp)
}
