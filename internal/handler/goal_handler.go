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

// GoalInput defines the request body for creating a goal.
type GoalInput struct {
	Title string `json:"title" binding:"required"`
	Note  string `json:"note"`
}

// GoalResponse defines the structure for a goal.
type GoalResponse struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Note      string    `json:"note"`
	Public    bool      `json:"public"`
	CreatedAt time.Time `json:"created_at"`
}

func newGoalResponse(goal models.Goal) GoalResponse {
	return GoalResponse{
		ID:        goal.ID,
		Title:     goal.Title,
		Note:      goal.Note,
		Public:    goal.Public,
		CreatedAt: goal.CreatedAt,
	}
}

// endregion

// ListGoals returns the viewer's goals, newest first, private ones included.
func ListGoals(c *gin.Context) {
	viewerID, _ := c.Get(auth.ContextUserIDKey)

	var goals []models.Goal
	if err := database.DB.Where("user_id = ?", viewerID).
		Order("created_at DESC, id DESC").Find(&goals).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch goals"})
		return
	}

	responses := make([]GoalResponse, 0, len(goals))
	for _, goal := range goals {
		responses = append(responses, newGoalResponse(goal))
	}

	c.JSON(http.StatusOK, responses)
}

// CreateGoal adds a private goal for the viewer.
func CreateGoal(c *gin.Context) {
	viewerID, _ := c.Get(auth.ContextUserIDKey)

	var input GoalInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	goal := models.Goal{
		UserID: viewerID.(uint),
		Title:  input.Title,
		Note:   input.Note,
	}
	if err := database.DB.Create(&goal).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create goal"})
		return
	}

	c.JSON(http.StatusCreated, newGoalResponse(goal))
}

// PublishGoal makes a goal public. The transition is one-way and
// idempotent: publishing an already-public goal changes nothing. First
// publication also announces the goal on the shared feed.
func PublishGoal(c *gin.Context) {
	viewerID, _ := c.Get(auth.ContextUserIDKey)
	goalID, _ := strconv.Atoi(c.Param("id"))

	var goal models.Goal
	if err := database.DB.Where("user_id = ?", viewerID).First(&goal, goalID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Goal not found"})
		return
	}

	if goal.Public {
		c.JSON(http.StatusOK, newGoalResponse(goal))
		return
	}

	if err := database.DB.Model(&goal).Update("public", true).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to publish goal"})
		return
	}
	goal.Public = true

	// Integration point: publication emits a feed post.
	post := models.Post{
		UserID:  viewerID.(uint),
		Content: "New goal: " + goal.Title,
	}
	if err := database.DB.Create(&post).Error; err == nil {
		notifyFriends(c, viewerID.(uint), hub.Event{
			Type:    hub.EventFeedPost,
			Payload: gin.H{"post_id": post.ID, "user_id": viewerID, "goal_id": goal.ID},
		})
	}

	c.JSON(http.StatusOK, newGoalResponse(goal))
}
