package handler

import (
	"net/http"
	"strconv"

	"cartshare/backend/internal/auth"
	"cartshare/backend/internal/database"
	"cartshare/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

// ItemInput defines the request body for creating a shopping-list item.
type ItemInput struct {
	Name     string `json:"name" binding:"required"`
	Quantity int    `json:"quantity" binding:"omitempty,min=1"`
}

// ItemResponse defines the structure for a shopping-list item.
type ItemResponse struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Checked  bool   `json:"checked"`
}

func newItemResponse(item models.Item) ItemResponse {
	return ItemResponse{
		ID:       item.ID,
		Name:     item.Name,
		Quantity: item.Quantity,
		Checked:  item.Checked,
	}
}

// endregion

// ListItems returns the viewer's shopping list, newest first.
func ListItems(c *gin.Context) {
	viewerID, _ := c.Get(auth.ContextUserIDKey)

	var items []models.Item
	if err := database.DB.Where("user_id = ?", viewerID).
		Order("created_at DESC, id DESC").Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch items"})
		return
	}

	responses := make([]ItemResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, newItemResponse(item))
	}

	c.JSON(http.StatusOK, responses)
}

// CreateItem adds an item to the viewer's list.
func CreateItem(c *gin.Context) {
	viewerID, _ := c.Get(auth.ContextUserIDKey)

	var input ItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Quantity == 0 {
		input.Quantity = 1
	}

	item := models.Item{
		UserID:   viewerID.(uint),
		Name:     input.Name,
		Quantity: input.Quantity,
	}
	if err := database.DB.Create(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create item"})
		return
	}

	c.JSON(http.StatusCreated, newItemResponse(item))
}

// ToggleItem flips an item's checked flag. Owner-scoped: someone else's
// item id behaves as if it does not exist.
func ToggleItem(c *gin.Context) {
	viewerID, _ := c.Get(auth.ContextUserIDKey)
	itemID, _ := strconv.Atoi(c.Param("id"))

	var item models.Item
	if err := database.DB.Where("user_id = ?", viewerID).First(&item, itemID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}

	if err := database.DB.Model(&item).Update("checked", !item.Checked).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to toggle item"})
		return
	}
	item.Checked = !item.Checked

	c.JSON(http.StatusOK, newItemResponse(item))
}

// DeleteItem removes an item from the viewer's list.
func DeleteItem(c *gin.Context) {
	viewerID, _ := c.Get(auth.ContextUserIDKey)
	itemID, _ := strconv.Atoi(c.Param("id"))

	result := database.DB.Where("user_id = ?", viewerID).Delete(&models.Item{}, itemID)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete item"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Item deleted"})
}
