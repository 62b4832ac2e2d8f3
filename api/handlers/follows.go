package handlers

import (
	"errors"
	"net/http"

	"microblog/services"

	"github.com/gin-gonic/gin"
)

var followService = services.NewFollowService()

// ToggleFollow подписывает/отписывает текущего пользователя
func ToggleFollow(c *gin.Context) {
	var req struct {
		FolloweeID         int64 `json:"followee_id" binding:"required"`
		CurrentlyFollowing bool  `json:"currently_following"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	following, err := followService.ToggleFollow(c.Request.Context(), userID.(int64), req.FolloweeID, req.CurrentlyFollowing)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to toggle follow"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"following": following})
}

// GetFollowees возвращает список подписок текущего пользователя
func GetFollowees(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	users, err := followService.GetFollowees(c.Request.Context(), userID.(int64))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get followees"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"followees": users})
}
