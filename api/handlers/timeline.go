package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"microblog/services"

	"github.com/gin-gonic/gin"
)

var timelineService = services.NewTimelineService()

// GetTimeline возвращает страницу ленты.
// Параметры: filter=all|following, cursor (опционально), limit (по умолчанию 20)
func GetTimeline(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	filter := c.DefaultQuery("filter", services.FilterAll)
	cursor := c.Query("cursor")

	limit := services.DefaultTimelineLimit
	if limitStr := c.Query("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	page, err := timelineService.GetTimeline(c.Request.Context(), userID.(int64), filter, cursor, limit)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get timeline"})
		return
	}

	c.JSON(http.StatusOK, page)
}
