package handlers

import (
	"net/http"
	"strconv"

	"microblog/services"

	"github.com/gin-gonic/gin"
)

var cacheInvalidator = services.NewCacheInvalidator()

// InvalidateTimelineCache сбрасывает кеш ленты пользователя (админский эндпоинт)
func InvalidateTimelineCache(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	cacheInvalidator.InvalidateForUser(c.Request.Context(), userID)
	c.JSON(http.StatusOK, gin.H{"message": "Cache invalidated"})
}

// RecalculateCelebrities пересчитывает флаги селебрити (админский эндпоинт)
func RecalculateCelebrities(c *gin.Context) {
	count, err := userService.RecalculateCelebrityFlags(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to recalculate celebrity flags"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"celebrities": count})
}

// GetQueueStats возвращает статистику очереди fan-out (админский эндпоинт)
func GetQueueStats(c *gin.Context) {
	if services.QueueServiceInstance == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Queue service not available"})
		return
	}

	queueLength, err := services.QueueServiceInstance.GetQueueStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get queue stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"queue_length": queueLength,
		"workers":      services.QUEUE_WORKER_COUNT,
	})
}
