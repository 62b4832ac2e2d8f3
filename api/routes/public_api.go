package routes

import (
	"microblog/api/handlers"
	"microblog/api/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func PublicApi(router *gin.Engine) {
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	public := router.Group("/api/v1/")
	{
		public.POST("auth/register", handlers.Register)
		public.POST("auth/login", handlers.Login)
		public.GET("user/get/:id", handlers.UserGet)
	}

	private := router.Group("/api/v1/")
	private.Use(middleware.AuthMiddleware())
	{
		private.POST("auth/logout", handlers.Logout)

		// Лента
		private.GET("timeline", handlers.GetTimeline)
		private.POST("posts/create", handlers.CreatePost)
		private.GET("ws/feed", handlers.WSFeedHandler)

		// Подписки
		private.POST("follows/toggle", handlers.ToggleFollow)
		private.GET("follows/list", handlers.GetFollowees)

		// Админские операции
		private.POST("admin/cache/invalidate/:user_id", handlers.InvalidateTimelineCache)
		private.POST("admin/celebrities/recalculate", handlers.RecalculateCelebrities)
		private.GET("admin/queue/stats", handlers.GetQueueStats)
	}
}
