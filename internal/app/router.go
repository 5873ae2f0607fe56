package app

import (
	"americano_backend/docs"
	"americano_backend/internal/config"
	"americano_backend/internal/middleware"
	"americano_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/auth/register", c.auth.Register)
		public.POST("/auth/login", c.auth.Login)
	}

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		authGroup.GET("/auth/me", c.auth.Me)

		authGroup.GET("/users/me", c.user.GetProfile)
		authGroup.PUT("/users/me", c.user.UpdateProfile)
		authGroup.DELETE("/users/me", c.user.DeleteAccount)

		// Streaks
		authGroup.POST("/streaks/activity", c.streak.RecordActivity)
		authGroup.GET("/streaks", c.streak.GetStreak)
		authGroup.GET("/streaks/leaderboard", c.streak.GetLeaderboard)

		// Achievements
		authGroup.GET("/achievements", c.achievement.GetUserAchievements)

		// Goals
		authGroup.POST("/goals", c.goal.CreateGoal)
		authGroup.GET("/goals", c.goal.GetGoals)
		authGroup.GET("/goals/:id", c.goal.GetGoal)
		authGroup.POST("/goals/:id/progress", c.goal.RecordProgress)
		authGroup.DELETE("/goals/:id", c.goal.DeleteGoal)

		// Missions and analytics
		authGroup.POST("/missions", c.mission.CreateMission)
		authGroup.GET("/missions/streak", c.mission.GetMissionStreak)
		authGroup.GET("/missions/analytics", c.mission.GetAnalytics)
		authGroup.POST("/missions/reviews", c.mission.CreateReview)
		authGroup.GET("/missions/reviews", c.mission.GetReviews)
		authGroup.GET("/missions/:id", c.mission.GetMission)
		authGroup.POST("/missions/:id/complete", c.mission.CompleteMission)
		authGroup.POST("/missions/:id/skip", c.mission.SkipMission)
		authGroup.GET("/missions/:id/feedback", c.mission.GetFeedback)

		// Behavioral patterns and insights
		authGroup.POST("/behavioral/patterns", c.behavioral.ObservePattern)
		authGroup.GET("/behavioral/patterns", c.behavioral.GetPatterns)
		authGroup.DELETE("/behavioral/patterns/:id", c.behavioral.DeletePattern)
		authGroup.POST("/behavioral/insights", c.behavioral.CreateInsight)
		authGroup.GET("/behavioral/insights", c.behavioral.GetInsights)
		authGroup.POST("/behavioral/insights/:id/acknowledge", c.behavioral.AcknowledgeInsight)
		authGroup.POST("/behavioral/insights/:id/apply", c.behavioral.MarkInsightApplied)
		authGroup.PUT("/behavioral/profile", c.behavioral.UpsertProfile)
		authGroup.GET("/behavioral/profile", c.behavioral.GetProfile)

		// Search analytics
		authGroup.POST("/search/queries", c.search.LogSearch)
		authGroup.POST("/search/queries/:id/clicks", c.search.RecordClick)
		authGroup.POST("/search/queries/:id/anonymize", c.search.Anonymize)
		authGroup.GET("/search/suggestions", c.search.GetSuggestions)
		authGroup.POST("/search/saved", c.search.CreateSavedSearch)
		authGroup.GET("/search/saved", c.search.GetSavedSearches)
		authGroup.POST("/search/alerts", c.search.CreateAlert)
		authGroup.GET("/search/alerts", c.search.GetAlerts)
		authGroup.POST("/search/alerts/:id/trigger", c.search.TriggerAlert)
		authGroup.GET("/search/stats", c.search.GetDailyStats)
	}

	// Staff-only
	staff := router.Group("/api")
	staff.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware("staff"))
	{
		staff.POST("/streaks/:userId/freezes", c.streak.GrantFreezes)
		staff.POST("/search/suggestions", c.search.SeedSuggestion)
	}
}
