package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/akazansky/survey-api/controllers"
	"github.com/akazansky/survey-api/middleware"
)

// SetupRoutes wires the resource endpoints. Identity resolution runs on
// every route and never rejects; only the admin-gated mutations do.
func SetupRoutes(r *gin.Engine) {
	r.GET("/health", controllers.HealthCheck)

	r.Use(middleware.Authenticate())

	r.POST("/login", middleware.RateLimitLogin(), controllers.Login)
	r.POST("/refresh", controllers.Refresh)

	surveys := r.Group("/surveys")
	{
		surveys.GET("", controllers.ListSurveys)
		surveys.GET("/answers", controllers.ListAnswers)
		surveys.GET("/:id", controllers.GetSurvey)
		surveys.POST("/:id/take", controllers.TakeSurvey)

		surveys.POST("", middleware.RequireAdmin(), controllers.CreateSurvey)
		surveys.PUT("/:id", middleware.RequireAdmin(), controllers.UpdateSurvey)
		surveys.DELETE("/:id", middleware.RequireAdmin(), controllers.DeleteSurvey)
	}

	questions := r.Group("/questions")
	{
		questions.GET("", controllers.ListQuestions)
		questions.GET("/:id", controllers.GetQuestion)

		questions.POST("", middleware.RequireAdmin(), controllers.CreateQuestion)
		questions.PUT("/:id", middleware.RequireAdmin(), controllers.UpdateQuestion)
		questions.DELETE("/:id", middleware.RequireAdmin(), controllers.DeleteQuestion)
	}
}
